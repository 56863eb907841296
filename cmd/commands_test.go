package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mj1618/backtick/internal/helper"
	"github.com/mj1618/backtick/internal/model"
	"github.com/mj1618/backtick/internal/platform"
)

// stubDesktop is a window server with two editor windows.
type stubDesktop struct {
	mu        sync.Mutex
	activated []int
}

func (d *stubDesktop) ListWindows(platform.ListOptions) ([]model.Window, error) {
	return []model.Window{
		{App: "Code", PID: 42, ID: 10, Title: "main.go — api"},
		{App: "Code", PID: 42, ID: 11, Title: "README.md — docs"},
	}, nil
}

func (d *stubDesktop) AccessibilityWindowTitles(int) ([]string, error) { return nil, nil }

func (d *stubDesktop) FrontmostApp() (model.App, error) {
	return model.App{Name: "Code", BundleID: model.DefaultEditorBundleID, PID: 42}, nil
}

func (d *stubDesktop) RunningApp(string) (model.App, error) { return model.App{}, platform.ErrAppNotRunning }

func (d *stubDesktop) ActivateWindow(id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activated = append(d.activated, id)
	return nil
}

func (d *stubDesktop) IsTrusted() bool    { return true }
func (d *stubDesktop) RequestTrust() bool { return true }

// startTestHelper runs a helper in-process and returns its socket path and
// a config file for the commands under test.
func startTestHelper(t *testing.T, d *stubDesktop) (socket, configPath string) {
	t.Helper()
	dir, err := os.MkdirTemp("", "bt")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	socket = filepath.Join(dir, "h.sock")
	configPath = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("timeout: 2s\nactivationMode: manual\n"), 0o600))

	srv := helper.New(helper.Config{SocketPath: socket, Version: "test"},
		&platform.Provider{Reader: d, WindowManager: d, Permissions: d}, nil)
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return socket, configPath
}

// execute runs the root command with args and returns what it wrote
// through cobra's output streams.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetFlags restores every flag to its default so tests do not leak
// values into each other through the shared command tree.
func resetFlags(cmd *cobra.Command) {
	for _, fs := range []*pflag.FlagSet{cmd.PersistentFlags(), cmd.Flags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestSend_GetStatus(t *testing.T) {
	socket, configPath := startTestHelper(t, &stubDesktop{})

	out, err := execute(t, "send", "getStatus", "--socket", socket, "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"hasAccessibilityPermission":true`)
}

func TestSend_RawReply(t *testing.T) {
	socket, configPath := startTestHelper(t, &stubDesktop{})

	out, err := execute(t, "send", "bogus", "--raw", "--socket", socket, "--config", configPath)
	require.NoError(t, err)
	assert.Equal(t, "ERROR:Unknown command", strings.TrimSpace(out))
}

func TestSend_HelperError(t *testing.T) {
	socket, configPath := startTestHelper(t, &stubDesktop{})

	_, err := execute(t, "send", "activateWindow", "{}", "--socket", socket, "--config", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to parse activate window request")
}

func TestSend_RejectsColonInCommand(t *testing.T) {
	_, err := execute(t, "send", "getWindows:{}", "--socket", "/nonexistent.sock")
	assert.Error(t, err)
}

func TestSwitch_ActivatesSecondWindow(t *testing.T) {
	d := &stubDesktop{}
	socket, configPath := startTestHelper(t, d)

	_, err := execute(t, "switch", "--direction", "instant", "--socket", socket, "--config", configPath)
	require.NoError(t, err)
	assert.Equal(t, []int{11}, d.activated)
}

func TestSwitch_DryRunDoesNotActivate(t *testing.T) {
	d := &stubDesktop{}
	socket, configPath := startTestHelper(t, d)

	_, err := execute(t, "switch", "--dry-run", "--socket", socket, "--config", configPath)
	require.NoError(t, err)
	assert.Empty(t, d.activated)
}

func TestSwitch_BadDirection(t *testing.T) {
	_, err := execute(t, "switch", "--direction", "sideways", "--socket", "/nonexistent.sock")
	assert.Error(t, err)
}

func TestStop(t *testing.T) {
	socket, configPath := startTestHelper(t, &stubDesktop{})

	out, err := execute(t, "stop", "--socket", socket, "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "helper stopped")

	require.Eventually(t, func() bool {
		_, err := os.Stat(socket)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)

	_, err = execute(t, "stop", "--socket", socket, "--config", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no helper is running")
}

func TestProbe(t *testing.T) {
	d := &stubDesktop{}
	socket, configPath := startTestHelper(t, d)

	out, err := execute(t, "probe", "--activate", "--socket", socket, "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Testing getStatus")
	assert.Contains(t, out, "found 2 windows")
	assert.Contains(t, out, "activated window 11")
	assert.NotContains(t, out, "\x1b[", "colours are off when not writing to a terminal")
	assert.Equal(t, []int{11}, d.activated)
}

func TestProbe_HelperDown(t *testing.T) {
	dir, err := os.MkdirTemp("", "bt")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	out, err := execute(t, "probe", "--socket", filepath.Join(dir, "none.sock"))
	require.Error(t, err)
	assert.Contains(t, out, "failed")
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "windows", "--format", "xml", "--socket", "/nonexistent.sock")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestWindowsRequestOverrides(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { cfg = saved })
	cfg.NewWindowPosition = model.PositionTop
	cfg.ActivationMode = model.ModeAutomatic
	require.NoError(t, windowsCmd.Flags().Set("new-window-position", "bottom"))
	t.Cleanup(func() { resetFlags(windowsCmd) })

	req, err := windowsRequest(windowsCmd)
	require.NoError(t, err)
	assert.Equal(t, model.PositionBottom, req.NewWindowPosition)
	assert.Equal(t, model.ModeAutomatic, req.ActivationMode)

	require.NoError(t, windowsCmd.Flags().Set("activation-mode", "sometimes"))
	_, err = windowsRequest(windowsCmd)
	assert.Error(t, err)
}

func TestHelperConfigPath(t *testing.T) {
	t.Cleanup(func() { resetFlags(rootCmd) })

	path, err := helperConfigPath()
	require.NoError(t, err)
	assert.Empty(t, path)

	require.NoError(t, rootCmd.PersistentFlags().Set("config", "backtick.yaml"))
	path, err = helperConfigPath()
	require.NoError(t, err)
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "backtick.yaml"), path)
}
