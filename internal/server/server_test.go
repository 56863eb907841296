package server

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/backtick/internal/client"
	"github.com/mj1618/backtick/internal/helper"
	"github.com/mj1618/backtick/internal/model"
	"github.com/mj1618/backtick/internal/platform"
)

const editorPID = 42

// fakeDesktop is a minimal window server with three editor windows.
type fakeDesktop struct {
	mu        sync.Mutex
	windows   []model.Window
	lists     int
	activated []int
}

func newDesktop() *fakeDesktop {
	return &fakeDesktop{windows: []model.Window{
		{App: "Code", PID: editorPID, ID: 10, Title: "main.go — api", Bounds: [4]int{0, 0, 800, 600}},
		{App: "Code", PID: editorPID, ID: 11, Title: "README.md — docs", Bounds: [4]int{40, 40, 800, 600}},
		{App: "Code", PID: editorPID, ID: 12, Title: "notes.txt — scratch", Bounds: [4]int{80, 80, 800, 600}},
		{App: "Finder", PID: 7, ID: 99, Title: "Downloads", Bounds: [4]int{0, 0, 400, 300}},
	}}
}

func (d *fakeDesktop) ListWindows(opts platform.ListOptions) ([]model.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lists++
	var out []model.Window
	for _, w := range d.windows {
		if opts.PID != 0 && w.PID != opts.PID {
			continue
		}
		if opts.App != "" && w.App != opts.App {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (d *fakeDesktop) AccessibilityWindowTitles(int) ([]string, error) { return nil, nil }

func (d *fakeDesktop) FrontmostApp() (model.App, error) {
	return model.App{Name: "Code", BundleID: model.DefaultEditorBundleID, PID: editorPID}, nil
}

func (d *fakeDesktop) RunningApp(string) (model.App, error) {
	return model.App{}, platform.ErrAppNotRunning
}

func (d *fakeDesktop) ActivateWindow(id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, w := range d.windows {
		if w.ID == id {
			d.activated = append(d.activated, id)
			d.windows = append(append([]model.Window{w}, d.windows[:i]...), d.windows[i+1:]...)
			return nil
		}
	}
	return platform.ErrWindowNotFound
}

func (d *fakeDesktop) IsTrusted() bool    { return true }
func (d *fakeDesktop) RequestTrust() bool { return true }

func (d *fakeDesktop) provider() *platform.Provider {
	return &platform.Provider{Reader: d, WindowManager: d, Permissions: d}
}

func shortSocketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "bt")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "h.sock")
}

// newTestServer runs a helper over d and returns an MCP server talking to it.
func newTestServer(t *testing.T, d *fakeDesktop, ttl time.Duration) *Server {
	t.Helper()
	path := shortSocketPath(t)
	h := helper.New(helper.Config{SocketPath: path, Version: "test"}, d.provider(), nil)
	require.NoError(t, h.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	c := client.New(path, client.WithTimeout(2*time.Second))
	return New(c, d.provider(), Config{Version: "test", CacheTTL: ttl, Windows: model.DefaultGetWindowsRequest()})
}

func call(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t, newDesktop(), 0)
	result, err := s.handleStatus(context.Background(), call(nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var got statusResult
	require.NoError(t, yaml.Unmarshal([]byte(resultText(t, result)), &got))
	assert.True(t, got.Running)
	require.NotNil(t, got.Status)
	assert.True(t, got.Status.HasAccessibilityPermission)
}

func TestHandleStatus_NotRunning(t *testing.T) {
	s := New(client.New(shortSocketPath(t)), nil, Config{})
	result, err := s.handleStatus(context.Background(), call(nil))
	require.NoError(t, err)

	var got statusResult
	require.NoError(t, yaml.Unmarshal([]byte(resultText(t, result)), &got))
	assert.False(t, got.Running)
	assert.Contains(t, got.Error, "not running")
}

func TestHandleWindows(t *testing.T) {
	s := newTestServer(t, newDesktop(), 0)
	result, err := s.handleWindows(context.Background(), call(map[string]interface{}{"activation-mode": "manual"}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var windows []model.WindowInfo
	require.NoError(t, yaml.Unmarshal([]byte(resultText(t, result)), &windows))
	require.Len(t, windows, 3)
	assert.Equal(t, 10, windows[0].ID)
}

func TestHandleWindows_BadArgument(t *testing.T) {
	s := newTestServer(t, newDesktop(), 0)
	result, err := s.handleWindows(context.Background(), call(map[string]interface{}{"new-window-position": "sideways"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleActivate(t *testing.T) {
	d := newDesktop()
	s := newTestServer(t, d, 0)

	result, err := s.handleActivate(context.Background(), call(map[string]interface{}{"id": float64(12)}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))
	assert.Equal(t, []int{12}, d.activated)

	result, err = s.handleActivate(context.Background(), call(map[string]interface{}{"id": float64(404)}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Failed to activate window")

	result, err = s.handleActivate(context.Background(), call(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleSwitch(t *testing.T) {
	d := newDesktop()
	s := newTestServer(t, d, 0)

	result, err := s.handleSwitch(context.Background(), call(map[string]interface{}{"direction": "instant"}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))
	require.Len(t, d.activated, 1)

	var got client.SwitchResult
	require.NoError(t, yaml.Unmarshal([]byte(resultText(t, result)), &got))
	assert.Equal(t, d.activated[0], got.To.ID)
	assert.Equal(t, 1, got.Index)
}

func TestHandleSwitch_BadDirection(t *testing.T) {
	s := newTestServer(t, newDesktop(), 0)
	result, err := s.handleSwitch(context.Background(), call(map[string]interface{}{"direction": "up"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleList_UsesCache(t *testing.T) {
	d := newDesktop()
	s := newTestServer(t, d, time.Minute)
	args := map[string]interface{}{"app": "Finder"}

	for i := 0; i < 3; i++ {
		result, err := s.handleList(context.Background(), call(args))
		require.NoError(t, err)
		require.False(t, result.IsError)
	}
	assert.Equal(t, 1, d.lists)

	result, err := s.handleList(context.Background(), call(args))
	require.NoError(t, err)
	var windows []model.Window
	require.NoError(t, yaml.Unmarshal([]byte(resultText(t, result)), &windows))
	require.Len(t, windows, 1)
	assert.Equal(t, "Downloads", windows[0].Title)

	_, err = s.handleActivate(context.Background(), call(map[string]interface{}{"id": float64(11)}))
	require.NoError(t, err)
	before := d.lists
	_, err = s.handleList(context.Background(), call(args))
	require.NoError(t, err)
	assert.Greater(t, d.lists, before, "activate must invalidate the cache")
}

func TestHandleList_NoProvider(t *testing.T) {
	s := New(client.New("/nonexistent.sock"), nil, Config{})
	result, err := s.handleList(context.Background(), call(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServe_UnsupportedTransport(t *testing.T) {
	s := New(client.New("/nonexistent.sock"), nil, Config{Transport: "carrier-pigeon"})
	assert.Error(t, s.Serve())
}
