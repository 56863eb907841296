// Package launcher starts the helper as a detached background process and
// waits for it to answer on its socket.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mj1618/backtick/internal/client"
	"github.com/mj1618/backtick/internal/model"
)

// DefaultPollInterval is how often Start checks whether the helper is up.
const DefaultPollInterval = 100 * time.Millisecond

// ErrNotReady is returned when the helper does not answer within the start timeout.
var ErrNotReady = errors.New("helper did not become ready")

// SpawnFunc starts exe with args and returns the new process ID without
// waiting for it.
type SpawnFunc func(exe string, args []string) (int, error)

// Launcher manages the helper process lifecycle.
type Launcher struct {
	Client       *client.Client
	Executable   string
	StartTimeout time.Duration
	PollInterval time.Duration
	Processes    ProcessManager
	Spawn        SpawnFunc
	Logger       *zap.Logger
}

// Options controls Start.
type Options struct {
	RequestPermission bool   // Show the accessibility prompt when permission is missing
	Verbose           bool   // Start the helper with --verbose
	ConfigPath        string // Passed to the helper as --config when set
}

// Result describes a started helper.
type Result struct {
	PID                        int    `yaml:"pid"                          json:"pid"`
	Socket                     string `yaml:"socket"                       json:"socket"`
	HasAccessibilityPermission bool   `yaml:"accessibility"                json:"hasAccessibilityPermission"`
	PermissionRequested        bool   `yaml:"permission_requested"         json:"permissionRequested"`
	ReplacedRunning            bool   `yaml:"replaced_running,omitempty"   json:"replacedRunning,omitempty"`
	Killed                     []int  `yaml:"killed,omitempty"             json:"killed,omitempty"`
}

// New returns a launcher that re-executes the current binary as the helper.
func New(c *client.Client, startTimeout time.Duration, logger *zap.Logger) (*Launcher, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Launcher{
		Client:       c,
		Executable:   exe,
		StartTimeout: startTimeout,
		PollInterval: DefaultPollInterval,
		Processes:    SystemProcesses{},
		Spawn:        SpawnDetached,
		Logger:       logger,
	}, nil
}

// Start replaces any running helper with a fresh one and waits until it
// answers getStatus.
func (l *Launcher) Start(ctx context.Context, opts Options) (Result, error) {
	result := Result{Socket: l.Client.SocketPath()}

	replaced, killed := l.stopExisting(ctx)
	result.ReplacedRunning = replaced
	result.Killed = killed

	if err := os.Remove(l.Client.SocketPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return result, fmt.Errorf("remove socket: %w", err)
	}

	args := []string{"helper", "--socket", l.Client.SocketPath()}
	if opts.ConfigPath != "" {
		args = append(args, "--config", opts.ConfigPath)
	}
	if opts.Verbose {
		args = append(args, "--verbose")
	}
	pid, err := l.Spawn(l.Executable, args)
	if err != nil {
		return result, fmt.Errorf("spawn helper: %w", err)
	}
	result.PID = pid
	l.logger().Debug("spawned helper", zap.Int("pid", pid), zap.Strings("args", args))

	status, err := l.WaitReady(ctx)
	if err != nil {
		return result, err
	}
	if status.PID != 0 {
		result.PID = status.PID
	}
	result.HasAccessibilityPermission = status.HasAccessibilityPermission

	if !status.HasAccessibilityPermission && opts.RequestPermission {
		if err := l.Client.RequestPermission(ctx); err != nil {
			return result, fmt.Errorf("request permission: %w", err)
		}
		result.PermissionRequested = true
	}
	return result, nil
}

// stopExisting asks a running helper to shut down, then kills any helper
// processes that remain.
func (l *Launcher) stopExisting(ctx context.Context) (bool, []int) {
	replaced := false
	if err := l.Client.Shutdown(ctx); err == nil {
		replaced = true
		l.waitGone(ctx)
	} else if !errors.Is(err, client.ErrHelperNotRunning) {
		l.logger().Debug("shutdown of existing helper failed", zap.Error(err))
	}

	if l.Processes == nil {
		return replaced, nil
	}
	pids, err := l.Processes.FindHelpers(l.Executable, l.Client.SocketPath())
	if err != nil {
		l.logger().Debug("list processes failed", zap.Error(err))
		return replaced, nil
	}
	var killed []int
	for _, pid := range pids {
		if err := l.Processes.Kill(pid); err != nil {
			l.logger().Debug("kill helper failed", zap.Int("pid", pid), zap.Error(err))
			continue
		}
		killed = append(killed, pid)
	}
	return replaced, killed
}

// waitGone waits briefly for a helper that acknowledged shutdown to stop
// answering.
func (l *Launcher) waitGone(ctx context.Context) {
	deadline := time.Now().Add(l.startTimeout())
	for time.Now().Before(deadline) && l.Client.Ping(ctx) {
		if !sleep(ctx, l.pollInterval()) {
			return
		}
	}
}

// WaitReady polls getStatus until the helper answers or the start timeout
// passes.
func (l *Launcher) WaitReady(ctx context.Context) (model.Status, error) {
	ctx, cancel := context.WithTimeout(ctx, l.startTimeout())
	defer cancel()

	var lastErr error
	for {
		status, err := l.Client.GetStatus(ctx)
		if err == nil {
			return status, nil
		}
		lastErr = err
		if !sleep(ctx, l.pollInterval()) {
			return model.Status{}, fmt.Errorf("%w within %s: %v", ErrNotReady, l.startTimeout(), lastErr)
		}
	}
}

// Stop asks the running helper to exit.
func (l *Launcher) Stop(ctx context.Context) error {
	return l.Client.Shutdown(ctx)
}

func (l *Launcher) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

func (l *Launcher) startTimeout() time.Duration {
	if l.StartTimeout <= 0 {
		return 3 * time.Second
	}
	return l.StartTimeout
}

func (l *Launcher) pollInterval() time.Duration {
	if l.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return l.PollInterval
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// SpawnDetached starts exe in a new session rooted at / with no standard
// streams, so it outlives the calling terminal.
func SpawnDetached(exe string, args []string) (int, error) {
	cmd := exec.Command(exe, args...)
	cmd.Dir = "/"
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	// Reap the child if it exits while we are still running.
	go func() { _ = cmd.Wait() }()
	return pid, nil
}
