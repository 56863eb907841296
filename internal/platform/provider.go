package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// Provider bundles all platform backends for the current OS.
type Provider struct {
	Reader        Reader
	WindowManager WindowManager
	Permissions   Permissions
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("backtick is not supported on %s/%s; supported: darwin/amd64, darwin/arm64 with cgo", runtime.GOOS, runtime.GOARCH)

var (
	// ErrAccessibilityDisabled is returned when the accessibility API refuses
	// this process because permission has not been granted.
	ErrAccessibilityDisabled = errors.New("accessibility permission is not granted")

	// ErrAppNotRunning is returned when a requested application has no running instance.
	ErrAppNotRunning = errors.New("application is not running")

	// ErrWindowNotFound is returned when a window ID is unknown to the window server.
	ErrWindowNotFound = errors.New("window not found")
)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/darwin/init.go for the macOS registration.
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}

// PermissionRemediation explains how to grant accessibility permission.
const PermissionRemediation = `Accessibility permission is NOT granted.
This command needs permission to inspect and control other applications.

Please do the following:
1. Open System Settings > Privacy & Security > Accessibility.
2. Find and enable the application running this command (e.g. Terminal, iTerm2, or your IDE).
3. Quit and relaunch that application for the change to take effect.

After granting permission, run this command again.`
