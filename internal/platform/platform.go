package platform

import "github.com/mj1618/backtick/internal/model"

// Reader reads window information from the window server and the
// accessibility layer.
type Reader interface {
	// ListWindows returns windows front to back, optionally filtered.
	ListWindows(opts ListOptions) ([]model.Window, error)

	// AccessibilityWindowTitles returns the titles of pid's windows as seen
	// through the accessibility API. A window without a title yields "".
	// Returns ErrAccessibilityDisabled when this process is not trusted.
	AccessibilityWindowTitles(pid int) ([]string, error)
}

// WindowManager locates applications and raises windows.
type WindowManager interface {
	// FrontmostApp returns the application that currently has focus.
	FrontmostApp() (model.App, error)

	// RunningApp returns the first running instance of bundleID.
	// Returns ErrAppNotRunning when there is none.
	RunningApp(bundleID string) (model.App, error)

	// ActivateWindow brings the window with the given system ID to the front.
	ActivateWindow(id int) error
}

// Permissions reports and requests accessibility trust.
type Permissions interface {
	IsTrusted() bool

	// RequestTrust shows the system prompt when the process is not yet
	// trusted and reports whether it is trusted now.
	RequestTrust() bool
}
