package platform

import "github.com/mj1618/backtick/internal/model"

// ListOptions controls window listing.
type ListOptions struct {
	PID          int    // Filter by owning process ID (0 = unset)
	App          string // Filter by owning application name, case-insensitive
	OnScreenOnly bool   // Only windows currently on screen
	AllLayers    bool   // Include menu bar, dock and other non-zero layers
}

// FrontmostPID returns the owner of the front-most regular window in a
// front-to-back listing, or false when no layer 0 window is present.
func FrontmostPID(windows []model.Window) (int, bool) {
	for _, w := range windows {
		if w.Layer == 0 && w.PID > 0 {
			return w.PID, true
		}
	}
	return 0, false
}
