package model

import "strings"

// DefaultEditorBundleID is the bundle identifier of Visual Studio Code.
const DefaultEditorBundleID = "com.microsoft.VSCode"

// EditorFilter decides which windows belong to the editor being switched.
type EditorFilter struct {
	BundleID     string   `yaml:"bundleID"     json:"bundleID"`
	OwnerNames   []string `yaml:"ownerNames"   json:"ownerNames"`
	TitleMarkers []string `yaml:"titleMarkers" json:"titleMarkers"`
}

// DefaultEditorFilter matches Visual Studio Code document windows.
func DefaultEditorFilter() EditorFilter {
	return EditorFilter{
		BundleID:     DefaultEditorBundleID,
		OwnerNames:   []string{"Code", "Visual Studio Code"},
		TitleMarkers: []string{"— ", "Visual Studio Code"},
	}
}

// Match reports whether w is an editor document window. Untitled windows
// never match; an empty marker list accepts any title.
func (f EditorFilter) Match(w Window) bool {
	if w.Title == "" || !containsAny(w.App, f.OwnerNames) {
		return false
	}
	if len(f.TitleMarkers) == 0 {
		return true
	}
	return containsAny(w.Title, f.TitleMarkers)
}

// IsEditorApp reports whether app is the editor.
func (f EditorFilter) IsEditorApp(app App) bool {
	return f.BundleID != "" && strings.Contains(app.BundleID, f.BundleID)
}

// EditorWindows selects editor windows from a front-to-back window list.
// When the frontmost app is the editor, its first listed window is the
// active one.
func (f EditorFilter) EditorWindows(all []Window, front App) []WindowInfo {
	activeID := 0
	if f.IsEditorApp(front) {
		for _, w := range all {
			if w.PID == front.PID {
				activeID = w.ID
				break
			}
		}
	}

	out := make([]WindowInfo, 0, len(all))
	for _, w := range all {
		if !f.Match(w) {
			continue
		}
		out = append(out, WindowInfo{
			ID:                w.ID,
			Title:             w.Title,
			IsCurrentlyActive: activeID != 0 && w.ID == activeID,
		})
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
