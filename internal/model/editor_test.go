package model

import "testing"

func TestEditorFilter_Match(t *testing.T) {
	f := DefaultEditorFilter()
	tests := []struct {
		name string
		w    Window
		want bool
	}{
		{"document window", Window{App: "Code", Title: "main.go — backtick"}, true},
		{"welcome window", Window{App: "Code", Title: "Welcome - Visual Studio Code"}, true},
		{"untitled", Window{App: "Code", Title: ""}, false},
		{"other app", Window{App: "Safari", Title: "docs — Safari"}, false},
		{"no marker", Window{App: "Code", Title: "Settings Sync"}, false},
	}
	for _, tt := range tests {
		if got := f.Match(tt.w); got != tt.want {
			t.Errorf("%s: Match(%+v) = %v, want %v", tt.name, tt.w, got, tt.want)
		}
	}
}

func TestEditorFilter_NoMarkersAcceptsAnyTitle(t *testing.T) {
	f := EditorFilter{OwnerNames: []string{"Zed"}}
	if !f.Match(Window{App: "Zed", Title: "scratch"}) {
		t.Error("expected match with empty marker list")
	}
}

func TestEditorFilter_EditorWindowsMarksFrontmost(t *testing.T) {
	f := DefaultEditorFilter()
	all := []Window{
		{ID: 5, PID: 100, App: "Code", Title: "a.go — proj"},
		{ID: 6, PID: 100, App: "Code", Title: "b.go — proj"},
		{ID: 7, PID: 200, App: "Finder", Title: "Downloads"},
	}

	got := f.EditorWindows(all, App{Name: "Code", BundleID: "com.microsoft.VSCode", PID: 100})
	if len(got) != 2 {
		t.Fatalf("expected 2 editor windows, got %d", len(got))
	}
	if !got[0].IsCurrentlyActive || got[1].IsCurrentlyActive {
		t.Errorf("expected only first window active, got %+v", got)
	}
}

func TestEditorFilter_EditorWindowsOtherAppFrontmost(t *testing.T) {
	f := DefaultEditorFilter()
	all := []Window{
		{ID: 5, PID: 100, App: "Code", Title: "a.go — proj"},
	}
	got := f.EditorWindows(all, App{Name: "Finder", BundleID: "com.apple.finder", PID: 200})
	if len(got) != 1 || got[0].IsCurrentlyActive {
		t.Errorf("no window should be active when the editor is not frontmost, got %+v", got)
	}
}

func TestEditorFilter_FrontmostNonDocumentWindow(t *testing.T) {
	f := DefaultEditorFilter()
	// The frontmost editor window is a panel without a title, so no
	// document window is active.
	all := []Window{
		{ID: 4, PID: 100, App: "Code", Title: ""},
		{ID: 5, PID: 100, App: "Code", Title: "a.go — proj"},
	}
	got := f.EditorWindows(all, App{BundleID: "com.microsoft.VSCode", PID: 100})
	if len(got) != 1 || got[0].IsCurrentlyActive {
		t.Errorf("got %+v", got)
	}
}
