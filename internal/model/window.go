package model

// Window represents an on-screen window as reported by the window server.
// Bounds is [x, y, width, height] in screen points.
type Window struct {
	App     string `yaml:"app"               json:"app"`
	PID     int    `yaml:"pid"               json:"pid"`
	Title   string `yaml:"title"             json:"title"`
	ID      int    `yaml:"id"                json:"id"`
	Bounds  [4]int `yaml:"bounds,flow"       json:"bounds"`
	Layer   int    `yaml:"layer,omitempty"   json:"layer,omitempty"`
	Focused bool   `yaml:"focused,omitempty" json:"focused,omitempty"`
}

// App identifies a running application.
type App struct {
	Name     string `yaml:"name"               json:"name"`
	BundleID string `yaml:"bundleID,omitempty" json:"bundleID,omitempty"`
	PID      int    `yaml:"pid"                json:"pid"`
}
