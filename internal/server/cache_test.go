package server

import (
	"testing"
	"time"

	"github.com/mj1618/backtick/internal/platform"
)

func TestWindowCache_TTL(t *testing.T) {
	d := newDesktop()
	c := NewWindowCache(time.Second)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }
	opts := platform.ListOptions{OnScreenOnly: true}

	if _, err := c.ListWindows(d, opts); err != nil {
		t.Fatal(err)
	}
	now = now.Add(500 * time.Millisecond)
	if _, err := c.ListWindows(d, opts); err != nil {
		t.Fatal(err)
	}
	if d.lists != 1 {
		t.Errorf("lists within TTL: got %d, want 1", d.lists)
	}

	now = now.Add(time.Second)
	if _, err := c.ListWindows(d, opts); err != nil {
		t.Fatal(err)
	}
	if d.lists != 2 {
		t.Errorf("lists after TTL: got %d, want 2", d.lists)
	}
}

func TestWindowCache_KeyedByOptions(t *testing.T) {
	d := newDesktop()
	c := NewWindowCache(time.Minute)

	c.ListWindows(d, platform.ListOptions{App: "Code"})
	c.ListWindows(d, platform.ListOptions{App: "Finder"})
	c.ListWindows(d, platform.ListOptions{App: "Code"})
	if d.lists != 2 {
		t.Errorf("got %d lists, want 2", d.lists)
	}
}

func TestWindowCache_Disabled(t *testing.T) {
	d := newDesktop()
	c := NewWindowCache(0)
	c.ListWindows(d, platform.ListOptions{})
	c.ListWindows(d, platform.ListOptions{})
	if d.lists != 2 {
		t.Errorf("got %d lists, want 2", d.lists)
	}
}

func TestWindowCache_InvalidateAll(t *testing.T) {
	d := newDesktop()
	c := NewWindowCache(time.Minute)
	c.ListWindows(d, platform.ListOptions{})
	c.InvalidateAll()
	c.ListWindows(d, platform.ListOptions{})
	if d.lists != 2 {
		t.Errorf("got %d lists, want 2", d.lists)
	}
}
