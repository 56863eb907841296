package client

import (
	"context"
	"fmt"

	"github.com/mj1618/backtick/internal/model"
)

// SwitchResult describes a completed switch.
type SwitchResult struct {
	Direction model.Direction   `yaml:"direction"      json:"direction"`
	From      *model.WindowInfo `yaml:"from,omitempty" json:"from,omitempty"`
	To        model.WindowInfo  `yaml:"to"             json:"to"`
	Index     int               `yaml:"index"          json:"index"`
	Count     int               `yaml:"count"          json:"count"`
}

// Switch lists windows with req, picks the one d selects and activates it.
// It returns model.ErrTooFewWindows when fewer than two windows are open.
func (c *Client) Switch(ctx context.Context, req model.GetWindowsRequest, d model.Direction) (SwitchResult, error) {
	result := SwitchResult{Direction: d}

	windows, err := c.GetWindows(ctx, req)
	if err != nil {
		return result, err
	}
	result.Count = len(windows)

	idx, err := model.SelectIndex(windows, d)
	if err != nil {
		return result, err
	}
	if active := model.ActiveIndex(windows); active >= 0 {
		from := windows[active]
		result.From = &from
	}
	result.Index = idx
	result.To = windows[idx]

	if err := c.ActivateWindow(ctx, result.To.ID); err != nil {
		return result, fmt.Errorf("activate %q: %w", result.To.Title, err)
	}
	return result, nil
}
