package model

import (
	"fmt"
	"strings"
)

// WindowInfo is the window record exchanged with the helper process.
type WindowInfo struct {
	ID                int    `yaml:"id"     json:"id"`
	Title             string `yaml:"title"  json:"title"`
	IsCurrentlyActive bool   `yaml:"active" json:"isCurrentlyActive"`
}

// Status is the helper's reply to getStatus.
type Status struct {
	HasAccessibilityPermission bool   `yaml:"accessibility"     json:"hasAccessibilityPermission"`
	PID                        int    `yaml:"pid,omitempty"     json:"pid,omitempty"`
	Version                    string `yaml:"version,omitempty" json:"version,omitempty"`
}

// Position controls where windows the helper has not seen before are placed.
type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
)

// AtTop reports whether new windows go to the front of the order.
// Any value other than "top" (case-insensitive) appends.
func (p Position) AtTop() bool {
	return strings.EqualFold(string(p), string(PositionTop))
}

// ParsePosition converts a flag value to a Position.
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(s) {
	case "top":
		return PositionTop, nil
	case "bottom":
		return PositionBottom, nil
	default:
		return "", fmt.Errorf("unknown window position: %q (expected top or bottom)", s)
	}
}

// ActivationMode controls whether the frontmost window is promoted on every listing.
type ActivationMode string

const (
	ModeAutomatic ActivationMode = "automatic"
	ModeManual    ActivationMode = "manual"
)

// Automatic reports whether the frontmost window should be moved to the front.
func (m ActivationMode) Automatic() bool {
	return m == ModeAutomatic
}

// ParseActivationMode converts a flag value to an ActivationMode.
func ParseActivationMode(s string) (ActivationMode, error) {
	switch strings.ToLower(s) {
	case "automatic":
		return ModeAutomatic, nil
	case "manual":
		return ModeManual, nil
	default:
		return "", fmt.Errorf("unknown activation mode: %q (expected automatic or manual)", s)
	}
}

// GetWindowsRequest is the payload of the getWindows command.
type GetWindowsRequest struct {
	NewWindowPosition Position       `json:"newWindowPosition"`
	ActivationMode    ActivationMode `json:"activationMode"`
}

// DefaultGetWindowsRequest returns the settings used when a caller sends none.
func DefaultGetWindowsRequest() GetWindowsRequest {
	return GetWindowsRequest{
		NewWindowPosition: PositionTop,
		ActivationMode:    ModeAutomatic,
	}
}

// ActivateWindowRequest is the payload of the activateWindow command.
type ActivateWindowRequest struct {
	ID int `json:"id"`
}
