package model

import (
	"errors"
	"fmt"
	"strings"
)

// Direction selects which window a switch lands on.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
	DirectionInstant  Direction = "instant"
)

// ErrTooFewWindows is returned when there is nothing to switch to.
var ErrTooFewWindows = errors.New("need at least 2 windows to switch")

// ParseDirection converts a flag value to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(s)) {
	case DirectionForward:
		return DirectionForward, nil
	case DirectionBackward:
		return DirectionBackward, nil
	case DirectionInstant:
		return DirectionInstant, nil
	default:
		return "", fmt.Errorf("unknown direction: %q (expected forward, backward, or instant)", s)
	}
}

// ActiveIndex returns the index of the active window, or -1.
func ActiveIndex(windows []WindowInfo) int {
	for i, w := range windows {
		if w.IsCurrentlyActive {
			return i
		}
	}
	return -1
}

// SelectIndex returns the index of the window a switch in direction d
// should activate, wrapping around the list.
func SelectIndex(windows []WindowInfo, d Direction) (int, error) {
	n := len(windows)
	if n < 2 {
		return 0, ErrTooFewWindows
	}
	active := ActiveIndex(windows)
	switch d {
	case DirectionForward:
		if active == -1 {
			return 1, nil
		}
		return (active + 1) % n, nil
	case DirectionBackward:
		if active == -1 {
			return n - 1, nil
		}
		return (active - 1 + n) % n, nil
	case DirectionInstant:
		return 1, nil
	default:
		return 0, fmt.Errorf("unknown direction: %q", d)
	}
}
