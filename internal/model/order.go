package model

// Order tracks window IDs in most-recently-used order.
// It is not safe for concurrent use.
type Order struct {
	ids []int
}

// NewOrder returns an empty order.
func NewOrder() *Order {
	return &Order{}
}

// IDs returns a copy of the tracked IDs, most recent first.
func (o *Order) IDs() []int {
	out := make([]int, len(o.ids))
	copy(out, o.ids)
	return out
}

// Len returns the number of tracked IDs.
func (o *Order) Len() int {
	return len(o.ids)
}

// Promote moves id to the front, adding it if it is not tracked.
func (o *Order) Promote(id int) {
	o.remove(id)
	o.ids = append([]int{id}, o.ids...)
}

func (o *Order) remove(id int) {
	kept := o.ids[:0]
	for _, existing := range o.ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	o.ids = kept
}

// Sync reconciles the order with the windows currently on screen and returns
// them in tracked order. In automatic mode the active window is promoted
// first. Closed windows are dropped; windows not seen before are added at the
// front or back per req.NewWindowPosition, keeping the order in which they
// appear in current.
func (o *Order) Sync(current []WindowInfo, req GetWindowsRequest) []WindowInfo {
	if req.ActivationMode.Automatic() {
		for _, w := range current {
			if w.IsCurrentlyActive {
				o.Promote(w.ID)
				break
			}
		}
	}

	present := make(map[int]bool, len(current))
	for _, w := range current {
		present[w.ID] = true
	}

	kept := make([]int, 0, len(current))
	tracked := make(map[int]bool, len(o.ids))
	for _, id := range o.ids {
		if present[id] && !tracked[id] {
			kept = append(kept, id)
			tracked[id] = true
		}
	}

	var fresh []int
	for _, w := range current {
		if !tracked[w.ID] {
			fresh = append(fresh, w.ID)
			tracked[w.ID] = true
		}
	}

	if req.NewWindowPosition.AtTop() {
		o.ids = append(fresh, kept...)
	} else {
		o.ids = append(kept, fresh...)
	}

	return o.Resolve(current)
}

// Resolve maps the tracked order onto current. IDs without a matching window
// are skipped, so the result never holds more entries than current.
func (o *Order) Resolve(current []WindowInfo) []WindowInfo {
	byID := make(map[int]WindowInfo, len(current))
	for _, w := range current {
		byID[w.ID] = w
	}
	out := make([]WindowInfo, 0, len(current))
	for _, id := range o.ids {
		if w, ok := byID[id]; ok {
			out = append(out, w)
			delete(byID, id)
		}
	}
	return out
}
