package engine

import (
	"time"

	"github.com/san-kum/glyphswarm/internal/gesture"
)

// PointerSample is one reading of a host's pointer device. Pressed and
// Released mark edges of the primary button since the previous sample.
type PointerSample struct {
	X, Y     float64
	Inside   bool
	Pressed  bool
	Released bool
}

// Tracker turns raw pointer samples into the Pointer events the gesture
// controller expects. A sample may carry both edges when a tap is shorter
// than the host's polling interval. A mouse reports enter and leave as it crosses the
// element and clicks on release. Touch and pen report down, move and up
// while pressed; dragging out of the element lifts the contact.
type Tracker struct {
	kind   gesture.PointerKind
	inside bool
	down   bool
	lastX  float64
	lastY  float64
}

func NewTracker(kind gesture.PointerKind) *Tracker {
	return &Tracker{kind: kind}
}

func (t *Tracker) Kind() gesture.PointerKind { return t.kind }

// Down reports whether a touch or pen contact is active.
func (t *Tracker) Down() bool { return t.down }

func (t *Tracker) Track(s PointerSample, at time.Duration) []Pointer {
	ev := func(typ gesture.EventType) Pointer {
		return Pointer{Type: typ, Kind: t.kind, X: s.X, Y: s.Y, At: at}
	}
	var out []Pointer

	if t.kind == gesture.Mouse {
		if s.Inside != t.inside {
			t.inside = s.Inside
			if s.Inside {
				out = append(out, ev(gesture.PointerEnter))
			} else {
				out = append(out, ev(gesture.PointerLeave))
			}
		}
		if s.Inside && s.Released {
			out = append(out, ev(gesture.Click))
		}
		return out
	}

	switch {
	case !t.down:
		if !s.Pressed || !s.Inside {
			break
		}
		out = append(out, ev(gesture.PointerDown))
		if s.Released {
			out = append(out, ev(gesture.PointerUp), ev(gesture.Click))
			break
		}
		t.down = true
		t.lastX, t.lastY = s.X, s.Y
	case !s.Inside:
		t.down = false
		out = append(out, ev(gesture.PointerLeave))
	case s.Released:
		t.down = false
		out = append(out, ev(gesture.PointerUp), ev(gesture.Click))
	case s.X != t.lastX || s.Y != t.lastY:
		t.lastX, t.lastY = s.X, s.Y
		out = append(out, ev(gesture.PointerMove))
	}
	return out
}
