package engine

import (
	"time"

	"github.com/san-kum/glyphswarm/internal/gesture"
	"github.com/san-kum/glyphswarm/internal/viewport"
)

// Event is anything a host can hand to Dispatch.
type Event interface {
	isEvent()
}

// Pointer wraps a raw pointer event.
type Pointer gesture.Event

// Resize carries fresh host geometry. It is applied after the debounce
// window, on a later Tick.
type Resize struct {
	Signals viewport.Signals
	At      time.Duration
}

type VisibilityChanged struct {
	Hidden bool
}

type IntersectionChanged struct {
	Visible bool
}

type PreferencesChanged struct {
	ReducedMotion bool
}

func (Pointer) isEvent()             {}
func (Resize) isEvent()              {}
func (VisibilityChanged) isEvent()   {}
func (IntersectionChanged) isEvent() {}
func (PreferencesChanged) isEvent()  {}
