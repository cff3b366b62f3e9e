package viewport

import (
	"time"

	"github.com/san-kum/glyphswarm/internal/config"
)

// frameSlack lets a frame through slightly early so a 60Hz source is not
// halved by timestamp jitter.
const frameSlack = time.Millisecond

type Decision int

const (
	Skip Decision = iota
	DrawOnly
	Step
)

func (d Decision) String() string {
	switch d {
	case DrawOnly:
		return "draw-only"
	case Step:
		return "step"
	default:
		return "skip"
	}
}

// Adapter tracks the current layout, debounced resizes and frame pacing.
type Adapter struct {
	cfg       config.ViewportConfig
	debounce  time.Duration
	particles int

	layout  Layout
	signals Signals

	pending   bool
	pendingAt time.Duration
	next      Signals

	hidden       bool
	intersecting bool
	finalDrawn   bool

	lastFrame time.Duration
	hasFrame  bool
}

// NewAdapter applies sig immediately. A degenerate first measurement falls
// back to a nominal size and reports ErrDegenerateGeometry.
func NewAdapter(cfg *config.Config, sig Signals, particleCount int) (*Adapter, error) {
	a := &Adapter{
		cfg:          cfg.Viewport,
		debounce:     cfg.ResizeDebounce(),
		particles:    particleCount,
		intersecting: true,
	}
	_, err := a.Apply(sig)
	if err != nil {
		nominal := sig
		nominal.WindowWidth, nominal.WindowHeight = nominalWidth, nominalHeight
		nominal.ElementWidth, nominal.ElementHeight = 0, 0
		a.layout, _ = Compute(a.cfg, nominal, particleCount)
		a.signals = sig
	}
	return a, err
}

func (a *Adapter) Layout() Layout   { return a.layout }
func (a *Adapter) Signals() Signals { return a.signals }
func (a *Adapter) Hidden() bool     { return a.hidden }
func (a *Adapter) Visible() bool    { return a.intersecting }

// Apply recomputes the layout now. It reports whether anything changed.
func (a *Adapter) Apply(sig Signals) (bool, error) {
	l, err := Compute(a.cfg, sig, a.particles)
	if err != nil {
		return false, err
	}
	changed := l != a.layout
	a.layout = l
	a.signals = sig
	return changed, nil
}

// Resize records sig and restarts the debounce window.
func (a *Adapter) Resize(sig Signals, at time.Duration) {
	a.next = sig
	a.pending = true
	a.pendingAt = at + a.debounce
}

// Poll applies a pending resize once its debounce window has passed.
func (a *Adapter) Poll(now time.Duration) (bool, error) {
	if !a.pending || now < a.pendingAt {
		return false, nil
	}
	a.pending = false
	return a.Apply(a.next)
}

func (a *Adapter) Pending() bool { return a.pending }

func (a *Adapter) SetHidden(hidden bool) { a.hidden = hidden }

func (a *Adapter) SetIntersecting(visible bool) {
	if visible && !a.intersecting {
		a.finalDrawn = false
	}
	a.intersecting = visible
}

// SetReducedMotion updates the preference and recomputes pacing and gap.
// A resize still waiting out its debounce takes the new preference too.
func (a *Adapter) SetReducedMotion(reduced bool) (bool, error) {
	if a.pending {
		a.next.ReducedMotion = reduced
	}
	sig := a.signals
	sig.ReducedMotion = reduced
	return a.Apply(sig)
}

// Frame decides what the frame at now should do and records executed frames.
func (a *Adapter) Frame(now time.Duration) Decision {
	if a.hidden {
		return Skip
	}
	if !a.intersecting {
		if a.finalDrawn {
			return Skip
		}
		a.finalDrawn = true
		return DrawOnly
	}
	if a.hasFrame && now-a.lastFrame < a.layout.FrameInterval-frameSlack {
		return Skip
	}
	a.lastFrame = now
	a.hasFrame = true
	return Step
}
