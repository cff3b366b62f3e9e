// Package gesture disambiguates pointer input into hover, tap, long-press
// and drag, and turns it into mode, promotion and timer effects.
//
// Hover-capable pointers form the text while inside the element and
// promote on click. Touch and pen presses start a long-press timer; moving
// past the tolerance or holding past the threshold forms the text until a
// short grace period after release, while a short still press is a tap
// that promotes once. The click a host synthesizes after a touch or pen
// release is swallowed once if it arrives within a short window; a click
// from a different pointer kind is never swallowed.
//
// The controller never sleeps or schedules anything itself. Timers are
// requested through [EffectArmTimer] and delivered back with [Controller.Fire];
// every firing carries a generation so a superseded timer is a no-op.
package gesture

import (
	"math"
	"time"

	"github.com/san-kum/glyphswarm/internal/config"
	"github.com/san-kum/glyphswarm/internal/swarm"
)

// clickSuppressWindow bounds how long a trailing synthetic click is swallowed.
const clickSuppressWindow = 700 * time.Millisecond

type Controller struct {
	longPress time.Duration
	tolerance float64
	grace     time.Duration

	phase          Phase
	tapEligible    bool
	longPressArmed bool
	longPressed    bool
	startX, startY float64
	startAt        time.Duration

	mode          swarm.Mode
	promoted      bool
	suppressUntil time.Duration
	suppressKind  PointerKind
	suppressing   bool

	gen     [numTimers]uint64
	armed   [numTimers]bool
	nextGen uint64
}

func New(longPress time.Duration, tolerancePx float64, grace time.Duration) *Controller {
	return &Controller{longPress: longPress, tolerance: tolerancePx, grace: grace}
}

func NewFromConfig(cfg *config.Config) *Controller {
	return New(cfg.LongPress(), cfg.Gesture.MoveTolerancePx, cfg.ReleaseGrace())
}

func (c *Controller) Mode() swarm.Mode { return c.mode }
func (c *Controller) Promoted() bool   { return c.promoted }
func (c *Controller) Phase() Phase     { return c.phase }

// TapEligible reports whether the current press could still resolve as a tap.
func (c *Controller) TapEligible() bool { return c.phase == Pressed && c.tapEligible }

// Armed reports the generation of the pending timer of kind, if any.
func (c *Controller) Armed(kind TimerKind) (uint64, bool) {
	return c.gen[kind], c.armed[kind]
}

// Handle runs one transition and returns the effects to apply, in order.
func (c *Controller) Handle(ev Event) []Effect {
	if ev.Type == Click {
		return c.click(ev)
	}
	if ev.Kind == Mouse {
		return c.hover(ev)
	}
	return c.press(ev)
}

// Fire delivers an expired timer. A generation that is no longer current,
// or a gesture that no longer matches, yields no effects.
func (c *Controller) Fire(kind TimerKind, gen uint64, now time.Duration) []Effect {
	if kind < 0 || kind >= numTimers || !c.armed[kind] || c.gen[kind] != gen {
		return nil
	}
	c.armed[kind] = false

	switch kind {
	case LongPressTimer:
		if c.phase != Pressed || !c.longPressArmed || !c.tapEligible {
			return nil
		}
		c.longPressArmed = false
		return c.enterLongPress(nil, now)
	case ReleaseTimer:
		return c.setMode(nil, swarm.Wandering, now)
	}
	return nil
}

func (c *Controller) hover(ev Event) []Effect {
	switch ev.Type {
	case PointerEnter:
		var out []Effect
		if c.mode != swarm.Forming {
			out = c.setMode(out, swarm.Forming, ev.At)
			out = append(out, Effect{Type: EffectShimmer, At: ev.At})
		}
		return out
	case PointerLeave:
		return c.setMode(nil, swarm.Wandering, ev.At)
	}
	return nil
}

func (c *Controller) click(ev Event) []Effect {
	at := ev.At
	if c.suppressing && ev.Kind == c.suppressKind {
		c.suppressing = false
		if at <= c.suppressUntil {
			return nil
		}
	}
	return c.promote(nil, at)
}

func (c *Controller) press(ev Event) []Effect {
	switch ev.Type {
	case PointerDown:
		return c.down(ev)
	case PointerMove:
		return c.move(ev)
	case PointerUp:
		return c.up(ev)
	case PointerCancel, PointerLeave:
		return c.cancel(ev.At)
	}
	return nil
}

func (c *Controller) down(ev Event) []Effect {
	out := c.cancelTimer(nil, LongPressTimer)
	out = c.cancelTimer(out, ReleaseTimer)

	c.phase = Pressed
	c.tapEligible = true
	c.longPressArmed = true
	c.longPressed = false
	c.startX, c.startY = ev.X, ev.Y
	c.startAt = ev.At

	return c.armTimer(out, LongPressTimer, ev.At+c.longPress)
}

func (c *Controller) move(ev Event) []Effect {
	if c.phase != Pressed || !c.tapEligible {
		return nil
	}
	if math.Hypot(ev.X-c.startX, ev.Y-c.startY) <= c.tolerance {
		return nil
	}
	c.longPressArmed = false
	out := c.cancelTimer(nil, LongPressTimer)
	return c.enterLongPress(out, ev.At)
}

func (c *Controller) up(ev Event) []Effect {
	if c.phase != Pressed {
		return nil
	}
	out := c.cancelTimer(nil, LongPressTimer)
	c.longPressArmed = false

	held := ev.At-c.startAt >= c.longPress
	if c.longPressed || held || !c.tapEligible {
		if !c.longPressed {
			out = c.enterLongPress(out, ev.At)
		}
		c.phase = LongPress
		out = c.armTimer(out, ReleaseTimer, ev.At+c.grace)
		return c.suppressClick(out, ev.Kind, ev.At)
	}

	c.phase = Tap
	c.tapEligible = false
	out = c.promote(out, ev.At)
	if c.mode == swarm.Forming {
		out = c.armTimer(out, ReleaseTimer, ev.At+c.grace)
	}
	return c.suppressClick(out, ev.Kind, ev.At)
}

func (c *Controller) cancel(at time.Duration) []Effect {
	if c.phase != Pressed {
		return nil
	}
	out := c.cancelTimer(nil, LongPressTimer)
	out = c.cancelTimer(out, ReleaseTimer)
	c.phase = Cancelled
	c.tapEligible = false
	c.longPressArmed = false
	return c.setMode(out, swarm.Wandering, at)
}

func (c *Controller) enterLongPress(out []Effect, at time.Duration) []Effect {
	c.tapEligible = false
	c.longPressed = true
	out = c.setMode(out, swarm.Forming, at)
	return append(out, Effect{Type: EffectShimmer, At: at})
}

// promote flips the one-way promotion. Later calls change nothing.
func (c *Controller) promote(out []Effect, at time.Duration) []Effect {
	if c.promoted {
		return out
	}
	c.promoted = true
	return append(out, Effect{Type: EffectPromote, At: at}, Effect{Type: EffectShimmer, At: at})
}

func (c *Controller) suppressClick(out []Effect, kind PointerKind, at time.Duration) []Effect {
	c.suppressing = true
	c.suppressKind = kind
	c.suppressUntil = at + clickSuppressWindow
	return append(out, Effect{Type: EffectSuppressClick, At: at})
}

func (c *Controller) setMode(out []Effect, m swarm.Mode, at time.Duration) []Effect {
	if c.mode == m {
		return out
	}
	c.mode = m
	return append(out, Effect{Type: EffectSetMode, Mode: m, At: at})
}

func (c *Controller) armTimer(out []Effect, kind TimerKind, deadline time.Duration) []Effect {
	c.nextGen++
	c.gen[kind] = c.nextGen
	c.armed[kind] = true
	return append(out, Effect{Type: EffectArmTimer, Timer: kind, Gen: c.nextGen, At: deadline})
}

func (c *Controller) cancelTimer(out []Effect, kind TimerKind) []Effect {
	if !c.armed[kind] {
		return out
	}
	c.armed[kind] = false
	return append(out, Effect{Type: EffectCancelTimer, Timer: kind, Gen: c.gen[kind]})
}
