package gesture_test

import (
	"sort"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/glyphswarm/internal/gesture"
	"github.com/san-kum/glyphswarm/internal/swarm"
)

const ms = time.Millisecond

type pending struct {
	gen uint64
	at  time.Duration
}

// driver applies timer effects against a virtual clock, the way the engine does.
type driver struct {
	c      *gesture.Controller
	now    time.Duration
	timers map[gesture.TimerKind]pending
	log    []gesture.Effect
}

func newDriver() *driver {
	return &driver{
		c:      gesture.New(350*ms, 12, 500*ms),
		timers: make(map[gesture.TimerKind]pending),
	}
}

func (d *driver) apply(effs []gesture.Effect) {
	for _, e := range effs {
		d.log = append(d.log, e)
		switch e.Type {
		case gesture.EffectArmTimer:
			d.timers[e.Timer] = pending{gen: e.Gen, at: e.At}
		case gesture.EffectCancelTimer:
			delete(d.timers, e.Timer)
		}
	}
}

func (d *driver) advance(by time.Duration) {
	until := d.now + by
	for {
		kinds := make([]gesture.TimerKind, 0, len(d.timers))
		for k, p := range d.timers {
			if p.at <= until {
				kinds = append(kinds, k)
			}
		}
		if len(kinds) == 0 {
			break
		}
		sort.Slice(kinds, func(i, j int) bool { return d.timers[kinds[i]].at < d.timers[kinds[j]].at })
		k := kinds[0]
		p := d.timers[k]
		delete(d.timers, k)
		d.now = p.at
		d.apply(d.c.Fire(k, p.gen, p.at))
	}
	d.now = until
}

func (d *driver) send(t gesture.EventType, kind gesture.PointerKind, x, y float64) []gesture.Effect {
	effs := d.c.Handle(gesture.Event{Type: t, Kind: kind, X: x, Y: y, At: d.now})
	d.apply(effs)
	return effs
}

func (d *driver) count(t gesture.EffectType) int {
	n := 0
	for _, e := range d.log {
		if e.Type == t {
			n++
		}
	}
	return n
}

func types(effs []gesture.Effect) []gesture.EffectType {
	out := make([]gesture.EffectType, len(effs))
	for i, e := range effs {
		out[i] = e.Type
	}
	return out
}

var _ = Describe("Controller", func() {
	var d *driver

	BeforeEach(func() {
		d = newDriver()
	})

	Describe("hover-capable pointers", func() {
		It("forms on enter and wanders on leave", func() {
			effs := d.send(gesture.PointerEnter, gesture.Mouse, 0, 0)
			Expect(types(effs)).To(Equal([]gesture.EffectType{gesture.EffectSetMode, gesture.EffectShimmer}))
			Expect(d.c.Mode()).To(Equal(swarm.Forming))

			d.send(gesture.PointerLeave, gesture.Mouse, 0, 0)
			Expect(d.c.Mode()).To(Equal(swarm.Wandering))
		})

		It("does not reopen shimmer on a repeated enter", func() {
			d.send(gesture.PointerEnter, gesture.Mouse, 0, 0)
			Expect(d.send(gesture.PointerEnter, gesture.Mouse, 1, 1)).To(BeEmpty())
		})

		It("promotes once on click", func() {
			effs := d.send(gesture.Click, gesture.Mouse, 0, 0)
			Expect(types(effs)).To(Equal([]gesture.EffectType{gesture.EffectPromote, gesture.EffectShimmer}))
			Expect(d.c.Promoted()).To(BeTrue())

			Expect(d.send(gesture.Click, gesture.Mouse, 0, 0)).To(BeEmpty())
			Expect(d.c.Promoted()).To(BeTrue())
		})

		It("ignores press events", func() {
			Expect(d.send(gesture.PointerDown, gesture.Mouse, 0, 0)).To(BeEmpty())
			Expect(d.c.Phase()).To(Equal(gesture.Idle))
		})
	})

	Describe("touch long-press", func() {
		It("forms before release when held past the threshold", func() {
			d.send(gesture.PointerDown, gesture.Touch, 100, 100)
			Expect(d.c.Mode()).To(Equal(swarm.Wandering))

			d.advance(400 * ms)
			Expect(d.c.Mode()).To(Equal(swarm.Forming))
			Expect(d.c.TapEligible()).To(BeFalse())
			Expect(d.count(gesture.EffectShimmer)).To(Equal(1))

			d.send(gesture.PointerUp, gesture.Touch, 100, 100)
			Expect(d.c.Phase()).To(Equal(gesture.LongPress))
			Expect(d.c.Promoted()).To(BeFalse())
		})

		It("reverts to wandering after the release grace period", func() {
			d.send(gesture.PointerDown, gesture.Touch, 0, 0)
			d.advance(400 * ms)
			d.send(gesture.PointerUp, gesture.Touch, 0, 0)

			d.advance(499 * ms)
			Expect(d.c.Mode()).To(Equal(swarm.Forming))
			d.advance(1 * ms)
			Expect(d.c.Mode()).To(Equal(swarm.Wandering))
		})

		It("treats movement past tolerance as long-press and suppresses the click", func() {
			d.send(gesture.PointerDown, gesture.Touch, 50, 50)
			d.advance(60 * ms)
			d.send(gesture.PointerMove, gesture.Touch, 58, 50)
			Expect(d.c.Mode()).To(Equal(swarm.Wandering))

			d.advance(40 * ms)
			effs := d.send(gesture.PointerMove, gesture.Touch, 70, 50)
			Expect(types(effs)).To(ContainElement(gesture.EffectCancelTimer))
			Expect(d.c.Mode()).To(Equal(swarm.Forming))
			Expect(d.c.TapEligible()).To(BeFalse())

			effs = d.send(gesture.PointerUp, gesture.Touch, 70, 50)
			Expect(types(effs)).To(ContainElement(gesture.EffectSuppressClick))
			Expect(d.c.Phase()).To(Equal(gesture.LongPress))
			Expect(d.c.Promoted()).To(BeFalse())

			Expect(d.send(gesture.Click, gesture.Touch, 70, 50)).To(BeEmpty())
			Expect(d.c.Promoted()).To(BeFalse())
		})

		It("does not swallow a mouse click after a touch release", func() {
			d.send(gesture.PointerDown, gesture.Touch, 50, 50)
			d.advance(400 * ms)
			Expect(d.c.Mode()).To(Equal(swarm.Forming))
			d.send(gesture.PointerUp, gesture.Touch, 50, 50)
			Expect(d.c.Promoted()).To(BeFalse())

			d.advance(100 * ms)
			effs := d.send(gesture.Click, gesture.Mouse, 0, 0)
			Expect(types(effs)).To(ContainElement(gesture.EffectPromote))
			Expect(d.c.Promoted()).To(BeTrue())
		})

		It("treats a release after the threshold as long-press even if the timer was late", func() {
			d.send(gesture.PointerDown, gesture.Touch, 0, 0)
			d.now += 360 * ms
			effs := d.send(gesture.PointerUp, gesture.Touch, 0, 0)
			Expect(types(effs)).To(ContainElement(gesture.EffectSetMode))
			Expect(d.c.Mode()).To(Equal(swarm.Forming))
			Expect(d.c.Promoted()).To(BeFalse())
		})
	})

	Describe("touch tap", func() {
		tap := func() {
			d.send(gesture.PointerDown, gesture.Touch, 10, 10)
			d.advance(80 * ms)
			d.send(gesture.PointerMove, gesture.Touch, 15, 14)
			d.advance(20 * ms)
			d.send(gesture.PointerUp, gesture.Touch, 15, 14)
			d.send(gesture.Click, gesture.Touch, 15, 14)
		}

		It("promotes exactly once", func() {
			tap()
			Expect(d.c.Phase()).To(Equal(gesture.Tap))
			Expect(d.c.Promoted()).To(BeTrue())
			Expect(d.count(gesture.EffectPromote)).To(Equal(1))
			Expect(d.c.Mode()).To(Equal(swarm.Wandering))

			d.advance(time.Second)
			tap()
			Expect(d.count(gesture.EffectPromote)).To(Equal(1))
			Expect(d.count(gesture.EffectSetMode)).To(BeZero())
			Expect(d.c.Promoted()).To(BeTrue())
			Expect(d.c.Mode()).To(Equal(swarm.Wandering))
		})

		It("swallows the trailing synthetic click", func() {
			d.send(gesture.PointerDown, gesture.Touch, 0, 0)
			d.advance(50 * ms)
			effs := d.send(gesture.PointerUp, gesture.Touch, 0, 0)
			Expect(types(effs)).To(Equal([]gesture.EffectType{
				gesture.EffectCancelTimer, gesture.EffectPromote, gesture.EffectShimmer, gesture.EffectSuppressClick,
			}))
			Expect(d.send(gesture.Click, gesture.Touch, 0, 0)).To(BeEmpty())
		})

		It("never fires the long-press timer after a tap", func() {
			d.send(gesture.PointerDown, gesture.Touch, 0, 0)
			d.advance(50 * ms)
			d.send(gesture.PointerUp, gesture.Touch, 0, 0)
			Expect(d.timers).NotTo(HaveKey(gesture.LongPressTimer))

			d.advance(time.Second)
			Expect(d.c.Mode()).To(Equal(swarm.Wandering))
		})
	})

	Describe("timers", func() {
		It("ignores a stale long-press timer from a superseded gesture", func() {
			d.apply(d.c.Handle(gesture.Event{Type: gesture.PointerDown, Kind: gesture.Touch}))
			staleGen, armed := d.c.Armed(gesture.LongPressTimer)
			Expect(armed).To(BeTrue())

			d.now = 100 * ms
			d.send(gesture.PointerUp, gesture.Touch, 0, 0)
			d.send(gesture.PointerDown, gesture.Touch, 0, 0)

			Expect(d.c.Fire(gesture.LongPressTimer, staleGen, 350*ms)).To(BeEmpty())
			Expect(d.c.Mode()).To(Equal(swarm.Wandering))
			Expect(d.c.TapEligible()).To(BeTrue())
		})

		It("ignores an unknown timer kind", func() {
			Expect(d.c.Fire(gesture.TimerKind(42), 1, 0)).To(BeEmpty())
		})

		It("cancels the pending grace timer when a new press starts", func() {
			d.send(gesture.PointerDown, gesture.Touch, 0, 0)
			d.advance(400 * ms)
			d.send(gesture.PointerUp, gesture.Touch, 0, 0)
			Expect(d.timers).To(HaveKey(gesture.ReleaseTimer))

			d.advance(100 * ms)
			d.send(gesture.PointerDown, gesture.Touch, 0, 0)
			Expect(d.timers).NotTo(HaveKey(gesture.ReleaseTimer))
			Expect(d.timers).To(HaveKey(gesture.LongPressTimer))
		})
	})

	Describe("cancellation", func() {
		It("reverts a formed long-press on cancel", func() {
			d.send(gesture.PointerDown, gesture.Touch, 0, 0)
			d.advance(400 * ms)
			Expect(d.c.Mode()).To(Equal(swarm.Forming))

			d.send(gesture.PointerCancel, gesture.Touch, 0, 0)
			Expect(d.c.Phase()).To(Equal(gesture.Cancelled))
			Expect(d.c.Mode()).To(Equal(swarm.Wandering))
			Expect(d.timers).To(BeEmpty())
		})

		It("clears the long-press timer when the pointer leaves", func() {
			d.send(gesture.PointerDown, gesture.Touch, 0, 0)
			d.advance(100 * ms)
			d.send(gesture.PointerLeave, gesture.Touch, 0, 0)
			Expect(d.timers).To(BeEmpty())

			d.advance(time.Second)
			Expect(d.c.Mode()).To(Equal(swarm.Wandering))
			Expect(d.c.Promoted()).To(BeFalse())
		})

		It("ignores release without a press", func() {
			Expect(d.send(gesture.PointerUp, gesture.Touch, 0, 0)).To(BeEmpty())
		})
	})
})
