package engine_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/glyphswarm/internal/config"
	"github.com/san-kum/glyphswarm/internal/engine"
	"github.com/san-kum/glyphswarm/internal/gesture"
	"github.com/san-kum/glyphswarm/internal/metrics"
	"github.com/san-kum/glyphswarm/internal/phrase"
	"github.com/san-kum/glyphswarm/internal/render"
	"github.com/san-kum/glyphswarm/internal/swarm"
	"github.com/san-kum/glyphswarm/internal/viewport"
)

const frame = time.Second / 60

func desktop() viewport.Signals {
	return viewport.Signals{
		ElementWidth: 1280, ElementHeight: 720,
		WindowWidth: 1280, WindowHeight: 720,
		DevicePixelRatio: 1,
	}
}

func pointer(t gesture.EventType, kind gesture.PointerKind, at time.Duration) engine.Event {
	return engine.Pointer{Type: t, Kind: kind, At: at}
}

var _ = Describe("Engine", func() {
	var (
		cfg *config.Config
		rec *render.Recorder
		eng *engine.Engine
		now time.Duration
	)

	run := func(d time.Duration) engine.FrameResult {
		var last engine.FrameResult
		for end := now + d; now < end; {
			now += frame
			last = eng.Tick(now)
		}
		return last
	}

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		cfg.Particles.Count = 1500
		cfg.Seed = 7
		rec = &render.Recorder{}
		now = 0

		var err error
		eng, err = engine.New(cfg, rec, desktop())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(eng.Close()).To(Succeed())
	})

	It("lays out and rasterizes on creation", func() {
		Expect(eng.Samples()).To(BeNumerically(">", 100))
		Expect(eng.Particles().Len()).To(Equal(1500))
		Expect(eng.Phrase().ID).To(Equal("intro"))
		Expect(rec.Stats().Resizes).To(Equal(1))
		Expect(rec.Stats().Width).To(Equal(1280.0))
	})

	Describe("hover", func() {
		It("converges onto the targets while the pointer is over the field", func() {
			run(time.Second)
			wandering := eng.Particles().Convergence()

			Expect(eng.Dispatch(pointer(gesture.PointerEnter, gesture.Mouse, now))).To(Succeed())
			Expect(eng.Mode()).To(Equal(swarm.Forming))
			Expect(eng.Shimmer().Active(now)).To(BeTrue())

			res := run(3 * time.Second)
			Expect(res.Decision).To(Equal(viewport.Step))
			Expect(res.Convergence).To(BeNumerically("<", 1))
			Expect(res.Convergence).To(BeNumerically("<", wandering))
			Expect(rec.Stats().Uploads).To(BeNumerically(">", 200))
		})

		It("returns to wandering when the pointer leaves", func() {
			Expect(eng.Dispatch(pointer(gesture.PointerEnter, gesture.Mouse, 0))).To(Succeed())
			run(time.Second)
			Expect(eng.Dispatch(pointer(gesture.PointerLeave, gesture.Mouse, now))).To(Succeed())
			Expect(eng.Mode()).To(Equal(swarm.Wandering))
			Expect(run(frame).Mode).To(Equal(swarm.Wandering))
		})
	})

	Describe("promotion", func() {
		It("promotes once and retargets the field", func() {
			before := append([]float64(nil), eng.Particles().Target...)

			Expect(eng.Dispatch(pointer(gesture.Click, gesture.Mouse, 10*time.Millisecond))).To(Succeed())
			Expect(eng.Promoted()).To(BeTrue())
			Expect(eng.Phrase().ID).To(Equal("promoted"))
			Expect(eng.Particles().Target).NotTo(Equal(before))

			promoted := append([]float64(nil), eng.Particles().Target...)
			Expect(eng.Dispatch(pointer(gesture.Click, gesture.Mouse, time.Second))).To(Succeed())
			Expect(eng.Particles().Target).To(Equal(promoted))
		})

		It("switches to the promoted tint and pulses during the shimmer", func() {
			Expect(eng.Dispatch(pointer(gesture.Click, gesture.Mouse, 0))).To(Succeed())
			run(100 * time.Millisecond)

			want, err := render.ParseColor(cfg.Render.PromotedTint)
			Expect(err).NotTo(HaveOccurred())
			m := rec.Stats().LastMaterial
			Expect(m.Color).To(Equal(want))
			Expect(m.Size).To(BeNumerically(">", cfg.Render.PointSize))

			run(2 * time.Second)
			m = rec.Stats().LastMaterial
			Expect(m.Color).To(Equal(want))
			Expect(m.Size).To(Equal(cfg.Render.PointSize))
		})
	})

	Describe("touch", func() {
		It("forms on a long press and reverts after the grace period", func() {
			Expect(eng.Dispatch(pointer(gesture.PointerDown, gesture.Touch, 0))).To(Succeed())
			Expect(eng.PendingTimers()).To(Equal(1))

			run(400 * time.Millisecond)
			Expect(eng.Mode()).To(Equal(swarm.Forming))

			Expect(eng.Dispatch(pointer(gesture.PointerUp, gesture.Touch, now))).To(Succeed())
			run(450 * time.Millisecond)
			Expect(eng.Mode()).To(Equal(swarm.Forming))
			run(100 * time.Millisecond)
			Expect(eng.Mode()).To(Equal(swarm.Wandering))
			Expect(eng.Promoted()).To(BeFalse())
		})

		It("delivers an expired timer before the next pointer event", func() {
			Expect(eng.Dispatch(pointer(gesture.PointerDown, gesture.Touch, 0))).To(Succeed())
			Expect(eng.Dispatch(pointer(gesture.PointerMove, gesture.Touch, 400*time.Millisecond))).To(Succeed())
			Expect(eng.Mode()).To(Equal(swarm.Forming))
			Expect(eng.Gesture().TapEligible()).To(BeFalse())
		})

		It("promotes on a tap", func() {
			Expect(eng.Dispatch(pointer(gesture.PointerDown, gesture.Touch, 0))).To(Succeed())
			Expect(eng.Dispatch(pointer(gesture.PointerUp, gesture.Touch, 80*time.Millisecond))).To(Succeed())
			Expect(eng.Dispatch(pointer(gesture.Click, gesture.Touch, 90*time.Millisecond))).To(Succeed())
			Expect(eng.Promoted()).To(BeTrue())
			Expect(eng.Mode()).To(Equal(swarm.Wandering))
			Expect(eng.PendingTimers()).To(BeZero())
		})
	})

	Describe("viewport", func() {
		It("skips every frame while the page is hidden", func() {
			run(100 * time.Millisecond)
			frames := rec.Stats().Frames

			Expect(eng.Dispatch(engine.VisibilityChanged{Hidden: true})).To(Succeed())
			res := run(time.Second)
			Expect(res.Decision).To(Equal(viewport.Skip))
			Expect(rec.Stats().Frames).To(Equal(frames))

			Expect(eng.Dispatch(engine.VisibilityChanged{Hidden: false})).To(Succeed())
			Expect(run(frame).Decision).To(Equal(viewport.Step))
			Expect(rec.Stats().Frames).To(Equal(frames + 1))
		})

		It("draws once and then suspends when scrolled off-screen", func() {
			run(100 * time.Millisecond)
			Expect(eng.Dispatch(engine.IntersectionChanged{Visible: false})).To(Succeed())
			Expect(run(frame).Decision).To(Equal(viewport.DrawOnly))
			Expect(run(frame).Decision).To(Equal(viewport.Skip))
		})

		It("applies a resize after the debounce window", func() {
			run(time.Second)
			narrow := viewport.Signals{
				ElementWidth: 390, ElementHeight: 844,
				WindowWidth: 390, WindowHeight: 844,
				DevicePixelRatio: 3, CoarsePointer: true,
			}
			Expect(eng.Dispatch(engine.Resize{Signals: narrow, At: now})).To(Succeed())

			Expect(run(100 * time.Millisecond).Retargeted).To(BeFalse())
			Expect(eng.Layout().Class).To(Equal(phrase.Wide))

			run(100 * time.Millisecond)
			Expect(eng.Layout().Class).To(Equal(phrase.Narrow))
			Expect(eng.Layout().PixelRatio).To(Equal(1.5))
			Expect(eng.Rasterizer().Options().PixelRatio).To(Equal(3.0))
			Expect(rec.Stats().Resizes).To(Equal(2))
			Expect(rec.Stats().Width).To(Equal(390.0))
		})

		It("rasterizes at the device ratio rather than the display cap", func() {
			sig := desktop()
			sig.DevicePixelRatio = 3
			e, err := engine.New(cfg, &render.Recorder{}, sig)
			Expect(err).NotTo(HaveOccurred())
			defer e.Close()

			Expect(e.Layout().PixelRatio).To(Equal(2.0))
			Expect(e.Rasterizer().RasterizeText("A", 100, 100, 4).Scale).To(Equal(3.0))
		})

		It("keeps a reduced-motion change through a pending resize", func() {
			wider := desktop()
			wider.ElementWidth, wider.WindowWidth = 1200, 1200
			Expect(eng.Dispatch(engine.Resize{Signals: wider, At: now})).To(Succeed())
			Expect(eng.Dispatch(engine.PreferencesChanged{ReducedMotion: true})).To(Succeed())

			run(time.Second)
			Expect(eng.Layout().Width).To(Equal(1200.0))
			Expect(eng.Layout().ReducedMotion).To(BeTrue())
			Expect(eng.Layout().FrameInterval).To(Equal(time.Second / 30))
		})

		It("keeps the previous layout when a resize is degenerate", func() {
			before := eng.Layout()
			Expect(eng.Dispatch(engine.Resize{Signals: viewport.Signals{}, At: 0})).To(Succeed())
			run(time.Second)
			Expect(eng.Layout()).To(Equal(before))
			Expect(rec.Stats().Resizes).To(Equal(1))
		})

		It("widens the gap and lowers the frame cap under reduced motion", func() {
			gap := eng.Layout().Gap
			Expect(eng.Dispatch(engine.PreferencesChanged{ReducedMotion: true})).To(Succeed())
			Expect(eng.Layout().Gap).To(Equal(gap + 1))
			Expect(eng.Layout().FrameInterval).To(Equal(time.Second / 30))
		})
	})

	Describe("lifecycle", func() {
		It("rejects events after Close", func() {
			Expect(eng.Close()).To(Succeed())
			Expect(eng.Dispatch(engine.VisibilityChanged{})).To(MatchError(engine.ErrClosed))
			Expect(eng.Tick(time.Second).Err).To(MatchError(engine.ErrClosed))
			Expect(eng.PendingTimers()).To(BeZero())
		})

		It("rejects invalid configuration", func() {
			bad := config.DefaultConfig()
			bad.Particles.Count = 0
			_, err := engine.New(bad, rec, desktop())
			Expect(err).To(MatchError(config.ErrInvalidConfig))

			bad = config.DefaultConfig()
			bad.Render.IntroPhrase = "missing"
			_, err = engine.New(bad, rec, desktop())
			Expect(err).To(MatchError(config.ErrInvalidConfig))
		})

		It("starts from a nominal layout when geometry is unusable", func() {
			e, err := engine.New(cfg, &render.Recorder{}, viewport.Signals{})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Layout().Width).To(BeNumerically(">", 0))
			Expect(e.Samples()).To(BeNumerically(">", 0))
		})

		It("feeds metrics on every tick", func() {
			ratio := metrics.NewSteppedRatio()
			e, err := engine.New(cfg, &render.Recorder{}, desktop(), engine.WithMetric(ratio))
			Expect(err).NotTo(HaveOccurred())
			for i := 1; i <= 10; i++ {
				e.Tick(time.Duration(i) * frame)
			}
			Expect(e.Metrics()).To(HaveKeyWithValue("stepped_ratio", 1.0))
		})
	})
})
