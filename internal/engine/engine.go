// Package engine owns one particle field. It routes host events to the
// gesture controller and viewport adapter, keeps the virtual timers, and
// runs the per-frame pipeline from layout to draw call.
//
// An Engine is not safe for concurrent use. Hosts call Dispatch and Tick
// from a single loop; no goroutines are started.
package engine

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/glyphswarm/internal/config"
	"github.com/san-kum/glyphswarm/internal/gesture"
	"github.com/san-kum/glyphswarm/internal/glyph"
	"github.com/san-kum/glyphswarm/internal/metrics"
	"github.com/san-kum/glyphswarm/internal/phrase"
	"github.com/san-kum/glyphswarm/internal/render"
	"github.com/san-kum/glyphswarm/internal/swarm"
	"github.com/san-kum/glyphswarm/internal/viewport"
)

// FrameResult describes what one Tick did.
type FrameResult struct {
	Decision    viewport.Decision
	Mode        swarm.Mode
	Promoted    bool
	Retargeted  bool
	StepTime    time.Duration
	Convergence float64
	Err         error
}

type tints struct {
	base, forming, promoted colorful.Color
}

type Engine struct {
	cfg *config.Config
	log *log.Logger

	renderer render.Renderer
	scene    *render.Scene
	camera   *render.Camera

	current  phrase.Phrase
	promoted phrase.Phrase

	raster  *glyph.Rasterizer
	view    *viewport.Adapter
	gesture *gesture.Controller
	sim     *swarm.Simulator
	rng     *rand.Rand

	timers  timerTable
	shimmer swarm.Shimmer
	tints   tints
	samples int

	metrics []metrics.Metric
	closed  bool
}

// New validates cfg, lays out the field for sig, rasterizes the intro
// phrase and prepares the scene. A degenerate initial geometry is not an
// error; the engine starts from a nominal layout and waits for a Resize.
func New(cfg *config.Config, r render.Renderer, sig viewport.Signals, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.setDefaults()

	intro, err := o.book.Get(cfg.Render.IntroPhrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	promoted, err := o.book.Get(cfg.Render.PromotePhrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	tt, err := parseTints(cfg.Render)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	count := viewport.ScaleParticles(cfg, sig)
	view, err := viewport.NewAdapter(cfg, sig, count)
	if err != nil {
		o.logger.Warn("initial geometry unusable, using nominal layout", "err", err)
	}
	layout := view.Layout()

	// The raster multiplier follows the device, not the capped display ratio.
	raster, err := glyph.New(glyph.OptionsFromConfig(cfg.Text, sig.DevicePixelRatio))
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	params := swarm.ParamsFromConfig(cfg)
	particles := swarm.NewParticles(count, params, rng)

	scene, err := render.NewScene(cfg.Render, particles.Position)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	e := &Engine{
		cfg:      cfg,
		log:      o.logger,
		renderer: r,
		scene:    scene,
		camera:   render.NewCamera(cfg.Render, layout.Aspect()),
		current:  intro,
		promoted: promoted,
		raster:   raster,
		view:     view,
		gesture:  gesture.NewFromConfig(cfg),
		sim:      swarm.NewSimulator(particles, params, rng),
		rng:      rng,
		timers:   newTimerTable(),
		tints:    tt,
		metrics:  o.metrics,
	}
	for _, m := range e.metrics {
		m.Reset()
	}

	r.Resize(layout.Width, layout.Height, layout.PixelRatio)
	e.retarget()
	e.updateMaterial(0)

	e.log.Info("engine ready",
		"particles", count,
		"samples", e.samples,
		"gap", layout.Gap,
		"class", layout.Class,
		"fps", int(time.Second/layout.FrameInterval))
	return e, nil
}

func parseTints(cfg config.RenderConfig) (tints, error) {
	var t tints
	var err error
	if t.base, err = render.ParseColor(cfg.BaseTint); err != nil {
		return t, err
	}
	if t.forming, err = render.ParseColor(cfg.FormingTint); err != nil {
		return t, err
	}
	if t.promoted, err = render.ParseColor(cfg.PromotedTint); err != nil {
		return t, err
	}
	return t, nil
}

func (e *Engine) Mode() swarm.Mode              { return e.gesture.Mode() }
func (e *Engine) Promoted() bool                { return e.gesture.Promoted() }
func (e *Engine) Phrase() phrase.Phrase         { return e.current }
func (e *Engine) Layout() viewport.Layout       { return e.view.Layout() }
func (e *Engine) Particles() *swarm.Particles   { return e.sim.Particles() }
func (e *Engine) Scene() *render.Scene          { return e.scene }
func (e *Engine) Camera() *render.Camera        { return e.camera }
func (e *Engine) Shimmer() swarm.Shimmer        { return e.shimmer }
func (e *Engine) Samples() int                  { return e.samples }
func (e *Engine) PendingTimers() int            { return e.timers.len() }
func (e *Engine) Metrics() map[string]float64   { return metrics.Collect(e.metrics) }
func (e *Engine) Gesture() *gesture.Controller  { return e.gesture }
func (e *Engine) Config() *config.Config        { return e.cfg }
func (e *Engine) Viewport() *viewport.Adapter   { return e.view }
func (e *Engine) Rasterizer() *glyph.Rasterizer { return e.raster }

// Dispatch applies one host event. Pointer events first deliver any timer
// that expired at or before the event's timestamp.
func (e *Engine) Dispatch(ev Event) error {
	if e.closed {
		return ErrClosed
	}
	switch ev := ev.(type) {
	case Pointer:
		g := gesture.Event(ev)
		e.fireDue(g.At)
		e.apply(e.gesture.Handle(g))
	case Resize:
		e.view.Resize(ev.Signals, ev.At)
	case VisibilityChanged:
		e.view.SetHidden(ev.Hidden)
		e.log.Debug("visibility", "hidden", ev.Hidden)
	case IntersectionChanged:
		e.view.SetIntersecting(ev.Visible)
		e.log.Debug("intersection", "visible", ev.Visible)
	case PreferencesChanged:
		changed, err := e.view.SetReducedMotion(ev.ReducedMotion)
		if err != nil {
			e.log.Warn("preference change ignored", "err", err)
			return nil
		}
		if changed {
			e.relayout()
		}
	default:
		return fmt.Errorf("engine: unsupported event %T", ev)
	}
	return nil
}

// Tick runs one frame: due timers, pending resize, pacing decision, step,
// material update and draw.
func (e *Engine) Tick(now time.Duration) FrameResult {
	if e.closed {
		return FrameResult{Decision: viewport.Skip, Err: ErrClosed}
	}
	e.fireDue(now)

	res := FrameResult{}
	changed, err := e.view.Poll(now)
	if err != nil {
		e.log.Warn("resize ignored", "err", err)
	} else if changed {
		e.relayout()
		res.Retargeted = true
	}

	res.Decision = e.view.Frame(now)
	res.Mode = e.gesture.Mode()
	res.Promoted = e.gesture.Promoted()

	if res.Decision == viewport.Step {
		start := time.Now()
		e.sim.Step(now, res.Mode, e.shimmer)
		res.StepTime = time.Since(start)
		e.scene.Points.Geometry.NeedsUpdate = true
		res.Convergence = e.sim.Particles().Convergence()
	}

	if res.Decision != viewport.Skip {
		e.updateMaterial(now)
		if err := e.renderer.Render(e.scene, e.camera); err != nil {
			e.log.Warn("render failed", "err", err)
			res.Err = err
		}
	}

	sample := metrics.Sample{
		At:          now,
		Stepped:     res.Decision == viewport.Step,
		Drawn:       res.Decision != viewport.Skip,
		Forming:     res.Mode == swarm.Forming,
		StepTime:    res.StepTime,
		Convergence: res.Convergence,
	}
	for _, m := range e.metrics {
		m.Observe(sample)
	}
	return res
}

// Close drops pending timers and closes the renderer if it is an io.Closer.
// Later calls are no-ops.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.timers.clear()
	if c, ok := e.renderer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (e *Engine) fireDue(now time.Duration) {
	for {
		d, ok := e.timers.next(now)
		if !ok {
			return
		}
		e.log.Debug("timer", "kind", d.kind, "gen", d.gen)
		e.apply(e.gesture.Fire(d.kind, d.gen, d.at))
	}
}

func (e *Engine) apply(effs []gesture.Effect) {
	for _, eff := range effs {
		switch eff.Type {
		case gesture.EffectSetMode:
			e.log.Debug("mode", "to", eff.Mode)
		case gesture.EffectPromote:
			e.current = e.promoted
			e.retarget()
			e.log.Info("promoted", "phrase", e.current.ID)
		case gesture.EffectShimmer:
			e.shimmer = swarm.OpenShimmer(eff.At, e.cfg.ShimmerDuration())
		case gesture.EffectArmTimer:
			e.timers.arm(eff.Timer, eff.Gen, eff.At)
		case gesture.EffectCancelTimer:
			e.timers.cancel(eff.Timer)
		case gesture.EffectSuppressClick:
			e.log.Debug("click suppressed")
		}
	}
}

func (e *Engine) relayout() {
	l := e.view.Layout()
	e.renderer.Resize(l.Width, l.Height, l.PixelRatio)
	e.camera.SetAspect(l.Aspect())
	e.raster.SetPixelRatio(e.view.Signals().DevicePixelRatio)
	e.retarget()
	e.log.Debug("layout", "w", l.Width, "h", l.Height, "dpr", l.PixelRatio, "gap", l.Gap, "class", l.Class)
}

// retarget rasterizes the current phrase for the current layout and
// reassigns every particle's target.
func (e *Engine) retarget() {
	l := e.view.Layout()
	res := e.raster.Rasterize(e.current.Lines(l.Class), l.BoxWidth, l.BoxHeight, l.Gap)
	swarm.Assign(e.sim.Particles().Target, res.Points, e.cfg.Particles.DepthJitter, e.rng)
	e.samples = len(res.Points)
	if res.Empty {
		e.log.Warn("phrase produced no samples", "phrase", e.current.ID)
	}
}

func (e *Engine) updateMaterial(now time.Duration) {
	m := e.scene.Points.Material
	switch {
	case e.gesture.Promoted():
		m.Color = e.tints.promoted
	case e.gesture.Mode() == swarm.Forming:
		m.Color = e.tints.forming
	default:
		m.Color = e.tints.base
	}
	size, opacity := e.sim.Pulse(now, e.shimmer)
	m.Size = e.cfg.Render.PointSize * size
	m.Opacity = clamp01(e.cfg.Render.Opacity * opacity)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
