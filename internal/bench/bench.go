// Package bench drives an engine headless through a scripted interaction
// and records per-frame timings and convergence.
package bench

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/glyphswarm/internal/config"
	"github.com/san-kum/glyphswarm/internal/engine"
	"github.com/san-kum/glyphswarm/internal/gesture"
	"github.com/san-kum/glyphswarm/internal/metrics"
	"github.com/san-kum/glyphswarm/internal/render"
	"github.com/san-kum/glyphswarm/internal/storage"
	"github.com/san-kum/glyphswarm/internal/viewport"
)

// Action is one scripted host event.
type Action struct {
	At    time.Duration
	Event engine.Event
}

type Script []Action

// HoverScript hovers at a quarter of d, clicks at half and leaves at three
// quarters.
func HoverScript(d time.Duration) Script {
	ptr := func(t gesture.EventType, at time.Duration) Action {
		return Action{At: at, Event: engine.Pointer{Type: t, Kind: gesture.Mouse, At: at}}
	}
	return Script{
		ptr(gesture.PointerEnter, d/4),
		ptr(gesture.Click, d/2),
		ptr(gesture.PointerLeave, 3*d/4),
	}
}

// TouchScript long-presses from a quarter to half of d, then taps at three
// quarters.
func TouchScript(d time.Duration) Script {
	ptr := func(t gesture.EventType, at time.Duration) Action {
		return Action{At: at, Event: engine.Pointer{Type: t, Kind: gesture.Touch, X: 100, Y: 100, At: at}}
	}
	tap := 3 * d / 4
	return Script{
		ptr(gesture.PointerDown, d/4),
		ptr(gesture.PointerUp, d/2),
		ptr(gesture.Click, d/2),
		ptr(gesture.PointerDown, tap),
		ptr(gesture.PointerUp, tap+50*time.Millisecond),
		ptr(gesture.Click, tap+50*time.Millisecond),
	}
}

type Options struct {
	Preset          string
	Duration        time.Duration
	HostFPS         int
	Signals         viewport.Signals
	Script          Script
	SettleThreshold float64
	Logger          *log.Logger
}

func DefaultOptions() Options {
	d := 8 * time.Second
	return Options{
		Preset:   "desktop",
		Duration: d,
		HostFPS:  60,
		Signals: viewport.Signals{
			ElementWidth:     1280,
			ElementHeight:    720,
			WindowWidth:      1280,
			WindowHeight:     720,
			DevicePixelRatio: 1,
		},
		Script:          HoverScript(d),
		SettleThreshold: 2,
	}
}

func (o *Options) validate() error {
	if o.Duration <= 0 {
		return fmt.Errorf("bench: duration must be positive, got %v", o.Duration)
	}
	if o.HostFPS <= 0 {
		return fmt.Errorf("bench: host fps must be positive, got %d", o.HostFPS)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

type Result struct {
	Seed      int64
	Particles int
	Samples   int
	Promoted  bool
	Layout    viewport.Layout
	Frames    []storage.Frame
	Metrics   map[string]float64

	// Convergence and StepMs hold one value per stepped frame.
	Convergence []float64
	StepMs      []float64
	Uploads     int
	Elapsed     time.Duration
}

// Run ticks a fresh engine at the host rate for opts.Duration, delivering
// script actions as their time comes.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	rec := &render.Recorder{}
	engOpts := []engine.Option{engine.WithLogger(opts.Logger)}
	for _, m := range metrics.Standard(opts.SettleThreshold) {
		engOpts = append(engOpts, engine.WithMetric(m))
	}
	eng, err := engine.New(cfg, rec, opts.Signals, engOpts...)
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	script := append(Script(nil), opts.Script...)
	sort.SliceStable(script, func(i, j int) bool { return script[i].At < script[j].At })

	interval := time.Second / time.Duration(opts.HostFPS)
	frames := int(opts.Duration / interval)
	res := &Result{
		Seed:      cfg.Seed,
		Particles: eng.Particles().Len(),
		Frames:    make([]storage.Frame, 0, frames),
	}

	wall := time.Now()
	next := 0
	for i := 1; i <= frames; i++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		now := time.Duration(i) * interval
		for next < len(script) && script[next].At <= now {
			if err := eng.Dispatch(script[next].Event); err != nil {
				return res, err
			}
			next++
		}

		fr := eng.Tick(now)
		res.Frames = append(res.Frames, storage.Frame{
			At:          now,
			Decision:    fr.Decision.String(),
			Mode:        fr.Mode.String(),
			StepTime:    fr.StepTime,
			Convergence: fr.Convergence,
		})
		if fr.Decision == viewport.Step {
			res.Convergence = append(res.Convergence, fr.Convergence)
			res.StepMs = append(res.StepMs, float64(fr.StepTime)/float64(time.Millisecond))
		}
	}

	res.Elapsed = time.Since(wall)
	res.Samples = eng.Samples()
	res.Promoted = eng.Promoted()
	res.Layout = eng.Layout()
	res.Metrics = eng.Metrics()
	res.Uploads = rec.Stats().Uploads

	opts.Logger.Debug("bench run done",
		"seed", cfg.Seed,
		"frames", len(res.Frames),
		"stepped", len(res.StepMs),
		"elapsed", res.Elapsed)
	return res, nil
}

// Metadata describes r for storage.
func (r *Result) Metadata(preset string, d time.Duration) storage.RunMetadata {
	return storage.RunMetadata{
		Preset:    preset,
		Seed:      r.Seed,
		Particles: r.Particles,
		Samples:   r.Samples,
		FPS:       int(time.Second / r.Layout.FrameInterval),
		Duration:  d.Seconds(),
		Width:     r.Layout.Width,
		Height:    r.Layout.Height,
		Promoted:  r.Promoted,
		Metrics:   r.Metrics,
	}
}
