// Package viewport derives canvas sizing, pixel density, sampling density
// and frame pacing from host geometry and visibility signals.
package viewport

import (
	"errors"
	"math"
	"time"

	"github.com/san-kum/glyphswarm/internal/config"
	"github.com/san-kum/glyphswarm/internal/phrase"
)

// ErrDegenerateGeometry reports that neither the element nor the window had
// a usable size. The previous layout stays in effect.
var ErrDegenerateGeometry = errors.New("viewport: degenerate geometry")

// nominal size used when the very first measurement is degenerate
const (
	nominalWidth  = 1280
	nominalHeight = 720
)

// Signals are the host measurements the adapter consumes.
type Signals struct {
	ElementWidth     float64
	ElementHeight    float64
	WindowWidth      float64
	WindowHeight     float64
	DevicePixelRatio float64
	CoarsePointer    bool
	ReducedMotion    bool
}

type Layout struct {
	Width, Height       float64
	PixelRatio          float64
	Gap                 float64
	BoxWidth, BoxHeight float64
	Class               phrase.DeviceClass
	Constrained         bool
	ReducedMotion       bool
	FrameInterval       time.Duration
	FromWindow          bool
}

// Aspect is width over height, 1 for a zero height.
func (l Layout) Aspect() float64 {
	if l.Height == 0 {
		return 1
	}
	return l.Width / l.Height
}

// Compute derives a layout from sig for a swarm of particleCount points.
func Compute(cfg config.ViewportConfig, sig Signals, particleCount int) (Layout, error) {
	w, h := sig.ElementWidth, sig.ElementHeight
	fromWindow := false
	if w < cfg.MinElementPx || h < cfg.MinElementPx {
		w, h = sig.WindowWidth, sig.WindowHeight
		fromWindow = true
	}
	if w < cfg.MinElementPx || h < cfg.MinElementPx || math.IsNaN(w) || math.IsNaN(h) {
		return Layout{}, ErrDegenerateGeometry
	}

	constrained := sig.CoarsePointer || w < cfg.ConstrainedWidth

	dpr := sig.DevicePixelRatio
	if dpr <= 0 || math.IsNaN(dpr) {
		dpr = 1
	}
	dprCap := cfg.DesktopDPRCap
	if constrained {
		dprCap = cfg.ConstrainedDPRCap
	}
	dpr = math.Min(dpr, dprCap)

	boxW := math.Floor(w * cfg.BoxWidthFrac)
	boxH := math.Floor(math.Min(h, math.Max(cfg.MinBoxHeight, h*cfg.BoxHeightFrac)))

	gapMin, gapMax := cfg.DesktopGapMin, cfg.DesktopGapMax
	if constrained {
		gapMin, gapMax = cfg.ConstrainedGapMin, cfg.ConstrainedGapMax
	}
	gap := gapMax
	if particleCount > 0 && cfg.GapDensity > 0 {
		gap = math.Round(math.Sqrt(boxW * boxH / (float64(particleCount) * cfg.GapDensity)))
	}
	gap = clamp(gap, gapMin, gapMax)
	if sig.ReducedMotion {
		gap += cfg.ReducedMotionGap
	}

	fps := cfg.DesktopFPS
	if constrained {
		fps = cfg.ConstrainedFPS
	}
	if sig.ReducedMotion && cfg.ReducedMotionFPS < fps {
		fps = cfg.ReducedMotionFPS
	}

	class := phrase.Wide
	if w < cfg.ConstrainedWidth {
		class = phrase.Narrow
	}

	return Layout{
		Width:         w,
		Height:        h,
		PixelRatio:    dpr,
		Gap:           gap,
		BoxWidth:      boxW,
		BoxHeight:     boxH,
		Class:         class,
		Constrained:   constrained,
		ReducedMotion: sig.ReducedMotion,
		FrameInterval: time.Second / time.Duration(fps),
		FromWindow:    fromWindow,
	}, nil
}

// ScaleParticles applies the device and motion-preference budget to count.
func ScaleParticles(cfg *config.Config, sig Signals) int {
	n := float64(cfg.Particles.Count)
	if sig.CoarsePointer || (sig.WindowWidth > 0 && sig.WindowWidth < cfg.Viewport.ConstrainedWidth) {
		n *= cfg.Particles.MobileScale
	}
	if sig.ReducedMotion {
		n *= cfg.Particles.ReducedMotionScale
	}
	if n < 1 {
		return 1
	}
	return int(math.Round(n))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
