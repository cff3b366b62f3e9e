package viewport

import (
	"errors"
	"testing"
	"time"

	"github.com/san-kum/glyphswarm/internal/config"
	"github.com/san-kum/glyphswarm/internal/phrase"
)

func desktop() Signals {
	return Signals{
		ElementWidth: 1280, ElementHeight: 720,
		WindowWidth: 1280, WindowHeight: 720,
		DevicePixelRatio: 1,
	}
}

func TestComputeDesktop(t *testing.T) {
	cfg := config.DefaultConfig()
	l, err := Compute(cfg.Viewport, desktop(), cfg.Particles.Count)
	if err != nil {
		t.Fatal(err)
	}
	if l.Constrained || l.Class != phrase.Wide {
		t.Errorf("expected unconstrained wide layout, got %+v", l)
	}
	if l.BoxWidth != 1152 || l.BoxHeight != 324 {
		t.Errorf("box = %vx%v, want 1152x324", l.BoxWidth, l.BoxHeight)
	}
	if l.Gap != 4 {
		t.Errorf("gap = %v, want 4", l.Gap)
	}
	if l.FrameInterval != time.Second/60 {
		t.Errorf("interval = %v", l.FrameInterval)
	}
}

func TestComputeFallsBackToWindow(t *testing.T) {
	cfg := config.DefaultConfig()
	sig := desktop()
	sig.ElementWidth, sig.ElementHeight = 0, 1
	l, err := Compute(cfg.Viewport, sig, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if !l.FromWindow || l.Width != 1280 || l.Height != 720 {
		t.Errorf("expected window fallback, got %+v", l)
	}
}

func TestApplyKeepsLayoutOnDegenerate(t *testing.T) {
	cfg := config.DefaultConfig()
	a, err := NewAdapter(cfg, desktop(), 1000)
	if err != nil {
		t.Fatal(err)
	}
	before := a.Layout()

	changed, err := a.Apply(Signals{DevicePixelRatio: 2})
	if !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatalf("expected ErrDegenerateGeometry, got %v", err)
	}
	if changed || a.Layout() != before {
		t.Error("layout should be unchanged")
	}
}

func TestNewAdapterNominalFallback(t *testing.T) {
	a, err := NewAdapter(config.DefaultConfig(), Signals{}, 1000)
	if !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatalf("expected ErrDegenerateGeometry, got %v", err)
	}
	if a.Layout().Width != nominalWidth || a.Layout().FrameInterval == 0 {
		t.Errorf("expected nominal layout, got %+v", a.Layout())
	}
}

func TestPixelRatioCaps(t *testing.T) {
	cfg := config.DefaultConfig()
	tests := []struct {
		name string
		sig  Signals
		want float64
	}{
		{"desktop capped", Signals{ElementWidth: 1280, ElementHeight: 720, DevicePixelRatio: 3}, 2},
		{"desktop below cap", Signals{ElementWidth: 1280, ElementHeight: 720, DevicePixelRatio: 1.25}, 1.25},
		{"narrow capped", Signals{ElementWidth: 400, ElementHeight: 800, DevicePixelRatio: 3}, 1.5},
		{"coarse capped", Signals{ElementWidth: 1280, ElementHeight: 720, DevicePixelRatio: 3, CoarsePointer: true}, 1.5},
		{"missing ratio", Signals{ElementWidth: 1280, ElementHeight: 720}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Compute(cfg.Viewport, tt.sig, 1000)
			if err != nil {
				t.Fatal(err)
			}
			if l.PixelRatio != tt.want {
				t.Errorf("ratio = %v, want %v", l.PixelRatio, tt.want)
			}
		})
	}
}

func TestGapClamping(t *testing.T) {
	cfg := config.DefaultConfig()

	l, _ := Compute(cfg.Viewport, desktop(), 1_000_000)
	if l.Gap != cfg.Viewport.DesktopGapMin {
		t.Errorf("dense gap = %v, want %v", l.Gap, cfg.Viewport.DesktopGapMin)
	}
	l, _ = Compute(cfg.Viewport, desktop(), 10)
	if l.Gap != cfg.Viewport.DesktopGapMax {
		t.Errorf("sparse gap = %v, want %v", l.Gap, cfg.Viewport.DesktopGapMax)
	}

	narrow := Signals{ElementWidth: 390, ElementHeight: 844, DevicePixelRatio: 3}
	l, _ = Compute(cfg.Viewport, narrow, 1_000_000)
	if l.Gap != cfg.Viewport.ConstrainedGapMin || l.Class != phrase.Narrow {
		t.Errorf("narrow layout = %+v", l)
	}
}

func TestReducedMotion(t *testing.T) {
	cfg := config.DefaultConfig()
	base, _ := Compute(cfg.Viewport, desktop(), 6000)
	sig := desktop()
	sig.ReducedMotion = true
	l, _ := Compute(cfg.Viewport, sig, 6000)

	if l.Gap != base.Gap+1 {
		t.Errorf("gap = %v, want %v", l.Gap, base.Gap+1)
	}
	if l.FrameInterval != time.Second/30 {
		t.Errorf("interval = %v, want 1/30s", l.FrameInterval)
	}
}

func TestReducedMotionSurvivesPendingResize(t *testing.T) {
	cfg := config.DefaultConfig()
	a, err := NewAdapter(cfg, desktop(), cfg.Particles.Count)
	if err != nil {
		t.Fatal(err)
	}
	wider := desktop()
	wider.ElementWidth, wider.WindowWidth = 1200, 1200
	a.Resize(wider, 0)

	if _, err := a.SetReducedMotion(true); err != nil {
		t.Fatal(err)
	}
	if !a.Layout().ReducedMotion {
		t.Fatal("preference should apply immediately")
	}

	if _, err := a.Poll(time.Second); err != nil {
		t.Fatal(err)
	}
	l := a.Layout()
	if l.Width != 1200 {
		t.Errorf("width = %v, want the resized 1200", l.Width)
	}
	if !l.ReducedMotion || l.FrameInterval != time.Second/30 {
		t.Errorf("resize reverted reduced motion: %+v", l)
	}
}

func TestScaleParticles(t *testing.T) {
	cfg := config.DefaultConfig()
	if n := ScaleParticles(cfg, desktop()); n != 6000 {
		t.Errorf("desktop = %d", n)
	}
	if n := ScaleParticles(cfg, Signals{WindowWidth: 400, CoarsePointer: true}); n != 3300 {
		t.Errorf("mobile = %d, want 3300", n)
	}
	if n := ScaleParticles(cfg, Signals{WindowWidth: 400, CoarsePointer: true, ReducedMotion: true}); n != 1980 {
		t.Errorf("mobile reduced = %d, want 1980", n)
	}
}

func TestResizeDebounce(t *testing.T) {
	a, _ := NewAdapter(config.DefaultConfig(), desktop(), 6000)
	sig := desktop()
	sig.ElementWidth = 900

	a.Resize(sig, 0)
	a.Resize(sig, 100*time.Millisecond)
	if changed, _ := a.Poll(200 * time.Millisecond); changed {
		t.Fatal("applied before debounce window closed")
	}
	changed, err := a.Poll(250 * time.Millisecond)
	if err != nil || !changed {
		t.Fatalf("changed=%v err=%v", changed, err)
	}
	if a.Layout().Width != 900 || a.Pending() {
		t.Errorf("layout = %+v pending=%v", a.Layout(), a.Pending())
	}
}

func TestFrameThrottle(t *testing.T) {
	sig := desktop()
	sig.ReducedMotion = true
	a, _ := NewAdapter(config.DefaultConfig(), sig, 6000)

	steps := 0
	for i := 0; i <= 60; i++ {
		if a.Frame(time.Duration(i)*time.Second/60) == Step {
			steps++
		}
	}
	if steps < 29 || steps > 31 {
		t.Errorf("steps in one second = %d, want about 30", steps)
	}
}

func TestFrameVisibility(t *testing.T) {
	a, _ := NewAdapter(config.DefaultConfig(), desktop(), 6000)

	a.SetHidden(true)
	if d := a.Frame(0); d != Skip {
		t.Errorf("hidden = %v", d)
	}
	a.SetHidden(false)

	a.SetIntersecting(false)
	if d := a.Frame(time.Second); d != DrawOnly {
		t.Errorf("first off-screen frame = %v", d)
	}
	if d := a.Frame(2 * time.Second); d != Skip {
		t.Errorf("second off-screen frame = %v", d)
	}

	a.SetIntersecting(true)
	if d := a.Frame(3 * time.Second); d != Step {
		t.Errorf("back on screen = %v", d)
	}
}
