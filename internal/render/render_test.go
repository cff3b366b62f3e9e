package render

import (
	"math"
	"testing"

	"github.com/san-kum/glyphswarm/internal/config"
)

func TestProjectCentre(t *testing.T) {
	cam := NewCamera(config.DefaultConfig().Render, 16.0/9)
	x, y, depth, ok := cam.Project(Vec3{}, 1280, 720)
	if !ok {
		t.Fatal("origin should be visible")
	}
	if math.Abs(x-640) > 1e-9 || math.Abs(y-360) > 1e-9 {
		t.Errorf("origin projected to (%v,%v)", x, y)
	}
	if depth != 420 {
		t.Errorf("depth = %v, want 420", depth)
	}
}

func TestProjectOrientation(t *testing.T) {
	cam := NewCamera(config.DefaultConfig().Render, 1)
	x, y, _, _ := cam.Project(Vec3{X: 50, Y: 50}, 800, 800)
	if x <= 400 || y >= 400 {
		t.Errorf("+x+y should land right and up, got (%v,%v)", x, y)
	}
}

func TestProjectClipsBehindCamera(t *testing.T) {
	cam := NewCamera(config.DefaultConfig().Render, 1)
	if _, _, _, ok := cam.Project(Vec3{Z: 500}, 800, 800); ok {
		t.Error("point behind camera should be clipped")
	}
	if _, _, _, ok := cam.Project(Vec3{Z: -3000}, 800, 800); ok {
		t.Error("point beyond far plane should be clipped")
	}
}

func TestPixelScaleMatchesProjection(t *testing.T) {
	cam := NewCamera(config.DefaultConfig().Render, 1)
	_, y0, depth, _ := cam.Project(Vec3{}, 800, 800)
	_, y1, _, _ := cam.Project(Vec3{Y: 1}, 800, 800)
	if math.Abs((y0-y1)-cam.PixelScale(depth, 800)) > 1e-9 {
		t.Errorf("pixel scale %v, projected %v", cam.PixelScale(depth, 800), y0-y1)
	}
}

func TestFog(t *testing.T) {
	f := Fog{Density: 0.002}
	if f.Factor(0) != 0 {
		t.Error("no fog at zero depth")
	}
	if f.Factor(100) >= f.Factor(1000) {
		t.Error("fog should grow with depth")
	}
	if f.Factor(1e6) > 1 {
		t.Error("fog factor above 1")
	}
}

func TestNewSceneRejectsBadColour(t *testing.T) {
	cfg := config.DefaultConfig().Render
	cfg.BaseTint = "not-a-colour"
	if _, err := NewScene(cfg, nil); err == nil {
		t.Error("expected error")
	}
}

func TestRecorderClearsUpdateFlag(t *testing.T) {
	s, err := NewScene(config.DefaultConfig().Render, make([]float64, 9))
	if err != nil {
		t.Fatal(err)
	}
	var r Recorder
	_ = r.Render(s, nil)
	_ = r.Render(s, nil)
	st := r.Stats()
	if st.Frames != 2 || st.Uploads != 1 || st.LastCount != 3 {
		t.Errorf("stats = %+v", st)
	}
	if s.Points.Geometry.NeedsUpdate {
		t.Error("flag should be cleared")
	}
}
