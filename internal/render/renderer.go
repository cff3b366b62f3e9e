package render

import "sync"

// Renderer draws a scene. Hosts implement it over a terminal or a window.
type Renderer interface {
	Render(s *Scene, c *Camera) error
	Resize(width, height, pixelRatio float64)
}

type RecorderStats struct {
	Frames  int
	Uploads int
	Resizes int

	Width, Height, PixelRatio float64
	LastMaterial              Material
	LastCount                 int
}

// Recorder is a headless Renderer that only keeps counters and the last
// frame's material. It backs the bench command and tests.
type Recorder struct {
	mu    sync.Mutex
	stats RecorderStats
}

func (r *Recorder) Render(s *Scene, _ *Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Frames++
	if s.Points.Geometry.NeedsUpdate {
		r.stats.Uploads++
		s.Points.Geometry.NeedsUpdate = false
	}
	r.stats.LastMaterial = *s.Points.Material
	r.stats.LastCount = s.Points.Geometry.Count()
	return nil
}

func (r *Recorder) Resize(width, height, pixelRatio float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Resizes++
	r.stats.Width, r.stats.Height, r.stats.PixelRatio = width, height, pixelRatio
}

func (r *Recorder) Stats() RecorderStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
