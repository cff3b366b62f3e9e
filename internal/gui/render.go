package gui

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/glyphswarm/internal/render"
)

// minRadius keeps far points visible as at least a one pixel disc.
const minRadius = 0.5

// Sprite is one projected particle in window pixels.
type Sprite struct {
	X, Y   float32
	Radius float32
	Color  colorful.Color
	Alpha  float32
}

// Renderer projects the scene into sprites. It draws nothing itself, so
// the window loop can repaint the last frame when the engine skips one.
type Renderer struct {
	width, height, pixelRatio float64

	sprites    []Sprite
	background colorful.Color
	frames     int
	uploads    int
}

func NewRenderer() *Renderer { return &Renderer{} }

func (r *Renderer) Resize(width, height, pixelRatio float64) {
	r.width, r.height, r.pixelRatio = width, height, pixelRatio
}

func (r *Renderer) Render(s *render.Scene, cam *render.Camera) error {
	g := s.Points.Geometry
	m := s.Points.Material
	if g.NeedsUpdate {
		r.uploads++
		g.NeedsUpdate = false
	}

	r.sprites = r.sprites[:0]
	for i := 0; i < g.Count(); i++ {
		x, y, depth, ok := cam.Project(g.At(i), r.width, r.height)
		if !ok {
			continue
		}
		radius := 0.5 * m.Size * cam.PixelScale(depth, r.height)
		r.sprites = append(r.sprites, Sprite{
			X:      float32(x),
			Y:      float32(y),
			Radius: float32(math.Max(radius, minRadius)),
			Color:  s.Fog.Shade(m.Color, depth),
			Alpha:  float32(m.Opacity),
		})
	}
	r.background = s.Background
	r.frames++
	return nil
}

func (r *Renderer) Sprites() []Sprite          { return r.sprites }
func (r *Renderer) Background() colorful.Color { return r.background }
func (r *Renderer) Frames() int                { return r.frames }
func (r *Renderer) Uploads() int               { return r.uploads }

// Size returns the geometry from the last Resize.
func (r *Renderer) Size() (width, height, pixelRatio float64) {
	return r.width, r.height, r.pixelRatio
}
