// Package render is the boundary between the particle engine and whatever
// draws it. The engine fills a Scene and hands it to a Renderer each frame.
package render

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/glyphswarm/internal/config"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Geometry shares the simulator's position buffer. NeedsUpdate is raised
// after a step and cleared by the renderer once it has uploaded the data.
type Geometry struct {
	Positions   []float64
	NeedsUpdate bool
}

func (g *Geometry) Count() int { return len(g.Positions) / 3 }

func (g *Geometry) At(i int) Vec3 {
	j := i * 3
	return Vec3{g.Positions[j], g.Positions[j+1], g.Positions[j+2]}
}

type Material struct {
	Color   colorful.Color
	Size    float64
	Opacity float64
}

type Points struct {
	Geometry *Geometry
	Material *Material
}

// Fog is exponential-squared depth attenuation.
type Fog struct {
	Color   colorful.Color
	Density float64
}

// Factor is the fog weight in [0,1] at the given view depth.
func (f Fog) Factor(depth float64) float64 {
	d := f.Density * depth
	return 1 - math.Exp(-d*d)
}

// Shade blends c towards the fog colour for a point at depth.
func (f Fog) Shade(c colorful.Color, depth float64) colorful.Color {
	return c.BlendRgb(f.Color, f.Factor(depth)).Clamped()
}

type Scene struct {
	Background colorful.Color
	Fog        Fog
	Points     Points
}

// NewScene builds a scene around positions using the render settings.
func NewScene(cfg config.RenderConfig, positions []float64) (*Scene, error) {
	base, err := ParseColor(cfg.BaseTint)
	if err != nil {
		return nil, err
	}
	fog, err := ParseColor(cfg.FogColor)
	if err != nil {
		return nil, err
	}
	return &Scene{
		Background: fog,
		Fog:        Fog{Color: fog, Density: cfg.FogDensity},
		Points: Points{
			Geometry: &Geometry{Positions: positions, NeedsUpdate: true},
			Material: &Material{Color: base, Size: cfg.PointSize, Opacity: cfg.Opacity},
		},
	}, nil
}

// ParseColor accepts #rrggbb.
func ParseColor(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("render: colour %q: %w", hex, err)
	}
	return c, nil
}
