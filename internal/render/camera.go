package render

import (
	"math"

	"github.com/san-kum/glyphswarm/internal/config"
)

// Camera is a perspective camera looking down -Z from Position.
type Camera struct {
	Position Vec3
	FOV      float64 // vertical, degrees
	Aspect   float64
	Near     float64
	Far      float64
}

func NewCamera(cfg config.RenderConfig, aspect float64) *Camera {
	if aspect <= 0 {
		aspect = 1
	}
	return &Camera{
		Position: Vec3{0, 0, cfg.CameraZ},
		FOV:      cfg.CameraFOV,
		Aspect:   aspect,
		Near:     cfg.CameraNear,
		Far:      cfg.CameraFar,
	}
}

func (c *Camera) SetAspect(aspect float64) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

// Project maps a world point onto a w by h surface. It returns the screen
// position, the view depth and whether the point lies inside the frustum.
func (c *Camera) Project(p Vec3, w, h float64) (float64, float64, float64, bool) {
	rel := p.Sub(c.Position)
	depth := -rel.Z
	if depth < c.Near || depth > c.Far {
		return 0, 0, depth, false
	}
	f := 1 / math.Tan(c.FOV*math.Pi/360)
	nx := rel.X * f / (c.Aspect * depth)
	ny := rel.Y * f / depth
	sx := (nx + 1) * 0.5 * w
	sy := (1 - ny) * 0.5 * h
	return sx, sy, depth, nx >= -1 && nx <= 1 && ny >= -1 && ny <= 1
}

// PixelScale is the on-screen size of one world unit at depth for a
// surface h pixels tall.
func (c *Camera) PixelScale(depth, h float64) float64 {
	if depth <= 0 {
		return 0
	}
	return h * 0.5 / (depth * math.Tan(c.FOV*math.Pi/360))
}
