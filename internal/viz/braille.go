package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/glyphswarm/internal/render"
)

// DotPx is how many host pixels one Braille dot stands for. Hosts size the
// viewport signals with it so the camera aspect matches the dot grid.
const DotPx = 4

// fogCutoff hides points that are almost fully fogged; a Braille dot has no
// intensity, only on or off.
const fogCutoff = 0.85

// BrailleRenderer is a render.Renderer over a terminal Canvas. Every dot
// takes the material colour faded towards the scene background by opacity.
type BrailleRenderer struct {
	canvas *Canvas
	tint   colorful.Color
	bg     colorful.Color
	drawn  int
	frames int

	width, height, pixelRatio float64
}

func NewBrailleRenderer(cols, rows int) *BrailleRenderer {
	return &BrailleRenderer{canvas: NewCanvas(cols, rows)}
}

// SetCells resizes the canvas in character cells.
func (b *BrailleRenderer) SetCells(cols, rows int) {
	if cols == b.canvas.Width && rows == b.canvas.Height {
		return
	}
	b.canvas = NewCanvas(cols, rows)
}

// Resize records the host geometry. The canvas keeps its cell size; the
// engine's camera already carries the aspect.
func (b *BrailleRenderer) Resize(width, height, pixelRatio float64) {
	b.width, b.height, b.pixelRatio = width, height, pixelRatio
}

func (b *BrailleRenderer) Render(s *render.Scene, cam *render.Camera) error {
	b.canvas.Clear()
	g := s.Points.Geometry
	sw := float64(b.canvas.DotsWide())
	sh := float64(b.canvas.DotsHigh())

	drawn := 0
	for i := 0; i < g.Count(); i++ {
		x, y, depth, ok := cam.Project(g.At(i), sw, sh)
		if !ok || s.Fog.Factor(depth) > fogCutoff {
			continue
		}
		b.canvas.Set(int(x), int(y))
		drawn++
	}
	g.NeedsUpdate = false

	m := s.Points.Material
	b.bg = s.Background
	b.tint = s.Background.BlendRgb(m.Color, m.Opacity).Clamped()
	b.drawn = drawn
	b.frames++
	return nil
}

func (b *BrailleRenderer) Canvas() *Canvas { return b.canvas }
func (b *BrailleRenderer) Drawn() int      { return b.drawn }
func (b *BrailleRenderer) Frames() int     { return b.frames }

// View renders the canvas in the current tint.
func (b *BrailleRenderer) View() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(b.tint.Hex())).
		Render(b.canvas.String())
}
