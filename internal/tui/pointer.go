package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/glyphswarm/internal/engine"
	"github.com/san-kum/glyphswarm/internal/gesture"
	"github.com/san-kum/glyphswarm/internal/viz"
)

func (m Model) pointerKind() gesture.PointerKind {
	if m.opts.Touch {
		return gesture.Touch
	}
	return gesture.Mouse
}

// cellToHost maps a terminal cell to host pixels at the cell's centre, and
// reports whether the cell lies on the canvas.
func (m Model) cellToHost(x, y int) (float64, float64, bool) {
	cx, cy := x-padX, y-padY
	hx := float64(cx*2*viz.DotPx + viz.DotPx)
	hy := float64(cy*4*viz.DotPx + 2*viz.DotPx)
	return hx, hy, cx >= 0 && cy >= 0 && cx < m.cols && cy < m.rows
}

func (m *Model) mouse(msg tea.MouseMsg) {
	hx, hy, inside := m.cellToHost(msg.X, msg.Y)
	s := engine.PointerSample{
		X:        hx,
		Y:        hy,
		Inside:   inside,
		Pressed:  msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft,
		Released: msg.Action == tea.MouseActionRelease,
	}
	for _, ev := range m.pointer.Track(s, m.now) {
		m.dispatch(ev)
	}
}
