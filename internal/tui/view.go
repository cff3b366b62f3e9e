package tui

import (
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/glyphswarm/internal/export"
	"github.com/san-kum/glyphswarm/internal/viz"
)

const (
	gifPath  = "glyphswarm.gif"
	gifDelay = 2
	svgScale = 4.0
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func (m Model) View() string {
	if m.state == stateMenu {
		return m.viewMenu()
	}
	if m.eng == nil {
		return ""
	}
	canvas := lipgloss.NewStyle().Padding(padY, padX).Render(m.braille.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.viewStats())
}

func (m Model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("         " + cyan.Render("g l y p h s w a r m") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.names {
		desc := describePreset(name)
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString("      " + red.Render(m.err.Error()) + "\n\n")
	}
	b.WriteString(dim.Render("      ↑↓ select   enter start   q quit") + "\n")
	return b.String()
}

func (m Model) viewStats() string {
	t := m.theme
	label := lipgloss.NewStyle().Foreground(t.Muted)
	value := lipgloss.NewStyle().Foreground(t.Text)
	title := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	inner := statsWidth - 4

	l := m.eng.Layout()
	row := func(k, v string) string {
		return label.Render(fmt.Sprintf("%-10s", k)) + value.Render(v)
	}

	mode := m.eng.Mode().String()
	if m.eng.Promoted() {
		mode += " · promoted"
	}

	lines := []string{
		title.Render(m.eng.Phrase().Text(l.Class)),
		viz.Separator(inner, t),
		row("mode", mode),
		row("frame", m.last.Decision.String()),
		row("particles", fmt.Sprintf("%d → %d samples", m.eng.Particles().Len(), m.eng.Samples())),
		row("layout", fmt.Sprintf("%.0fx%.0f gap %.0f %s", l.Width, l.Height, l.Gap, l.Class)),
		row("rate", fmt.Sprintf("%d fps", int(time.Second/l.FrameInterval))),
		row("drawn", fmt.Sprintf("%d dots", m.braille.Drawn())),
		"",
		label.Render("formation"),
		viz.Gauge(m.gauge, inner-8, t),
	}

	if len(m.stepHist) >= 2 {
		chart := asciigraph.Plot(m.stepHist,
			asciigraph.Height(4),
			asciigraph.Width(inner-8),
			asciigraph.Caption("step ms"))
		lines = append(lines, "", chart)
	}
	lines = append(lines, "", label.Render("recent ")+viz.Sparkline(m.stepHist, inner-8))

	flags := []string{}
	if m.hidden {
		flags = append(flags, "hidden")
	}
	if m.offview {
		flags = append(flags, "off-screen")
	}
	if l.ReducedMotion {
		flags = append(flags, "reduced motion")
	}
	if m.recorder != nil {
		flags = append(flags, fmt.Sprintf("rec %d", m.recorder.Len()))
	}
	if len(flags) > 0 {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(t.Accent).Render(strings.Join(flags, " · ")))
	}
	if m.status != "" {
		lines = append(lines, "", value.Render(m.status))
	}
	if m.err != nil {
		lines = append(lines, "", red.Render(m.err.Error()))
	}

	lines = append(lines, "",
		label.Render("f form  c tap  m motion  v view"),
		label.Render("h hide  t theme  g gif  s svg  q quit"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		Width(statsWidth - 2).
		Render(strings.Join(lines, "\n"))
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		fg := m.eng.Scene().Points.Material.Color
		m.recorder = viz.NewGIFRecorder(rgba(fg), rgba(m.eng.Scene().Background))
		m.status = "recording"
		return
	}
	n := m.recorder.Len()
	if err := m.recorder.Save(gifPath, gifDelay); err != nil {
		m.err = err
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", n, gifPath)
	}
	m.recorder = nil
}

func (m *Model) saveSnapshot() {
	st := export.DefaultStyle()
	st.Background = m.eng.Scene().Background.Hex()
	st.Fill = m.eng.Scene().Points.Material.Color.Hex()
	path := fmt.Sprintf("glyphswarm_%d.svg", m.now.Milliseconds())
	svg := export.CanvasToSVG(m.braille.Canvas(), svgScale, st)
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		m.err = err
		return
	}
	m.status = "saved " + path
}

func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Formation is the sprung progress gauge, 0 while wandering and near 1
// once the swarm has settled on the phrase.
func (m Model) Formation() float64 { return m.gauge }
