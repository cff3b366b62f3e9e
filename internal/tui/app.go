// Package tui hosts the particle engine in a terminal with Bubble Tea.
package tui

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/log"

	"github.com/san-kum/glyphswarm/internal/config"
	"github.com/san-kum/glyphswarm/internal/engine"
	"github.com/san-kum/glyphswarm/internal/gesture"
	"github.com/san-kum/glyphswarm/internal/swarm"
	"github.com/san-kum/glyphswarm/internal/viewport"
	"github.com/san-kum/glyphswarm/internal/viz"
)

const (
	frameRate       = 60
	historyCapacity = 120
	statsWidth      = 44
	padX, padY      = 2, 1
	minCols         = 20
	minRows         = 8
)

var presetInfo = map[string]string{
	"desktop": "full density, 60 fps",
	"mobile":  "phone budget, 45 fps",
	"calm":    "slow drift, soft shimmer",
	"dense":   "twice the particles",
}

type Options struct {
	Config        *config.Config
	Preset        string
	Theme         string
	Touch         bool
	ReducedMotion bool
	Menu          bool
	Logger        *log.Logger
}

type state int

const (
	stateMenu state = iota
	stateLive
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the terminal host. The engine is created when the live view
// starts and closed on quit.
type Model struct {
	opts   Options
	state  state
	cursor int
	names  []string

	eng     *engine.Engine
	braille *viz.BrailleRenderer
	theme   viz.Theme
	start   time.Time
	now     time.Duration

	width, height int
	cols, rows    int

	last      engine.FrameResult
	stepHist  []float64
	spring    harmonica.Spring
	gauge     float64
	gaugeVel  float64
	reference float64
	lastConv  float64

	pointer  *engine.Tracker
	hidden   bool
	offview  bool
	recorder *viz.GIFRecorder
	status   string
	err      error
}

func New(opts Options) (Model, error) {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	m := Model{
		opts:   opts,
		names:  config.ListPresets(),
		theme:  viz.GetTheme(opts.Theme),
		width:  120,
		height: 36,
		spring: harmonica.NewSpring(harmonica.FPS(frameRate), 6.0, 0.6),
	}
	m.fitCanvas()
	for i, name := range m.names {
		if name == opts.Preset {
			m.cursor = i
		}
	}
	if opts.Menu {
		return m, nil
	}
	if err := m.startLive(opts.Config); err != nil {
		return m, err
	}
	return m, nil
}

// Run starts the program on the alternate screen with mouse motion and
// focus reporting enabled.
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.close()
	}
	return err
}

func (m *Model) startLive(cfg *config.Config) error {
	m.braille = viz.NewBrailleRenderer(m.cols, m.rows)
	eng, err := engine.New(cfg, m.braille, m.signals(), engine.WithLogger(m.opts.Logger))
	if err != nil {
		return err
	}
	m.eng = eng
	m.state = stateLive
	m.start = time.Now()
	m.now = 0
	m.stepHist = make([]float64, 0, historyCapacity)
	m.pointer = engine.NewTracker(m.pointerKind())
	m.gauge, m.gaugeVel, m.reference = 0, 0, 0
	m.last = engine.FrameResult{}
	m.status = ""
	return nil
}

func (m *Model) close() {
	if m.eng != nil {
		_ = m.eng.Close()
		m.eng = nil
	}
}

func (m Model) Init() tea.Cmd {
	if m.state == stateLive {
		return tick()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateMenu {
			return m.menuKey(msg)
		}
		return m.liveKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.fitCanvas()
		if m.eng != nil {
			m.braille.SetCells(m.cols, m.rows)
			m.dispatch(engine.Resize{Signals: m.signals(), At: m.now})
		}
		return m, nil
	case tea.MouseMsg:
		if m.eng != nil {
			m.mouse(msg)
		}
		return m, nil
	case tea.FocusMsg:
		m.hidden = false
		m.dispatch(engine.VisibilityChanged{Hidden: false})
		return m, nil
	case tea.BlurMsg:
		m.hidden = true
		m.dispatch(engine.VisibilityChanged{Hidden: true})
		return m, nil
	case TickMsg:
		if m.eng == nil {
			return m, nil
		}
		m.now = time.Time(msg).Sub(m.start)
		m.frame()
		return m, tick()
	}
	return m, nil
}

func (m Model) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter", " ":
		cfg := config.GetPreset(m.names[m.cursor])
		cfg.Seed = m.opts.Config.Seed
		if err := m.startLive(cfg); err != nil {
			m.err = err
			return m, nil
		}
		return m, tea.Batch(tea.ClearScreen, tick())
	}
	return m, nil
}

func (m Model) liveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.close()
		return m, tea.Quit
	case "esc":
		if !m.opts.Menu {
			return m, nil
		}
		m.close()
		m.state = stateMenu
		return m, tea.ClearScreen
	case "f":
		if m.eng.Mode() == swarm.Forming {
			m.dispatch(engine.Pointer{Type: gesture.PointerLeave, Kind: gesture.Mouse, At: m.now})
		} else {
			m.dispatch(engine.Pointer{Type: gesture.PointerEnter, Kind: gesture.Mouse, At: m.now})
		}
	case "c":
		m.dispatch(engine.Pointer{Type: gesture.Click, Kind: gesture.Mouse, At: m.now})
	case "h":
		m.hidden = !m.hidden
		m.dispatch(engine.VisibilityChanged{Hidden: m.hidden})
	case "v":
		m.offview = !m.offview
		m.dispatch(engine.IntersectionChanged{Visible: !m.offview})
	case "m":
		m.opts.ReducedMotion = !m.opts.ReducedMotion
		m.dispatch(engine.PreferencesChanged{ReducedMotion: m.opts.ReducedMotion})
	case "t":
		m.theme = viz.NextTheme(m.theme)
	case "g":
		m.toggleRecording()
	case "s":
		m.saveSnapshot()
	}
	return m, nil
}

func (m *Model) dispatch(ev engine.Event) {
	if m.eng == nil {
		return
	}
	if err := m.eng.Dispatch(ev); err != nil {
		m.err = err
	}
}

func (m *Model) frame() {
	res := m.eng.Tick(m.now)
	m.last = res
	if res.Err != nil {
		m.err = res.Err
	}
	if res.Decision == viewport.Step {
		m.stepHist = append(m.stepHist, float64(res.StepTime)/float64(time.Millisecond))
		if len(m.stepHist) > historyCapacity {
			m.stepHist = m.stepHist[1:]
		}
		m.lastConv = res.Convergence
	}

	target := 0.0
	if res.Mode == swarm.Forming {
		if m.reference == 0 {
			m.reference = m.lastConv
		}
		if m.reference > 0 {
			target = clamp01(1 - m.lastConv/m.reference)
		}
	} else {
		m.reference = 0
	}
	m.gauge, m.gaugeVel = m.spring.Update(m.gauge, m.gaugeVel, target)

	if m.recorder != nil && res.Decision != viewport.Skip {
		m.recorder.Capture(m.braille.Canvas())
	}
}

// fitCanvas sizes the Braille canvas to the space left of the stats panel.
func (m *Model) fitCanvas() {
	m.cols = max(m.width-statsWidth-2*padX-2, minCols)
	m.rows = max(m.height-2*padY, minRows)
}

// signals describes the canvas to the viewport adapter. One Braille dot
// counts as viz.DotPx host pixels.
func (m Model) signals() viewport.Signals {
	w := float64(m.cols * 2 * viz.DotPx)
	h := float64(m.rows * 4 * viz.DotPx)
	return viewport.Signals{
		ElementWidth:     w,
		ElementHeight:    h,
		WindowWidth:      w,
		WindowHeight:     h,
		DevicePixelRatio: 1,
		CoarsePointer:    m.opts.Touch,
		ReducedMotion:    m.opts.ReducedMotion,
	}
}

func (m Model) Engine() *engine.Engine { return m.eng }

func (m Model) Err() error { return m.err }

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

func describePreset(name string) string {
	if d, ok := presetInfo[name]; ok {
		return d
	}
	return fmt.Sprintf("%s preset", name)
}
