// Package gui hosts the particle engine in a raylib window.
package gui

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/glyphswarm/internal/config"
	"github.com/san-kum/glyphswarm/internal/engine"
	"github.com/san-kum/glyphswarm/internal/gesture"
	"github.com/san-kum/glyphswarm/internal/viewport"
)

var (
	colText    = rl.NewColor(140, 140, 140, 255)
	colTextDim = rl.NewColor(60, 60, 60, 255)
)

type Options struct {
	Config        *config.Config
	Touch         bool
	ReducedMotion bool
	Width, Height int
	Logger        *log.Logger
}

type App struct {
	opts    Options
	eng     *engine.Engine
	rend    *Renderer
	tracker *engine.Tracker
	start   time.Time
	log     *log.Logger

	width, height int
	focused       bool
	minimized     bool
	showHUD       bool
	last          engine.FrameResult
}

func initWindow(w, h int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w), int32(h), "glyphswarm")
	rl.SetTargetFPS(120)
	rl.SetExitKey(0)
}

// Run opens a window and blocks until it is closed or q is pressed.
func Run(opts Options) error {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}

	initWindow(opts.Width, opts.Height)
	defer rl.CloseWindow()

	app, err := newApp(opts)
	if err != nil {
		return err
	}
	defer app.eng.Close()

	app.loop()
	return nil
}

func newApp(opts Options) (*App, error) {
	a := &App{
		opts:    opts,
		rend:    NewRenderer(),
		log:     opts.Logger,
		start:   time.Now(),
		width:   rl.GetScreenWidth(),
		height:  rl.GetScreenHeight(),
		focused: true,
		showHUD: true,
	}
	kind := gesture.Mouse
	if opts.Touch {
		kind = gesture.Touch
	}
	a.tracker = engine.NewTracker(kind)

	eng, err := engine.New(opts.Config, a.rend, a.signals(), engine.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	a.eng = eng
	return a, nil
}

func (a *App) signals() viewport.Signals {
	dpi := rl.GetWindowScaleDPI()
	ratio := float64(dpi.X)
	if ratio <= 0 {
		ratio = 1
	}
	w, h := float64(a.width), float64(a.height)
	return viewport.Signals{
		ElementWidth:     w,
		ElementHeight:    h,
		WindowWidth:      w,
		WindowHeight:     h,
		DevicePixelRatio: ratio,
		CoarsePointer:    a.opts.Touch,
		ReducedMotion:    a.opts.ReducedMotion,
	}
}

func (a *App) now() time.Duration { return time.Since(a.start) }

func (a *App) loop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		now := a.now()
		a.input(now)
		a.last = a.eng.Tick(now)
		if a.last.Err != nil {
			a.log.Warn("frame", "err", a.last.Err)
		}
		a.draw()
	}
}

func (a *App) dispatch(ev engine.Event) {
	if err := a.eng.Dispatch(ev); err != nil {
		a.log.Warn("dispatch", "event", fmt.Sprintf("%T", ev), "err", err)
	}
}

// input polls the window once per loop and forwards edges to the engine.
func (a *App) input(now time.Duration) {
	if rl.IsWindowResized() {
		a.width, a.height = rl.GetScreenWidth(), rl.GetScreenHeight()
		a.dispatch(engine.Resize{Signals: a.signals(), At: now})
	}

	if focused := rl.IsWindowFocused(); focused != a.focused {
		a.focused = focused
		a.log.Debug("focus", "focused", focused)
	}
	if minimized := rl.IsWindowMinimized(); minimized != a.minimized {
		a.minimized = minimized
		a.dispatch(engine.VisibilityChanged{Hidden: minimized})
	}

	mp := rl.GetMousePosition()
	x, y := float64(mp.X), float64(mp.Y)
	s := engine.PointerSample{
		X:        x,
		Y:        y,
		Inside:   a.focused && x >= 0 && y >= 0 && x < float64(a.width) && y < float64(a.height),
		Pressed:  rl.IsMouseButtonPressed(rl.MouseButtonLeft),
		Released: rl.IsMouseButtonReleased(rl.MouseButtonLeft),
	}
	for _, ev := range a.tracker.Track(s, now) {
		a.dispatch(ev)
	}

	switch {
	case rl.IsKeyPressed(rl.KeyM):
		a.opts.ReducedMotion = !a.opts.ReducedMotion
		a.dispatch(engine.PreferencesChanged{ReducedMotion: a.opts.ReducedMotion})
	case rl.IsKeyPressed(rl.KeyH):
		a.showHUD = !a.showHUD
	}
}

func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(toRL(a.rend.Background(), 1))

	for _, sp := range a.rend.Sprites() {
		rl.DrawCircleV(rl.NewVector2(sp.X, sp.Y), sp.Radius, toRL(sp.Color, sp.Alpha))
	}

	if a.showHUD {
		a.drawHUD()
	}
	rl.EndDrawing()
}

func (a *App) drawHUD() {
	l := a.eng.Layout()
	mode := a.eng.Mode().String()
	if a.eng.Promoted() {
		mode += " / promoted"
	}
	lines := []string{
		mode,
		fmt.Sprintf("%d particles  %d samples", a.eng.Particles().Len(), a.eng.Samples()),
		fmt.Sprintf("%.0fx%.0f @%.2f  gap %.0f  %s", l.Width, l.Height, l.PixelRatio, l.Gap, l.Class),
		fmt.Sprintf("%d fps target  %d fps", int(time.Second/l.FrameInterval), rl.GetFPS()),
		fmt.Sprintf("frame %s  step %s", a.last.Decision, a.last.StepTime.Round(time.Microsecond)),
	}
	y := int32(12)
	for _, line := range lines {
		rl.DrawText(line, 12, y, 14, colText)
		y += 18
	}
	rl.DrawText("hover to form  click to promote  m motion  h hud  q quit", 12, int32(a.height)-24, 12, colTextDim)
}

func toRL(c colorful.Color, alpha float32) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.NewColor(r, g, b, uint8(math.Round(float64(alpha)*255)))
}
