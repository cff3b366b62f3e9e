// Package glyph turns text into world-space sample points.
//
// Text is drawn into an offscreen alpha mask with an embedded bold face,
// the font size is fitted to the target box by binary search, and the
// mask is scanned on a regular grid. Every covered grid cell becomes one
// sample point centered on the origin with y pointing up.
package glyph

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/glyphswarm/internal/config"
)

// ErrFontLoad is returned when the font data cannot be parsed.
var ErrFontLoad = errors.New("glyph: cannot load font")

const maxCachedFaces = 64

type Point struct {
	X, Y float64
}

type Options struct {
	PixelRatio     float64
	MaxRasterScale float64
	MinFontPx      float64
	MaxFontPx      float64
	FitSteps       int
	LineHeight     float64
	AlphaThreshold uint8
	WorldPerPx     float64
}

func DefaultOptions() Options {
	return Options{
		PixelRatio:     1,
		MaxRasterScale: 3,
		MinFontPx:      8,
		MaxFontPx:      240,
		FitSteps:       14,
		LineHeight:     1.10,
		AlphaThreshold: 128,
		WorldPerPx:     0.5,
	}
}

func OptionsFromConfig(cfg config.TextConfig, pixelRatio float64) Options {
	return Options{
		PixelRatio:     pixelRatio,
		MaxRasterScale: cfg.MaxRasterScale,
		MinFontPx:      cfg.MinFontPx,
		MaxFontPx:      cfg.MaxFontPx,
		FitSteps:       cfg.FitSteps,
		LineHeight:     cfg.LineHeight,
		AlphaThreshold: cfg.AlphaThreshold,
		WorldPerPx:     cfg.WorldPerPx,
	}
}

// Result is one rasterization pass.
type Result struct {
	Points []Point
	FontPx float64 // fitted size in CSS pixels
	Scale  float64 // raster pixels per CSS pixel
	Empty  bool    // true when the origin fallback was used
}

type Rasterizer struct {
	font *opentype.Font
	opts Options

	mu    sync.Mutex
	faces map[int]font.Face
}

// New returns a rasterizer using the embedded Go Bold face.
func New(opts Options) (*Rasterizer, error) {
	return NewWithFont(gobold.TTF, opts)
}

func NewWithFont(ttf []byte, opts Options) (*Rasterizer, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontLoad, err)
	}
	return &Rasterizer{font: f, opts: opts, faces: make(map[int]font.Face)}, nil
}

func (r *Rasterizer) SetPixelRatio(dpr float64) { r.opts.PixelRatio = dpr }

func (r *Rasterizer) Options() Options { return r.opts }

// RasterizeText splits text on explicit line breaks and rasterizes it.
func (r *Rasterizer) RasterizeText(text string, boxW, boxH, gap float64) Result {
	return r.Rasterize(strings.Split(text, "\n"), boxW, boxH, gap)
}

// Rasterize draws lines centered in a boxW x boxH CSS-pixel box and samples
// the mask every gap CSS pixels. The result always holds at least one point.
func (r *Rasterizer) Rasterize(lines []string, boxW, boxH, gap float64) Result {
	scale := r.rasterScale()
	w := int(math.Ceil(boxW * scale))
	h := int(math.Ceil(boxH * scale))
	if w <= 0 || h <= 0 || len(lines) == 0 {
		return originResult(scale)
	}

	size := r.fit(lines, float64(w), float64(h), scale)
	face := r.face(size)

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r.draw(mask, face, lines, size)

	stride := int(math.Round(gap * scale))
	if stride < 1 {
		stride = 1
	}

	wpp := r.opts.WorldPerPx
	points := make([]Point, 0, (w/stride+1)*(h/stride+1)/4)
	for py := 0; py < h; py += stride {
		row := mask.Pix[py*mask.Stride : py*mask.Stride+w]
		for px := 0; px < w; px += stride {
			if row[px] <= r.opts.AlphaThreshold {
				continue
			}
			cssX := float64(px) / scale
			cssY := float64(py) / scale
			points = append(points, Point{
				X: (cssX - boxW/2) * wpp,
				Y: (boxH/2 - cssY) * wpp,
			})
		}
	}

	if len(points) == 0 {
		res := originResult(scale)
		res.FontPx = size / scale
		return res
	}
	return Result{Points: points, FontPx: size / scale, Scale: scale}
}

func originResult(scale float64) Result {
	return Result{Points: []Point{{0, 0}}, Scale: scale, Empty: true}
}

func (r *Rasterizer) rasterScale() float64 {
	s := r.opts.PixelRatio
	if s < 1 || math.IsNaN(s) {
		s = 1
	}
	if r.opts.MaxRasterScale > 0 && s > r.opts.MaxRasterScale {
		s = r.opts.MaxRasterScale
	}
	return s
}

// fit binary-searches the largest raster font size whose block fits w x h.
func (r *Rasterizer) fit(lines []string, w, h, scale float64) float64 {
	lo := r.opts.MinFontPx * scale
	hi := r.opts.MaxFontPx * scale
	best := lo
	for i := 0; i < r.opts.FitSteps; i++ {
		mid := (lo + hi) / 2
		if r.fits(lines, mid, w, h) {
			best = mid
			lo = mid
		} else {
			hi = mid
		}
	}
	return best
}

func (r *Rasterizer) fits(lines []string, size, w, h float64) bool {
	if float64(len(lines))*size*r.opts.LineHeight > h {
		return false
	}
	face := r.face(size)
	for _, line := range lines {
		if fixedToFloat(font.MeasureString(face, line)) > w {
			return false
		}
	}
	return true
}

func (r *Rasterizer) draw(dst *image.Alpha, face font.Face, lines []string, size float64) {
	bounds := dst.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())

	m := face.Metrics()
	ascent, descent := fixedToFloat(m.Ascent), fixedToFloat(m.Descent)

	lineH := size * r.opts.LineHeight
	top := (h - lineH*float64(len(lines))) / 2

	d := &font.Drawer{Dst: dst, Src: image.Opaque, Face: face}
	for i, line := range lines {
		adv := fixedToFloat(font.MeasureString(face, line))
		mid := top + (float64(i)+0.5)*lineH
		d.Dot = fixed.Point26_6{
			X: floatToFixed((w - adv) / 2),
			Y: floatToFixed(mid + (ascent-descent)/2),
		}
		d.DrawString(line)
	}
}

// face returns a cached face for size, keyed by quarter pixels.
func (r *Rasterizer) face(size float64) font.Face {
	key := int(math.Round(size * 4))

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.faces[key]; ok {
		return f
	}
	if len(r.faces) >= maxCachedFaces {
		for k, f := range r.faces {
			f.Close()
			delete(r.faces, k)
		}
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    float64(key) / 4,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		// Only reachable with a non-positive size; the parsed font is valid.
		f, _ = opentype.NewFace(r.font, &opentype.FaceOptions{Size: 1, DPI: 72})
	}
	r.faces[key] = f
	return f
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }
