package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	gifCharW = 8
	gifCharH = 16
)

// GIFRecorder captures Braille frames as two-colour paletted images.
type GIFRecorder struct {
	frames  []*image.Paletted
	palette color.Palette
}

func NewGIFRecorder(fg, bg color.Color) *GIFRecorder {
	return &GIFRecorder{palette: color.Palette{bg, fg}}
}

func (r *GIFRecorder) Len() int { return len(r.frames) }

func (r *GIFRecorder) Capture(c *Canvas) {
	imgW, imgH := c.Width*gifCharW, c.Height*gifCharH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), r.palette)
	dotW, dotH := gifCharW/2, gifCharH/4

	for y := 0; y < c.DotsHigh(); y++ {
		for x := 0; x < c.DotsWide(); x++ {
			if !c.Dot(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save writes the captured frames to path and clears the recorder.
func (r *GIFRecorder) Save(path string, delay int) error {
	if len(r.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return err
	}
	r.frames = nil
	return nil
}
