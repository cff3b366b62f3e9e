package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/glyphswarm/internal/export"
	"github.com/san-kum/glyphswarm/internal/glyph"
	"github.com/san-kum/glyphswarm/internal/phrase"
	"github.com/san-kum/glyphswarm/internal/viewport"
)

var (
	sampleText   string
	sampleWidth  float64
	sampleHeight float64
	sampleDPR    float64
	sampleGap    float64
	sampleSVG    string
	sampleCoarse bool
)

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample [phrase]",
		Short: "rasterize a phrase and report its sample points",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSample,
	}
	f := cmd.Flags()
	f.StringVar(&sampleText, "text", "", "sample literal text instead of a phrase")
	f.Float64Var(&sampleWidth, "width", 1280, "element width in CSS pixels")
	f.Float64Var(&sampleHeight, "height", 720, "element height in CSS pixels")
	f.Float64Var(&sampleDPR, "dpr", 1, "device pixel ratio")
	f.Float64Var(&sampleGap, "gap", 0, "sampling gap in CSS pixels (0 picks one from the layout)")
	f.StringVar(&sampleSVG, "svg", "", "write the points as SVG")
	f.BoolVar(&sampleCoarse, "coarse", false, "coarse pointer device")
	return cmd
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var p phrase.Phrase
	switch {
	case sampleText != "":
		p = phrase.Literal("text", sampleText)
	default:
		id := cfg.Render.IntroPhrase
		if len(args) > 0 {
			id = args[0]
		}
		if p, err = phrase.DefaultBook().Get(id); err != nil {
			return err
		}
	}

	sig := viewport.Signals{
		ElementWidth:     sampleWidth,
		ElementHeight:    sampleHeight,
		WindowWidth:      sampleWidth,
		WindowHeight:     sampleHeight,
		DevicePixelRatio: sampleDPR,
		CoarsePointer:    sampleCoarse,
	}
	count := viewport.ScaleParticles(cfg, sig)
	layout, err := viewport.Compute(cfg.Viewport, sig, count)
	if err != nil {
		return err
	}
	if sampleGap > 0 {
		layout.Gap = sampleGap
	}

	r, err := glyph.New(glyph.OptionsFromConfig(cfg.Text, layout.PixelRatio))
	if err != nil {
		return err
	}
	res := r.Rasterize(p.Lines(layout.Class), layout.BoxWidth, layout.BoxHeight, layout.Gap)

	fmt.Printf("phrase:    %q (%s)\n", p.Text(layout.Class), layout.Class)
	fmt.Printf("box:       %.0fx%.0f @%.2f\n", layout.BoxWidth, layout.BoxHeight, layout.PixelRatio)
	fmt.Printf("font:      %.1f px\n", res.FontPx)
	fmt.Printf("gap:       %.0f px\n", layout.Gap)
	fmt.Printf("points:    %d (particles %d)\n", len(res.Points), count)
	if res.Empty {
		fmt.Println("note:      nothing rasterized, using origin")
	}

	if sampleSVG != "" {
		svg := export.PointsToSVG(res.Points, layout.BoxWidth, layout.BoxHeight, cfg.Text.WorldPerPx, export.DefaultStyle())
		if err := os.WriteFile(sampleSVG, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote:     %s\n", sampleSVG)
	}
	return nil
}
