package bench

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
)

// WriteSummary prints one run as an aligned table.
func WriteSummary(w io.Writer, preset string, r *Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "preset\t%s\n", preset)
	fmt.Fprintf(tw, "seed\t%d\n", r.Seed)
	fmt.Fprintf(tw, "layout\t%.0fx%.0f @%.2f gap %.0f %s\n",
		r.Layout.Width, r.Layout.Height, r.Layout.PixelRatio, r.Layout.Gap, r.Layout.Class)
	fmt.Fprintf(tw, "particles\t%d\n", r.Particles)
	fmt.Fprintf(tw, "samples\t%d\n", r.Samples)
	fmt.Fprintf(tw, "frames\t%d (%d stepped, %d uploads)\n", len(r.Frames), len(r.StepMs), r.Uploads)
	fmt.Fprintf(tw, "promoted\t%v\n", r.Promoted)
	fmt.Fprintf(tw, "wall\t%s\n", r.Elapsed.Round(time.Millisecond))
	for _, name := range []string{"step_ms", "peak_step_ms", "stepped_ratio", "convergence", "settle_ms"} {
		fmt.Fprintf(tw, "%s\t%s\n", name, formatValue(r.Metrics[name]))
	}
	return tw.Flush()
}

// WriteStats prints an ensemble's aggregated metrics.
func WriteStats(w io.Writer, stats []Stat) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "metric\tmean\tstd\tmin\tmax\tn")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%d\n", s.Name, s.Mean, s.Std, s.Min, s.Max, s.N)
	}
	return tw.Flush()
}

// Chart plots the per-step convergence of r.
func Chart(r *Result, width, height int) string {
	if len(r.Convergence) < 2 {
		return ""
	}
	data := r.Convergence
	if len(data) > width {
		data = downsample(data, width)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("mean distance to target per step"))
}

func downsample(vs []float64, n int) []float64 {
	out := make([]float64, n)
	step := float64(len(vs)) / float64(n)
	for i := range out {
		out[i] = vs[int(float64(i)*step)]
	}
	return out
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}
