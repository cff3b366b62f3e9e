package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/glyphswarm/internal/bench"
	"github.com/san-kum/glyphswarm/internal/export"
	"github.com/san-kum/glyphswarm/internal/storage"
	"github.com/san-kum/glyphswarm/internal/viewport"
)

var (
	benchTime   float64
	benchFPS    int
	benchRuns   int
	benchTouch  bool
	benchSave   bool
	benchJSON   string
	benchSVG    string
	benchWidth  float64
	benchHeight float64
	benchDPR    float64
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "run the engine headless through a scripted interaction",
		RunE:  runBench,
	}
	f := cmd.Flags()
	f.Float64Var(&benchTime, "time", 8, "simulated seconds")
	f.IntVar(&benchFPS, "fps", 60, "host tick rate")
	f.IntVar(&benchRuns, "runs", 1, "number of seeds to run in parallel")
	f.BoolVar(&benchTouch, "touch", false, "script a long press and a tap instead of hover")
	f.BoolVar(&benchSave, "save", false, "save the run under --data")
	f.StringVar(&benchJSON, "json", "", "export the run as JSON")
	f.StringVar(&benchSVG, "svg", "", "write the convergence curve as SVG")
	f.Float64Var(&benchWidth, "width", 1280, "element width in CSS pixels")
	f.Float64Var(&benchHeight, "height", 720, "element height in CSS pixels")
	f.Float64Var(&benchDPR, "dpr", 1, "device pixel ratio")
	return cmd
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr)

	d := time.Duration(benchTime * float64(time.Second))
	opts := bench.DefaultOptions()
	opts.Preset = presetName()
	opts.Duration = d
	opts.HostFPS = benchFPS
	opts.Logger = logger
	opts.Signals = viewport.Signals{
		ElementWidth:     benchWidth,
		ElementHeight:    benchHeight,
		WindowWidth:      benchWidth,
		WindowHeight:     benchHeight,
		DevicePixelRatio: benchDPR,
		CoarsePointer:    benchTouch,
	}
	opts.Script = bench.HoverScript(d)
	if benchTouch {
		opts.Script = bench.TouchScript(d)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if benchRuns > 1 {
		results, err := bench.NewEnsemble(cfg, opts, benchRuns, cfg.Seed).Run(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%d runs, seeds %d..%d\n\n", len(results), cfg.Seed, cfg.Seed+int64(len(results))-1)
		return bench.WriteStats(os.Stdout, bench.Aggregate(results))
	}

	logger.Info("bench", "preset", opts.Preset, "seed", cfg.Seed, "time", d)
	res, err := bench.Run(ctx, cfg, opts)
	if err != nil {
		return err
	}

	if err := bench.WriteSummary(os.Stdout, opts.Preset, res); err != nil {
		return err
	}
	if chart := bench.Chart(res, 80, 10); chart != "" {
		fmt.Println()
		fmt.Println(chart)
	}

	meta := res.Metadata(opts.Preset, d)
	if benchSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(meta, res.Frames)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved: %s\n", id)
	}
	if benchJSON != "" {
		if err := storage.ExportJSONFile(benchJSON, meta, res.Frames); err != nil {
			return err
		}
		fmt.Printf("exported: %s\n", benchJSON)
	}
	if benchSVG != "" {
		svg := export.SeriesToSVG(res.Convergence, 800, 240, cfg.Render.FormingTint, export.DefaultStyle())
		if err := os.WriteFile(benchSVG, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote: %s\n", benchSVG)
	}
	return nil
}
