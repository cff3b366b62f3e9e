package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/glyphswarm/internal/storage"
)

var runsOut string

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "inspect saved bench runs",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a run's metrics and convergence",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&runsOut, "out", "o", "", "output file (default stdout)")

	cmd.AddCommand(listCmd, showCmd, exportCmd)
	return cmd
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSEED\tPARTICLES\tFRAMES\tPROMOTED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%v\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Particles,
			run.Frames,
			run.Promoted,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run:       %s\n", meta.ID)
	fmt.Printf("preset:    %s\n", meta.Preset)
	fmt.Printf("layout:    %.0fx%.0f at %d fps\n", meta.Width, meta.Height, meta.FPS)
	fmt.Printf("particles: %d (%d samples)\n\n", meta.Particles, meta.Samples)

	names := make([]string, 0, len(meta.Metrics))
	for k := range meta.Metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, k := range names {
		fmt.Fprintf(w, "%s\t%.4f\n", k, meta.Metrics[k])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	var conv []float64
	for _, f := range frames {
		if f.Decision == "step" {
			conv = append(conv, f.Convergence)
		}
	}
	if len(conv) < 2 {
		return nil
	}
	if len(conv) > 80 {
		step := len(conv) / 80
		thin := make([]float64, 0, 80)
		for i := 0; i < len(conv); i += step {
			thin = append(thin, conv[i])
		}
		conv = thin
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(conv,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("convergence"),
	))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if runsOut != "" {
		return storage.ExportJSONFile(runsOut, *meta, frames)
	}
	return storage.ExportJSON(os.Stdout, *meta, frames)
}
