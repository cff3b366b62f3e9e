package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/glyphswarm/internal/config"
)

var (
	configFile string
	preset     string
	dataDir    string
	verbose    bool
	seed       int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "glyphswarm",
		Short:         "particles that drift, then spell words when you reach for them",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			liveMenu = true
			return runLive(cmd, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (yaml)")
	pf.StringVar(&preset, "preset", "", "device preset ("+fmt.Sprint(config.ListPresets())+")")
	pf.StringVar(&dataDir, "data", ".glyphswarm", "data directory for saved runs")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.Int64Var(&seed, "seed", 1, "random seed")

	rootCmd.AddCommand(
		newLiveCmd(),
		newWindowCmd(),
		newBenchCmd(),
		newSampleCmd(),
		newRunsCmd(),
		newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		newLogger(os.Stderr).Error(err.Error())
		os.Exit(1)
	}
}

func newLogger(w io.Writer) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// loadConfig reads --config, applies --preset and --seed, and validates.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" && !config.ApplyPreset(cfg, preset) {
		return nil, fmt.Errorf("unknown preset %q", preset)
	}
	if cmd.Flags().Changed("seed") || configFile == "" {
		cfg.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func presetName() string {
	if preset == "" {
		return "desktop"
	}
	return preset
}
