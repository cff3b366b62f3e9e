package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/glyphswarm/internal/gui"
	"github.com/san-kum/glyphswarm/internal/tui"
)

var (
	liveMenu      bool
	liveTheme     string
	liveLog       string
	touch         bool
	reducedMotion bool
	winWidth      int
	winHeight     int
)

func newLiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "run the swarm in the terminal",
		RunE:  runLive,
	}
	cmd.Flags().BoolVar(&liveMenu, "menu", false, "start at the preset menu")
	cmd.Flags().StringVar(&liveTheme, "theme", "night", "panel theme")
	cmd.Flags().StringVar(&liveLog, "log", "", "write logs to this file")
	cmd.Flags().BoolVar(&touch, "touch", false, "treat the mouse as a touch screen")
	cmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "start with reduced motion")
	return cmd
}

func newWindowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "window",
		Short: "run the swarm in a desktop window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(gui.Options{
				Config:        cfg,
				Touch:         touch,
				ReducedMotion: reducedMotion,
				Width:         winWidth,
				Height:        winHeight,
				Logger:        newLogger(os.Stderr),
			})
		},
	}
	cmd.Flags().IntVar(&winWidth, "width", 1280, "window width")
	cmd.Flags().IntVar(&winHeight, "height", 720, "window height")
	cmd.Flags().BoolVar(&touch, "touch", false, "treat the mouse as a touch screen")
	cmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "start with reduced motion")
	return cmd
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to Bubble Tea, so logs only go to a file.
	logger := log.NewWithOptions(io.Discard, log.Options{})
	if liveLog != "" {
		f, err := os.Create(liveLog)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = newLogger(f)
	}

	return tui.Run(tui.Options{
		Config:        cfg,
		Preset:        presetName(),
		Theme:         liveTheme,
		Touch:         touch,
		ReducedMotion: reducedMotion,
		Menu:          liveMenu,
		Logger:        logger,
	})
}
