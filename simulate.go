package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iburimskiy/voicefield/internal/config"
	"github.com/iburimskiy/voicefield/internal/field"
	"github.com/iburimskiy/voicefield/internal/halo"
	"github.com/iburimskiy/voicefield/internal/loop"
	"github.com/iburimskiy/voicefield/internal/scene"
	"github.com/iburimskiy/voicefield/internal/surface"
)

var simFrames int

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the scene headless for a number of frames and log statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := simulate(cfg, simFrames, logger)
		if err != nil {
			return err
		}
		logger.Info("simulation finished",
			zap.String("scene", cfg.Scene),
			zap.String("profile", cfg.Field.Profile),
			zap.Int("width", cfg.Window.Width),
			zap.Int("height", cfg.Window.Height),
			zap.Uint64("frames", report.Frames),
			zap.Int("particles", report.Particles),
			zap.Int("edges", report.Edges),
			zap.Int("contacts", report.Contacts),
			zap.Int("wall_hits", report.WallHits),
			zap.Int("holds", report.Holds),
			zap.Int("escaped", report.Escaped))
		if report.Escaped > 0 {
			return fmt.Errorf("%d particles left the surface", report.Escaped)
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().IntVarP(&simFrames, "frames", "n", 600, "frames to run")
}

// simReport sums per-frame statistics over a run. Escaped counts particles
// found outside the band after any frame.
type simReport struct {
	Frames    uint64
	Particles int
	Edges     int
	Contacts  int
	WallHits  int
	Holds     int
	Escaped   int
	Ops       int
}

func simulate(cfg config.Config, frames int, log *zap.Logger) (simReport, error) {
	var report simReport
	if frames < 0 {
		return report, fmt.Errorf("%w: negative frame count %d", config.ErrInvalid, frames)
	}
	sc, err := scene.New(cfg)
	if err != nil {
		return report, err
	}
	rec := surface.NewRecorder(cfg.Window.Width, cfg.Window.Height)
	driver := loop.NewDriver(sc, log)
	if err := driver.Mount(rec); err != nil {
		return report, err
	}
	defer driver.Stop()

	for i := 0; i < frames; i++ {
		rec.Reset()
		if !driver.Frame(rec) {
			break
		}
		report.Ops += len(rec.Ops())

		switch s := sc.(type) {
		case *field.Field:
			st := s.Stats()
			report.Edges += st.Edges
			report.Contacts += st.Contacts
			report.WallHits += st.WallHits
			report.Holds += st.Holds
			report.Escaped += escaped(s.Particles(), float64(cfg.Window.Width), float64(cfg.Window.Height))
		case *halo.Halo:
			report.Edges += s.Links()
		}
	}

	report.Frames = driver.Frames()
	switch s := sc.(type) {
	case *field.Field:
		report.Particles = len(s.Particles())
	case *halo.Halo:
		report.Particles = s.Len()
	}
	return report, nil
}

func escaped(points []field.Particle, width, height float64) int {
	n := 0
	for _, p := range points {
		if p.X < p.Radius || p.X > width-p.Radius || p.Y < p.Radius || p.Y > height-p.Radius {
			n++
		}
	}
	return n
}

var configWritePath string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configWritePath == "" {
			return fmt.Errorf("--write is required")
		}
		if err := cfg.Save(configWritePath); err != nil {
			return err
		}
		logger.Info("config written", zap.String("path", configWritePath))
		return nil
	},
}

func init() {
	configCmd.Flags().StringVarP(&configWritePath, "write", "w", "", "destination file")
}
