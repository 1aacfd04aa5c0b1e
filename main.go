package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iburimskiy/voicefield/internal/config"
	"github.com/iburimskiy/voicefield/internal/game"
	"github.com/iburimskiy/voicefield/internal/logging"
	"github.com/iburimskiy/voicefield/internal/loop"
	"github.com/iburimskiy/voicefield/internal/scene"
	"github.com/iburimskiy/voicefield/internal/spectrum"
)

var (
	configPath string
	verbose    bool
	overrides  flagOverrides

	logger *zap.Logger
	cfg    config.Config
)

// flagOverrides are applied on top of the loaded config when set.
type flagOverrides struct {
	backend, scene, profile, audio string
	seed                           int64
	width, height                  int
}

func (o flagOverrides) apply(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		c.Backend = o.backend
	}
	if flags.Changed("scene") {
		c.Scene = o.scene
	}
	if flags.Changed("profile") {
		c.Field.Profile = o.profile
	}
	if flags.Changed("seed") {
		c.Field.Seed = o.seed
	}
	if flags.Changed("width") {
		c.Window.Width = o.width
	}
	if flags.Changed("height") {
		c.Window.Height = o.height
	}
}

var rootCmd = &cobra.Command{
	Use:   "voicefield",
	Short: "Animated particle field and recording visualizer",
	Long: `voicefield animates the particle network shown behind the voice analysis demo.

Open a voice recording (button or O) to see its waveform and spectrogram while it plays.
Scenes: field (network/constellation profiles), halo.
Backends: ebiten (default window), sdl (canvas window), term (terminal preview).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg = config.Default()
		if configPath != "" {
			if cfg, err = config.Load(configPath); err != nil {
				return err
			}
		}
		overrides.apply(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch cfg.Backend {
		case config.BackendSDL:
			return runSDL(cmd.Context(), cfg, logger)
		case config.BackendTerm:
			return runTerm(cmd.Context(), cfg, logger)
		}
		return runWindow(cmd.Context(), cfg, overrides.audio, logger)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&overrides.scene, "scene", config.SceneField, "scene: field or halo")
	pf.StringVar(&overrides.profile, "profile", config.ProfileNetwork, "field profile: network or constellation")
	pf.Int64Var(&overrides.seed, "seed", 0, "random seed, 0 for a clock seed")
	pf.IntVar(&overrides.width, "width", config.WindowWidth, "surface width in pixels")
	pf.IntVar(&overrides.height, "height", config.WindowHeight, "surface height in pixels")

	rootCmd.Flags().StringVar(&overrides.backend, "backend", config.BackendEbiten, "backend: ebiten, sdl or term")
	rootCmd.Flags().StringVar(&overrides.audio, "audio", "", "recording to play on start (ebiten backend)")

	rootCmd.AddCommand(simulateCmd, configCmd)
}

// reloader rebuilds the driver's scene whenever the --config file changes.
// It returns nil when no config file was given.
func reloader(driver *loop.Driver, log *zap.Logger) (*config.Watcher, error) {
	if configPath == "" {
		return nil, nil
	}
	return config.NewWatcher(configPath, func(c config.Config) {
		sc, err := scene.New(c)
		if err != nil {
			log.Warn("reloaded config has no usable scene", zap.Error(err))
			return
		}
		driver.Replace(sc)
	}, log)
}

// watch runs w until ctx ends; w may be nil.
func watch(ctx context.Context, w *config.Watcher) {
	if w != nil {
		go w.Run(ctx)
	}
}

// stopWhenDone stops driver once ctx ends. The goroutine also exits when the
// driver stops on its own.
func stopWhenDone(ctx context.Context, driver *loop.Driver) {
	go func() {
		select {
		case <-ctx.Done():
			driver.Stop()
		case <-driver.Done():
		}
	}()
}

// checkWindowSize rejects sizes a native window cannot open with.
func checkWindowSize(w config.WindowConfig) error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("%w: window backends need a positive size, got %dx%d", config.ErrInvalid, w.Width, w.Height)
	}
	return nil
}

func runWindow(ctx context.Context, cfg config.Config, audio string, log *zap.Logger) error {
	if err := checkWindowSize(cfg.Window); err != nil {
		return err
	}
	sc, err := scene.New(cfg)
	if err != nil {
		return err
	}
	player := spectrum.NewPlayer(cfg.Spectrum.RingSize, log)
	g, err := game.New(cfg, sc, player, log)
	if err != nil {
		return err
	}
	defer g.Close()

	w, err := reloader(g.Driver(), log)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	watch(ctx, w)
	// Update ends the game once the driver is stopped.
	stopWhenDone(ctx, g.Driver())

	if audio != "" {
		if err := player.Open(audio); err != nil {
			log.Warn("could not play recording", zap.String("path", audio), zap.Error(err))
		}
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	log.Info("window starting",
		zap.String("scene", cfg.Scene),
		zap.String("profile", cfg.Field.Profile),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
