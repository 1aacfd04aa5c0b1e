package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/iburimskiy/voicefield/internal/config"
	"github.com/iburimskiy/voicefield/internal/loop"
	"github.com/iburimskiy/voicefield/internal/scene"
	"github.com/iburimskiy/voicefield/internal/surface"
)

func simConfig(scene, profile string, width, height int) config.Config {
	cfg := config.Default()
	cfg.Scene = scene
	cfg.Field.Profile = profile
	cfg.Field.Seed = 11
	cfg.Window.Width, cfg.Window.Height = width, height
	return cfg
}

func TestSimulate_Field800x600(t *testing.T) {
	report, err := simulate(simConfig(config.SceneField, config.ProfileNetwork, 800, 600), 1000, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, uint64(1000), report.Frames)
	assert.Equal(t, 56, report.Particles)
	assert.Zero(t, report.Escaped)
	assert.Positive(t, report.Edges)
	assert.Positive(t, report.WallHits)
}

func TestSimulate_Constellation(t *testing.T) {
	report, err := simulate(simConfig(config.SceneField, config.ProfileConstellation, 1024, 512), 300, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 61, report.Particles)
	assert.Zero(t, report.Escaped)
}

func TestSimulate_Halo(t *testing.T) {
	report, err := simulate(simConfig(config.SceneHalo, config.ProfileNetwork, 800, 600), 100, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, config.HaloParticles, report.Particles)
	assert.Equal(t, uint64(100), report.Frames)
}

func TestSimulate_ZeroSurfaceDrawsOnlyBackground(t *testing.T) {
	report, err := simulate(simConfig(config.SceneField, config.ProfileNetwork, 0, 0), 10, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Zero(t, report.Particles)
	assert.Zero(t, report.Edges)
	assert.Equal(t, 10, report.Ops)
}

func TestSimulate_NegativeFrames(t *testing.T) {
	_, err := simulate(config.Default(), -1, nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestConfigCommandWritesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	rootCmd.SetArgs([]string{"config", "--write", path, "--scene", "halo", "--seed", "5"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.SceneHalo, loaded.Scene)
	assert.Equal(t, int64(5), loaded.Field.Seed)
}

func mountedDriver(t *testing.T) *loop.Driver {
	t.Helper()
	sc, err := scene.New(simConfig(config.SceneField, config.ProfileNetwork, 320, 200))
	require.NoError(t, err)
	d := loop.NewDriver(sc, zaptest.NewLogger(t))
	require.NoError(t, d.Mount(surface.NewRecorder(320, 200)))
	return d
}

func TestStopWhenDone_ContextCancelStopsDriver(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	d := mountedDriver(t)
	ctx, cancel := context.WithCancel(context.Background())
	stopWhenDone(ctx, d)
	require.True(t, d.Frame(surface.NewRecorder(320, 200)))

	cancel()
	require.Eventually(t, d.Stopped, time.Second, 5*time.Millisecond)
	assert.False(t, d.Frame(surface.NewRecorder(320, 200)))
}

func TestStopWhenDone_ExitsWhenDriverStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := mountedDriver(t)
	stopWhenDone(ctx, d)
	d.Stop()
}

func TestCheckWindowSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		ok            bool
	}{
		{"default", config.WindowWidth, config.WindowHeight, true},
		{"zero width", 0, 600, false},
		{"zero height", 800, 0, false},
		{"both zero", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkWindowSize(config.WindowConfig{Width: tt.width, Height: tt.height})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, config.ErrInvalid)
			}
		})
	}
}

func TestWindowBackendsRejectZeroSize(t *testing.T) {
	cfg := simConfig(config.SceneField, config.ProfileNetwork, 0, 0)
	assert.ErrorIs(t, runWindow(context.Background(), cfg, "", zaptest.NewLogger(t)), config.ErrInvalid)
	assert.ErrorIs(t, runSDL(context.Background(), cfg, zaptest.NewLogger(t)), config.ErrInvalid)
}
