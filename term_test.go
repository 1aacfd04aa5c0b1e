package main

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/iburimskiy/voicefield/internal/config"
)

func simScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	return screen
}

func termConfig() config.Config {
	cfg := config.Default()
	cfg.Backend = config.BackendTerm
	cfg.Field.Seed = 3
	cfg.Window.FPS = 200
	return cfg
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("terminal preview did not stop")
	}
}

func TestAnimateTerm_QuitKey(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	screen := simScreen(t)
	done := make(chan error, 1)
	go func() {
		done <- animateTerm(context.Background(), screen, termConfig(), zaptest.NewLogger(t))
	}()

	time.Sleep(50 * time.Millisecond)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	waitDone(t, done)
}

func TestAnimateTerm_ContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	screen := simScreen(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- animateTerm(ctx, screen, termConfig(), zaptest.NewLogger(t))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	waitDone(t, done)
}
