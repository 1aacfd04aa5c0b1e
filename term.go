package main

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/voicefield/internal/config"
	"github.com/iburimskiy/voicefield/internal/loop"
	"github.com/iburimskiy/voicefield/internal/scene"
	"github.com/iburimskiy/voicefield/internal/surface/termsurface"
)

func runTerm(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	return animateTerm(ctx, screen, cfg, log)
}

// animateTerm runs the scene on an initialised screen until Esc/q, Ctrl-C or
// ctx ends. It finalises the screen before returning.
func animateTerm(ctx context.Context, screen tcell.Screen, cfg config.Config, log *zap.Logger) error {
	sc, err := scene.New(cfg)
	if err != nil {
		screen.Fini()
		return err
	}
	s, err := termsurface.New(screen)
	if err != nil {
		screen.Fini()
		return err
	}
	driver := loop.NewDriver(sc, log)
	w, err := reloader(driver, log)
	if err != nil {
		screen.Fini()
		return err
	}
	interval := time.Second / time.Duration(cfg.Window.FPS)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)

	if w != nil {
		eg.Go(func() error { return w.Run(ctx) })
	}

	eg.Go(func() error {
		err := driver.Run(ctx, s, interval, screen.Show)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	eg.Go(func() error {
		events := make(chan tcell.Event)
		quit := make(chan struct{})
		go screen.ChannelEvents(events, quit)
		defer close(quit)
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if handleTermEvent(ev, driver, screen) {
					cancel()
					return nil
				}
			}
		}
	})

	err = eg.Wait()
	screen.Fini()
	log.Debug("terminal preview finished", zap.Uint64("frames", driver.Frames()))
	return err
}

// handleTermEvent reports whether the preview should quit.
func handleTermEvent(ev tcell.Event, driver *loop.Driver, screen tcell.Screen) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		screen.Sync()
		cols, rows := ev.Size()
		driver.Resize(cols*termsurface.CellWidth, rows*termsurface.CellHeight)
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
			driver.Stop()
			return true
		case ev.Rune() == 'r':
			driver.Reseed()
		}
	}
	return false
}
