package main

import (
	"context"

	"github.com/tfriedel6/canvas/sdlcanvas"
	"go.uber.org/zap"

	"github.com/iburimskiy/voicefield/internal/config"
	"github.com/iburimskiy/voicefield/internal/loop"
	"github.com/iburimskiy/voicefield/internal/scene"
	"github.com/iburimskiy/voicefield/internal/surface/canvassurface"
)

// runSDL draws the scene straight onto an SDL window through the canvas API,
// which renders gradients and glow natively.
func runSDL(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if err := checkWindowSize(cfg.Window); err != nil {
		return err
	}
	sc, err := scene.New(cfg)
	if err != nil {
		return err
	}
	wnd, cv, err := sdlcanvas.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	if err != nil {
		return err
	}
	defer wnd.Destroy()

	s, err := canvassurface.New(cv)
	if err != nil {
		return err
	}
	driver := loop.NewDriver(sc, log)
	if err := driver.Mount(s); err != nil {
		return err
	}
	defer driver.Stop()

	w, err := reloader(driver, log)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	watch(ctx, w)
	stopWhenDone(ctx, driver)

	wnd.SizeChange = func(w, h int) {
		driver.Resize(w, h)
	}
	wnd.KeyDown = func(scancode int, rn rune, name string) {
		switch name {
		case "Escape", "KeyQ":
			driver.Stop()
		case "KeyR":
			driver.Reseed()
		}
	}

	log.Info("sdl window starting", zap.String("scene", cfg.Scene))
	wnd.MainLoop(func() {
		if !driver.Frame(s) {
			wnd.Close()
		}
	})
	return nil
}
