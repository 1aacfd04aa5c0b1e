// Package scene builds the configured loop.Scene.
package scene

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/voicefield/internal/config"
	"github.com/iburimskiy/voicefield/internal/field"
	"github.com/iburimskiy/voicefield/internal/halo"
	"github.com/iburimskiy/voicefield/internal/loop"
)

// New returns the scene named by cfg.Scene with its own random source.
func New(cfg config.Config) (loop.Scene, error) {
	rng := newRand(cfg.Field.Seed)

	switch cfg.Scene {
	case config.SceneField:
		style, err := fieldStyle(cfg.Field)
		if err != nil {
			return nil, err
		}
		return field.New(field.Profile(cfg.Field.Profile), style, rng), nil
	case config.SceneHalo:
		params, err := haloParams(cfg.Halo)
		if err != nil {
			return nil, err
		}
		return halo.New(params, rng), nil
	}
	return nil, fmt.Errorf("%w: unknown scene %q", config.ErrInvalid, cfg.Scene)
}

func newRand(seed int64) *rand.Rand {
	s := uint64(seed)
	if seed == 0 {
		s = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

func fieldStyle(fc config.FieldConfig) (field.Style, error) {
	pal, err := field.ParsePalette(fc.Palette)
	if err != nil {
		return field.Style{}, fmt.Errorf("field: %w", err)
	}
	bg, err := colorful.Hex(fc.Background)
	if err != nil {
		return field.Style{}, fmt.Errorf("field background %q: %w", fc.Background, err)
	}
	return field.Style{
		Radius:     fc.Radius,
		LineWidth:  fc.LineWidth,
		Glow:       fc.GlowRadius,
		Background: bg,
		Palette:    pal,
	}, nil
}

func haloParams(hc config.HaloConfig) (halo.Params, error) {
	pal, err := field.ParsePalette(hc.Palette)
	if err != nil {
		return halo.Params{}, fmt.Errorf("halo: %w", err)
	}
	bg, err := colorful.Hex(hc.Background)
	if err != nil {
		return halo.Params{}, fmt.Errorf("halo background %q: %w", hc.Background, err)
	}
	return halo.Params{
		Count:        hc.Particles,
		LinkDistance: hc.LinkDistance,
		LinkAlpha:    hc.LinkAlpha,
		FrameRatio:   hc.FrameRatio,
		LineWidth:    1,
		Background:   bg,
		Palette:      pal,
	}, nil
}
