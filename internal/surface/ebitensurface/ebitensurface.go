// Package ebitensurface draws scenes onto an ebiten image with the vector package.
package ebitensurface

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/voicefield/internal/surface"
)

const (
	// gradientSegments approximates a linear gradient stroke with this many
	// solid pieces.
	gradientSegments = 6
	// glowRings approximates a shadow blur with translucent discs.
	glowRings = 4
)

type Surface struct {
	dst *ebiten.Image
}

func New(dst *ebiten.Image) (*Surface, error) {
	if dst == nil {
		return nil, surface.ErrNoContext
	}
	return &Surface{dst: dst}, nil
}

// Retarget points the surface at the next frame's screen.
func (s *Surface) Retarget(dst *ebiten.Image) error {
	if dst == nil {
		return surface.ErrNoContext
	}
	s.dst = dst
	return nil
}

func (s *Surface) Size() (int, int) {
	b := s.dst.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	vector.DrawFilledRect(s.dst, float32(x), float32(y), float32(w), float32(h), c, false)
}

func (s *Surface) FillCircle(x, y, r float64, c color.Color, glow float64) {
	if glow > 0 {
		for i := glowRings; i > 0; i-- {
			t := float64(i) / glowRings
			halo := surface.WithAlpha(c, 0.12*(1-t)+0.04)
			vector.DrawFilledCircle(s.dst, float32(x), float32(y), float32(r+glow*t*0.5), halo, true)
		}
	}
	vector.DrawFilledCircle(s.dst, float32(x), float32(y), float32(r), c, true)
}

func (s *Surface) StrokeCircle(x, y, r, width float64, c color.Color) {
	vector.StrokeCircle(s.dst, float32(x), float32(y), float32(r), float32(width), c, true)
}

func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, from, to color.Color) {
	if width <= 0 {
		return
	}
	if surface.SameColor(from, to) {
		vector.StrokeLine(s.dst, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), from, true)
		return
	}
	dx, dy := (x1-x0)/gradientSegments, (y1-y0)/gradientSegments
	for i := 0; i < gradientSegments; i++ {
		t := (float64(i) + 0.5) / gradientSegments
		ax, ay := x0+dx*float64(i), y0+dy*float64(i)
		vector.StrokeLine(s.dst, float32(ax), float32(ay), float32(ax+dx), float32(ay+dy), float32(width), surface.Blend(from, to, t), true)
	}
}
