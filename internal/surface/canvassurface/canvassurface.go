// Package canvassurface draws scenes through tfriedel6/canvas, whose API
// mirrors the HTML5 2D context: arcs, linear gradients and shadow blur are native.
package canvassurface

import (
	"image/color"
	"math"

	"github.com/tfriedel6/canvas"

	"github.com/iburimskiy/voicefield/internal/surface"
)

type Surface struct {
	cv *canvas.Canvas
}

func New(cv *canvas.Canvas) (*Surface, error) {
	if cv == nil {
		return nil, surface.ErrNoContext
	}
	return &Surface{cv: cv}, nil
}

func (s *Surface) Size() (int, int) {
	return s.cv.Width(), s.cv.Height()
}

func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	s.cv.SetShadowBlur(0)
	s.cv.SetFillStyle(c)
	s.cv.FillRect(x, y, w, h)
}

func (s *Surface) FillCircle(x, y, r float64, c color.Color, glow float64) {
	s.cv.BeginPath()
	s.cv.Arc(x, y, r, 0, math.Pi*2, false)
	s.cv.SetFillStyle(c)
	s.cv.SetShadowBlur(glow)
	s.cv.SetShadowColor(c)
	s.cv.Fill()
	s.cv.ClosePath()
	s.cv.SetShadowBlur(0)
}

func (s *Surface) StrokeCircle(x, y, r, width float64, c color.Color) {
	s.cv.BeginPath()
	s.cv.Arc(x, y, r, 0, math.Pi*2, false)
	s.cv.SetStrokeStyle(c)
	s.cv.SetLineWidth(width)
	s.cv.Stroke()
}

func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, from, to color.Color) {
	s.cv.BeginPath()
	if surface.SameColor(from, to) {
		s.cv.SetStrokeStyle(from)
	} else {
		g := s.cv.CreateLinearGradient(x0, y0, x1, y1)
		g.AddColorStop(0, from)
		g.AddColorStop(1, to)
		s.cv.SetStrokeStyle(g)
	}
	s.cv.SetLineWidth(width)
	s.cv.MoveTo(x0, y0)
	s.cv.LineTo(x1, y1)
	s.cv.Stroke()
	s.cv.ClosePath()
}
