// Package surface is the drawing capability set the scenes render through.
// Backends (ebiten, sdl canvas, terminal) and the in-memory Recorder implement it.
package surface

import (
	"errors"
	"image/color"
)

// ErrNoContext is returned by backend constructors that were handed no drawing
// context. It is fatal for that instance.
var ErrNoContext = errors.New("surface: no drawing context")

type Surface interface {
	// Size is the drawable area in pixels.
	Size() (width, height int)
	FillRect(x, y, w, h float64, c color.Color)
	// FillCircle draws a filled disc with a glow of the same colour; glow 0 disables it.
	FillCircle(x, y, r float64, c color.Color, glow float64)
	StrokeCircle(x, y, r, width float64, c color.Color)
	// StrokeLine strokes a straight line whose colour runs linearly from one end to the other.
	StrokeLine(x0, y0, x1, y1, width float64, from, to color.Color)
}
