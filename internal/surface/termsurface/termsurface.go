// Package termsurface previews scenes in a terminal. Every cell stands for a
// CellWidth x CellHeight block of pixels.
package termsurface

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/voicefield/internal/surface"
)

const (
	CellWidth  = 8
	CellHeight = 16

	discRune = '●'
	glowRune = '·'
	lineRune = '·'
	ringRune = '∘'
)

type Surface struct {
	screen tcell.Screen
	bg     tcell.Color
}

func New(screen tcell.Screen) (*Surface, error) {
	if screen == nil {
		return nil, surface.ErrNoContext
	}
	return &Surface{screen: screen, bg: tcell.ColorBlack}, nil
}

func (s *Surface) Size() (int, int) {
	cols, rows := s.screen.Size()
	return cols * CellWidth, rows * CellHeight
}

// Cell maps a pixel position to its terminal cell.
func Cell(x, y float64) (col, row int) {
	return int(math.Floor(x / CellWidth)), int(math.Floor(y / CellHeight))
}

func toTcell(c color.Color) tcell.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return tcell.NewRGBColor(int32(n.R), int32(n.G), int32(n.B))
}

func (s *Surface) put(col, row int, r rune, fg tcell.Color) {
	cols, rows := s.screen.Size()
	if col < 0 || row < 0 || col >= cols || row >= rows {
		return
	}
	s.screen.SetContent(col, row, r, nil, tcell.StyleDefault.Foreground(fg).Background(s.bg))
}

func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c0, r0 := Cell(x, y)
	c1, r1 := Cell(x+w-1, y+h-1)
	s.bg = toTcell(c)
	style := tcell.StyleDefault.Background(s.bg)
	cols, rows := s.screen.Size()
	for row := max(r0, 0); row <= min(r1, rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, cols-1); col++ {
			s.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (s *Surface) FillCircle(x, y, r float64, c color.Color, glow float64) {
	col, row := Cell(x, y)
	fg := toTcell(c)
	if glow >= CellWidth {
		// the glow only reaches the horizontal neighbours at this resolution
		s.put(col-1, row, glowRune, fg)
		s.put(col+1, row, glowRune, fg)
	}
	s.put(col, row, discRune, fg)
}

func (s *Surface) StrokeCircle(x, y, r, width float64, c color.Color) {
	fg := toTcell(c)
	steps := int(math.Max(16, 2*math.Pi*r/CellWidth))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		col, row := Cell(x+math.Cos(a)*r, y+math.Sin(a)*r)
		s.put(col, row, ringRune, fg)
	}
}

// StrokeLine walks the cells between the end points (Bresenham), colouring
// each along the gradient. End cells are left to the discs.
func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, from, to color.Color) {
	if width <= 0 {
		return
	}
	c0, r0 := Cell(x0, y0)
	c1, r1 := Cell(x1, y1)
	cells := line(c0, r0, c1, r1)
	if len(cells) <= 2 {
		return
	}
	last := float64(len(cells) - 1)
	for i, p := range cells[1 : len(cells)-1] {
		fg := toTcell(surface.Blend(from, to, float64(i+1)/last))
		s.put(p[0], p[1], lineRune, fg)
	}
}

func line(x0, y0, x1, y1 int) [][2]int {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	var out [][2]int
	for {
		out = append(out, [2]int{x0, y0})
		if x0 == x1 && y0 == y1 {
			return out
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
