package termsurface

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/voicefield/internal/surface"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func runeAt(screen tcell.Screen, col, row int) rune {
	r, _, _, _ := screen.GetContent(col, row)
	return r
}

func TestNewWithoutScreen(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, surface.ErrNoContext)
}

func TestSizeInPixels(t *testing.T) {
	s, err := New(newScreen(t))
	require.NoError(t, err)
	w, h := s.Size()
	assert.Equal(t, 80*CellWidth, w)
	assert.Equal(t, 24*CellHeight, h)
}

func TestCell(t *testing.T) {
	col, row := Cell(20, 20)
	assert.Equal(t, 2, col)
	assert.Equal(t, 1, row)
	col, row = Cell(-1, -1)
	assert.Equal(t, -1, col)
	assert.Equal(t, -1, row)
}

func TestLine(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, line(0, 0, 3, 0))
	assert.Equal(t, [][2]int{{2, 2}, {1, 1}, {0, 0}}, line(2, 2, 0, 0))
	assert.Equal(t, [][2]int{{5, 5}}, line(5, 5, 5, 5))
}

func TestDrawing(t *testing.T) {
	screen := newScreen(t)
	s, err := New(screen)
	require.NoError(t, err)

	s.FillRect(0, 0, 640, 384, color.NRGBA{R: 0x1b, G: 0x24, B: 0x23, A: 255})
	assert.Equal(t, ' ', runeAt(screen, 10, 10))

	s.FillCircle(20, 20, 3, color.NRGBA{R: 255, A: 255}, 10)
	assert.Equal(t, discRune, runeAt(screen, 2, 1))
	assert.Equal(t, glowRune, runeAt(screen, 1, 1))
	assert.Equal(t, glowRune, runeAt(screen, 3, 1))

	s.StrokeLine(4, 200, 76, 200, 1, color.White, color.Black)
	for col := 1; col <= 8; col++ {
		assert.Equal(t, lineRune, runeAt(screen, col, 12), "col %d", col)
	}
	assert.Equal(t, ' ', runeAt(screen, 0, 12))
	assert.Equal(t, ' ', runeAt(screen, 9, 12))

	// off-screen drawing is dropped
	assert.NotPanics(t, func() {
		s.FillCircle(-50, 5000, 3, color.White, 0)
		s.StrokeCircle(320, 192, 1000, 1, color.White)
	})
}
