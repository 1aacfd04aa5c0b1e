package game

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/voicefield/internal/config"
	"github.com/iburimskiy/voicefield/internal/spectrum"
	"github.com/iburimskiy/voicefield/internal/surface"
)

const (
	panelMargin = 20
	barHeight   = 30
	panelGap    = 8
)

type rect struct{ x, y, w, h int }

// panelLayout places the progress bar, waveform and spectrogram in the bottom
// panelHeight pixels of a width x height window.
type panelLayout struct {
	progress    rect
	waveform    rect
	spectrogram rect
}

func layoutPanel(width, height, panelHeight int) panelLayout {
	if height < panelHeight {
		return panelLayout{}
	}
	w := max(width-2*panelMargin, 0)
	top := height - panelHeight

	var l panelLayout
	l.progress = rect{x: panelMargin, y: top, w: w, h: barHeight}
	l.waveform = rect{x: panelMargin, y: top + barHeight + 2*panelGap, w: w, h: config.WaveformHeight}
	gy := l.waveform.y + l.waveform.h + panelGap
	l.spectrogram = rect{x: panelMargin, y: gy, w: w, h: max(height-panelGap-gy, 0)}
	return l
}

func (g *Game) progressRect() rect {
	return layoutPanel(g.width, g.height, g.cfg.Spectrum.PanelHeight).progress
}

// resizePanel reallocates the spectrogram for the current window; history is dropped.
func (g *Game) resizePanel() {
	r := layoutPanel(g.width, g.height, g.cfg.Spectrum.PanelHeight).spectrogram
	g.gram = spectrum.NewSpectrogram(r.w, r.h)
	if g.gramImg != nil {
		g.gramImg.Deallocate()
		g.gramImg = nil
	}
	if r.w > 0 && r.h > 0 {
		g.gramImg = ebiten.NewImage(r.w, r.h)
	}
}

func (g *Game) drawPanel(screen *ebiten.Image) {
	if g.player == nil || !g.player.Loaded() {
		return
	}
	l := layoutPanel(g.width, g.height, g.cfg.Spectrum.PanelHeight)
	g.drawProgressBar(screen, l.progress)
	g.drawWaveform(screen, l.waveform)
	g.drawSpectrogram(screen, l.spectrogram)
}

func (g *Game) drawWaveform(screen *ebiten.Image, r rect) {
	if r.w <= 0 {
		return
	}
	vector.DrawFilledRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), color.RGBA{R: 17, G: 24, B: 39, A: 255}, false)

	wave := g.analyzer.Waveform()
	if len(wave) < 2 {
		return
	}
	stroke := color.RGBA{R: 59, G: 130, B: 246, A: 255}
	step := max(len(wave)/r.w, 1)
	sliceWidth := float64(r.w) / float64(len(wave)-1)
	px, py := float64(r.x), float64(r.y)+float64(wave[0])/255*float64(r.h)
	for i := step; i < len(wave); i += step {
		x := float64(r.x) + float64(i)*sliceWidth
		y := float64(r.y) + float64(wave[i])/255*float64(r.h)
		vector.StrokeLine(screen, float32(px), float32(py), float32(x), float32(y), 2, stroke, true)
		px, py = x, y
	}
	ebitenutil.DebugPrintAt(screen, "Waveform", r.x, r.y-16)
}

func (g *Game) drawSpectrogram(screen *ebiten.Image, r rect) {
	if g.gramImg == nil {
		return
	}
	g.gramImg.WritePixels(g.gram.Pixels())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(r.x), float64(r.y))
	screen.DrawImage(g.gramImg, op)
	vector.StrokeRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), 1, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "Spectrogram", r.x+4, r.y+2)
}

func (g *Game) drawProgressBar(screen *ebiten.Image, bar rect) {
	position, duration, progress := g.player.Progress()
	if duration == 0 {
		return
	}

	vector.DrawFilledRect(screen, float32(bar.x), float32(bar.y), float32(bar.w), float32(bar.h), color.RGBA{R: 25, G: 30, B: 40, A: 200}, false)
	vector.StrokeRect(screen, float32(bar.x), float32(bar.y), float32(bar.w), float32(bar.h), 2, color.RGBA{R: 70, G: 80, B: 100, A: 255}, false)

	if progress > 0 {
		fillWidth := progress * float64(bar.w)
		hue := (g.colorPhase + progress*180) * 360
		vector.DrawFilledRect(screen, float32(bar.x), float32(bar.y), float32(fillWidth), float32(bar.h), hsva(hue, 0.8, 0.9, 180), false)
	}

	indicatorX := float64(bar.x) + progress*float64(bar.w)
	vector.DrawFilledCircle(screen, float32(indicatorX), float32(bar.y+bar.h/2), 8, color.RGBA{R: 255, G: 255, B: 255, A: 255}, false)
	vector.StrokeCircle(screen, float32(indicatorX), float32(bar.y+bar.h/2), 8, 2, color.RGBA{R: 100, G: 110, B: 130, A: 255}, false)

	currentTime := formatDuration(position)
	totalTime := formatDuration(duration)
	ebitenutil.DebugPrintAt(screen, currentTime, bar.x, bar.y-16)
	ebitenutil.DebugPrintAt(screen, totalTime, bar.x+bar.w-len(totalTime)*6, bar.y-16)

	if g.progressBarHovered {
		mouseX, mouseY := ebiten.CursorPosition()
		mouseProgress := surface.Clamp01(float64(mouseX-bar.x) / float64(bar.w))
		tooltipTime := formatDuration(time.Duration(mouseProgress * float64(duration)))

		tooltipWidth := len(tooltipTime)*6 + 10
		tooltipX := min(max(mouseX-tooltipWidth/2, 0), g.width-tooltipWidth)
		tooltipY := mouseY - 25

		vector.DrawFilledRect(screen, float32(tooltipX), float32(tooltipY), float32(tooltipWidth), 20, color.RGBA{R: 0, G: 0, B: 0, A: 200}, false)
		vector.StrokeRect(screen, float32(tooltipX), float32(tooltipY), float32(tooltipWidth), 20, 1, color.RGBA{R: 100, G: 110, B: 130, A: 255}, false)
		ebitenutil.DebugPrintAt(screen, tooltipTime, tooltipX+5, tooltipY+2)
	}
}
