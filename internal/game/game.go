// Package game hosts a scene and the recording panel in an ebiten window.
package game

import (
	"errors"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/iburimskiy/voicefield/internal/config"
	"github.com/iburimskiy/voicefield/internal/logging"
	"github.com/iburimskiy/voicefield/internal/loop"
	"github.com/iburimskiy/voicefield/internal/spectrum"
	"github.com/iburimskiy/voicefield/internal/surface"
	"github.com/iburimskiy/voicefield/internal/surface/ebitensurface"
)

type Game struct {
	cfg config.Config
	log *zap.Logger

	// scene
	driver *loop.Driver
	frame  *surface.Recorder
	screen *ebitensurface.Surface

	// audio
	player   *spectrum.Player
	analyzer *spectrum.Analyzer
	gram     *spectrum.Spectrogram
	gramImg  *ebiten.Image

	width, height int
	colorPhase    float64

	// progress bar
	progressBarHovered  bool
	progressBarDragging bool

	// input edge detection
	prevKey map[ebiten.Key]bool

	// button state
	buttonHovered bool
	buttonPressed bool

	lastErr error
}

// New mounts scene on a display list the size of the configured window.
func New(cfg config.Config, scene loop.Scene, player *spectrum.Player, log *zap.Logger) (*Game, error) {
	log = logging.OrNop(log)
	g := &Game{
		cfg:      cfg,
		log:      log,
		driver:   loop.NewDriver(scene, log),
		frame:    surface.NewRecorder(cfg.Window.Width, cfg.Window.Height),
		player:   player,
		analyzer: spectrum.NewAnalyzer(cfg.Spectrum.FFTSize, cfg.Spectrum.Smoothing, cfg.Spectrum.MinDecibels, cfg.Spectrum.MaxDecibels),
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
		prevKey:  map[ebiten.Key]bool{},
	}
	if err := g.driver.Mount(g.frame); err != nil {
		return nil, err
	}
	g.resizePanel()
	return g, nil
}

// Driver exposes the scene lifecycle to the host.
func (g *Game) Driver() *loop.Driver { return g.driver }

// Close tears the scene and the playback down. Safe to call more than once.
func (g *Game) Close() {
	g.driver.Stop()
	if g.player != nil {
		g.player.Close()
	}
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	mouseX, mouseY := ebiten.CursorPosition()
	g.buttonHovered = mouseX >= config.ButtonX && mouseX <= config.ButtonX+config.ButtonWidth &&
		mouseY >= config.ButtonY && mouseY <= config.ButtonY+config.ButtonHeight

	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered {
			g.openRecording()
		}
		g.buttonPressed = false
	}
	g.updateProgressBar(mouseX, mouseY)

	if justPressed(ebiten.KeyO) {
		g.openRecording()
	}
	if justPressed(ebiten.KeySpace) && g.player != nil {
		g.player.TogglePause()
	}
	if justPressed(ebiten.KeyR) {
		g.driver.Reseed()
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		g.Close()
		return ebiten.Termination
	}

	g.frame.Reset()
	if !g.driver.Frame(g.frame) {
		return ebiten.Termination
	}
	g.colorPhase += config.ColorShiftSpeed
	g.updateAudio()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		s, err := ebitensurface.New(screen)
		if err != nil {
			g.lastErr = err
			return
		}
		g.screen = s
	} else if err := g.screen.Retarget(screen); err != nil {
		g.lastErr = err
		return
	}
	g.frame.Replay(g.screen)

	g.drawPanel(screen)
	g.drawButton(screen)

	status := ""
	switch {
	case g.player == nil || !g.player.Loaded():
		status = "Click the button or press O to open a voice recording"
	case g.player.Paused():
		status = "Paused - Space to play, O to open another"
	default:
		status = "Playing - Space to pause, O to open another"
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

// Layout follows the window; a new size reseeds the scene.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.frame.SetSize(outsideWidth, outsideHeight)
		g.driver.Resize(outsideWidth, outsideHeight)
		g.resizePanel()
	}
	return g.width, g.height
}

func (g *Game) openRecording() {
	if g.player == nil {
		return
	}
	filename, err := zenity.SelectFile(
		zenity.Title("Open Voice Recording"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if !errors.Is(err, zenity.ErrCanceled) {
			g.log.Warn("file dialog failed", zap.Error(err))
			g.lastErr = err
		}
		return
	}
	if err := g.player.Open(filename); err != nil {
		g.log.Warn("open recording failed", zap.String("path", filename), zap.Error(err))
		g.lastErr = err
		return
	}
	g.lastErr = nil
}

func (g *Game) updateAudio() {
	if g.player == nil {
		return
	}
	g.player.Advance(time.Second / time.Duration(ebiten.TPS()))

	tap := g.player.Tap()
	if tap == nil {
		return
	}
	g.analyzer.Update(tap.Snapshot(g.cfg.Spectrum.FFTSize))
	g.gram.Push(g.analyzer.Frequency())
}

func (g *Game) updateProgressBar(mouseX, mouseY int) {
	bar := g.progressRect()
	if bar.w <= 0 {
		g.progressBarHovered, g.progressBarDragging = false, false
		return
	}
	g.progressBarHovered = mouseX >= bar.x && mouseX <= bar.x+bar.w &&
		mouseY >= bar.y && mouseY <= bar.y+bar.h

	if g.player == nil || !g.player.Loaded() {
		g.progressBarDragging = false
		return
	}
	if g.progressBarHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.progressBarDragging = true
		g.seek(float64(mouseX-bar.x) / float64(bar.w))
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.progressBarDragging = false
	}
	if g.progressBarDragging {
		mouseProgress := surface.Clamp01(float64(mouseX-bar.x) / float64(bar.w))
		// avoid micro-seeks while dragging
		if _, _, current := g.player.Progress(); math.Abs(mouseProgress-current) > 0.01 {
			g.seek(mouseProgress)
		}
	}
}

func (g *Game) seek(frac float64) {
	if err := g.player.Seek(frac); err != nil {
		g.log.Warn("seek failed", zap.Float64("position", frac), zap.Error(err))
		g.lastErr = err
	}
}

func (g *Game) drawButton(screen *ebiten.Image) {
	var bgColor color.Color
	if g.buttonPressed {
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255} // Pressed
	} else if g.buttonHovered {
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255} // Hovered
	} else {
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255} // Normal
	}
	vector.DrawFilledRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, bgColor, false)

	borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
	vector.StrokeRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, 2, borderColor, false)

	text := "Open Recording"
	textWidth := len(text) * 6 // debug font glyph width
	textX := config.ButtonX + (config.ButtonWidth-textWidth)/2
	textY := config.ButtonY + (config.ButtonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}
