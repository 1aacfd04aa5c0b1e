package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512

	VisualRingSize  = 8192
	SmoothingFactor = 0.6

	// Button dimensions
	ButtonWidth  = 120
	ButtonHeight = 40
	ButtonX      = 20
	ButtonY      = 50

	ColorShiftSpeed = 0.01

	// Audio panel
	PanelHeight    = 160
	WaveformHeight = 48
	FFTSize        = 2048
	MinDecibels    = -100
	MaxDecibels    = -30

	// Field style
	DotRadius   = 3
	LineWidth   = 1
	GlowRadius  = 10
	CanvasColor = "#1b2423"

	// Halo
	HaloParticles    = 200
	HaloLinkDistance = 50
	HaloLinkAlpha    = 0.2
	HaloFrameRatio   = 0.45
)

// Scene names.
const (
	SceneField = "field"
	SceneHalo  = "halo"
)

// Field profile names.
const (
	ProfileNetwork       = "network"
	ProfileConstellation = "constellation"
)

// Backend names.
const (
	BackendEbiten = "ebiten"
	BackendSDL    = "sdl"
	BackendTerm   = "term"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

var (
	FieldPalette = []string{"#007acc", "#6a51a3", "#00ff00", "#82ffb6", "#61f4ff", "#8e61ff", "#ff00bb", "#9cb1ff", "#80ffb7", "#40ff93"}
	HaloPalette  = []string{"#00B8A9", "#006B63", "#00DAC7", "#008277"}
)

type Config struct {
	Backend  string         `yaml:"backend"`
	Scene    string         `yaml:"scene"`
	Window   WindowConfig   `yaml:"window"`
	Field    FieldConfig    `yaml:"field"`
	Halo     HaloConfig     `yaml:"halo"`
	Spectrum SpectrumConfig `yaml:"spectrum"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	// FPS drives the sdl and term backends; ebiten follows the display.
	FPS int `yaml:"fps"`
}

type FieldConfig struct {
	Profile    string   `yaml:"profile"` // network, constellation
	Seed       int64    `yaml:"seed"`    // 0 seeds from the clock
	Radius     float64  `yaml:"radius"`
	LineWidth  float64  `yaml:"line_width"`
	GlowRadius float64  `yaml:"glow_radius"`
	Background string   `yaml:"background"`
	Palette    []string `yaml:"palette"`
}

type HaloConfig struct {
	Particles    int      `yaml:"particles"`
	LinkDistance float64  `yaml:"link_distance"`
	LinkAlpha    float64  `yaml:"link_alpha"`
	FrameRatio   float64  `yaml:"frame_ratio"`
	Background   string   `yaml:"background"`
	Palette      []string `yaml:"palette"`
}

type SpectrumConfig struct {
	RingSize    int     `yaml:"ring_size"`
	FFTSize     int     `yaml:"fft_size"`
	Smoothing   float64 `yaml:"smoothing"`
	MinDecibels float64 `yaml:"min_decibels"`
	MaxDecibels float64 `yaml:"max_decibels"`
	PanelHeight int     `yaml:"panel_height"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the configuration the window opens with when no file is given.
func Default() Config {
	return Config{
		Backend: BackendEbiten,
		Scene:   SceneField,
		Window: WindowConfig{
			Width:  WindowWidth,
			Height: WindowHeight,
			Title:  "Voice Field - O: open recording, Space: play/pause, R: reseed, Esc/Q: quit",
			FPS:    60,
		},
		Field: FieldConfig{
			Profile:    ProfileNetwork,
			Radius:     DotRadius,
			LineWidth:  LineWidth,
			GlowRadius: GlowRadius,
			Background: CanvasColor,
			Palette:    append([]string(nil), FieldPalette...),
		},
		Halo: HaloConfig{
			Particles:    HaloParticles,
			LinkDistance: HaloLinkDistance,
			LinkAlpha:    HaloLinkAlpha,
			FrameRatio:   HaloFrameRatio,
			Background:   CanvasColor,
			Palette:      append([]string(nil), HaloPalette...),
		},
		Spectrum: SpectrumConfig{
			RingSize:    VisualRingSize,
			FFTSize:     FFTSize,
			Smoothing:   SmoothingFactor,
			MinDecibels: MinDecibels,
			MaxDecibels: MaxDecibels,
			PanelHeight: PanelHeight,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file on top of Default, so a file only needs the keys it changes.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendEbiten, BackendSDL, BackendTerm:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}
	switch c.Scene {
	case SceneField, SceneHalo:
	default:
		return fmt.Errorf("%w: unknown scene %q", ErrInvalid, c.Scene)
	}
	switch c.Field.Profile {
	case ProfileNetwork, ProfileConstellation:
	default:
		return fmt.Errorf("%w: unknown field profile %q", ErrInvalid, c.Field.Profile)
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("%w: negative window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Window.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive", ErrInvalid)
	}
	if len(c.Field.Palette) == 0 || len(c.Halo.Palette) == 0 {
		return fmt.Errorf("%w: empty palette", ErrInvalid)
	}
	if c.Field.Radius < 0 || c.Field.LineWidth < 0 || c.Field.GlowRadius < 0 {
		return fmt.Errorf("%w: negative field style value", ErrInvalid)
	}
	if c.Halo.Particles < 0 || c.Halo.LinkDistance < 0 {
		return fmt.Errorf("%w: negative halo value", ErrInvalid)
	}
	if c.Spectrum.FFTSize <= 0 || c.Spectrum.FFTSize&(c.Spectrum.FFTSize-1) != 0 {
		return fmt.Errorf("%w: fft_size %d is not a power of two", ErrInvalid, c.Spectrum.FFTSize)
	}
	if c.Spectrum.RingSize < c.Spectrum.FFTSize {
		return fmt.Errorf("%w: ring_size %d smaller than fft_size %d", ErrInvalid, c.Spectrum.RingSize, c.Spectrum.FFTSize)
	}
	if c.Spectrum.Smoothing < 0 || c.Spectrum.Smoothing >= 1 {
		return fmt.Errorf("%w: smoothing must be in [0,1)", ErrInvalid)
	}
	if c.Spectrum.MinDecibels >= c.Spectrum.MaxDecibels {
		return fmt.Errorf("%w: min_decibels must be below max_decibels", ErrInvalid)
	}
	return nil
}
