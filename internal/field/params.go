package field

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Profile selects how the population and its motion scale with the surface.
type Profile string

const (
	// Network: denser links, slow near-constant speed.
	Network Profile = "network"
	// Constellation: link radius equals the population size, speed grows with the surface.
	Constellation Profile = "constellation"
)

// Palette is the fixed colour cycle particles are painted from.
type Palette []colorful.Color

func ParsePalette(hex []string) (Palette, error) {
	if len(hex) == 0 {
		return nil, fmt.Errorf("empty palette")
	}
	p := make(Palette, 0, len(hex))
	for _, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("palette colour %q: %w", h, err)
		}
		p = append(p, c)
	}
	return p, nil
}

// Style holds the parameters that do not depend on surface size.
type Style struct {
	Radius     float64
	LineWidth  float64
	Glow       float64
	Background colorful.Color
	Palette    Palette
}

// Params is fixed for the life of one seeded population.
type Params struct {
	Count     int
	Threshold float64 // proximity threshold for edges
	Speed     float64 // velocity per axis is uniform in [-Speed/2, Speed/2]
	Style
}

// Derive computes the simulation parameters for a width x height surface.
func Derive(profile Profile, width, height int, style Style) Params {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	sum := float64(width + height)
	count := int(math.Floor(sum / 25))

	p := Params{Count: count, Style: style}
	switch profile {
	case Constellation:
		p.Threshold = float64(count)
		p.Speed = sum / 200
	default:
		p.Threshold = float64(count) + 40
		p.Speed = sum/2500 + 4
	}
	return p
}
