// Package halo is the ring-bounded particle effect: particles wander on
// spinning headings inside a circular frame and link when close.
package halo

import (
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/voicefield/internal/surface"
)

const maxParticleRadius = 4

type Params struct {
	Count        int
	LinkDistance float64
	LinkAlpha    float64 // alpha of a zero-length link
	FrameRatio   float64 // frame radius relative to min(width, height)
	LineWidth    float64
	Background   colorful.Color
	Palette      []colorful.Color
}

type particle struct {
	x, y   float64
	radius float64
	color  colorful.Color
	speed  float64
	angle  float64
	spin   float64
}

type Halo struct {
	params Params
	rng    *rand.Rand

	width, height float64
	cx, cy, frame float64
	particles     []particle
	links         int
}

func New(params Params, rng *rand.Rand) *Halo {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if params.LineWidth == 0 {
		params.LineWidth = 1
	}
	return &Halo{params: params, rng: rng}
}

func (h *Halo) Reset(width, height int) {
	h.width, h.height = float64(max(width, 0)), float64(max(height, 0))
	h.cx, h.cy = h.width/2, h.height/2
	h.frame = math.Min(h.width, h.height) * h.params.FrameRatio
	h.particles = h.particles[:0]
	h.links = 0

	if h.frame <= maxParticleRadius+1 || len(h.params.Palette) == 0 {
		return
	}
	for i := 0; i < h.params.Count; i++ {
		h.particles = append(h.particles, particle{
			x:      h.rng.Float64() * h.width,
			y:      h.rng.Float64() * h.height,
			radius: h.rng.Float64()*3 + 1,
			color:  h.params.Palette[h.rng.IntN(len(h.params.Palette))],
			speed:  h.rng.Float64()*0.5 + 0.1,
			angle:  h.rng.Float64() * math.Pi * 2,
			spin:   h.rng.Float64()*0.1 - 0.05,
		})
	}
}

// Len is the population size.
func (h *Halo) Len() int { return len(h.particles) }

// Links is the number of links drawn by the last frame.
func (h *Halo) Links() int { return h.links }

// FrameRadius is the radius of the bounding circle.
func (h *Halo) FrameRadius() float64 { return h.frame }

func (h *Halo) Frame(s surface.Surface) {
	s.FillRect(0, 0, h.width, h.height, h.params.Background)
	if len(h.particles) == 0 {
		return
	}
	accent := h.params.Palette[0]
	s.StrokeCircle(h.cx, h.cy, h.frame, 1, accent)

	h.links = 0
	ld := h.params.LinkDistance
	for i := range h.particles {
		for j := i + 1; j < len(h.particles); j++ {
			a, b := &h.particles[i], &h.particles[j]
			d := math.Hypot(a.x-b.x, a.y-b.y)
			if d < ld {
				c := surface.WithAlpha(accent, (1-d/ld)*h.params.LinkAlpha)
				s.StrokeLine(a.x, a.y, b.x, b.y, h.params.LineWidth, c, c)
				h.links++
			}
		}
	}

	for i := range h.particles {
		p := &h.particles[i]
		p.angle += p.spin
		p.x += math.Cos(p.angle) * p.speed
		p.y += math.Sin(p.angle) * p.speed

		dx, dy := p.x-h.cx, p.y-h.cy
		if math.Hypot(dx, dy) > h.frame-p.radius {
			out := math.Atan2(dy, dx)
			p.angle = out + math.Pi
			p.x = h.cx + math.Cos(out)*(h.frame-p.radius-1)
			p.y = h.cy + math.Sin(out)*(h.frame-p.radius-1)
		}
		s.FillCircle(p.x, p.y, p.radius, p.color, 0)
	}
}
