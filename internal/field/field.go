// Package field animates a fixed population of glowing particles that bounce
// inside the surface and link to near neighbours with gradient edges.
package field

import (
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/voicefield/internal/surface"
)

// Stats counts what the last frame did.
type Stats struct {
	Edges    int
	Contacts int
	WallHits int
	Holds    int
}

// Field owns one population. It is not safe for concurrent use; the loop
// driver serialises frames.
type Field struct {
	profile Profile
	style   Style
	rng     *rand.Rand

	params        Params
	width, height float64
	points        []Particle
	colorIndex    int
	stats         Stats
}

func New(profile Profile, style Style, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Field{profile: profile, style: style, rng: rng}
}

// Reset discards the population and seeds a fresh one for a width x height surface.
func (f *Field) Reset(width, height int) {
	f.params = Derive(f.profile, width, height, f.style)
	f.width, f.height = float64(max(width, 0)), float64(max(height, 0))
	f.colorIndex = 0
	f.stats = Stats{}
	f.points = f.points[:0]

	r := f.params.Radius
	margin := f.params.Speed / 2
	// Seeding inside the band shrunk by the largest step keeps both the
	// velocity and its reflection inside on the first frame.
	xlo, xhi := r+margin, f.width-r-margin
	ylo, yhi := r+margin, f.height-r-margin
	if xhi < xlo || yhi < ylo || len(f.style.Palette) == 0 {
		f.params.Count = 0
		return
	}

	for i := 0; i < f.params.Count; i++ {
		f.points = append(f.points, Particle{
			X:      xlo + f.rng.Float64()*(xhi-xlo),
			Y:      ylo + f.rng.Float64()*(yhi-ylo),
			DX:     f.randD(),
			DY:     f.randD(),
			Radius: r,
			Color:  f.nextColor(),
		})
	}
}

func (f *Field) randD() float64 {
	return (f.rng.Float64() - 0.5) * f.params.Speed
}

func (f *Field) nextColor() colorful.Color {
	f.colorIndex = (f.colorIndex + 1) % len(f.style.Palette)
	return f.style.Palette[f.colorIndex]
}

func (f *Field) Params() Params { return f.params }

func (f *Field) Stats() Stats { return f.stats }

// Particles returns a copy of the population.
func (f *Field) Particles() []Particle {
	return append([]Particle(nil), f.points...)
}

// Frame clears the surface and advances and draws every particle once. Edges
// are drawn while a particle scans its neighbours, before its own disc.
func (f *Field) Frame(s surface.Surface) {
	f.stats = Stats{}
	f.clear(s)
	for i := range f.points {
		f.advance(i, s)
		p := &f.points[i]
		s.FillCircle(p.X, p.Y, p.Radius, p.Color, f.params.Glow)
	}
}

func (f *Field) clear(s surface.Surface) {
	s.FillRect(0, 0, f.width, f.height, f.params.Background)
}

func (f *Field) advance(i int, s surface.Surface) {
	p := &f.points[i]

	if outside(p.X+p.DX, p.Radius, f.width) {
		p.reverse()
		f.stats.WallHits++
	}
	if outside(p.Y+p.DY, p.Radius, f.height) {
		p.reverse()
		f.stats.WallHits++
	}

	t := f.params.Threshold
	for j := range f.points {
		if j == i {
			continue
		}
		q := &f.points[j]
		d := math.Hypot(q.X-p.X, q.Y-p.Y)
		if d < t && t > 0 {
			s.StrokeLine(p.X, p.Y, q.X, q.Y, f.params.LineWidth*(t-d)/t, p.Color, q.Color)
			f.stats.Edges++
		}
		if d < p.Radius+q.Radius {
			p.reverse()
			f.stats.Contacts++
			break
		}
	}

	// A contact can undo a wall reflection; the wall wins before moving.
	if p.leaves(f.width, f.height) {
		p.reverse()
		if p.leaves(f.width, f.height) {
			f.stats.Holds++
			return
		}
	}
	p.X += p.DX
	p.Y += p.DY
}
