package field

import "github.com/lucasb-eyer/go-colorful"

type Particle struct {
	X, Y   float64
	DX, DY float64
	Radius float64
	Color  colorful.Color
}

// reverse is the only reflection rule: both components flip together.
func (p *Particle) reverse() {
	p.DX, p.DY = -p.DX, -p.DY
}

// leaves reports whether the move by the current velocity exits the band
// [r, dim-r] on either axis.
func (p *Particle) leaves(width, height float64) bool {
	return outside(p.X+p.DX, p.Radius, width) || outside(p.Y+p.DY, p.Radius, height)
}

func outside(v, r, dim float64) bool {
	return v > dim-r || v < r
}
