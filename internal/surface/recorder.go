package surface

import "image/color"

type OpKind uint8

const (
	OpFillRect OpKind = iota
	OpFillCircle
	OpStrokeCircle
	OpStrokeLine
)

func (k OpKind) String() string {
	switch k {
	case OpFillRect:
		return "fill-rect"
	case OpFillCircle:
		return "fill-circle"
	case OpStrokeCircle:
		return "stroke-circle"
	case OpStrokeLine:
		return "stroke-line"
	}
	return "unknown"
}

// Op is one recorded draw call. Unused fields are zero.
type Op struct {
	Kind           OpKind
	X0, Y0, X1, Y1 float64
	W, H           float64 // FillRect extent
	R              float64 // circle radius
	Width          float64 // stroke width
	Glow           float64
	From, To       color.Color
}

// Recorder is a Surface that keeps a display list. The ebiten host records a
// scene frame in Update and replays it in Draw; headless runs and tests inspect it.
type Recorder struct {
	width, height int
	ops           []Op
}

func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) Size() (int, int) { return r.width, r.height }

func (r *Recorder) SetSize(width, height int) {
	r.width, r.height = width, height
}

// Reset drops the recorded operations but keeps the backing storage.
func (r *Recorder) Reset() { r.ops = r.ops[:0] }

func (r *Recorder) Ops() []Op { return r.ops }

func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.ops = append(r.ops, Op{Kind: OpFillRect, X0: x, Y0: y, W: w, H: h, From: c})
}

func (r *Recorder) FillCircle(x, y, radius float64, c color.Color, glow float64) {
	r.ops = append(r.ops, Op{Kind: OpFillCircle, X0: x, Y0: y, R: radius, Glow: glow, From: c})
}

func (r *Recorder) StrokeCircle(x, y, radius, width float64, c color.Color) {
	r.ops = append(r.ops, Op{Kind: OpStrokeCircle, X0: x, Y0: y, R: radius, Width: width, From: c})
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, from, to color.Color) {
	r.ops = append(r.ops, Op{Kind: OpStrokeLine, X0: x0, Y0: y0, X1: x1, Y1: y1, Width: width, From: from, To: to})
}

// Replay issues the recorded operations on dst in recording order.
func (r *Recorder) Replay(dst Surface) {
	for _, op := range r.ops {
		switch op.Kind {
		case OpFillRect:
			dst.FillRect(op.X0, op.Y0, op.W, op.H, op.From)
		case OpFillCircle:
			dst.FillCircle(op.X0, op.Y0, op.R, op.From, op.Glow)
		case OpStrokeCircle:
			dst.StrokeCircle(op.X0, op.Y0, op.R, op.Width, op.From)
		case OpStrokeLine:
			dst.StrokeLine(op.X0, op.Y0, op.X1, op.Y1, op.Width, op.From, op.To)
		}
	}
}
