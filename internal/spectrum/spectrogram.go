package spectrum

// Spectrogram is a scrolling width x height grid of byte magnitudes; the
// newest row is at the bottom.
type Spectrogram struct {
	width, height int
	data          []uint8
	pixels        []byte
}

func NewSpectrogram(width, height int) *Spectrogram {
	width, height = max(width, 0), max(height, 0)
	return &Spectrogram{
		width:  width,
		height: height,
		data:   make([]uint8, width*height),
		pixels: make([]byte, 4*width*height),
	}
}

func (s *Spectrogram) Size() (int, int) { return s.width, s.height }

// Push scrolls every row up by one and writes bins as the new bottom row,
// column i taking bin floor(i*len(bins)/width).
func (s *Spectrogram) Push(bins []uint8) {
	if s.width == 0 || s.height == 0 {
		return
	}
	copy(s.data, s.data[s.width:])
	row := s.data[s.width*(s.height-1):]
	if len(bins) == 0 {
		clear(row)
		return
	}
	for i := range row {
		row[i] = bins[i*len(bins)/s.width]
	}
}

// Row returns row y (0 is the oldest).
func (s *Spectrogram) Row(y int) []uint8 {
	return s.data[y*s.width : (y+1)*s.width]
}

// Pixels renders the grid as RGBA bytes (R=0, G=B=value, A=255). The slice is
// reused across calls.
func (s *Spectrogram) Pixels() []byte {
	for i, v := range s.data {
		p := s.pixels[i*4 : i*4+4]
		p[0], p[1], p[2], p[3] = 0, v, v, 255
	}
	return s.pixels
}
