package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/iburimskiy/voicefield/internal/surface"
)

// Analyzer turns the latest samples into byte frequency and time-domain data,
// the way a browser AnalyserNode reports them.
type Analyzer struct {
	size      int
	smoothing float64
	minDB     float64
	maxDB     float64

	hann  []float64
	frame []float64
	mags  []float64
	freq  []uint8
	wave  []uint8
}

func NewAnalyzer(fftSize int, smoothing, minDB, maxDB float64) *Analyzer {
	return &Analyzer{
		size:      fftSize,
		smoothing: smoothing,
		minDB:     minDB,
		maxDB:     maxDB,
		hann:      window.Hann(fftSize),
		frame:     make([]float64, fftSize),
		mags:      make([]float64, fftSize/2),
		freq:      make([]uint8, fftSize/2),
		wave:      make([]uint8, fftSize),
	}
}

// Update analyses the last fftSize samples; shorter input is zero-padded at the front.
func (a *Analyzer) Update(samples [][2]float64) {
	if len(samples) > a.size {
		samples = samples[len(samples)-a.size:]
	}
	pad := a.size - len(samples)
	for i := range a.frame {
		var mono float64
		if i >= pad {
			s := samples[i-pad]
			mono = (s[0] + s[1]) * 0.5
		}
		a.wave[i] = uint8(math.Max(0, math.Min(255, 128*(1+mono))))
		a.frame[i] = mono * a.hann[i]
	}

	coeffs := fft.FFTReal(a.frame)
	n := float64(a.size)
	for k := range a.mags {
		mag := cmplx.Abs(coeffs[k]) / n
		a.mags[k] = a.smoothing*a.mags[k] + (1-a.smoothing)*mag

		db := 20 * math.Log10(a.mags[k])
		if math.IsInf(db, -1) || math.IsNaN(db) {
			a.freq[k] = 0
			continue
		}
		a.freq[k] = uint8(255 * surface.Clamp01((db-a.minDB)/(a.maxDB-a.minDB)))
	}
}

// Frequency returns fftSize/2 bins, owned by the Analyzer until the next Update.
func (a *Analyzer) Frequency() []uint8 { return a.freq }

// Waveform returns fftSize time-domain bytes centred on 128.
func (a *Analyzer) Waveform() []uint8 { return a.wave }
