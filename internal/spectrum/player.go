package spectrum

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"

	"github.com/iburimskiy/voicefield/internal/logging"
	"github.com/iburimskiy/voicefield/internal/surface"
)

var ErrUnsupportedFormat = errors.New("unsupported file type")

const seekCooldown = 50 * time.Millisecond

// Decode opens a wav, mp3 or flac recording chosen by extension. The caller
// owns the returned file and streamer.
func Decode(path string) (*os.File, beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var decode func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)
	switch ext {
	case ".wav":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }
	case ".mp3":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) }
	case ".flac":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(f) }
	default:
		return nil, nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, beep.Format{}, err
	}
	streamer, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return f, streamer, format, nil
}

// Player plays one recording at a time through the speaker and exposes a Tap
// of what was played. Lock order is speaker, then p.mu: the end-of-stream
// callback runs with the speaker locked.
type Player struct {
	log      *zap.Logger
	ringSize int

	mu          sync.Mutex
	currentFile *os.File
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	tap         *Tap

	duration     time.Duration
	position     time.Duration
	lastSeekTime time.Time

	paused      bool
	speakerRate beep.SampleRate
}

func NewPlayer(ringSize int, log *zap.Logger) *Player {
	return &Player{ringSize: ringSize, log: logging.OrNop(log)}
}

// Open stops the current recording, if any, and starts playing path.
func (p *Player) Open(path string) error {
	f, streamer, format, err := Decode(path)
	if err != nil {
		return err
	}
	p.log.Info("recording loaded",
		zap.String("path", path),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Int("channels", format.NumChannels))

	// streamer -> tap -> ctrl
	t := NewTap(streamer, p.ringSize)
	ctrl := &beep.Ctrl{Streamer: t, Paused: false}

	p.Close()

	if p.speakerRate != format.SampleRate {
		bufferSize := format.SampleRate.N(time.Second / 20)
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("speaker init: %w", err)
		}
		p.speakerRate = format.SampleRate
	}

	p.load(f, streamer, format, t, ctrl)
	speaker.Play(beep.Seq(ctrl, beep.Callback(p.finished(streamer))))
	return nil
}

// load makes the recording current. The caller has released the previous one.
func (p *Player) load(f *os.File, streamer beep.StreamSeekCloser, format beep.Format, t *Tap, ctrl *beep.Ctrl) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentFile = f
	p.streamer = streamer
	p.format = format
	p.ctrl = ctrl
	p.tap = t
	p.paused = false
	p.duration = format.SampleRate.D(streamer.Len())
	p.position = 0
	p.lastSeekTime = time.Time{}
}

// finished returns the end-of-stream callback for streamer. It releases the
// recording only if it is still the current one.
func (p *Player) finished(streamer beep.StreamSeekCloser) func() {
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.streamer != streamer {
			return
		}
		p.log.Debug("recording finished")
		p.release()
	}
}

// release closes the open recording. p.mu must be held.
func (p *Player) release() {
	if p.streamer != nil {
		_ = p.streamer.Close()
		p.streamer = nil
	}
	if p.currentFile != nil {
		_ = p.currentFile.Close()
		p.currentFile = nil
	}
	p.ctrl = nil
	p.tap = nil
	p.duration = 0
	p.position = 0
}

// Close stops playback and releases the recording. Safe to call repeatedly.
func (p *Player) Close() {
	// speaker.Clear takes the speaker lock itself.
	speaker.Clear()
	p.mu.Lock()
	p.release()
	p.mu.Unlock()
}

func (p *Player) TogglePause() {
	speaker.Lock()
	defer speaker.Unlock()
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl == nil {
		return
	}
	p.paused = !p.paused
	p.ctrl.Paused = p.paused
}

// Seek jumps to frac in [0,1] of the recording. Calls within the cooldown of
// the previous seek are dropped.
func (p *Player) Seek(frac float64) error {
	speaker.Lock()
	defer speaker.Unlock()
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return nil
	}
	now := time.Now()
	if !seekAllowed(p.lastSeekTime, now) {
		return nil
	}

	pos := seekSample(frac, p.duration, p.format.SampleRate, p.streamer.Len())
	if err := p.streamer.Seek(pos); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	p.position = p.format.SampleRate.D(pos)
	p.lastSeekTime = now
	return nil
}

// seekAllowed drops seeks closer than seekCooldown to the previous one.
func seekAllowed(last, now time.Time) bool {
	return last.IsZero() || now.Sub(last) >= seekCooldown
}

// seekSample maps frac of duration to a sample index in [0, length-1].
func seekSample(frac float64, duration time.Duration, rate beep.SampleRate, length int) int {
	pos := rate.N(time.Duration(surface.Clamp01(frac) * float64(duration)))
	if pos >= length {
		pos = length - 1
	}
	return max(pos, 0)
}

// Advance moves the displayed position by one frame's worth of time.
func (p *Player) Advance(dt time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil || p.paused {
		return
	}
	p.position += dt
	if p.position > p.duration {
		p.position = p.duration
	}
}

func (p *Player) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ctrl != nil
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Tap returns the tap of the current recording, or nil.
func (p *Player) Tap() *Tap {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tap
}

// Progress returns the position, the duration and their ratio.
func (p *Player) Progress() (pos, total time.Duration, frac float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.duration > 0 {
		frac = float64(p.position) / float64(p.duration)
	}
	return p.position, p.duration, frac
}
