package spectrum

import (
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var memFormat = beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}

// memRecording is an in-memory recording that counts Close calls.
type memRecording struct {
	beep.StreamSeeker
	closed int
}

func (m *memRecording) Close() error {
	m.closed++
	return nil
}

func newMemRecording(samples int) *memRecording {
	buf := beep.NewBuffer(memFormat)
	buf.Append(beep.Silence(samples))
	return &memRecording{StreamSeeker: buf.Streamer(0, buf.Len())}
}

// loaded returns a player holding rec without touching the speaker.
func loaded(t *testing.T, rec *memRecording) (*Player, *beep.Ctrl) {
	t.Helper()
	p := NewPlayer(1024, zaptest.NewLogger(t))
	tap := NewTap(rec, 1024)
	ctrl := &beep.Ctrl{Streamer: tap}
	p.load(nil, rec, memFormat, tap, ctrl)
	require.True(t, p.Loaded())
	return p, ctrl
}

// drain streams s until it reports it is done.
func drain(t *testing.T, s beep.Streamer) {
	t.Helper()
	buf := make([][2]float64, 256)
	for i := 0; i < 1000; i++ {
		if _, ok := s.Stream(buf); !ok {
			return
		}
	}
	t.Fatal("stream never ended")
}

func TestSeekSample(t *testing.T) {
	const length = 800 // 100ms at 8kHz
	d := memFormat.SampleRate.D(length)

	tests := []struct {
		name string
		frac float64
		want int
	}{
		{"start", 0, 0},
		{"middle", 0.5, 400},
		{"end clamps to last sample", 1, length - 1},
		{"past the end", 1.5, length - 1},
		{"negative", -0.2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, seekSample(tt.frac, d, memFormat.SampleRate, length))
		})
	}
	assert.Zero(t, seekSample(0.5, 0, memFormat.SampleRate, 0), "empty recording")
}

func TestSeekAllowed(t *testing.T) {
	now := time.Now()
	assert.True(t, seekAllowed(time.Time{}, now))
	assert.False(t, seekAllowed(now.Add(-10*time.Millisecond), now))
	assert.True(t, seekAllowed(now.Add(-seekCooldown), now))
	assert.True(t, seekAllowed(now.Add(-time.Second), now))
}

func TestPlayerSeek(t *testing.T) {
	rec := newMemRecording(800)
	p, _ := loaded(t, rec)

	require.NoError(t, p.Seek(0.5))
	assert.Equal(t, 400, rec.Position())
	pos, total, frac := p.Progress()
	assert.Equal(t, 50*time.Millisecond, pos)
	assert.Equal(t, 100*time.Millisecond, total)
	assert.InDelta(t, 0.5, frac, 1e-9)

	// inside the cooldown
	require.NoError(t, p.Seek(0.9))
	assert.Equal(t, 400, rec.Position())

	p.mu.Lock()
	p.lastSeekTime = time.Now().Add(-time.Second)
	p.mu.Unlock()
	require.NoError(t, p.Seek(2))
	assert.Equal(t, 799, rec.Position())
}

func TestPlayerTogglePause(t *testing.T) {
	p, ctrl := loaded(t, newMemRecording(800))

	p.TogglePause()
	assert.True(t, p.Paused())
	assert.True(t, ctrl.Paused)

	p.Advance(20 * time.Millisecond)
	pos, _, _ := p.Progress()
	assert.Zero(t, pos, "paused position does not advance")

	p.TogglePause()
	assert.False(t, ctrl.Paused)
	p.Advance(time.Second)
	pos, total, _ := p.Progress()
	assert.Equal(t, total, pos, "position stops at the duration")
}

func TestPlayerReleasesAtEndOfStream(t *testing.T) {
	rec := newMemRecording(300)
	p, ctrl := loaded(t, rec)

	drain(t, beep.Seq(ctrl, beep.Callback(p.finished(rec))))

	assert.False(t, p.Loaded())
	assert.Nil(t, p.Tap())
	assert.Equal(t, 1, rec.closed)
	_, total, _ := p.Progress()
	assert.Zero(t, total)
}

func TestPlayerIgnoresStaleEndOfStream(t *testing.T) {
	first := newMemRecording(300)
	p, _ := loaded(t, first)
	stale := p.finished(first)

	p.Close()
	assert.Equal(t, 1, first.closed)

	second := newMemRecording(300)
	tap := NewTap(second, 1024)
	p.load(nil, second, memFormat, tap, &beep.Ctrl{Streamer: tap})

	stale()
	assert.True(t, p.Loaded())
	assert.Zero(t, second.closed)
	assert.Equal(t, 1, first.closed)
}
