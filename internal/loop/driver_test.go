package loop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/iburimskiy/voicefield/internal/surface"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingScene struct {
	resets atomic.Int32
	frames atomic.Int32
	w, h   int
}

func (c *countingScene) Reset(width, height int) {
	c.resets.Add(1)
	c.w, c.h = width, height
}

func (c *countingScene) Frame(s surface.Surface) {
	c.frames.Add(1)
	s.FillRect(0, 0, float64(c.w), float64(c.h), nil)
}

func TestMountNilSurface(t *testing.T) {
	scene := &countingScene{}
	d := NewDriver(scene, zaptest.NewLogger(t))
	assert.ErrorIs(t, d.Mount(nil), surface.ErrNoContext)
	assert.False(t, d.Frame(surface.NewRecorder(1, 1)))
	assert.Zero(t, scene.resets.Load())
}

func TestFrameAfterMount(t *testing.T) {
	scene := &countingScene{}
	d := NewDriver(scene, nil)
	rec := surface.NewRecorder(800, 600)
	require.NoError(t, d.Mount(rec))

	assert.Equal(t, int32(1), scene.resets.Load())
	assert.Equal(t, 800, scene.w)
	for i := 0; i < 3; i++ {
		assert.True(t, d.Frame(rec))
	}
	assert.Equal(t, uint64(3), d.Frames())
	assert.Len(t, rec.Ops(), 3)
}

func TestStopIsIdempotent(t *testing.T) {
	scene := &countingScene{}
	d := NewDriver(scene, zaptest.NewLogger(t))
	rec := surface.NewRecorder(10, 10)
	require.NoError(t, d.Mount(rec))
	require.True(t, d.Frame(rec))

	assert.NotPanics(t, func() {
		d.Stop()
		d.Stop()
	})
	assert.True(t, d.Stopped())
	assert.False(t, d.Frame(rec))
	assert.Equal(t, int32(1), scene.frames.Load())
}

func TestResizeReseeds(t *testing.T) {
	scene := &countingScene{}
	d := NewDriver(scene, zaptest.NewLogger(t))
	assert.False(t, d.Resize(100, 100), "not mounted yet")

	require.NoError(t, d.Mount(surface.NewRecorder(800, 600)))
	assert.False(t, d.Resize(800, 600))
	assert.True(t, d.Resize(1024, 768))
	assert.Equal(t, int32(2), scene.resets.Load())
	w, h := d.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
	assert.Equal(t, 1024, scene.w)

	d.Reseed()
	assert.Equal(t, int32(3), scene.resets.Load())

	d.Stop()
	assert.False(t, d.Resize(640, 480))
	d.Reseed()
	assert.Equal(t, int32(3), scene.resets.Load())
}

func TestRunStopsOnStop(t *testing.T) {
	scene := &countingScene{}
	d := NewDriver(scene, zaptest.NewLogger(t))

	var presented atomic.Int32
	errc := make(chan error, 1)
	go func() {
		errc <- d.Run(context.Background(), surface.NewRecorder(50, 50), time.Millisecond, func() {
			if presented.Add(1) == 5 {
				d.Stop()
			}
		})
	}()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	frames := scene.frames.Load()
	assert.Equal(t, int32(5), frames)

	d.Stop()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, frames, scene.frames.Load())
}

func TestRunStopsOnContext(t *testing.T) {
	scene := &countingScene{}
	d := NewDriver(scene, nil)
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() {
		errc <- d.Run(ctx, surface.NewRecorder(50, 50), time.Millisecond, nil)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.True(t, d.Stopped())
}

func TestRunNilSurface(t *testing.T) {
	d := NewDriver(&countingScene{}, nil)
	err := d.Run(context.Background(), nil, time.Millisecond, nil)
	assert.ErrorIs(t, err, surface.ErrNoContext)
}

func TestReplaceSeedsAtCurrentSize(t *testing.T) {
	first, second := &countingScene{}, &countingScene{}
	d := NewDriver(first, zaptest.NewLogger(t))
	rec := surface.NewRecorder(320, 200)
	require.NoError(t, d.Mount(rec))

	d.Replace(second)
	assert.Equal(t, int32(1), second.resets.Load())
	assert.Equal(t, 320, second.w)
	require.True(t, d.Frame(rec))
	assert.Equal(t, int32(1), second.frames.Load())
	assert.Zero(t, first.frames.Load())

	d.Stop()
	third := &countingScene{}
	d.Replace(third)
	assert.Zero(t, third.resets.Load())
}

func TestDoneClosesOnStop(t *testing.T) {
	d := NewDriver(&countingScene{}, zaptest.NewLogger(t))
	select {
	case <-d.Done():
		t.Fatal("done before Stop")
	default:
	}
	d.Stop()
	select {
	case <-d.Done():
	case <-time.After(time.Second):
		t.Fatal("done not closed by Stop")
	}
}
