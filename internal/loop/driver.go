// Package loop owns the frame lifecycle of one scene: mount, per-frame
// callbacks, resize and teardown.
package loop

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/voicefield/internal/logging"
	"github.com/iburimskiy/voicefield/internal/surface"
)

// Scene is a self-contained animation. Reset seeds a fresh state for a surface
// size; Frame draws one frame.
type Scene interface {
	Reset(width, height int)
	Frame(s surface.Surface)
}

// Driver serialises frames of one Scene. Host callbacks and Stop may come
// from different goroutines.
type Driver struct {
	scene Scene
	log   *zap.Logger

	mu            sync.Mutex
	mounted       bool
	stopped       bool
	width, height int
	frames        uint64
	done          chan struct{}
}

func NewDriver(scene Scene, log *zap.Logger) *Driver {
	return &Driver{
		scene: scene,
		log:   logging.OrNop(log),
		done:  make(chan struct{}),
	}
}

// Mount reads the surface size once and seeds the scene.
func (d *Driver) Mount(s surface.Surface) error {
	if s == nil {
		return surface.ErrNoContext
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.width, d.height = s.Size()
	d.scene.Reset(d.width, d.height)
	d.mounted = true
	d.log.Debug("scene mounted", zap.Int("width", d.width), zap.Int("height", d.height))
	return nil
}

// Resize re-seeds the scene from scratch when the size changed. It reports
// whether a reset happened.
func (d *Driver) Resize(width, height int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.mounted || d.stopped || (width == d.width && height == d.height) {
		return false
	}
	d.log.Info("surface resized, reseeding",
		zap.Int("from_width", d.width), zap.Int("from_height", d.height),
		zap.Int("width", width), zap.Int("height", height))
	d.width, d.height = width, height
	d.scene.Reset(width, height)
	return true
}

// Reseed discards the current population at the current size.
func (d *Driver) Reseed() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mounted && !d.stopped {
		d.scene.Reset(d.width, d.height)
	}
}

// Replace swaps in a new scene, seeded at the current size when mounted.
func (d *Driver) Replace(scene Scene) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.scene = scene
	if d.mounted {
		d.scene.Reset(d.width, d.height)
	}
	d.log.Debug("scene replaced")
}

// Frame runs one scene frame on s. It returns false once the driver is
// stopped or before it is mounted.
func (d *Driver) Frame(s surface.Surface) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.mounted || d.stopped {
		return false
	}
	d.scene.Frame(s)
	d.frames++
	return true
}

// Stop cancels all future frames. A frame already running completes first.
// Calling Stop more than once is a no-op.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	close(d.done)
	d.log.Debug("scene stopped", zap.Uint64("frames", d.frames))
}

// Done is closed by Stop.
func (d *Driver) Done() <-chan struct{} { return d.done }

func (d *Driver) Stopped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopped
}

func (d *Driver) Frames() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

func (d *Driver) Size() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

// Run mounts s and schedules one frame per interval until Stop is called or
// ctx ends. present, if set, runs after every frame (terminal Show, etc).
// Stop ends Run with a nil error, ctx with ctx.Err().
func (d *Driver) Run(ctx context.Context, s surface.Surface, interval time.Duration, present func()) error {
	if err := d.Mount(s); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.Stop()
			return ctx.Err()
		case <-d.done:
			return nil
		case <-ticker.C:
			if !d.Frame(s) {
				return nil
			}
			if present != nil {
				present()
			}
		}
	}
}
