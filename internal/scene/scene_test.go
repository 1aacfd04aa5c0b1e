package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/voicefield/internal/config"
	"github.com/iburimskiy/voicefield/internal/field"
	"github.com/iburimskiy/voicefield/internal/halo"
)

func TestNewField(t *testing.T) {
	cfg := config.Default()
	cfg.Field.Seed = 1
	s, err := New(cfg)
	require.NoError(t, err)

	f, ok := s.(*field.Field)
	require.True(t, ok)
	f.Reset(800, 600)
	assert.Equal(t, 56, f.Params().Count)
	assert.InDelta(t, 96, f.Params().Threshold, 1e-9)
	assert.Equal(t, 10.0, f.Params().Glow)
}

func TestNewFieldConstellation(t *testing.T) {
	cfg := config.Default()
	cfg.Field.Profile = config.ProfileConstellation
	s, err := New(cfg)
	require.NoError(t, err)
	f := s.(*field.Field)
	f.Reset(800, 600)
	assert.InDelta(t, 56, f.Params().Threshold, 1e-9)
}

func TestNewHalo(t *testing.T) {
	cfg := config.Default()
	cfg.Scene = config.SceneHalo
	s, err := New(cfg)
	require.NoError(t, err)

	h, ok := s.(*halo.Halo)
	require.True(t, ok)
	h.Reset(400, 400)
	assert.Equal(t, 200, h.Len())
}

func TestNewErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Scene = "aurora"
	_, err := New(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)

	cfg = config.Default()
	cfg.Field.Background = "dark"
	_, err = New(cfg)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Scene = config.SceneHalo
	cfg.Halo.Palette = []string{"#zzzzzz"}
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestSeedIsDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.Field.Seed = 99
	a, err := New(cfg)
	require.NoError(t, err)
	b, err := New(cfg)
	require.NoError(t, err)

	fa, fb := a.(*field.Field), b.(*field.Field)
	fa.Reset(640, 480)
	fb.Reset(640, 480)
	assert.Equal(t, fa.Particles(), fb.Particles())
}
