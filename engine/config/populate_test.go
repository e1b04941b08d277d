package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/headless"
	"github.com/Carmen-Shannon/oxy-scene/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScene(t *testing.T, cfg Config) (scene.Scene, *headless.Backend) {
	t.Helper()
	backend := headless.NewHeadlessBackend()
	s, err := scene.NewScene("config", backend, cfg.Window.Width, cfg.Window.Height,
		scene.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		scene.WithCameraOptions(cfg.Camera.Options()...),
		scene.WithRendererOptions(cfg.Renderer.Options()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, backend
}

func TestPopulateAndSpin(t *testing.T) {
	cfg, err := Parse([]byte(`
objects:
  - label: spinner
    spin:
      axis: [0, 1, 0]
      degrees: 90
    grid:
      per_row: 2
  - label: still
    primitive: quad
`))
	require.NoError(t, err)
	s, _ := newScene(t, cfg)

	sp, err := cfg.Populate(s)
	require.NoError(t, err)
	require.Len(t, sp, 1)
	require.Len(t, s.Objects(), 2)
	assert.Equal(t, "spinner", s.Objects()[0].Label())
	assert.Equal(t, 8, s.Object("spinner").InstanceCount())

	require.NoError(t, sp.Tick(s, time.Second))
	v := s.Object("spinner").Rotation().Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, -1, v.Z(), 1e-5)
	assert.Equal(t, mgl32.QuatIdent(), s.Object("still").Rotation())

	assert.True(t, s.RemoveObject("spinner"))
	assert.NoError(t, sp.Tick(s, time.Second))
}

func TestConfiguredSceneRenders(t *testing.T) {
	cfg, err := Load("testdata/grid.yaml")
	require.NoError(t, err)
	s, backend := newScene(t, cfg)

	_, err = cfg.Populate(s)
	require.NoError(t, err)
	require.NoError(t, s.Update(0))
	stats, err := s.Render()
	require.NoError(t, err)
	assert.Equal(t, scene.RenderStats{Objects: 2, DrawCalls: 2, Instances: 28}, stats)

	frame := backend.LastFrame()
	require.NotNil(t, frame)
	assert.Equal(t, 0.05, frame.Target.ClearColor.R)
	assert.InDelta(t, 1280.0/720.0, s.Camera().Aspect(), 1e-6)
}
