package renderer_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/headless"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSurfaceFormatPrefersSRGB(t *testing.T) {
	f, ok := renderer.SelectSurfaceFormat([]renderer.SurfaceFormat{headless.FormatBGRA8Unorm, headless.FormatBGRA8UnormSrgb})
	require.True(t, ok)
	assert.Equal(t, headless.FormatBGRA8UnormSrgb, f)

	f, ok = renderer.SelectSurfaceFormat([]renderer.SurfaceFormat{headless.FormatBGRA8Unorm})
	require.True(t, ok)
	assert.Equal(t, headless.FormatBGRA8Unorm, f)

	_, ok = renderer.SelectSurfaceFormat(nil)
	assert.False(t, ok)
}

func TestSelectPresentModeFallsBack(t *testing.T) {
	supported := []renderer.PresentMode{renderer.PresentModeVSync, renderer.PresentModeUncapped}
	assert.Equal(t, renderer.PresentModeUncapped, renderer.SelectPresentMode(supported, renderer.PresentModeUncapped))
	assert.Equal(t, renderer.PresentModeVSync, renderer.SelectPresentMode(supported, renderer.PresentModeMailbox))
	assert.Equal(t, renderer.PresentModeVSync, renderer.SelectPresentMode(nil, renderer.PresentModeUncapped))
}

func TestNewRendererConfiguresSurfaceAndDepth(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	r, err := renderer.NewRenderer(backend, 800, 600, renderer.WithPresentMode(renderer.PresentModeUncapped))
	require.NoError(t, err)

	cfg := backend.Surface()
	require.NotNil(t, cfg)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
	assert.True(t, cfg.Format.SRGB)
	assert.Equal(t, renderer.PresentModeUncapped, cfg.PresentMode)

	w, h := r.DepthSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.NotNil(t, r.Pipeline().RenderPipeline())
	assert.NotNil(t, r.OverlayPipeline().RenderPipeline())
	assert.False(t, r.OverlayPipeline().DepthTestEnabled())
	assert.Len(t, backend.Pipelines(), 2)
	assert.Equal(t, renderer.DefaultClearColor, r.ClearColor())
}

func TestNewRendererRejectsBadInput(t *testing.T) {
	_, err := renderer.NewRenderer(nil, 800, 600)
	assert.Error(t, err)

	_, err = renderer.NewRenderer(headless.NewHeadlessBackend(), 0, 600)
	assert.Error(t, err)

	_, err = renderer.NewRenderer(headless.NewHeadlessBackend(headless.WithSurfaceFormats()), 800, 600)
	var dre *device.DeviceResourceError
	assert.ErrorAs(t, err, &dre)
}

func TestResizeRebuildsDepthAndReleasesOld(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	r, err := renderer.NewRenderer(backend, 800, 600)
	require.NoError(t, err)

	require.NoError(t, r.Resize(400, 300))
	w, h := r.DepthSize()
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)
	sw, sh := r.SurfaceSize()
	assert.Equal(t, 400, sw)
	assert.Equal(t, 300, sh)

	depths := backend.DepthTextures()
	require.Len(t, depths, 2)
	assert.True(t, depths[0].Released())
	assert.False(t, depths[1].Released())
}

// depthFailingBackend fails every depth texture creation after the first allowed ones.
type depthFailingBackend struct {
	*headless.Backend
	allowed int
}

func (b *depthFailingBackend) CreateDepthTexture(width, height int, sampleCount uint32) (device.TextureView, error) {
	if b.allowed == 0 {
		return nil, device.ResourceError("create depth texture", "depth", device.ErrOutOfMemory)
	}
	b.allowed--
	return b.Backend.CreateDepthTexture(width, height, sampleCount)
}

func TestResizeKeepsSurfaceWhenDepthFails(t *testing.T) {
	backend := &depthFailingBackend{Backend: headless.NewHeadlessBackend(), allowed: 1}
	r, err := renderer.NewRenderer(backend, 800, 600)
	require.NoError(t, err)

	err = r.Resize(400, 300)
	assert.ErrorIs(t, err, device.ErrOutOfMemory)
	assert.Equal(t, 1, backend.ConfigureCount())

	sw, sh := r.SurfaceSize()
	dw, dh := r.DepthSize()
	assert.Equal(t, [2]int{800, 600}, [2]int{sw, sh})
	assert.Equal(t, [2]int{sw, sh}, [2]int{dw, dh})
	assert.Equal(t, 800, backend.Surface().Width)

	pass, err := r.BeginFrame()
	require.NoError(t, err)
	pass.SetPipeline(r.Pipeline().RenderPipeline())
	require.NoError(t, r.EndFrame())
	assert.Empty(t, backend.LastFrame().Errors)
}

func TestResizeIgnoresZeroArea(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	r, err := renderer.NewRenderer(backend, 800, 600)
	require.NoError(t, err)

	assert.NoError(t, r.Resize(0, 0))
	assert.NoError(t, r.Resize(0, 300))
	assert.Equal(t, 1, backend.ConfigureCount())
	w, h := r.DepthSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestFrameLifecycle(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	r, err := renderer.NewRenderer(backend, 320, 240)
	require.NoError(t, err)

	pass, err := r.BeginFrame()
	require.NoError(t, err)
	pass.SetPipeline(r.Pipeline().RenderPipeline())

	_, err = r.BeginFrame()
	assert.ErrorIs(t, err, renderer.ErrFrameState)

	require.NoError(t, r.EndFrame())
	r.Present()
	assert.ErrorIs(t, r.EndFrame(), renderer.ErrFrameState)

	frame := backend.LastFrame()
	require.NotNil(t, frame)
	assert.True(t, frame.Submitted)
	assert.True(t, frame.Presented)
	assert.Empty(t, frame.Errors)
	assert.Equal(t, float32(1.0), frame.Target.ClearDepth)
	assert.Equal(t, renderer.DefaultClearColor, frame.Target.ClearColor)
}

func TestBeginFrameSurfacesAcquisitionErrors(t *testing.T) {
	backend := headless.NewHeadlessBackend(headless.WithAcquireFailures(device.SurfaceLost))
	r, err := renderer.NewRenderer(backend, 320, 240)
	require.NoError(t, err)

	_, err = r.BeginFrame()
	assert.ErrorIs(t, err, device.ErrSurfaceLost)

	_, err = r.BeginFrame()
	assert.NoError(t, err)
}

func TestReleaseFreesEverything(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	r, err := renderer.NewRenderer(backend, 320, 240)
	require.NoError(t, err)
	require.NoError(t, r.Resize(640, 480))

	r.Release()
	r.Release()
	assert.Zero(t, backend.LiveResources())
	assert.Zero(t, backend.DoubleReleases())
	assert.True(t, backend.Released())
	assert.Error(t, r.Resize(10, 10))
}
