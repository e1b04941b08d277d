package ui_element

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/headless"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/uniform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewElementDefaults(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	e, err := NewElement(backend, Config{})
	require.NoError(t, err)

	assert.NotEmpty(t, e.Label())
	assert.True(t, e.Enabled())
	assert.Equal(t, mgl32.Vec2{}, e.Position())
	assert.Equal(t, mgl32.Vec2{1, 1}, e.Scale())

	u := e.Uniform().Buffer().(*headless.Buffer)
	assert.Equal(t, mgl32.Ident4(), common.Mat4FromBytes(u.Contents()))
	assert.True(t, e.InstanceBuffer().Usage().Has(device.BufferUsageVertex))

	mat := e.Quad().Materials()[0]
	assert.Equal(t, []byte{255, 255, 255, 255}, mat.BindGroup().(*headless.BindGroup).Texture.Pixels)
}

func TestUpdateWritesScreenTransform(t *testing.T) {
	e, err := NewElement(headless.NewHeadlessBackend(), Config{Label: "hud"})
	require.NoError(t, err)

	e.SetPosition(mgl32.Vec2{0.5, -0.25})
	e.SetScale(mgl32.Vec2{0.25, 0.75})
	u := e.Uniform().Buffer().(*headless.Buffer)
	assert.Equal(t, mgl32.Ident4(), common.Mat4FromBytes(u.Contents()), "setters do not upload")

	require.NoError(t, e.Update())
	want := mgl32.Translate3D(0.5, -0.25, 1).Mul4(mgl32.Scale3D(0.25, 0.75, 1))
	assert.Equal(t, want, e.Matrix())
	assert.Equal(t, want, common.Mat4FromBytes(u.Contents()))

	// the quad corner (1, 1) lands at the scaled, shifted corner
	corner := e.Matrix().Mul4x1(mgl32.Vec4{1, 1, 0, 1})
	assert.InDelta(t, 0.75, corner.X(), 1e-6)
	assert.InDelta(t, 0.5, corner.Y(), 1e-6)
	assert.InDelta(t, 1.0, corner.Z(), 1e-6)
}

func TestNewElementUsesTexture(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	tex := common.TextureStagingData{Pixels: []byte{1, 2, 3, 4, 5, 6, 7, 8}, Width: 2, Height: 1}
	e, err := NewElement(backend, Config{Label: "icon", Texture: &tex})
	require.NoError(t, err)
	assert.Equal(t, tex.Pixels, e.Quad().Materials()[0].BindGroup().(*headless.BindGroup).Texture.Pixels)

	bad := common.TextureStagingData{Pixels: []byte{1}, Width: 2, Height: 2}
	_, err = NewElement(backend, Config{Label: "broken", Texture: &bad})
	var mle *model.ModelLoadError
	assert.ErrorAs(t, err, &mle)
}

func TestReleaseFreesElement(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	e, err := NewElement(backend, Config{})
	require.NoError(t, err)

	e.Release()
	e.Release()
	assert.Zero(t, backend.LiveResources())
	assert.Zero(t, backend.DoubleReleases())
	assert.Error(t, e.Update())
}

func TestDrawElementBindsScreenCamera(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	r, err := renderer.NewRenderer(backend, 320, 240)
	require.NoError(t, err)
	screen, err := uniform.NewUniformResource(backend, "screen", uniform.IdentityMatrix())
	require.NoError(t, err)
	e, err := NewElement(backend, Config{Label: "hud"})
	require.NoError(t, err)

	pass, err := r.BeginFrame()
	require.NoError(t, err)
	pass.SetPipeline(r.OverlayPipeline().RenderPipeline())
	assert.Equal(t, 1, DrawElement(pass, e, screen.BindGroup()))
	require.NoError(t, r.EndFrame())

	frame := backend.LastFrame()
	assert.Empty(t, frame.Errors)
	require.Len(t, frame.Draws, 1)
	draw := frame.Draws[0]
	assert.Equal(t, uint32(6), draw.IndexCount)
	assert.Equal(t, uint32(1), draw.InstanceCount)
	assert.Same(t, screen.BindGroup(), draw.BindGroups[pipeline.GroupCamera])
	assert.Same(t, e.Uniform().BindGroup(), draw.BindGroups[pipeline.GroupObject])
}
