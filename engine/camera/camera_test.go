package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/headless"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clipDepth(vp mgl32.Mat4, p mgl32.Vec3) float32 {
	clip := vp.Mul4x1(p.Vec4(1))
	return clip.Z() / clip.W()
}

func TestNewCameraStartsWithIdentity(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	c, err := NewCamera(backend, WithEye(mgl32.Vec3{0, 0, 6}))
	require.NoError(t, err)

	assert.Equal(t, mgl32.Ident4(), c.ViewProjection())
	buf := c.Uniform().Buffer().(*headless.Buffer)
	assert.Equal(t, mgl32.Ident4(), common.Mat4FromBytes(buf.Contents()))
	assert.Equal(t, uint64(64), buf.Size())
}

func TestUpdateIsDeterministic(t *testing.T) {
	c, err := NewCamera(headless.NewHeadlessBackend())
	require.NoError(t, err)

	require.NoError(t, c.Update())
	first := c.ViewProjection()
	require.NoError(t, c.Update())
	assert.Equal(t, first, c.ViewProjection())
	assert.NotEqual(t, mgl32.Ident4(), first)
}

func TestPerspectiveMapsNearAndFarToUnitDepth(t *testing.T) {
	c, err := NewCamera(headless.NewHeadlessBackend(),
		WithEye(mgl32.Vec3{0, 0, 7.5}),
		WithTarget(mgl32.Vec3{}),
		WithUp(mgl32.Vec3{0, 1, 0}),
		WithAspect(1),
		WithProjection(Perspective(45)),
		WithNear(0.1),
		WithFar(100),
	)
	require.NoError(t, err)
	require.NoError(t, c.Update())

	vp := c.ViewProjection()
	assert.InDelta(t, 0.0, clipDepth(vp, mgl32.Vec3{0, 0, 7.5 - 0.1}), 1e-3)
	assert.InDelta(t, 1.0, clipDepth(vp, mgl32.Vec3{0, 0, 7.5 - 100}), 1e-3)
	assert.InDelta(t, 0.5, clipDepth(vp, mgl32.Vec3{0, 0, 7.5 - 0.2}), 1e-2)

	// the origin sits inside the frustum, in front of the camera
	d := clipDepth(vp, mgl32.Vec3{})
	assert.Greater(t, d, float32(0))
	assert.Less(t, d, float32(1))
}

func TestUpdateWritesUniform(t *testing.T) {
	c, err := NewCamera(headless.NewHeadlessBackend())
	require.NoError(t, err)
	require.NoError(t, c.Update())

	buf := c.Uniform().Buffer().(*headless.Buffer)
	assert.Equal(t, c.ViewProjection(), common.Mat4FromBytes(buf.Contents()))
	assert.Equal(t, c.ProjectionMatrix().Mul4(c.ViewMatrix()), c.ViewProjection())
}

func TestSettersTakeEffectOnUpdate(t *testing.T) {
	c, err := NewCamera(headless.NewHeadlessBackend())
	require.NoError(t, err)
	require.NoError(t, c.Update())
	before := c.ViewProjection()

	c.SetAspect(400.0 / 300.0)
	c.SetEye(mgl32.Vec3{1, 2, 10})
	assert.Equal(t, float32(400.0/300.0), c.Aspect())
	assert.Equal(t, before, c.ViewProjection())

	require.NoError(t, c.Update())
	assert.NotEqual(t, before, c.ViewProjection())
}

func TestUpdateRejectsInvalidSetters(t *testing.T) {
	c, err := NewCamera(headless.NewHeadlessBackend())
	require.NoError(t, err)
	require.NoError(t, c.Update())
	good := c.ViewProjection()
	buf := c.Uniform().Buffer().(*headless.Buffer)

	c.SetEye(c.Target())
	assert.Error(t, c.Update())
	assert.Equal(t, good, c.ViewProjection())
	assert.Equal(t, good, common.Mat4FromBytes(buf.Contents()))

	c.SetEye(mgl32.Vec3{0, 0, 7.5})
	c.SetAspect(0)
	assert.Error(t, c.Update())
	assert.Equal(t, good, common.Mat4FromBytes(buf.Contents()))

	c.SetAspect(1)
	require.NoError(t, c.Update())
	assert.Equal(t, good, c.ViewProjection())
}

func TestOrthographicUsesUnitBox(t *testing.T) {
	c, err := NewCamera(headless.NewHeadlessBackend(),
		WithEye(mgl32.Vec3{0, 0, 5}),
		WithProjection(Orthographic()),
		WithNear(1),
		WithFar(9),
	)
	require.NoError(t, err)
	require.NoError(t, c.Update())

	vp := c.ViewProjection()
	assert.InDelta(t, 0.0, clipDepth(vp, mgl32.Vec3{0, 0, 4}), 1e-5)
	assert.InDelta(t, 1.0, clipDepth(vp, mgl32.Vec3{0, 0, -4}), 1e-5)
	corner := vp.Mul4x1(mgl32.Vec4{1, 1, 0, 1})
	assert.InDelta(t, 1.0, corner.X(), 1e-5)
	assert.InDelta(t, 1.0, corner.Y(), 1e-5)
}

func TestNewCameraRejectsInvalidParameters(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	for name, opts := range map[string][]CameraBuilderOption{
		"zero aspect":    {WithAspect(0)},
		"near past far":  {WithNear(10), WithFar(1)},
		"zero near":      {WithNear(0)},
		"bad fov":        {WithProjection(Perspective(180))},
		"eye at target":  {WithEye(mgl32.Vec3{}), WithTarget(mgl32.Vec3{})},
		"zero up vector": {WithUp(mgl32.Vec3{})},
		"up along view":  {WithUp(mgl32.Vec3{0, 0, 1})},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewCamera(backend, opts...)
			assert.Error(t, err)
		})
	}
	assert.Zero(t, backend.LiveResources())
}

func TestLabelsAreUnique(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	a, err := NewCamera(backend)
	require.NoError(t, err)
	b, err := NewCamera(backend)
	require.NoError(t, err)
	assert.NotEqual(t, a.Label(), b.Label())

	named, err := NewCamera(backend, WithLabel("main"))
	require.NoError(t, err)
	assert.Equal(t, "main", named.Label())
}
