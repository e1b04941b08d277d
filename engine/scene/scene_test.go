package scene

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/render_object"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/headless"
	"github.com/Carmen-Shannon/oxy-scene/engine/transform"
	"github.com/Carmen-Shannon/oxy-scene/engine/ui_element"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T, backend *headless.Backend, options ...SceneBuilderOption) Scene {
	t.Helper()
	s, err := NewScene("test", backend, 800, 600, append([]SceneBuilderOption{WithLoaderWorkers(2)}, options...)...)
	require.NoError(t, err)
	require.Equal(t, StateReady, s.State())
	return s
}

func addCube(t *testing.T, s Scene, cfg render_object.Config) render_object.RenderObject {
	t.Helper()
	models, err := s.LoadModels(model.Cube("cube", 1, [4]float32{1, 0, 0, 1}))
	require.NoError(t, err)
	obj, err := s.AddObject(models[0], cfg)
	require.NoError(t, err)
	return obj
}

func TestEndToEndFrame(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	s := newTestScene(t, backend, WithCameraOptions(camera.WithEye(mgl32.Vec3{0, 0, 6})))
	obj := addCube(t, s, render_object.Config{})

	require.NoError(t, s.Update(0))
	stats, err := s.Render()
	require.NoError(t, err)

	u := obj.Uniform().Buffer().(*headless.Buffer)
	assert.Equal(t, mgl32.Ident4(), common.Mat4FromBytes(u.Contents()))
	assert.Equal(t, RenderStats{Objects: 1, DrawCalls: 1, Instances: 1}, stats)

	frame := backend.LastFrame()
	require.NotNil(t, frame)
	assert.Empty(t, frame.Errors)
	assert.True(t, frame.Submitted)
	assert.True(t, frame.Presented)
	assert.Equal(t, float32(1), frame.Target.ClearDepth)
	require.Len(t, frame.Draws, 1)
	assert.Equal(t, uint32(1), frame.Draws[0].InstanceCount)

	cam := s.Camera().Uniform().Buffer().(*headless.Buffer)
	assert.Equal(t, s.Camera().ViewProjection(), common.Mat4FromBytes(cam.Contents()))
	assert.NotEqual(t, mgl32.Ident4(), s.Camera().ViewProjection())
}

func TestRenderDrawsInCollectionOrder(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	s := newTestScene(t, backend)
	a := addCube(t, s, render_object.Config{Label: "a"})
	b := addCube(t, s, render_object.Config{Label: "b", Instances: transform.Grid(2, mgl32.Vec3{})})
	hidden := addCube(t, s, render_object.Config{Label: "hidden"})
	hidden.SetEnabled(false)

	require.NoError(t, s.Update(16*time.Millisecond))
	stats, err := s.Render()
	require.NoError(t, err)
	assert.Equal(t, RenderStats{Objects: 2, DrawCalls: 2, Instances: 9}, stats)
	assert.Equal(t, stats, s.Stats())

	draws := backend.LastFrame().Draws
	require.Len(t, draws, 2)
	assert.Same(t, a.BindGroup(), draws[0].BindGroups[2])
	assert.Same(t, b.BindGroup(), draws[1].BindGroups[2])
	assert.Equal(t, uint32(8), draws[1].InstanceCount)
}

func TestResizeSequence(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	s := newTestScene(t, backend)

	require.NoError(t, s.Resize(800, 600))
	require.NoError(t, s.Resize(400, 300))

	assert.Equal(t, float32(400)/float32(300), s.Camera().Aspect())
	w, h := s.DepthBufferSize()
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)
	w, h = s.Size()
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)

	require.NoError(t, s.Update(0))
	_, err := s.Render()
	require.NoError(t, err)
	assert.Equal(t, 400, backend.LastFrame().Width)
}

func TestZeroResizeIsGuarded(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	s := newTestScene(t, backend)
	addCube(t, s, render_object.Config{})

	assert.NotPanics(t, func() {
		require.NoError(t, s.Resize(0, 0))
	})
	assert.True(t, s.Minimized())
	w, h := s.DepthBufferSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, float32(800)/float32(600), s.Camera().Aspect())

	require.NoError(t, s.Update(0))
	stats, err := s.Render()
	require.NoError(t, err)
	assert.Zero(t, stats)
	assert.Empty(t, backend.Frames())

	require.NoError(t, s.Resize(640, 480))
	assert.False(t, s.Minimized())
	w, h = s.DepthBufferSize()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	require.NoError(t, s.Update(0))
	_, err = s.Render()
	require.NoError(t, err)
	assert.Empty(t, backend.LastFrame().Errors)
}

func TestSurfaceLostIsRecoverable(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	s := newTestScene(t, backend)
	addCube(t, s, render_object.Config{})
	require.NoError(t, s.Update(0))

	backend.FailNextAcquire(device.SurfaceLost)
	_, err := s.Render()
	require.Error(t, err)
	assert.True(t, errors.Is(err, device.ErrSurfaceLost))

	var sae *device.SurfaceAcquisitionError
	require.True(t, errors.As(err, &sae))
	assert.True(t, sae.Recoverable())

	w, h := s.Size()
	require.NoError(t, s.Resize(w, h))
	_, err = s.Render()
	require.NoError(t, err)
	assert.Equal(t, 1, backend.Presents())
}

func TestSurfaceOutOfMemoryIsFatal(t *testing.T) {
	backend := headless.NewHeadlessBackend(headless.WithAcquireFailures(device.SurfaceOutOfMemory))
	s := newTestScene(t, backend)

	_, err := s.Render()
	require.Error(t, err)
	assert.True(t, errors.Is(err, device.ErrSurfaceOutOfMemory))
	assert.False(t, errors.Is(err, device.ErrSurfaceLost))
	assert.Zero(t, backend.Presents())
}

func TestObjectLookupAndRemoval(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	s := newTestScene(t, backend)
	obj := addCube(t, s, render_object.Config{Label: "crate"})

	assert.Same(t, obj, s.Object("crate"))
	assert.Nil(t, s.Object("missing"))

	_, err := s.AddObject(obj.Model(), render_object.Config{Label: "crate"})
	assert.True(t, errors.Is(err, ErrDuplicateLabel))
	assert.Len(t, s.Objects(), 1)

	assert.True(t, s.RemoveObject("crate"))
	assert.False(t, s.RemoveObject("crate"))
	assert.Empty(t, s.Objects())
	assert.True(t, obj.InstanceBuffer().(*headless.Buffer).Released())
}

func TestAddObjectRejectsGeneratedLabelCollision(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	s := newTestScene(t, backend)
	first := addCube(t, s, render_object.Config{})

	// the second object takes the next id, so the third generated label is two ahead of the first
	taken := "render_object_" + strconv.FormatUint(first.ID()+2, 10)
	addCube(t, s, render_object.Config{Label: taken})
	live := backend.LiveResources()

	_, err := s.AddObject(first.Model(), render_object.Config{})
	assert.ErrorIs(t, err, ErrDuplicateLabel)
	assert.Len(t, s.Objects(), 2)
	assert.Equal(t, live, backend.LiveResources())
}

func TestElementsDrawOverObjects(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	s := newTestScene(t, backend)
	addCube(t, s, render_object.Config{Label: "crate"})
	pos := mgl32.Vec2{-0.75, 0.5}
	scale := mgl32.Vec2{0.25, 0.5}
	hud, err := s.AddElement(ui_element.Config{Label: "hud", Position: &pos, Scale: &scale})
	require.NoError(t, err)
	hidden, err := s.AddElement(ui_element.Config{Label: "hidden"})
	require.NoError(t, err)
	hidden.SetEnabled(false)

	_, err = s.AddElement(ui_element.Config{Label: "hud"})
	assert.ErrorIs(t, err, ErrDuplicateLabel)
	assert.Same(t, hud, s.Element("hud"))
	assert.Len(t, s.Elements(), 2)

	require.NoError(t, s.Update(0))
	stats, err := s.Render()
	require.NoError(t, err)
	assert.Equal(t, RenderStats{Objects: 1, DrawCalls: 2, Instances: 2, Elements: 1}, stats)

	frame := backend.LastFrame()
	assert.Empty(t, frame.Errors)
	require.Len(t, frame.Draws, 2)
	assert.True(t, frame.Draws[0].Pipeline.Description.DepthTestEnabled())
	overlay := frame.Draws[1]
	assert.False(t, overlay.Pipeline.Description.DepthTestEnabled())
	assert.Equal(t, mgl32.Ident4(), common.Mat4FromBytes(overlay.BindGroups[1].Buffer.Contents()))
	assert.Same(t, hud.Uniform().BindGroup(), overlay.BindGroups[2])

	want := mgl32.Translate3D(-0.75, 0.5, 1).Mul4(mgl32.Scale3D(0.25, 0.5, 1))
	assert.Equal(t, want, common.Mat4FromBytes(hud.Uniform().Buffer().(*headless.Buffer).Contents()))

	assert.True(t, s.RemoveElement("hud"))
	assert.False(t, s.RemoveElement("hud"))
	assert.Nil(t, s.Element("hud"))
	assert.True(t, hud.Uniform().Buffer().(*headless.Buffer).Released())
}

func TestUpdateAccumulatesTime(t *testing.T) {
	s := newTestScene(t, headless.NewHeadlessBackend())
	require.NoError(t, s.Update(10*time.Millisecond))
	require.NoError(t, s.Update(15*time.Millisecond))
	assert.Equal(t, 25*time.Millisecond, s.Time())
}

func TestCloseReleasesEverything(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	s := newTestScene(t, backend)
	addCube(t, s, render_object.Config{Instances: transform.Grid(3, mgl32.Vec3{1, 1, 1})})
	_, err := s.AddElement(ui_element.Config{Label: "hud"})
	require.NoError(t, err)
	require.NoError(t, s.Update(0))
	_, err = s.Render()
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.Equal(t, StateClosed, s.State())
	assert.Zero(t, backend.LiveResources())
	assert.Zero(t, backend.DoubleReleases())
	assert.True(t, backend.Released())

	assert.ErrorIs(t, s.Close(), ErrSceneClosed)
	assert.ErrorIs(t, s.Update(0), ErrSceneClosed)
	assert.ErrorIs(t, s.Resize(10, 10), ErrSceneClosed)
	_, err = s.Render()
	assert.ErrorIs(t, err, ErrSceneClosed)
	_, err = s.LoadModels(model.Quad("quad", [4]float32{1, 1, 1, 1}))
	assert.ErrorIs(t, err, ErrSceneClosed)
	_, err = s.AddElement(ui_element.Config{})
	assert.ErrorIs(t, err, ErrSceneClosed)
}

func TestNewSceneReleasesBackendOnFailure(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	_, err := NewScene("broken", backend, 0, 600)
	require.Error(t, err)
	assert.True(t, backend.Released())

	backend = headless.NewHeadlessBackend()
	_, err = NewScene("broken", backend, 800, 600, WithCameraOptions(camera.WithNear(5), camera.WithFar(1)))
	require.Error(t, err)
	assert.True(t, backend.Released())
	assert.Zero(t, backend.LiveResources())
}
