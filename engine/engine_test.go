package engine

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/profiler"
	"github.com/Carmen-Shannon/oxy-scene/engine/render_object"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/headless"
	"github.com/Carmen-Shannon/oxy-scene/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newTestScene(t *testing.T, backend *headless.Backend) scene.Scene {
	t.Helper()
	s, err := scene.NewScene("engine", backend, 800, 600, scene.WithLogger(quietLogger()), scene.WithLoaderWorkers(1))
	require.NoError(t, err)
	models, err := s.LoadModels(model.Cube("cube", 1, [4]float32{1, 1, 1, 1}))
	require.NoError(t, err)
	_, err = s.AddObject(models[0], render_object.Config{Label: "cube"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

type fakeHost struct {
	update     func()
	resize     func(width, height int)
	iterations int
	resizeAt   map[int][2]int
	closed     bool
	ran        int
}

func (h *fakeHost) SetUpdateCallback(callback func())                  { h.update = callback }
func (h *fakeHost) SetResizeCallback(callback func(width, height int)) { h.resize = callback }
func (h *fakeHost) RequestClose()                                      { h.closed = true }

func (h *fakeHost) ProcessMessages() {
	for i := 0; i < h.iterations && !h.closed; i++ {
		if size, ok := h.resizeAt[i]; ok {
			h.resize(size[0], size[1])
		}
		h.update()
		h.ran++
	}
}

func TestRunFramesTicksUpdatesAndRenders(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	s := newTestScene(t, backend)

	ticks := 0
	e, err := NewEngine(s,
		WithLogger(quietLogger()),
		WithFixedTimestep(10*time.Millisecond),
		WithTickCallback(func(sc scene.Scene, elapsed time.Duration) error {
			ticks++
			assert.Equal(t, 10*time.Millisecond, elapsed)
			return nil
		}),
	)
	require.NoError(t, err)

	require.NoError(t, e.RunFrames(5))
	assert.Equal(t, 5, ticks)
	assert.Equal(t, uint64(5), e.Frames())
	assert.Equal(t, 50*time.Millisecond, s.Time())
	assert.Equal(t, 5, backend.Presents())
}

func TestWallClockElapsed(t *testing.T) {
	s := newTestScene(t, headless.NewHeadlessBackend())
	clock := &stepClock{t: time.Unix(0, 0), step: 16 * time.Millisecond}

	e, err := NewEngine(s, WithLogger(quietLogger()), WithClock(clock.now))
	require.NoError(t, err)

	require.NoError(t, e.RunFrames(3))
	assert.Equal(t, 32*time.Millisecond, s.Time())
}

func TestRecoverableSurfaceStatusReconfigures(t *testing.T) {
	for _, status := range []device.SurfaceStatus{device.SurfaceLost, device.SurfaceOutdated} {
		t.Run(status.String(), func(t *testing.T) {
			backend := headless.NewHeadlessBackend(headless.WithAcquireFailures(status))
			s := newTestScene(t, backend)
			configured := backend.ConfigureCount()

			e, err := NewEngine(s, WithLogger(quietLogger()))
			require.NoError(t, err)

			require.NoError(t, e.RunFrames(3))
			assert.Equal(t, uint64(3), e.Frames(), "the lost frame is retried after reconfiguring")
			assert.Zero(t, e.Skipped())
			assert.Equal(t, configured+1, backend.ConfigureCount())
			assert.Equal(t, 3, backend.Presents())

			w, h := s.Size()
			assert.Equal(t, 800, w)
			assert.Equal(t, 600, h)
		})
	}
}

func TestRepeatedSurfaceLossSkipsFrame(t *testing.T) {
	backend := headless.NewHeadlessBackend(headless.WithAcquireFailures(device.SurfaceLost, device.SurfaceOutdated))
	s := newTestScene(t, backend)
	configured := backend.ConfigureCount()

	e, err := NewEngine(s, WithLogger(quietLogger()))
	require.NoError(t, err)

	require.NoError(t, e.RunFrames(3))
	assert.Equal(t, uint64(2), e.Frames())
	assert.Equal(t, uint64(1), e.Skipped())
	assert.Equal(t, configured+2, backend.ConfigureCount())
	assert.Equal(t, 2, backend.Presents())
}

func TestTimeoutSkipsFrameWithoutReconfigure(t *testing.T) {
	backend := headless.NewHeadlessBackend(headless.WithAcquireFailures(device.SurfaceTimeout, device.SurfaceOther))
	s := newTestScene(t, backend)
	configured := backend.ConfigureCount()

	e, err := NewEngine(s, WithLogger(quietLogger()))
	require.NoError(t, err)

	require.NoError(t, e.RunFrames(4))
	assert.Equal(t, uint64(2), e.Frames())
	assert.Equal(t, uint64(2), e.Skipped())
	assert.Equal(t, configured, backend.ConfigureCount())
}

func TestSurfaceOutOfMemoryStopsEngine(t *testing.T) {
	backend := headless.NewHeadlessBackend(headless.WithAcquireFailures(device.SurfaceOutOfMemory))
	s := newTestScene(t, backend)

	e, err := NewEngine(s, WithLogger(quietLogger()))
	require.NoError(t, err)

	err = e.RunFrames(5)
	require.Error(t, err)
	assert.ErrorIs(t, err, device.ErrSurfaceOutOfMemory)
	assert.Zero(t, e.Frames())

	// the engine stays stopped
	assert.ErrorIs(t, e.Frame(), device.ErrSurfaceOutOfMemory)
	assert.Zero(t, backend.Presents())
}

func TestTickErrorStopsEngine(t *testing.T) {
	s := newTestScene(t, headless.NewHeadlessBackend())
	boom := errors.New("boom")

	n := 0
	e, err := NewEngine(s, WithLogger(quietLogger()), WithTickCallback(func(scene.Scene, time.Duration) error {
		n++
		if n == 3 {
			return boom
		}
		return nil
	}))
	require.NoError(t, err)

	err = e.RunFrames(10)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(2), e.Frames())
}

func TestStopFromTick(t *testing.T) {
	s := newTestScene(t, headless.NewHeadlessBackend())

	var e Engine
	e, err := NewEngine(s, WithLogger(quietLogger()), WithTickCallback(func(scene.Scene, time.Duration) error {
		if e.Frames() == 2 {
			e.Stop()
		}
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, e.RunFrames(10))
	assert.Equal(t, uint64(3), e.Frames())
}

func TestRunWithoutHost(t *testing.T) {
	s := newTestScene(t, headless.NewHeadlessBackend())
	e, err := NewEngine(s, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.ErrorIs(t, e.Run(), ErrNoHost)
}

func TestRunForwardsResizes(t *testing.T) {
	backend := headless.NewHeadlessBackend()
	s := newTestScene(t, backend)
	host := &fakeHost{
		iterations: 8,
		resizeAt: map[int][2]int{
			2: {400, 300},
			4: {0, 0},
			6: {640, 480},
		},
	}

	e, err := NewEngine(s, WithLogger(quietLogger()), WithWindow(host))
	require.NoError(t, err)

	require.NoError(t, e.Run())
	assert.Equal(t, 8, host.ran)
	// iterations 4 and 5 are minimized
	assert.Equal(t, uint64(6), e.Frames())
	assert.Equal(t, 6, backend.Presents())

	w, h := s.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	dw, dh := s.DepthBufferSize()
	assert.Equal(t, 640, dw)
	assert.Equal(t, 480, dh)
	assert.InDelta(t, 640.0/480.0, s.Camera().Aspect(), 1e-6)
}

func TestRunStopsHostOnFatalError(t *testing.T) {
	backend := headless.NewHeadlessBackend(headless.WithAcquireFailures(device.SurfaceOutOfMemory))
	s := newTestScene(t, backend)
	host := &fakeHost{iterations: 5}

	e, err := NewEngine(s, WithLogger(quietLogger()), WithWindow(host))
	require.NoError(t, err)

	assert.ErrorIs(t, e.Run(), device.ErrSurfaceOutOfMemory)
	assert.True(t, host.closed)
	assert.Equal(t, 1, host.ran)
}

func TestProfilerReceivesDrawStats(t *testing.T) {
	s := newTestScene(t, headless.NewHeadlessBackend())
	clock := &stepClock{t: time.Unix(0, 0), step: time.Second}
	p := profiler.NewProfiler(profiler.WithLogger(quietLogger()), profiler.WithClock(clock.now))

	e, err := NewEngine(s, WithLogger(quietLogger()), WithProfiler(p))
	require.NoError(t, err)

	require.NoError(t, e.RunFrames(1))
	assert.InDelta(t, 1.0, p.Last().DrawCalls, 1e-9)
	assert.InDelta(t, 1.0, p.Last().Instances, 1e-9)
}

func TestNewEngineRejectsNilScene(t *testing.T) {
	_, err := NewEngine(nil)
	assert.Error(t, err)
}
