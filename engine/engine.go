package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/engine/profiler"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-scene/engine/scene"
)

// ErrNoHost is returned by Run when the engine has no window to drive it.
var ErrNoHost = errors.New("engine has no window host")

// TickFunc runs once per frame before the scene is updated. It receives the scene and the time since the last frame.
// A returned error stops the engine.
type TickFunc func(s scene.Scene, elapsed time.Duration) error

// Host is the message loop the engine runs on. window.Window satisfies it.
type Host interface {
	SetUpdateCallback(callback func())
	SetResizeCallback(callback func(width, height int))
	ProcessMessages()
	RequestClose()
}

// engine implements the Engine interface.
// Everything runs on the calling goroutine: tick, update, render, and resize handling.
type engine struct {
	scene  scene.Scene
	host   Host
	logger *slog.Logger

	tick TickFunc

	profiler         *profiler.Profiler
	profilingEnabled bool

	now       func() time.Time
	timestep  time.Duration
	lastFrame time.Time

	frameLimit time.Duration // minimum frame duration; 0 = uncapped

	frames  uint64
	skipped uint64

	stopped bool
	err     error
}

// Engine drives a scene frame by frame and applies the surface error policy.
//
// Each frame runs the tick callback, then Scene.Update, then Scene.Render. A lost or outdated surface is
// reconfigured at the last known size and the render is retried once; if the retry fails the same way the frame is
// skipped. Surface out-of-memory stops the engine with the
// error. Any other surface status skips the frame. Every other error stops the engine.
type Engine interface {
	// Scene returns the scene the engine drives.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// SetTickCallback registers the function called at the start of every frame.
	//
	// Parameters:
	//   - callback: the tick function, nil to disable
	SetTickCallback(callback TickFunc)

	// Frame runs a single frame.
	//
	// Returns:
	//   - error: the fatal error that stopped the engine, nil if the frame rendered, was skipped, or recovered
	Frame() error

	// RunFrames runs up to n frames without a window, stopping early on a fatal error or Stop.
	//
	// Parameters:
	//   - n: the number of frames to run
	//
	// Returns:
	//   - error: the fatal error that stopped the engine, or nil
	RunFrames(n int) error

	// Run drives frames from the host message loop until the window closes, Stop is called, or a fatal error occurs.
	// Window resizes are forwarded to Scene.Resize.
	//
	// Returns:
	//   - error: ErrNoHost without a window, else the fatal error that stopped the engine, or nil
	Run() error

	// Stop ends the loop after the current frame. Safe to call from the tick callback.
	Stop()

	// Frames returns the number of frames rendered.
	//
	// Returns:
	//   - uint64: the rendered frame count, skipped frames excluded
	Frames() uint64

	// Skipped returns the number of frames skipped because the surface could not be acquired.
	//
	// Returns:
	//   - uint64: the skipped frame count
	Skipped() uint64
}

var _ Engine = &engine{}

// NewEngine creates an Engine driving s.
//
// Parameters:
//   - s: the scene to drive
//   - options: functional options for engine configuration (window, tick callback, profiling, timing)
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if s is nil
func NewEngine(s scene.Scene, options ...EngineBuilderOption) (Engine, error) {
	if s == nil {
		return nil, errors.New("engine scene is nil")
	}
	e := &engine{
		scene:  s,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	return e, nil
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) SetTickCallback(callback TickFunc) {
	e.tick = callback
}

func (e *engine) Frames() uint64 {
	return e.frames
}

func (e *engine) Skipped() uint64 {
	return e.skipped
}

func (e *engine) Stop() {
	e.stopped = true
	if e.host != nil {
		e.host.RequestClose()
	}
}

func (e *engine) RunFrames(n int) error {
	for i := 0; i < n && !e.stopped; i++ {
		if err := e.Frame(); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) Run() error {
	if e.host == nil {
		return ErrNoHost
	}
	e.host.SetResizeCallback(func(width, height int) {
		if err := e.scene.Resize(width, height); err != nil {
			e.fail(fmt.Errorf("resize: %w", err))
		}
	})
	e.host.SetUpdateCallback(func() {
		if e.stopped {
			return
		}
		start := e.now()
		if err := e.Frame(); err != nil {
			return
		}
		if e.frameLimit > 0 {
			if remaining := e.frameLimit - e.now().Sub(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	})
	e.host.ProcessMessages()
	return e.err
}

func (e *engine) Frame() error {
	if e.err != nil {
		return e.err
	}
	elapsed := e.elapsed()

	if e.tick != nil {
		if err := e.tick(e.scene, elapsed); err != nil {
			return e.fail(fmt.Errorf("tick: %w", err))
		}
	}
	if err := e.scene.Update(elapsed); err != nil {
		return e.fail(fmt.Errorf("update: %w", err))
	}

	stats, err := e.scene.Render()
	if errors.Is(err, device.ErrSurfaceLost) {
		// reconfigure with the last known size and retry the frame once
		if rerr := e.reconfigure(err); rerr != nil {
			return rerr
		}
		stats, err = e.scene.Render()
	}
	if err != nil {
		return e.handleRenderError(err)
	}
	if e.scene.Minimized() {
		return nil
	}

	e.frames++
	if e.profilingEnabled {
		e.profiler.Tick(stats.DrawCalls, stats.Instances)
	}
	return nil
}

// elapsed returns the fixed timestep when one is configured, else the wall time since the previous frame.
// The first frame reports zero.
func (e *engine) elapsed() time.Duration {
	if e.timestep > 0 {
		return e.timestep
	}
	now := e.now()
	if e.lastFrame.IsZero() {
		e.lastFrame = now
		return 0
	}
	d := now.Sub(e.lastFrame)
	e.lastFrame = now
	return d
}

func (e *engine) handleRenderError(err error) error {
	var sae *device.SurfaceAcquisitionError
	switch {
	case errors.Is(err, device.ErrSurfaceLost):
		// the retry was lost too, the next frame tries again on the fresh configuration
		e.skipped++
		return e.reconfigure(err)
	case errors.Is(err, device.ErrSurfaceOutOfMemory):
		return e.fail(fmt.Errorf("render: %w", err))
	case errors.As(err, &sae):
		e.logger.Warn("frame skipped", "status", sae.Status.String(), "error", err)
		e.skipped++
		return nil
	default:
		return e.fail(fmt.Errorf("render: %w", err))
	}
}

// reconfigure resizes the scene to its last known size after a lost or outdated surface.
func (e *engine) reconfigure(cause error) error {
	width, height := e.scene.Size()
	e.logger.Warn("surface lost, reconfiguring", "error", cause, "width", width, "height", height)
	if err := e.scene.Resize(width, height); err != nil {
		return e.fail(fmt.Errorf("reconfigure after surface loss: %w", err))
	}
	return nil
}

// fail records the first fatal error and stops the loop.
func (e *engine) fail(err error) error {
	if e.err == nil {
		e.err = err
		e.logger.Error("engine stopped", "error", err, "frames", e.frames)
	}
	e.Stop()
	return e.err
}
