package engine

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/engine/profiler"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithLogger sets the logger used for frame skips, surface recovery, and fatal errors.
//
// Parameters:
//   - logger: the logger to use, nil keeps the default
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithWindow sets the host whose message loop Run drives.
//
// Parameters:
//   - host: the window, typically from window.NewWindow
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(host Host) EngineBuilderOption {
	return func(e *engine) {
		e.host = host
	}
}

// WithTickCallback registers the function called at the start of every frame.
//
// Parameters:
//   - callback: the tick function
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickCallback(callback TickFunc) EngineBuilderOption {
	return func(e *engine) {
		e.tick = callback
	}
}

// WithProfiling enables or disables the per-interval frame statistics summary.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler and enables profiling.
//
// Parameters:
//   - p: the profiler to tick each frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
		e.profilingEnabled = p != nil
	}
}

// WithFixedTimestep makes every frame report the same elapsed time instead of wall time.
// Non-positive values restore wall time.
//
// Parameters:
//   - step: the elapsed time reported per frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFixedTimestep(step time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.timestep = step
	}
}

// WithClock replaces the wall-time source.
//
// Parameters:
//   - now: the function returning the current time
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithFrameLimit caps the windowed loop at fps frames per second. Pass 0 to uncap (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.frameLimit = 0
			return
		}
		e.frameLimit = time.Duration(float64(time.Second) / fps)
	}
}
