package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Profiler tracks frame rate, draw calls, and memory statistics for performance monitoring.
// Logs a summary through slog at a configurable interval.
type Profiler struct {
	logger         *slog.Logger
	now            func() time.Time
	updateInterval time.Duration

	frameCount int
	drawCalls  int
	instances  int
	lastTime   time.Time

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	last Summary
}

// Summary is the set of statistics logged at the end of an interval.
type Summary struct {
	// FPS is the number of frames per second over the interval.
	FPS float64
	// FrameTime is the mean frame duration over the interval.
	FrameTime time.Duration
	// DrawCalls is the mean number of draw calls per frame.
	DrawCalls float64
	// Instances is the mean number of drawn instances per frame.
	Instances float64
	// HeapMB is the live heap size in megabytes.
	HeapMB float64
	// AllocRateMB is the heap allocation rate in megabytes per second.
	AllocRateMB float64
	// GCCount is the cumulative number of completed GC cycles.
	GCCount uint32
	// MaxPause is the longest GC pause observed during the interval.
	MaxPause time.Duration
}

// NewProfiler creates a new Profiler with the provided options.
// Update interval defaults to 1 second, the logger to slog.Default().
//
// Parameters:
//   - options: a variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		logger:         slog.Default(),
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame with the frame's draw statistics.
// Logs a summary when the update interval has elapsed.
//
// Parameters:
//   - drawCalls: the number of draw calls issued by the frame
//   - instances: the number of instances drawn by the frame
//
// Returns:
//   - bool: true if a summary was logged this tick, false otherwise
func (p *Profiler) Tick(drawCalls, instances int) bool {
	p.frameCount++
	p.drawCalls += drawCalls
	p.instances += instances

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	frames := float64(p.frameCount)

	s := Summary{
		FPS:         frames / elapsed.Seconds(),
		FrameTime:   elapsed / time.Duration(p.frameCount),
		DrawCalls:   float64(p.drawCalls) / frames,
		Instances:   float64(p.instances) / frames,
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
	}

	// PauseNs is a circular buffer of the last 256 GC pauses
	gcCount := p.memStats.NumGC
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		if pause := time.Duration(p.memStats.PauseNs[i%256]); pause > s.MaxPause {
			s.MaxPause = pause
		}
	}

	p.logger.Info("frame stats",
		"fps", s.FPS,
		"frame_time", s.FrameTime,
		"draw_calls", s.DrawCalls,
		"instances", s.Instances,
		"heap_mb", s.HeapMB,
		"alloc_rate_mb", s.AllocRateMB,
		"gc", s.GCCount,
		"gc_max_pause", s.MaxPause,
	)

	p.last = s
	p.frameCount = 0
	p.drawCalls = 0
	p.instances = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recently logged summary, zero until the first interval elapses.
//
// Returns:
//   - Summary: the last summary
func (p *Profiler) Last() Summary {
	return p.last
}
