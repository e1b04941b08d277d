package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTickLogsOncePerInterval(t *testing.T) {
	var out bytes.Buffer
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(
		WithLogger(slog.New(slog.NewTextHandler(&out, nil))),
		WithClock(clock.now),
		WithInterval(time.Second),
	)

	for range 3 {
		clock.advance(250 * time.Millisecond)
		assert.False(t, p.Tick(2, 18))
	}
	assert.Zero(t, out.Len())

	clock.advance(250 * time.Millisecond)
	assert.True(t, p.Tick(4, 18))

	s := p.Last()
	assert.InDelta(t, 4.0, s.FPS, 1e-9)
	assert.Equal(t, 250*time.Millisecond, s.FrameTime)
	assert.InDelta(t, 2.5, s.DrawCalls, 1e-9)
	assert.InDelta(t, 18.0, s.Instances, 1e-9)
	assert.Contains(t, out.String(), "frame stats")
	assert.Contains(t, out.String(), "draw_calls=2.5")
}

func TestTickResetsCounters(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	clock.advance(time.Second)
	assert.True(t, p.Tick(10, 10))

	clock.advance(500 * time.Millisecond)
	assert.False(t, p.Tick(1, 1))
	clock.advance(500 * time.Millisecond)
	assert.True(t, p.Tick(1, 1))
	assert.InDelta(t, 1.0, p.Last().DrawCalls, 1e-9)
	assert.InDelta(t, 2.0, p.Last().FPS, 1e-9)
}

func TestInvalidOptionsKeepDefaults(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithLogger(nil), WithClock(nil))
	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.now)
}
