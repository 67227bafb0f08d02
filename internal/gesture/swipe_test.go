package gesture

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/detector"
)

func swipeConfig() Config {
	cfg := DefaultConfig()
	cfg.SwipeWindow = 400 * time.Millisecond
	cfg.SwipeThreshold = 0.08
	cfg.SwipeMinSamples = 4
	cfg.SwipeCooldown = 500 * time.Millisecond
	return cfg
}

func wrist(x float64) *detector.Point3D {
	return &detector.Point3D{X: x, Y: 0.5}
}

type step struct {
	ms int
	x  float64
}

func TestSwipeTracker_FiresOnFourthSample(t *testing.T) {
	tr := NewSwipeTracker(swipeConfig())

	steps := []step{{0, 0.10}, {50, 0.12}, {100, 0.20}, {150, 0.28}, {200, 0.40}}
	want := []Direction{DirectionNone, DirectionNone, DirectionNone, DirectionRight, DirectionNone}

	for i, s := range steps {
		assert.Equal(t, want[i], tr.Observe(wrist(s.x), at(s.ms)), "sample %d at %dms", i, s.ms)
	}
	assert.Equal(t, 1, tr.Len(), "history is cleared when a swipe fires")
}

func TestSwipeTracker_SwipeLeft(t *testing.T) {
	tr := NewSwipeTracker(swipeConfig())

	steps := []step{{0, 0.90}, {50, 0.88}, {100, 0.80}, {150, 0.72}}
	var got Direction
	for _, s := range steps {
		got = tr.Observe(wrist(s.x), at(s.ms))
	}
	assert.Equal(t, DirectionLeft, got)
	assert.Zero(t, tr.Len())
}

// fireTimes feeds x = perStep*i every 50ms for n frames and records each swipe.
func fireTimes(tr *SwipeTracker, perStep float64, n int) map[int]Direction {
	fired := make(map[int]Direction)
	for i := 0; i < n; i++ {
		ms := i * 50
		if dir := tr.Observe(wrist(0.05+perStep*float64(i)), at(ms)); dir != DirectionNone {
			fired[ms] = dir
		}
	}
	return fired
}

func TestSwipeTracker_Cooldown(t *testing.T) {
	tr := NewSwipeTracker(swipeConfig())

	fired := fireTimes(tr, 0.03, 16)

	// 150ms fires. Samples gathered until 550ms are discarded by the cooldown,
	// so the next swipe needs a fresh set of four samples starting at 600ms.
	assert.Equal(t, map[int]Direction{150: DirectionRight, 750: DirectionRight}, fired)
}

func TestSwipeTracker_CooldownClearsHistory(t *testing.T) {
	tr := NewSwipeTracker(swipeConfig())

	for i, s := range []step{{0, 0.1}, {50, 0.2}, {100, 0.3}, {150, 0.4}} {
		dir := tr.Observe(wrist(s.x), at(s.ms))
		if i == 3 {
			require.Equal(t, DirectionRight, dir)
		}
	}

	for _, s := range []step{{200, 0.5}, {250, 0.6}, {300, 0.7}} {
		assert.Equal(t, DirectionNone, tr.Observe(wrist(s.x), at(s.ms)))
	}
	assert.Equal(t, 3, tr.Len())

	assert.Equal(t, DirectionNone, tr.Observe(wrist(0.8), at(350)))
	assert.Zero(t, tr.Len(), "reaching the sample gate during cooldown clears history")
}

func TestSwipeTracker_AbsentHandClearsHistory(t *testing.T) {
	tr := NewSwipeTracker(swipeConfig())

	for _, s := range []step{{0, 0.10}, {50, 0.10}, {100, 0.10}} {
		tr.Observe(wrist(s.x), at(s.ms))
	}
	require.Equal(t, 3, tr.Len())

	assert.Equal(t, DirectionNone, tr.Observe(nil, at(150)))
	assert.Zero(t, tr.Len())

	// Far from the old samples, but alone in history.
	assert.Equal(t, DirectionNone, tr.Observe(wrist(0.60), at(200)))
	assert.Equal(t, 1, tr.Len())
}

func TestSwipeTracker_BelowThresholdNeverFires(t *testing.T) {
	tests := []struct {
		name     string
		interval int
		frames   int
		x        func(i int) float64
	}{
		{
			name:     "jitter at 30fps",
			interval: 33,
			frames:   300,
			x:        func(i int) float64 { return 0.5 + 0.035*math.Sin(float64(i)) },
		},
		{
			name:     "jitter at 10fps",
			interval: 100,
			frames:   100,
			x:        func(i int) float64 { return 0.5 + 0.039*math.Cos(float64(i)*0.7) },
		},
		{
			name:     "slow drift right",
			interval: 50,
			frames:   80,
			x:        func(i int) float64 { return 0.1 + 0.01*float64(i) },
		},
		{
			name:     "slow drift left",
			interval: 50,
			frames:   80,
			x:        func(i int) float64 { return 0.9 - 0.01*float64(i) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewSwipeTracker(swipeConfig())
			for i := 0; i < tt.frames; i++ {
				dir := tr.Observe(wrist(tt.x(i)), at(i*tt.interval))
				require.Equal(t, DirectionNone, dir, "frame %d", i)
			}
		})
	}
}

func TestSwipeTracker_PrunesByAge(t *testing.T) {
	tr := NewSwipeTracker(swipeConfig())

	tr.Observe(wrist(0.1), at(0))
	tr.Observe(wrist(0.1), at(100))
	tr.Observe(wrist(0.1), at(399))
	assert.Equal(t, 3, tr.Len())

	// A sample exactly one window old is dropped.
	tr.Observe(wrist(0.1), at(400))
	samples := tr.samples()
	require.Len(t, samples, 3)
	assert.Equal(t, at(100), samples[0].At)

	// A long pause leaves only the newest sample.
	assert.Equal(t, DirectionNone, tr.Observe(wrist(0.9), at(2000)))
	assert.Equal(t, 1, tr.Len())
}

func TestSwipeTracker_MinSamples(t *testing.T) {
	cfg := swipeConfig()
	cfg.SwipeMinSamples = 5
	tr := NewSwipeTracker(cfg)

	for _, s := range []step{{0, 0.1}, {50, 0.3}, {100, 0.5}, {150, 0.7}} {
		assert.Equal(t, DirectionNone, tr.Observe(wrist(s.x), at(s.ms)))
	}
	assert.Equal(t, DirectionRight, tr.Observe(wrist(0.8), at(200)))
}

func TestSwipeTracker_Reset(t *testing.T) {
	tr := NewSwipeTracker(swipeConfig())
	for _, s := range []step{{0, 0.1}, {50, 0.2}, {100, 0.3}, {150, 0.4}} {
		tr.Observe(wrist(s.x), at(s.ms))
	}

	tr.Reset()
	tr.Reset()
	assert.Zero(t, tr.Len())

	// Cooldown is forgotten too: a swipe right after the reset is allowed.
	var got Direction
	for _, s := range []step{{200, 0.1}, {250, 0.2}, {300, 0.3}, {350, 0.4}} {
		got = tr.Observe(wrist(s.x), at(s.ms))
	}
	assert.Equal(t, DirectionRight, got)
}

func TestSwipeTracker_HighFrameRateKeepsWholeWindow(t *testing.T) {
	cfg := swipeConfig()
	cfg.HistoryCapacity = 4
	cfg.SwipeMinSamples = 4
	cfg.SwipeThreshold = 0.05
	require.NoError(t, cfg.Validate())
	tr := NewSwipeTracker(cfg)

	// A slow drift at 50fps: only the whole window crosses the threshold.
	fired := -1
	for k := 0; k <= 19; k++ {
		if tr.Observe(wrist(0.1+0.004*float64(k)), at(20*k)) != DirectionNone {
			fired = 20 * k
			break
		}
	}
	assert.Equal(t, 260, fired)
}

func TestHistory_GrowsWhenFull(t *testing.T) {
	h := newHistory(4)
	for i := 0; i < 4; i++ {
		h.push(Sample{X: float64(i), At: at(i)})
	}

	h.prune(at(3), 2*time.Millisecond)
	assert.Equal(t, 2, h.size)
	assert.Equal(t, 2.0, h.first().X)

	// Wraps around the end, then grows.
	for i := 4; i < 7; i++ {
		h.push(Sample{X: float64(i), At: at(i)})
	}
	assert.Equal(t, 5, h.size)
	assert.Len(t, h.buf, 8)
	for i := 0; i < h.size; i++ {
		assert.Equal(t, float64(i+2), h.buf[(h.head+i)%len(h.buf)].X)
	}
	assert.Equal(t, 2.0, h.first().X)
	assert.Equal(t, 6.0, h.last().X)

	h.clear()
	assert.Zero(t, h.size)
	h.push(Sample{X: 9, At: at(10)})
	assert.Equal(t, 9.0, h.first().X)
	assert.Equal(t, 9.0, h.last().X)
}
