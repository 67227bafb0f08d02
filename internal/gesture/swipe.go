package gesture

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// Direction is the outcome of a swipe observation.
type Direction string

const (
	DirectionNone  Direction = "none"
	DirectionLeft  Direction = "swipe-left"
	DirectionRight Direction = "swipe-right"
)

// Sample is a wrist position at a point in time.
type Sample struct {
	X  float64
	At time.Time
}

// history is a ring of samples, oldest first. It grows when full so that
// only prune evicts samples.
type history struct {
	buf  []Sample
	head int
	size int
}

func newHistory(capacity int) history {
	if capacity < 1 {
		capacity = 1
	}
	return history{buf: make([]Sample, capacity)}
}

// push appends s, doubling the buffer when it is full.
func (h *history) push(s Sample) {
	if h.size == len(h.buf) {
		h.grow()
	}
	h.buf[(h.head+h.size)%len(h.buf)] = s
	h.size++
}

func (h *history) grow() {
	buf := make([]Sample, 2*len(h.buf))
	for i := 0; i < h.size; i++ {
		buf[i] = h.buf[(h.head+i)%len(h.buf)]
	}
	h.buf = buf
	h.head = 0
}

func (h *history) first() Sample { return h.buf[h.head] }

func (h *history) last() Sample { return h.buf[(h.head+h.size-1)%len(h.buf)] }

// prune drops samples whose age has reached window.
func (h *history) prune(now time.Time, window time.Duration) {
	for h.size > 0 && now.Sub(h.first().At) >= window {
		h.head = (h.head + 1) % len(h.buf)
		h.size--
	}
}

func (h *history) clear() {
	h.head = 0
	h.size = 0
}

// SwipeTracker detects horizontal wrist swipes from a time-bounded history.
// Pruning by time rather than sample count keeps sensitivity independent of
// the frame rate.
type SwipeTracker struct {
	window     time.Duration
	threshold  float64
	minSamples int
	cooldown   time.Duration

	history   history
	lastSwipe time.Time
	swiped    bool
}

// NewSwipeTracker creates a tracker using the swipe settings in cfg.
func NewSwipeTracker(cfg Config) *SwipeTracker {
	return &SwipeTracker{
		window:     cfg.SwipeWindow,
		threshold:  cfg.SwipeThreshold,
		minSamples: cfg.SwipeMinSamples,
		cooldown:   cfg.SwipeCooldown,
		history:    newHistory(cfg.HistoryCapacity),
	}
}

// Observe feeds one frame's wrist position, nil when no hand is visible, and
// returns the swipe that fired on this frame, if any.
func (t *SwipeTracker) Observe(wrist *detector.Point3D, now time.Time) Direction {
	if wrist == nil {
		t.history.clear()
		return DirectionNone
	}

	t.history.push(Sample{X: wrist.X, At: now})
	t.history.prune(now, t.window)

	if t.history.size < t.minSamples {
		return DirectionNone
	}

	// Samples gathered during cooldown must not carry into the next window.
	if t.swiped && now.Sub(t.lastSwipe) < t.cooldown {
		t.history.clear()
		return DirectionNone
	}

	deltaX := t.history.last().X - t.history.first().X
	switch {
	case deltaX > t.threshold:
		t.fire(now)
		return DirectionRight
	case deltaX < -t.threshold:
		t.fire(now)
		return DirectionLeft
	default:
		return DirectionNone
	}
}

func (t *SwipeTracker) fire(now time.Time) {
	t.lastSwipe = now
	t.swiped = true
	t.history.clear()
}

// Reset discards history and cooldown. It is safe to call repeatedly.
func (t *SwipeTracker) Reset() {
	t.history.clear()
	t.lastSwipe = time.Time{}
	t.swiped = false
}

// Len returns the number of retained samples.
func (t *SwipeTracker) Len() int {
	return t.history.size
}

// samples returns the retained samples, oldest first.
func (t *SwipeTracker) samples() []Sample {
	out := make([]Sample, t.history.size)
	for i := range out {
		out[i] = t.history.buf[(t.history.head+i)%len(t.history.buf)]
	}
	return out
}
