package gesture

import "time"

// HoldState is the debounce state of a HoldTracker.
type HoldState int

const (
	// HoldIdle means the current pose is none.
	HoldIdle HoldState = iota
	// HoldHolding means a qualifying pose is held but has not fired yet.
	HoldHolding
	// HoldTriggered means the current hold has already fired.
	HoldTriggered
)

func (s HoldState) String() string {
	switch s {
	case HoldHolding:
		return "holding"
	case HoldTriggered:
		return "triggered"
	default:
		return "idle"
	}
}

// HoldTracker fires once when a qualifying pose persists for the hold
// duration, and not again until the pose changes or Reset is called.
type HoldTracker struct {
	duration time.Duration
	kind     PoseKind
	start    time.Time
	state    HoldState
}

// NewHoldTracker creates a tracker that fires after duration.
func NewHoldTracker(duration time.Duration) *HoldTracker {
	return &HoldTracker{duration: duration, kind: PoseNone}
}

// Observe feeds one frame's pose and reports whether the hold fired.
func (t *HoldTracker) Observe(p Pose, now time.Time) bool {
	if p.Kind != t.kind {
		t.kind = p.Kind
		t.start = now
		if p.Kind.Qualifies() {
			t.state = HoldHolding
		} else {
			t.state = HoldIdle
		}
		return false
	}

	if t.state == HoldHolding && now.Sub(t.start) >= t.duration {
		t.state = HoldTriggered
		return true
	}
	return false
}

// Reset returns the tracker to idle so a fresh hold is needed to fire again.
func (t *HoldTracker) Reset() {
	t.kind = PoseNone
	t.start = time.Time{}
	t.state = HoldIdle
}

// State returns the current debounce state.
func (t *HoldTracker) State() HoldState {
	return t.state
}

// Kind returns the pose currently being held.
func (t *HoldTracker) Kind() PoseKind {
	return t.kind
}

// held returns how long the current pose has persisted as of now.
func (t *HoldTracker) held(now time.Time) time.Duration {
	if t.start.IsZero() {
		return 0
	}
	return now.Sub(t.start)
}
