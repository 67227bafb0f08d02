package gesture

import (
	"math"
	"sort"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// EventKind distinguishes the two event channels produced by the engine.
type EventKind string

const (
	// EventGesture is a held pose that reached the hold duration.
	EventGesture EventKind = "gesture"
	// EventSwipe is a horizontal wrist swipe.
	EventSwipe EventKind = "swipe"
)

// Event is a single debounced gesture or swipe.
type Event struct {
	Kind      EventKind `json:"kind"`
	Hand      string    `json:"hand"`
	Pose      PoseKind  `json:"pose,omitempty"`
	Direction Direction `json:"direction,omitempty"`
	At        time.Time `json:"at"`
}

// handTrackers is the independent state kept for one hand.
type handTrackers struct {
	hold    *HoldTracker
	swipe   *SwipeTracker
	pose    Pose
	present bool
	wrist   detector.Point3D
}

func (h *handTrackers) reset() {
	h.hold.Reset()
	h.swipe.Reset()
	h.pose = Classify(nil)
	h.present = false
}

// HandStatus is a snapshot of one tracked hand.
type HandStatus struct {
	Hand    string `json:"hand"`
	Present bool   `json:"present"`
	Pose    Pose   `json:"pose"`
	Hold    string `json:"hold"`
	Samples int    `json:"samples"`
}

// matchRadius is how far a wrist may move between frames, in normalized
// image units, and still be paired with the same trackers.
const matchRadius = 0.25

// Engine runs a hold tracker and a swipe tracker per hand, so positions from
// different hands never share a history. Trackers follow a hand by wrist
// position from frame to frame; the handedness label only names it, and a
// label that flips for a frame keeps the hand's state. It is not safe for
// concurrent use; drive it from the frame loop.
type Engine struct {
	cfg   Config
	hands map[string]*handTrackers
}

// NewEngine creates an engine with the given thresholds.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:   cfg,
		hands: make(map[string]*handTrackers),
	}
}

// Process feeds one frame of detections and returns the events it produced.
// Hands present on the previous frame that no detection pairs with are
// treated as lost and their trackers are reset.
func (e *Engine) Process(hands []detector.HandLandmarks, now time.Time) []Event {
	current := dedupe(hands)

	keys := make([]string, 0, len(current))
	for key := range current {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	matched, claimed := e.match(current, keys)
	next := make(map[string]*handTrackers, len(e.hands)+len(keys))
	for key, t := range e.hands {
		if claimed[key] {
			continue
		}
		if t.present {
			t.reset()
		}
		next[key] = t
	}
	for key, t := range matched {
		next[key] = t
	}
	e.hands = next

	var events []Event
	for _, key := range keys {
		hand := current[key]
		t := e.trackers(key)
		t.present = true
		t.wrist = hand.Points[detector.Wrist]
		t.pose = Classify(hand)

		if t.hold.Observe(t.pose, now) {
			events = append(events, Event{Kind: EventGesture, Hand: key, Pose: t.pose.Kind, At: now})
		}
		if dir := t.swipe.Observe(hand.WristPoint(), now); dir != DirectionNone {
			events = append(events, Event{Kind: EventSwipe, Hand: key, Direction: dir, At: now})
		}
	}

	return events
}

// ResetHold clears the hold tracker for one hand so the pose has to be held
// again from scratch. Unknown hands are ignored.
func (e *Engine) ResetHold(hand string) {
	if t, ok := e.hands[hand]; ok {
		t.hold.Reset()
	}
}

// Reset drops all per-hand state. It is safe to call repeatedly.
func (e *Engine) Reset() {
	for _, t := range e.hands {
		t.reset()
	}
}

// Hands returns a snapshot of every hand the engine has tracked, sorted by key.
func (e *Engine) Hands() []HandStatus {
	out := make([]HandStatus, 0, len(e.hands))
	for key, t := range e.hands {
		out = append(out, HandStatus{
			Hand:    key,
			Present: t.present,
			Pose:    t.pose,
			Hold:    t.hold.State().String(),
			Samples: t.swipe.Len(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hand < out[j].Hand })
	return out
}

func (e *Engine) trackers(key string) *handTrackers {
	t, ok := e.hands[key]
	if !ok {
		t = &handTrackers{
			hold:  NewHoldTracker(e.cfg.HoldDuration),
			swipe: NewSwipeTracker(e.cfg),
			pose:  Classify(nil),
		}
		e.hands[key] = t
	}
	return t
}

// match pairs this frame's hands with the trackers of hands present on the
// previous frame, keyed by the new label. Nearest wrists pair first, then
// equal labels, and a lone remaining hand inherits a lone remaining tracker.
// claimed holds the previous keys whose trackers were handed on.
func (e *Engine) match(current map[string]*detector.HandLandmarks, keys []string) (matched map[string]*handTrackers, claimed map[string]bool) {
	var prev []string
	for key, t := range e.hands {
		if t.present {
			prev = append(prev, key)
		}
	}
	sort.Strings(prev)

	type pair struct {
		cur, prev string
		dist      float64
	}
	var pairs []pair
	for _, c := range keys {
		w := current[c].Points[detector.Wrist]
		for _, p := range prev {
			if d := distance(w, e.hands[p].wrist); d <= matchRadius {
				pairs = append(pairs, pair{cur: c, prev: p, dist: d})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].dist < pairs[j].dist })

	matched = make(map[string]*handTrackers, len(keys))
	claimed = make(map[string]bool, len(prev))
	for _, p := range pairs {
		if _, ok := matched[p.cur]; ok || claimed[p.prev] {
			continue
		}
		matched[p.cur] = e.hands[p.prev]
		claimed[p.prev] = true
	}

	var freeCur, freePrev []string
	for _, c := range keys {
		if _, ok := matched[c]; ok {
			continue
		}
		if t, ok := e.hands[c]; ok && t.present && !claimed[c] {
			matched[c] = t
			claimed[c] = true
			continue
		}
		freeCur = append(freeCur, c)
	}
	for _, p := range prev {
		if !claimed[p] {
			freePrev = append(freePrev, p)
		}
	}
	if len(freeCur) == 1 && len(freePrev) == 1 {
		matched[freeCur[0]] = e.hands[freePrev[0]]
		claimed[freePrev[0]] = true
	}
	return matched, claimed
}

func distance(a, b detector.Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// dedupe keeps the highest-scoring hand for each key.
func dedupe(hands []detector.HandLandmarks) map[string]*detector.HandLandmarks {
	out := make(map[string]*detector.HandLandmarks, len(hands))
	for i := range hands {
		h := &hands[i]
		key := h.Key()
		if prev, ok := out[key]; ok && prev.Score >= h.Score {
			continue
		}
		out[key] = h
	}
	return out
}
