// Package gesture turns per-frame hand landmarks into debounced gesture events:
// held poses (raised hand, fist) and horizontal wrist swipes.
package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// PoseKind is the momentary classification of one hand.
type PoseKind string

const (
	PoseNone       PoseKind = "none"
	PoseRaisedHand PoseKind = "raised-hand"
	PoseFist       PoseKind = "fist"
)

// Qualifies reports whether the pose can trigger a hold event.
func (k PoseKind) Qualifies() bool {
	return k == PoseRaisedHand || k == PoseFist
}

// Static confidence values. They are fixed signals, not probabilities.
const (
	confidencePose   = 0.9
	confidenceNone   = 0.5
	confidenceNoHand = 0.0
)

// Pose is the result of classifying a single landmark set.
type Pose struct {
	Kind        PoseKind `json:"kind"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description"`
}

// Classify maps one landmark set to a pose. A nil hand means no hand is
// visible. Classify has no memory and never fails.
//
// Four or more extended fingers is a raised hand, one or none is a fist, and
// two or three is deliberately left unrecognized.
func Classify(hand *detector.HandLandmarks) Pose {
	if hand == nil {
		return Pose{Kind: PoseNone, Confidence: confidenceNoHand, Description: "No hand detected"}
	}

	count := 0
	for _, extended := range ExtendedFingers(hand) {
		if extended {
			count++
		}
	}

	switch {
	case count >= 4:
		return Pose{Kind: PoseRaisedHand, Confidence: confidencePose, Description: "Raised hand"}
	case count <= 1:
		return Pose{Kind: PoseFist, Confidence: confidencePose, Description: "Fist"}
	default:
		return Pose{Kind: PoseNone, Confidence: confidenceNone, Description: "No gesture recognized"}
	}
}

// ExtendedFingers reports, thumb first, which fingers are extended.
//
// A long finger is extended when tip, PIP and MCP are stacked upward in image
// space. The thumb opens sideways, so it is extended when its tip sits further
// from the MCP horizontally than the IP joint does.
func ExtendedFingers(hand *detector.HandLandmarks) [5]bool {
	var out [5]bool
	if hand == nil {
		return out
	}

	for i, f := range detector.Fingers {
		tip, pip, mcp := hand.Points[f.Tip], hand.Points[f.PIP], hand.Points[f.MCP]
		if f.Tip == detector.ThumbTip {
			out[i] = math.Abs(tip.X-mcp.X) > math.Abs(pip.X-mcp.X)
			continue
		}
		out[i] = tip.Y < pip.Y && pip.Y < mcp.Y
	}
	return out
}
