// Package detector provides hand detection interfaces and types for gesture recognition.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// UnknownHand is the tracking key used when the detector reports no handedness.
const UnknownHand = "Unknown"

// Finger groups the landmark indices of one finger's joints.
// For the thumb, PIP holds the IP joint.
type Finger struct {
	Name string
	Tip  int
	PIP  int
	MCP  int
}

// Fingers lists the five fingers, thumb first.
var Fingers = [5]Finger{
	{Name: "thumb", Tip: ThumbTip, PIP: ThumbIP, MCP: ThumbMCP},
	{Name: "index", Tip: IndexTip, PIP: IndexPIP, MCP: IndexMCP},
	{Name: "middle", Tip: MiddleTip, PIP: MiddlePIP, MCP: MiddleMCP},
	{Name: "ring", Tip: RingTip, PIP: RingPIP, MCP: RingMCP},
	{Name: "pinky", Tip: PinkyTip, PIP: PinkyPIP, MCP: PinkyMCP},
}

// Point3D is a landmark position. X and Y are normalized to [0,1] with the
// origin at the top-left of the image; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Key returns the identifier used to keep per-hand state apart.
func (h *HandLandmarks) Key() string {
	if h == nil || h.Handedness == "" {
		return UnknownHand
	}
	return h.Handedness
}

// WristPoint returns a copy of the wrist landmark, or nil for a nil hand.
func (h *HandLandmarks) WristPoint() *Point3D {
	if h == nil {
		return nil
	}
	p := h.Points[Wrist]
	return &p
}

// Translate returns a copy of the hand with every point shifted by (dx, dy).
func (h HandLandmarks) Translate(dx, dy float64) HandLandmarks {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}
