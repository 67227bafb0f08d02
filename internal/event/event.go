// Package event defines the messages the presentation controller publishes
// to its consumers.
package event

import "time"

// Type names an outbound event.
type Type string

const (
	TypeGestureTriggered  Type = "gesture.triggered"
	TypeSwipeDetected     Type = "swipe.detected"
	TypeSlideChanged      Type = "slide.changed"
	TypeAssistantStarted  Type = "assistant.started"
	TypeAssistantResponse Type = "assistant.response"
	TypeAssistantError    Type = "assistant.error"
)

// Event is a single message for presentation consumers. Only the fields
// relevant to Type are set.
type Event struct {
	Type       Type      `json:"type"`
	Hand       string    `json:"hand,omitempty"`
	Gesture    string    `json:"gesture,omitempty"`
	Direction  string    `json:"direction,omitempty"`
	Command    string    `json:"command,omitempty"`
	SlideIndex int       `json:"slide_index"`
	SlideCount int       `json:"slide_count"`
	Text       string    `json:"text,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher delivers events to consumers. Publish must not block the caller
// for long; it is called from the frame loop.
type Publisher interface {
	Publish(e Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(e Event)

// Publish calls f(e).
func (f PublisherFunc) Publish(e Event) { f(e) }

// Multi fans an event out to several publishers in order.
type Multi []Publisher

// Publish forwards e to every publisher.
func (m Multi) Publish(e Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(e)
		}
	}
}

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(Event) {})
