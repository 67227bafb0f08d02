package tray

import (
	"testing"

	"github.com/ayusman/mudra/internal/event"
)

func TestTray_Publish(t *testing.T) {
	tr := New(true)

	if tr.LastEvent() != "none" || tr.Slide() != "no deck" {
		t.Fatalf("unexpected initial labels %q %q", tr.LastEvent(), tr.Slide())
	}

	tr.Publish(event.Event{Type: event.TypeSwipeDetected, Hand: "Right", Direction: "swipe-left"})
	if got := tr.LastEvent(); got != "swipe-left (Right)" {
		t.Errorf("unexpected last event %q", got)
	}

	tr.Publish(event.Event{Type: event.TypeSlideChanged, SlideIndex: 1, SlideCount: 4})
	if got := tr.Slide(); got != "2 / 4" {
		t.Errorf("unexpected slide label %q", got)
	}
	if got := tr.LastEvent(); got != "swipe-left (Right)" {
		t.Errorf("slide changes should not replace the last event, got %q", got)
	}

	tr.Publish(event.Event{Type: event.TypeAssistantError, Command: "summarize"})
	if got := tr.LastEvent(); got != "summarize failed" {
		t.Errorf("unexpected last event %q", got)
	}

	tr.Publish(event.Event{Type: event.TypeSlideChanged})
	if got := tr.Slide(); got != "no deck" {
		t.Errorf("unexpected slide label %q", got)
	}
}

func TestTray_Toggle(t *testing.T) {
	tr := New(false)

	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	tr.handleToggle()
	tr.handleToggle()

	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("unexpected toggle callbacks %v", got)
	}
	if tr.IsEnabled() {
		t.Error("expected detection off after two toggles")
	}
}

func TestTray_ImplementsPublisher(t *testing.T) {
	var _ event.Publisher = New(true)
}
