package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/event"
)

func TestRunner_DeliversSubscribedEvents(t *testing.T) {
	root := t.TempDir()
	dir := writeManifest(t, root, "recorder", Manifest{
		Name:       "recorder",
		Executable: "record.sh",
		Events:     []event.Type{event.TypeSlideChanged},
	})
	writeScript(t, dir, "record.sh",
		"cat >> received.jsonl\necho >> received.jsonl\necho '{\"success\":true}'\n")

	manager := NewManager(root, zerolog.Nop())
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	runner := NewRunner(manager, NewExecutor(5*time.Second), zerolog.Nop())
	defer runner.Close()

	runner.Publish(event.Event{Type: event.TypeSwipeDetected, Direction: "swipe-right"})
	runner.Publish(event.Event{Type: event.TypeSlideChanged, SlideIndex: 1, SlideCount: 4})
	runner.Publish(event.Event{Type: event.TypeSlideChanged, SlideIndex: 2, SlideCount: 4})

	out := filepath.Join(dir, "received.jsonl")
	var lines []string
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		data, _ := os.ReadFile(out)
		if strings.Count(string(data), "\n") >= 2 {
			lines = strings.Split(strings.TrimSpace(string(data)), "\n")
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 delivered events, got %d", len(lines))
	}
	for i, line := range lines {
		var req Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if req.Event.Type != event.TypeSlideChanged {
			t.Errorf("line %d: unexpected type %q", i, req.Event.Type)
		}
		if req.Event.SlideIndex != i+1 {
			t.Errorf("line %d: expected slide %d, got %d", i, i+1, req.Event.SlideIndex)
		}
	}
}

func TestRunner_Close(t *testing.T) {
	runner := NewRunner(NewManager(t.TempDir(), zerolog.Nop()), NewExecutor(time.Second), zerolog.Nop())

	runner.Publish(event.Event{Type: event.TypeSlideChanged})
	runner.Close()
	runner.Close()

	// Publishing after Close is a no-op
	runner.Publish(event.Event{Type: event.TypeSlideChanged})
}

func TestRunner_ImplementsPublisher(t *testing.T) {
	var _ event.Publisher = (*Runner)(nil)
}
