package main

import (
	"strings"
	"testing"

	"github.com/ayusman/mudra/internal/event"
)

func TestBuildScript(t *testing.T) {
	tests := []struct {
		name    string
		event   event.Event
		cfg     Config
		want    string
		wantErr bool
	}{
		{
			name:  "next slide",
			event: event.Event{Type: event.TypeSlideChanged, Direction: "swipe-right"},
			want:  `tell application "System Events" to key code 124`,
		},
		{
			name:  "previous slide",
			event: event.Event{Type: event.TypeSlideChanged, Direction: "swipe-left"},
			want:  `tell application "System Events" to key code 123`,
		},
		{
			name:  "deck loaded",
			event: event.Event{Type: event.TypeSlideChanged},
			want:  "",
		},
		{
			name:    "unknown direction",
			event:   event.Event{Type: event.TypeSlideChanged, Direction: "up"},
			wantErr: true,
		},
		{
			name:    "other event",
			event:   event.Event{Type: event.TypeAssistantResponse},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildScript(tt.event, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("buildScript() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("buildScript() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildScript_ActivatesApp(t *testing.T) {
	got, err := buildScript(
		event.Event{Type: event.TypeSlideChanged, Direction: "swipe-right"},
		Config{App: "Keynote"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 script lines, got %d", len(lines))
	}
	if lines[0] != `tell application "Keynote" to activate` {
		t.Errorf("unexpected first line %q", lines[0])
	}
}
