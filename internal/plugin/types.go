// Package plugin runs external hook executables in response to mudra events,
// e.g. to press arrow keys in a desktop presentation app when the slide changes.
package plugin

import (
	"encoding/json"

	"github.com/ayusman/mudra/internal/event"
)

// Manifest describes a plugin and the events it subscribes to. It is read
// from plugin.json in the plugin's directory.
type Manifest struct {
	Name        string          `json:"name" validate:"required"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable" validate:"required"`
	Events      []event.Type    `json:"events" validate:"min=1"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Request is written to the plugin's stdin as a single JSON document.
type Request struct {
	Event  event.Event     `json:"event"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Response is the JSON document a plugin writes to stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Handles reports whether the plugin subscribes to t.
func (p *Plugin) Handles(t event.Type) bool {
	for _, e := range p.Manifest.Events {
		if e == t {
			return true
		}
	}
	return false
}
