// Package main is a mudra plugin that mirrors slide changes into a desktop
// presentation app by pressing the arrow keys via AppleScript.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/ayusman/mudra/internal/event"
	"github.com/ayusman/mudra/internal/plugin"
)

// AppleScript key codes for the arrow keys.
const (
	keyCodeLeft  = 123
	keyCodeRight = 124
)

// Directions as published in slide.changed events.
const (
	directionLeft  = "swipe-left"
	directionRight = "swipe-right"
)

// Config is the "config" object from plugin.json.
type Config struct {
	// App is brought to the front before the key press, e.g. "Keynote".
	// Empty sends the key to whatever is frontmost.
	App string `json:"app"`
}

var errUnknownDirection = errors.New("unknown slide direction")

func main() {
	var req plugin.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}

	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeResponse(fmt.Errorf("failed to parse config: %w", err))
			return
		}
	}

	script, err := buildScript(req.Event, cfg)
	if err != nil {
		writeResponse(err)
		return
	}
	if script == "" {
		writeResponse(nil)
		return
	}

	writeResponse(runAppleScript(script))
}

// buildScript returns the AppleScript for e. Manual and gesture moves both
// carry a direction; loading a deck does not and is skipped.
func buildScript(e event.Event, cfg Config) (string, error) {
	if e.Type != event.TypeSlideChanged {
		return "", fmt.Errorf("unsupported event: %s", e.Type)
	}

	var code int
	switch e.Direction {
	case directionRight:
		code = keyCodeRight
	case directionLeft:
		code = keyCodeLeft
	case "none", "":
		return "", nil
	default:
		return "", errUnknownDirection
	}

	press := fmt.Sprintf(`tell application "System Events" to key code %d`, code)
	if cfg.App == "" {
		return press, nil
	}
	return fmt.Sprintf("tell application %q to activate\n%s", cfg.App, press), nil
}

func writeResponse(err error) {
	resp := plugin.Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	output, err := exec.Command("osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
