// Package main is a mudra plugin that shows assistant answers as macOS
// notifications.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ayusman/mudra/internal/event"
	"github.com/ayusman/mudra/internal/plugin"
)

// maxBody keeps notifications readable; Notification Center truncates anyway.
const maxBody = 240

// titles maps assistant commands to notification titles.
var titles = map[string]string{
	"summarize":    "Slide summary",
	"ask-question": "Audience question",
}

func main() {
	var req plugin.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}

	script, err := buildScript(req.Event)
	if err != nil {
		writeResponse(err)
		return
	}
	writeResponse(runAppleScript(script))
}

// buildScript returns a "display notification" AppleScript for e.
func buildScript(e event.Event) (string, error) {
	var body string
	switch e.Type {
	case event.TypeAssistantResponse:
		body = e.Text
	case event.TypeAssistantError:
		body = e.Text
		if body == "" {
			body = e.Error
		}
	default:
		return "", fmt.Errorf("unsupported event: %s", e.Type)
	}

	title, ok := titles[e.Command]
	if !ok {
		title = "Mudra"
	}

	return fmt.Sprintf("display notification %q with title %q", truncate(oneLine(body), maxBody), title), nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
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
