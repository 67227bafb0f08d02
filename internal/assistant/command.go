// Package assistant sends slide text to a text-generation service when a
// held gesture asks for a summary or a discussion question.
package assistant

import "github.com/ayusman/mudra/internal/gesture"

// Command is the request a gesture makes of the text-generation service.
type Command string

const (
	CommandSummarize   Command = "summarize"
	CommandAskQuestion Command = "ask-question"
)

// FallbackMessage is shown to the audience when the service cannot answer.
const FallbackMessage = "Sorry, the assistant couldn't respond right now. Please try again."

// CommandForPose maps a held pose to its command. A fist asks for a summary,
// a raised hand asks a question.
func CommandForPose(kind gesture.PoseKind) (Command, bool) {
	switch kind {
	case gesture.PoseFist:
		return CommandSummarize, true
	case gesture.PoseRaisedHand:
		return CommandAskQuestion, true
	default:
		return "", false
	}
}

// instruction is the system prompt used for each command.
func (c Command) instruction() string {
	switch c {
	case CommandSummarize:
		return "You are a presentation assistant. Summarize the following slide in two or three short sentences for the audience."
	case CommandAskQuestion:
		return "You are a presentation assistant. Ask one thought-provoking question the audience could discuss about the following slide."
	default:
		return ""
	}
}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	return c.instruction() != ""
}
