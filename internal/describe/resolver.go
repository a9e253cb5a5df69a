// Package describe turns normalized events into short human-readable
// descriptions and applies the chat-sink length policy.
package describe

import (
	"context"
	"fmt"

	"github.com/thebtf/beacon/pkg/models"
)

// Resolver produces descriptions for events. The zero value works with
// no condensation; use New to attach a length Policy.
type Resolver struct {
	policy Policy
}

// New creates a Resolver with the given length policy.
func New(policy Policy) *Resolver {
	return &Resolver{policy: policy}
}

// Describe returns the base description for an event. This is what the
// log sink records verbatim; the chat sink passes it through ForChat.
func (r *Resolver) Describe(ev models.Event) string {
	switch ev.Kind {
	case models.KindSessionPause:
		if ev.TranscriptPath != "" {
			if text := LastAssistantMessage(ev.TranscriptPath); text != "" {
				return text
			}
		}
		if ev.RawText != "" {
			return ev.RawText
		}
		return "Claude is waiting for your input"

	case models.KindApprovalNeeded:
		return describePendingTool(ev)

	case models.KindUserMessageSubmitted:
		if ev.RawText != "" {
			return ev.RawText
		}
		return "user submitted a message"

	case models.KindToolCompleted:
		return describeCompletedTool(ev)

	case models.KindSessionEnded:
		return "session ended"
	}

	return fmt.Sprintf("event: %s", ev.Kind)
}

// ForChat applies the length policy to a base description, producing the
// text destined for the chat sink.
func (r *Resolver) ForChat(ctx context.Context, text string) string {
	return r.policy.Apply(ctx, text)
}

// describePendingTool synthesizes "wants to {action} {target}" from the
// pending tool name and its primary argument.
func describePendingTool(ev models.Event) string {
	switch ev.ToolName {
	case "Bash":
		return "wants to run: " + toolInputString(ev.ToolInput, "command", "a command")
	case "Edit", "MultiEdit", "NotebookEdit":
		return "wants to edit " + toolInputString(ev.ToolInput, "file_path", "a file")
	case "Write":
		return "wants to write to " + toolInputString(ev.ToolInput, "file_path", "a file")
	case "":
		if ev.RawText != "" {
			return ev.RawText
		}
		return "Claude needs your approval"
	}
	return fmt.Sprintf("wants to use %s", ev.ToolName)
}

// describeCompletedTool synthesizes "ran: {tool}" or "edited: {path}"
// depending on tool category.
func describeCompletedTool(ev models.Event) string {
	switch ev.ToolName {
	case "Edit", "MultiEdit", "NotebookEdit", "Write":
		return "edited: " + toolInputString(ev.ToolInput, "file_path", "a file")
	case "":
		return "tool completed"
	}
	return "ran: " + ev.ToolName
}

func toolInputString(input map[string]any, key, fallback string) string {
	if v, ok := input[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
