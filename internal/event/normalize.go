// Package event normalizes raw hook input into pipeline events.
package event

import (
	"errors"

	json "github.com/goccy/go-json"

	"github.com/thebtf/beacon/pkg/models"
)

// ErrMalformedEvent is returned when required input fields are missing.
// The Event returned alongside it carries placeholders so the caller can
// still log something; losing a notification is worse than an incomplete one.
var ErrMalformedEvent = errors.New("malformed event: missing required fields")

// placeholder substitutes for required fields absent from the input.
const placeholder = "unknown"

// rawInput mirrors the JSON Claude Code writes to a hook's stdin. The
// shape is fixed by the tool; kind-specific fields are simply absent for
// other kinds.
type rawInput struct {
	SessionID      string         `json:"session_id"`
	CWD            string         `json:"cwd"`
	HookEventName  string         `json:"hook_event_name"`
	TranscriptPath string         `json:"transcript_path"`
	Message        string         `json:"message"`
	Prompt         string         `json:"prompt"`
	ToolName       string         `json:"tool_name"`
	ToolInput      map[string]any `json:"tool_input"`
}

// Normalize parses one raw hook input blob into an Event of the given
// kind. The kind comes from the caller because the tool signals it by
// which hook binary fired, not by a payload field.
//
// On missing required fields (session_id, cwd) it returns
// ErrMalformedEvent together with a best-effort Event populated with
// placeholders; on unparseable input the Event is all placeholders.
func Normalize(kind models.EventKind, data []byte) (models.Event, error) {
	var raw rawInput
	parseErr := json.Unmarshal(data, &raw)

	ev := models.Event{
		Kind:             kind,
		SessionID:        raw.SessionID,
		WorkingDirectory: raw.CWD,
		TranscriptPath:   raw.TranscriptPath,
		RawText:          raw.Message,
		ToolName:         raw.ToolName,
		ToolInput:        raw.ToolInput,
	}
	if ev.RawText == "" {
		ev.RawText = raw.Prompt
	}

	malformed := parseErr != nil || raw.SessionID == "" || raw.CWD == ""
	if ev.SessionID == "" {
		ev.SessionID = placeholder
	}
	if ev.WorkingDirectory == "" {
		ev.WorkingDirectory = placeholder
	}

	if malformed {
		return ev, ErrMalformedEvent
	}
	return ev, nil
}
