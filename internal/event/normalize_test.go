package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/beacon/pkg/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		kind      models.EventKind
		input     string
		wantErr   bool
		wantEvent models.Event
	}{
		{
			name:  "stop event with message",
			kind:  models.KindSessionPause,
			input: `{"session_id":"abc123","cwd":"/repo","transcript_path":"/tmp/t.jsonl","message":"Done."}`,
			wantEvent: models.Event{
				Kind:             models.KindSessionPause,
				SessionID:        "abc123",
				WorkingDirectory: "/repo",
				TranscriptPath:   "/tmp/t.jsonl",
				RawText:          "Done.",
			},
		},
		{
			name:  "prompt submit uses prompt field",
			kind:  models.KindUserMessageSubmitted,
			input: `{"session_id":"abc123","cwd":"/repo","prompt":"fix the tests"}`,
			wantEvent: models.Event{
				Kind:             models.KindUserMessageSubmitted,
				SessionID:        "abc123",
				WorkingDirectory: "/repo",
				RawText:          "fix the tests",
			},
		},
		{
			name:  "tool event carries tool fields",
			kind:  models.KindApprovalNeeded,
			input: `{"session_id":"abc123","cwd":"/repo","tool_name":"Bash","tool_input":{"command":"rm -rf /tmp/x"}}`,
			wantEvent: models.Event{
				Kind:             models.KindApprovalNeeded,
				SessionID:        "abc123",
				WorkingDirectory: "/repo",
				ToolName:         "Bash",
				ToolInput:        map[string]any{"command": "rm -rf /tmp/x"},
			},
		},
		{
			name:    "missing session id gets placeholder",
			kind:    models.KindSessionEnded,
			input:   `{"cwd":"/repo"}`,
			wantErr: true,
			wantEvent: models.Event{
				Kind:             models.KindSessionEnded,
				SessionID:        "unknown",
				WorkingDirectory: "/repo",
			},
		},
		{
			name:    "missing cwd gets placeholder",
			kind:    models.KindSessionEnded,
			input:   `{"session_id":"abc123"}`,
			wantErr: true,
			wantEvent: models.Event{
				Kind:             models.KindSessionEnded,
				SessionID:        "abc123",
				WorkingDirectory: "unknown",
			},
		},
		{
			name:    "unparseable input is all placeholders",
			kind:    models.KindToolCompleted,
			input:   `{not json`,
			wantErr: true,
			wantEvent: models.Event{
				Kind:             models.KindToolCompleted,
				SessionID:        "unknown",
				WorkingDirectory: "unknown",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Normalize(tt.kind, []byte(tt.input))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedEvent)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantEvent, ev)
		})
	}
}

func TestNormalizeNeverDropsEvent(t *testing.T) {
	// Even malformed input yields an event worth logging.
	ev, err := Normalize(models.KindSessionPause, nil)
	require.ErrorIs(t, err, ErrMalformedEvent)
	assert.Equal(t, models.KindSessionPause, ev.Kind)
	assert.NotEmpty(t, ev.SessionID)
	assert.NotEmpty(t, ev.WorkingDirectory)
}
