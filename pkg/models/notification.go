// Package models contains domain models for beacon.
package models

import "time"

// EventKind identifies which hook fired. The set is closed: dispatch
// switches over it exhaustively, so adding a kind is a compile-time change.
type EventKind string

const (
	KindSessionPause         EventKind = "SessionPause"
	KindApprovalNeeded       EventKind = "ApprovalNeeded"
	KindUserMessageSubmitted EventKind = "UserMessageSubmitted"
	KindToolCompleted        EventKind = "ToolCompleted"
	KindSessionEnded         EventKind = "SessionEnded"
)

// Kinds lists every event kind, in dispatch-table order.
var Kinds = []EventKind{
	KindSessionPause,
	KindApprovalNeeded,
	KindUserMessageSubmitted,
	KindToolCompleted,
	KindSessionEnded,
}

// Event is one normalized occurrence reported by a hook invocation.
// It is built fresh from stdin for each process and never mutated.
type Event struct {
	Kind             EventKind
	SessionID        string
	WorkingDirectory string
	TranscriptPath   string

	// RawText is the kind-specific text payload: the assistant's latest
	// message (SessionPause), or the user's submitted prompt
	// (UserMessageSubmitted). Empty for tool events.
	RawText string

	// ToolName and ToolInput are set for ApprovalNeeded and ToolCompleted.
	ToolName  string
	ToolInput map[string]any
}

// NotificationRecord is one line of the append-only JSONL log.
// Field names are the log file's wire contract; the viewer and any
// tail -f consumer parse exactly these keys.
type NotificationRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	SessionID      string    `json:"sessionId"`
	RepositoryPath string    `json:"repositoryPath"`
	Description    string    `json:"description"`
	EventKind      EventKind `json:"eventKind"`
	TranscriptPath string    `json:"transcriptPath,omitempty"`
}

// RepositoryIdentity is the canonical, worktree-independent name of a
// repository. Two working directories under the same parent repository
// (including linked worktrees) resolve to the same identity.
type RepositoryIdentity struct {
	RootPath    string
	DisplayName string
}

// ChannelMapping binds a (user, repository) pair to a chat channel.
type ChannelMapping struct {
	ChannelKey    string `yaml:"key"`
	ChannelHandle string `yaml:"handle"`

	// Created records whether provisioning (create + invite) has already
	// run; a cached mapping with Created set is returned without any
	// platform call.
	Created bool `yaml:"created"`
}
