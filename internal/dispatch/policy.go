// Package dispatch decides which sinks receive an event, composes the
// chat message, and runs the pipeline for one hook invocation.
package dispatch

import (
	"github.com/thebtf/beacon/pkg/models"
)

// Route describes what to do for a given event kind.
type Route struct {
	Log   bool   // write to the append-only log
	Chat  bool   // post to the chat channel
	Ping  bool   // attention-seeking post (@mention) vs. silent
	Glyph string // per-kind marker prefixed to the chat message
}

// RouteFor maps an event kind to its route. The switch is exhaustive
// over the closed kind set; a new kind must be added here to compile
// into a meaningful notification.
func RouteFor(kind models.EventKind) Route {
	switch kind {
	case models.KindSessionPause:
		return Route{Log: true, Chat: true, Ping: true, Glyph: "🟡"}
	case models.KindApprovalNeeded:
		return Route{Log: true, Chat: true, Ping: true, Glyph: "🔔"}
	case models.KindUserMessageSubmitted:
		return Route{Log: true, Chat: true, Ping: false, Glyph: "💬"}
	case models.KindToolCompleted:
		return Route{Log: true, Chat: true, Ping: false, Glyph: "🔵"}
	case models.KindSessionEnded:
		return Route{Log: true, Chat: true, Ping: false, Glyph: "⚫"}
	}
	return Route{Log: true, Glyph: "⚪"}
}

// Compose builds the chat message body: marker glyph, mention when
// pinging, then the resolved description — nothing else. The channel
// identity already encodes the repository and the platform timestamps
// messages.
func Compose(route Route, mention, description string) string {
	if route.Ping && mention != "" {
		return route.Glyph + " " + mention + " " + description
	}
	return route.Glyph + " " + description
}
