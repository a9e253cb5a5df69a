// Package channel maps repositories to chat channels, provisioning them
// on first use and caching the mapping across invocations.
package channel

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by FindChannelByName when no channel has
	// the given name.
	ErrNotFound = errors.New("channel not found")

	// ErrAlreadyExists is returned by CreatePrivateChannel when a
	// channel with that name already exists; callers fall back to lookup.
	ErrAlreadyExists = errors.New("channel already exists")

	// ErrChannelUnavailable means the chat platform could not serve this
	// event; the chat sink is skipped, never the whole pipeline.
	ErrChannelUnavailable = errors.New("chat platform unavailable")
)

// ChatClient is the thin capability interface over the chat platform.
// Implementations carry their own request timeouts.
type ChatClient interface {
	FindChannelByName(ctx context.Context, name string) (handle string, err error)
	CreatePrivateChannel(ctx context.Context, name string) (handle string, err error)
	InviteUser(ctx context.Context, handle, userID string) error
	PostMessage(ctx context.Context, handle, text string) error
}
