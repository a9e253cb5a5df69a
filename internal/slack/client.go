// Package slack implements channel.ChatClient over the Slack Web API.
package slack

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	slackapi "github.com/slack-go/slack"

	"github.com/thebtf/beacon/internal/channel"
)

// conversationsPageSize is the Slack list-pagination page size.
const conversationsPageSize = 200

// Client is a thin Slack client with a bounded per-request timeout so a
// slow platform call can never exceed the hook's own deadline budget.
type Client struct {
	api *slackapi.Client
}

// New creates a Slack client from a bot token.
func New(token string, timeout time.Duration) *Client {
	return &Client{
		api: slackapi.New(token, slackapi.OptionHTTPClient(&http.Client{Timeout: timeout})),
	}
}

// FindChannelByName pages through the bot's visible conversations
// looking for an exact name match.
func (c *Client) FindChannelByName(ctx context.Context, name string) (string, error) {
	params := &slackapi.GetConversationsParameters{
		Types:           []string{"private_channel", "public_channel"},
		Limit:           conversationsPageSize,
		ExcludeArchived: true,
	}

	for {
		channels, cursor, err := c.api.GetConversationsContext(ctx, params)
		if err != nil {
			return "", fmt.Errorf("list conversations: %w", err)
		}
		for _, ch := range channels {
			if ch.Name == name {
				return ch.ID, nil
			}
		}
		if cursor == "" {
			return "", channel.ErrNotFound
		}
		params.Cursor = cursor
	}
}

// CreatePrivateChannel creates a private channel with the given name.
func (c *Client) CreatePrivateChannel(ctx context.Context, name string) (string, error) {
	ch, err := c.api.CreateConversationContext(ctx, slackapi.CreateConversationParams{
		ChannelName: name,
		IsPrivate:   true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "name_taken") {
			return "", channel.ErrAlreadyExists
		}
		return "", fmt.Errorf("create conversation: %w", err)
	}
	return ch.ID, nil
}

// InviteUser invites userID into the channel. Inviting a member who is
// already present is treated as success.
func (c *Client) InviteUser(ctx context.Context, handle, userID string) error {
	_, err := c.api.InviteUsersToConversationContext(ctx, handle, userID)
	if err != nil && !strings.Contains(err.Error(), "already_in_channel") {
		return fmt.Errorf("invite user: %w", err)
	}
	return nil
}

// PostMessage posts text to the channel. Mentions, when wanted, are
// already composed into the text by the dispatch policy.
func (c *Client) PostMessage(ctx context.Context, handle, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, handle, slackapi.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	return nil
}

// Mention formats an attention-seeking reference to a user.
func Mention(userID string) string {
	return "<@" + userID + ">"
}
