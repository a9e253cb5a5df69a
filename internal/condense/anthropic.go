// Package condense implements the summarization capability over the
// Anthropic API. The pipeline treats it as best-effort: any error here
// is converted to a truncation fallback by the length policy.
package condense

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/thebtf/beacon/internal/describe"
)

// Client condenses text via the Anthropic Messages API.
type Client struct {
	client anthropic.Client
	model  string
}

// New creates a condenser. An empty apiKey returns a client whose
// Condense always reports describe.ErrUnavailable.
func New(apiKey, model string) *Client {
	if apiKey == "" {
		return &Client{}
	}
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Condense asks the model to shorten text to roughly target characters.
// The caller's ctx carries the deadline.
func (c *Client) Condense(ctx context.Context, text string, target int) (string, error) {
	if c.model == "" {
		return "", describe.ErrUnavailable
	}

	prompt := fmt.Sprintf(
		"Condense the following status message to at most %d characters. "+
			"Keep the concrete action and any file or command names. "+
			"Reply with the condensed text only, no quotes.\n\n%s",
		target, text,
	)

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(target/2 + 64),
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			{
				Role:    anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(prompt)},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("condense request: %w", err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}

	return strings.Trim(strings.TrimSpace(out.String()), `"'`), nil
}
