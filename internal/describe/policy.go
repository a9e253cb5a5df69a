package describe

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Ellipsis is appended when a long description falls back to truncation.
const Ellipsis = "…"

// ErrUnavailable is returned by a Condenser whose capability is not
// configured (no credential). Timeouts surface as context errors.
var ErrUnavailable = errors.New("condenser unavailable")

// Condenser shortens text to roughly target characters. Implementations
// must honor ctx cancellation; the Policy imposes the deadline.
type Condenser interface {
	Condense(ctx context.Context, text string, target int) (string, error)
}

// Policy is the chat-sink length policy. It is a pure function of the
// input text and the condenser's outcome: verbatim under ShortThreshold,
// condensed above it, deterministic truncation on any condenser failure,
// and a hard cap after everything.
type Policy struct {
	ShortThreshold int
	CondenseTarget int
	MaxLength      int
	Timeout        time.Duration

	// Condenser may be nil, which behaves like ErrUnavailable.
	Condenser Condenser
}

// Apply resolves text to its chat form under the policy.
func (p Policy) Apply(ctx context.Context, text string) string {
	runes := []rune(text)
	if len(runes) <= p.ShortThreshold {
		return text
	}

	out, err := p.condense(ctx, text)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			log.Warn().Err(err).Msg("condensation failed, falling back to truncation")
		}
		out = truncateEllipsis(runes, p.ShortThreshold)
	}

	return hardCap(out, p.MaxLength)
}

func (p Policy) condense(ctx context.Context, text string) (string, error) {
	if p.Condenser == nil {
		return "", ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	out, err := p.Condenser.Condense(ctx, text, p.CondenseTarget)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", errors.New("condenser returned empty text")
	}
	return out, nil
}

// truncateEllipsis returns exactly n characters, the last of which is
// the ellipsis marker.
func truncateEllipsis(runes []rune, n int) string {
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n-1]) + Ellipsis
}

// hardCap enforces the absolute ceiling with a bare truncation.
func hardCap(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
