package condense

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thebtf/beacon/internal/describe"
)

func TestCondenseWithoutCredentials(t *testing.T) {
	c := New("", "claude-3-5-haiku-latest")
	_, err := c.Condense(context.Background(), "some long text", 300)
	assert.ErrorIs(t, err, describe.ErrUnavailable)
}
