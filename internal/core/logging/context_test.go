package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithSessionID(t *testing.T) {
	ctx := WithSessionID(context.Background(), "test-session-123")

	assert.Equal(t, "test-session-123", GetSessionID(ctx))
}

func TestWithCommand(t *testing.T) {
	ctx := WithCommand(context.Background(), "save")

	assert.Equal(t, "save", GetCommand(ctx))
}

func TestContextValues_NotPresent(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetSessionID(ctx))
	assert.Empty(t, GetCommand(ctx))
}

func TestContextValues_Both(t *testing.T) {
	ctx := WithSessionID(context.Background(), "session-1")
	ctx = WithCommand(ctx, "open")

	assert.Equal(t, "session-1", GetSessionID(ctx))
	assert.Equal(t, "open", GetCommand(ctx))
}
