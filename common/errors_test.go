package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpstreamError(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := fmt.Errorf("resolve: %w", NewUpstreamError("search channels", cause))

	assert.True(t, errors.Is(err, ErrUpstream))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "resolve: search channels: quota exceeded", err.Error())

	var upstream *UpstreamError
	assert.True(t, errors.As(err, &upstream))
	assert.Equal(t, "search channels", upstream.Op)
}

func TestUpstreamError_Timeout(t *testing.T) {
	err := NewUpstreamError("list videos", context.DeadlineExceeded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestUpstreamError_NilCause(t *testing.T) {
	assert.Equal(t, "fetch: upstream failure", NewUpstreamError("fetch", nil).Error())
}
