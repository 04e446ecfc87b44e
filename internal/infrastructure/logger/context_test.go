package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWithContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got)
}

func TestFromContext_Missing(t *testing.T) {
	got := FromContext(context.Background())
	assert.NotNil(t, got)
}

func TestWithRequestID(t *testing.T) {
	logger := zap.NewNop()
	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.NotNil(t, enriched)
	assert.Same(t, enriched, FromContext(ctx))
}

func TestWithUserID(t *testing.T) {
	logger := zap.NewNop()
	ctx, _ := WithUserID(context.Background(), logger, "user-42")

	assert.Equal(t, "user-42", GetUserID(ctx))
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestWithTraceContext_NoSpan(t *testing.T) {
	logger := zap.NewNop()
	got := WithTraceContext(context.Background(), logger)
	assert.Same(t, logger, got)
}
