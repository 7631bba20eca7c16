package util

import (
	"context"
)

type key string

const (
	streamIDKey = key("stream-id")
	runIDKey    = key("run-id")
)

// WithStreamID returns a context tagged with the logical stream (usually the symbol)
// a rule instance aggregates.
func WithStreamID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, streamIDKey, id)
}

// GetStreamID returns the stream id from context, empty if not present.
func GetStreamID(ctx context.Context) string {
	id, _ := ctx.Value(streamIDKey).(string)
	return id
}

// Fields returns the key-value pairs this package has set into ctx.
func Fields(ctx context.Context) map[string]any {
	return map[string]any{
		"run_id":    GetRunID(ctx),
		"stream_id": GetStreamID(ctx),
	}
}
