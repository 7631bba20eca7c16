package util

import (
	"context"

	"github.com/google/uuid"
)

// WithRunID returns a context carrying the id of one replay/aggregation run.
// A new uuid-v4 is generated when id is empty.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, runIDKey, id)
}

// GetRunID returns the run id from context, empty if not present.
func GetRunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}
