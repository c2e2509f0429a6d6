package utils

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type key int

const (
	// ctxRequestID context key for the request tracking id
	ctxRequestID key = iota
)

// WithRequestID attaches a new ULID request id to the context
func WithRequestID(ctx context.Context) (context.Context, string) {
	if id, ok := ctx.Value(ctxRequestID).(string); ok {
		return ctx, id
	}
	id := ulid.Make().String()
	return context.WithValue(ctx, ctxRequestID, id), id
}

// RequestID returns the request id attached to the context, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID).(string)
	return id
}
