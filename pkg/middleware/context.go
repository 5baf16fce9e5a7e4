package middleware

import (
	"context"
	"encoding/hex"
	"math/rand"
)

type requestIDKey struct{}

func ContextWithRequestID(parentCtx context.Context, id string) context.Context {
	return context.WithValue(parentCtx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func nextRequestID() string {
	var b [16]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
