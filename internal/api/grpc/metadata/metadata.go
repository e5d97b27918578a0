// Package metadata defines the gRPC headers that carry caller credentials to
// the node store service.
package metadata

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"
)

// OwnerTokenHeader is the gRPC metadata key for owner tokens.
const OwnerTokenHeader = "x-permastore-owner-token"

// WithOwnerToken returns a context with owner-token gRPC metadata when token
// is non-empty.
func WithOwnerToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, OwnerTokenHeader, token)
}

// OwnerTokenFromContext returns the owner token from incoming metadata.
func OwnerTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(OwnerTokenHeader)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
