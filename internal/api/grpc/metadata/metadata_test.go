package metadata

import (
	"context"
	"testing"

	grpcmetadata "google.golang.org/grpc/metadata"
)

func TestOwnerTokenRoundTrip(t *testing.T) {
	ctx := WithOwnerToken(context.Background(), "token-123")
	md, ok := grpcmetadata.FromOutgoingContext(ctx)
	if !ok {
		t.Fatal("expected outgoing metadata")
	}
	incoming := grpcmetadata.NewIncomingContext(context.Background(), md)
	if got := OwnerTokenFromContext(incoming); got != "token-123" {
		t.Fatalf("token = %q, want token-123", got)
	}
}

func TestWithOwnerTokenSkipsEmpty(t *testing.T) {
	ctx := WithOwnerToken(context.Background(), "   ")
	if _, ok := grpcmetadata.FromOutgoingContext(ctx); ok {
		t.Fatal("empty token should not attach metadata")
	}
}

func TestOwnerTokenFromContextWithoutMetadata(t *testing.T) {
	if got := OwnerTokenFromContext(context.Background()); got != "" {
		t.Fatalf("token = %q, want empty", got)
	}
}
