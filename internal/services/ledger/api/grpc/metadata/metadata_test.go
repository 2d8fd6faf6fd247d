package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/louisbranch/stakes.space/internal/platform/requestctx"
	"google.golang.org/grpc/metadata"
)

func TestIsPrintableASCII(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "", want: false},
		{value: "hello", want: true},
		{value: "line\n", want: false},
		{value: string([]byte{0x7f}), want: false},
	}
	for _, tt := range tests {
		if got := IsPrintableASCII(tt.value); got != tt.want {
			t.Fatalf("IsPrintableASCII(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestFirstMetadataValue(t *testing.T) {
	md := metadata.MD{"X-Stakes-Space-Caller": {"\n", "alice"}}
	if got := FirstMetadataValue(md, CallerHeader); got != "alice" {
		t.Fatalf("caller = %q, want alice", got)
	}
	if got := FirstMetadataValue(metadata.MD{}, CallerHeader); got != "" {
		t.Fatalf("caller = %q, want empty", got)
	}
}

func TestEnsureRequestMetadataKeepsIncoming(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		RequestIDHeader, "req-1",
		CallerHeader, " alice ",
	))
	updated, requestID, err := ensureRequestMetadata(ctx, func() (string, error) {
		t.Fatal("generator should not run")
		return "", nil
	})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if requestID != "req-1" || requestctx.RequestIDFromContext(updated) != "req-1" {
		t.Fatalf("request id = %q", requestID)
	}
	if got := requestctx.CallerFromContext(updated); got != "alice" {
		t.Fatalf("caller = %q, want alice", got)
	}
}

func TestEnsureRequestMetadataGeneratesID(t *testing.T) {
	updated, requestID, err := ensureRequestMetadata(context.Background(), func() (string, error) {
		return "generated", nil
	})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if requestID != "generated" || requestctx.RequestIDFromContext(updated) != "generated" {
		t.Fatalf("request id = %q", requestID)
	}
	if requestctx.CallerFromContext(updated) != "" {
		t.Fatal("expected no caller")
	}
}

func TestEnsureRequestMetadataGeneratorFailure(t *testing.T) {
	_, _, err := ensureRequestMetadata(context.Background(), func() (string, error) {
		return "", errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected generator error")
	}
}

func TestOutgoingContext(t *testing.T) {
	ctx := requestctx.WithRequestID(context.Background(), "req-9")
	ctx = OutgoingContext(ctx, "bob", "pt-BR")
	md, ok := metadata.FromOutgoingContext(ctx)
	if !ok {
		t.Fatal("expected outgoing metadata")
	}
	if got := FirstMetadataValue(md, CallerHeader); got != "bob" {
		t.Fatalf("caller = %q", got)
	}
	if got := FirstMetadataValue(md, LocaleHeader); got != "pt-BR" {
		t.Fatalf("locale = %q", got)
	}
	if got := FirstMetadataValue(md, RequestIDHeader); got != "req-9" {
		t.Fatalf("request id = %q", got)
	}

	plain := context.Background()
	if OutgoingContext(plain, "", "") != plain {
		t.Fatal("expected context unchanged without values")
	}
}

func TestEnsureRequestMetadataReplacesUnusableID(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "bad id"))
	_, requestID, err := ensureRequestMetadata(ctx, func() (string, error) {
		return "req-fresh", nil
	})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if requestID != "req-fresh" {
		t.Fatalf("request id = %q, want req-fresh", requestID)
	}
}
