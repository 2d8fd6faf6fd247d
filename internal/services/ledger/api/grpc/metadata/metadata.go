package metadata

import (
	"context"
	"strings"

	"github.com/louisbranch/stakes.space/internal/platform/id"
	"github.com/louisbranch/stakes.space/internal/platform/requestctx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	// CallerHeader carries the calling account.
	CallerHeader = "x-stakes-space-caller"
	// RequestIDHeader carries the request correlation ID.
	RequestIDHeader = "x-stakes-space-request-id"
	// LocaleHeader carries the preferred locale for error messages.
	LocaleHeader = "x-stakes-space-locale"
)

// IsPrintableASCII reports whether a string contains only printable ASCII characters.
func IsPrintableASCII(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}

// FirstMetadataValue returns the first printable ASCII metadata value for a key.
func FirstMetadataValue(md metadata.MD, key string) string {
	if len(md) == 0 {
		return ""
	}
	for mdKey, values := range md {
		if !strings.EqualFold(mdKey, key) {
			continue
		}
		for _, value := range values {
			if IsPrintableASCII(value) {
				return value
			}
		}
	}
	return ""
}

// LocaleFromContext returns the locale requested by the caller.
func LocaleFromContext(ctx context.Context) string {
	return incomingValue(ctx, LocaleHeader)
}

// OutgoingContext attaches the caller and optional locale to outbound calls.
func OutgoingContext(ctx context.Context, caller, locale string) context.Context {
	pairs := make([]string, 0, 6)
	if caller != "" {
		pairs = append(pairs, CallerHeader, caller)
	}
	if locale != "" {
		pairs = append(pairs, LocaleHeader, locale)
	}
	if requestID := requestctx.RequestIDFromContext(ctx); requestID != "" {
		pairs = append(pairs, RequestIDHeader, requestID)
	}
	if len(pairs) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...)
}

// UnaryServerInterceptor copies the caller into context and guarantees every
// call carries a request ID, echoing it in the response headers.
func UnaryServerInterceptor(idGenerator func() (string, error)) grpc.UnaryServerInterceptor {
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		updatedCtx, requestID, err := ensureRequestMetadata(ctx, idGenerator)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "ensure request metadata: %v", err)
		}
		if err := grpc.SetHeader(updatedCtx, metadata.Pairs(RequestIDHeader, requestID)); err != nil {
			return nil, status.Errorf(codes.Internal, "set response metadata: %v", err)
		}
		return handler(updatedCtx, req)
	}
}

func ensureRequestMetadata(ctx context.Context, idGenerator func() (string, error)) (context.Context, string, error) {
	requestID := incomingValue(ctx, RequestIDHeader)
	if !id.Valid(requestID) {
		generatedID, err := idGenerator()
		if err != nil {
			return nil, "", err
		}
		requestID = generatedID
	}
	updatedCtx := requestctx.WithRequestID(ctx, requestID)
	if caller := strings.TrimSpace(incomingValue(ctx, CallerHeader)); caller != "" {
		updatedCtx = requestctx.WithCaller(updatedCtx, caller)
	}
	return updatedCtx, requestID, nil
}

func incomingValue(ctx context.Context, header string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	return FirstMetadataValue(md, header)
}
