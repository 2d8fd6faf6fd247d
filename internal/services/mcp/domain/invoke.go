package domain

import (
	"context"
	"fmt"
	"sort"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Per-call deadlines for ledger RPCs. Settlement touches every participant
// and gets the longer one.
const (
	grpcCallTimeout     = 5 * time.Second
	grpcLongCallTimeout = 10 * time.Second
)

// invoke runs a ledger call under a timeout with correlation metadata and
// returns the merged response metadata.
func invoke[T any](ctx context.Context, caller string, timeout time.Duration, op string, call func(context.Context, ...grpc.CallOption) (T, error)) (T, ToolCallMetadata, error) {
	var zero T
	invocationID, err := NewInvocationID()
	if err != nil {
		return zero, ToolCallMetadata{}, fmt.Errorf("generate invocation id: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	callCtx, callMeta, err := NewOutgoingContext(runCtx, caller, invocationID)
	if err != nil {
		return zero, ToolCallMetadata{}, fmt.Errorf("create request metadata: %w", err)
	}
	var header metadata.MD
	response, err := call(callCtx, grpc.Header(&header))
	if err != nil {
		return zero, ToolCallMetadata{}, callError(op, err)
	}
	return response, MergeResponseMetadata(callMeta, header), nil
}

// splitEvidence flattens an evidence map into parallel key and value lists
// in key order.
func splitEvidence(evidence map[string]string) ([]string, []string) {
	if len(evidence) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(evidence))
	for key := range evidence {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	values := make([]string, 0, len(keys))
	for _, key := range keys {
		values = append(values, evidence[key])
	}
	return keys, values
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
