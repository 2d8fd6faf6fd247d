package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/platform/id"
	"github.com/louisbranch/stakes.space/internal/platform/requestctx"
	grpcmeta "github.com/louisbranch/stakes.space/internal/services/ledger/api/grpc/metadata"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// invocationMetaKey labels the tool invocation in result metadata.
const invocationMetaKey = "x-stakes-space-invocation-id"

// LedgerClient is the subset of the ledger gRPC client used by MCP tools.
type LedgerClient interface {
	SetGoal(ctx context.Context, in *ledgerv1.SetGoalRequest, opts ...grpc.CallOption) (*ledgerv1.SetGoalResponse, error)
	PostProof(ctx context.Context, in *ledgerv1.PostProofRequest, opts ...grpc.CallOption) (*ledgerv1.Empty, error)
	AddVerificationData(ctx context.Context, in *ledgerv1.AddVerificationDataRequest, opts ...grpc.CallOption) (*ledgerv1.AddVerificationDataResponse, error)
	Close(ctx context.Context, in *ledgerv1.CloseRequest, opts ...grpc.CallOption) (*ledgerv1.Settlement, error)
	CloseAsAchieved(ctx context.Context, in *ledgerv1.CloseAsAchievedRequest, opts ...grpc.CallOption) (*ledgerv1.Settlement, error)
	CloseAsFailed(ctx context.Context, in *ledgerv1.CloseRequest, opts ...grpc.CallOption) (*ledgerv1.Settlement, error)
	Watch(ctx context.Context, in *ledgerv1.JoinRequest, opts ...grpc.CallOption) (*ledgerv1.Empty, error)
	BecomeMotivator(ctx context.Context, in *ledgerv1.JoinRequest, opts ...grpc.CallOption) (*ledgerv1.Empty, error)
	AcceptWatcher(ctx context.Context, in *ledgerv1.AcceptRequest, opts ...grpc.CallOption) (*ledgerv1.Empty, error)
	AcceptMotivator(ctx context.Context, in *ledgerv1.AcceptRequest, opts ...grpc.CallOption) (*ledgerv1.Empty, error)
	PostMessage(ctx context.Context, in *ledgerv1.PostMessageRequest, opts ...grpc.CallOption) (*ledgerv1.PostMessageResponse, error)
	EvaluateMessage(ctx context.Context, in *ledgerv1.EvaluateMessageRequest, opts ...grpc.CallOption) (*ledgerv1.Empty, error)
	SetProfile(ctx context.Context, in *ledgerv1.SetProfileRequest, opts ...grpc.CallOption) (*ledgerv1.Empty, error)
	GetGoal(ctx context.Context, in *ledgerv1.GoalRequest, opts ...grpc.CallOption) (*ledgerv1.Goal, error)
	GetVerificationStatus(ctx context.Context, in *ledgerv1.GoalRequest, opts ...grpc.CallOption) (*ledgerv1.Verification, error)
	GetProofs(ctx context.Context, in *ledgerv1.GoalRequest, opts ...grpc.CallOption) (*ledgerv1.ListProofsResponse, error)
	GetMessages(ctx context.Context, in *ledgerv1.GoalRequest, opts ...grpc.CallOption) (*ledgerv1.ListMessagesResponse, error)
	GetWatchers(ctx context.Context, in *ledgerv1.GoalRequest, opts ...grpc.CallOption) (*ledgerv1.ListParticipantsResponse, error)
	GetMotivators(ctx context.Context, in *ledgerv1.GoalRequest, opts ...grpc.CallOption) (*ledgerv1.ListParticipantsResponse, error)
	GetEscrow(ctx context.Context, in *ledgerv1.GoalRequest, opts ...grpc.CallOption) (*ledgerv1.Escrow, error)
	GetAccountReputation(ctx context.Context, in *ledgerv1.AccountRequest, opts ...grpc.CallOption) (*ledgerv1.Reputation, error)
	GetMotivatorReputation(ctx context.Context, in *ledgerv1.AccountRequest, opts ...grpc.CallOption) (*ledgerv1.MotivatorReputation, error)
	GetBalance(ctx context.Context, in *ledgerv1.AccountRequest, opts ...grpc.CallOption) (*ledgerv1.BalanceResponse, error)
	ListGoals(ctx context.Context, in *ledgerv1.ListGoalsRequest, opts ...grpc.CallOption) (*ledgerv1.ListGoalsResponse, error)
	GetSettings(ctx context.Context, in *ledgerv1.Empty, opts ...grpc.CallOption) (*ledgerv1.Settings, error)
}

// ToolCallMetadata carries correlation identifiers for MCP tool calls.
type ToolCallMetadata struct {
	RequestID    string
	InvocationID string
}

// ResourceUpdateNotifier notifies MCP clients about resource updates.
type ResourceUpdateNotifier func(ctx context.Context, uri string)

// NewInvocationID generates an invocation identifier for a tool call.
func NewInvocationID() (string, error) {
	return id.NewID()
}

// NewOutgoingContext attaches the caller and a fresh request ID to a context.
func NewOutgoingContext(ctx context.Context, caller, invocationID string) (context.Context, ToolCallMetadata, error) {
	requestID, err := id.NewID()
	if err != nil {
		return nil, ToolCallMetadata{}, err
	}
	callCtx := grpcmeta.OutgoingContext(requestctx.WithRequestID(ctx, requestID), caller, "")
	return callCtx, ToolCallMetadata{RequestID: requestID, InvocationID: invocationID}, nil
}

// MergeResponseMetadata overlays response headers on top of sent metadata.
func MergeResponseMetadata(sent ToolCallMetadata, header metadata.MD) ToolCallMetadata {
	requestID := grpcmeta.FirstMetadataValue(header, grpcmeta.RequestIDHeader)
	if requestID == "" {
		requestID = sent.RequestID
	}
	return ToolCallMetadata{RequestID: requestID, InvocationID: sent.InvocationID}
}

// CallToolResultWithMetadata builds a tool result with correlation metadata.
func CallToolResultWithMetadata(meta ToolCallMetadata) *mcp.CallToolResult {
	result := &mcp.CallToolResult{
		Meta: map[string]any{
			grpcmeta.RequestIDHeader: meta.RequestID,
		},
	}
	if meta.InvocationID != "" {
		result.Meta[invocationMetaKey] = meta.InvocationID
	}
	return result
}

// NotifyResourceUpdates sends resource update notifications for each URI provided.
func NotifyResourceUpdates(ctx context.Context, notify ResourceUpdateNotifier, uris ...string) {
	if notify == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for _, uri := range uris {
		if strings.TrimSpace(uri) == "" {
			continue
		}
		notify(ctx, uri)
	}
}

// callError describes a failed ledger call, keeping the ledger reason code
// visible to the model.
func callError(op string, err error) error {
	domainErr := apperrors.FromGRPCStatus(err)
	var appErr *apperrors.Error
	if errors.As(domainErr, &appErr) {
		return fmt.Errorf("%s failed: %s: %w", op, appErr.Code, appErr)
	}
	if st, ok := status.FromError(err); ok {
		return fmt.Errorf("%s failed: %s: %s", op, st.Code(), st.Message())
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
