package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

// GoalSetInput represents the MCP tool input for creating a goal.
type GoalSetInput struct {
	Caller        string            `json:"caller,omitempty" jsonschema:"author account (defaults to the context caller)"`
	Description   string            `json:"description" jsonschema:"what the author commits to"`
	Stake         uint64            `json:"stake" jsonschema:"amount locked in escrow until settlement"`
	AttachedFunds uint64            `json:"attached_funds,omitempty" jsonschema:"funds attached to the call (defaults to stake)"`
	Deadline      string            `json:"deadline" jsonschema:"RFC3339 deadline in the future"`
	Requirement   string            `json:"requirement,omitempty" jsonschema:"optional verification requirement tag such as STEPS or ANY_PROOF"`
	Evidence      map[string]string `json:"evidence,omitempty" jsonschema:"optional initial verification evidence"`
}

// GoalSetResult represents the MCP tool output for creating a goal.
type GoalSetResult struct {
	GoalID uint64 `json:"goal_id" jsonschema:"new goal identifier"`
}

// GoalGetInput identifies a goal.
type GoalGetInput struct {
	GoalID uint64 `json:"goal_id" jsonschema:"goal identifier"`
}

// GoalResult is a goal summary.
type GoalResult struct {
	ID          uint64 `json:"id" jsonschema:"goal identifier"`
	Author      string `json:"author" jsonschema:"author account"`
	Description string `json:"description" jsonschema:"goal description"`
	Stake       uint64 `json:"stake" jsonschema:"staked amount"`
	Deadline    string `json:"deadline" jsonschema:"RFC3339 deadline"`
	Requirement string `json:"requirement,omitempty" jsonschema:"verification requirement tag"`
	Status      string `json:"status" jsonschema:"open, achieved or failed"`
	ProofURI    string `json:"proof_uri,omitempty" jsonschema:"latest proof URI"`
	ProofCount  int32  `json:"proof_count" jsonschema:"number of proofs posted"`
	CreatedAt   string `json:"created_at" jsonschema:"RFC3339 creation time"`
	ClosedAt    string `json:"closed_at,omitempty" jsonschema:"RFC3339 settlement time"`
}

// GoalListInput pages through goals.
type GoalListInput struct {
	PageSize  int32  `json:"page_size,omitempty" jsonschema:"maximum goals to return (default 50, max 200)"`
	PageToken string `json:"page_token,omitempty" jsonschema:"token from a previous page"`
	Filter    string `json:"filter,omitempty" jsonschema:"AIP-160 filter over id, author, stake, requirement, status and deadline"`
}

// GoalListResult is a page of goals.
type GoalListResult struct {
	Goals         []GoalResult `json:"goals" jsonschema:"goals in id order"`
	NextPageToken string       `json:"next_page_token,omitempty" jsonschema:"token for the next page"`
}

// ProofPostInput represents the MCP tool input for posting a proof.
type ProofPostInput struct {
	Caller string `json:"caller,omitempty" jsonschema:"author account (defaults to the context caller)"`
	GoalID uint64 `json:"goal_id" jsonschema:"goal identifier"`
	URI    string `json:"uri" jsonschema:"proof URI"`
}

// ProofPostResult reports the posted proof.
type ProofPostResult struct {
	GoalID uint64 `json:"goal_id" jsonschema:"goal identifier"`
	URI    string `json:"uri" jsonschema:"proof URI"`
}

// VerificationAddInput represents the MCP tool input for adding evidence.
type VerificationAddInput struct {
	Caller   string            `json:"caller,omitempty" jsonschema:"author account (defaults to the context caller)"`
	GoalID   uint64            `json:"goal_id" jsonschema:"goal identifier"`
	Evidence map[string]string `json:"evidence" jsonschema:"evidence keys and values"`
}

// VerificationAddResult reports the verification outcome after evaluation.
type VerificationAddResult struct {
	GoalID  uint64 `json:"goal_id" jsonschema:"goal identifier"`
	Outcome string `json:"outcome" jsonschema:"pending, achieved or failed"`
}

// GoalCloseInput represents the MCP tool input for settling a goal.
type GoalCloseInput struct {
	Caller   string `json:"caller,omitempty" jsonschema:"closing account (defaults to the context caller)"`
	GoalID   uint64 `json:"goal_id" jsonschema:"goal identifier"`
	Outcome  string `json:"outcome,omitempty" jsonschema:"empty to settle by deadline state, achieved or failed for author closes"`
	ProofURI string `json:"proof_uri,omitempty" jsonschema:"proof URI posted when closing as achieved"`
}

// PayoutResult is one settlement transfer.
type PayoutResult struct {
	Account string `json:"account" jsonschema:"receiving account"`
	Amount  uint64 `json:"amount" jsonschema:"transferred amount"`
	Reason  string `json:"reason" jsonschema:"payout reason"`
}

// SettlementResult reports how a goal settled.
type SettlementResult struct {
	GoalID   uint64         `json:"goal_id" jsonschema:"goal identifier"`
	Achieved bool           `json:"achieved" jsonschema:"whether the goal was achieved"`
	Payouts  []PayoutResult `json:"payouts" jsonschema:"transfers out of escrow"`
}

// GoalSetTool defines the MCP tool schema for creating goals.
func GoalSetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "goal_set",
		Description: "Creates a goal and locks its stake in escrow until the deadline",
	}
}

// GoalGetTool defines the MCP tool schema for reading a goal.
func GoalGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "goal_get",
		Description: "Returns a goal with its status and latest proof",
	}
}

// GoalListTool defines the MCP tool schema for listing goals.
func GoalListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "goal_list",
		Description: "Lists goals in id order with optional AIP-160 filtering",
	}
}

// ProofPostTool defines the MCP tool schema for posting proofs.
func ProofPostTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "proof_post",
		Description: "Posts a proof URI for an open goal; author only",
	}
}

// VerificationAddTool defines the MCP tool schema for adding evidence.
func VerificationAddTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "verification_add",
		Description: "Adds verification evidence to a goal and re-evaluates its requirement; author only",
	}
}

// GoalCloseTool defines the MCP tool schema for settling goals.
func GoalCloseTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "goal_close",
		Description: "Settles a goal and releases its escrow to the author, participants or treasury",
	}
}

// GoalSetHandler executes a goal creation request.
func GoalSetHandler(client LedgerClient, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[GoalSetInput, GoalSetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GoalSetInput) (*mcp.CallToolResult, GoalSetResult, error) {
		caller, err := resolveCaller(input.Caller, getContext)
		if err != nil {
			return nil, GoalSetResult{}, err
		}
		deadline, err := time.Parse(time.RFC3339, strings.TrimSpace(input.Deadline))
		if err != nil {
			return nil, GoalSetResult{}, fmt.Errorf("deadline must be RFC3339: %w", err)
		}
		funds := input.AttachedFunds
		if funds == 0 {
			funds = input.Stake
		}
		keys, values := splitEvidence(input.Evidence)
		req := &ledgerv1.SetGoalRequest{
			Description:    input.Description,
			Stake:          input.Stake,
			AttachedFunds:  funds,
			Deadline:       deadline.Unix(),
			Requirement:    strings.TrimSpace(input.Requirement),
			EvidenceKeys:   keys,
			EvidenceValues: values,
		}
		response, meta, err := invoke(ctx, caller, grpcCallTimeout, "set goal", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.SetGoalResponse, error) {
			return client.SetGoal(ctx, req, opts...)
		})
		if err != nil {
			return nil, GoalSetResult{}, err
		}
		NotifyResourceUpdates(ctx, notify, GoalURI(response.GoalID))
		return CallToolResultWithMetadata(meta), GoalSetResult{GoalID: response.GoalID}, nil
	}
}

// GoalGetHandler reads one goal.
func GoalGetHandler(client LedgerClient) mcp.ToolHandlerFor[GoalGetInput, GoalResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GoalGetInput) (*mcp.CallToolResult, GoalResult, error) {
		response, meta, err := invoke(ctx, "", grpcCallTimeout, "get goal", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.Goal, error) {
			return client.GetGoal(ctx, &ledgerv1.GoalRequest{GoalID: input.GoalID}, opts...)
		})
		if err != nil {
			return nil, GoalResult{}, err
		}
		return CallToolResultWithMetadata(meta), goalFromLedger(*response), nil
	}
}

// GoalListHandler pages through goals.
func GoalListHandler(client LedgerClient) mcp.ToolHandlerFor[GoalListInput, GoalListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GoalListInput) (*mcp.CallToolResult, GoalListResult, error) {
		req := &ledgerv1.ListGoalsRequest{PageSize: input.PageSize, PageToken: input.PageToken, Filter: input.Filter}
		response, meta, err := invoke(ctx, "", grpcCallTimeout, "list goals", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.ListGoalsResponse, error) {
			return client.ListGoals(ctx, req, opts...)
		})
		if err != nil {
			return nil, GoalListResult{}, err
		}
		result := GoalListResult{Goals: make([]GoalResult, 0, len(response.Goals)), NextPageToken: response.NextPageToken}
		for _, g := range response.Goals {
			result.Goals = append(result.Goals, goalFromLedger(g))
		}
		return CallToolResultWithMetadata(meta), result, nil
	}
}

// ProofPostHandler posts a proof for the caller's goal.
func ProofPostHandler(client LedgerClient, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[ProofPostInput, ProofPostResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ProofPostInput) (*mcp.CallToolResult, ProofPostResult, error) {
		caller, err := resolveCaller(input.Caller, getContext)
		if err != nil {
			return nil, ProofPostResult{}, err
		}
		req := &ledgerv1.PostProofRequest{GoalID: input.GoalID, URI: input.URI}
		_, meta, err := invoke(ctx, caller, grpcCallTimeout, "post proof", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.Empty, error) {
			return client.PostProof(ctx, req, opts...)
		})
		if err != nil {
			return nil, ProofPostResult{}, err
		}
		NotifyResourceUpdates(ctx, notify, GoalURI(input.GoalID))
		return CallToolResultWithMetadata(meta), ProofPostResult{GoalID: input.GoalID, URI: input.URI}, nil
	}
}

// VerificationAddHandler adds evidence to the caller's goal.
func VerificationAddHandler(client LedgerClient, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[VerificationAddInput, VerificationAddResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input VerificationAddInput) (*mcp.CallToolResult, VerificationAddResult, error) {
		caller, err := resolveCaller(input.Caller, getContext)
		if err != nil {
			return nil, VerificationAddResult{}, err
		}
		if len(input.Evidence) == 0 {
			return nil, VerificationAddResult{}, fmt.Errorf("evidence is required")
		}
		keys, values := splitEvidence(input.Evidence)
		req := &ledgerv1.AddVerificationDataRequest{GoalID: input.GoalID, Keys: keys, Values: values}
		response, meta, err := invoke(ctx, caller, grpcCallTimeout, "add verification data", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.AddVerificationDataResponse, error) {
			return client.AddVerificationData(ctx, req, opts...)
		})
		if err != nil {
			return nil, VerificationAddResult{}, err
		}
		NotifyResourceUpdates(ctx, notify, GoalURI(input.GoalID))
		return CallToolResultWithMetadata(meta), VerificationAddResult{GoalID: input.GoalID, Outcome: response.Outcome}, nil
	}
}

// GoalCloseHandler settles a goal. An empty outcome settles by deadline state
// and anyone may call it; explicit outcomes are author closes.
func GoalCloseHandler(client LedgerClient, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[GoalCloseInput, SettlementResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GoalCloseInput) (*mcp.CallToolResult, SettlementResult, error) {
		caller, err := resolveCaller(input.Caller, getContext)
		if err != nil {
			return nil, SettlementResult{}, err
		}
		var call func(context.Context, ...grpc.CallOption) (*ledgerv1.Settlement, error)
		switch strings.ToLower(strings.TrimSpace(input.Outcome)) {
		case "":
			call = func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.Settlement, error) {
				return client.Close(ctx, &ledgerv1.CloseRequest{GoalID: input.GoalID}, opts...)
			}
		case "achieved":
			if strings.TrimSpace(input.ProofURI) == "" {
				return nil, SettlementResult{}, fmt.Errorf("proof_uri is required when closing as achieved")
			}
			call = func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.Settlement, error) {
				return client.CloseAsAchieved(ctx, &ledgerv1.CloseAsAchievedRequest{GoalID: input.GoalID, ProofURI: input.ProofURI}, opts...)
			}
		case "failed":
			call = func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.Settlement, error) {
				return client.CloseAsFailed(ctx, &ledgerv1.CloseRequest{GoalID: input.GoalID}, opts...)
			}
		default:
			return nil, SettlementResult{}, fmt.Errorf("outcome %q is not supported; use achieved, failed or leave empty", input.Outcome)
		}
		response, meta, err := invoke(ctx, caller, grpcLongCallTimeout, "close goal", call)
		if err != nil {
			return nil, SettlementResult{}, err
		}
		NotifyResourceUpdates(ctx, notify, GoalURI(input.GoalID))
		return CallToolResultWithMetadata(meta), settlementFromLedger(response), nil
	}
}

func goalFromLedger(g ledgerv1.Goal) GoalResult {
	result := GoalResult{
		ID:          g.ID,
		Author:      g.Author,
		Description: g.Description,
		Stake:       g.Stake,
		Deadline:    formatTime(time.Unix(g.Deadline, 0)),
		Requirement: g.Requirement,
		Status:      g.Status,
		ProofURI:    g.ProofURI,
		ProofCount:  g.ProofCount,
		CreatedAt:   formatTime(g.CreatedAt),
	}
	if g.ClosedAt != nil {
		result.ClosedAt = formatTime(*g.ClosedAt)
	}
	return result
}

func settlementFromLedger(s *ledgerv1.Settlement) SettlementResult {
	result := SettlementResult{GoalID: s.GoalID, Achieved: s.Achieved, Payouts: make([]PayoutResult, 0, len(s.Payouts))}
	for _, p := range s.Payouts {
		result.Payouts = append(result.Payouts, PayoutResult{Account: p.Account, Amount: p.Amount, Reason: p.Reason})
	}
	return result
}
