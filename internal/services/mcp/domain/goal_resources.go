package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

const goalURIPrefix = "goal://"

// GoalURI returns the resource URI of a goal.
func GoalURI(goalID uint64) string {
	return goalURIPrefix + strconv.FormatUint(goalID, 10)
}

// GoalResourceTemplate describes the readable goal detail resource.
func GoalResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "goal",
		Title:       "Goal",
		Description: "Goal detail with escrow, verification, proofs, participants and board. URI format: goal://{goal_id}",
		MIMEType:    "application/json",
		URITemplate: "goal://{goal_id}",
	}
}

// GoalPayload is the JSON body of a goal resource.
type GoalPayload struct {
	Goal         GoalResult          `json:"goal"`
	Escrow       EscrowPayload       `json:"escrow"`
	Verification VerificationPayload `json:"verification"`
	Proofs       []ProofPayload      `json:"proofs"`
	Watchers     []ParticipantResult `json:"watchers"`
	Motivators   []ParticipantResult `json:"motivators"`
	Messages     []MessageResult     `json:"messages"`
}

type EscrowPayload struct {
	Locked   uint64 `json:"locked"`
	Released bool   `json:"released"`
}

type VerificationPayload struct {
	Requirement string            `json:"requirement,omitempty"`
	Outcome     string            `json:"outcome"`
	Evidence    map[string]string `json:"evidence,omitempty"`
}

type ProofPayload struct {
	Index    uint64 `json:"index"`
	URI      string `json:"uri"`
	PostedAt string `json:"posted_at"`
}

// GoalResourceHandler renders a goal resource from several ledger reads.
func GoalResourceHandler(client LedgerClient) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if client == nil {
			return nil, fmt.Errorf("goal resource client is not configured")
		}
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("goal ID is required; use URI format goal://{goal_id}")
		}
		uri := req.Params.URI
		goalID, err := parseGoalIDFromURI(uri)
		if err != nil {
			return nil, fmt.Errorf("parse goal ID from URI: %w", err)
		}
		payload, err := loadGoalPayload(ctx, client, goalID)
		if err != nil {
			return nil, err
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal goal: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: uri, MIMEType: "application/json", Text: string(data)},
			},
		}, nil
	}
}

func loadGoalPayload(ctx context.Context, client LedgerClient, goalID uint64) (GoalPayload, error) {
	req := &ledgerv1.GoalRequest{GoalID: goalID}
	goal, _, err := invoke(ctx, "", grpcCallTimeout, "get goal", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.Goal, error) {
		return client.GetGoal(ctx, req, opts...)
	})
	if err != nil {
		return GoalPayload{}, err
	}
	escrow, _, err := invoke(ctx, "", grpcCallTimeout, "get escrow", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.Escrow, error) {
		return client.GetEscrow(ctx, req, opts...)
	})
	if err != nil {
		return GoalPayload{}, err
	}
	verification, _, err := invoke(ctx, "", grpcCallTimeout, "get verification status", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.Verification, error) {
		return client.GetVerificationStatus(ctx, req, opts...)
	})
	if err != nil {
		return GoalPayload{}, err
	}
	proofs, _, err := invoke(ctx, "", grpcCallTimeout, "get proofs", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.ListProofsResponse, error) {
		return client.GetProofs(ctx, req, opts...)
	})
	if err != nil {
		return GoalPayload{}, err
	}
	watchers, _, err := invoke(ctx, "", grpcCallTimeout, "get watchers", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.ListParticipantsResponse, error) {
		return client.GetWatchers(ctx, req, opts...)
	})
	if err != nil {
		return GoalPayload{}, err
	}
	motivators, _, err := invoke(ctx, "", grpcCallTimeout, "get motivators", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.ListParticipantsResponse, error) {
		return client.GetMotivators(ctx, req, opts...)
	})
	if err != nil {
		return GoalPayload{}, err
	}
	messages, _, err := invoke(ctx, "", grpcCallTimeout, "get messages", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.ListMessagesResponse, error) {
		return client.GetMessages(ctx, req, opts...)
	})
	if err != nil {
		return GoalPayload{}, err
	}

	payload := GoalPayload{
		Goal:   goalFromLedger(*goal),
		Escrow: EscrowPayload{Locked: escrow.Locked, Released: escrow.Released},
		Verification: VerificationPayload{
			Requirement: verification.Requirement,
			Outcome:     verification.Outcome,
		},
		Proofs:     make([]ProofPayload, 0, len(proofs.Proofs)),
		Watchers:   participantsFromLedger(watchers.Participants),
		Motivators: participantsFromLedger(motivators.Participants),
		Messages:   messagesFromLedger(messages.Messages),
	}
	if len(verification.Evidence) > 0 {
		payload.Verification.Evidence = make(map[string]string, len(verification.Evidence))
		for _, e := range verification.Evidence {
			payload.Verification.Evidence[e.Key] = e.Value
		}
	}
	for _, p := range proofs.Proofs {
		payload.Proofs = append(payload.Proofs, ProofPayload{Index: p.Index, URI: p.URI, PostedAt: formatTime(p.PostedAt)})
	}
	return payload, nil
}

func parseGoalIDFromURI(uri string) (uint64, error) {
	if !strings.HasPrefix(uri, goalURIPrefix) {
		return 0, fmt.Errorf("URI must start with %q", goalURIPrefix)
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(uri, goalURIPrefix), "/")
	goalID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || goalID == 0 {
		return 0, fmt.Errorf("goal ID %q must be a positive integer", raw)
	}
	return goalID, nil
}
