package domain

import (
	"context"
	"fmt"
	"strings"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

const (
	roleWatcher   = "watcher"
	roleMotivator = "motivator"
)

// GoalJoinInput represents the MCP tool input for joining a goal.
type GoalJoinInput struct {
	Caller       string `json:"caller,omitempty" jsonschema:"joining account (defaults to the context caller)"`
	GoalID       uint64 `json:"goal_id" jsonschema:"goal identifier"`
	Role         string `json:"role" jsonschema:"watcher or motivator"`
	ExtraDataURI string `json:"extra_data_uri,omitempty" jsonschema:"optional URI with participant notes"`
}

// GoalJoinResult reports the pending participation.
type GoalJoinResult struct {
	GoalID  uint64 `json:"goal_id" jsonschema:"goal identifier"`
	Account string `json:"account" jsonschema:"joined account"`
	Role    string `json:"role" jsonschema:"participant role"`
}

// ParticipantAcceptInput represents the MCP tool input for accepting a participant.
type ParticipantAcceptInput struct {
	Caller  string `json:"caller,omitempty" jsonschema:"goal author (defaults to the context caller)"`
	GoalID  uint64 `json:"goal_id" jsonschema:"goal identifier"`
	Account string `json:"account" jsonschema:"participant to accept"`
	Role    string `json:"role" jsonschema:"watcher or motivator"`
}

// ParticipantListInput selects participants of one role.
type ParticipantListInput struct {
	GoalID uint64 `json:"goal_id" jsonschema:"goal identifier"`
	Role   string `json:"role" jsonschema:"watcher or motivator"`
}

// ParticipantResult is one participant of a goal.
type ParticipantResult struct {
	Account          string `json:"account" jsonschema:"participant account"`
	Role             string `json:"role" jsonschema:"watcher or motivator"`
	ExtraDataURI     string `json:"extra_data_uri,omitempty" jsonschema:"participant notes URI"`
	Accepted         bool   `json:"accepted" jsonschema:"whether the author accepted the participant"`
	Motivations      uint64 `json:"motivations" jsonschema:"messages evaluated as motivating"`
	SuperMotivations uint64 `json:"super_motivations" jsonschema:"messages evaluated as super motivating"`
	JoinedAt         string `json:"joined_at" jsonschema:"RFC3339 join time"`
}

// ParticipantListResult lists participants in join order.
type ParticipantListResult struct {
	Participants []ParticipantResult `json:"participants" jsonschema:"participants in join order"`
}

// GoalJoinTool defines the MCP tool schema for joining goals.
func GoalJoinTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "goal_join",
		Description: "Joins a goal as a watcher or motivator, pending the author's acceptance",
	}
}

// ParticipantAcceptTool defines the MCP tool schema for accepting participants.
func ParticipantAcceptTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "participant_accept",
		Description: "Accepts a pending watcher or motivator; author only",
	}
}

// ParticipantListTool defines the MCP tool schema for listing participants.
func ParticipantListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "participant_list",
		Description: "Lists the watchers or motivators of a goal",
	}
}

// GoalJoinHandler executes a join request for the caller.
func GoalJoinHandler(client LedgerClient, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[GoalJoinInput, GoalJoinResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GoalJoinInput) (*mcp.CallToolResult, GoalJoinResult, error) {
		caller, err := resolveCaller(input.Caller, getContext)
		if err != nil {
			return nil, GoalJoinResult{}, err
		}
		role, err := parseRole(input.Role)
		if err != nil {
			return nil, GoalJoinResult{}, err
		}
		req := &ledgerv1.JoinRequest{GoalID: input.GoalID, ExtraDataURI: input.ExtraDataURI}
		call := client.Watch
		if role == roleMotivator {
			call = client.BecomeMotivator
		}
		_, meta, err := invoke(ctx, caller, grpcCallTimeout, "join goal", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.Empty, error) {
			return call(ctx, req, opts...)
		})
		if err != nil {
			return nil, GoalJoinResult{}, err
		}
		NotifyResourceUpdates(ctx, notify, GoalURI(input.GoalID))
		return CallToolResultWithMetadata(meta), GoalJoinResult{GoalID: input.GoalID, Account: caller, Role: role}, nil
	}
}

// ParticipantAcceptHandler accepts a participant on the caller's goal.
func ParticipantAcceptHandler(client LedgerClient, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[ParticipantAcceptInput, GoalJoinResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ParticipantAcceptInput) (*mcp.CallToolResult, GoalJoinResult, error) {
		caller, err := resolveCaller(input.Caller, getContext)
		if err != nil {
			return nil, GoalJoinResult{}, err
		}
		role, err := parseRole(input.Role)
		if err != nil {
			return nil, GoalJoinResult{}, err
		}
		req := &ledgerv1.AcceptRequest{GoalID: input.GoalID, Account: strings.TrimSpace(input.Account)}
		call := client.AcceptWatcher
		if role == roleMotivator {
			call = client.AcceptMotivator
		}
		_, meta, err := invoke(ctx, caller, grpcCallTimeout, "accept participant", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.Empty, error) {
			return call(ctx, req, opts...)
		})
		if err != nil {
			return nil, GoalJoinResult{}, err
		}
		NotifyResourceUpdates(ctx, notify, GoalURI(input.GoalID))
		return CallToolResultWithMetadata(meta), GoalJoinResult{GoalID: input.GoalID, Account: req.Account, Role: role}, nil
	}
}

// ParticipantListHandler lists participants of one role.
func ParticipantListHandler(client LedgerClient) mcp.ToolHandlerFor[ParticipantListInput, ParticipantListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ParticipantListInput) (*mcp.CallToolResult, ParticipantListResult, error) {
		role, err := parseRole(input.Role)
		if err != nil {
			return nil, ParticipantListResult{}, err
		}
		call := client.GetWatchers
		if role == roleMotivator {
			call = client.GetMotivators
		}
		response, meta, err := invoke(ctx, "", grpcCallTimeout, "list participants", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.ListParticipantsResponse, error) {
			return call(ctx, &ledgerv1.GoalRequest{GoalID: input.GoalID}, opts...)
		})
		if err != nil {
			return nil, ParticipantListResult{}, err
		}
		return CallToolResultWithMetadata(meta), ParticipantListResult{Participants: participantsFromLedger(response.Participants)}, nil
	}
}

func parseRole(value string) (string, error) {
	switch role := strings.ToLower(strings.TrimSpace(value)); role {
	case roleWatcher, roleMotivator:
		return role, nil
	default:
		return "", fmt.Errorf("role %q is not supported; use watcher or motivator", value)
	}
}

func participantsFromLedger(in []ledgerv1.Participant) []ParticipantResult {
	out := make([]ParticipantResult, 0, len(in))
	for _, p := range in {
		out = append(out, ParticipantResult{
			Account:          p.Account,
			Role:             p.Role,
			ExtraDataURI:     p.ExtraDataURI,
			Accepted:         p.Accepted,
			Motivations:      p.Motivations,
			SuperMotivations: p.SuperMotivations,
			JoinedAt:         formatTime(p.JoinedAt),
		})
	}
	return out
}
