package domain

import (
	"context"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

// MessagePostInput represents the MCP tool input for posting a message.
type MessagePostInput struct {
	Caller       string `json:"caller,omitempty" jsonschema:"posting account (defaults to the context caller)"`
	GoalID       uint64 `json:"goal_id" jsonschema:"goal identifier"`
	ExtraDataURI string `json:"extra_data_uri" jsonschema:"URI of the message body"`
}

// MessagePostResult reports the posted message index.
type MessagePostResult struct {
	GoalID uint64 `json:"goal_id" jsonschema:"goal identifier"`
	Index  uint64 `json:"index" jsonschema:"message index within the goal"`
}

// MessageEvaluateInput represents the MCP tool input for evaluating a message.
type MessageEvaluateInput struct {
	Caller          string `json:"caller,omitempty" jsonschema:"goal author (defaults to the context caller)"`
	GoalID          uint64 `json:"goal_id" jsonschema:"goal identifier"`
	Index           uint64 `json:"index" jsonschema:"message index"`
	Motivating      bool   `json:"motivating,omitempty" jsonschema:"whether the message motivated the author"`
	SuperMotivating bool   `json:"super_motivating,omitempty" jsonschema:"whether the message super motivated the author"`
}

// MessageEvaluateResult echoes the evaluation.
type MessageEvaluateResult struct {
	GoalID          uint64 `json:"goal_id" jsonschema:"goal identifier"`
	Index           uint64 `json:"index" jsonschema:"message index"`
	Motivating      bool   `json:"motivating" jsonschema:"motivating flag"`
	SuperMotivating bool   `json:"super_motivating" jsonschema:"super motivating flag"`
}

// MessageListInput identifies the goal whose board is listed.
type MessageListInput struct {
	GoalID uint64 `json:"goal_id" jsonschema:"goal identifier"`
}

// MessageResult is one message on a goal board.
type MessageResult struct {
	Index           uint64 `json:"index" jsonschema:"message index"`
	Author          string `json:"author" jsonschema:"posting account"`
	ExtraDataURI    string `json:"extra_data_uri" jsonschema:"URI of the message body"`
	Evaluated       bool   `json:"evaluated" jsonschema:"whether the goal author evaluated it"`
	Motivating      bool   `json:"motivating" jsonschema:"motivating flag"`
	SuperMotivating bool   `json:"super_motivating" jsonschema:"super motivating flag"`
	PostedAt        string `json:"posted_at" jsonschema:"RFC3339 post time"`
}

// MessageListResult lists a goal board in posting order.
type MessageListResult struct {
	Messages []MessageResult `json:"messages" jsonschema:"messages in posting order"`
}

// MessagePostTool defines the MCP tool schema for posting messages.
func MessagePostTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "message_post",
		Description: "Posts a message on a goal board, subject to the ledger message policy",
	}
}

// MessageEvaluateTool defines the MCP tool schema for evaluating messages.
func MessageEvaluateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "message_evaluate",
		Description: "Marks a board message as motivating or super motivating; author only, once per message",
	}
}

// MessageListTool defines the MCP tool schema for listing messages.
func MessageListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "message_list",
		Description: "Lists the messages posted on a goal board",
	}
}

// MessagePostHandler posts a message as the caller.
func MessagePostHandler(client LedgerClient, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[MessagePostInput, MessagePostResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MessagePostInput) (*mcp.CallToolResult, MessagePostResult, error) {
		caller, err := resolveCaller(input.Caller, getContext)
		if err != nil {
			return nil, MessagePostResult{}, err
		}
		req := &ledgerv1.PostMessageRequest{GoalID: input.GoalID, ExtraDataURI: input.ExtraDataURI}
		response, meta, err := invoke(ctx, caller, grpcCallTimeout, "post message", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.PostMessageResponse, error) {
			return client.PostMessage(ctx, req, opts...)
		})
		if err != nil {
			return nil, MessagePostResult{}, err
		}
		NotifyResourceUpdates(ctx, notify, GoalURI(input.GoalID))
		return CallToolResultWithMetadata(meta), MessagePostResult{GoalID: input.GoalID, Index: response.Index}, nil
	}
}

// MessageEvaluateHandler evaluates a message on the caller's goal.
func MessageEvaluateHandler(client LedgerClient, getContext func() Context, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[MessageEvaluateInput, MessageEvaluateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MessageEvaluateInput) (*mcp.CallToolResult, MessageEvaluateResult, error) {
		caller, err := resolveCaller(input.Caller, getContext)
		if err != nil {
			return nil, MessageEvaluateResult{}, err
		}
		req := &ledgerv1.EvaluateMessageRequest{
			GoalID:          input.GoalID,
			Index:           input.Index,
			Motivating:      input.Motivating,
			SuperMotivating: input.SuperMotivating,
		}
		_, meta, err := invoke(ctx, caller, grpcCallTimeout, "evaluate message", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.Empty, error) {
			return client.EvaluateMessage(ctx, req, opts...)
		})
		if err != nil {
			return nil, MessageEvaluateResult{}, err
		}
		NotifyResourceUpdates(ctx, notify, GoalURI(input.GoalID))
		return CallToolResultWithMetadata(meta), MessageEvaluateResult{
			GoalID:          input.GoalID,
			Index:           input.Index,
			Motivating:      input.Motivating,
			SuperMotivating: input.SuperMotivating,
		}, nil
	}
}

// MessageListHandler lists a goal board.
func MessageListHandler(client LedgerClient) mcp.ToolHandlerFor[MessageListInput, MessageListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MessageListInput) (*mcp.CallToolResult, MessageListResult, error) {
		response, meta, err := invoke(ctx, "", grpcCallTimeout, "list messages", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.ListMessagesResponse, error) {
			return client.GetMessages(ctx, &ledgerv1.GoalRequest{GoalID: input.GoalID}, opts...)
		})
		if err != nil {
			return nil, MessageListResult{}, err
		}
		return CallToolResultWithMetadata(meta), MessageListResult{Messages: messagesFromLedger(response.Messages)}, nil
	}
}

func messagesFromLedger(in []ledgerv1.Message) []MessageResult {
	out := make([]MessageResult, 0, len(in))
	for _, m := range in {
		out = append(out, MessageResult{
			Index:           m.Index,
			Author:          m.Author,
			ExtraDataURI:    m.ExtraDataURI,
			Evaluated:       m.Evaluated,
			Motivating:      m.Motivating,
			SuperMotivating: m.SuperMotivating,
			PostedAt:        formatTime(m.PostedAt),
		})
	}
	return out
}
