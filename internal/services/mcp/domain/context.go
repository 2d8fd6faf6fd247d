package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	grpcmeta "github.com/louisbranch/stakes.space/internal/services/ledger/api/grpc/metadata"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Context is the session state shared by tool calls.
type Context struct {
	Caller string
}

// SetContextInput represents the MCP tool input for setting context.
type SetContextInput struct {
	Caller string `json:"caller" jsonschema:"account that subsequent tool calls act as"`
}

// SetContextResult represents the MCP tool output for setting context.
type SetContextResult struct {
	Caller  string `json:"caller" jsonschema:"current caller account"`
	Balance uint64 `json:"balance" jsonschema:"spendable balance of the caller"`
}

// SetContextTool defines the MCP tool schema for setting context.
func SetContextTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_context",
		Description: "Sets the caller account used by subsequent tool calls that do not name one",
	}
}

// SetContextHandler checks the account against the ledger and stores it as
// the session caller.
func SetContextHandler(
	client LedgerClient,
	setContext func(Context),
	getContext func() Context,
	notify ResourceUpdateNotifier,
) mcp.ToolHandlerFor[SetContextInput, SetContextResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SetContextInput) (*mcp.CallToolResult, SetContextResult, error) {
		caller := strings.TrimSpace(input.Caller)
		if !grpcmeta.IsPrintableASCII(caller) {
			return nil, SetContextResult{}, fmt.Errorf("caller must be a printable account identifier")
		}
		invocationID, err := NewInvocationID()
		if err != nil {
			return nil, SetContextResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		callCtx, callMeta, err := NewOutgoingContext(runCtx, caller, invocationID)
		if err != nil {
			return nil, SetContextResult{}, fmt.Errorf("create request metadata: %w", err)
		}
		var header metadata.MD
		balance, err := client.GetBalance(callCtx, &ledgerv1.AccountRequest{Account: caller}, grpc.Header(&header))
		if err != nil {
			return nil, SetContextResult{}, callError("get balance", err)
		}

		setContext(Context{Caller: caller})
		NotifyResourceUpdates(ctx, notify, ContextResource().URI)

		return CallToolResultWithMetadata(MergeResponseMetadata(callMeta, header)), SetContextResult{
			Caller:  getContext().Caller,
			Balance: balance.Balance,
		}, nil
	}
}

// ContextResource describes the readable session context.
func ContextResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "context",
		Title:       "Current Context",
		Description: "Caller account used by tool calls that do not name one",
		MIMEType:    "application/json",
		URI:         "context://current",
	}
}

// ContextResourceHandler renders the session context.
func ContextResourceHandler(getContext func() Context) mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := ContextResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		payload := struct {
			Caller string `json:"caller,omitempty"`
		}{Caller: getContext().Caller}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal context: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: uri, MIMEType: "application/json", Text: string(data)},
			},
		}, nil
	}
}

// resolveCaller prefers an explicit caller over the session context.
func resolveCaller(explicit string, getContext func() Context) (string, error) {
	if caller := strings.TrimSpace(explicit); caller != "" {
		return caller, nil
	}
	if getContext != nil {
		if caller := getContext().Caller; caller != "" {
			return caller, nil
		}
	}
	return "", fmt.Errorf("caller is required; pass caller or call set_context first")
}
