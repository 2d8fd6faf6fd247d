package domain

import (
	"context"
	"strings"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

// AccountGetInput identifies an account.
type AccountGetInput struct {
	Account string `json:"account,omitempty" jsonschema:"account to read (defaults to the context caller)"`
}

// AccountResult summarizes an account's balance and reputation.
type AccountResult struct {
	Account          string `json:"account" jsonschema:"account identifier"`
	Balance          uint64 `json:"balance" jsonschema:"spendable balance"`
	AchievedGoals    uint64 `json:"achieved_goals" jsonschema:"goals the account achieved"`
	FailedGoals      uint64 `json:"failed_goals" jsonschema:"goals the account failed"`
	MotivatedGoals   uint64 `json:"motivated_goals" jsonschema:"failed goals the account was rewarded for"`
	Motivations      uint64 `json:"motivations" jsonschema:"messages evaluated as motivating"`
	SuperMotivations uint64 `json:"super_motivations" jsonschema:"messages evaluated as super motivating"`
}

// ProfileSetInput represents the MCP tool input for registering a profile.
type ProfileSetInput struct {
	Caller string `json:"caller,omitempty" jsonschema:"account to register (defaults to the context caller)"`
	URI    string `json:"uri" jsonschema:"profile URI"`
}

// ProfileSetResult echoes the registered profile.
type ProfileSetResult struct {
	Account string `json:"account" jsonschema:"registered account"`
	URI     string `json:"uri" jsonschema:"profile URI"`
}

// SettingsGetInput takes no fields.
type SettingsGetInput struct{}

// SettingsResult reports the ledger administration settings.
type SettingsResult struct {
	Owner           string `json:"owner" jsonschema:"administrator account"`
	Treasury        string `json:"treasury" jsonschema:"account receiving fees"`
	FeePercent      uint32 `json:"fee_percent" jsonschema:"percent of failed stakes sent to the treasury"`
	Paused          bool   `json:"paused" jsonschema:"whether mutations are blocked"`
	ProfileRequired bool   `json:"profile_required" jsonschema:"whether mutations require a registered profile"`
	MessagePolicy   string `json:"message_policy" jsonschema:"who may post board messages"`
}

// AccountGetTool defines the MCP tool schema for reading an account.
func AccountGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "account_get",
		Description: "Returns an account's balance and reputation counters",
	}
}

// ProfileSetTool defines the MCP tool schema for registering profiles.
func ProfileSetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "profile_set",
		Description: "Registers or replaces the caller's profile URI",
	}
}

// SettingsGetTool defines the MCP tool schema for reading settings.
func SettingsGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "settings_get",
		Description: "Returns the ledger fee, treasury, pause and policy settings",
	}
}

// AccountGetHandler reads balance and both reputation views of an account.
func AccountGetHandler(client LedgerClient, getContext func() Context) mcp.ToolHandlerFor[AccountGetInput, AccountResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AccountGetInput) (*mcp.CallToolResult, AccountResult, error) {
		account, err := resolveCaller(input.Account, getContext)
		if err != nil {
			return nil, AccountResult{}, err
		}
		req := &ledgerv1.AccountRequest{Account: account}
		balance, _, err := invoke(ctx, "", grpcCallTimeout, "get balance", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.BalanceResponse, error) {
			return client.GetBalance(ctx, req, opts...)
		})
		if err != nil {
			return nil, AccountResult{}, err
		}
		reputation, _, err := invoke(ctx, "", grpcCallTimeout, "get reputation", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.Reputation, error) {
			return client.GetAccountReputation(ctx, req, opts...)
		})
		if err != nil {
			return nil, AccountResult{}, err
		}
		motivator, meta, err := invoke(ctx, "", grpcCallTimeout, "get motivator reputation", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.MotivatorReputation, error) {
			return client.GetMotivatorReputation(ctx, req, opts...)
		})
		if err != nil {
			return nil, AccountResult{}, err
		}
		return CallToolResultWithMetadata(meta), AccountResult{
			Account:          account,
			Balance:          balance.Balance,
			AchievedGoals:    reputation.AchievedGoals,
			FailedGoals:      reputation.FailedGoals,
			MotivatedGoals:   reputation.MotivatedGoals,
			Motivations:      motivator.Motivations,
			SuperMotivations: motivator.SuperMotivations,
		}, nil
	}
}

// ProfileSetHandler registers the caller's profile.
func ProfileSetHandler(client LedgerClient, getContext func() Context) mcp.ToolHandlerFor[ProfileSetInput, ProfileSetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ProfileSetInput) (*mcp.CallToolResult, ProfileSetResult, error) {
		caller, err := resolveCaller(input.Caller, getContext)
		if err != nil {
			return nil, ProfileSetResult{}, err
		}
		uri := strings.TrimSpace(input.URI)
		_, meta, err := invoke(ctx, caller, grpcCallTimeout, "set profile", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.Empty, error) {
			return client.SetProfile(ctx, &ledgerv1.SetProfileRequest{URI: uri}, opts...)
		})
		if err != nil {
			return nil, ProfileSetResult{}, err
		}
		return CallToolResultWithMetadata(meta), ProfileSetResult{Account: caller, URI: uri}, nil
	}
}

// SettingsGetHandler reads the ledger settings.
func SettingsGetHandler(client LedgerClient) mcp.ToolHandlerFor[SettingsGetInput, SettingsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SettingsGetInput) (*mcp.CallToolResult, SettingsResult, error) {
		response, meta, err := invoke(ctx, "", grpcCallTimeout, "get settings", func(ctx context.Context, opts ...grpc.CallOption) (*ledgerv1.Settings, error) {
			return client.GetSettings(ctx, &ledgerv1.Empty{}, opts...)
		})
		if err != nil {
			return nil, SettingsResult{}, err
		}
		return CallToolResultWithMetadata(meta), SettingsResult{
			Owner:           response.Owner,
			Treasury:        response.Treasury,
			FeePercent:      response.FeePercent,
			Paused:          response.Paused,
			ProfileRequired: response.ProfileRequired,
			MessagePolicy:   response.MessagePolicy,
		}, nil
	}
}
