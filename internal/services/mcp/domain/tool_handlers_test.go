package domain

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	grpcmeta "github.com/louisbranch/stakes.space/internal/services/ledger/api/grpc/metadata"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// fakeLedger records calls; unimplemented methods panic through the nil embed.
type fakeLedger struct {
	LedgerClient

	callers  []string
	setGoal  *ledgerv1.SetGoalRequest
	closedBy string
	err      error
}

func (f *fakeLedger) record(ctx context.Context) {
	md, _ := metadata.FromOutgoingContext(ctx)
	f.callers = append(f.callers, grpcmeta.FirstMetadataValue(md, grpcmeta.CallerHeader))
}

func (f *fakeLedger) SetGoal(ctx context.Context, in *ledgerv1.SetGoalRequest, _ ...grpc.CallOption) (*ledgerv1.SetGoalResponse, error) {
	f.record(ctx)
	if f.err != nil {
		return nil, f.err
	}
	f.setGoal = in
	return &ledgerv1.SetGoalResponse{GoalID: 7}, nil
}

func (f *fakeLedger) Close(ctx context.Context, in *ledgerv1.CloseRequest, _ ...grpc.CallOption) (*ledgerv1.Settlement, error) {
	f.record(ctx)
	f.closedBy = "close"
	return &ledgerv1.Settlement{GoalID: in.GoalID, Achieved: true, Payouts: []ledgerv1.Payout{{Account: "alice", Amount: 50, Reason: "stake_returned"}}}, nil
}

func (f *fakeLedger) CloseAsAchieved(ctx context.Context, in *ledgerv1.CloseAsAchievedRequest, _ ...grpc.CallOption) (*ledgerv1.Settlement, error) {
	f.record(ctx)
	f.closedBy = "achieved:" + in.ProofURI
	return &ledgerv1.Settlement{GoalID: in.GoalID, Achieved: true}, nil
}

func (f *fakeLedger) CloseAsFailed(ctx context.Context, in *ledgerv1.CloseRequest, _ ...grpc.CallOption) (*ledgerv1.Settlement, error) {
	f.record(ctx)
	f.closedBy = "failed"
	return &ledgerv1.Settlement{GoalID: in.GoalID}, nil
}

func (f *fakeLedger) Watch(ctx context.Context, _ *ledgerv1.JoinRequest, _ ...grpc.CallOption) (*ledgerv1.Empty, error) {
	f.record(ctx)
	f.closedBy = "watch"
	return &ledgerv1.Empty{}, nil
}

func (f *fakeLedger) BecomeMotivator(ctx context.Context, _ *ledgerv1.JoinRequest, _ ...grpc.CallOption) (*ledgerv1.Empty, error) {
	f.record(ctx)
	f.closedBy = "motivate"
	return &ledgerv1.Empty{}, nil
}

func (f *fakeLedger) GetBalance(ctx context.Context, in *ledgerv1.AccountRequest, _ ...grpc.CallOption) (*ledgerv1.BalanceResponse, error) {
	f.record(ctx)
	return &ledgerv1.BalanceResponse{Account: in.Account, Balance: 120}, nil
}

func (f *fakeLedger) GetGoal(_ context.Context, in *ledgerv1.GoalRequest, _ ...grpc.CallOption) (*ledgerv1.Goal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ledgerv1.Goal{ID: in.GoalID, Author: "alice", Stake: 50, Deadline: 1700000000, Status: "open", ProofCount: 1}, nil
}

func (f *fakeLedger) GetEscrow(_ context.Context, in *ledgerv1.GoalRequest, _ ...grpc.CallOption) (*ledgerv1.Escrow, error) {
	return &ledgerv1.Escrow{GoalID: in.GoalID, Locked: 50}, nil
}

func (f *fakeLedger) GetVerificationStatus(_ context.Context, in *ledgerv1.GoalRequest, _ ...grpc.CallOption) (*ledgerv1.Verification, error) {
	return &ledgerv1.Verification{GoalID: in.GoalID, Requirement: "STEPS", Outcome: "pending", Evidence: []ledgerv1.Evidence{{Key: "STEPS", Value: "900"}}}, nil
}

func (f *fakeLedger) GetProofs(context.Context, *ledgerv1.GoalRequest, ...grpc.CallOption) (*ledgerv1.ListProofsResponse, error) {
	return &ledgerv1.ListProofsResponse{Proofs: []ledgerv1.Proof{{Index: 1, URI: "ipfs://proof"}}}, nil
}

func (f *fakeLedger) GetWatchers(context.Context, *ledgerv1.GoalRequest, ...grpc.CallOption) (*ledgerv1.ListParticipantsResponse, error) {
	return &ledgerv1.ListParticipantsResponse{Participants: []ledgerv1.Participant{{Account: "bob", Role: "watcher", Accepted: true}}}, nil
}

func (f *fakeLedger) GetMotivators(context.Context, *ledgerv1.GoalRequest, ...grpc.CallOption) (*ledgerv1.ListParticipantsResponse, error) {
	return &ledgerv1.ListParticipantsResponse{}, nil
}

func (f *fakeLedger) GetMessages(context.Context, *ledgerv1.GoalRequest, ...grpc.CallOption) (*ledgerv1.ListMessagesResponse, error) {
	return &ledgerv1.ListMessagesResponse{}, nil
}

func contextOf(caller string) func() Context {
	return func() Context { return Context{Caller: caller} }
}

func TestResolveCaller(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		session  string
		want     string
		wantErr  bool
	}{
		{name: "explicit wins", explicit: " bob ", session: "alice", want: "bob"},
		{name: "session fallback", session: "alice", want: "alice"},
		{name: "missing", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveCaller(tt.explicit, contextOf(tt.session))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve caller: %v", err)
			}
			if got != tt.want {
				t.Fatalf("caller = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitEvidenceOrdersKeys(t *testing.T) {
	keys, values := splitEvidence(map[string]string{"STEPS": "12000", "DATE": "2026-01-01"})
	if strings.Join(keys, ",") != "DATE,STEPS" || strings.Join(values, ",") != "2026-01-01,12000" {
		t.Fatalf("split = %v %v", keys, values)
	}
	if keys, values := splitEvidence(nil); keys != nil || values != nil {
		t.Fatalf("expected nil slices, got %v %v", keys, values)
	}
}

func TestGoalSetHandler(t *testing.T) {
	ledger := &fakeLedger{}
	var notified []string
	notify := func(_ context.Context, uri string) { notified = append(notified, uri) }
	handler := GoalSetHandler(ledger, contextOf("alice"), notify)

	deadline := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	result, out, err := handler(context.Background(), nil, GoalSetInput{
		Description: "run a marathon",
		Stake:       50,
		Deadline:    deadline.Format(time.RFC3339),
		Requirement: " STEPS ",
		Evidence:    map[string]string{"STEPS": "0"},
	})
	if err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if out.GoalID != 7 {
		t.Fatalf("goal id = %d", out.GoalID)
	}
	if ledger.setGoal.AttachedFunds != 50 || ledger.setGoal.Deadline != deadline.Unix() || ledger.setGoal.Requirement != "STEPS" {
		t.Fatalf("request = %+v", ledger.setGoal)
	}
	if len(ledger.callers) != 1 || ledger.callers[0] != "alice" {
		t.Fatalf("callers = %v", ledger.callers)
	}
	if len(notified) != 1 || notified[0] != "goal://7" {
		t.Fatalf("notified = %v", notified)
	}
	if result == nil || result.Meta[grpcmeta.RequestIDHeader] == "" {
		t.Fatalf("expected request id in result metadata, got %+v", result)
	}
}

func TestGoalSetHandlerRejectsBadDeadline(t *testing.T) {
	ledger := &fakeLedger{}
	_, _, err := GoalSetHandler(ledger, contextOf("alice"), nil)(context.Background(), nil, GoalSetInput{Stake: 1, Deadline: "tomorrow"})
	if err == nil || !strings.Contains(err.Error(), "RFC3339") {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if len(ledger.callers) != 0 {
		t.Fatal("ledger should not be called")
	}
}

func TestGoalSetHandlerSurfacesLedgerCode(t *testing.T) {
	ledger := &fakeLedger{err: apperrors.New(apperrors.CodeInsufficientBalance, "balance too low").ToGRPCStatus("", "")}
	_, _, err := GoalSetHandler(ledger, contextOf("alice"), nil)(context.Background(), nil, GoalSetInput{Stake: 1, Deadline: "2030-01-01T00:00:00Z"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), string(apperrors.CodeInsufficientBalance)) {
		t.Fatalf("error %q does not name the ledger code", err)
	}
	if !apperrors.IsCode(err, apperrors.CodeInsufficientBalance) {
		t.Fatalf("error %v does not unwrap to the ledger code", err)
	}
}

func TestGoalCloseHandlerRoutesOutcome(t *testing.T) {
	tests := []struct {
		name    string
		input   GoalCloseInput
		want    string
		wantErr bool
	}{
		{name: "deadline close", input: GoalCloseInput{GoalID: 1}, want: "close"},
		{name: "achieved", input: GoalCloseInput{GoalID: 1, Outcome: "Achieved", ProofURI: "ipfs://p"}, want: "achieved:ipfs://p"},
		{name: "achieved without proof", input: GoalCloseInput{GoalID: 1, Outcome: "achieved"}, wantErr: true},
		{name: "failed", input: GoalCloseInput{GoalID: 1, Outcome: "failed"}, want: "failed"},
		{name: "unknown", input: GoalCloseInput{GoalID: 1, Outcome: "maybe"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &fakeLedger{}
			_, out, err := GoalCloseHandler(ledger, contextOf("carol"), nil)(context.Background(), nil, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("close: %v", err)
			}
			if ledger.closedBy != tt.want {
				t.Fatalf("route = %q, want %q", ledger.closedBy, tt.want)
			}
			if out.GoalID != 1 {
				t.Fatalf("settlement = %+v", out)
			}
		})
	}
}

func TestGoalJoinHandlerRoutesRole(t *testing.T) {
	ledger := &fakeLedger{}
	handler := GoalJoinHandler(ledger, contextOf("bob"), nil)
	if _, _, err := handler(context.Background(), nil, GoalJoinInput{GoalID: 1, Role: "Motivator"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if ledger.closedBy != "motivate" {
		t.Fatalf("route = %q", ledger.closedBy)
	}
	if _, _, err := handler(context.Background(), nil, GoalJoinInput{GoalID: 1, Role: "judge"}); err == nil {
		t.Fatal("expected role error")
	}
}

func TestSetContextHandler(t *testing.T) {
	ledger := &fakeLedger{}
	var current Context
	handler := SetContextHandler(ledger, func(c Context) { current = c }, func() Context { return current }, nil)

	_, out, err := handler(context.Background(), nil, SetContextInput{Caller: " dave "})
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	if out.Caller != "dave" || out.Balance != 120 {
		t.Fatalf("result = %+v", out)
	}
	if _, _, err := handler(context.Background(), nil, SetContextInput{Caller: "  "}); err == nil {
		t.Fatal("expected error for blank caller")
	}
	if current.Caller != "dave" {
		t.Fatalf("context = %+v", current)
	}
}

func TestParseGoalIDFromURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    uint64
		wantErr bool
	}{
		{uri: "goal://12", want: 12},
		{uri: "goal://12/", want: 12},
		{uri: "goal://0", wantErr: true},
		{uri: "goal://abc", wantErr: true},
		{uri: "profile://12", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseGoalIDFromURI(tt.uri)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tt.uri)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("%s: got %d, %v", tt.uri, got, err)
		}
	}
}

func TestGoalResourceHandler(t *testing.T) {
	handler := GoalResourceHandler(&fakeLedger{})
	result, err := handler(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: GoalURI(3)}})
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("contents = %d", len(result.Contents))
	}
	var payload GoalPayload
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Goal.ID != 3 || payload.Escrow.Locked != 50 {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.Verification.Evidence["STEPS"] != "900" {
		t.Fatalf("evidence = %+v", payload.Verification.Evidence)
	}
	if len(payload.Watchers) != 1 || payload.Watchers[0].Account != "bob" {
		t.Fatalf("watchers = %+v", payload.Watchers)
	}
	if payload.Goal.Deadline != "2023-11-14T22:13:20Z" {
		t.Fatalf("deadline = %q", payload.Goal.Deadline)
	}
}
