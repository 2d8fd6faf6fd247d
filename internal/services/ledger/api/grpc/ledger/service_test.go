package ledger

import (
	"context"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	grpcmeta "github.com/louisbranch/stakes.space/internal/services/ledger/api/grpc/metadata"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/settings"
	"github.com/louisbranch/stakes.space/internal/services/ledger/goalledger"
	"github.com/louisbranch/stakes.space/internal/services/ledger/storage/sqlite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	client *ledgerv1.GoalServiceClient
	clock  *testClock
}

func startGoalService(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc, err := goalledger.New(store, goalledger.Options{Clock: clock.Now})
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	if err := svc.Bootstrap(context.Background(), settings.Default("owner", "treasury")); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		grpcmeta.UnaryServerInterceptor(func() (string, error) { return "req-generated", nil }),
	))
	ledgerv1.RegisterGoalServiceServer(grpcServer, NewGoalService(svc))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	t.Cleanup(func() {
		grpcServer.GracefulStop()
		_ = listener.Close()
		select {
		case <-serveErr:
		case <-time.After(2 * time.Second):
		}
	})

	conn, err := grpc.NewClient(listener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &testEnv{client: ledgerv1.NewGoalServiceClient(conn), clock: clock}
}

func as(caller string) context.Context {
	return grpcmeta.OutgoingContext(context.Background(), caller, "")
}

func requireStatusCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	if got := status.Code(err); got != want {
		t.Fatalf("status code = %s, want %s (err %v)", got, want, err)
	}
}

func TestFailedGoalSettlesOverGRPC(t *testing.T) {
	env := startGoalService(t)
	c := env.client

	if _, err := c.FundAccount(as("owner"), &ledgerv1.FundAccountRequest{Account: "alice", Amount: 50}); err != nil {
		t.Fatalf("fund: %v", err)
	}
	created, err := c.SetGoal(as("alice"), &ledgerv1.SetGoalRequest{
		Description:   "ipfs://goal",
		Stake:         50,
		AttachedFunds: 50,
		Deadline:      env.clock.Now().Add(24 * time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("set goal: %v", err)
	}
	for _, watcher := range []string{"bob", "carol"} {
		if _, err := c.Watch(as(watcher), &ledgerv1.JoinRequest{GoalID: created.GoalID}); err != nil {
			t.Fatalf("watch %s: %v", watcher, err)
		}
		if _, err := c.AcceptWatcher(as("alice"), &ledgerv1.AcceptRequest{GoalID: created.GoalID, Account: watcher}); err != nil {
			t.Fatalf("accept %s: %v", watcher, err)
		}
	}

	_, err = c.CloseAsFailed(as("dave"), &ledgerv1.CloseRequest{GoalID: created.GoalID})
	requireStatusCode(t, err, codes.FailedPrecondition)

	env.clock.Advance(24 * time.Hour)
	settlement, err := c.Close(as("dave"), &ledgerv1.CloseRequest{GoalID: created.GoalID})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if settlement.Achieved || len(settlement.Payouts) != 3 {
		t.Fatalf("settlement = %+v", settlement)
	}

	want := map[string]uint64{"bob": 23, "carol": 22, "treasury": 5}
	for account, amount := range want {
		balance, err := c.GetBalance(as(""), &ledgerv1.AccountRequest{Account: account})
		if err != nil {
			t.Fatalf("balance %s: %v", account, err)
		}
		if balance.Balance != amount {
			t.Fatalf("balance %s = %d, want %d", account, balance.Balance, amount)
		}
	}

	goal, err := c.GetGoal(as(""), &ledgerv1.GoalRequest{GoalID: created.GoalID})
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if goal.Status != "failed" || goal.ClosedAt == nil {
		t.Fatalf("goal = %+v", goal)
	}
	rep, err := c.GetAccountReputation(as(""), &ledgerv1.AccountRequest{Account: "alice"})
	if err != nil {
		t.Fatalf("reputation: %v", err)
	}
	if rep.FailedGoals != 1 {
		t.Fatalf("reputation = %+v", rep)
	}

	page, err := c.ListGoals(as(""), &ledgerv1.ListGoalsRequest{Filter: `status = "failed"`})
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	if len(page.Goals) != 1 || page.Goals[0].ID != created.GoalID {
		t.Fatalf("goals = %+v", page.Goals)
	}
	events, err := c.ListEvents(as(""), &ledgerv1.ListEventsRequest{GoalID: created.GoalID})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events.Events) == 0 || events.Events[0].Type != "goal.created" {
		t.Fatalf("events = %+v", events.Events)
	}
}

func TestDomainErrorsCarryDetails(t *testing.T) {
	env := startGoalService(t)
	c := env.client

	_, err := c.GetGoal(as(""), &ledgerv1.GoalRequest{GoalID: 7})
	requireStatusCode(t, err, codes.NotFound)
	if got := apperrors.GetCode(apperrors.FromGRPCStatus(err)); got != apperrors.CodeGoalNotFound {
		t.Fatalf("code = %s, want %s", got, apperrors.CodeGoalNotFound)
	}

	_, err = c.Pause(as(""), &ledgerv1.Empty{})
	if got := apperrors.GetCode(apperrors.FromGRPCStatus(err)); got != apperrors.CodeCallerRequired {
		t.Fatalf("code = %s, want %s", got, apperrors.CodeCallerRequired)
	}

	_, err = c.Pause(as("mallory"), &ledgerv1.Empty{})
	requireStatusCode(t, err, codes.PermissionDenied)

	_, err = c.ListGoals(as(""), &ledgerv1.ListGoalsRequest{Filter: "stake >"})
	requireStatusCode(t, err, codes.InvalidArgument)
}

func TestRequestValidation(t *testing.T) {
	env := startGoalService(t)
	c := env.client

	tests := []struct {
		name string
		call func() error
	}{
		{name: "missing goal id", call: func() error {
			_, err := c.Close(as("alice"), &ledgerv1.CloseRequest{})
			return err
		}},
		{name: "missing account", call: func() error {
			_, err := c.GetBalance(as("alice"), &ledgerv1.AccountRequest{Account: " "})
			return err
		}},
		{name: "unsupported order", call: func() error {
			_, err := c.ListGoals(as(""), &ledgerv1.ListGoalsRequest{OrderBy: "stake"})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireStatusCode(t, tt.call(), codes.InvalidArgument)
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	env := startGoalService(t)

	var header metadata.MD
	if _, err := env.client.GetCurrentCounter(as(""), &ledgerv1.Empty{}, grpc.Header(&header)); err != nil {
		t.Fatalf("counter: %v", err)
	}
	if got := grpcmeta.FirstMetadataValue(header, grpcmeta.RequestIDHeader); got != "req-generated" {
		t.Fatalf("request id = %q", got)
	}
}

func TestSettingsOverGRPC(t *testing.T) {
	env := startGoalService(t)
	c := env.client

	if _, err := c.SetFeePercent(as("owner"), &ledgerv1.SetFeePercentRequest{FeePercent: 25}); err != nil {
		t.Fatalf("set fee: %v", err)
	}
	if _, err := c.SetMessagePolicy(as("owner"), &ledgerv1.SetMessagePolicyRequest{Policy: "accepted_motivators"}); err != nil {
		t.Fatalf("set policy: %v", err)
	}
	cfg, err := c.GetSettings(as(""), &ledgerv1.Empty{})
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if cfg.FeePercent != 25 || cfg.MessagePolicy != "accepted_motivators" || cfg.Owner != "owner" {
		t.Fatalf("settings = %+v", cfg)
	}
}
