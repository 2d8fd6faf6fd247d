package goalledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/platform/telemetry/metrics"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/escrow"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/reputation"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/settings"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/verification"
	"github.com/louisbranch/stakes.space/internal/services/ledger/storage"
	"github.com/louisbranch/stakes.space/internal/services/ledger/storage/sqlite"
)

const (
	owner    = "owner"
	treasury = "treasury"
)

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	svc   *Service
	store *sqlite.Store
	clock *fakeClock
	ctx   context.Context
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	clock := &fakeClock{now: testStart}
	opts.Clock = clock.Now
	svc, err := New(store, opts)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()
	if err := svc.Bootstrap(ctx, settings.Default(owner, treasury)); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return &harness{svc: svc, store: store, clock: clock, ctx: ctx}
}

func (h *harness) fund(t *testing.T, acct string, amount uint64) {
	t.Helper()
	if err := h.svc.FundAccount(h.ctx, owner, acct, amount); err != nil {
		t.Fatalf("fund %s: %v", acct, err)
	}
}

func (h *harness) setGoal(t *testing.T, author string, stake uint64, requirement string) uint64 {
	t.Helper()
	id, err := h.svc.SetGoal(h.ctx, author, SetGoalInput{
		Description:   "ipfs://goal",
		Stake:         stake,
		AttachedFunds: stake,
		Deadline:      h.clock.now.Add(48 * time.Hour),
		Requirement:   requirement,
	})
	if err != nil {
		t.Fatalf("set goal: %v", err)
	}
	return id
}

func (h *harness) balance(t *testing.T, acct string) uint64 {
	t.Helper()
	balance, err := h.svc.GetBalance(h.ctx, acct)
	if err != nil {
		t.Fatalf("balance %s: %v", acct, err)
	}
	return balance
}

func (h *harness) reputation(t *testing.T, acct string) reputation.Reputation {
	t.Helper()
	rep, err := h.svc.GetAccountReputation(h.ctx, acct)
	if err != nil {
		t.Fatalf("reputation %s: %v", acct, err)
	}
	return rep
}

func requireCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	if !apperrors.IsCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestFailedGoalSplitsStakeAmongAcceptedWatchers(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 50)
	id := h.setGoal(t, "alice", 50, "")

	for _, watcher := range []string{"bob", "carol"} {
		if err := h.svc.Watch(h.ctx, watcher, id, ""); err != nil {
			t.Fatalf("watch %s: %v", watcher, err)
		}
		if err := h.svc.AcceptWatcher(h.ctx, "alice", id, watcher); err != nil {
			t.Fatalf("accept %s: %v", watcher, err)
		}
	}

	h.clock.Advance(48 * time.Hour)
	settlement, err := h.svc.Close(h.ctx, "dave", id)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if settlement.Achieved {
		t.Fatal("expected failed settlement")
	}

	wantBalances := map[string]uint64{"alice": 0, "bob": 23, "carol": 22, treasury: 5, "dave": 0}
	for acct, want := range wantBalances {
		if got := h.balance(t, acct); got != want {
			t.Fatalf("balance %s = %d, want %d", acct, got, want)
		}
	}
	if rep := h.reputation(t, "alice"); rep.FailedGoals != 1 || rep.AchievedGoals != 0 {
		t.Fatalf("alice reputation = %+v", rep)
	}
	for _, watcher := range []string{"bob", "carol"} {
		if rep := h.reputation(t, watcher); rep.MotivatedGoals != 1 {
			t.Fatalf("%s reputation = %+v", watcher, rep)
		}
	}

	record, err := h.svc.GetParams(h.ctx, id)
	if err != nil {
		t.Fatalf("get params: %v", err)
	}
	if !record.Closed || record.Achieved {
		t.Fatalf("goal = %+v", record)
	}
	locked, err := h.svc.GetEscrow(h.ctx, id)
	if err != nil {
		t.Fatalf("get escrow: %v", err)
	}
	if !locked.Released {
		t.Fatalf("escrow = %+v", locked)
	}
}

func TestAchievedGoalReturnsStake(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 100)
	id := h.setGoal(t, "alice", 100, "")
	if err := h.svc.Watch(h.ctx, "bob", id, ""); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if err := h.svc.AcceptWatcher(h.ctx, "alice", id, "bob"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	_, err := h.svc.Close(h.ctx, "alice", id)
	requireCode(t, err, apperrors.CodeGoalNotAchievable)
	_, err = h.svc.Close(h.ctx, "bob", id)
	requireCode(t, err, apperrors.CodeNotAuthor)

	if err := h.svc.PostProof(h.ctx, "alice", id, "ipfs://proof"); err != nil {
		t.Fatalf("post proof: %v", err)
	}
	settlement, err := h.svc.Close(h.ctx, "alice", id)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if !settlement.Achieved || len(settlement.Payouts) != 1 || settlement.Payouts[0].Reason != escrow.ReasonAuthorRefund {
		t.Fatalf("settlement = %+v", settlement)
	}
	if got := h.balance(t, "alice"); got != 100 {
		t.Fatalf("alice balance = %d, want 100", got)
	}
	if rep := h.reputation(t, "alice"); rep.AchievedGoals != 1 {
		t.Fatalf("alice reputation = %+v", rep)
	}
	if rep := h.reputation(t, "bob"); rep != (reputation.Reputation{}) {
		t.Fatalf("bob reputation = %+v", rep)
	}

	_, err = h.svc.Close(h.ctx, "alice", id)
	requireCode(t, err, apperrors.CodeGoalAlreadyClosed)
	if rep := h.reputation(t, "alice"); rep.AchievedGoals != 1 {
		t.Fatalf("reputation changed after double close: %+v", rep)
	}
}

func TestAnyoneClosesExpiredGoalWithProofAsAchieved(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 10)
	id := h.setGoal(t, "alice", 10, "")
	if err := h.svc.PostProof(h.ctx, "alice", id, "ipfs://proof"); err != nil {
		t.Fatalf("post proof: %v", err)
	}
	h.clock.Advance(72 * time.Hour)

	_, err := h.svc.CloseAsFailed(h.ctx, "eve", id)
	requireCode(t, err, apperrors.CodeGoalHasQualifyingEvidence)

	settlement, err := h.svc.Close(h.ctx, "eve", id)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if !settlement.Achieved || h.balance(t, "alice") != 10 {
		t.Fatalf("settlement = %+v", settlement)
	}
}

func TestFailedGoalWithoutParticipantsPaysTreasury(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 33)
	id := h.setGoal(t, "alice", 33, "")

	_, err := h.svc.CloseAsFailed(h.ctx, "eve", id)
	requireCode(t, err, apperrors.CodeGoalDeadlineNotPassed)

	h.clock.Advance(48 * time.Hour)
	if _, err := h.svc.CloseAsFailed(h.ctx, "eve", id); err != nil {
		t.Fatalf("close as failed: %v", err)
	}
	if got := h.balance(t, treasury); got != 33 {
		t.Fatalf("treasury balance = %d, want 33", got)
	}
}

func TestCloseAsAchievedPostsProofAndSettles(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 20)
	id := h.setGoal(t, "alice", 20, "")

	_, err := h.svc.CloseAsAchieved(h.ctx, "bob", id, "ipfs://proof")
	requireCode(t, err, apperrors.CodeNotAuthor)

	settlement, err := h.svc.CloseAsAchieved(h.ctx, "alice", id, "ipfs://proof")
	if err != nil {
		t.Fatalf("close as achieved: %v", err)
	}
	if !settlement.Achieved {
		t.Fatal("expected achieved settlement")
	}
	proofs, err := h.svc.GetProofs(h.ctx, id)
	if err != nil {
		t.Fatalf("get proofs: %v", err)
	}
	if len(proofs) != 1 || proofs[0].URI != "ipfs://proof" {
		t.Fatalf("proofs = %+v", proofs)
	}
}

func TestCloseAsAchievedAfterDeadlineRollsBackProof(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 20)
	id := h.setGoal(t, "alice", 20, "")
	h.clock.Advance(48 * time.Hour)

	_, err := h.svc.CloseAsAchieved(h.ctx, "alice", id, "ipfs://proof")
	requireCode(t, err, apperrors.CodeGoalDeadlinePassed)
	proofs, err := h.svc.GetProofs(h.ctx, id)
	if err != nil {
		t.Fatalf("get proofs: %v", err)
	}
	if len(proofs) != 0 {
		t.Fatalf("proofs = %+v", proofs)
	}
}

func TestVerifiedGoal(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 40)
	id := h.setGoal(t, "alice", 40, verification.RequirementAnyProof)

	if err := h.svc.PostProof(h.ctx, "alice", id, "ipfs://ignored"); err != nil {
		t.Fatalf("post proof: %v", err)
	}
	_, err := h.svc.Close(h.ctx, "alice", id)
	requireCode(t, err, apperrors.CodeGoalNotAchievable)

	_, err = h.svc.AddVerificationDataAndVerify(h.ctx, "alice", id, []string{"NOTE"}, []string{"soon"})
	requireCode(t, err, apperrors.CodeVerificationPending)
	status, err := h.svc.GetVerificationStatus(h.ctx, id)
	if err != nil {
		t.Fatalf("verification status: %v", err)
	}
	if len(status.Evidence) != 0 || status.Outcome != verification.OutcomePending {
		t.Fatalf("pending evidence kept: %+v", status)
	}

	_, err = h.svc.AddVerificationDataAndVerify(h.ctx, "alice", id, []string{"A", "B"}, []string{"1"})
	requireCode(t, err, apperrors.CodeEvidenceInvalid)

	outcome, err := h.svc.AddVerificationDataAndVerify(h.ctx, "alice", id,
		[]string{verification.EvidenceKeyAnyURI}, []string{"ipfs://run"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if outcome != verification.OutcomeAchieved {
		t.Fatalf("outcome = %s", outcome)
	}
	_, err = h.svc.AddVerificationDataAndVerify(h.ctx, "alice", id, []string{"MORE"}, []string{"x"})
	requireCode(t, err, apperrors.CodeVerificationAlreadyDecided)

	if _, err := h.svc.Close(h.ctx, "alice", id); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := h.balance(t, "alice"); got != 40 {
		t.Fatalf("alice balance = %d, want 40", got)
	}
}

func TestVerificationRequiresRequirement(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 10)
	id := h.setGoal(t, "alice", 10, "")
	_, err := h.svc.AddVerificationDataAndVerify(h.ctx, "alice", id, []string{"A"}, []string{"1"})
	requireCode(t, err, apperrors.CodeVerificationNotConfigured)
	_, err = h.svc.AddVerificationDataAndVerify(h.ctx, "bob", id, []string{"A"}, []string{"1"})
	requireCode(t, err, apperrors.CodeNotAuthor)
}

func TestSetGoalWithInitialEvidence(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 10)
	id, err := h.svc.SetGoal(h.ctx, "alice", SetGoalInput{
		Description:    "ipfs://goal",
		Stake:          10,
		AttachedFunds:  10,
		Deadline:       testStart.Add(time.Hour),
		Requirement:    verification.RequirementAnyProof,
		EvidenceKeys:   []string{verification.EvidenceKeyAnyURI},
		EvidenceValues: []string{"ipfs://done"},
	})
	if err != nil {
		t.Fatalf("set goal: %v", err)
	}
	status, err := h.svc.GetVerificationStatus(h.ctx, id)
	if err != nil {
		t.Fatalf("verification status: %v", err)
	}
	if status.Outcome != verification.OutcomeAchieved || len(status.Evidence) != 1 {
		t.Fatalf("status = %+v", status)
	}
}

func TestSetGoalRejections(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 10)
	deadline := testStart.Add(time.Hour)

	tests := []struct {
		name string
		in   SetGoalInput
		code apperrors.Code
	}{
		{name: "stake mismatch", in: SetGoalInput{Description: "d", Stake: 5, AttachedFunds: 4, Deadline: deadline}, code: apperrors.CodeStakeMismatch},
		{name: "zero stake", in: SetGoalInput{Description: "d", Deadline: deadline}, code: apperrors.CodeStakeZero},
		{name: "past deadline", in: SetGoalInput{Description: "d", Stake: 5, AttachedFunds: 5, Deadline: testStart}, code: apperrors.CodeDeadlineNotInFuture},
		{name: "unknown requirement", in: SetGoalInput{Description: "d", Stake: 5, AttachedFunds: 5, Deadline: deadline, Requirement: "ORACLE"}, code: apperrors.CodeUnknownVerificationRequirement},
		{name: "insufficient balance", in: SetGoalInput{Description: "d", Stake: 11, AttachedFunds: 11, Deadline: deadline}, code: apperrors.CodeInsufficientBalance},
		{name: "evidence without requirement", in: SetGoalInput{Description: "d", Stake: 5, AttachedFunds: 5, Deadline: deadline, EvidenceKeys: []string{"A"}, EvidenceValues: []string{"1"}}, code: apperrors.CodeVerificationNotConfigured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.SetGoal(h.ctx, "alice", tt.in)
			requireCode(t, err, tt.code)
		})
	}

	counter, err := h.svc.GetCurrentCounter(h.ctx)
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	if counter != 0 {
		t.Fatalf("counter = %d after rejections, want 0", counter)
	}
	if got := h.balance(t, "alice"); got != 10 {
		t.Fatalf("alice balance = %d, want 10", got)
	}
}

func TestGoalIDsIncrease(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 10)
	first := h.setGoal(t, "alice", 5, "")
	second := h.setGoal(t, "alice", 5, "")
	if first != 1 || second != 2 {
		t.Fatalf("ids = %d, %d", first, second)
	}
	counter, err := h.svc.GetCurrentCounter(h.ctx)
	if err != nil || counter != 2 {
		t.Fatalf("counter = %d, %v", counter, err)
	}
}

func TestParticipantRules(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 10)
	id := h.setGoal(t, "alice", 10, "")

	requireCode(t, h.svc.Watch(h.ctx, "alice", id, ""), apperrors.CodeAuthorCannotParticipate)
	if err := h.svc.Watch(h.ctx, "bob", id, "ipfs://bob"); err != nil {
		t.Fatalf("watch: %v", err)
	}
	requireCode(t, h.svc.BecomeMotivator(h.ctx, "bob", id, ""), apperrors.CodeAlreadyParticipant)
	requireCode(t, h.svc.AcceptWatcher(h.ctx, "bob", id, "bob"), apperrors.CodeNotAuthor)
	requireCode(t, h.svc.AcceptMotivator(h.ctx, "alice", id, "bob"), apperrors.CodeParticipantRoleMismatch)
	requireCode(t, h.svc.AcceptWatcher(h.ctx, "alice", id, "carol"), apperrors.CodeParticipantNotFound)
	if err := h.svc.AcceptWatcher(h.ctx, "alice", id, "bob"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	requireCode(t, h.svc.AcceptWatcher(h.ctx, "alice", id, "bob"), apperrors.CodeParticipantAlreadyAccepted)
	requireCode(t, h.svc.Watch(h.ctx, "bob", 99, ""), apperrors.CodeGoalNotFound)

	watchers, err := h.svc.GetWatchers(h.ctx, id)
	if err != nil {
		t.Fatalf("watchers: %v", err)
	}
	if len(watchers) != 1 || !watchers[0].Accepted || watchers[0].ExtraDataURI != "ipfs://bob" {
		t.Fatalf("watchers = %+v", watchers)
	}

	h.clock.Advance(48 * time.Hour)
	requireCode(t, h.svc.Watch(h.ctx, "carol", id, ""), apperrors.CodeGoalDeadlinePassed)
}

func TestMessageBoard(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 10)
	id := h.setGoal(t, "alice", 10, "")

	index, err := h.svc.PostMessage(h.ctx, "carol", id, "ipfs://cheer")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if index != 0 {
		t.Fatalf("index = %d, want 0", index)
	}
	own, err := h.svc.PostMessage(h.ctx, "alice", id, "ipfs://thanks")
	if err != nil {
		t.Fatalf("author post: %v", err)
	}

	motivators, err := h.svc.GetMotivators(h.ctx, id)
	if err != nil {
		t.Fatalf("motivators: %v", err)
	}
	if len(motivators) != 1 || motivators[0].Account != "carol" {
		t.Fatalf("motivators = %+v", motivators)
	}

	requireCode(t, h.svc.EvaluateMessage(h.ctx, "carol", id, index, true, false), apperrors.CodeNotAuthor)
	requireCode(t, h.svc.EvaluateMessage(h.ctx, "alice", id, own, true, false), apperrors.CodeAuthorCannotEvaluateOwnMsg)
	requireCode(t, h.svc.EvaluateMessage(h.ctx, "alice", id, 7, true, false), apperrors.CodeMessageNotFound)
	if err := h.svc.EvaluateMessage(h.ctx, "alice", id, index, true, true); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	requireCode(t, h.svc.EvaluateMessage(h.ctx, "alice", id, index, false, false), apperrors.CodeMessageAlreadyEvaluated)

	rep, err := h.svc.GetMotivatorReputation(h.ctx, "carol")
	if err != nil {
		t.Fatalf("motivator reputation: %v", err)
	}
	if rep.Motivations != 1 || rep.SuperMotivations != 1 {
		t.Fatalf("motivator reputation = %+v", rep)
	}
	messages, err := h.svc.GetMessages(h.ctx, id)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(messages) != 2 || !messages[0].Evaluated {
		t.Fatalf("messages = %+v", messages)
	}
}

func TestAcceptedMotivatorsPolicy(t *testing.T) {
	h := newHarness(t, Options{})
	if err := h.svc.SetMessagePolicy(h.ctx, owner, string(settings.MessagePolicyAcceptedMotivators)); err != nil {
		t.Fatalf("set policy: %v", err)
	}
	h.fund(t, "alice", 10)
	id := h.setGoal(t, "alice", 10, "")

	_, err := h.svc.PostMessage(h.ctx, "carol", id, "ipfs://m")
	requireCode(t, err, apperrors.CodeNotAuthorNotAcceptedMotivator)

	if err := h.svc.BecomeMotivator(h.ctx, "carol", id, ""); err != nil {
		t.Fatalf("become motivator: %v", err)
	}
	if err := h.svc.AcceptMotivator(h.ctx, "alice", id, "carol"); err != nil {
		t.Fatalf("accept motivator: %v", err)
	}
	if _, err := h.svc.PostMessage(h.ctx, "carol", id, "ipfs://m"); err != nil {
		t.Fatalf("post: %v", err)
	}
}

func TestPauseBlocksMutations(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 10)

	requireCode(t, h.svc.Pause(h.ctx, "alice"), apperrors.CodeNotOwner)
	if err := h.svc.Pause(h.ctx, owner); err != nil {
		t.Fatalf("pause: %v", err)
	}
	_, err := h.svc.SetGoal(h.ctx, "alice", SetGoalInput{Description: "d", Stake: 1, AttachedFunds: 1, Deadline: testStart.Add(time.Hour)})
	requireCode(t, err, apperrors.CodePaused)
	requireCode(t, h.svc.SetProfile(h.ctx, "alice", "ipfs://me"), apperrors.CodePaused)

	if err := h.svc.SetFeePercent(h.ctx, owner, 20); err != nil {
		t.Fatalf("admin while paused: %v", err)
	}
	if err := h.svc.Unpause(h.ctx, owner); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	h.setGoal(t, "alice", 1, "")

	cfg, err := h.svc.GetSettings(h.ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if cfg.Paused || cfg.FeePercent != 20 {
		t.Fatalf("settings = %+v", cfg)
	}
}

func TestAdminValidation(t *testing.T) {
	h := newHarness(t, Options{})
	requireCode(t, h.svc.SetFeePercent(h.ctx, owner, 101), apperrors.CodeFeePercentInvalid)
	requireCode(t, h.svc.SetMessagePolicy(h.ctx, owner, "everyone"), apperrors.CodeMessagePolicyInvalid)
	requireCode(t, h.svc.SetTreasuryAccount(h.ctx, owner, " "), apperrors.CodeAccountInvalid)
	requireCode(t, h.svc.FundAccount(h.ctx, "alice", "alice", 5), apperrors.CodeNotOwner)
	if err := h.svc.SetTreasuryAccount(h.ctx, owner, "vault"); err != nil {
		t.Fatalf("set treasury: %v", err)
	}

	if err := h.svc.Bootstrap(h.ctx, settings.Default("other", "elsewhere")); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	cfg, err := h.svc.GetSettings(h.ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if cfg.Owner != owner || cfg.Treasury != "vault" {
		t.Fatalf("settings = %+v", cfg)
	}
}

func TestProfileGate(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 10)
	if err := h.svc.SetProfileGate(h.ctx, owner, true); err != nil {
		t.Fatalf("profile gate: %v", err)
	}
	in := SetGoalInput{Description: "d", Stake: 1, AttachedFunds: 1, Deadline: testStart.Add(time.Hour)}
	_, err := h.svc.SetGoal(h.ctx, "alice", in)
	requireCode(t, err, apperrors.CodeProfileRequired)

	if err := h.svc.SetProfile(h.ctx, "alice", "ipfs://alice"); err != nil {
		t.Fatalf("set profile: %v", err)
	}
	if err := h.svc.SetProfile(h.ctx, "alice", "ipfs://alice-2"); err != nil {
		t.Fatalf("replace profile: %v", err)
	}
	if _, err := h.svc.SetGoal(h.ctx, "alice", in); err != nil {
		t.Fatalf("set goal with profile: %v", err)
	}
	record, err := h.svc.GetProfile(h.ctx, "alice")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if record.URI != "ipfs://alice-2" {
		t.Fatalf("profile = %+v", record)
	}
}

type staticProfiles map[string]bool

func (p staticProfiles) HasProfile(_ context.Context, account string) (bool, error) {
	return p[account], nil
}

func TestExternalProfileRegistry(t *testing.T) {
	h := newHarness(t, Options{Profiles: staticProfiles{"alice": true}})
	h.fund(t, "alice", 2)
	h.fund(t, "bob", 2)
	if err := h.svc.SetProfileGate(h.ctx, owner, true); err != nil {
		t.Fatalf("profile gate: %v", err)
	}
	h.setGoal(t, "alice", 1, "")
	_, err := h.svc.SetGoal(h.ctx, "bob", SetGoalInput{Description: "d", Stake: 1, AttachedFunds: 1, Deadline: testStart.Add(time.Hour)})
	requireCode(t, err, apperrors.CodeProfileRequired)
}

func TestEscrowConservation(t *testing.T) {
	h := newHarness(t, Options{})
	accounts := []string{"alice", "bob", "carol", "dave", treasury}
	for _, acct := range accounts[:4] {
		h.fund(t, acct, 1000)
	}
	total := func() uint64 {
		var sum uint64
		for _, acct := range accounts {
			sum += h.balance(t, acct)
		}
		page, err := h.svc.ListGoals(h.ctx, 100, "", "")
		if err != nil {
			t.Fatalf("list goals: %v", err)
		}
		for _, g := range page.Goals {
			locked, err := h.svc.GetEscrow(h.ctx, g.ID)
			if err != nil {
				t.Fatalf("escrow: %v", err)
			}
			if !locked.Released {
				sum += locked.Locked
			}
		}
		return sum
	}
	want := total()

	stakes := []uint64{1, 7, 99, 101, 333}
	for i, stake := range stakes {
		id := h.setGoal(t, accounts[i%4], stake, "")
		for j := 0; j < i%4; j++ {
			p := accounts[(i+j+1)%4]
			if err := h.svc.Watch(h.ctx, p, id, ""); err != nil {
				t.Fatalf("watch: %v", err)
			}
			if err := h.svc.AcceptWatcher(h.ctx, accounts[i%4], id, p); err != nil {
				t.Fatalf("accept: %v", err)
			}
		}
		if got := total(); got != want {
			t.Fatalf("total after goal %d = %d, want %d", id, got, want)
		}
	}
	h.clock.Advance(72 * time.Hour)
	page, err := h.svc.ListGoals(h.ctx, 100, "", `status = "open"`)
	if err != nil {
		t.Fatalf("list open goals: %v", err)
	}
	for _, g := range page.Goals {
		if _, err := h.svc.Close(h.ctx, "eve", g.ID); err != nil {
			t.Fatalf("close %d: %v", g.ID, err)
		}
		if got := total(); got != want {
			t.Fatalf("total after close %d = %d, want %d", g.ID, got, want)
		}
	}
}

func TestMetricsRecordSettlementsAndRejections(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewLedger(reg)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	h := newHarness(t, Options{Metrics: m})
	h.fund(t, "alice", 10)
	id := h.setGoal(t, "alice", 10, "")
	_, err = h.svc.Close(h.ctx, "alice", id)
	requireCode(t, err, apperrors.CodeGoalNotAchievable)
	h.clock.Advance(48 * time.Hour)
	if _, err := h.svc.Close(h.ctx, "eve", id); err != nil {
		t.Fatalf("close: %v", err)
	}

	tests := []struct {
		name string
		want int
	}{
		{name: "stakes_space_ledger_settlements_total", want: 1},
		{name: "stakes_space_ledger_rejections_total", want: 1},
		// fee and unclaimed
		{name: "stakes_space_ledger_payout_amount_total", want: 2},
	}
	for _, tt := range tests {
		got, err := testutil.GatherAndCount(reg, tt.name)
		if err != nil {
			t.Fatalf("gather %s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%s series = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestCallerRequired(t *testing.T) {
	h := newHarness(t, Options{})
	_, err := h.svc.SetGoal(h.ctx, " ", SetGoalInput{})
	requireCode(t, err, apperrors.CodeCallerRequired)
}

func TestGetParamsMissingGoal(t *testing.T) {
	h := newHarness(t, Options{})
	_, err := h.svc.GetParams(h.ctx, 42)
	requireCode(t, err, apperrors.CodeGoalNotFound)

	status, err := h.svc.GetVerificationStatus(h.ctx, 42)
	if err != nil || status.Outcome != verification.OutcomePending {
		t.Fatalf("status = %+v, %v", status, err)
	}
	watchers, err := h.svc.GetWatchers(h.ctx, 42)
	if err != nil || len(watchers) != 0 {
		t.Fatalf("watchers = %+v, %v", watchers, err)
	}
	_, err = h.svc.GetProfile(h.ctx, "nobody")
	if err == nil {
		t.Fatal("expected missing profile error")
	}
	has, err := h.svc.HasProfile(h.ctx, "nobody")
	if err != nil || has {
		t.Fatalf("has profile = %v, %v", has, err)
	}
}

func TestListEventsJournalsOperations(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, "alice", 10)
	id := h.setGoal(t, "alice", 10, "")
	events, err := h.svc.ListEvents(h.ctx, id, 0, 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %+v", events)
	}
	all, err := h.svc.ListEvents(h.ctx, 0, 0, 10)
	if err != nil {
		t.Fatalf("list all events: %v", err)
	}
	// settings bootstrap, funding, goal creation, lock
	if len(all) != 4 {
		t.Fatalf("all events = %d, want 4", len(all))
	}
}

func TestCloseRollsBackWhenPayoutFails(t *testing.T) {
	h := newHarness(t, Options{})
	h.fund(t, treasury, escrow.MaxAmount)
	h.fund(t, "alice", 10)
	id := h.setGoal(t, "alice", 10, "")
	if err := h.svc.Watch(h.ctx, "bob", id, ""); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if err := h.svc.AcceptWatcher(h.ctx, "alice", id, "bob"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	before, err := h.svc.ListEvents(h.ctx, 0, 0, 100)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}

	h.clock.Advance(48 * time.Hour)
	_, err = h.svc.Close(h.ctx, "dave", id)
	requireCode(t, err, apperrors.CodeAmountOverflow)

	record, err := h.svc.GetParams(h.ctx, id)
	if err != nil {
		t.Fatalf("get params: %v", err)
	}
	if record.Closed {
		t.Fatalf("goal closed after failed payout: %+v", record)
	}
	locked, err := h.svc.GetEscrow(h.ctx, id)
	if err != nil {
		t.Fatalf("get escrow: %v", err)
	}
	if locked.Released || locked.Locked != 10 {
		t.Fatalf("escrow = %+v", locked)
	}
	if got := h.balance(t, "bob"); got != 0 {
		t.Fatalf("bob balance = %d, want 0", got)
	}
	if got := h.balance(t, treasury); got != escrow.MaxAmount {
		t.Fatalf("treasury balance = %d, want %d", got, escrow.MaxAmount)
	}
	for _, acct := range []string{"alice", "bob"} {
		if rep := h.reputation(t, acct); rep != (reputation.Reputation{}) {
			t.Fatalf("%s reputation = %+v", acct, rep)
		}
	}
	after, err := h.svc.ListEvents(h.ctx, 0, 0, 100)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("journal grew from %d to %d events", len(before), len(after))
	}

	// The goal still settles once the fee sink can take the fee.
	if err := h.svc.SetTreasuryAccount(h.ctx, owner, "vault"); err != nil {
		t.Fatalf("set treasury: %v", err)
	}
	if _, err := h.svc.Close(h.ctx, "dave", id); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := h.balance(t, "vault") + h.balance(t, "bob"); got != 10 {
		t.Fatalf("vault+bob = %d, want 10", got)
	}
}

var _ storage.Store = (*sqlite.Store)(nil)
