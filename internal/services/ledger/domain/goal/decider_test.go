package goal

import (
	"encoding/json"
	"testing"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/command"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/escrow"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/verification"
)

var (
	testNow      = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	testDeadline = testNow.Add(24 * time.Hour)
)

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func apply(t *testing.T, state State, decision command.Decision) State {
	t.Helper()
	if err := decision.Err(); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	for _, evt := range decision.Events {
		var err error
		state, err = Fold(state, evt)
		if err != nil {
			t.Fatalf("fold %s: %v", evt.Type, err)
		}
	}
	return state
}

func createGoal(t *testing.T, requirement string) State {
	t.Helper()
	cmd := command.Command{
		Type:    CommandTypeCreate,
		GoalID:  1,
		ActorID: "alice",
		PayloadJSON: mustJSON(t, CreatePayload{
			Description:   "ipfs://goal",
			Stake:         100,
			AttachedFunds: 100,
			Deadline:      testDeadline.Unix(),
			Requirement:   requirement,
		}),
	}
	return apply(t, State{}, Decide(State{}, cmd, testNow))
}

func closeCmd(t *testing.T, actor string, mode CloseMode) command.Command {
	return command.Command{Type: CommandTypeClose, GoalID: 1, ActorID: actor, PayloadJSON: mustJSON(t, ClosePayload{Mode: mode})}
}

func proofCmd(t *testing.T, actor, uri string) command.Command {
	return command.Command{Type: CommandTypePostProof, GoalID: 1, ActorID: actor, PayloadJSON: mustJSON(t, ProofPayload{URI: uri})}
}

func expectCode(t *testing.T, decision command.Decision, code apperrors.Code) {
	t.Helper()
	if !apperrors.IsCode(decision.Err(), code) {
		t.Fatalf("expected %s, got %v", code, decision.Err())
	}
}

func TestCreateEmitsGoalAndLock(t *testing.T) {
	cmd := command.Command{
		Type:        CommandTypeCreate,
		GoalID:      1,
		ActorID:     "alice",
		PayloadJSON: mustJSON(t, CreatePayload{Description: "ipfs://goal", Stake: 100, AttachedFunds: 100, Deadline: testDeadline.Unix()}),
	}
	decision := Decide(State{}, cmd, testNow)
	if err := decision.Err(); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if len(decision.Events) != 2 || decision.Events[0].Type != EventTypeCreated || decision.Events[1].Type != escrow.EventTypeLocked {
		t.Fatalf("events = %+v", decision.Events)
	}
	state := apply(t, State{}, decision)
	if !state.Created || state.Author != "alice" || state.Stake != 100 || !state.Deadline.Equal(testDeadline) {
		t.Fatalf("state = %+v", state)
	}
	if state.Outcome != verification.OutcomePending || state.Closed {
		t.Fatalf("state = %+v", state)
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload CreatePayload
		code    apperrors.Code
	}{
		{"mismatch", CreatePayload{Description: "d", Stake: 100, AttachedFunds: 99, Deadline: testDeadline.Unix()}, apperrors.CodeStakeMismatch},
		{"zero", CreatePayload{Description: "d", Deadline: testDeadline.Unix()}, apperrors.CodeStakeZero},
		{"overflow", CreatePayload{Description: "d", Stake: escrow.MaxAmount + 1, AttachedFunds: escrow.MaxAmount + 1, Deadline: testDeadline.Unix()}, apperrors.CodeAmountOverflow},
		{"deadline now", CreatePayload{Description: "d", Stake: 1, AttachedFunds: 1, Deadline: testNow.Unix()}, apperrors.CodeDeadlineNotInFuture},
		{"description", CreatePayload{Description: " ", Stake: 1, AttachedFunds: 1, Deadline: testDeadline.Unix()}, apperrors.CodeURIEmpty},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := command.Command{Type: CommandTypeCreate, GoalID: 1, ActorID: "alice", PayloadJSON: mustJSON(t, tc.payload)}
			expectCode(t, Decide(State{}, cmd, testNow), tc.code)
		})
	}
}

func TestPostProof(t *testing.T) {
	state := createGoal(t, "")
	expectCode(t, Decide(state, proofCmd(t, "bob", "ipfs://p"), testNow), apperrors.CodeNotAuthor)
	expectCode(t, Decide(state, proofCmd(t, "alice", " "), testNow), apperrors.CodeURIEmpty)
	expectCode(t, Decide(state, proofCmd(t, "alice", "ipfs://p"), testDeadline), apperrors.CodeGoalDeadlinePassed)
	expectCode(t, Decide(State{}, proofCmd(t, "alice", "ipfs://p"), testNow), apperrors.CodeGoalNotFound)

	state = apply(t, state, Decide(state, proofCmd(t, "alice", "ipfs://p1"), testNow))
	state = apply(t, state, Decide(state, proofCmd(t, "alice", "ipfs://p2"), testNow))
	if state.ProofCount != 2 || state.ProofURI != "ipfs://p2" || !state.Qualifies() {
		t.Fatalf("state = %+v", state)
	}
}

func TestCloseBeforeDeadline(t *testing.T) {
	state := createGoal(t, "")
	expectCode(t, Decide(state, closeCmd(t, "alice", CloseModeAuto), testNow), apperrors.CodeGoalNotAchievable)

	state = apply(t, state, Decide(state, proofCmd(t, "alice", "ipfs://p"), testNow))
	expectCode(t, Decide(state, closeCmd(t, "bob", CloseModeAuto), testNow), apperrors.CodeNotAuthor)

	state = apply(t, state, Decide(state, closeCmd(t, "alice", CloseModeAuto), testNow))
	if !state.Closed || !state.Achieved {
		t.Fatalf("state = %+v", state)
	}
	expectCode(t, Decide(state, closeCmd(t, "alice", CloseModeAuto), testNow), apperrors.CodeGoalAlreadyClosed)
	expectCode(t, Decide(state, closeCmd(t, "bob", CloseModeFailed), testDeadline), apperrors.CodeGoalAlreadyClosed)
}

func TestCloseAfterDeadline(t *testing.T) {
	state := createGoal(t, "")
	failed := apply(t, state, Decide(state, closeCmd(t, "anyone", CloseModeAuto), testDeadline))
	if !failed.Closed || failed.Achieved {
		t.Fatalf("state = %+v", failed)
	}

	withProof := apply(t, state, Decide(state, proofCmd(t, "alice", "ipfs://p"), testNow))
	achieved := apply(t, withProof, Decide(withProof, closeCmd(t, "anyone", CloseModeAuto), testDeadline.Add(time.Hour)))
	if !achieved.Achieved {
		t.Fatalf("state = %+v", achieved)
	}
}

func TestCloseModes(t *testing.T) {
	state := createGoal(t, "")
	expectCode(t, Decide(state, closeCmd(t, "bob", CloseModeFailed), testNow), apperrors.CodeGoalDeadlineNotPassed)
	expectCode(t, Decide(state, closeCmd(t, "alice", CloseModeAchieved), testDeadline), apperrors.CodeGoalDeadlinePassed)

	withProof := apply(t, state, Decide(state, proofCmd(t, "alice", "ipfs://p"), testNow))
	expectCode(t, Decide(withProof, closeCmd(t, "bob", CloseModeFailed), testDeadline), apperrors.CodeGoalHasQualifyingEvidence)

	failed := apply(t, state, Decide(state, closeCmd(t, "bob", CloseModeFailed), testDeadline))
	if !failed.Closed || failed.Achieved {
		t.Fatalf("state = %+v", failed)
	}
}

func TestVerifiedGoalQualifiesOnOutcome(t *testing.T) {
	state := createGoal(t, verification.RequirementAnyProof)
	state = apply(t, state, Decide(state, proofCmd(t, "alice", "ipfs://p"), testNow))
	if state.Qualifies() {
		t.Fatal("proofs must not qualify a verified goal")
	}
	expectCode(t, Decide(state, closeCmd(t, "alice", CloseModeAuto), testNow), apperrors.CodeGoalNotAchievable)

	state, err := Fold(state, verification.DecidedEvent(command.Command{GoalID: 1}, verification.OutcomeAchieved, testNow))
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	state = apply(t, state, Decide(state, closeCmd(t, "alice", CloseModeAuto), testNow))
	if !state.Achieved {
		t.Fatalf("state = %+v", state)
	}

	failed := createGoal(t, verification.RequirementAttestation)
	failed, err = Fold(failed, verification.DecidedEvent(command.Command{GoalID: 1}, verification.OutcomeFailed, testNow))
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	expectCode(t, Decide(failed, closeCmd(t, "alice", CloseModeAuto), testNow), apperrors.CodeGoalNotAchievable)
	closed := apply(t, failed, Decide(failed, closeCmd(t, "bob", CloseModeAuto), testDeadline))
	if closed.Achieved {
		t.Fatal("failed verification must settle as failed")
	}
}
