package participant

import (
	"encoding/json"
	"testing"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/command"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/goal"
)

var (
	testNow      = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	testDeadline = testNow.Add(time.Hour)
)

func openGoal() goal.State {
	return goal.State{Created: true, ID: 1, Author: "alice", Stake: 50, Deadline: testDeadline}
}

func joinCmd(t *testing.T, account string, role Role) command.Command {
	t.Helper()
	data, err := json.Marshal(JoinPayload{Account: account, Role: role, ExtraDataURI: "ipfs://hi"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return command.Command{Type: CommandTypeJoin, GoalID: 1, ActorID: account, PayloadJSON: data}
}

func acceptCmd(t *testing.T, actor, account string, role Role) command.Command {
	t.Helper()
	data, err := json.Marshal(AcceptPayload{Account: account, Role: role})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return command.Command{Type: CommandTypeAccept, GoalID: 1, ActorID: actor, PayloadJSON: data}
}

func fold(t *testing.T, state State, decision command.Decision) State {
	t.Helper()
	if err := decision.Err(); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	for _, evt := range decision.Events {
		var err error
		if state, err = Fold(state, evt); err != nil {
			t.Fatalf("fold: %v", err)
		}
	}
	return state
}

func expectCode(t *testing.T, decision command.Decision, code apperrors.Code) {
	t.Helper()
	if !apperrors.IsCode(decision.Err(), code) {
		t.Fatalf("expected %s, got %v", code, decision.Err())
	}
}

func TestJoin(t *testing.T) {
	g := openGoal()
	state := fold(t, State{}, Decide(g, State{}, joinCmd(t, "bob", RoleWatcher), testNow))
	if !state.Joined || state.Role != RoleWatcher || state.Accepted || state.ExtraDataURI != "ipfs://hi" {
		t.Fatalf("state = %+v", state)
	}
	expectCode(t, Decide(g, state, joinCmd(t, "bob", RoleMotivator), testNow), apperrors.CodeAlreadyParticipant)
	expectCode(t, Decide(g, State{}, joinCmd(t, "alice", RoleWatcher), testNow), apperrors.CodeAuthorCannotParticipate)
	expectCode(t, Decide(g, State{}, joinCmd(t, "carol", RoleWatcher), testDeadline), apperrors.CodeGoalDeadlinePassed)

	closed := g
	closed.Closed = true
	expectCode(t, Decide(closed, State{}, joinCmd(t, "carol", RoleWatcher), testNow), apperrors.CodeGoalAlreadyClosed)
	expectCode(t, Decide(goal.State{}, State{}, joinCmd(t, "carol", RoleWatcher), testNow), apperrors.CodeGoalNotFound)
}

func TestAcceptIsAuthorOnlyAndMonotonic(t *testing.T) {
	g := openGoal()
	state := fold(t, State{}, Decide(g, State{}, joinCmd(t, "bob", RoleMotivator), testNow))

	expectCode(t, Decide(g, state, acceptCmd(t, "carol", "bob", RoleMotivator), testNow), apperrors.CodeNotAuthor)
	expectCode(t, Decide(g, State{}, acceptCmd(t, "alice", "dave", RoleWatcher), testNow), apperrors.CodeParticipantNotFound)
	expectCode(t, Decide(g, state, acceptCmd(t, "alice", "bob", RoleWatcher), testNow), apperrors.CodeParticipantRoleMismatch)

	state = fold(t, state, Decide(g, state, acceptCmd(t, "alice", "bob", RoleMotivator), testNow))
	if !state.Accepted {
		t.Fatal("expected accepted")
	}
	expectCode(t, Decide(g, state, acceptCmd(t, "alice", "bob", RoleMotivator), testNow), apperrors.CodeParticipantAlreadyAccepted)

	// Joining again after acceptance cannot reset the flag.
	expectCode(t, Decide(g, state, joinCmd(t, "bob", RoleWatcher), testNow), apperrors.CodeAlreadyParticipant)
}

func TestAcceptAllowedAfterDeadlineWhileOpen(t *testing.T) {
	g := openGoal()
	state := fold(t, State{}, Decide(g, State{}, joinCmd(t, "bob", RoleWatcher), testNow))
	state = fold(t, state, Decide(g, state, acceptCmd(t, "alice", "bob", ""), testDeadline.Add(time.Minute)))
	if !state.Accepted {
		t.Fatal("expected accepted")
	}
	closed := g
	closed.Closed = true
	expectCode(t, Decide(closed, State{Joined: true, Role: RoleWatcher}, acceptCmd(t, "alice", "bob", ""), testNow), apperrors.CodeGoalAlreadyClosed)
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" Watcher "); !ok || r != RoleWatcher {
		t.Fatalf("ParseRole = %q %v", r, ok)
	}
	if _, ok := ParseRole("judge"); ok {
		t.Fatal("expected unknown role")
	}
}
