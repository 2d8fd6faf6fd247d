// Package participant decides who may watch or motivate a goal and when the
// goal's author accepts them. Only accepted participants share a failed stake.
package participant

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/command"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/goal"
)

// Role describes how an account engages with a goal.
type Role string

const (
	RoleWatcher   Role = "watcher"
	RoleMotivator Role = "motivator"
)

// ParseRole normalizes a role name.
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleWatcher:
		return RoleWatcher, true
	case RoleMotivator:
		return RoleMotivator, true
	default:
		return "", false
	}
}

const (
	CommandTypeJoin   command.Type = "participant.join"
	CommandTypeAccept command.Type = "participant.accept"

	EventTypeJoined   event.Type = "participant.joined"
	EventTypeAccepted event.Type = "participant.accepted"
)

// State is the folded view of one (goal, account) participant.
type State struct {
	Joined       bool
	Account      string
	Role         Role
	ExtraDataURI string
	Accepted     bool
}

// JoinPayload captures a join request. Account is the joining caller.
type JoinPayload struct {
	Account      string `json:"account"`
	Role         Role   `json:"role"`
	ExtraDataURI string `json:"extra_data_uri,omitempty"`
}

// AcceptPayload names the participant being accepted and the role the author
// expects them to hold.
type AcceptPayload struct {
	Account string `json:"account"`
	Role    Role   `json:"role"`
}

// Decide returns the decision for a participant command.
func Decide(g goal.State, state State, cmd command.Command, now time.Time) command.Decision {
	switch cmd.Type {
	case CommandTypeJoin:
		return decideJoin(g, state, cmd, now)
	case CommandTypeAccept:
		return decideAccept(g, state, cmd, now)
	default:
		return command.Reject(command.Rejection{Code: apperrors.CodeUnknown, Message: "unsupported participant command " + string(cmd.Type)})
	}
}

func decideJoin(g goal.State, state State, cmd command.Command, now time.Time) command.Decision {
	var payload JoinPayload
	if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
		return invalidPayload(err)
	}
	if payload.Account == "" {
		payload.Account = cmd.ActorID
	}
	role, ok := ParseRole(string(payload.Role))
	if !ok {
		return command.Reject(command.Rejection{Code: apperrors.CodeUnknown, Message: "unknown participant role " + string(payload.Role)})
	}
	if err := g.CheckOpen(); err != nil {
		return command.RejectErr(err)
	}
	if err := g.CheckBeforeDeadline(now); err != nil {
		return command.RejectErr(err)
	}
	if payload.Account == g.Author {
		return command.Reject(command.Rejection{Code: apperrors.CodeAuthorCannotParticipate, Message: "author cannot join own goal"})
	}
	if state.Joined {
		return command.Reject(command.Rejection{
			Code:     apperrors.CodeAlreadyParticipant,
			Message:  "account already participates",
			Metadata: map[string]string{"Account": payload.Account, "Role": string(state.Role)},
		})
	}
	return command.Accept(JoinedEvent(cmd, payload.Account, role, payload.ExtraDataURI, now))
}

// JoinedEvent builds the event for an account joining a goal. Message posting
// uses it to enroll motivators.
func JoinedEvent(cmd command.Command, account string, role Role, extraDataURI string, now time.Time) event.Event {
	payloadJSON, _ := json.Marshal(JoinPayload{Account: account, Role: role, ExtraDataURI: strings.TrimSpace(extraDataURI)})
	return command.NewEvent(cmd, EventTypeJoined, "participant", account, payloadJSON, now)
}

func decideAccept(g goal.State, state State, cmd command.Command, now time.Time) command.Decision {
	var payload AcceptPayload
	if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
		return invalidPayload(err)
	}
	if !g.Created {
		return command.RejectErr(g.CheckOpen())
	}
	if err := g.CheckAuthor(cmd.ActorID); err != nil {
		return command.RejectErr(err)
	}
	if err := g.CheckOpen(); err != nil {
		return command.RejectErr(err)
	}
	metadata := map[string]string{"Account": payload.Account, "GoalID": cmd.GoalIDString()}
	if !state.Joined {
		return command.Reject(command.Rejection{Code: apperrors.CodeParticipantNotFound, Message: "account is not a participant", Metadata: metadata})
	}
	if payload.Role != "" && payload.Role != state.Role {
		metadata["Role"] = string(state.Role)
		return command.Reject(command.Rejection{Code: apperrors.CodeParticipantRoleMismatch, Message: "participant holds a different role", Metadata: metadata})
	}
	if state.Accepted {
		return command.Reject(command.Rejection{Code: apperrors.CodeParticipantAlreadyAccepted, Message: "participant already accepted", Metadata: metadata})
	}
	payloadJSON, err := json.Marshal(AcceptPayload{Account: payload.Account, Role: state.Role})
	if err != nil {
		return invalidPayload(err)
	}
	return command.Accept(command.NewEvent(cmd, EventTypeAccepted, "participant", payload.Account, payloadJSON, now))
}

// Fold applies a participant event. Acceptance never reverts.
func Fold(state State, evt event.Event) (State, error) {
	switch evt.Type {
	case EventTypeJoined:
		var p JoinPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			return state, apperrors.Wrap(apperrors.CodeUnknown, "decode participant joined", err)
		}
		state.Joined = true
		state.Account = p.Account
		state.Role = p.Role
		state.ExtraDataURI = p.ExtraDataURI
	case EventTypeAccepted:
		state.Accepted = true
	}
	return state, nil
}

func invalidPayload(err error) command.Decision {
	return command.Reject(command.Rejection{Code: apperrors.CodeUnknown, Message: "invalid payload: " + err.Error()})
}
