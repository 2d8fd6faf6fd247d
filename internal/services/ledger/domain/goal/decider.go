package goal

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/command"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/escrow"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/verification"
)

// Decide returns the decision for a goal command against current state.
func Decide(state State, cmd command.Command, now time.Time) command.Decision {
	switch cmd.Type {
	case CommandTypeCreate:
		return decideCreate(state, cmd, now)
	case CommandTypePostProof:
		return decidePostProof(state, cmd, now)
	case CommandTypeClose:
		return decideClose(state, cmd, now)
	default:
		return command.Reject(command.Rejection{Code: apperrors.CodeUnknown, Message: "unsupported goal command " + string(cmd.Type)})
	}
}

func decideCreate(state State, cmd command.Command, now time.Time) command.Decision {
	if state.Created {
		return command.Reject(command.Rejection{Code: apperrors.CodeUnknown, Message: "goal already exists"})
	}
	var payload CreatePayload
	if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
		return invalidPayload(err)
	}
	if payload.AttachedFunds != payload.Stake {
		return command.Reject(command.Rejection{
			Code:    apperrors.CodeStakeMismatch,
			Message: "attached funds must equal stake",
			Metadata: map[string]string{
				"Stake":         strconv.FormatUint(payload.Stake, 10),
				"AttachedFunds": strconv.FormatUint(payload.AttachedFunds, 10),
			},
		})
	}
	if err := escrow.CheckAmount(payload.Stake); err != nil {
		return command.RejectErr(err)
	}
	if !time.Unix(payload.Deadline, 0).After(now) {
		return command.Reject(command.Rejection{Code: apperrors.CodeDeadlineNotInFuture, Message: "deadline must be in the future"})
	}
	description := strings.TrimSpace(payload.Description)
	if description == "" {
		return command.Reject(command.Rejection{Code: apperrors.CodeURIEmpty, Message: "description is required"})
	}
	payloadJSON, err := json.Marshal(CreatedPayload{
		Author:      cmd.ActorID,
		Description: description,
		Stake:       payload.Stake,
		Deadline:    payload.Deadline,
		Requirement: strings.TrimSpace(payload.Requirement),
	})
	if err != nil {
		return invalidPayload(err)
	}
	return command.Accept(
		command.NewEvent(cmd, EventTypeCreated, "goal", entityID(cmd.GoalID), payloadJSON, now),
		escrow.LockedEvent(cmd, cmd.ActorID, payload.Stake, now),
	)
}

func decidePostProof(state State, cmd command.Command, now time.Time) command.Decision {
	if err := state.CheckAuthorWindow(cmd.ActorID, now); err != nil {
		return command.RejectErr(err)
	}
	var payload ProofPayload
	if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
		return invalidPayload(err)
	}
	uri := strings.TrimSpace(payload.URI)
	if uri == "" {
		return command.Reject(command.Rejection{Code: apperrors.CodeURIEmpty, Message: "proof uri is required"})
	}
	payloadJSON, err := json.Marshal(ProofPayload{URI: uri})
	if err != nil {
		return invalidPayload(err)
	}
	return command.Accept(command.NewEvent(cmd, EventTypeProofPosted, "goal", entityID(cmd.GoalID), payloadJSON, now))
}

func decideClose(state State, cmd command.Command, now time.Time) command.Decision {
	if err := state.CheckOpen(); err != nil {
		return command.RejectErr(err)
	}
	var payload ClosePayload
	if len(cmd.PayloadJSON) > 0 {
		if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
			return invalidPayload(err)
		}
	}
	if payload.Mode == "" {
		payload.Mode = CloseModeAuto
	}

	var achieved bool
	switch payload.Mode {
	case CloseModeAuto, CloseModeAchieved:
		if state.DeadlinePassed(now) {
			if payload.Mode == CloseModeAchieved {
				return command.RejectErr(state.CheckBeforeDeadline(now))
			}
			achieved = state.Qualifies()
			break
		}
		if err := state.CheckAuthor(cmd.ActorID); err != nil {
			return command.RejectErr(err)
		}
		if !state.Qualifies() {
			return command.Reject(command.Rejection{
				Code:     apperrors.CodeGoalNotAchievable,
				Message:  "goal has no qualifying evidence before its deadline",
				Metadata: state.metadata(),
			})
		}
		achieved = true
	case CloseModeFailed:
		if !state.DeadlinePassed(now) {
			return command.Reject(command.Rejection{
				Code:     apperrors.CodeGoalDeadlineNotPassed,
				Message:  "goal deadline has not passed",
				Metadata: state.metadata(),
			})
		}
		if state.Qualifies() {
			return command.Reject(command.Rejection{
				Code:     apperrors.CodeGoalHasQualifyingEvidence,
				Message:  "goal has qualifying evidence",
				Metadata: state.metadata(),
			})
		}
	default:
		return command.Reject(command.Rejection{Code: apperrors.CodeUnknown, Message: "unknown close mode " + string(payload.Mode)})
	}

	payloadJSON, err := json.Marshal(ClosedPayload{Achieved: achieved, Mode: payload.Mode})
	if err != nil {
		return invalidPayload(err)
	}
	return command.Accept(command.NewEvent(cmd, EventTypeClosed, "goal", entityID(cmd.GoalID), payloadJSON, now))
}

// Fold applies an event to goal state. Events for other entities are ignored
// except verification decisions, which the close state machine reads.
func Fold(state State, evt event.Event) (State, error) {
	switch evt.Type {
	case EventTypeCreated:
		var p CreatedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			return state, apperrors.Wrap(apperrors.CodeUnknown, "decode goal created", err)
		}
		state.Created = true
		state.ID = evt.GoalID
		state.Author = p.Author
		state.Description = p.Description
		state.Stake = p.Stake
		state.Deadline = time.Unix(p.Deadline, 0).UTC()
		state.Requirement = p.Requirement
		state.CreatedAt = evt.Timestamp
		if state.Outcome == "" {
			state.Outcome = verification.OutcomePending
		}
	case EventTypeProofPosted:
		var p ProofPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			return state, apperrors.Wrap(apperrors.CodeUnknown, "decode proof posted", err)
		}
		state.ProofURI = p.URI
		state.ProofCount++
	case EventTypeClosed:
		var p ClosedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			return state, apperrors.Wrap(apperrors.CodeUnknown, "decode goal closed", err)
		}
		state.Closed = true
		state.Achieved = p.Achieved
		state.ClosedAt = evt.Timestamp
	case verification.EventTypeDecided:
		var p verification.DecidedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			return state, apperrors.Wrap(apperrors.CodeUnknown, "decode verification decided", err)
		}
		state.Outcome = p.Outcome
	}
	return state, nil
}

func entityID(goalID uint64) string {
	return strconv.FormatUint(goalID, 10)
}

func invalidPayload(err error) command.Decision {
	return command.Reject(command.Rejection{Code: apperrors.CodeUnknown, Message: "invalid payload: " + err.Error()})
}
