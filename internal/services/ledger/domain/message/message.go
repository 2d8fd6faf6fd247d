// Package message decides posting to and evaluating a goal's message board.
package message

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/command"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/goal"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/participant"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/settings"
)

const (
	CommandTypePost     command.Type = "message.post"
	CommandTypeEvaluate command.Type = "message.evaluate"

	EventTypePosted    event.Type = "message.posted"
	EventTypeEvaluated event.Type = "message.evaluated"
)

// State is the folded view of one message.
type State struct {
	Exists          bool
	Index           uint64
	Author          string
	ExtraDataURI    string
	Evaluated       bool
	Motivating      bool
	SuperMotivating bool
}

// PostPayload carries the message content reference.
type PostPayload struct {
	ExtraDataURI string `json:"extra_data_uri"`
}

// PostedPayload records a posted message at its board index.
type PostedPayload struct {
	Index        uint64 `json:"index"`
	Author       string `json:"author"`
	ExtraDataURI string `json:"extra_data_uri"`
}

// EvaluatePayload carries the author's verdict on a message.
type EvaluatePayload struct {
	Index           uint64 `json:"index"`
	Motivating      bool   `json:"motivating"`
	SuperMotivating bool   `json:"super_motivating"`
}

// EvaluatedPayload records a verdict and the poster it credits.
type EvaluatedPayload struct {
	Index           uint64 `json:"index"`
	Poster          string `json:"poster"`
	Motivating      bool   `json:"motivating"`
	SuperMotivating bool   `json:"super_motivating"`
}

// DecidePost decides a new message at nextIndex. poster is the caller's
// participant state; under the open policy a non-participant who is not the
// author is enrolled as a motivator in the same decision.
func DecidePost(g goal.State, poster participant.State, policy settings.MessagePolicy, nextIndex uint64, cmd command.Command, now time.Time) command.Decision {
	if err := g.CheckOpen(); err != nil {
		return command.RejectErr(err)
	}
	if err := g.CheckBeforeDeadline(now); err != nil {
		return command.RejectErr(err)
	}
	var payload PostPayload
	if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
		return invalidPayload(err)
	}
	uri := strings.TrimSpace(payload.ExtraDataURI)
	if uri == "" {
		return command.Reject(command.Rejection{Code: apperrors.CodeURIEmpty, Message: "message uri is required"})
	}

	isAuthor := cmd.ActorID == g.Author
	if !isAuthor && policy == settings.MessagePolicyAcceptedMotivators {
		if !poster.Joined || poster.Role != participant.RoleMotivator || !poster.Accepted {
			return command.Reject(command.Rejection{
				Code:     apperrors.CodeNotAuthorNotAcceptedMotivator,
				Message:  "only the author and accepted motivators may post",
				Metadata: map[string]string{"Account": cmd.ActorID, "GoalID": cmd.GoalIDString()},
			})
		}
	}

	events := make([]event.Event, 0, 2)
	if !isAuthor && !poster.Joined {
		events = append(events, participant.JoinedEvent(cmd, cmd.ActorID, participant.RoleMotivator, "", now))
	}
	payloadJSON, err := json.Marshal(PostedPayload{Index: nextIndex, Author: cmd.ActorID, ExtraDataURI: uri})
	if err != nil {
		return invalidPayload(err)
	}
	events = append(events, command.NewEvent(cmd, EventTypePosted, "message", strconv.FormatUint(nextIndex, 10), payloadJSON, now))
	return command.Accept(events...)
}

// DecideEvaluate decides the author's one-time verdict on msg.
func DecideEvaluate(g goal.State, msg State, cmd command.Command, now time.Time) command.Decision {
	var payload EvaluatePayload
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
	metadata := map[string]string{"GoalID": cmd.GoalIDString(), "Index": strconv.FormatUint(payload.Index, 10)}
	if !msg.Exists {
		return command.Reject(command.Rejection{Code: apperrors.CodeMessageNotFound, Message: "message not found", Metadata: metadata})
	}
	if msg.Author == g.Author {
		return command.Reject(command.Rejection{Code: apperrors.CodeAuthorCannotEvaluateOwnMsg, Message: "author cannot evaluate own message", Metadata: metadata})
	}
	if msg.Evaluated {
		return command.Reject(command.Rejection{Code: apperrors.CodeMessageAlreadyEvaluated, Message: "message already evaluated", Metadata: metadata})
	}
	payloadJSON, err := json.Marshal(EvaluatedPayload{
		Index:           payload.Index,
		Poster:          msg.Author,
		Motivating:      payload.Motivating,
		SuperMotivating: payload.SuperMotivating,
	})
	if err != nil {
		return invalidPayload(err)
	}
	return command.Accept(command.NewEvent(cmd, EventTypeEvaluated, "message", strconv.FormatUint(payload.Index, 10), payloadJSON, now))
}

// Fold applies a message event.
func Fold(state State, evt event.Event) (State, error) {
	switch evt.Type {
	case EventTypePosted:
		var p PostedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			return state, apperrors.Wrap(apperrors.CodeUnknown, "decode message posted", err)
		}
		state = State{Exists: true, Index: p.Index, Author: p.Author, ExtraDataURI: p.ExtraDataURI}
	case EventTypeEvaluated:
		var p EvaluatedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			return state, apperrors.Wrap(apperrors.CodeUnknown, "decode message evaluated", err)
		}
		state.Evaluated = true
		state.Motivating = p.Motivating
		state.SuperMotivating = p.SuperMotivating
	}
	return state, nil
}

func invalidPayload(err error) command.Decision {
	return command.Reject(command.Rejection{Code: apperrors.CodeUnknown, Message: "invalid payload: " + err.Error()})
}
