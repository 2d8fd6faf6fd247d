// Package command defines the command envelope and decision contract used by
// ledger deciders.
//
// Commands express caller intent. Deciders evaluate them against folded state
// and either accept with events or reject with a coded reason; they never touch
// storage.
package command

import (
	"strconv"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
)

// Type identifies a command kind, e.g. "goal.close".
type Type string

// Command is the normalized request handed to a decider.
type Command struct {
	Type        Type
	GoalID      uint64
	ActorID     string
	RequestID   string
	PayloadJSON []byte
}

// GoalIDString formats the goal id for metadata and entity ids.
func (c Command) GoalIDString() string {
	return strconv.FormatUint(c.GoalID, 10)
}

// Decision represents the pure outcome of handling a command.
type Decision struct {
	Events     []event.Event
	Rejections []Rejection
}

// Rejection captures a domain-level reason a command was declined.
type Rejection struct {
	Code     apperrors.Code
	Message  string
	Metadata map[string]string
}

// Accept returns a decision that emits the provided events.
func Accept(events ...event.Event) Decision {
	return Decision{Events: append([]event.Event(nil), events...)}
}

// Reject returns a decision that carries the provided rejections.
func Reject(rejections ...Rejection) Decision {
	return Decision{Rejections: append([]Rejection(nil), rejections...)}
}

// RejectErr converts a domain error into a rejection decision.
func RejectErr(err error) Decision {
	return Reject(Rejection{
		Code:     apperrors.GetCode(err),
		Message:  err.Error(),
		Metadata: apperrors.GetMetadata(err),
	})
}

// Rejected reports whether the decision carries at least one rejection.
func (d Decision) Rejected() bool {
	return len(d.Rejections) > 0
}

// Err converts the first rejection into a domain error, or nil when accepted.
func (d Decision) Err() error {
	if !d.Rejected() {
		return nil
	}
	r := d.Rejections[0]
	if len(r.Metadata) > 0 {
		return apperrors.WithMetadata(r.Code, r.Message, r.Metadata)
	}
	return apperrors.New(r.Code, r.Message)
}

// NewEvent builds an event by copying the envelope fields from a command.
func NewEvent(cmd Command, eventType event.Type, entityType, entityID string, payloadJSON []byte, now time.Time) event.Event {
	return event.Event{
		GoalID:      cmd.GoalID,
		Type:        eventType,
		Timestamp:   now,
		ActorID:     cmd.ActorID,
		RequestID:   cmd.RequestID,
		EntityType:  entityType,
		EntityID:    entityID,
		PayloadJSON: payloadJSON,
	}
}
