// Package event defines the journal envelope shared by every ledger decider.
//
// Events are the only way ledger state changes: deciders emit them, storage
// appends them to the journal and projects them into read models inside the
// same transaction.
package event

import "time"

// Type identifies an event kind, e.g. "goal.created".
type Type string

// Event is one immutable journal entry.
type Event struct {
	Seq         uint64
	GoalID      uint64
	Type        Type
	Timestamp   time.Time
	ActorID     string
	RequestID   string
	EntityType  string
	EntityID    string
	PayloadJSON []byte
}
