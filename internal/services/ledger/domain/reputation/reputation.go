// Package reputation tracks per-account settlement counters.
//
// Counters only move when a goal settles: the author gains an achieved or
// failed goal, and each accepted participant of a failed goal gains a
// motivated goal.
package reputation

import (
	"encoding/json"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/command"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
)

// Counter names a reputation counter.
type Counter string

const (
	CounterAchievedGoals  Counter = "achieved_goals"
	CounterFailedGoals    Counter = "failed_goals"
	CounterMotivatedGoals Counter = "motivated_goals"
)

// EventTypeRecorded is emitted once per settled goal.
const EventTypeRecorded event.Type = "reputation.recorded"

// Entry increments one counter of one account.
type Entry struct {
	Account string  `json:"account"`
	Counter Counter `json:"counter"`
}

// Reputation is the counter set for one account.
type Reputation struct {
	AchievedGoals  uint64 `json:"achieved_goals"`
	FailedGoals    uint64 `json:"failed_goals"`
	MotivatedGoals uint64 `json:"motivated_goals"`
}

// Apply increments the named counter.
func (r Reputation) Apply(counter Counter) (Reputation, error) {
	switch counter {
	case CounterAchievedGoals:
		r.AchievedGoals++
	case CounterFailedGoals:
		r.FailedGoals++
	case CounterMotivatedGoals:
		r.MotivatedGoals++
	default:
		return r, apperrors.New(apperrors.CodeUnknown, "unknown reputation counter "+string(counter))
	}
	return r, nil
}

// MotivatorReputation aggregates message evaluations an account received
// across every goal it participated in.
type MotivatorReputation struct {
	Motivations      uint64 `json:"motivations"`
	SuperMotivations uint64 `json:"super_motivations"`
}

// ForSettlement returns the entries a settlement produces: an achieved goal
// credits only its author, a failed goal also credits every accepted
// participant with a motivated goal.
func ForSettlement(author string, achieved bool, accepted []string) []Entry {
	if achieved {
		return []Entry{{Account: author, Counter: CounterAchievedGoals}}
	}
	entries := make([]Entry, 0, len(accepted)+1)
	entries = append(entries, Entry{Account: author, Counter: CounterFailedGoals})
	for _, account := range accepted {
		entries = append(entries, Entry{Account: account, Counter: CounterMotivatedGoals})
	}
	return entries
}

// RecordedPayload lists the counters a settlement increments.
type RecordedPayload struct {
	Entries []Entry `json:"entries"`
}

// RecordedEvent builds the journal event for a settlement's reputation.
func RecordedEvent(cmd command.Command, entries []Entry, now time.Time) event.Event {
	payloadJSON, _ := json.Marshal(RecordedPayload{Entries: entries})
	return command.NewEvent(cmd, EventTypeRecorded, "reputation", "", payloadJSON, now)
}
