// Package verification evaluates goal evidence against a named requirement.
//
// A goal may carry a requirement tag. Each tag resolves to a Predicate in a
// Registry; predicates read the goal's key/value evidence and report pending,
// achieved, or failed. Once a goal is decided its outcome never changes.
package verification

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/command"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
)

// Outcome is the verdict a predicate reaches for a goal.
type Outcome string

const (
	OutcomePending  Outcome = "pending"
	OutcomeAchieved Outcome = "achieved"
	OutcomeFailed   Outcome = "failed"
)

// Decided reports whether the outcome is final.
func (o Outcome) Decided() bool {
	return o == OutcomeAchieved || o == OutcomeFailed
}

// ParseOutcome normalizes an outcome string produced by a predicate.
func ParseOutcome(value string) (Outcome, bool) {
	switch Outcome(strings.ToLower(strings.TrimSpace(value))) {
	case OutcomePending, "":
		return OutcomePending, true
	case OutcomeAchieved:
		return OutcomeAchieved, true
	case OutcomeFailed:
		return OutcomeFailed, true
	default:
		return "", false
	}
}

// Evidence is one key/value datum attached to a goal.
type Evidence struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// State is the folded verification view of a goal.
type State struct {
	Requirement string
	Outcome     Outcome
	Evidence    []Evidence
}

// Lookup returns the value stored under key.
func (s State) Lookup(key string) (string, bool) {
	for _, e := range s.Evidence {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

const (
	CommandTypeAddEvidence command.Type = "verification.add_evidence"

	EventTypeEvidenceAdded event.Type = "verification.evidence_added"
	EventTypeDecided       event.Type = "verification.decided"
)

// AddEvidencePayload carries parallel key and value lists.
type AddEvidencePayload struct {
	Keys   []string `json:"keys"`
	Values []string `json:"values"`
}

// EvidenceAddedPayload records evidence appended to a goal.
type EvidenceAddedPayload struct {
	Evidence []Evidence `json:"evidence"`
}

// DecidedPayload records the final outcome of a goal.
type DecidedPayload struct {
	Outcome Outcome `json:"outcome"`
}

// PairEvidence zips keys and values, rejecting length mismatch, blank keys and
// duplicate keys within the batch.
func PairEvidence(keys, values []string) ([]Evidence, error) {
	if len(keys) != len(values) {
		return nil, apperrors.WithMetadata(apperrors.CodeEvidenceInvalid, "keys and values must have the same length", map[string]string{
			"Keys":   strconv.Itoa(len(keys)),
			"Values": strconv.Itoa(len(values)),
		})
	}
	seen := make(map[string]struct{}, len(keys))
	out := make([]Evidence, 0, len(keys))
	for i, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, apperrors.New(apperrors.CodeEvidenceInvalid, "evidence key is required")
		}
		if _, ok := seen[key]; ok {
			return nil, apperrors.WithMetadata(apperrors.CodeEvidenceKeyExists, "duplicate evidence key", map[string]string{"Key": key})
		}
		seen[key] = struct{}{}
		out = append(out, Evidence{Key: key, Value: values[i]})
	}
	return out, nil
}

// DecideAddEvidence validates a batch of evidence against the current state.
// Evaluation of the merged evidence is left to the caller's predicate.
func DecideAddEvidence(state State, cmd command.Command, now time.Time) command.Decision {
	if state.Requirement == "" {
		return command.Reject(command.Rejection{Code: apperrors.CodeVerificationNotConfigured, Message: "goal has no verification requirement"})
	}
	if state.Outcome.Decided() {
		return command.Reject(command.Rejection{Code: apperrors.CodeVerificationAlreadyDecided, Message: "verification already decided"})
	}
	var payload AddEvidencePayload
	if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
		return command.Reject(command.Rejection{Code: apperrors.CodeEvidenceInvalid, Message: "invalid evidence payload"})
	}
	evidence, err := PairEvidence(payload.Keys, payload.Values)
	if err != nil {
		return command.RejectErr(err)
	}
	if len(evidence) == 0 {
		return command.Reject(command.Rejection{Code: apperrors.CodeEvidenceInvalid, Message: "at least one evidence entry is required"})
	}
	for _, e := range evidence {
		if _, exists := state.Lookup(e.Key); exists {
			return command.Reject(command.Rejection{
				Code:     apperrors.CodeEvidenceKeyExists,
				Message:  "evidence key already set",
				Metadata: map[string]string{"Key": e.Key},
			})
		}
	}
	return command.Accept(EvidenceAddedEvent(cmd, evidence, now))
}

// EvidenceAddedEvent builds the journal event for appended evidence.
func EvidenceAddedEvent(cmd command.Command, evidence []Evidence, now time.Time) event.Event {
	payloadJSON, _ := json.Marshal(EvidenceAddedPayload{Evidence: evidence})
	return command.NewEvent(cmd, EventTypeEvidenceAdded, "goal", goalEntityID(cmd.GoalID), payloadJSON, now)
}

// DecidedEvent builds the journal event for a final outcome.
func DecidedEvent(cmd command.Command, outcome Outcome, now time.Time) event.Event {
	payloadJSON, _ := json.Marshal(DecidedPayload{Outcome: outcome})
	return command.NewEvent(cmd, EventTypeDecided, "goal", goalEntityID(cmd.GoalID), payloadJSON, now)
}

// Fold applies verification events to state.
func Fold(state State, evt event.Event) (State, error) {
	switch evt.Type {
	case EventTypeEvidenceAdded:
		var p EvidenceAddedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			return state, apperrors.Wrap(apperrors.CodeUnknown, "decode evidence payload", err)
		}
		state.Evidence = append(append([]Evidence(nil), state.Evidence...), p.Evidence...)
	case EventTypeDecided:
		var p DecidedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			return state, apperrors.Wrap(apperrors.CodeUnknown, "decode decided payload", err)
		}
		state.Outcome = p.Outcome
	}
	return state, nil
}

func goalEntityID(goalID uint64) string {
	return strconv.FormatUint(goalID, 10)
}
