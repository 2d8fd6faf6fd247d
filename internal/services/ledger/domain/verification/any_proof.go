package verification

import (
	"context"
	"strings"
)

const (
	// RequirementAnyProof decides achieved once a non-empty ANY_URI is supplied.
	RequirementAnyProof = "ANY_PROOF"
	// EvidenceKeyAnyURI is the evidence key read by the any-proof predicate.
	EvidenceKeyAnyURI = "ANY_URI"
)

// AnyProof is satisfied by any non-empty URI under ANY_URI. It never fails a goal.
var AnyProof = PredicateFunc(func(_ context.Context, _ uint64, evidence []Evidence) (Outcome, error) {
	for _, e := range evidence {
		if e.Key == EvidenceKeyAnyURI && strings.TrimSpace(e.Value) != "" {
			return OutcomeAchieved, nil
		}
	}
	return OutcomePending, nil
})
