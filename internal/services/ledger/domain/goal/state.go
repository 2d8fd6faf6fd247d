package goal

import (
	"strconv"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/verification"
)

// State is the folded view of one goal.
type State struct {
	Created     bool
	ID          uint64
	Author      string
	Description string
	Stake       uint64
	Deadline    time.Time
	Requirement string
	Closed      bool
	Achieved    bool
	ProofURI    string
	ProofCount  int
	Outcome     verification.Outcome
	CreatedAt   time.Time
	ClosedAt    time.Time
}

// Verified reports whether the goal settles through a verification predicate
// rather than plain proof posting.
func (s State) Verified() bool {
	return s.Requirement != ""
}

// Qualifies reports whether the goal currently has qualifying evidence.
func (s State) Qualifies() bool {
	if s.Verified() {
		return s.Outcome == verification.OutcomeAchieved
	}
	return s.ProofCount > 0
}

// DeadlinePassed reports whether now is at or after the deadline.
func (s State) DeadlinePassed(now time.Time) bool {
	return !now.Before(s.Deadline)
}

// CheckOpen fails for missing and closed goals.
func (s State) CheckOpen() error {
	if !s.Created {
		return apperrors.WithMetadata(apperrors.CodeGoalNotFound, "goal not found", s.metadata())
	}
	if s.Closed {
		return apperrors.WithMetadata(apperrors.CodeGoalAlreadyClosed, "goal already closed", s.metadata())
	}
	return nil
}

// CheckAuthor fails unless actor wrote the goal.
func (s State) CheckAuthor(actor string) error {
	if actor != s.Author {
		return apperrors.WithMetadata(apperrors.CodeNotAuthor, "caller is not the goal author", s.metadata())
	}
	return nil
}

// CheckBeforeDeadline fails once the deadline has been reached.
func (s State) CheckBeforeDeadline(now time.Time) error {
	if s.DeadlinePassed(now) {
		return apperrors.WithMetadata(apperrors.CodeGoalDeadlinePassed, "goal deadline passed", s.metadata())
	}
	return nil
}

// CheckAuthorWindow is the guard for author-only evidence operations: the
// goal is open, the actor is the author, and the deadline is ahead.
func (s State) CheckAuthorWindow(actor string, now time.Time) error {
	if err := s.CheckOpen(); err != nil {
		return err
	}
	if err := s.CheckAuthor(actor); err != nil {
		return err
	}
	return s.CheckBeforeDeadline(now)
}

func (s State) metadata() map[string]string {
	return map[string]string{"GoalID": strconv.FormatUint(s.ID, 10)}
}
