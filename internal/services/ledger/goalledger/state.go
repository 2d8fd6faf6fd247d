package goalledger

import (
	"context"
	"errors"

	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/escrow"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/goal"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/message"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/participant"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/verification"
	"github.com/louisbranch/stakes.space/internal/services/ledger/storage"
)

// loadGoal returns the decider state of a goal; a missing goal yields a
// zero state carrying only its id.
func loadGoal(ctx context.Context, r storage.Reader, goalID uint64) (goal.State, error) {
	record, err := r.GetGoal(ctx, goalID)
	if errors.Is(err, storage.ErrNotFound) {
		return goal.State{ID: goalID}, nil
	}
	if err != nil {
		return goal.State{}, err
	}
	state := goal.State{
		Created:     true,
		ID:          record.ID,
		Author:      record.Author,
		Description: record.Description,
		Stake:       record.Stake,
		Deadline:    record.Deadline,
		Requirement: record.Requirement,
		Closed:      record.Closed,
		Achieved:    record.Achieved,
		ProofURI:    record.ProofURI,
		ProofCount:  record.ProofCount,
		Outcome:     verification.OutcomePending,
		CreatedAt:   record.CreatedAt,
	}
	if record.ClosedAt != nil {
		state.ClosedAt = *record.ClosedAt
	}
	ver, err := r.GetVerification(ctx, goalID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return goal.State{}, err
	}
	if err == nil && ver.Outcome != "" {
		state.Outcome = ver.Outcome
	}
	return state, nil
}

func loadVerification(ctx context.Context, r storage.Reader, goalID uint64) (verification.State, error) {
	record, err := r.GetVerification(ctx, goalID)
	if errors.Is(err, storage.ErrNotFound) {
		return verification.State{Outcome: verification.OutcomePending}, nil
	}
	if err != nil {
		return verification.State{}, err
	}
	return verification.State{
		Requirement: record.Requirement,
		Outcome:     record.Outcome,
		Evidence:    record.Evidence,
	}, nil
}

func loadParticipant(ctx context.Context, r storage.Reader, goalID uint64, account string) (participant.State, error) {
	record, err := r.GetParticipant(ctx, goalID, account)
	if errors.Is(err, storage.ErrNotFound) {
		return participant.State{Account: account}, nil
	}
	if err != nil {
		return participant.State{}, err
	}
	return participant.State{
		Joined:       true,
		Account:      record.Account,
		Role:         record.Role,
		ExtraDataURI: record.ExtraDataURI,
		Accepted:     record.Accepted,
	}, nil
}

func loadMessage(ctx context.Context, r storage.Reader, goalID, index uint64) (message.State, error) {
	record, err := r.GetMessage(ctx, goalID, index)
	if errors.Is(err, storage.ErrNotFound) {
		return message.State{Index: index}, nil
	}
	if err != nil {
		return message.State{}, err
	}
	return message.State{
		Exists:          true,
		Index:           record.Index,
		Author:          record.Author,
		ExtraDataURI:    record.ExtraDataURI,
		Evaluated:       record.Evaluated,
		Motivating:      record.Motivating,
		SuperMotivating: record.SuperMotivating,
	}, nil
}

func loadEscrow(ctx context.Context, r storage.Reader, goalID uint64) (escrow.State, error) {
	record, err := r.GetEscrow(ctx, goalID)
	if errors.Is(err, storage.ErrNotFound) {
		return escrow.State{}, nil
	}
	if err != nil {
		return escrow.State{}, err
	}
	return escrow.State{Locked: record.Locked, Released: record.Released}, nil
}

// acceptedAccounts lists a goal's accepted participants in join order.
func acceptedAccounts(ctx context.Context, r storage.Reader, goalID uint64) ([]string, error) {
	records, err := r.ListParticipants(ctx, goalID, "")
	if err != nil {
		return nil, err
	}
	accepted := make([]string, 0, len(records))
	for _, record := range records {
		if record.Accepted {
			accepted = append(accepted, record.Account)
		}
	}
	return accepted, nil
}
