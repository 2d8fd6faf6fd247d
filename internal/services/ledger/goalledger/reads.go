package goalledger

import (
	"context"
	"errors"
	"strconv"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/participant"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/reputation"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/settings"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/verification"
	"github.com/louisbranch/stakes.space/internal/services/ledger/storage"
)

// Reads never fail for an unknown goal or account, except GetParams and
// GetProfile which report NOT_FOUND codes.

// GetParams returns a goal.
func (s *Service) GetParams(ctx context.Context, goalID uint64) (storage.GoalRecord, error) {
	var record storage.GoalRecord
	err := s.read(ctx, "get_params", func(ctx context.Context) error {
		var err error
		record, err = s.store.GetGoal(ctx, goalID)
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.WithMetadata(apperrors.CodeGoalNotFound, "goal not found", map[string]string{"GoalID": strconv.FormatUint(goalID, 10)})
		}
		return err
	})
	return record, err
}

// GetVerificationStatus returns the verification record; unknown goals read
// as pending with no evidence.
func (s *Service) GetVerificationStatus(ctx context.Context, goalID uint64) (storage.VerificationRecord, error) {
	record := storage.VerificationRecord{GoalID: goalID, Outcome: verification.OutcomePending}
	err := s.read(ctx, "get_verification_status", func(ctx context.Context) error {
		found, err := s.store.GetVerification(ctx, goalID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		record = found
		return nil
	})
	return record, err
}

// GetProofs returns a goal's proofs in posting order.
func (s *Service) GetProofs(ctx context.Context, goalID uint64) ([]storage.ProofRecord, error) {
	var out []storage.ProofRecord
	err := s.read(ctx, "get_proofs", func(ctx context.Context) (err error) {
		out, err = s.store.ListProofs(ctx, goalID)
		return err
	})
	return out, err
}

// GetMessages returns a goal's message board.
func (s *Service) GetMessages(ctx context.Context, goalID uint64) ([]storage.MessageRecord, error) {
	var out []storage.MessageRecord
	err := s.read(ctx, "get_messages", func(ctx context.Context) (err error) {
		out, err = s.store.ListMessages(ctx, goalID)
		return err
	})
	return out, err
}

// GetWatchers returns a goal's watchers in join order.
func (s *Service) GetWatchers(ctx context.Context, goalID uint64) ([]storage.ParticipantRecord, error) {
	return s.listParticipants(ctx, "get_watchers", goalID, participant.RoleWatcher)
}

// GetMotivators returns a goal's motivators in join order.
func (s *Service) GetMotivators(ctx context.Context, goalID uint64) ([]storage.ParticipantRecord, error) {
	return s.listParticipants(ctx, "get_motivators", goalID, participant.RoleMotivator)
}

func (s *Service) listParticipants(ctx context.Context, op string, goalID uint64, role participant.Role) ([]storage.ParticipantRecord, error) {
	var out []storage.ParticipantRecord
	err := s.read(ctx, op, func(ctx context.Context) (err error) {
		out, err = s.store.ListParticipants(ctx, goalID, role)
		return err
	})
	return out, err
}

// GetAccountReputation returns an account's settlement counters.
func (s *Service) GetAccountReputation(ctx context.Context, acct string) (reputation.Reputation, error) {
	var out reputation.Reputation
	err := s.read(ctx, "get_account_reputation", func(ctx context.Context) (err error) {
		out, err = s.store.GetReputation(ctx, acct)
		return err
	})
	return out, err
}

// GetMotivatorReputation sums the evaluations an account received as a
// participant across every goal.
func (s *Service) GetMotivatorReputation(ctx context.Context, acct string) (reputation.MotivatorReputation, error) {
	var out reputation.MotivatorReputation
	err := s.read(ctx, "get_motivator_reputation", func(ctx context.Context) (err error) {
		out, err = s.store.GetMotivatorReputation(ctx, acct)
		return err
	})
	return out, err
}

// GetCurrentCounter returns the last assigned goal id.
func (s *Service) GetCurrentCounter(ctx context.Context) (uint64, error) {
	var out uint64
	err := s.read(ctx, "get_current_counter", func(ctx context.Context) (err error) {
		out, err = s.store.CurrentGoalID(ctx)
		return err
	})
	return out, err
}

// ListGoals pages goals matching an AIP-160 filter.
func (s *Service) ListGoals(ctx context.Context, pageSize int, pageToken, filter string) (storage.GoalPage, error) {
	var out storage.GoalPage
	err := s.read(ctx, "list_goals", func(ctx context.Context) (err error) {
		out, err = s.store.ListGoals(ctx, pageSize, pageToken, filter)
		return err
	})
	return out, err
}

// GetBalance returns an account balance.
func (s *Service) GetBalance(ctx context.Context, acct string) (uint64, error) {
	var out uint64
	err := s.read(ctx, "get_balance", func(ctx context.Context) (err error) {
		out, err = s.store.GetBalance(ctx, acct)
		return err
	})
	return out, err
}

// GetEscrow returns a goal's escrow; unknown goals hold nothing.
func (s *Service) GetEscrow(ctx context.Context, goalID uint64) (storage.EscrowRecord, error) {
	record := storage.EscrowRecord{GoalID: goalID}
	err := s.read(ctx, "get_escrow", func(ctx context.Context) error {
		found, err := s.store.GetEscrow(ctx, goalID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		record = found
		return nil
	})
	return record, err
}

// ListEvents returns journal events after afterSeq; goalID 0 lists all goals.
func (s *Service) ListEvents(ctx context.Context, goalID, afterSeq uint64, limit int) ([]event.Event, error) {
	var out []event.Event
	err := s.read(ctx, "list_events", func(ctx context.Context) (err error) {
		out, err = s.store.ListEvents(ctx, goalID, afterSeq, limit)
		return err
	})
	return out, err
}

// GetProfile returns an account profile.
func (s *Service) GetProfile(ctx context.Context, acct string) (storage.ProfileRecord, error) {
	var out storage.ProfileRecord
	err := s.read(ctx, "get_profile", func(ctx context.Context) (err error) {
		out, err = s.store.GetProfile(ctx, acct)
		return err
	})
	return out, err
}

// HasProfile reports whether an account holds a profile.
func (s *Service) HasProfile(ctx context.Context, acct string) (bool, error) {
	var out bool
	err := s.read(ctx, "has_profile", func(ctx context.Context) (err error) {
		out, err = NewStoreProfiles(s.store).HasProfile(ctx, acct)
		return err
	})
	return out, err
}

// GetSettings returns the current ledger settings.
func (s *Service) GetSettings(ctx context.Context) (settings.Settings, error) {
	var out settings.Settings
	err := s.read(ctx, "get_settings", func(ctx context.Context) (err error) {
		out, err = s.store.GetSettings(ctx)
		return err
	})
	return out, err
}
