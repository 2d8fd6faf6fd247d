package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/reputation"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/settings"
	"github.com/louisbranch/stakes.space/internal/services/ledger/storage"
)

// GetBalance returns an account balance; unknown accounts hold zero.
func (s *Store) GetBalance(ctx context.Context, account string) (uint64, error) {
	var balance int64
	err := s.q.QueryRowContext(ctx, `SELECT balance FROM balances WHERE account = ?`, account).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return uint64(balance), nil
}

// PutBalance stores an account balance.
func (s *Store) PutBalance(ctx context.Context, account string, balance uint64) error {
	_, err := s.q.ExecContext(ctx, `
INSERT INTO balances (account, balance) VALUES (?, ?)
ON CONFLICT(account) DO UPDATE SET balance = excluded.balance`, account, int64(balance))
	if err != nil {
		return fmt.Errorf("put balance: %w", err)
	}
	return nil
}

// GetReputation returns an account's goal reputation, zero when unknown.
func (s *Store) GetReputation(ctx context.Context, account string) (reputation.Reputation, error) {
	var achieved, failed, motivated int64
	err := s.q.QueryRowContext(ctx, `
SELECT achieved_goals, failed_goals, motivated_goals FROM reputations WHERE account = ?`, account).
		Scan(&achieved, &failed, &motivated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reputation.Reputation{}, nil
		}
		return reputation.Reputation{}, fmt.Errorf("get reputation: %w", err)
	}
	return reputation.Reputation{
		AchievedGoals:  uint64(achieved),
		FailedGoals:    uint64(failed),
		MotivatedGoals: uint64(motivated),
	}, nil
}

// PutReputation stores an account's goal reputation.
func (s *Store) PutReputation(ctx context.Context, account string, rep reputation.Reputation) error {
	_, err := s.q.ExecContext(ctx, `
INSERT INTO reputations (account, achieved_goals, failed_goals, motivated_goals) VALUES (?, ?, ?, ?)
ON CONFLICT(account) DO UPDATE SET
    achieved_goals = excluded.achieved_goals,
    failed_goals = excluded.failed_goals,
    motivated_goals = excluded.motivated_goals`,
		account, int64(rep.AchievedGoals), int64(rep.FailedGoals), int64(rep.MotivatedGoals))
	if err != nil {
		return fmt.Errorf("put reputation: %w", err)
	}
	return nil
}

// GetProfile loads an account profile.
func (s *Store) GetProfile(ctx context.Context, account string) (storage.ProfileRecord, error) {
	record := storage.ProfileRecord{Account: account}
	var updatedAt int64
	err := s.q.QueryRowContext(ctx, `SELECT uri, updated_at FROM profiles WHERE account = ?`, account).
		Scan(&record.URI, &updatedAt)
	if err != nil {
		return storage.ProfileRecord{}, notFound(err)
	}
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// PutProfile upserts an account profile.
func (s *Store) PutProfile(ctx context.Context, record storage.ProfileRecord) error {
	_, err := s.q.ExecContext(ctx, `
INSERT INTO profiles (account, uri, updated_at) VALUES (?, ?, ?)
ON CONFLICT(account) DO UPDATE SET uri = excluded.uri, updated_at = excluded.updated_at`,
		record.Account, record.URI, toMillis(record.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put profile: %w", err)
	}
	return nil
}

// GetSettings loads the ledger settings; ErrNotFound before bootstrap.
func (s *Store) GetSettings(ctx context.Context) (settings.Settings, error) {
	var (
		cfg             settings.Settings
		feePercent      int64
		paused          int
		profileRequired int
		policy          string
	)
	err := s.q.QueryRowContext(ctx, `
SELECT owner, treasury, fee_percent, paused, profile_required, message_policy FROM settings WHERE id = 1`).
		Scan(&cfg.Owner, &cfg.Treasury, &feePercent, &paused, &profileRequired, &policy)
	if err != nil {
		return settings.Settings{}, notFound(err)
	}
	cfg.FeePercent = uint8(feePercent)
	cfg.Paused = paused != 0
	cfg.ProfileRequired = profileRequired != 0
	cfg.MessagePolicy = settings.MessagePolicy(policy)
	return cfg, nil
}

// PutSettings stores the ledger settings.
func (s *Store) PutSettings(ctx context.Context, cfg settings.Settings) error {
	_, err := s.q.ExecContext(ctx, `
INSERT INTO settings (id, owner, treasury, fee_percent, paused, profile_required, message_policy)
VALUES (1, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    owner = excluded.owner,
    treasury = excluded.treasury,
    fee_percent = excluded.fee_percent,
    paused = excluded.paused,
    profile_required = excluded.profile_required,
    message_policy = excluded.message_policy`,
		cfg.Owner, cfg.Treasury, int64(cfg.FeePercent), boolInt(cfg.Paused), boolInt(cfg.ProfileRequired), string(cfg.MessagePolicy))
	if err != nil {
		return fmt.Errorf("put settings: %w", err)
	}
	return nil
}
