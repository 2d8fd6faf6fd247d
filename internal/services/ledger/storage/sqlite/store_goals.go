package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/platform/grpc/pagination"
	"github.com/louisbranch/stakes.space/internal/services/ledger/filter"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/verification"
	"github.com/louisbranch/stakes.space/internal/services/ledger/storage"
)

const goalColumns = `id, author, description, stake, deadline, requirement, status, proof_uri, proof_count, created_at, closed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (storage.GoalRecord, error) {
	var (
		record    storage.GoalRecord
		id        int64
		stake     int64
		deadline  int64
		status    string
		createdAt int64
		closedAt  sql.NullInt64
	)
	if err := row.Scan(&id, &record.Author, &record.Description, &stake, &deadline, &record.Requirement,
		&status, &record.ProofURI, &record.ProofCount, &createdAt, &closedAt); err != nil {
		return storage.GoalRecord{}, err
	}
	record.ID = uint64(id)
	record.Stake = uint64(stake)
	record.Deadline = fromUnix(deadline)
	record.Closed = status != string(storage.GoalStatusOpen)
	record.Achieved = status == string(storage.GoalStatusAchieved)
	record.CreatedAt = fromMillis(createdAt)
	record.ClosedAt = fromNullMillis(closedAt)
	return record, nil
}

// GetGoal loads one goal.
func (s *Store) GetGoal(ctx context.Context, goalID uint64) (storage.GoalRecord, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, int64(goalID))
	record, err := scanGoal(row)
	if err != nil {
		return storage.GoalRecord{}, notFound(err)
	}
	return record, nil
}

// PutGoal upserts a goal.
func (s *Store) PutGoal(ctx context.Context, record storage.GoalRecord) error {
	_, err := s.q.ExecContext(ctx, `
INSERT INTO goals (`+goalColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    status = excluded.status,
    proof_uri = excluded.proof_uri,
    proof_count = excluded.proof_count,
    closed_at = excluded.closed_at`,
		int64(record.ID), record.Author, record.Description, int64(record.Stake), record.Deadline.Unix(),
		record.Requirement, string(record.Status()), record.ProofURI, record.ProofCount,
		toMillis(record.CreatedAt), toNullMillis(record.ClosedAt),
	)
	if err != nil {
		return fmt.Errorf("put goal: %w", err)
	}
	return nil
}

// CurrentGoalID returns the highest goal id, 0 when no goal exists. Goals are
// never deleted, so max+1 never reuses an id.
func (s *Store) CurrentGoalID(ctx context.Context) (uint64, error) {
	var current int64
	if err := s.q.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM goals`).Scan(&current); err != nil {
		return 0, fmt.Errorf("current goal id: %w", err)
	}
	return uint64(current), nil
}

// ListGoals pages goals by ascending id. The page token is a cursor after
// the last id of the previous page; filter is an AIP-160 expression over goal fields.
func (s *Store) ListGoals(ctx context.Context, pageSize int, pageToken, filterStr string) (storage.GoalPage, error) {
	if pageSize <= 0 {
		return storage.GoalPage{}, fmt.Errorf("page size must be positive")
	}
	cond, err := filter.ParseGoalFilter(filterStr)
	if err != nil {
		return storage.GoalPage{}, apperrors.Wrap(apperrors.CodeFilterInvalid, "invalid goal filter", err)
	}
	afterID, err := pagination.DecodeCursor(pageToken)
	if err != nil {
		return storage.GoalPage{}, apperrors.Wrap(apperrors.CodeFilterInvalid, "invalid page token", err)
	}

	query := `SELECT ` + goalColumns + ` FROM goals WHERE id > ?`
	args := []any{int64(afterID)}
	if cond.Clause != "" {
		query += ` AND ` + cond.Clause
		args = append(args, cond.Params...)
	}
	query += ` ORDER BY id LIMIT ?`
	args = append(args, pageSize+1)

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.GoalPage{}, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var page storage.GoalPage
	for rows.Next() {
		record, err := scanGoal(rows)
		if err != nil {
			return storage.GoalPage{}, fmt.Errorf("scan goal: %w", err)
		}
		page.Goals = append(page.Goals, record)
	}
	if err := rows.Err(); err != nil {
		return storage.GoalPage{}, fmt.Errorf("list goals: %w", err)
	}
	if len(page.Goals) > pageSize {
		page.Goals = page.Goals[:pageSize]
		page.NextPageToken = pagination.EncodeCursor(page.Goals[pageSize-1].ID)
	}
	return page, nil
}

// ListProofs returns proofs in posting order.
func (s *Store) ListProofs(ctx context.Context, goalID uint64) ([]storage.ProofRecord, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT idx, uri, posted_at FROM proofs WHERE goal_id = ? ORDER BY idx`, int64(goalID))
	if err != nil {
		return nil, fmt.Errorf("list proofs: %w", err)
	}
	defer rows.Close()
	var out []storage.ProofRecord
	for rows.Next() {
		var (
			idx      int64
			record   = storage.ProofRecord{GoalID: goalID}
			postedAt int64
		)
		if err := rows.Scan(&idx, &record.URI, &postedAt); err != nil {
			return nil, fmt.Errorf("scan proof: %w", err)
		}
		record.Index = uint64(idx)
		record.PostedAt = fromMillis(postedAt)
		out = append(out, record)
	}
	return out, rows.Err()
}

// PutProof inserts a proof.
func (s *Store) PutProof(ctx context.Context, record storage.ProofRecord) error {
	_, err := s.q.ExecContext(ctx, `INSERT INTO proofs (goal_id, idx, uri, posted_at) VALUES (?, ?, ?, ?)`,
		int64(record.GoalID), int64(record.Index), record.URI, toMillis(record.PostedAt))
	if err != nil {
		return fmt.Errorf("put proof: %w", err)
	}
	return nil
}

// GetVerification loads the verification record with its evidence in order.
func (s *Store) GetVerification(ctx context.Context, goalID uint64) (storage.VerificationRecord, error) {
	record := storage.VerificationRecord{GoalID: goalID}
	var outcome string
	err := s.q.QueryRowContext(ctx, `SELECT requirement, outcome FROM verifications WHERE goal_id = ?`, int64(goalID)).
		Scan(&record.Requirement, &outcome)
	if err != nil {
		return storage.VerificationRecord{}, notFound(err)
	}
	record.Outcome = verification.Outcome(outcome)

	rows, err := s.q.QueryContext(ctx, `SELECT key, value FROM evidence WHERE goal_id = ? ORDER BY position`, int64(goalID))
	if err != nil {
		return storage.VerificationRecord{}, fmt.Errorf("list evidence: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e verification.Evidence
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return storage.VerificationRecord{}, fmt.Errorf("scan evidence: %w", err)
		}
		record.Evidence = append(record.Evidence, e)
	}
	return record, rows.Err()
}

// PutVerification upserts the record and appends evidence not yet stored.
// Evidence is append-only, so existing keys are left untouched.
func (s *Store) PutVerification(ctx context.Context, record storage.VerificationRecord) error {
	if _, err := s.q.ExecContext(ctx, `
INSERT INTO verifications (goal_id, requirement, outcome) VALUES (?, ?, ?)
ON CONFLICT(goal_id) DO UPDATE SET outcome = excluded.outcome`,
		int64(record.GoalID), record.Requirement, string(record.Outcome)); err != nil {
		return fmt.Errorf("put verification: %w", err)
	}
	for i, e := range record.Evidence {
		if _, err := s.q.ExecContext(ctx, `
INSERT INTO evidence (goal_id, position, key, value) VALUES (?, ?, ?, ?)
ON CONFLICT(goal_id, key) DO NOTHING`,
			int64(record.GoalID), i, e.Key, e.Value); err != nil {
			return fmt.Errorf("put evidence: %w", err)
		}
	}
	return nil
}

// GetEscrow loads the escrow of a goal.
func (s *Store) GetEscrow(ctx context.Context, goalID uint64) (storage.EscrowRecord, error) {
	var (
		locked     int64
		released   int
		releasedAt sql.NullInt64
	)
	err := s.q.QueryRowContext(ctx, `SELECT locked, released, released_at FROM escrows WHERE goal_id = ?`, int64(goalID)).
		Scan(&locked, &released, &releasedAt)
	if err != nil {
		return storage.EscrowRecord{}, notFound(err)
	}
	return storage.EscrowRecord{
		GoalID:     goalID,
		Locked:     uint64(locked),
		Released:   released != 0,
		ReleasedAt: fromNullMillis(releasedAt),
	}, nil
}

// PutEscrow upserts the escrow of a goal.
func (s *Store) PutEscrow(ctx context.Context, record storage.EscrowRecord) error {
	_, err := s.q.ExecContext(ctx, `
INSERT INTO escrows (goal_id, locked, released, released_at) VALUES (?, ?, ?, ?)
ON CONFLICT(goal_id) DO UPDATE SET
    locked = excluded.locked,
    released = excluded.released,
    released_at = excluded.released_at`,
		int64(record.GoalID), int64(record.Locked), boolInt(record.Released), toNullMillis(record.ReleasedAt))
	if err != nil {
		return fmt.Errorf("put escrow: %w", err)
	}
	return nil
}
