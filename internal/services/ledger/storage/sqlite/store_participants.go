package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/participant"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/reputation"
	"github.com/louisbranch/stakes.space/internal/services/ledger/storage"
)

const participantColumns = `goal_id, account, role, extra_data_uri, accepted, motivations, super_motivations, join_seq, joined_at, accepted_at`

func scanParticipant(row rowScanner) (storage.ParticipantRecord, error) {
	var (
		record           storage.ParticipantRecord
		goalID           int64
		role             string
		accepted         int
		motivations      int64
		superMotivations int64
		joinSeq          int64
		joinedAt         int64
		acceptedAt       sql.NullInt64
	)
	if err := row.Scan(&goalID, &record.Account, &role, &record.ExtraDataURI, &accepted,
		&motivations, &superMotivations, &joinSeq, &joinedAt, &acceptedAt); err != nil {
		return storage.ParticipantRecord{}, err
	}
	record.GoalID = uint64(goalID)
	record.Role = participant.Role(role)
	record.Accepted = accepted != 0
	record.Motivations = uint64(motivations)
	record.SuperMotivations = uint64(superMotivations)
	record.JoinSeq = uint64(joinSeq)
	record.JoinedAt = fromMillis(joinedAt)
	record.AcceptedAt = fromNullMillis(acceptedAt)
	return record, nil
}

// GetParticipant loads one participation.
func (s *Store) GetParticipant(ctx context.Context, goalID uint64, account string) (storage.ParticipantRecord, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+participantColumns+` FROM participants WHERE goal_id = ? AND account = ?`,
		int64(goalID), account)
	record, err := scanParticipant(row)
	if err != nil {
		return storage.ParticipantRecord{}, notFound(err)
	}
	return record, nil
}

// ListParticipants returns participants of a goal in join order.
func (s *Store) ListParticipants(ctx context.Context, goalID uint64, role participant.Role) ([]storage.ParticipantRecord, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE goal_id = ?`
	args := []any{int64(goalID)}
	if role != "" {
		query += ` AND role = ?`
		args = append(args, string(role))
	}
	query += ` ORDER BY join_seq`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()
	var out []storage.ParticipantRecord
	for rows.Next() {
		record, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// PutParticipant upserts a participation.
func (s *Store) PutParticipant(ctx context.Context, record storage.ParticipantRecord) error {
	_, err := s.q.ExecContext(ctx, `
INSERT INTO participants (`+participantColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(goal_id, account) DO UPDATE SET
    accepted = excluded.accepted,
    motivations = excluded.motivations,
    super_motivations = excluded.super_motivations,
    accepted_at = excluded.accepted_at`,
		int64(record.GoalID), record.Account, string(record.Role), record.ExtraDataURI, boolInt(record.Accepted),
		int64(record.Motivations), int64(record.SuperMotivations), int64(record.JoinSeq),
		toMillis(record.JoinedAt), toNullMillis(record.AcceptedAt),
	)
	if err != nil {
		return fmt.Errorf("put participant: %w", err)
	}
	return nil
}

// GetMotivatorReputation sums an account's evaluated messages over every goal.
func (s *Store) GetMotivatorReputation(ctx context.Context, account string) (reputation.MotivatorReputation, error) {
	var motivations, superMotivations int64
	err := s.q.QueryRowContext(ctx, `
SELECT COALESCE(SUM(motivations), 0), COALESCE(SUM(super_motivations), 0)
FROM participants WHERE account = ?`, account).Scan(&motivations, &superMotivations)
	if err != nil {
		return reputation.MotivatorReputation{}, fmt.Errorf("motivator reputation: %w", err)
	}
	return reputation.MotivatorReputation{
		Motivations:      uint64(motivations),
		SuperMotivations: uint64(superMotivations),
	}, nil
}
