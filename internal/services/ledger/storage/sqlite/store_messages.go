package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/louisbranch/stakes.space/internal/services/ledger/storage"
)

const messageColumns = `goal_id, idx, author, extra_data_uri, evaluated, motivating, super_motivating, posted_at, evaluated_at`

func scanMessage(row rowScanner) (storage.MessageRecord, error) {
	var (
		record          storage.MessageRecord
		goalID          int64
		index           int64
		evaluated       int
		motivating      int
		superMotivating int
		postedAt        int64
		evaluatedAt     sql.NullInt64
	)
	if err := row.Scan(&goalID, &index, &record.Author, &record.ExtraDataURI, &evaluated,
		&motivating, &superMotivating, &postedAt, &evaluatedAt); err != nil {
		return storage.MessageRecord{}, err
	}
	record.GoalID = uint64(goalID)
	record.Index = uint64(index)
	record.Evaluated = evaluated != 0
	record.Motivating = motivating != 0
	record.SuperMotivating = superMotivating != 0
	record.PostedAt = fromMillis(postedAt)
	record.EvaluatedAt = fromNullMillis(evaluatedAt)
	return record, nil
}

// GetMessage loads one message by board index.
func (s *Store) GetMessage(ctx context.Context, goalID, index uint64) (storage.MessageRecord, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE goal_id = ? AND idx = ?`,
		int64(goalID), int64(index))
	record, err := scanMessage(row)
	if err != nil {
		return storage.MessageRecord{}, notFound(err)
	}
	return record, nil
}

// ListMessages returns a goal's board in posting order.
func (s *Store) ListMessages(ctx context.Context, goalID uint64) ([]storage.MessageRecord, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE goal_id = ? ORDER BY idx`, int64(goalID))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()
	var out []storage.MessageRecord
	for rows.Next() {
		record, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// CountMessages returns the number of messages on a goal's board.
func (s *Store) CountMessages(ctx context.Context, goalID uint64) (uint64, error) {
	var count int64
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE goal_id = ?`, int64(goalID)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return uint64(count), nil
}

// PutMessage upserts a message.
func (s *Store) PutMessage(ctx context.Context, record storage.MessageRecord) error {
	_, err := s.q.ExecContext(ctx, `
INSERT INTO messages (`+messageColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(goal_id, idx) DO UPDATE SET
    evaluated = excluded.evaluated,
    motivating = excluded.motivating,
    super_motivating = excluded.super_motivating,
    evaluated_at = excluded.evaluated_at`,
		int64(record.GoalID), int64(record.Index), record.Author, record.ExtraDataURI, boolInt(record.Evaluated),
		boolInt(record.Motivating), boolInt(record.SuperMotivating), toMillis(record.PostedAt), toNullMillis(record.EvaluatedAt),
	)
	if err != nil {
		return fmt.Errorf("put message: %w", err)
	}
	return nil
}
