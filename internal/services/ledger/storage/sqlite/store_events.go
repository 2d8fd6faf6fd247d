package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
)

// AppendEvents journals events in order and projects each one. It must run
// inside InTx so a failed projection rolls back the whole batch.
func (s *Store) AppendEvents(ctx context.Context, events ...event.Event) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.tx == nil {
		return nil, errors.New("append events requires a transaction")
	}

	applier := s.applier()
	stored := make([]event.Event, 0, len(events))
	for _, evt := range events {
		if evt.Type == "" {
			return nil, errors.New("event type is required")
		}
		if evt.Timestamp.IsZero() {
			evt.Timestamp = time.Now().UTC()
		}
		evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)
		if evt.PayloadJSON == nil {
			evt.PayloadJSON = []byte("{}")
		}

		result, err := s.q.ExecContext(ctx, `
INSERT INTO events (goal_id, event_type, timestamp, actor_id, request_id, entity_type, entity_id, payload_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			int64(evt.GoalID), string(evt.Type), toMillis(evt.Timestamp), evt.ActorID, evt.RequestID,
			evt.EntityType, evt.EntityID, evt.PayloadJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("append event: %w", err)
		}
		seq, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("event seq: %w", err)
		}
		evt.Seq = uint64(seq)

		if err := applier.Apply(ctx, evt); err != nil {
			return nil, fmt.Errorf("project %s: %w", evt.Type, err)
		}
		stored = append(stored, evt)
	}
	return stored, nil
}

// ListEvents returns journal events after afterSeq in sequence order.
func (s *Store) ListEvents(ctx context.Context, goalID, afterSeq uint64, limit int) ([]event.Event, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	query := `
SELECT seq, goal_id, event_type, timestamp, actor_id, request_id, entity_type, entity_id, payload_json
FROM events WHERE seq > ?`
	args := []any{int64(afterSeq)}
	if goalID != 0 {
		query += ` AND goal_id = ?`
		args = append(args, int64(goalID))
	}
	query += ` ORDER BY seq LIMIT ?`
	args = append(args, limit)

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []event.Event
	for rows.Next() {
		var (
			evt       event.Event
			seq       int64
			gid       int64
			eventType string
			ts        int64
		)
		if err := rows.Scan(&seq, &gid, &eventType, &ts, &evt.ActorID, &evt.RequestID,
			&evt.EntityType, &evt.EntityID, &evt.PayloadJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		evt.Seq = uint64(seq)
		evt.GoalID = uint64(gid)
		evt.Type = event.Type(eventType)
		evt.Timestamp = fromMillis(ts)
		out = append(out, evt)
	}
	return out, rows.Err()
}
