package goalledger

import (
	"context"

	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/message"
)

// PostMessage appends a message to a goal's board and returns its index.
// Under the open policy a first-time poster is enrolled as a motivator.
func (s *Service) PostMessage(ctx context.Context, caller string, goalID uint64, extraDataURI string) (uint64, error) {
	var index uint64
	err := s.write(ctx, "post_message", caller, writeOptions{}, func(ctx context.Context, w *writer) error {
		g, err := loadGoal(ctx, w.tx, goalID)
		if err != nil {
			return err
		}
		poster, err := loadParticipant(ctx, w.tx, goalID, w.caller)
		if err != nil {
			return err
		}
		next, err := w.tx.CountMessages(ctx, goalID)
		if err != nil {
			return err
		}
		cmd, err := w.command(message.CommandTypePost, goalID, message.PostPayload{ExtraDataURI: extraDataURI})
		if err != nil {
			return err
		}
		if _, err := w.apply(ctx, message.DecidePost(g, poster, w.settings.MessagePolicy, next, cmd, w.now)); err != nil {
			return err
		}
		index = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	return index, nil
}

// EvaluateMessage records the author's verdict on a message.
func (s *Service) EvaluateMessage(ctx context.Context, caller string, goalID, index uint64, motivating, superMotivating bool) error {
	return s.write(ctx, "evaluate_message", caller, writeOptions{}, func(ctx context.Context, w *writer) error {
		g, err := loadGoal(ctx, w.tx, goalID)
		if err != nil {
			return err
		}
		msg, err := loadMessage(ctx, w.tx, goalID, index)
		if err != nil {
			return err
		}
		cmd, err := w.command(message.CommandTypeEvaluate, goalID, message.EvaluatePayload{
			Index:           index,
			Motivating:      motivating,
			SuperMotivating: superMotivating,
		})
		if err != nil {
			return err
		}
		_, err = w.apply(ctx, message.DecideEvaluate(g, msg, cmd, w.now))
		return err
	})
}
