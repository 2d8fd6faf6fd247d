package goalledger

import (
	"context"
	"strings"

	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/participant"
)

// Watch joins the caller to a goal as a watcher.
func (s *Service) Watch(ctx context.Context, caller string, goalID uint64, extraDataURI string) error {
	return s.join(ctx, "watch", caller, goalID, participant.RoleWatcher, extraDataURI)
}

// BecomeMotivator joins the caller to a goal as a motivator.
func (s *Service) BecomeMotivator(ctx context.Context, caller string, goalID uint64, extraDataURI string) error {
	return s.join(ctx, "become_motivator", caller, goalID, participant.RoleMotivator, extraDataURI)
}

// AcceptWatcher lets the goal author accept a watcher.
func (s *Service) AcceptWatcher(ctx context.Context, caller string, goalID uint64, account string) error {
	return s.accept(ctx, "accept_watcher", caller, goalID, participant.RoleWatcher, account)
}

// AcceptMotivator lets the goal author accept a motivator.
func (s *Service) AcceptMotivator(ctx context.Context, caller string, goalID uint64, account string) error {
	return s.accept(ctx, "accept_motivator", caller, goalID, participant.RoleMotivator, account)
}

func (s *Service) join(ctx context.Context, op, caller string, goalID uint64, role participant.Role, extraDataURI string) error {
	return s.write(ctx, op, caller, writeOptions{}, func(ctx context.Context, w *writer) error {
		g, err := loadGoal(ctx, w.tx, goalID)
		if err != nil {
			return err
		}
		state, err := loadParticipant(ctx, w.tx, goalID, w.caller)
		if err != nil {
			return err
		}
		cmd, err := w.command(participant.CommandTypeJoin, goalID, participant.JoinPayload{
			Account:      w.caller,
			Role:         role,
			ExtraDataURI: extraDataURI,
		})
		if err != nil {
			return err
		}
		_, err = w.apply(ctx, participant.Decide(g, state, cmd, w.now))
		return err
	})
}

func (s *Service) accept(ctx context.Context, op, caller string, goalID uint64, role participant.Role, account string) error {
	return s.write(ctx, op, caller, writeOptions{}, func(ctx context.Context, w *writer) error {
		account = strings.TrimSpace(account)
		g, err := loadGoal(ctx, w.tx, goalID)
		if err != nil {
			return err
		}
		state, err := loadParticipant(ctx, w.tx, goalID, account)
		if err != nil {
			return err
		}
		cmd, err := w.command(participant.CommandTypeAccept, goalID, participant.AcceptPayload{Account: account, Role: role})
		if err != nil {
			return err
		}
		_, err = w.apply(ctx, participant.Decide(g, state, cmd, w.now))
		return err
	})
}
