package goalledger

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/account"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/command"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/profile"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/settings"
	"github.com/louisbranch/stakes.space/internal/services/ledger/storage"
)

const commandTypeBootstrap command.Type = "settings.bootstrap"

// Bootstrap journals the initial settings of a fresh ledger. A ledger that
// already holds settings keeps them.
func (s *Service) Bootstrap(ctx context.Context, initial settings.Settings) error {
	if err := initial.Validate(); err != nil {
		return err
	}
	return s.write(ctx, "bootstrap", initial.Owner, writeOptions{admin: true, bootstrap: true}, func(ctx context.Context, w *writer) error {
		current, err := w.tx.GetSettings(ctx)
		if err == nil {
			if current.Owner != initial.Owner {
				log.Printf("ledger settings already bootstrapped for owner %q; ignoring configured owner %q", current.Owner, initial.Owner)
			}
			return nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		payloadJSON, err := json.Marshal(initial)
		if err != nil {
			return err
		}
		cmd := command.Command{Type: commandTypeBootstrap, ActorID: w.caller, RequestID: w.requestID}
		_, err = w.apply(ctx, command.Accept(command.NewEvent(cmd, settings.EventTypeUpdated, "settings", "ledger", payloadJSON, w.now)))
		return err
	})
}

// Pause blocks every non-administrative mutation.
func (s *Service) Pause(ctx context.Context, caller string) error {
	return s.updateSettings(ctx, "pause", caller, settings.CommandTypePause, struct{}{})
}

// Unpause lifts a pause.
func (s *Service) Unpause(ctx context.Context, caller string) error {
	return s.updateSettings(ctx, "unpause", caller, settings.CommandTypeUnpause, struct{}{})
}

// SetFeePercent sets the fee taken from failed stakes.
func (s *Service) SetFeePercent(ctx context.Context, caller string, feePercent uint32) error {
	return s.updateSettings(ctx, "set_fee_percent", caller, settings.CommandTypeSetFeePercent, settings.FeePercentPayload{FeePercent: feePercent})
}

// SetTreasuryAccount sets the account receiving fees.
func (s *Service) SetTreasuryAccount(ctx context.Context, caller, treasury string) error {
	return s.updateSettings(ctx, "set_treasury", caller, settings.CommandTypeSetTreasury, settings.TreasuryPayload{Treasury: treasury})
}

// SetProfileGate toggles the profile requirement for goal creation.
func (s *Service) SetProfileGate(ctx context.Context, caller string, required bool) error {
	return s.updateSettings(ctx, "set_profile_gate", caller, settings.CommandTypeSetProfileGate, settings.ProfileGatePayload{Required: required})
}

// SetMessagePolicy sets who may post on message boards.
func (s *Service) SetMessagePolicy(ctx context.Context, caller, policy string) error {
	return s.updateSettings(ctx, "set_message_policy", caller, settings.CommandTypeSetMessagePolicy, settings.MessagePolicyPayload{Policy: policy})
}

func (s *Service) updateSettings(ctx context.Context, op, caller string, cmdType command.Type, payload any) error {
	return s.write(ctx, op, caller, writeOptions{admin: true}, func(ctx context.Context, w *writer) error {
		cmd, err := w.command(cmdType, 0, payload)
		if err != nil {
			return err
		}
		_, err = w.apply(ctx, settings.Decide(w.settings, cmd, w.now))
		return err
	})
}

// FundAccount credits an account balance. Owner only.
func (s *Service) FundAccount(ctx context.Context, caller, acct string, amount uint64) error {
	acct = strings.TrimSpace(acct)
	return s.write(ctx, "fund_account", caller, writeOptions{admin: true}, func(ctx context.Context, w *writer) error {
		balance, err := w.tx.GetBalance(ctx, acct)
		if err != nil {
			return err
		}
		cmd, err := w.command(account.CommandTypeFund, 0, account.FundPayload{Account: acct, Amount: amount})
		if err != nil {
			return err
		}
		_, err = w.apply(ctx, account.DecideFund(w.settings, balance, cmd, w.now))
		return err
	})
}

// SetProfile sets or replaces the caller's profile.
func (s *Service) SetProfile(ctx context.Context, caller, uri string) error {
	return s.write(ctx, "set_profile", caller, writeOptions{}, func(ctx context.Context, w *writer) error {
		cmd, err := w.command(profile.CommandTypeSet, 0, profile.SetPayload{URI: uri})
		if err != nil {
			return err
		}
		_, err = w.apply(ctx, profile.DecideSet(cmd, w.now))
		return err
	})
}
