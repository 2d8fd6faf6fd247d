package projection

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/account"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/escrow"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/goal"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/message"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/participant"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/profile"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/reputation"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/settings"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/verification"
	"github.com/louisbranch/stakes.space/internal/services/ledger/storage"
)

// Applier applies journal events to a projection store.
type Applier struct {
	Store storage.ProjectionStore
}

var coreRouter = buildRouter()

func buildRouter() *router {
	r := newRouter()
	handle(r, goal.EventTypeCreated, Applier.applyGoalCreated)
	handle(r, goal.EventTypeProofPosted, Applier.applyProofPosted)
	handle(r, goal.EventTypeClosed, Applier.applyGoalClosed)
	handle(r, escrow.EventTypeLocked, Applier.applyEscrowLocked)
	handle(r, escrow.EventTypePaidOut, Applier.applyEscrowPaidOut)
	handle(r, verification.EventTypeEvidenceAdded, Applier.applyEvidenceAdded)
	handle(r, verification.EventTypeDecided, Applier.applyVerificationDecided)
	handle(r, participant.EventTypeJoined, Applier.applyParticipantJoined)
	handle(r, participant.EventTypeAccepted, Applier.applyParticipantAccepted)
	handle(r, message.EventTypePosted, Applier.applyMessagePosted)
	handle(r, message.EventTypeEvaluated, Applier.applyMessageEvaluated)
	handle(r, reputation.EventTypeRecorded, Applier.applyReputationRecorded)
	handle(r, account.EventTypeFunded, Applier.applyAccountFunded)
	handle(r, profile.EventTypeSet, Applier.applyProfileSet)
	handleRaw(r, settings.EventTypeUpdated, Applier.applySettingsUpdated)
	return r
}

// HandledTypes lists every event type the applier projects.
func HandledTypes() []event.Type {
	return append([]event.Type(nil), coreRouter.types...)
}

// Apply projects one event.
func (a Applier) Apply(ctx context.Context, evt event.Event) error {
	if a.Store == nil {
		return errors.New("projection store is required")
	}
	return coreRouter.route(a, ctx, evt)
}

func ensureTimestamp(ts time.Time) time.Time {
	if ts.IsZero() {
		return time.Now().UTC()
	}
	return ts.UTC()
}

func (a Applier) applyGoalCreated(ctx context.Context, evt event.Event, p goal.CreatedPayload) error {
	if evt.GoalID == 0 {
		return errors.New("goal id is required")
	}
	if err := a.Store.PutGoal(ctx, storage.GoalRecord{
		ID:          evt.GoalID,
		Author:      p.Author,
		Description: p.Description,
		Stake:       p.Stake,
		Deadline:    time.Unix(p.Deadline, 0).UTC(),
		Requirement: p.Requirement,
		CreatedAt:   ensureTimestamp(evt.Timestamp),
	}); err != nil {
		return err
	}
	return a.Store.PutVerification(ctx, storage.VerificationRecord{
		GoalID:      evt.GoalID,
		Requirement: p.Requirement,
		Outcome:     verification.OutcomePending,
	})
}

func (a Applier) applyProofPosted(ctx context.Context, evt event.Event, p goal.ProofPayload) error {
	record, err := a.Store.GetGoal(ctx, evt.GoalID)
	if err != nil {
		return err
	}
	if err := a.Store.PutProof(ctx, storage.ProofRecord{
		GoalID:   evt.GoalID,
		Index:    uint64(record.ProofCount),
		URI:      p.URI,
		PostedAt: ensureTimestamp(evt.Timestamp),
	}); err != nil {
		return err
	}
	record.ProofURI = p.URI
	record.ProofCount++
	return a.Store.PutGoal(ctx, record)
}

func (a Applier) applyGoalClosed(ctx context.Context, evt event.Event, p goal.ClosedPayload) error {
	record, err := a.Store.GetGoal(ctx, evt.GoalID)
	if err != nil {
		return err
	}
	if record.Closed {
		return apperrors.WithMetadata(apperrors.CodeGoalAlreadyClosed, "goal already closed", goalMetadata(evt.GoalID))
	}
	closedAt := ensureTimestamp(evt.Timestamp)
	record.Closed = true
	record.Achieved = p.Achieved
	record.ClosedAt = &closedAt
	return a.Store.PutGoal(ctx, record)
}

func (a Applier) applyEscrowLocked(ctx context.Context, evt event.Event, p escrow.LockedPayload) error {
	if err := a.debit(ctx, p.Account, p.Amount); err != nil {
		return err
	}
	return a.Store.PutEscrow(ctx, storage.EscrowRecord{GoalID: evt.GoalID, Locked: p.Amount})
}

func (a Applier) applyEscrowPaidOut(ctx context.Context, evt event.Event, p escrow.PaidOutPayload) error {
	record, err := a.Store.GetEscrow(ctx, evt.GoalID)
	if err != nil {
		return err
	}
	if record.Released {
		return apperrors.WithMetadata(apperrors.CodeEscrowAlreadyReleased, "escrow already released", goalMetadata(evt.GoalID))
	}
	if err := p.Payouts.Validate(record.Locked); err != nil {
		return err
	}
	for _, payout := range p.Payouts {
		if err := a.credit(ctx, payout.Account, payout.Amount); err != nil {
			return err
		}
	}
	releasedAt := ensureTimestamp(evt.Timestamp)
	record.Released = true
	record.ReleasedAt = &releasedAt
	return a.Store.PutEscrow(ctx, record)
}

func (a Applier) applyEvidenceAdded(ctx context.Context, evt event.Event, p verification.EvidenceAddedPayload) error {
	record, err := a.Store.GetVerification(ctx, evt.GoalID)
	if err != nil {
		return err
	}
	for _, e := range p.Evidence {
		for _, existing := range record.Evidence {
			if existing.Key == e.Key {
				return apperrors.WithMetadata(apperrors.CodeEvidenceKeyExists, "evidence key already set", map[string]string{"Key": e.Key})
			}
		}
		record.Evidence = append(record.Evidence, e)
	}
	return a.Store.PutVerification(ctx, record)
}

func (a Applier) applyVerificationDecided(ctx context.Context, evt event.Event, p verification.DecidedPayload) error {
	record, err := a.Store.GetVerification(ctx, evt.GoalID)
	if err != nil {
		return err
	}
	if record.Outcome.Decided() {
		return apperrors.WithMetadata(apperrors.CodeVerificationAlreadyDecided, "verification already decided", goalMetadata(evt.GoalID))
	}
	record.Outcome = p.Outcome
	return a.Store.PutVerification(ctx, record)
}

func (a Applier) applyParticipantJoined(ctx context.Context, evt event.Event, p participant.JoinPayload) error {
	_, err := a.Store.GetParticipant(ctx, evt.GoalID, p.Account)
	if err == nil {
		return apperrors.WithMetadata(apperrors.CodeAlreadyParticipant, "account already participates", map[string]string{"Account": p.Account})
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return a.Store.PutParticipant(ctx, storage.ParticipantRecord{
		GoalID:       evt.GoalID,
		Account:      p.Account,
		Role:         p.Role,
		ExtraDataURI: p.ExtraDataURI,
		JoinSeq:      evt.Seq,
		JoinedAt:     ensureTimestamp(evt.Timestamp),
	})
}

func (a Applier) applyParticipantAccepted(ctx context.Context, evt event.Event, p participant.AcceptPayload) error {
	record, err := a.Store.GetParticipant(ctx, evt.GoalID, p.Account)
	if err != nil {
		return err
	}
	if record.Accepted {
		return nil
	}
	acceptedAt := ensureTimestamp(evt.Timestamp)
	record.Accepted = true
	record.AcceptedAt = &acceptedAt
	return a.Store.PutParticipant(ctx, record)
}

func (a Applier) applyMessagePosted(ctx context.Context, evt event.Event, p message.PostedPayload) error {
	return a.Store.PutMessage(ctx, storage.MessageRecord{
		GoalID:       evt.GoalID,
		Index:        p.Index,
		Author:       p.Author,
		ExtraDataURI: p.ExtraDataURI,
		PostedAt:     ensureTimestamp(evt.Timestamp),
	})
}

func (a Applier) applyMessageEvaluated(ctx context.Context, evt event.Event, p message.EvaluatedPayload) error {
	record, err := a.Store.GetMessage(ctx, evt.GoalID, p.Index)
	if err != nil {
		return err
	}
	evaluatedAt := ensureTimestamp(evt.Timestamp)
	record.Evaluated = true
	record.Motivating = p.Motivating
	record.SuperMotivating = p.SuperMotivating
	record.EvaluatedAt = &evaluatedAt
	if err := a.Store.PutMessage(ctx, record); err != nil {
		return err
	}

	poster, err := a.Store.GetParticipant(ctx, evt.GoalID, p.Poster)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.Motivating {
		poster.Motivations++
	}
	if p.SuperMotivating {
		poster.SuperMotivations++
	}
	return a.Store.PutParticipant(ctx, poster)
}

func (a Applier) applyReputationRecorded(ctx context.Context, _ event.Event, p reputation.RecordedPayload) error {
	for _, entry := range p.Entries {
		current, err := a.Store.GetReputation(ctx, entry.Account)
		if err != nil {
			return err
		}
		next, err := current.Apply(entry.Counter)
		if err != nil {
			return err
		}
		if err := a.Store.PutReputation(ctx, entry.Account, next); err != nil {
			return err
		}
	}
	return nil
}

func (a Applier) applyAccountFunded(ctx context.Context, _ event.Event, p account.FundPayload) error {
	return a.credit(ctx, p.Account, p.Amount)
}

func (a Applier) applyProfileSet(ctx context.Context, evt event.Event, p profile.SetPayload) error {
	return a.Store.PutProfile(ctx, storage.ProfileRecord{
		Account:   evt.EntityID,
		URI:       p.URI,
		UpdatedAt: ensureTimestamp(evt.Timestamp),
	})
}

func (a Applier) applySettingsUpdated(ctx context.Context, evt event.Event) error {
	cfg, err := settings.Fold(settings.Settings{}, evt)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return a.Store.PutSettings(ctx, cfg)
}

func (a Applier) credit(ctx context.Context, acct string, amount uint64) error {
	balance, err := a.Store.GetBalance(ctx, acct)
	if err != nil {
		return err
	}
	if err := account.CheckCredit(balance, amount); err != nil {
		return err
	}
	return a.Store.PutBalance(ctx, acct, balance+amount)
}

func (a Applier) debit(ctx context.Context, acct string, amount uint64) error {
	balance, err := a.Store.GetBalance(ctx, acct)
	if err != nil {
		return err
	}
	if balance < amount {
		return apperrors.WithMetadata(apperrors.CodeInsufficientBalance, fmt.Sprintf("balance %d is below %d", balance, amount), map[string]string{
			"Account": acct,
			"Amount":  strconv.FormatUint(amount, 10),
		})
	}
	return a.Store.PutBalance(ctx, acct, balance-amount)
}

func goalMetadata(goalID uint64) map[string]string {
	return map[string]string{"GoalID": strconv.FormatUint(goalID, 10)}
}
