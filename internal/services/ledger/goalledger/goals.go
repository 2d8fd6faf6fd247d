package goalledger

import (
	"context"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/escrow"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/goal"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/reputation"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/verification"
)

// SetGoalInput describes a new goal.
type SetGoalInput struct {
	Description    string
	Stake          uint64
	AttachedFunds  uint64
	Deadline       time.Time
	Requirement    string
	EvidenceKeys   []string
	EvidenceValues []string
}

// Settlement is the result of closing a goal.
type Settlement struct {
	GoalID   uint64
	Achieved bool
	Payouts  escrow.Distribution
}

// SetGoal creates a goal, locks its stake and records any initial evidence.
// Initial evidence is evaluated once; an undecided result leaves the goal
// pending instead of failing creation.
func (s *Service) SetGoal(ctx context.Context, caller string, in SetGoalInput) (uint64, error) {
	var goalID uint64
	err := s.write(ctx, "set_goal", caller, writeOptions{}, func(ctx context.Context, w *writer) error {
		current, err := w.tx.CurrentGoalID(ctx)
		if err != nil {
			return err
		}
		id := current + 1
		requirement := strings.TrimSpace(in.Requirement)

		cmd, err := w.command(goal.CommandTypeCreate, id, goal.CreatePayload{
			Description:   in.Description,
			Stake:         in.Stake,
			AttachedFunds: in.AttachedFunds,
			Deadline:      in.Deadline.Unix(),
			Requirement:   requirement,
		})
		if err != nil {
			return err
		}
		decision := goal.Decide(goal.State{ID: id}, cmd, w.now)
		if err := decision.Err(); err != nil {
			return err
		}

		if w.settings.ProfileRequired {
			has, err := s.profileRegistry(w.tx).HasProfile(ctx, w.caller)
			if err != nil {
				return err
			}
			if !has {
				return apperrors.WithMetadata(apperrors.CodeProfileRequired, "caller has no profile", map[string]string{"Account": w.caller})
			}
		}
		if requirement != "" && !s.registry.Has(requirement) {
			return apperrors.WithMetadata(apperrors.CodeUnknownVerificationRequirement, "requirement not registered", map[string]string{"Requirement": requirement})
		}
		evidence, err := verification.PairEvidence(in.EvidenceKeys, in.EvidenceValues)
		if err != nil {
			return err
		}
		if len(evidence) > 0 && requirement == "" {
			return apperrors.New(apperrors.CodeVerificationNotConfigured, "evidence requires a verification requirement")
		}
		balance, err := w.tx.GetBalance(ctx, w.caller)
		if err != nil {
			return err
		}
		if balance < in.AttachedFunds {
			return apperrors.WithMetadata(apperrors.CodeInsufficientBalance, "balance is below the attached funds", map[string]string{
				"Account": w.caller,
				"Amount":  strconv.FormatUint(in.AttachedFunds, 10),
			})
		}

		events := decision.Events
		if len(evidence) > 0 {
			events = append(events, verification.EvidenceAddedEvent(cmd, evidence, w.now))
			outcome, err := s.registry.Evaluate(ctx, requirement, id, evidence)
			if err != nil {
				return err
			}
			if outcome.Decided() {
				events = append(events, verification.DecidedEvent(cmd, outcome, w.now))
			}
		}
		if _, err := w.tx.AppendEvents(ctx, events...); err != nil {
			return err
		}
		goalID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return goalID, nil
}

// PostProof appends a proof URI to the caller's open goal.
func (s *Service) PostProof(ctx context.Context, caller string, goalID uint64, uri string) error {
	return s.write(ctx, "post_proof", caller, writeOptions{}, func(ctx context.Context, w *writer) error {
		_, err := s.postProof(ctx, w, goalID, uri)
		return err
	})
}

func (s *Service) postProof(ctx context.Context, w *writer, goalID uint64, uri string) (goal.State, error) {
	g, err := loadGoal(ctx, w.tx, goalID)
	if err != nil {
		return goal.State{}, err
	}
	cmd, err := w.command(goal.CommandTypePostProof, goalID, goal.ProofPayload{URI: uri})
	if err != nil {
		return goal.State{}, err
	}
	events, err := w.apply(ctx, goal.Decide(g, cmd, w.now))
	if err != nil {
		return goal.State{}, err
	}
	return foldGoal(g, events)
}

// AddVerificationDataAndVerify appends evidence and evaluates the goal's
// predicate. A pending outcome fails with VERIFICATION_PENDING and nothing is
// kept, so the author can retry with more evidence.
func (s *Service) AddVerificationDataAndVerify(ctx context.Context, caller string, goalID uint64, keys, values []string) (verification.Outcome, error) {
	var outcome verification.Outcome
	err := s.write(ctx, "add_verification_data", caller, writeOptions{}, func(ctx context.Context, w *writer) error {
		g, err := loadGoal(ctx, w.tx, goalID)
		if err != nil {
			return err
		}
		if err := g.CheckAuthorWindow(w.caller, w.now); err != nil {
			return err
		}
		state, err := loadVerification(ctx, w.tx, goalID)
		if err != nil {
			return err
		}
		cmd, err := w.command(verification.CommandTypeAddEvidence, goalID, verification.AddEvidencePayload{Keys: keys, Values: values})
		if err != nil {
			return err
		}
		decision := verification.DecideAddEvidence(state, cmd, w.now)
		if err := decision.Err(); err != nil {
			return err
		}
		for _, evt := range decision.Events {
			if state, err = verification.Fold(state, evt); err != nil {
				return err
			}
		}

		result, err := s.registry.Evaluate(ctx, state.Requirement, goalID, state.Evidence)
		if err != nil {
			return err
		}
		if !result.Decided() {
			return apperrors.WithMetadata(apperrors.CodeVerificationPending, "verification is still pending", map[string]string{
				"GoalID":      strconv.FormatUint(goalID, 10),
				"Requirement": state.Requirement,
			})
		}
		events := append(decision.Events, verification.DecidedEvent(cmd, result, w.now))
		if _, err := w.tx.AppendEvents(ctx, events...); err != nil {
			return err
		}
		outcome = result
		return nil
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

// Close settles a goal by the deadline state machine.
func (s *Service) Close(ctx context.Context, caller string, goalID uint64) (Settlement, error) {
	return s.close(ctx, "close", caller, goalID, goal.CloseModeAuto, "")
}

// CloseAsAchieved posts a final proof and closes the goal as achieved in one
// operation. Only the author may call it, before the deadline.
func (s *Service) CloseAsAchieved(ctx context.Context, caller string, goalID uint64, proofURI string) (Settlement, error) {
	return s.close(ctx, "close_as_achieved", caller, goalID, goal.CloseModeAchieved, proofURI)
}

// CloseAsFailed settles an expired goal without qualifying evidence.
func (s *Service) CloseAsFailed(ctx context.Context, caller string, goalID uint64) (Settlement, error) {
	return s.close(ctx, "close_as_failed", caller, goalID, goal.CloseModeFailed, "")
}

func (s *Service) close(ctx context.Context, op, caller string, goalID uint64, mode goal.CloseMode, proofURI string) (Settlement, error) {
	var result Settlement
	err := s.write(ctx, op, caller, writeOptions{}, func(ctx context.Context, w *writer) error {
		var (
			g   goal.State
			err error
		)
		if mode == goal.CloseModeAchieved {
			g, err = s.postProof(ctx, w, goalID, proofURI)
		} else {
			g, err = loadGoal(ctx, w.tx, goalID)
		}
		if err != nil {
			return err
		}
		result, err = s.settle(ctx, w, g, mode)
		return err
	})
	if err != nil {
		return Settlement{}, err
	}
	s.metrics.ObserveSettlement(result.Achieved)
	for _, payout := range result.Payouts {
		s.metrics.ObservePayout(string(payout.Reason), payout.Amount)
	}
	return result, nil
}

// settle closes g, releases its escrow and records reputation.
func (s *Service) settle(ctx context.Context, w *writer, g goal.State, mode goal.CloseMode) (Settlement, error) {
	cmd, err := w.command(goal.CommandTypeClose, g.ID, goal.ClosePayload{Mode: mode})
	if err != nil {
		return Settlement{}, err
	}
	decision := goal.Decide(g, cmd, w.now)
	if err := decision.Err(); err != nil {
		return Settlement{}, err
	}
	if g, err = foldGoal(g, decision.Events); err != nil {
		return Settlement{}, err
	}

	var accepted []string
	dist := escrow.Achieved(g.Author, g.Stake)
	if !g.Achieved {
		if accepted, err = acceptedAccounts(ctx, w.tx, g.ID); err != nil {
			return Settlement{}, err
		}
		if dist, err = escrow.Failed(g.Stake, w.settings.FeePercent, w.settings.Treasury, accepted); err != nil {
			return Settlement{}, err
		}
	}
	locked, err := loadEscrow(ctx, w.tx, g.ID)
	if err != nil {
		return Settlement{}, err
	}
	payout := escrow.DecidePayout(locked, dist, cmd, w.now)
	if err := payout.Err(); err != nil {
		return Settlement{}, err
	}

	events := make([]event.Event, 0, len(decision.Events)+len(payout.Events)+1)
	events = append(events, decision.Events...)
	events = append(events, payout.Events...)
	events = append(events, reputation.RecordedEvent(cmd, reputation.ForSettlement(g.Author, g.Achieved, accepted), w.now))
	if _, err := w.tx.AppendEvents(ctx, events...); err != nil {
		return Settlement{}, err
	}
	return Settlement{GoalID: g.ID, Achieved: g.Achieved, Payouts: dist}, nil
}

func foldGoal(g goal.State, events []event.Event) (goal.State, error) {
	var err error
	for _, evt := range events {
		if g, err = goal.Fold(g, evt); err != nil {
			return goal.State{}, err
		}
	}
	return g, nil
}
