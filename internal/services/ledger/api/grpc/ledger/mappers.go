package ledger

import (
	"encoding/json"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
	"github.com/louisbranch/stakes.space/internal/services/ledger/goalledger"
	"github.com/louisbranch/stakes.space/internal/services/ledger/storage"
)

func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, item := range in {
		out = append(out, fn(item))
	}
	return out
}

func goalToProto(g storage.GoalRecord) ledgerv1.Goal {
	return ledgerv1.Goal{
		ID:          g.ID,
		Author:      g.Author,
		Description: g.Description,
		Stake:       g.Stake,
		Deadline:    g.Deadline.Unix(),
		Requirement: g.Requirement,
		Status:      string(g.Status()),
		ProofURI:    g.ProofURI,
		ProofCount:  int32(g.ProofCount),
		CreatedAt:   g.CreatedAt,
		ClosedAt:    g.ClosedAt,
	}
}

func verificationToProto(v storage.VerificationRecord) *ledgerv1.Verification {
	out := &ledgerv1.Verification{
		GoalID:      v.GoalID,
		Requirement: v.Requirement,
		Outcome:     string(v.Outcome),
	}
	for _, e := range v.Evidence {
		out.Evidence = append(out.Evidence, ledgerv1.Evidence{Key: e.Key, Value: e.Value})
	}
	return out
}

func proofToProto(p storage.ProofRecord) ledgerv1.Proof {
	return ledgerv1.Proof{Index: p.Index, URI: p.URI, PostedAt: p.PostedAt}
}

func messageToProto(m storage.MessageRecord) ledgerv1.Message {
	return ledgerv1.Message{
		Index:           m.Index,
		Author:          m.Author,
		ExtraDataURI:    m.ExtraDataURI,
		Evaluated:       m.Evaluated,
		Motivating:      m.Motivating,
		SuperMotivating: m.SuperMotivating,
		PostedAt:        m.PostedAt,
	}
}

func participantToProto(p storage.ParticipantRecord) ledgerv1.Participant {
	return ledgerv1.Participant{
		Account:          p.Account,
		Role:             string(p.Role),
		ExtraDataURI:     p.ExtraDataURI,
		Accepted:         p.Accepted,
		Motivations:      p.Motivations,
		SuperMotivations: p.SuperMotivations,
		JoinedAt:         p.JoinedAt,
	}
}

func settlementToProto(s goalledger.Settlement) *ledgerv1.Settlement {
	out := &ledgerv1.Settlement{GoalID: s.GoalID, Achieved: s.Achieved}
	for _, p := range s.Payouts {
		out.Payouts = append(out.Payouts, ledgerv1.Payout{Account: p.Account, Amount: p.Amount, Reason: string(p.Reason)})
	}
	return out
}

func eventToProto(evt event.Event) ledgerv1.Event {
	out := ledgerv1.Event{
		Seq:        evt.Seq,
		GoalID:     evt.GoalID,
		Type:       string(evt.Type),
		Timestamp:  evt.Timestamp,
		ActorID:    evt.ActorID,
		RequestID:  evt.RequestID,
		EntityType: evt.EntityType,
		EntityID:   evt.EntityID,
	}
	if len(evt.PayloadJSON) > 0 {
		out.Payload = json.RawMessage(evt.PayloadJSON)
	}
	return out
}
