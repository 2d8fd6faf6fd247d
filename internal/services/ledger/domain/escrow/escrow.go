// Package escrow computes how a goal's locked stake is released.
//
// All arithmetic is on unsigned integer amounts. The usage fee is
// floor(stake*feePercent/100); what remains is split evenly among accepted
// participants with any indivisible remainder going to the accepted
// participant who joined first. A distribution is only valid if it sums
// exactly to the lock.
package escrow

import (
	"encoding/json"
	"math"
	"math/bits"
	"strconv"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/command"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
)

// MaxAmount is the largest amount the ledger stores.
const MaxAmount = uint64(math.MaxInt64)

const (
	EventTypeLocked  event.Type = "escrow.locked"
	EventTypePaidOut event.Type = "escrow.paid_out"
)

// Reason labels why a payout line exists.
type Reason string

const (
	ReasonAuthorRefund     Reason = "author_refund"
	ReasonFee              Reason = "fee"
	ReasonParticipantShare Reason = "participant_share"
	ReasonUnclaimed        Reason = "unclaimed"
)

// Payout credits Amount to Account.
type Payout struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
	Reason  Reason `json:"reason"`
}

// Distribution is the ordered list of payouts for one goal.
type Distribution []Payout

// Total sums the distribution, failing on overflow.
func (d Distribution) Total() (uint64, error) {
	var total uint64
	for _, p := range d {
		sum, carry := bits.Add64(total, p.Amount, 0)
		if carry != 0 || sum > MaxAmount {
			return 0, apperrors.New(apperrors.CodeAmountOverflow, "distribution total overflows")
		}
		total = sum
	}
	return total, nil
}

// AmountFor sums every line credited to account.
func (d Distribution) AmountFor(account string) uint64 {
	var total uint64
	for _, p := range d {
		if p.Account == account {
			total += p.Amount
		}
	}
	return total
}

// Validate confirms the distribution releases exactly locked.
func (d Distribution) Validate(locked uint64) error {
	total, err := d.Total()
	if err != nil {
		return err
	}
	if total != locked {
		return apperrors.WithMetadata(apperrors.CodeDistributionMismatch, "distribution does not match locked amount", map[string]string{
			"Locked": strconv.FormatUint(locked, 10),
			"Total":  strconv.FormatUint(total, 10),
		})
	}
	return nil
}

// CheckAmount rejects zero and out-of-range amounts.
func CheckAmount(amount uint64) error {
	if amount == 0 {
		return apperrors.New(apperrors.CodeStakeZero, "amount must be greater than zero")
	}
	if amount > MaxAmount {
		return apperrors.New(apperrors.CodeAmountOverflow, "amount exceeds the supported range")
	}
	return nil
}

// Fee returns floor(stake*feePercent/100) without intermediate overflow.
func Fee(stake uint64, feePercent uint8) (uint64, error) {
	if feePercent > 100 {
		return 0, apperrors.New(apperrors.CodeFeePercentInvalid, "fee percent must be at most 100")
	}
	hi, lo := bits.Mul64(stake, uint64(feePercent))
	// hi < 100 because stake < 2^64 and feePercent <= 100.
	fee, _ := bits.Div64(hi, lo, 100)
	return fee, nil
}

// Achieved returns the whole stake to the author.
func Achieved(author string, stake uint64) Distribution {
	return Distribution{{Account: author, Amount: stake, Reason: ReasonAuthorRefund}}
}

// Failed splits a failed stake. accepted must be in join order.
// With no accepted participants the treasury receives everything.
func Failed(stake uint64, feePercent uint8, treasury string, accepted []string) (Distribution, error) {
	fee, err := Fee(stake, feePercent)
	if err != nil {
		return nil, err
	}
	remaining := stake - fee
	dist := make(Distribution, 0, len(accepted)+2)
	if fee > 0 {
		dist = append(dist, Payout{Account: treasury, Amount: fee, Reason: ReasonFee})
	}
	if len(accepted) == 0 {
		if remaining > 0 {
			dist = append(dist, Payout{Account: treasury, Amount: remaining, Reason: ReasonUnclaimed})
		}
		return dist, nil
	}
	n := uint64(len(accepted))
	share := remaining / n
	remainder := remaining % n
	for i, account := range accepted {
		amount := share
		if i == 0 {
			amount += remainder
		}
		if amount == 0 {
			continue
		}
		dist = append(dist, Payout{Account: account, Amount: amount, Reason: ReasonParticipantShare})
	}
	return dist, nil
}

// LockedPayload records funds moved from an account into a goal's escrow.
type LockedPayload struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

// PaidOutPayload records the release of a goal's escrow.
type PaidOutPayload struct {
	Payouts Distribution `json:"payouts"`
}

// LockedEvent builds the journal event for a stake lock.
func LockedEvent(cmd command.Command, account string, amount uint64, now time.Time) event.Event {
	payloadJSON, _ := json.Marshal(LockedPayload{Account: account, Amount: amount})
	return command.NewEvent(cmd, EventTypeLocked, "escrow", strconv.FormatUint(cmd.GoalID, 10), payloadJSON, now)
}

// State is the folded escrow for one goal.
type State struct {
	Locked   uint64
	Released bool
}

// DecidePayout validates a release of state by dist and emits the event.
func DecidePayout(state State, dist Distribution, cmd command.Command, now time.Time) command.Decision {
	if state.Released {
		return command.Reject(command.Rejection{Code: apperrors.CodeEscrowAlreadyReleased, Message: "escrow already released"})
	}
	if err := dist.Validate(state.Locked); err != nil {
		return command.RejectErr(err)
	}
	payloadJSON, err := json.Marshal(PaidOutPayload{Payouts: dist})
	if err != nil {
		return command.Reject(command.Rejection{Code: apperrors.CodeUnknown, Message: "encode payout: " + err.Error()})
	}
	return command.Accept(command.NewEvent(cmd, EventTypePaidOut, "escrow", strconv.FormatUint(cmd.GoalID, 10), payloadJSON, now))
}
