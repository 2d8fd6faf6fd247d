// Package account decides native-currency funding of ledger accounts.
package account

import (
	"encoding/json"
	"math/bits"
	"strings"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/command"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/escrow"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/settings"
)

const (
	CommandTypeFund command.Type = "account.fund"

	EventTypeFunded event.Type = "account.funded"
)

// FundPayload credits Amount to Account.
type FundPayload struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

// DecideFund lets the owner credit an account, provided the new balance stays
// inside the supported range.
func DecideFund(cfg settings.Settings, balance uint64, cmd command.Command, now time.Time) command.Decision {
	if cmd.ActorID != cfg.Owner {
		return command.Reject(command.Rejection{Code: apperrors.CodeNotOwner, Message: "only the owner can fund accounts"})
	}
	var payload FundPayload
	if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
		return command.Reject(command.Rejection{Code: apperrors.CodeUnknown, Message: "invalid payload: " + err.Error()})
	}
	payload.Account = strings.TrimSpace(payload.Account)
	if payload.Account == "" {
		return command.Reject(command.Rejection{Code: apperrors.CodeAccountInvalid, Message: "account is required"})
	}
	if err := escrow.CheckAmount(payload.Amount); err != nil {
		return command.RejectErr(err)
	}
	if err := CheckCredit(balance, payload.Amount); err != nil {
		return command.RejectErr(err)
	}
	payloadJSON, _ := json.Marshal(payload)
	return command.Accept(command.NewEvent(cmd, EventTypeFunded, "account", payload.Account, payloadJSON, now))
}

// CheckCredit fails when balance+amount leaves the supported range.
func CheckCredit(balance, amount uint64) error {
	sum, carry := bits.Add64(balance, amount, 0)
	if carry != 0 || sum > escrow.MaxAmount {
		return apperrors.New(apperrors.CodeAmountOverflow, "balance would overflow")
	}
	return nil
}
