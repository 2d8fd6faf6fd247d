// Package settings holds the ledger-wide administrative configuration:
// owner, treasury, fee percent, pause flag, profile gate and message policy.
package settings

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/command"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
)

// MessagePolicy controls who may post messages on a goal.
type MessagePolicy string

const (
	// MessagePolicyOpen lets anyone post; non-participants are enrolled as motivators.
	MessagePolicyOpen MessagePolicy = "open"
	// MessagePolicyAcceptedMotivators restricts posting to the author and accepted motivators.
	MessagePolicyAcceptedMotivators MessagePolicy = "accepted_motivators"
)

// DefaultFeePercent is the usage fee applied to failed-goal stakes.
const DefaultFeePercent uint8 = 10

const (
	CommandTypePause            command.Type = "settings.pause"
	CommandTypeUnpause          command.Type = "settings.unpause"
	CommandTypeSetFeePercent    command.Type = "settings.set_fee_percent"
	CommandTypeSetTreasury      command.Type = "settings.set_treasury"
	CommandTypeSetProfileGate   command.Type = "settings.set_profile_gate"
	CommandTypeSetMessagePolicy command.Type = "settings.set_message_policy"

	EventTypeUpdated event.Type = "settings.updated"
)

// Settings is the folded administrative state.
type Settings struct {
	Owner           string        `json:"owner"`
	Treasury        string        `json:"treasury"`
	FeePercent      uint8         `json:"fee_percent"`
	Paused          bool          `json:"paused"`
	ProfileRequired bool          `json:"profile_required"`
	MessagePolicy   MessagePolicy `json:"message_policy"`
}

// Default returns settings for a fresh ledger.
func Default(owner, treasury string) Settings {
	return Settings{
		Owner:         owner,
		Treasury:      treasury,
		FeePercent:    DefaultFeePercent,
		MessagePolicy: MessagePolicyOpen,
	}
}

// Validate checks the invariants every stored settings value must hold.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Owner) == "" {
		return apperrors.WithMetadata(apperrors.CodeAccountInvalid, "owner is required", map[string]string{"Account": s.Owner})
	}
	if strings.TrimSpace(s.Treasury) == "" {
		return apperrors.WithMetadata(apperrors.CodeAccountInvalid, "treasury is required", map[string]string{"Account": s.Treasury})
	}
	if s.FeePercent > 100 {
		return apperrors.New(apperrors.CodeFeePercentInvalid, "fee percent must be at most 100")
	}
	if _, ok := ParseMessagePolicy(string(s.MessagePolicy)); !ok {
		return apperrors.New(apperrors.CodeMessagePolicyInvalid, "unknown message policy")
	}
	return nil
}

// ParseMessagePolicy normalizes a policy name.
func ParseMessagePolicy(value string) (MessagePolicy, bool) {
	switch MessagePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case MessagePolicyOpen:
		return MessagePolicyOpen, true
	case MessagePolicyAcceptedMotivators:
		return MessagePolicyAcceptedMotivators, true
	default:
		return "", false
	}
}

// FeePercentPayload sets the usage fee percent.
type FeePercentPayload struct {
	FeePercent uint32 `json:"fee_percent"`
}

// TreasuryPayload sets the treasury account.
type TreasuryPayload struct {
	Treasury string `json:"treasury"`
}

// ProfileGatePayload toggles the profile requirement for setting goals.
type ProfileGatePayload struct {
	Required bool `json:"required"`
}

// MessagePolicyPayload sets the message posting policy.
type MessagePolicyPayload struct {
	Policy string `json:"policy"`
}

// Decide applies an owner-only administrative command. Admin commands are
// accepted while paused so the owner can always unpause.
func Decide(current Settings, cmd command.Command, now time.Time) command.Decision {
	if cmd.ActorID != current.Owner {
		return command.Reject(command.Rejection{Code: apperrors.CodeNotOwner, Message: "only the owner can change settings"})
	}
	next := current
	switch cmd.Type {
	case CommandTypePause:
		next.Paused = true
	case CommandTypeUnpause:
		next.Paused = false
	case CommandTypeSetFeePercent:
		var p FeePercentPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &p); err != nil {
			return invalidPayload(err)
		}
		if p.FeePercent > 100 {
			return command.Reject(command.Rejection{
				Code:     apperrors.CodeFeePercentInvalid,
				Message:  "fee percent must be at most 100",
				Metadata: map[string]string{"FeePercent": strconv.FormatUint(uint64(p.FeePercent), 10)},
			})
		}
		next.FeePercent = uint8(p.FeePercent)
	case CommandTypeSetTreasury:
		var p TreasuryPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &p); err != nil {
			return invalidPayload(err)
		}
		treasury := strings.TrimSpace(p.Treasury)
		if treasury == "" {
			return command.Reject(command.Rejection{Code: apperrors.CodeAccountInvalid, Message: "treasury is required"})
		}
		next.Treasury = treasury
	case CommandTypeSetProfileGate:
		var p ProfileGatePayload
		if err := json.Unmarshal(cmd.PayloadJSON, &p); err != nil {
			return invalidPayload(err)
		}
		next.ProfileRequired = p.Required
	case CommandTypeSetMessagePolicy:
		var p MessagePolicyPayload
		if err := json.Unmarshal(cmd.PayloadJSON, &p); err != nil {
			return invalidPayload(err)
		}
		policy, ok := ParseMessagePolicy(p.Policy)
		if !ok {
			return command.Reject(command.Rejection{Code: apperrors.CodeMessagePolicyInvalid, Message: "unknown message policy"})
		}
		next.MessagePolicy = policy
	default:
		return command.Reject(command.Rejection{Code: apperrors.CodeUnknown, Message: "unsupported settings command " + string(cmd.Type)})
	}
	payloadJSON, err := json.Marshal(next)
	if err != nil {
		return invalidPayload(err)
	}
	return command.Accept(command.NewEvent(cmd, EventTypeUpdated, "settings", "ledger", payloadJSON, now))
}

// Fold applies a settings event.
func Fold(current Settings, evt event.Event) (Settings, error) {
	if evt.Type != EventTypeUpdated {
		return current, nil
	}
	var next Settings
	if err := json.Unmarshal(evt.PayloadJSON, &next); err != nil {
		return current, apperrors.Wrap(apperrors.CodeUnknown, "decode settings payload", err)
	}
	return next, nil
}

func invalidPayload(err error) command.Decision {
	return command.Reject(command.Rejection{Code: apperrors.CodeUnknown, Message: "invalid payload: " + err.Error()})
}
