// Package profile decides the one-per-account, non-transferable profile that
// can gate goal creation.
package profile

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/command"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
)

const (
	CommandTypeSet command.Type = "profile.set"

	EventTypeSet event.Type = "profile.set"
)

// SetPayload carries the profile URI.
type SetPayload struct {
	URI string `json:"uri"`
}

// DecideSet lets the caller set or replace their own profile.
func DecideSet(cmd command.Command, now time.Time) command.Decision {
	if strings.TrimSpace(cmd.ActorID) == "" {
		return command.Reject(command.Rejection{Code: apperrors.CodeCallerRequired, Message: "caller is required"})
	}
	var payload SetPayload
	if err := json.Unmarshal(cmd.PayloadJSON, &payload); err != nil {
		return command.Reject(command.Rejection{Code: apperrors.CodeUnknown, Message: "invalid payload: " + err.Error()})
	}
	uri := strings.TrimSpace(payload.URI)
	if uri == "" {
		return command.Reject(command.Rejection{Code: apperrors.CodeURIEmpty, Message: "profile uri is required"})
	}
	payloadJSON, _ := json.Marshal(SetPayload{URI: uri})
	return command.Accept(command.NewEvent(cmd, EventTypeSet, "profile", cmd.ActorID, payloadJSON, now))
}
