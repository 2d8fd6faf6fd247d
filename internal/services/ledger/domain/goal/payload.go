package goal

import (
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/command"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
)

const (
	CommandTypeCreate    command.Type = "goal.create"
	CommandTypePostProof command.Type = "goal.post_proof"
	CommandTypeClose     command.Type = "goal.close"

	EventTypeCreated     event.Type = "goal.created"
	EventTypeProofPosted event.Type = "goal.proof_posted"
	EventTypeClosed      event.Type = "goal.closed"
)

// CloseMode selects which settlement entry point issued a close.
type CloseMode string

const (
	// CloseModeAuto settles by the deadline state machine.
	CloseModeAuto CloseMode = "auto"
	// CloseModeAchieved requires an achieved settlement before the deadline.
	CloseModeAchieved CloseMode = "achieved"
	// CloseModeFailed requires a failed settlement after the deadline.
	CloseModeFailed CloseMode = "failed"
)

// CreatePayload captures a new goal request.
type CreatePayload struct {
	Description   string `json:"description"`
	Stake         uint64 `json:"stake"`
	AttachedFunds uint64 `json:"attached_funds"`
	Deadline      int64  `json:"deadline"`
	Requirement   string `json:"requirement,omitempty"`
}

// CreatedPayload captures the persisted goal fields.
type CreatedPayload struct {
	Author      string `json:"author"`
	Description string `json:"description"`
	Stake       uint64 `json:"stake"`
	Deadline    int64  `json:"deadline"`
	Requirement string `json:"requirement,omitempty"`
}

// ProofPayload carries a proof URI.
type ProofPayload struct {
	URI string `json:"uri"`
}

// ClosePayload selects the close mode.
type ClosePayload struct {
	Mode CloseMode `json:"mode"`
}

// ClosedPayload records the settlement outcome.
type ClosedPayload struct {
	Achieved bool      `json:"achieved"`
	Mode     CloseMode `json:"mode"`
}
