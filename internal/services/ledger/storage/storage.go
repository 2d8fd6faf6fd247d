// Package storage defines the persistence contracts of the goal ledger.
//
// Readers serve queries. Tx adds journal appends; every appended event is
// projected into the read models inside the same transaction, so a rejected
// or failed operation leaves no partial state behind.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/participant"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/reputation"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/settings"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/verification"
)

// ErrNotFound indicates a requested persistence record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// GoalStatus is the settlement status exposed to listing filters.
type GoalStatus string

const (
	GoalStatusOpen     GoalStatus = "open"
	GoalStatusAchieved GoalStatus = "achieved"
	GoalStatusFailed   GoalStatus = "failed"
)

// GoalRecord is the goal read model.
type GoalRecord struct {
	ID          uint64
	Author      string
	Description string
	Stake       uint64
	Deadline    time.Time
	Requirement string
	Closed      bool
	Achieved    bool
	ProofURI    string
	ProofCount  int
	CreatedAt   time.Time
	ClosedAt    *time.Time
}

// Status derives the listing status.
func (g GoalRecord) Status() GoalStatus {
	switch {
	case !g.Closed:
		return GoalStatusOpen
	case g.Achieved:
		return GoalStatusAchieved
	default:
		return GoalStatusFailed
	}
}

// ProofRecord is one posted proof.
type ProofRecord struct {
	GoalID   uint64
	Index    uint64
	URI      string
	PostedAt time.Time
}

// VerificationRecord is the verification view of a goal.
type VerificationRecord struct {
	GoalID      uint64
	Requirement string
	Outcome     verification.Outcome
	Evidence    []verification.Evidence
}

// ParticipantRecord is one (goal, account) participation.
type ParticipantRecord struct {
	GoalID           uint64
	Account          string
	Role             participant.Role
	ExtraDataURI     string
	Accepted         bool
	Motivations      uint64
	SuperMotivations uint64
	JoinSeq          uint64
	JoinedAt         time.Time
	AcceptedAt       *time.Time
}

// MessageRecord is one message on a goal's board.
type MessageRecord struct {
	GoalID          uint64
	Index           uint64
	Author          string
	ExtraDataURI    string
	Evaluated       bool
	Motivating      bool
	SuperMotivating bool
	PostedAt        time.Time
	EvaluatedAt     *time.Time
}

// EscrowRecord is the escrow held for a goal.
type EscrowRecord struct {
	GoalID     uint64
	Locked     uint64
	Released   bool
	ReleasedAt *time.Time
}

// ProfileRecord is an account profile.
type ProfileRecord struct {
	Account   string
	URI       string
	UpdatedAt time.Time
}

// GoalPage is one page of ListGoals.
type GoalPage struct {
	Goals         []GoalRecord
	NextPageToken string
}

// GoalReader reads goal projections.
type GoalReader interface {
	GetGoal(ctx context.Context, goalID uint64) (GoalRecord, error)
	// CurrentGoalID returns the highest goal id ever assigned, 0 when none.
	CurrentGoalID(ctx context.Context) (uint64, error)
	ListGoals(ctx context.Context, pageSize int, pageToken, filter string) (GoalPage, error)
	ListProofs(ctx context.Context, goalID uint64) ([]ProofRecord, error)
	GetVerification(ctx context.Context, goalID uint64) (VerificationRecord, error)
	GetEscrow(ctx context.Context, goalID uint64) (EscrowRecord, error)
}

// ParticipantReader reads participant projections.
type ParticipantReader interface {
	GetParticipant(ctx context.Context, goalID uint64, account string) (ParticipantRecord, error)
	// ListParticipants returns participants in join order; an empty role lists all.
	ListParticipants(ctx context.Context, goalID uint64, role participant.Role) ([]ParticipantRecord, error)
	GetMotivatorReputation(ctx context.Context, account string) (reputation.MotivatorReputation, error)
}

// MessageReader reads message board projections.
type MessageReader interface {
	GetMessage(ctx context.Context, goalID, index uint64) (MessageRecord, error)
	ListMessages(ctx context.Context, goalID uint64) ([]MessageRecord, error)
	CountMessages(ctx context.Context, goalID uint64) (uint64, error)
}

// AccountReader reads per-account projections. Missing balances and
// reputations read as zero values.
type AccountReader interface {
	GetBalance(ctx context.Context, account string) (uint64, error)
	GetReputation(ctx context.Context, account string) (reputation.Reputation, error)
	GetProfile(ctx context.Context, account string) (ProfileRecord, error)
}

// SettingsReader reads the ledger settings.
type SettingsReader interface {
	GetSettings(ctx context.Context) (settings.Settings, error)
}

// EventReader reads the journal.
type EventReader interface {
	// ListEvents returns up to limit events after afterSeq; goalID 0 lists all goals.
	ListEvents(ctx context.Context, goalID, afterSeq uint64, limit int) ([]event.Event, error)
}

// Reader is the full read surface.
type Reader interface {
	GoalReader
	ParticipantReader
	MessageReader
	AccountReader
	SettingsReader
	EventReader
}

// Tx is a write transaction.
type Tx interface {
	Reader
	// AppendEvents journals and projects events in order, returning them with
	// sequence numbers assigned.
	AppendEvents(ctx context.Context, events ...event.Event) ([]event.Event, error)
}

// ProjectionStore is the write surface used when projecting events.
type ProjectionStore interface {
	Reader
	PutGoal(ctx context.Context, record GoalRecord) error
	PutProof(ctx context.Context, record ProofRecord) error
	PutVerification(ctx context.Context, record VerificationRecord) error
	PutParticipant(ctx context.Context, record ParticipantRecord) error
	PutMessage(ctx context.Context, record MessageRecord) error
	PutEscrow(ctx context.Context, record EscrowRecord) error
	PutBalance(ctx context.Context, account string, balance uint64) error
	PutReputation(ctx context.Context, account string, rep reputation.Reputation) error
	PutProfile(ctx context.Context, record ProfileRecord) error
	PutSettings(ctx context.Context, cfg settings.Settings) error
}

// Store is the ledger persistence boundary.
type Store interface {
	Reader
	// InTx runs fn in one serialized write transaction. Any error rolls back.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Close() error
}
