package ledgerv1

import (
	"encoding/json"
	"time"
)

// Empty is the request or response of calls without fields.
type Empty struct{}

// Goal is a goal and its settlement status.
type Goal struct {
	ID          uint64     `json:"id"`
	Author      string     `json:"author"`
	Description string     `json:"description"`
	Stake       uint64     `json:"stake"`
	Deadline    int64      `json:"deadline"`
	Requirement string     `json:"requirement,omitempty"`
	Status      string     `json:"status"`
	ProofURI    string     `json:"proof_uri,omitempty"`
	ProofCount  int32      `json:"proof_count"`
	CreatedAt   time.Time  `json:"created_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

type Proof struct {
	Index    uint64    `json:"index"`
	URI      string    `json:"uri"`
	PostedAt time.Time `json:"posted_at"`
}

type Evidence struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Verification is the verification state of a goal.
type Verification struct {
	GoalID      uint64     `json:"goal_id"`
	Requirement string     `json:"requirement,omitempty"`
	Outcome     string     `json:"outcome"`
	Evidence    []Evidence `json:"evidence,omitempty"`
}

type Participant struct {
	Account          string    `json:"account"`
	Role             string    `json:"role"`
	ExtraDataURI     string    `json:"extra_data_uri,omitempty"`
	Accepted         bool      `json:"accepted"`
	Motivations      uint64    `json:"motivations"`
	SuperMotivations uint64    `json:"super_motivations"`
	JoinedAt         time.Time `json:"joined_at"`
}

type Message struct {
	Index           uint64    `json:"index"`
	Author          string    `json:"author"`
	ExtraDataURI    string    `json:"extra_data_uri"`
	Evaluated       bool      `json:"evaluated"`
	Motivating      bool      `json:"motivating"`
	SuperMotivating bool      `json:"super_motivating"`
	PostedAt        time.Time `json:"posted_at"`
}

type Payout struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
	Reason  string `json:"reason"`
}

type Escrow struct {
	GoalID   uint64 `json:"goal_id"`
	Locked   uint64 `json:"locked"`
	Released bool   `json:"released"`
}

type Reputation struct {
	Account        string `json:"account"`
	AchievedGoals  uint64 `json:"achieved_goals"`
	FailedGoals    uint64 `json:"failed_goals"`
	MotivatedGoals uint64 `json:"motivated_goals"`
}

type MotivatorReputation struct {
	Account          string `json:"account"`
	Motivations      uint64 `json:"motivations"`
	SuperMotivations uint64 `json:"super_motivations"`
}

type Profile struct {
	Account   string    `json:"account"`
	URI       string    `json:"uri"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Settings struct {
	Owner           string `json:"owner"`
	Treasury        string `json:"treasury"`
	FeePercent      uint32 `json:"fee_percent"`
	Paused          bool   `json:"paused"`
	ProfileRequired bool   `json:"profile_required"`
	MessagePolicy   string `json:"message_policy"`
}

// Event is one journal entry.
type Event struct {
	Seq        uint64          `json:"seq"`
	GoalID     uint64          `json:"goal_id,omitempty"`
	Type       string          `json:"type"`
	Timestamp  time.Time       `json:"timestamp"`
	ActorID    string          `json:"actor_id,omitempty"`
	RequestID  string          `json:"request_id,omitempty"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

type SetGoalRequest struct {
	Description    string   `json:"description"`
	Stake          uint64   `json:"stake"`
	AttachedFunds  uint64   `json:"attached_funds"`
	Deadline       int64    `json:"deadline"`
	Requirement    string   `json:"requirement,omitempty"`
	EvidenceKeys   []string `json:"evidence_keys,omitempty"`
	EvidenceValues []string `json:"evidence_values,omitempty"`
}

type SetGoalResponse struct {
	GoalID uint64 `json:"goal_id"`
}

type PostProofRequest struct {
	GoalID uint64 `json:"goal_id"`
	URI    string `json:"uri"`
}

type AddVerificationDataRequest struct {
	GoalID uint64   `json:"goal_id"`
	Keys   []string `json:"keys"`
	Values []string `json:"values"`
}

type AddVerificationDataResponse struct {
	Outcome string `json:"outcome"`
}

type CloseRequest struct {
	GoalID uint64 `json:"goal_id"`
}

type CloseAsAchievedRequest struct {
	GoalID   uint64 `json:"goal_id"`
	ProofURI string `json:"proof_uri"`
}

// Settlement is the result of closing a goal.
type Settlement struct {
	GoalID   uint64   `json:"goal_id"`
	Achieved bool     `json:"achieved"`
	Payouts  []Payout `json:"payouts"`
}

type JoinRequest struct {
	GoalID       uint64 `json:"goal_id"`
	ExtraDataURI string `json:"extra_data_uri,omitempty"`
}

type AcceptRequest struct {
	GoalID  uint64 `json:"goal_id"`
	Account string `json:"account"`
}

type PostMessageRequest struct {
	GoalID       uint64 `json:"goal_id"`
	ExtraDataURI string `json:"extra_data_uri"`
}

type PostMessageResponse struct {
	Index uint64 `json:"index"`
}

type EvaluateMessageRequest struct {
	GoalID          uint64 `json:"goal_id"`
	Index           uint64 `json:"index"`
	Motivating      bool   `json:"motivating"`
	SuperMotivating bool   `json:"super_motivating"`
}

type SetProfileRequest struct {
	URI string `json:"uri"`
}

type SetFeePercentRequest struct {
	FeePercent uint32 `json:"fee_percent"`
}

type SetTreasuryAccountRequest struct {
	Account string `json:"account"`
}

type SetProfileGateRequest struct {
	Required bool `json:"required"`
}

type SetMessagePolicyRequest struct {
	Policy string `json:"policy"`
}

type FundAccountRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

type GoalRequest struct {
	GoalID uint64 `json:"goal_id"`
}

type AccountRequest struct {
	Account string `json:"account"`
}

type ListProofsResponse struct {
	Proofs []Proof `json:"proofs"`
}

type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
}

type ListParticipantsResponse struct {
	Participants []Participant `json:"participants"`
}

type BalanceResponse struct {
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
}

type CounterResponse struct {
	Counter uint64 `json:"counter"`
}

// ListGoalsRequest pages goals. Filter is an AIP-160 expression over id,
// author, stake, requirement, status and deadline.
type ListGoalsRequest struct {
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
	Filter    string `json:"filter,omitempty"`
	OrderBy   string `json:"order_by,omitempty"`
}

type ListGoalsResponse struct {
	Goals         []Goal `json:"goals"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

// ListEventsRequest reads the journal after AfterSeq. GoalID 0 reads every goal.
type ListEventsRequest struct {
	GoalID   uint64 `json:"goal_id,omitempty"`
	AfterSeq uint64 `json:"after_seq,omitempty"`
	PageSize int32  `json:"page_size,omitempty"`
}

type ListEventsResponse struct {
	Events []Event `json:"events"`
}
