package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeNotAuthor                      = "NOT_AUTHOR"
	CodeNotOwner                       = "NOT_OWNER"
	CodeNotAuthorNotAcceptedMotivator  = "NOT_AUTHOR_NOT_ACCEPTED_MOTIVATOR"
	CodeCallerRequired                 = "CALLER_REQUIRED"
	CodeNotFound                       = "NOT_FOUND"
	CodeGoalNotFound                   = "GOAL_NOT_FOUND"
	CodeParticipantNotFound            = "PARTICIPANT_NOT_FOUND"
	CodeMessageNotFound                = "MESSAGE_NOT_FOUND"
	CodeGoalAlreadyClosed              = "GOAL_ALREADY_CLOSED"
	CodeGoalDeadlineNotPassed          = "GOAL_DEADLINE_NOT_PASSED"
	CodeGoalDeadlinePassed             = "GOAL_DEADLINE_PASSED"
	CodeGoalHasQualifyingEvidence      = "GOAL_HAS_QUALIFYING_EVIDENCE"
	CodePaused                         = "PAUSED"
	CodeProfileRequired                = "PROFILE_REQUIRED"
	CodeAlreadyParticipant             = "ALREADY_PARTICIPANT"
	CodeAuthorCannotParticipate        = "AUTHOR_CANNOT_PARTICIPATE"
	CodeParticipantAlreadyAccepted     = "PARTICIPANT_ALREADY_ACCEPTED"
	CodeParticipantRoleMismatch        = "PARTICIPANT_ROLE_MISMATCH"
	CodeMessageAlreadyEvaluated        = "MESSAGE_ALREADY_EVALUATED"
	CodeAuthorCannotEvaluateOwnMsg     = "AUTHOR_CANNOT_EVALUATE_OWN_MESSAGE"
	CodeVerificationNotConfigured      = "VERIFICATION_NOT_CONFIGURED"
	CodeVerificationAlreadyDecided     = "VERIFICATION_ALREADY_DECIDED"
	CodeEvidenceKeyExists              = "EVIDENCE_KEY_EXISTS"
	CodeEscrowAlreadyReleased          = "ESCROW_ALREADY_RELEASED"
	CodeUnknownVerificationRequirement = "UNKNOWN_VERIFICATION_REQUIREMENT"
	CodeStakeZero                      = "STAKE_ZERO"
	CodeStakeMismatch                  = "STAKE_MISMATCH"
	CodeInsufficientBalance            = "INSUFFICIENT_BALANCE"
	CodeDistributionMismatch           = "DISTRIBUTION_MISMATCH"
	CodeAmountOverflow                 = "AMOUNT_OVERFLOW"
	CodeGoalNotAchievable              = "GOAL_NOT_ACHIEVABLE"
	CodeVerificationPending            = "VERIFICATION_PENDING"
	CodeDeadlineNotInFuture            = "DEADLINE_NOT_IN_FUTURE"
	CodeEvidenceInvalid                = "EVIDENCE_INVALID"
	CodeFeePercentInvalid              = "FEE_PERCENT_INVALID"
	CodeAccountInvalid                 = "ACCOUNT_INVALID"
	CodeURIEmpty                       = "URI_EMPTY"
	CodeMessagePolicyInvalid           = "MESSAGE_POLICY_INVALID"
	CodeFilterInvalid                  = "FILTER_INVALID"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Authorization errors
		CodeNotAuthor:                     "Only the goal author can do this",
		CodeNotOwner:                      "Only the ledger owner can do this",
		CodeNotAuthorNotAcceptedMotivator: "Only the goal author and accepted motivators can post messages",
		CodeCallerRequired:                "A caller account is required",

		// Lookup errors
		CodeNotFound:            "The requested resource was not found",
		CodeGoalNotFound:        "Goal {{.GoalID}} was not found",
		CodeParticipantNotFound: "Account {{.Account}} is not a participant of goal {{.GoalID}}",
		CodeMessageNotFound:     "Message {{.Index}} does not exist on goal {{.GoalID}}",

		// Goal state errors
		CodeGoalAlreadyClosed:              "Goal {{.GoalID}} is already closed",
		CodeGoalDeadlineNotPassed:          "Goal deadline has not passed yet",
		CodeGoalDeadlinePassed:             "Goal deadline has already passed",
		CodeGoalHasQualifyingEvidence:      "Goal has qualifying evidence and settles as achieved",
		CodePaused:                         "The ledger is paused",
		CodeProfileRequired:                "A profile is required to set a goal",
		CodeAlreadyParticipant:             "Account is already a participant of this goal",
		CodeAuthorCannotParticipate:        "The goal author cannot participate in their own goal",
		CodeParticipantAlreadyAccepted:     "Participant is already accepted",
		CodeParticipantRoleMismatch:        "Participant has role {{.Role}}",
		CodeMessageAlreadyEvaluated:        "Message is already evaluated",
		CodeAuthorCannotEvaluateOwnMsg:     "The goal author cannot evaluate their own message",
		CodeVerificationNotConfigured:      "Goal has no verification requirement",
		CodeVerificationAlreadyDecided:     "Goal verification is already decided",
		CodeEvidenceKeyExists:              "Evidence key {{.Key}} already exists",
		CodeEscrowAlreadyReleased:          "Escrow for this goal is already released",
		CodeUnknownVerificationRequirement: "Verification requirement {{.Requirement}} is not registered",

		// Amount errors
		CodeStakeZero:            "Stake must be greater than zero",
		CodeStakeMismatch:        "Attached funds must equal the stake",
		CodeInsufficientBalance:  "Balance is not enough to cover {{.Amount}}",
		CodeDistributionMismatch: "Payout distribution does not match the locked amount",
		CodeAmountOverflow:       "Amount is too large",

		// Settlement timing errors
		CodeGoalNotAchievable:   "Goal cannot be closed as achieved without qualifying evidence",
		CodeVerificationPending: "Verification is still pending",

		// Argument errors
		CodeDeadlineNotInFuture:  "Deadline must be in the future",
		CodeEvidenceInvalid:      "Evidence is invalid",
		CodeFeePercentInvalid:    "Fee percent must be between 0 and 100",
		CodeAccountInvalid:       "Account identifier is invalid",
		CodeURIEmpty:             "URI cannot be empty",
		CodeMessagePolicyInvalid: "Message policy is invalid",
		CodeFilterInvalid:        "Filter expression is invalid",
	},
}
