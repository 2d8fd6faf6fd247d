// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Authorization errors
	CodeNotAuthor                     Code = "NOT_AUTHOR"
	CodeNotOwner                      Code = "NOT_OWNER"
	CodeNotAuthorNotAcceptedMotivator Code = "NOT_AUTHOR_NOT_ACCEPTED_MOTIVATOR"
	CodeCallerRequired                Code = "CALLER_REQUIRED"

	// Lookup errors
	CodeNotFound            Code = "NOT_FOUND"
	CodeGoalNotFound        Code = "GOAL_NOT_FOUND"
	CodeParticipantNotFound Code = "PARTICIPANT_NOT_FOUND"
	CodeMessageNotFound     Code = "MESSAGE_NOT_FOUND"

	// Goal state errors
	CodeGoalAlreadyClosed              Code = "GOAL_ALREADY_CLOSED"
	CodeGoalDeadlineNotPassed          Code = "GOAL_DEADLINE_NOT_PASSED"
	CodeGoalDeadlinePassed             Code = "GOAL_DEADLINE_PASSED"
	CodeGoalHasQualifyingEvidence      Code = "GOAL_HAS_QUALIFYING_EVIDENCE"
	CodePaused                         Code = "PAUSED"
	CodeProfileRequired                Code = "PROFILE_REQUIRED"
	CodeAlreadyParticipant             Code = "ALREADY_PARTICIPANT"
	CodeAuthorCannotParticipate        Code = "AUTHOR_CANNOT_PARTICIPATE"
	CodeParticipantAlreadyAccepted     Code = "PARTICIPANT_ALREADY_ACCEPTED"
	CodeParticipantRoleMismatch        Code = "PARTICIPANT_ROLE_MISMATCH"
	CodeMessageAlreadyEvaluated        Code = "MESSAGE_ALREADY_EVALUATED"
	CodeAuthorCannotEvaluateOwnMsg     Code = "AUTHOR_CANNOT_EVALUATE_OWN_MESSAGE"
	CodeVerificationNotConfigured      Code = "VERIFICATION_NOT_CONFIGURED"
	CodeVerificationAlreadyDecided     Code = "VERIFICATION_ALREADY_DECIDED"
	CodeEvidenceKeyExists              Code = "EVIDENCE_KEY_EXISTS"
	CodeEscrowAlreadyReleased          Code = "ESCROW_ALREADY_RELEASED"
	CodeUnknownVerificationRequirement Code = "UNKNOWN_VERIFICATION_REQUIREMENT"

	// Amount errors
	CodeStakeZero            Code = "STAKE_ZERO"
	CodeStakeMismatch        Code = "STAKE_MISMATCH"
	CodeInsufficientBalance  Code = "INSUFFICIENT_BALANCE"
	CodeDistributionMismatch Code = "DISTRIBUTION_MISMATCH"
	CodeAmountOverflow       Code = "AMOUNT_OVERFLOW"

	// Settlement timing errors
	CodeGoalNotAchievable   Code = "GOAL_NOT_ACHIEVABLE"
	CodeVerificationPending Code = "VERIFICATION_PENDING"

	// Argument errors
	CodeDeadlineNotInFuture  Code = "DEADLINE_NOT_IN_FUTURE"
	CodeEvidenceInvalid      Code = "EVIDENCE_INVALID"
	CodeFeePercentInvalid    Code = "FEE_PERCENT_INVALID"
	CodeAccountInvalid       Code = "ACCOUNT_INVALID"
	CodeURIEmpty             Code = "URI_EMPTY"
	CodeMessagePolicyInvalid Code = "MESSAGE_POLICY_INVALID"
	CodeFilterInvalid        Code = "FILTER_INVALID"
)

// Kind groups codes into the caller-facing failure taxonomy.
type Kind string

const (
	KindUnauthorized     Kind = "UNAUTHORIZED"
	KindNotFound         Kind = "NOT_FOUND"
	KindInvalidState     Kind = "INVALID_STATE"
	KindInvalidAmount    Kind = "INVALID_AMOUNT"
	KindNotYetSettleable Kind = "NOT_YET_SETTLEABLE"
	KindInvalidArgument  Kind = "INVALID_ARGUMENT"
	KindInternal         Kind = "INTERNAL"
)

// Kind reports the taxonomy bucket for a code.
func (c Code) Kind() Kind {
	switch c {
	case CodeNotAuthor,
		CodeNotOwner,
		CodeNotAuthorNotAcceptedMotivator,
		CodeCallerRequired:
		return KindUnauthorized

	case CodeNotFound,
		CodeGoalNotFound,
		CodeParticipantNotFound,
		CodeMessageNotFound:
		return KindNotFound

	case CodeGoalAlreadyClosed,
		CodeGoalDeadlineNotPassed,
		CodeGoalDeadlinePassed,
		CodeGoalHasQualifyingEvidence,
		CodePaused,
		CodeProfileRequired,
		CodeAlreadyParticipant,
		CodeAuthorCannotParticipate,
		CodeParticipantAlreadyAccepted,
		CodeParticipantRoleMismatch,
		CodeMessageAlreadyEvaluated,
		CodeAuthorCannotEvaluateOwnMsg,
		CodeVerificationNotConfigured,
		CodeVerificationAlreadyDecided,
		CodeEvidenceKeyExists,
		CodeEscrowAlreadyReleased:
		return KindInvalidState

	case CodeStakeZero,
		CodeStakeMismatch,
		CodeInsufficientBalance,
		CodeDistributionMismatch,
		CodeAmountOverflow:
		return KindInvalidAmount

	case CodeGoalNotAchievable,
		CodeVerificationPending:
		return KindNotYetSettleable

	case CodeDeadlineNotInFuture,
		CodeEvidenceInvalid,
		CodeFeePercentInvalid,
		CodeAccountInvalid,
		CodeURIEmpty,
		CodeMessagePolicyInvalid,
		CodeFilterInvalid,
		CodeUnknownVerificationRequirement:
		return KindInvalidArgument

	default:
		return KindInternal
	}
}

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c.Kind() {
	// PermissionDenied - caller lacks the role for the operation
	case KindUnauthorized:
		if c == CodeCallerRequired {
			return codes.Unauthenticated
		}
		return codes.PermissionDenied

	// NotFound - resource doesn't exist
	case KindNotFound:
		return codes.NotFound

	// FailedPrecondition - state doesn't allow operation
	case KindInvalidState, KindNotYetSettleable:
		if c == CodeAlreadyParticipant {
			return codes.AlreadyExists
		}
		return codes.FailedPrecondition

	// InvalidArgument - validation failures, bad input
	case KindInvalidAmount, KindInvalidArgument:
		return codes.InvalidArgument

	default:
		return codes.Internal
	}
}
