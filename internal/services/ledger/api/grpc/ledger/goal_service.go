package ledger

import (
	"context"
	"time"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	"github.com/louisbranch/stakes.space/internal/services/ledger/goalledger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SetGoal creates a goal and locks its stake.
func (s *GoalService) SetGoal(ctx context.Context, in *ledgerv1.SetGoalRequest) (*ledgerv1.SetGoalResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "set goal request is required")
	}
	goalID, err := s.ledger.SetGoal(ctx, callerFromContext(ctx), goalledger.SetGoalInput{
		Description:    in.Description,
		Stake:          in.Stake,
		AttachedFunds:  in.AttachedFunds,
		Deadline:       time.Unix(in.Deadline, 0).UTC(),
		Requirement:    in.Requirement,
		EvidenceKeys:   in.EvidenceKeys,
		EvidenceValues: in.EvidenceValues,
	})
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.SetGoalResponse{GoalID: goalID}, nil
}

// PostProof appends a proof to the caller's goal.
func (s *GoalService) PostProof(ctx context.Context, in *ledgerv1.PostProofRequest) (*ledgerv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "post proof request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	if err := s.ledger.PostProof(ctx, callerFromContext(ctx), in.GoalID, in.URI); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Empty{}, nil
}

// AddVerificationData adds evidence and evaluates the goal's predicate.
func (s *GoalService) AddVerificationData(ctx context.Context, in *ledgerv1.AddVerificationDataRequest) (*ledgerv1.AddVerificationDataResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "add verification data request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	outcome, err := s.ledger.AddVerificationDataAndVerify(ctx, callerFromContext(ctx), in.GoalID, in.Keys, in.Values)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.AddVerificationDataResponse{Outcome: string(outcome)}, nil
}

// Close settles a goal by its deadline state.
func (s *GoalService) Close(ctx context.Context, in *ledgerv1.CloseRequest) (*ledgerv1.Settlement, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "close request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	result, err := s.ledger.Close(ctx, callerFromContext(ctx), in.GoalID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return settlementToProto(result), nil
}

// CloseAsAchieved posts a final proof and settles the goal as achieved.
func (s *GoalService) CloseAsAchieved(ctx context.Context, in *ledgerv1.CloseAsAchievedRequest) (*ledgerv1.Settlement, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "close as achieved request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	result, err := s.ledger.CloseAsAchieved(ctx, callerFromContext(ctx), in.GoalID, in.ProofURI)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return settlementToProto(result), nil
}

// CloseAsFailed settles an expired goal without qualifying evidence.
func (s *GoalService) CloseAsFailed(ctx context.Context, in *ledgerv1.CloseRequest) (*ledgerv1.Settlement, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "close as failed request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	result, err := s.ledger.CloseAsFailed(ctx, callerFromContext(ctx), in.GoalID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return settlementToProto(result), nil
}

// Watch joins a goal as a watcher.
func (s *GoalService) Watch(ctx context.Context, in *ledgerv1.JoinRequest) (*ledgerv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "watch request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	if err := s.ledger.Watch(ctx, callerFromContext(ctx), in.GoalID, in.ExtraDataURI); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Empty{}, nil
}

// BecomeMotivator joins a goal as a motivator.
func (s *GoalService) BecomeMotivator(ctx context.Context, in *ledgerv1.JoinRequest) (*ledgerv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "become motivator request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	if err := s.ledger.BecomeMotivator(ctx, callerFromContext(ctx), in.GoalID, in.ExtraDataURI); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Empty{}, nil
}

// AcceptWatcher accepts a watcher on the caller's goal.
func (s *GoalService) AcceptWatcher(ctx context.Context, in *ledgerv1.AcceptRequest) (*ledgerv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "accept watcher request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	account, err := requireAccount(in.Account)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.AcceptWatcher(ctx, callerFromContext(ctx), in.GoalID, account); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Empty{}, nil
}

// AcceptMotivator accepts a motivator on the caller's goal.
func (s *GoalService) AcceptMotivator(ctx context.Context, in *ledgerv1.AcceptRequest) (*ledgerv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "accept motivator request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	account, err := requireAccount(in.Account)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.AcceptMotivator(ctx, callerFromContext(ctx), in.GoalID, account); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Empty{}, nil
}

// PostMessage posts to a goal's message board.
func (s *GoalService) PostMessage(ctx context.Context, in *ledgerv1.PostMessageRequest) (*ledgerv1.PostMessageResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "post message request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	index, err := s.ledger.PostMessage(ctx, callerFromContext(ctx), in.GoalID, in.ExtraDataURI)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.PostMessageResponse{Index: index}, nil
}

// EvaluateMessage records the author's verdict on a message.
func (s *GoalService) EvaluateMessage(ctx context.Context, in *ledgerv1.EvaluateMessageRequest) (*ledgerv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "evaluate message request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	if err := s.ledger.EvaluateMessage(ctx, callerFromContext(ctx), in.GoalID, in.Index, in.Motivating, in.SuperMotivating); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Empty{}, nil
}

// SetProfile sets the caller's profile URI.
func (s *GoalService) SetProfile(ctx context.Context, in *ledgerv1.SetProfileRequest) (*ledgerv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "set profile request is required")
	}
	if err := s.ledger.SetProfile(ctx, callerFromContext(ctx), in.URI); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Empty{}, nil
}
