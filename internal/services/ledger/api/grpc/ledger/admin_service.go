package ledger

import (
	"context"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Pause blocks non-administrative mutations.
func (s *GoalService) Pause(ctx context.Context, _ *ledgerv1.Empty) (*ledgerv1.Empty, error) {
	if err := s.ledger.Pause(ctx, callerFromContext(ctx)); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Empty{}, nil
}

// Unpause lifts a pause.
func (s *GoalService) Unpause(ctx context.Context, _ *ledgerv1.Empty) (*ledgerv1.Empty, error) {
	if err := s.ledger.Unpause(ctx, callerFromContext(ctx)); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Empty{}, nil
}

func (s *GoalService) SetFeePercent(ctx context.Context, in *ledgerv1.SetFeePercentRequest) (*ledgerv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "set fee percent request is required")
	}
	if err := s.ledger.SetFeePercent(ctx, callerFromContext(ctx), in.FeePercent); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Empty{}, nil
}

func (s *GoalService) SetTreasuryAccount(ctx context.Context, in *ledgerv1.SetTreasuryAccountRequest) (*ledgerv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "set treasury account request is required")
	}
	if err := s.ledger.SetTreasuryAccount(ctx, callerFromContext(ctx), in.Account); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Empty{}, nil
}

func (s *GoalService) SetProfileGate(ctx context.Context, in *ledgerv1.SetProfileGateRequest) (*ledgerv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "set profile gate request is required")
	}
	if err := s.ledger.SetProfileGate(ctx, callerFromContext(ctx), in.Required); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Empty{}, nil
}

func (s *GoalService) SetMessagePolicy(ctx context.Context, in *ledgerv1.SetMessagePolicyRequest) (*ledgerv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "set message policy request is required")
	}
	if err := s.ledger.SetMessagePolicy(ctx, callerFromContext(ctx), in.Policy); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Empty{}, nil
}

// FundAccount credits an account balance.
func (s *GoalService) FundAccount(ctx context.Context, in *ledgerv1.FundAccountRequest) (*ledgerv1.Empty, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "fund account request is required")
	}
	account, err := requireAccount(in.Account)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.FundAccount(ctx, callerFromContext(ctx), account, in.Amount); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Empty{}, nil
}
