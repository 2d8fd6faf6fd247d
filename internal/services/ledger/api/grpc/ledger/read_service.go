package ledger

import (
	"context"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	"github.com/louisbranch/stakes.space/internal/platform/grpc/pagination"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GetGoal returns a goal's parameters and status.
func (s *GoalService) GetGoal(ctx context.Context, in *ledgerv1.GoalRequest) (*ledgerv1.Goal, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get goal request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	record, err := s.ledger.GetParams(ctx, in.GoalID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	goal := goalToProto(record)
	return &goal, nil
}

func (s *GoalService) GetVerificationStatus(ctx context.Context, in *ledgerv1.GoalRequest) (*ledgerv1.Verification, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get verification status request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	record, err := s.ledger.GetVerificationStatus(ctx, in.GoalID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return verificationToProto(record), nil
}

func (s *GoalService) GetProofs(ctx context.Context, in *ledgerv1.GoalRequest) (*ledgerv1.ListProofsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get proofs request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	records, err := s.ledger.GetProofs(ctx, in.GoalID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.ListProofsResponse{Proofs: mapSlice(records, proofToProto)}, nil
}

func (s *GoalService) GetMessages(ctx context.Context, in *ledgerv1.GoalRequest) (*ledgerv1.ListMessagesResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get messages request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	records, err := s.ledger.GetMessages(ctx, in.GoalID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.ListMessagesResponse{Messages: mapSlice(records, messageToProto)}, nil
}

func (s *GoalService) GetWatchers(ctx context.Context, in *ledgerv1.GoalRequest) (*ledgerv1.ListParticipantsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get watchers request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	records, err := s.ledger.GetWatchers(ctx, in.GoalID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.ListParticipantsResponse{Participants: mapSlice(records, participantToProto)}, nil
}

func (s *GoalService) GetMotivators(ctx context.Context, in *ledgerv1.GoalRequest) (*ledgerv1.ListParticipantsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get motivators request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	records, err := s.ledger.GetMotivators(ctx, in.GoalID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.ListParticipantsResponse{Participants: mapSlice(records, participantToProto)}, nil
}

func (s *GoalService) GetEscrow(ctx context.Context, in *ledgerv1.GoalRequest) (*ledgerv1.Escrow, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get escrow request is required")
	}
	if err := requireGoalID(in.GoalID); err != nil {
		return nil, err
	}
	record, err := s.ledger.GetEscrow(ctx, in.GoalID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Escrow{GoalID: in.GoalID, Locked: record.Locked, Released: record.Released}, nil
}

func (s *GoalService) GetAccountReputation(ctx context.Context, in *ledgerv1.AccountRequest) (*ledgerv1.Reputation, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get account reputation request is required")
	}
	account, err := requireAccount(in.Account)
	if err != nil {
		return nil, err
	}
	rep, err := s.ledger.GetAccountReputation(ctx, account)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Reputation{
		Account:        account,
		AchievedGoals:  rep.AchievedGoals,
		FailedGoals:    rep.FailedGoals,
		MotivatedGoals: rep.MotivatedGoals,
	}, nil
}

func (s *GoalService) GetMotivatorReputation(ctx context.Context, in *ledgerv1.AccountRequest) (*ledgerv1.MotivatorReputation, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get motivator reputation request is required")
	}
	account, err := requireAccount(in.Account)
	if err != nil {
		return nil, err
	}
	rep, err := s.ledger.GetMotivatorReputation(ctx, account)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.MotivatorReputation{
		Account:          account,
		Motivations:      rep.Motivations,
		SuperMotivations: rep.SuperMotivations,
	}, nil
}

func (s *GoalService) GetBalance(ctx context.Context, in *ledgerv1.AccountRequest) (*ledgerv1.BalanceResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get balance request is required")
	}
	account, err := requireAccount(in.Account)
	if err != nil {
		return nil, err
	}
	balance, err := s.ledger.GetBalance(ctx, account)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.BalanceResponse{Account: account, Balance: balance}, nil
}

func (s *GoalService) GetProfile(ctx context.Context, in *ledgerv1.AccountRequest) (*ledgerv1.Profile, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get profile request is required")
	}
	account, err := requireAccount(in.Account)
	if err != nil {
		return nil, err
	}
	record, err := s.ledger.GetProfile(ctx, account)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Profile{Account: record.Account, URI: record.URI, UpdatedAt: record.UpdatedAt}, nil
}

func (s *GoalService) GetCurrentCounter(ctx context.Context, _ *ledgerv1.Empty) (*ledgerv1.CounterResponse, error) {
	counter, err := s.ledger.GetCurrentCounter(ctx)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.CounterResponse{Counter: counter}, nil
}

// ListGoals pages goals in id order.
func (s *GoalService) ListGoals(ctx context.Context, in *ledgerv1.ListGoalsRequest) (*ledgerv1.ListGoalsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list goals request is required")
	}
	if _, err := pagination.NormalizeOrderBy(in.OrderBy, goalOrderBy); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	page, err := s.ledger.ListGoals(ctx, pagination.ClampPageSize(in.PageSize, goalPageSize), in.PageToken, in.Filter)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.ListGoalsResponse{
		Goals:         mapSlice(page.Goals, goalToProto),
		NextPageToken: page.NextPageToken,
	}, nil
}

// ListEvents reads the journal after a sequence number.
func (s *GoalService) ListEvents(ctx context.Context, in *ledgerv1.ListEventsRequest) (*ledgerv1.ListEventsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list events request is required")
	}
	events, err := s.ledger.ListEvents(ctx, in.GoalID, in.AfterSeq, pagination.ClampPageSize(in.PageSize, eventPageSize))
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.ListEventsResponse{Events: mapSlice(events, eventToProto)}, nil
}

func (s *GoalService) GetSettings(ctx context.Context, _ *ledgerv1.Empty) (*ledgerv1.Settings, error) {
	cfg, err := s.ledger.GetSettings(ctx)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return &ledgerv1.Settings{
		Owner:           cfg.Owner,
		Treasury:        cfg.Treasury,
		FeePercent:      uint32(cfg.FeePercent),
		Paused:          cfg.Paused,
		ProfileRequired: cfg.ProfileRequired,
		MessagePolicy:   string(cfg.MessagePolicy),
	}, nil
}
