package ledgerv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "ledger.v1.GoalService"

// FullMethod returns the gRPC method path for a GoalService method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// GoalServiceServer is the server API for GoalService.
type GoalServiceServer interface {
	// SetGoal creates a goal and locks its stake.
	SetGoal(context.Context, *SetGoalRequest) (*SetGoalResponse, error)
	// PostProof appends a proof to the caller's goal.
	PostProof(context.Context, *PostProofRequest) (*Empty, error)
	// AddVerificationData adds evidence and evaluates the goal's predicate.
	AddVerificationData(context.Context, *AddVerificationDataRequest) (*AddVerificationDataResponse, error)
	// Close settles a goal by its deadline state.
	Close(context.Context, *CloseRequest) (*Settlement, error)
	// CloseAsAchieved posts a final proof and settles as achieved.
	CloseAsAchieved(context.Context, *CloseAsAchievedRequest) (*Settlement, error)
	// CloseAsFailed settles an expired goal without qualifying evidence.
	CloseAsFailed(context.Context, *CloseRequest) (*Settlement, error)
	// Watch joins a goal as a watcher.
	Watch(context.Context, *JoinRequest) (*Empty, error)
	// BecomeMotivator joins a goal as a motivator.
	BecomeMotivator(context.Context, *JoinRequest) (*Empty, error)
	// AcceptWatcher accepts a watcher on the caller's goal.
	AcceptWatcher(context.Context, *AcceptRequest) (*Empty, error)
	// AcceptMotivator accepts a motivator on the caller's goal.
	AcceptMotivator(context.Context, *AcceptRequest) (*Empty, error)
	// PostMessage posts to a goal's message board.
	PostMessage(context.Context, *PostMessageRequest) (*PostMessageResponse, error)
	// EvaluateMessage records the author's verdict on a message.
	EvaluateMessage(context.Context, *EvaluateMessageRequest) (*Empty, error)
	// SetProfile sets the caller's profile URI.
	SetProfile(context.Context, *SetProfileRequest) (*Empty, error)
	Pause(context.Context, *Empty) (*Empty, error)
	Unpause(context.Context, *Empty) (*Empty, error)
	SetFeePercent(context.Context, *SetFeePercentRequest) (*Empty, error)
	SetTreasuryAccount(context.Context, *SetTreasuryAccountRequest) (*Empty, error)
	SetProfileGate(context.Context, *SetProfileGateRequest) (*Empty, error)
	SetMessagePolicy(context.Context, *SetMessagePolicyRequest) (*Empty, error)
	FundAccount(context.Context, *FundAccountRequest) (*Empty, error)
	GetGoal(context.Context, *GoalRequest) (*Goal, error)
	GetVerificationStatus(context.Context, *GoalRequest) (*Verification, error)
	GetProofs(context.Context, *GoalRequest) (*ListProofsResponse, error)
	GetMessages(context.Context, *GoalRequest) (*ListMessagesResponse, error)
	GetWatchers(context.Context, *GoalRequest) (*ListParticipantsResponse, error)
	GetMotivators(context.Context, *GoalRequest) (*ListParticipantsResponse, error)
	GetEscrow(context.Context, *GoalRequest) (*Escrow, error)
	GetAccountReputation(context.Context, *AccountRequest) (*Reputation, error)
	GetMotivatorReputation(context.Context, *AccountRequest) (*MotivatorReputation, error)
	GetBalance(context.Context, *AccountRequest) (*BalanceResponse, error)
	GetProfile(context.Context, *AccountRequest) (*Profile, error)
	GetCurrentCounter(context.Context, *Empty) (*CounterResponse, error)
	ListGoals(context.Context, *ListGoalsRequest) (*ListGoalsResponse, error)
	ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error)
	GetSettings(context.Context, *Empty) (*Settings, error)
}

// UnimplementedGoalServiceServer returns Unimplemented for every method.
type UnimplementedGoalServiceServer struct{}

func (UnimplementedGoalServiceServer) SetGoal(context.Context, *SetGoalRequest) (*SetGoalResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetGoal not implemented")
}

func (UnimplementedGoalServiceServer) PostProof(context.Context, *PostProofRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method PostProof not implemented")
}

func (UnimplementedGoalServiceServer) AddVerificationData(context.Context, *AddVerificationDataRequest) (*AddVerificationDataResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddVerificationData not implemented")
}

func (UnimplementedGoalServiceServer) Close(context.Context, *CloseRequest) (*Settlement, error) {
	return nil, status.Error(codes.Unimplemented, "method Close not implemented")
}

func (UnimplementedGoalServiceServer) CloseAsAchieved(context.Context, *CloseAsAchievedRequest) (*Settlement, error) {
	return nil, status.Error(codes.Unimplemented, "method CloseAsAchieved not implemented")
}

func (UnimplementedGoalServiceServer) CloseAsFailed(context.Context, *CloseRequest) (*Settlement, error) {
	return nil, status.Error(codes.Unimplemented, "method CloseAsFailed not implemented")
}

func (UnimplementedGoalServiceServer) Watch(context.Context, *JoinRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Watch not implemented")
}

func (UnimplementedGoalServiceServer) BecomeMotivator(context.Context, *JoinRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method BecomeMotivator not implemented")
}

func (UnimplementedGoalServiceServer) AcceptWatcher(context.Context, *AcceptRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method AcceptWatcher not implemented")
}

func (UnimplementedGoalServiceServer) AcceptMotivator(context.Context, *AcceptRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method AcceptMotivator not implemented")
}

func (UnimplementedGoalServiceServer) PostMessage(context.Context, *PostMessageRequest) (*PostMessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PostMessage not implemented")
}

func (UnimplementedGoalServiceServer) EvaluateMessage(context.Context, *EvaluateMessageRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method EvaluateMessage not implemented")
}

func (UnimplementedGoalServiceServer) SetProfile(context.Context, *SetProfileRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SetProfile not implemented")
}

func (UnimplementedGoalServiceServer) Pause(context.Context, *Empty) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Pause not implemented")
}

func (UnimplementedGoalServiceServer) Unpause(context.Context, *Empty) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Unpause not implemented")
}

func (UnimplementedGoalServiceServer) SetFeePercent(context.Context, *SetFeePercentRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SetFeePercent not implemented")
}

func (UnimplementedGoalServiceServer) SetTreasuryAccount(context.Context, *SetTreasuryAccountRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SetTreasuryAccount not implemented")
}

func (UnimplementedGoalServiceServer) SetProfileGate(context.Context, *SetProfileGateRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SetProfileGate not implemented")
}

func (UnimplementedGoalServiceServer) SetMessagePolicy(context.Context, *SetMessagePolicyRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SetMessagePolicy not implemented")
}

func (UnimplementedGoalServiceServer) FundAccount(context.Context, *FundAccountRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method FundAccount not implemented")
}

func (UnimplementedGoalServiceServer) GetGoal(context.Context, *GoalRequest) (*Goal, error) {
	return nil, status.Error(codes.Unimplemented, "method GetGoal not implemented")
}

func (UnimplementedGoalServiceServer) GetVerificationStatus(context.Context, *GoalRequest) (*Verification, error) {
	return nil, status.Error(codes.Unimplemented, "method GetVerificationStatus not implemented")
}

func (UnimplementedGoalServiceServer) GetProofs(context.Context, *GoalRequest) (*ListProofsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProofs not implemented")
}

func (UnimplementedGoalServiceServer) GetMessages(context.Context, *GoalRequest) (*ListMessagesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMessages not implemented")
}

func (UnimplementedGoalServiceServer) GetWatchers(context.Context, *GoalRequest) (*ListParticipantsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetWatchers not implemented")
}

func (UnimplementedGoalServiceServer) GetMotivators(context.Context, *GoalRequest) (*ListParticipantsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMotivators not implemented")
}

func (UnimplementedGoalServiceServer) GetEscrow(context.Context, *GoalRequest) (*Escrow, error) {
	return nil, status.Error(codes.Unimplemented, "method GetEscrow not implemented")
}

func (UnimplementedGoalServiceServer) GetAccountReputation(context.Context, *AccountRequest) (*Reputation, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAccountReputation not implemented")
}

func (UnimplementedGoalServiceServer) GetMotivatorReputation(context.Context, *AccountRequest) (*MotivatorReputation, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMotivatorReputation not implemented")
}

func (UnimplementedGoalServiceServer) GetBalance(context.Context, *AccountRequest) (*BalanceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetBalance not implemented")
}

func (UnimplementedGoalServiceServer) GetProfile(context.Context, *AccountRequest) (*Profile, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProfile not implemented")
}

func (UnimplementedGoalServiceServer) GetCurrentCounter(context.Context, *Empty) (*CounterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCurrentCounter not implemented")
}

func (UnimplementedGoalServiceServer) ListGoals(context.Context, *ListGoalsRequest) (*ListGoalsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListGoals not implemented")
}

func (UnimplementedGoalServiceServer) ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListEvents not implemented")
}

func (UnimplementedGoalServiceServer) GetSettings(context.Context, *Empty) (*Settings, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSettings not implemented")
}

// RegisterGoalServiceServer registers srv on s.
func RegisterGoalServiceServer(s grpc.ServiceRegistrar, srv GoalServiceServer) {
	s.RegisterService(&GoalService_ServiceDesc, srv)
}

// GoalService_ServiceDesc describes GoalService for grpc.Server.
var GoalService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GoalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("SetGoal", GoalServiceServer.SetGoal),
		unaryMethod("PostProof", GoalServiceServer.PostProof),
		unaryMethod("AddVerificationData", GoalServiceServer.AddVerificationData),
		unaryMethod("Close", GoalServiceServer.Close),
		unaryMethod("CloseAsAchieved", GoalServiceServer.CloseAsAchieved),
		unaryMethod("CloseAsFailed", GoalServiceServer.CloseAsFailed),
		unaryMethod("Watch", GoalServiceServer.Watch),
		unaryMethod("BecomeMotivator", GoalServiceServer.BecomeMotivator),
		unaryMethod("AcceptWatcher", GoalServiceServer.AcceptWatcher),
		unaryMethod("AcceptMotivator", GoalServiceServer.AcceptMotivator),
		unaryMethod("PostMessage", GoalServiceServer.PostMessage),
		unaryMethod("EvaluateMessage", GoalServiceServer.EvaluateMessage),
		unaryMethod("SetProfile", GoalServiceServer.SetProfile),
		unaryMethod("Pause", GoalServiceServer.Pause),
		unaryMethod("Unpause", GoalServiceServer.Unpause),
		unaryMethod("SetFeePercent", GoalServiceServer.SetFeePercent),
		unaryMethod("SetTreasuryAccount", GoalServiceServer.SetTreasuryAccount),
		unaryMethod("SetProfileGate", GoalServiceServer.SetProfileGate),
		unaryMethod("SetMessagePolicy", GoalServiceServer.SetMessagePolicy),
		unaryMethod("FundAccount", GoalServiceServer.FundAccount),
		unaryMethod("GetGoal", GoalServiceServer.GetGoal),
		unaryMethod("GetVerificationStatus", GoalServiceServer.GetVerificationStatus),
		unaryMethod("GetProofs", GoalServiceServer.GetProofs),
		unaryMethod("GetMessages", GoalServiceServer.GetMessages),
		unaryMethod("GetWatchers", GoalServiceServer.GetWatchers),
		unaryMethod("GetMotivators", GoalServiceServer.GetMotivators),
		unaryMethod("GetEscrow", GoalServiceServer.GetEscrow),
		unaryMethod("GetAccountReputation", GoalServiceServer.GetAccountReputation),
		unaryMethod("GetMotivatorReputation", GoalServiceServer.GetMotivatorReputation),
		unaryMethod("GetBalance", GoalServiceServer.GetBalance),
		unaryMethod("GetProfile", GoalServiceServer.GetProfile),
		unaryMethod("GetCurrentCounter", GoalServiceServer.GetCurrentCounter),
		unaryMethod("ListGoals", GoalServiceServer.ListGoals),
		unaryMethod("ListEvents", GoalServiceServer.ListEvents),
		unaryMethod("GetSettings", GoalServiceServer.GetSettings),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledger/v1/goal_service.proto",
}

func unaryMethod[Req, Resp any](name string, call func(GoalServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(GoalServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(GoalServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
