package ledgerv1

import (
	"context"

	"google.golang.org/grpc"
)

// GoalServiceClient calls GoalService over a client connection.
type GoalServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewGoalServiceClient returns a client bound to cc.
func NewGoalServiceClient(cc grpc.ClientConnInterface) *GoalServiceClient {
	return &GoalServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append(CallOptions(), opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *GoalServiceClient) SetGoal(ctx context.Context, in *SetGoalRequest, opts ...grpc.CallOption) (*SetGoalResponse, error) {
	return invoke[SetGoalResponse](ctx, c.cc, "SetGoal", in, opts)
}

func (c *GoalServiceClient) PostProof(ctx context.Context, in *PostProofRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "PostProof", in, opts)
}

func (c *GoalServiceClient) AddVerificationData(ctx context.Context, in *AddVerificationDataRequest, opts ...grpc.CallOption) (*AddVerificationDataResponse, error) {
	return invoke[AddVerificationDataResponse](ctx, c.cc, "AddVerificationData", in, opts)
}

func (c *GoalServiceClient) Close(ctx context.Context, in *CloseRequest, opts ...grpc.CallOption) (*Settlement, error) {
	return invoke[Settlement](ctx, c.cc, "Close", in, opts)
}

func (c *GoalServiceClient) CloseAsAchieved(ctx context.Context, in *CloseAsAchievedRequest, opts ...grpc.CallOption) (*Settlement, error) {
	return invoke[Settlement](ctx, c.cc, "CloseAsAchieved", in, opts)
}

func (c *GoalServiceClient) CloseAsFailed(ctx context.Context, in *CloseRequest, opts ...grpc.CallOption) (*Settlement, error) {
	return invoke[Settlement](ctx, c.cc, "CloseAsFailed", in, opts)
}

func (c *GoalServiceClient) Watch(ctx context.Context, in *JoinRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "Watch", in, opts)
}

func (c *GoalServiceClient) BecomeMotivator(ctx context.Context, in *JoinRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "BecomeMotivator", in, opts)
}

func (c *GoalServiceClient) AcceptWatcher(ctx context.Context, in *AcceptRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "AcceptWatcher", in, opts)
}

func (c *GoalServiceClient) AcceptMotivator(ctx context.Context, in *AcceptRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "AcceptMotivator", in, opts)
}

func (c *GoalServiceClient) PostMessage(ctx context.Context, in *PostMessageRequest, opts ...grpc.CallOption) (*PostMessageResponse, error) {
	return invoke[PostMessageResponse](ctx, c.cc, "PostMessage", in, opts)
}

func (c *GoalServiceClient) EvaluateMessage(ctx context.Context, in *EvaluateMessageRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "EvaluateMessage", in, opts)
}

func (c *GoalServiceClient) SetProfile(ctx context.Context, in *SetProfileRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "SetProfile", in, opts)
}

func (c *GoalServiceClient) Pause(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "Pause", in, opts)
}

func (c *GoalServiceClient) Unpause(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "Unpause", in, opts)
}

func (c *GoalServiceClient) SetFeePercent(ctx context.Context, in *SetFeePercentRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "SetFeePercent", in, opts)
}

func (c *GoalServiceClient) SetTreasuryAccount(ctx context.Context, in *SetTreasuryAccountRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "SetTreasuryAccount", in, opts)
}

func (c *GoalServiceClient) SetProfileGate(ctx context.Context, in *SetProfileGateRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "SetProfileGate", in, opts)
}

func (c *GoalServiceClient) SetMessagePolicy(ctx context.Context, in *SetMessagePolicyRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "SetMessagePolicy", in, opts)
}

func (c *GoalServiceClient) FundAccount(ctx context.Context, in *FundAccountRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "FundAccount", in, opts)
}

func (c *GoalServiceClient) GetGoal(ctx context.Context, in *GoalRequest, opts ...grpc.CallOption) (*Goal, error) {
	return invoke[Goal](ctx, c.cc, "GetGoal", in, opts)
}

func (c *GoalServiceClient) GetVerificationStatus(ctx context.Context, in *GoalRequest, opts ...grpc.CallOption) (*Verification, error) {
	return invoke[Verification](ctx, c.cc, "GetVerificationStatus", in, opts)
}

func (c *GoalServiceClient) GetProofs(ctx context.Context, in *GoalRequest, opts ...grpc.CallOption) (*ListProofsResponse, error) {
	return invoke[ListProofsResponse](ctx, c.cc, "GetProofs", in, opts)
}

func (c *GoalServiceClient) GetMessages(ctx context.Context, in *GoalRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error) {
	return invoke[ListMessagesResponse](ctx, c.cc, "GetMessages", in, opts)
}

func (c *GoalServiceClient) GetWatchers(ctx context.Context, in *GoalRequest, opts ...grpc.CallOption) (*ListParticipantsResponse, error) {
	return invoke[ListParticipantsResponse](ctx, c.cc, "GetWatchers", in, opts)
}

func (c *GoalServiceClient) GetMotivators(ctx context.Context, in *GoalRequest, opts ...grpc.CallOption) (*ListParticipantsResponse, error) {
	return invoke[ListParticipantsResponse](ctx, c.cc, "GetMotivators", in, opts)
}

func (c *GoalServiceClient) GetEscrow(ctx context.Context, in *GoalRequest, opts ...grpc.CallOption) (*Escrow, error) {
	return invoke[Escrow](ctx, c.cc, "GetEscrow", in, opts)
}

func (c *GoalServiceClient) GetAccountReputation(ctx context.Context, in *AccountRequest, opts ...grpc.CallOption) (*Reputation, error) {
	return invoke[Reputation](ctx, c.cc, "GetAccountReputation", in, opts)
}

func (c *GoalServiceClient) GetMotivatorReputation(ctx context.Context, in *AccountRequest, opts ...grpc.CallOption) (*MotivatorReputation, error) {
	return invoke[MotivatorReputation](ctx, c.cc, "GetMotivatorReputation", in, opts)
}

func (c *GoalServiceClient) GetBalance(ctx context.Context, in *AccountRequest, opts ...grpc.CallOption) (*BalanceResponse, error) {
	return invoke[BalanceResponse](ctx, c.cc, "GetBalance", in, opts)
}

func (c *GoalServiceClient) GetProfile(ctx context.Context, in *AccountRequest, opts ...grpc.CallOption) (*Profile, error) {
	return invoke[Profile](ctx, c.cc, "GetProfile", in, opts)
}

func (c *GoalServiceClient) GetCurrentCounter(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*CounterResponse, error) {
	return invoke[CounterResponse](ctx, c.cc, "GetCurrentCounter", in, opts)
}

func (c *GoalServiceClient) ListGoals(ctx context.Context, in *ListGoalsRequest, opts ...grpc.CallOption) (*ListGoalsResponse, error) {
	return invoke[ListGoalsResponse](ctx, c.cc, "ListGoals", in, opts)
}

func (c *GoalServiceClient) ListEvents(ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption) (*ListEventsResponse, error) {
	return invoke[ListEventsResponse](ctx, c.cc, "ListEvents", in, opts)
}

func (c *GoalServiceClient) GetSettings(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Settings, error) {
	return invoke[Settings](ctx, c.cc, "GetSettings", in, opts)
}
