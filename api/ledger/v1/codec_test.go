package ledgerv1

import (
	"testing"

	"google.golang.org/grpc/encoding"
)

func TestCodecIsRegistered(t *testing.T) {
	codec := encoding.GetCodec(CodecName)
	if codec == nil {
		t.Fatalf("codec %q is not registered", CodecName)
	}
	data, err := codec.Marshal(&SetGoalRequest{Description: "read", Stake: 5, Deadline: 1700000000, EvidenceKeys: []string{"PAGES"}, EvidenceValues: []string{"300"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out SetGoalRequest
	if err := codec.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Description != "read" || out.Stake != 5 || out.EvidenceValues[0] != "300" {
		t.Fatalf("decoded = %+v", out)
	}
}

func TestCodecAcceptsEmptyPayload(t *testing.T) {
	var out Empty
	if err := (jsonCodec{}).Unmarshal(nil, &out); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if err := (jsonCodec{}).Unmarshal([]byte("{"), &out); err == nil {
		t.Fatal("expected error for truncated payload")
	}
}

func TestFullMethod(t *testing.T) {
	if got := FullMethod("SetGoal"); got != "/ledger.v1.GoalService/SetGoal" {
		t.Fatalf("full method = %q", got)
	}
	if len(GoalService_ServiceDesc.Methods) != 35 {
		t.Fatalf("methods = %d", len(GoalService_ServiceDesc.Methods))
	}
}
