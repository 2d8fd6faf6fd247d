package profile

import (
	"encoding/json"
	"testing"
	"time"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/command"
)

func TestDecideSet(t *testing.T) {
	now := time.Unix(100, 0)
	data, _ := json.Marshal(SetPayload{URI: " ipfs://me "})

	decision := DecideSet(command.Command{Type: CommandTypeSet, PayloadJSON: data}, now)
	if !apperrors.IsCode(decision.Err(), apperrors.CodeCallerRequired) {
		t.Fatalf("expected CALLER_REQUIRED, got %v", decision.Err())
	}

	empty, _ := json.Marshal(SetPayload{})
	decision = DecideSet(command.Command{Type: CommandTypeSet, ActorID: "alice", PayloadJSON: empty}, now)
	if !apperrors.IsCode(decision.Err(), apperrors.CodeURIEmpty) {
		t.Fatalf("expected URI_EMPTY, got %v", decision.Err())
	}

	decision = DecideSet(command.Command{Type: CommandTypeSet, ActorID: "alice", PayloadJSON: data}, now)
	if err := decision.Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	var payload SetPayload
	if err := json.Unmarshal(decision.Events[0].PayloadJSON, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.URI != "ipfs://me" || decision.Events[0].EntityID != "alice" {
		t.Fatalf("event = %+v", decision.Events[0])
	}
}
