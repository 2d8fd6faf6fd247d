package projection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
)

type handler func(Applier, context.Context, event.Event) error

// router dispatches events by type to typed handlers.
type router struct {
	handlers map[event.Type]handler
	types    []event.Type
}

func newRouter() *router {
	return &router{handlers: make(map[event.Type]handler)}
}

func (r *router) route(a Applier, ctx context.Context, evt event.Event) error {
	h, ok := r.handlers[evt.Type]
	if !ok {
		return fmt.Errorf("unhandled projection event type: %s", evt.Type)
	}
	return h(a, ctx, evt)
}

// handle registers a handler that receives the decoded payload.
func handle[P any](r *router, t event.Type, fn func(Applier, context.Context, event.Event, P) error) {
	r.handlers[t] = func(a Applier, ctx context.Context, evt event.Event) error {
		var payload P
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", t, err)
		}
		return fn(a, ctx, evt, payload)
	}
	r.types = append(r.types, t)
}

// handleRaw registers a handler that needs only the envelope.
func handleRaw(r *router, t event.Type, fn func(Applier, context.Context, event.Event) error) {
	r.handlers[t] = fn
	r.types = append(r.types, t)
}
