package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthBackoff controls how WaitForHealthWithBackoff spaces its probes.
type HealthBackoff struct {
	Initial  time.Duration
	Max      time.Duration
	Attempt  time.Duration
	Multiple float64
}

// DefaultHealthBackoff starts at 200ms, doubles up to one second and gives
// each probe one second to answer.
var DefaultHealthBackoff = HealthBackoff{
	Initial:  200 * time.Millisecond,
	Max:      time.Second,
	Attempt:  time.Second,
	Multiple: 2,
}

func (b HealthBackoff) next(current time.Duration) time.Duration {
	if b.Multiple <= 1 {
		return current
	}
	grown := time.Duration(float64(current) * b.Multiple)
	if b.Max > 0 && grown > b.Max {
		return b.Max
	}
	return grown
}

// ErrNoConnection is returned when a health wait is asked to probe a nil
// connection.
var ErrNoConnection = errors.New("gRPC connection is not configured")

// WaitForHealth blocks until service reports SERVING on conn or ctx ends,
// using DefaultHealthBackoff.
func WaitForHealth(ctx context.Context, conn *gogrpc.ClientConn, service string, logf func(string, ...any)) error {
	return WaitForHealthWithBackoff(ctx, conn, service, DefaultHealthBackoff, logf)
}

// WaitForHealthWithBackoff is WaitForHealth with explicit probe spacing.
// Only status changes are logged so a slow ledger does not flood the output.
func WaitForHealthWithBackoff(ctx context.Context, conn *gogrpc.ClientConn, service string, backoff HealthBackoff, logf func(string, ...any)) error {
	if conn == nil {
		return ErrNoConnection
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}

	healthClient := grpc_health_v1.NewHealthClient(conn)
	delay := backoff.Initial
	if delay <= 0 {
		delay = DefaultHealthBackoff.Initial
	}
	attempts := 0
	lastState := ""
	for {
		attempts++
		state, serving := probeHealth(ctx, healthClient, service, backoff.Attempt)
		if serving {
			logf("gRPC health SERVING after %d attempt(s)", attempts)
			return nil
		}
		if ctx.Err() != nil {
			break
		}
		if state != lastState {
			logf("waiting for gRPC health: %s", state)
			lastState = state
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
		if ctx.Err() != nil {
			break
		}
		delay = backoff.next(delay)
	}
	return fmt.Errorf("wait for gRPC health (%s): %w", lastState, ctx.Err())
}

// probeHealth issues one Check and describes the outcome.
func probeHealth(ctx context.Context, client grpc_health_v1.HealthClient, service string, attempt time.Duration) (string, bool) {
	callCtx := ctx
	if attempt > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, attempt)
		defer cancel()
	}
	response, err := client.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		return err.Error(), false
	}
	status := response.GetStatus()
	return "status " + status.String(), status == grpc_health_v1.HealthCheckResponse_SERVING
}
