package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGRPCInterceptorRecordsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewGRPC(reg)
	if err != nil {
		t.Fatalf("new grpc metrics: %v", err)
	}
	interceptor := m.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/ledger.v1.GoalService/Close"}

	_, _ = interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	_, _ = interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.FailedPrecondition, "closed")
	})

	if got := testutil.ToFloat64(m.requests.WithLabelValues(info.FullMethod, "OK")); got != 1 {
		t.Fatalf("ok requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues(info.FullMethod, "FailedPrecondition")); got != 1 {
		t.Fatalf("failed requests = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.latency); got != 1 {
		t.Fatalf("latency series = %d, want 1", got)
	}
}

func TestRegisterTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewLedger(reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := NewLedger(reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	first.ObserveSettlement(true)
	second.ObserveSettlement(true)
	if got := testutil.ToFloat64(first.settlements.WithLabelValues("achieved")); got != 2 {
		t.Fatalf("achieved settlements = %v, want 2", got)
	}
}

func TestLedgerMetrics(t *testing.T) {
	m, err := NewLedger(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("new ledger metrics: %v", err)
	}
	m.ObserveSettlement(false)
	m.ObservePayout("fee", 5)
	m.ObservePayout("fee", 7)
	m.ObserveRejection("close", "GOAL_ALREADY_CLOSED")

	if got := testutil.ToFloat64(m.settlements.WithLabelValues("failed")); got != 1 {
		t.Fatalf("failed settlements = %v", got)
	}
	if got := testutil.ToFloat64(m.payouts.WithLabelValues("fee")); got != 12 {
		t.Fatalf("fee payouts = %v", got)
	}
	if got := testutil.ToFloat64(m.rejections.WithLabelValues("close", "GOAL_ALREADY_CLOSED")); got != 1 {
		t.Fatalf("rejections = %v", got)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var g *GRPC
	g.Observe("/x", nil, time.Millisecond)
	var l *Ledger
	l.ObserveSettlement(true)
	l.ObservePayout("fee", 1)
	l.ObserveRejection("op", "code")
}
