package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const namespace = "stakes_space"

// register registers c, returning the already registered collector of the
// same description when there is one.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// GRPC holds gRPC server collectors.
type GRPC struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewGRPC registers gRPC server collectors with reg.
func NewGRPC(reg prometheus.Registerer) (*GRPC, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	requests, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "requests_total",
			Help:      "Handled gRPC requests by method and status code.",
		},
		[]string{"method", "code"},
	))
	if err != nil {
		return nil, err
	}
	latency, err := register(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "request_duration_seconds",
			Help:      "gRPC request latency by method.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	))
	if err != nil {
		return nil, err
	}
	return &GRPC{requests: requests, latency: latency}, nil
}

// UnaryServerInterceptor records request counts and latency.
func (m *GRPC) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		m.Observe(info.FullMethod, err, time.Since(start))
		return resp, err
	}
}

// Observe records one handled request. It is nil-safe.
func (m *GRPC) Observe(method string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, status.Code(err).String()).Inc()
	m.latency.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Ledger holds settlement collectors.
type Ledger struct {
	settlements *prometheus.CounterVec
	payouts     *prometheus.CounterVec
	rejections  *prometheus.CounterVec
}

// NewLedger registers ledger collectors with reg.
func NewLedger(reg prometheus.Registerer) (*Ledger, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	settlements, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "settlements_total",
			Help:      "Settled goals by outcome.",
		},
		[]string{"outcome"},
	))
	if err != nil {
		return nil, err
	}
	payouts, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "payout_amount_total",
			Help:      "Amount released from escrow by payout reason.",
		},
		[]string{"reason"},
	))
	if err != nil {
		return nil, err
	}
	rejections, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "rejections_total",
			Help:      "Rejected ledger operations by operation and error code.",
		},
		[]string{"operation", "code"},
	))
	if err != nil {
		return nil, err
	}
	return &Ledger{settlements: settlements, payouts: payouts, rejections: rejections}, nil
}

// ObserveSettlement records a closed goal. It is nil-safe.
func (m *Ledger) ObserveSettlement(achieved bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if achieved {
		outcome = "achieved"
	}
	m.settlements.WithLabelValues(outcome).Inc()
}

// ObservePayout records an amount released for reason. It is nil-safe.
func (m *Ledger) ObservePayout(reason string, amount uint64) {
	if m == nil {
		return
	}
	m.payouts.WithLabelValues(reason).Add(float64(amount))
}

// ObserveRejection records a failed operation. It is nil-safe.
func (m *Ledger) ObserveRejection(operation, code string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(operation, code).Inc()
}
