package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	"github.com/louisbranch/stakes.space/internal/platform/telemetry/metrics"
	ledgergrpc "github.com/louisbranch/stakes.space/internal/services/ledger/api/grpc/ledger"
	grpcmeta "github.com/louisbranch/stakes.space/internal/services/ledger/api/grpc/metadata"
	"github.com/louisbranch/stakes.space/internal/services/ledger/goalledger"
	"github.com/louisbranch/stakes.space/internal/services/ledger/storage/sqlite"
)

const metricsShutdownTimeout = 5 * time.Second

// Server hosts the ledger gRPC and metrics endpoints.
type Server struct {
	listener        net.Listener
	grpcServer      *grpc.Server
	health          *health.Server
	metricsListener net.Listener
	metricsServer   *http.Server
	store           *sqlite.Store
}

// Options overrides collaborators for embedding and tests.
type Options struct {
	Clock    func() time.Time
	Registry *prometheus.Registry
}

// New opens storage, bootstraps settings and binds the listeners.
func New(ctx context.Context, cfg Config, opts Options) (*Server, error) {
	initial, err := cfg.initialSettings()
	if err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	grpcMetrics, err := metrics.NewGRPC(reg)
	if err != nil {
		return nil, err
	}
	ledgerMetrics, err := metrics.NewLedger(reg)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	ledger, err := goalledger.New(store, goalledger.Options{Metrics: ledgerMetrics, Clock: clock})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := registerPredicates(ledger.Registry(), cfg, clock); err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := ledger.Bootstrap(ctx, initial); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("bootstrap ledger settings: %w", err)
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcmeta.UnaryServerInterceptor(nil),
			grpcMetrics.UnaryServerInterceptor(),
		),
	)
	healthServer := health.NewServer()
	ledgerv1.RegisterGoalServiceServer(grpcServer, ledgergrpc.NewGoalService(ledger))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ledgerv1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	s := &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
	}
	if addr := strings.TrimSpace(cfg.MetricsAddr); addr != "" {
		metricsListener, err := net.Listen("tcp", addr)
		if err != nil {
			_ = listener.Close()
			_ = store.Close()
			return nil, fmt.Errorf("listen on metrics %s: %w", addr, err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		s.metricsListener = metricsListener
		s.metricsServer = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}
	return s, nil
}

// Addr returns the gRPC listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// MetricsAddr returns the metrics listener address, or "" when disabled.
func (s *Server) MetricsAddr() string {
	if s == nil || s.metricsListener == nil {
		return ""
	}
	return s.metricsListener.Addr().String()
}

// Run creates and serves a ledger server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	srv, err := New(ctx, cfg, Options{})
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}

// Serve blocks until the context ends or a listener fails, then stops both
// servers and closes the store.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		if err := s.store.Close(); err != nil {
			log.Printf("close ledger store: %v", err)
		}
	}()

	log.Printf("ledger server listening at %v", s.listener.Addr())
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := s.grpcServer.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})
	if s.metricsServer != nil {
		log.Printf("ledger metrics listening at %v", s.metricsListener.Addr())
		group.Go(func() error {
			if err := s.metricsServer.Serve(s.metricsListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve metrics: %w", err)
			}
			return nil
		})
	}
	group.Go(func() error {
		<-groupCtx.Done()
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		if s.metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("shutdown metrics server: %v", err)
			}
		}
		return nil
	})
	return group.Wait()
}

func openStore(path string) (*sqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "ledger.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return store, nil
}
