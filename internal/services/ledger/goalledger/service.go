package goalledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
	platformotel "github.com/louisbranch/stakes.space/internal/platform/otel"
	"github.com/louisbranch/stakes.space/internal/platform/requestctx"
	"github.com/louisbranch/stakes.space/internal/platform/telemetry/metrics"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/command"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/event"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/settings"
	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/verification"
	"github.com/louisbranch/stakes.space/internal/services/ledger/storage"
)

// ProfileRegistry answers whether an account holds a profile.
type ProfileRegistry interface {
	HasProfile(ctx context.Context, account string) (bool, error)
}

// Options configures a Service.
type Options struct {
	// Registry resolves verification requirement tags. Defaults to a registry
	// holding only ANY_PROOF.
	Registry *verification.Registry
	// Profiles backs the profile gate. Defaults to the ledger's own profiles.
	Profiles ProfileRegistry
	Metrics  *metrics.Ledger
	Clock    func() time.Time
}

// Service is the goal ledger.
type Service struct {
	mu       sync.Mutex
	store    storage.Store
	registry *verification.Registry
	profiles ProfileRegistry
	metrics  *metrics.Ledger
	clock    func() time.Time
	tracer   trace.Tracer
}

// New builds a Service over store.
func New(store storage.Store, opts Options) (*Service, error) {
	if store == nil {
		return nil, errors.New("ledger store is required")
	}
	registry := opts.Registry
	if registry == nil {
		registry = verification.NewRegistry()
		if err := registry.Register(verification.RequirementAnyProof, verification.AnyProof); err != nil {
			return nil, fmt.Errorf("register default predicate: %w", err)
		}
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		store:    store,
		registry: registry,
		profiles: opts.Profiles,
		metrics:  opts.Metrics,
		clock:    clock,
		tracer:   platformotel.Tracer(),
	}, nil
}

// Registry exposes the verification registry.
func (s *Service) Registry() *verification.Registry {
	return s.registry
}

func (s *Service) now() time.Time {
	return s.clock().UTC()
}

// writer is the per-operation view handed to mutating operations.
type writer struct {
	tx        storage.Tx
	settings  settings.Settings
	now       time.Time
	caller    string
	requestID string
}

func (w *writer) command(cmdType command.Type, goalID uint64, payload any) (command.Command, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return command.Command{}, fmt.Errorf("encode %s payload: %w", cmdType, err)
	}
	return command.Command{
		Type:        cmdType,
		GoalID:      goalID,
		ActorID:     w.caller,
		RequestID:   w.requestID,
		PayloadJSON: payloadJSON,
	}, nil
}

// apply journals an accepted decision or returns its rejection.
func (w *writer) apply(ctx context.Context, decision command.Decision) ([]event.Event, error) {
	if err := decision.Err(); err != nil {
		return nil, err
	}
	if len(decision.Events) == 0 {
		return nil, nil
	}
	return w.tx.AppendEvents(ctx, decision.Events...)
}

type writeOptions struct {
	// admin operations stay available while paused.
	admin bool
	// bootstrap skips the settings lookup.
	bootstrap bool
}

// write runs fn as one serialized, transactional ledger operation.
func (s *Service) write(ctx context.Context, op, caller string, opts writeOptions, fn func(ctx context.Context, w *writer) error) (err error) {
	ctx, span := s.tracer.Start(ctx, "ledger."+op, trace.WithAttributes(
		attribute.String("ledger.caller", caller),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			s.metrics.ObserveRejection(op, string(apperrors.GetCode(err)))
			if apperrors.GetCode(err) == apperrors.CodeUnknown {
				log.Printf("ledger %s failed: %v", op, err)
			}
		}
		span.End()
	}()

	caller = strings.TrimSpace(caller)
	if caller == "" {
		return apperrors.New(apperrors.CodeCallerRequired, "caller is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.InTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		w := &writer{
			tx:        tx,
			now:       s.now(),
			caller:    caller,
			requestID: requestctx.RequestIDFromContext(ctx),
		}
		if !opts.bootstrap {
			cfg, err := tx.GetSettings(ctx)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return errors.New("ledger settings are not bootstrapped")
				}
				return fmt.Errorf("load settings: %w", err)
			}
			if cfg.Paused && !opts.admin {
				return apperrors.New(apperrors.CodePaused, "ledger is paused")
			}
			w.settings = cfg
		}
		return fn(ctx, w)
	})
}

// read runs fn in a traced read span.
func (s *Service) read(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "ledger."+op)
	defer span.End()
	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return err
	}
	return nil
}

// ledgerProfiles reads profiles through the open transaction.
type ledgerProfiles struct {
	reader storage.AccountReader
}

func (p ledgerProfiles) HasProfile(ctx context.Context, account string) (bool, error) {
	_, err := p.reader.GetProfile(ctx, account)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// NewStoreProfiles adapts the ledger profile projection to ProfileRegistry.
func NewStoreProfiles(reader storage.AccountReader) ProfileRegistry {
	return ledgerProfiles{reader: reader}
}

func (s *Service) profileRegistry(tx storage.Tx) ProfileRegistry {
	if s.profiles != nil {
		return s.profiles
	}
	return ledgerProfiles{reader: tx}
}
