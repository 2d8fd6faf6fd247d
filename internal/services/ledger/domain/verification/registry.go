package verification

import (
	"context"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
)

// Predicate evaluates a goal's evidence.
type Predicate interface {
	Evaluate(ctx context.Context, goalID uint64, evidence []Evidence) (Outcome, error)
}

// PredicateFunc adapts a function to Predicate.
type PredicateFunc func(ctx context.Context, goalID uint64, evidence []Evidence) (Outcome, error)

// Evaluate calls f.
func (f PredicateFunc) Evaluate(ctx context.Context, goalID uint64, evidence []Evidence) (Outcome, error) {
	return f(ctx, goalID, evidence)
}

// Registry maps requirement tags to predicates.
type Registry struct {
	mu         sync.RWMutex
	predicates map[string]Predicate
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{predicates: make(map[string]Predicate)}
}

// Register binds tag to p. Tags are case-sensitive and may not be rebound.
func (r *Registry) Register(tag string, p Predicate) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return apperrors.New(apperrors.CodeUnknownVerificationRequirement, "requirement tag is required")
	}
	if p == nil {
		return apperrors.WithMetadata(apperrors.CodeUnknownVerificationRequirement, "predicate is required", map[string]string{"Requirement": tag})
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.predicates[tag]; exists {
		return apperrors.WithMetadata(apperrors.CodeUnknownVerificationRequirement, "requirement already registered", map[string]string{"Requirement": tag})
	}
	r.predicates[tag] = p
	return nil
}

// Has reports whether tag is registered.
func (r *Registry) Has(tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.predicates[tag]
	return ok
}

// Tags lists registered tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.predicates))
	for tag := range r.predicates {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Evaluate runs the predicate registered for tag.
func (r *Registry) Evaluate(ctx context.Context, tag string, goalID uint64, evidence []Evidence) (Outcome, error) {
	r.mu.RLock()
	p, ok := r.predicates[tag]
	r.mu.RUnlock()
	if !ok {
		return OutcomePending, apperrors.WithMetadata(apperrors.CodeUnknownVerificationRequirement, "requirement not registered", map[string]string{"Requirement": tag})
	}
	outcome, err := p.Evaluate(ctx, goalID, evidence)
	if err != nil {
		return OutcomePending, err
	}
	normalized, ok := ParseOutcome(string(outcome))
	if !ok {
		return OutcomePending, apperrors.WithMetadata(apperrors.CodeEvidenceInvalid, "predicate returned an unknown outcome", map[string]string{"Requirement": tag})
	}
	return normalized, nil
}
