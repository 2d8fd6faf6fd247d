package server

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/verification"
)

// registerPredicates adds the attestation and Lua predicates named by cfg.
func registerPredicates(registry *verification.Registry, cfg Config, clock func() time.Time) error {
	if cfg.attestationConfigured() {
		key, err := verification.DecodePublicKey(cfg.AttestationPublicKey)
		if err != nil {
			return fmt.Errorf("attestation public key: %w", err)
		}
		predicate, err := verification.NewAttestation(verification.AttestationConfig{
			Issuer:   strings.TrimSpace(cfg.AttestationIssuer),
			Audience: strings.TrimSpace(cfg.AttestationAudience),
			Key:      key,
			Now:      clock,
		})
		if err != nil {
			return err
		}
		if err := registry.Register(verification.RequirementAttestation, predicate); err != nil {
			return fmt.Errorf("register attestation predicate: %w", err)
		}
	}

	dir := strings.TrimSpace(cfg.LuaDir)
	if dir == "" {
		return nil
	}
	predicates, err := verification.LoadLuaPredicates(dir)
	if err != nil {
		return err
	}
	tags := make([]string, 0, len(predicates))
	for tag := range predicates {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		if err := registry.Register(tag, predicates[tag]); err != nil {
			return fmt.Errorf("register lua predicate %s: %w", tag, err)
		}
	}
	log.Printf("registered verification requirements: %s", strings.Join(registry.Tags(), ", "))
	return nil
}
