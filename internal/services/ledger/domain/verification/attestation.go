package verification

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/stakes.space/internal/platform/errors"
)

const (
	// RequirementAttestation decides from an oracle-signed outcome token.
	RequirementAttestation = "ATTESTATION"
	// EvidenceKeyAttestation holds the EdDSA-signed JWT.
	EvidenceKeyAttestation = "ATTESTATION"
)

// AttestationConfig defines how oracle attestations are verified.
type AttestationConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

type attestationClaims struct {
	jwt.RegisteredClaims
	GoalID  uint64 `json:"goal_id"`
	Outcome string `json:"outcome"`
}

// DecodePublicKey parses a raw or padded base64 Ed25519 public key.
func DecodePublicKey(value string) (ed25519.PublicKey, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, errors.New("empty public key")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, fmt.Errorf("decode public key: %w", err)
		}
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes", ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(decoded), nil
}

// NewAttestation returns a predicate that stays pending until an ATTESTATION
// token is present, then adopts the outcome the oracle signed for this goal.
func NewAttestation(cfg AttestationConfig) (Predicate, error) {
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return nil, errors.New("attestation verifier is not configured")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return PredicateFunc(func(_ context.Context, goalID uint64, evidence []Evidence) (Outcome, error) {
		token := ""
		for _, e := range evidence {
			if e.Key == EvidenceKeyAttestation {
				token = strings.TrimSpace(e.Value)
			}
		}
		if token == "" {
			return OutcomePending, nil
		}
		return verifyAttestation(token, goalID, cfg)
	}), nil
}

func verifyAttestation(token string, goalID uint64, cfg AttestationConfig) (Outcome, error) {
	var parsed attestationClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(cfg.Now),
	)
	if err != nil {
		return OutcomePending, mapJWTError(err)
	}
	if parsed.GoalID != goalID {
		return OutcomePending, apperrors.WithMetadata(apperrors.CodeEvidenceInvalid, "attestation goal mismatch", map[string]string{
			"GoalID": strconv.FormatUint(goalID, 10),
			"Field":  "goal_id",
		})
	}
	outcome, ok := ParseOutcome(parsed.Outcome)
	if !ok || !outcome.Decided() {
		return OutcomePending, apperrors.WithMetadata(apperrors.CodeEvidenceInvalid, "attestation outcome must be achieved or failed", map[string]string{"Field": "outcome"})
	}
	return outcome, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrEd25519Verification):
		return apperrors.Wrap(apperrors.CodeEvidenceInvalid, "attestation signature is invalid", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.Wrap(apperrors.CodeEvidenceInvalid, "attestation is expired", err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		return apperrors.Wrap(apperrors.CodeEvidenceInvalid, "attestation issuer or audience mismatch", err)
	default:
		return apperrors.Wrap(apperrors.CodeEvidenceInvalid, "attestation is invalid", err)
	}
}
