package server

import (
	"errors"
	"strings"

	"github.com/louisbranch/stakes.space/internal/services/ledger/domain/settings"
)

// Config holds everything the ledger server needs to start.
type Config struct {
	// Addr is the gRPC listen address.
	Addr string
	// MetricsAddr serves /metrics over HTTP when set.
	MetricsAddr string
	DBPath      string

	Owner           string
	Treasury        string
	FeePercent      uint8
	ProfileRequired bool
	MessagePolicy   string

	// LuaDir holds *.lua predicates registered under their upper-cased stem.
	LuaDir string

	AttestationIssuer    string
	AttestationAudience  string
	AttestationPublicKey string
}

// initialSettings returns the settings journaled on first start.
func (c Config) initialSettings() (settings.Settings, error) {
	if strings.TrimSpace(c.Owner) == "" {
		return settings.Settings{}, errors.New("ledger owner account is required")
	}
	treasury := strings.TrimSpace(c.Treasury)
	if treasury == "" {
		treasury = strings.TrimSpace(c.Owner)
	}
	initial := settings.Default(strings.TrimSpace(c.Owner), treasury)
	initial.FeePercent = c.FeePercent
	initial.ProfileRequired = c.ProfileRequired
	if c.MessagePolicy != "" {
		policy, ok := settings.ParseMessagePolicy(c.MessagePolicy)
		if !ok {
			return settings.Settings{}, errors.New("unknown message policy " + c.MessagePolicy)
		}
		initial.MessagePolicy = policy
	}
	if err := initial.Validate(); err != nil {
		return settings.Settings{}, err
	}
	return initial, nil
}

func (c Config) attestationConfigured() bool {
	return c.AttestationIssuer != "" || c.AttestationAudience != "" || c.AttestationPublicKey != ""
}
