// Package ledger parses ledger command flags and starts the ledger server.
package ledger

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/stakes.space/internal/platform/cmd"
	"github.com/louisbranch/stakes.space/internal/platform/discovery"
	server "github.com/louisbranch/stakes.space/internal/services/ledger/app"
)

// Config holds ledger command configuration.
type Config struct {
	Port        int    `env:"STAKES_SPACE_LEDGER_PORT"         envDefault:"8082"`
	Addr        string `env:"STAKES_SPACE_LEDGER_ADDR"`
	MetricsAddr string `env:"STAKES_SPACE_LEDGER_METRICS_ADDR"`
	DBPath      string `env:"STAKES_SPACE_LEDGER_DB_PATH"      envDefault:"data/ledger.db"`

	Owner           string `env:"STAKES_SPACE_LEDGER_OWNER"`
	Treasury        string `env:"STAKES_SPACE_LEDGER_TREASURY"`
	FeePercent      uint   `env:"STAKES_SPACE_LEDGER_FEE_PERCENT"      envDefault:"10"`
	ProfileRequired bool   `env:"STAKES_SPACE_LEDGER_PROFILE_REQUIRED"`
	MessagePolicy   string `env:"STAKES_SPACE_LEDGER_MESSAGE_POLICY"   envDefault:"open"`

	LuaDir string `env:"STAKES_SPACE_LEDGER_LUA_DIR"`

	AttestationIssuer    string `env:"STAKES_SPACE_LEDGER_ATTESTATION_ISSUER"`
	AttestationAudience  string `env:"STAKES_SPACE_LEDGER_ATTESTATION_AUDIENCE"`
	AttestationPublicKey string `env:"STAKES_SPACE_LEDGER_ATTESTATION_PUBLIC_KEY"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args, registerFlags); err != nil {
		return Config{}, err
	}
	if cfg.FeePercent > 100 {
		return Config{}, fmt.Errorf("fee percent must be at most 100, got %d", cfg.FeePercent)
	}
	return cfg, nil
}

func registerFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The ledger gRPC port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The ledger gRPC listen address (overrides -port)")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Prometheus /metrics listen address (empty disables)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.Owner, "owner", cfg.Owner, "Owner account used when the ledger is first bootstrapped")
	fs.StringVar(&cfg.Treasury, "treasury", cfg.Treasury, "Treasury account receiving fees (defaults to owner)")
	fs.UintVar(&cfg.FeePercent, "fee-percent", cfg.FeePercent, "Fee percent taken from failed stakes")
	fs.BoolVar(&cfg.ProfileRequired, "profile-required", cfg.ProfileRequired, "Require a profile before setting goals")
	fs.StringVar(&cfg.MessagePolicy, "message-policy", cfg.MessagePolicy, "Message policy: open or accepted_motivators")
	fs.StringVar(&cfg.LuaDir, "lua-dir", cfg.LuaDir, "Directory of *.lua verification predicates")
}

// ServerConfig converts the command configuration into server settings.
func (c Config) ServerConfig() server.Config {
	addr := c.Addr
	if addr == "" {
		addr = fmt.Sprintf(":%d", c.Port)
	}
	return server.Config{
		Addr:                 addr,
		MetricsAddr:          c.MetricsAddr,
		DBPath:               c.DBPath,
		Owner:                c.Owner,
		Treasury:             c.Treasury,
		FeePercent:           uint8(c.FeePercent),
		ProfileRequired:      c.ProfileRequired,
		MessagePolicy:        c.MessagePolicy,
		LuaDir:               c.LuaDir,
		AttestationIssuer:    c.AttestationIssuer,
		AttestationAudience:  c.AttestationAudience,
		AttestationPublicKey: c.AttestationPublicKey,
	}
}

// DefaultAddr is the in-network address clients use to reach the ledger.
func DefaultAddr() string {
	return discovery.Addr(discovery.ServiceLedger, discovery.GRPC)
}

// Run starts the ledger service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceLedger, func(ctx context.Context) error {
		return server.Run(ctx, cfg.ServerConfig())
	})
}
