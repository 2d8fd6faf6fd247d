// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/stakes.space/internal/platform/cmd"
	"github.com/louisbranch/stakes.space/internal/platform/discovery"
	mcpservice "github.com/louisbranch/stakes.space/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	LedgerAddr string `env:"STAKES_SPACE_MCP_LEDGER_ADDR"`
	HTTPAddr   string `env:"STAKES_SPACE_MCP_HTTP_ADDR"`
	Transport  string `env:"STAKES_SPACE_MCP_TRANSPORT"  envDefault:"stdio"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args, registerFlags); err != nil {
		return Config{}, err
	}
	cfg.LedgerAddr = discovery.OrDefault(cfg.LedgerAddr, discovery.ServiceLedger, discovery.GRPC)
	cfg.HTTPAddr = discovery.OrDefault(cfg.HTTPAddr, discovery.ServiceMCP, discovery.HTTP)
	switch mcpservice.TransportKind(cfg.Transport) {
	case mcpservice.TransportStdio, mcpservice.TransportHTTP:
	default:
		return Config{}, fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
	return cfg, nil
}

func registerFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.LedgerAddr, "ledger-addr", cfg.LedgerAddr, "ledger gRPC address")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		return mcpservice.Run(ctx, mcpservice.Config{
			LedgerAddr: cfg.LedgerAddr,
			HTTPAddr:   cfg.HTTPAddr,
			Transport:  mcpservice.TransportKind(cfg.Transport),
		})
	})
}
