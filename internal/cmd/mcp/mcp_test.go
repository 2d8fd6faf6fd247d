package mcp

import (
	"flag"
	"testing"

	"github.com/louisbranch/stakes.space/internal/platform/discovery"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if want := discovery.Addr(discovery.ServiceLedger, discovery.GRPC); cfg.LedgerAddr != want {
		t.Fatalf("ledger addr = %q, want %q", cfg.LedgerAddr, want)
	}
	if want := discovery.Addr(discovery.ServiceMCP, discovery.HTTP); cfg.HTTPAddr != want {
		t.Fatalf("http addr = %q, want %q", cfg.HTTPAddr, want)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("expected default transport stdio, got %q", cfg.Transport)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("STAKES_SPACE_MCP_LEDGER_ADDR", "env-ledger:8082")
	t.Setenv("STAKES_SPACE_MCP_HTTP_ADDR", "env-http:8085")

	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "flag-http:9000", "-transport", "http"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.LedgerAddr != "env-ledger:8082" {
		t.Fatalf("expected env ledger addr, got %q", cfg.LedgerAddr)
	}
	if cfg.HTTPAddr != "flag-http:9000" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "http" {
		t.Fatalf("expected transport http, got %q", cfg.Transport)
	}
}

func TestParseConfigRejectsUnknownTransport(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-transport", "websocket"}); err == nil {
		t.Fatal("expected error for unknown transport")
	}
}
