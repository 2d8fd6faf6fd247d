// Package cmd holds the startup plumbing shared by the ledger and MCP
// commands: env-then-flags configuration and telemetry around the run loop.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/louisbranch/stakes.space/internal/platform/config"
	"github.com/louisbranch/stakes.space/internal/platform/otel"
	"github.com/louisbranch/stakes.space/internal/platform/timeouts"
)

// Service names used for telemetry resources and log prefixes.
const (
	ServiceLedger = "ledger"
	ServiceMCP    = "mcp"
)

var knownServices = []string{ServiceLedger, ServiceMCP}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags. A nil args slice parses nothing.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads cfg from the environment, then lets register bind
// flags whose defaults are the env values, then parses args. Flags win over
// env and env wins over struct tag defaults.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string, register func(*flag.FlagSet, *T)) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	if register != nil && fs != nil {
		register(fs, cfg)
	}
	return ParseArgs(fs, args)
}

// RunWithTelemetry installs tracing for service, runs run and flushes the
// exporter before returning run's error.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if !slices.Contains(knownServices, service) {
		return fmt.Errorf("unknown service %q", service)
	}
	if run == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return run(ctx)
}
