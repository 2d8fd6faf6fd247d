// Package otel wires OpenTelemetry tracing for Stakes.Space binaries.
package otel

import (
	"context"
	"fmt"

	"github.com/louisbranch/stakes.space/internal/platform/branding"
	"github.com/louisbranch/stakes.space/internal/platform/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/louisbranch/stakes.space"

// Settings controls trace export. Tracing stays off until Endpoint is set.
type Settings struct {
	Endpoint    string  `env:"STAKES_SPACE_OTEL_ENDPOINT"`
	Enabled     bool    `env:"STAKES_SPACE_OTEL_ENABLED"      envDefault:"true"`
	SampleRatio float64 `env:"STAKES_SPACE_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Active reports whether Setup should install a provider.
func (s Settings) Active() bool {
	return s.Enabled && s.Endpoint != ""
}

func (s Settings) validate() error {
	if s.SampleRatio < 0 || s.SampleRatio > 1 {
		return fmt.Errorf("otel sample ratio must be within [0,1], got %v", s.SampleRatio)
	}
	return nil
}

// LoadSettings reads Settings from the process environment.
func LoadSettings() (Settings, error) {
	var settings Settings
	if err := config.ParseEnv(&settings); err != nil {
		return Settings{}, err
	}
	return settings, settings.validate()
}

// Setup installs tracing for serviceName from the environment and returns a
// shutdown function that flushes pending spans. When tracing is inactive the
// shutdown is a no-op and no global provider is registered.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	settings, err := LoadSettings()
	if err != nil {
		return noopShutdown, err
	}
	return SetupWith(ctx, serviceName, settings)
}

// SetupWith is Setup with explicit settings.
func SetupWith(ctx context.Context, serviceName string, settings Settings) (func(context.Context) error, error) {
	if err := settings.validate(); err != nil {
		return noopShutdown, err
	}
	if !settings.Active() {
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(settings.Endpoint))
	if err != nil {
		return noopShutdown, fmt.Errorf("create otlp exporter: %w", err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(branding.Version),
		semconv.ServiceNamespace(branding.AppName),
	))
	if err != nil {
		return noopShutdown, fmt.Errorf("build otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(settings.SampleRatio))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

func noopShutdown(context.Context) error { return nil }

// Tracer returns the project tracer from the global provider. Spans are
// no-ops until Setup installs a provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
