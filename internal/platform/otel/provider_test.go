package otel_test

import (
	"context"
	"strings"
	"testing"

	"github.com/louisbranch/stakes.space/internal/platform/otel"
)

func TestLoadSettings(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantActive bool
		wantRatio  float64
		wantErr    string
	}{
		{name: "defaults", wantRatio: 1},
		{name: "endpoint enables", env: map[string]string{"STAKES_SPACE_OTEL_ENDPOINT": "http://localhost:4318"}, wantActive: true, wantRatio: 1},
		{
			name:      "explicitly disabled",
			env:       map[string]string{"STAKES_SPACE_OTEL_ENDPOINT": "http://localhost:4318", "STAKES_SPACE_OTEL_ENABLED": "false"},
			wantRatio: 1,
		},
		{name: "ratio", env: map[string]string{"STAKES_SPACE_OTEL_SAMPLE_RATIO": "0.25"}, wantRatio: 0.25},
		{name: "ratio out of range", env: map[string]string{"STAKES_SPACE_OTEL_SAMPLE_RATIO": "2"}, wantErr: "sample ratio"},
		{name: "bad bool", env: map[string]string{"STAKES_SPACE_OTEL_ENABLED": "sometimes"}, wantErr: "parse env"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("STAKES_SPACE_OTEL_ENDPOINT", "")
			t.Setenv("STAKES_SPACE_OTEL_ENABLED", "true")
			t.Setenv("STAKES_SPACE_OTEL_SAMPLE_RATIO", "1")
			for key, value := range tc.env {
				t.Setenv(key, value)
			}

			settings, err := otel.LoadSettings()
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("err = %v, want %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("load settings: %v", err)
			}
			if settings.Active() != tc.wantActive || settings.SampleRatio != tc.wantRatio {
				t.Fatalf("settings = %+v", settings)
			}
		})
	}
}

func TestSetupWithInactiveIsNoop(t *testing.T) {
	shutdown, err := otel.SetupWith(context.Background(), "ledger", otel.Settings{Enabled: true, SampleRatio: 1})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestSetupWithEndpointInstallsProvider(t *testing.T) {
	// 192.0.2.0/24 is reserved for documentation; nothing is exported.
	shutdown, err := otel.SetupWith(context.Background(), "mcp", otel.Settings{
		Endpoint:    "http://192.0.2.1:4318",
		Enabled:     true,
		SampleRatio: 0.5,
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	_, span := otel.Tracer().Start(context.Background(), "probe")
	if !span.SpanContext().IsValid() {
		t.Fatal("expected a recording provider to issue valid span contexts")
	}
	span.End()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}

func TestSetupWithRejectsBadRatio(t *testing.T) {
	if _, err := otel.SetupWith(context.Background(), "ledger", otel.Settings{SampleRatio: -1}); err == nil {
		t.Fatal("expected ratio error")
	}
}
