package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port       int               `env:"STAKES_SPACE_TEST_PORT" envDefault:"123"`
	Predicates map[string]string `env:"STAKES_SPACE_TEST_PREDICATES" envSeparator:"," envKeyValSeparator:"="`
}

func TestParseEnvWith(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantPort  int
		wantPreds map[string]string
		wantErr   string
	}{
		{name: "defaults", env: map[string]string{}, wantPort: 123},
		{
			name: "overrides",
			env: map[string]string{
				"STAKES_SPACE_TEST_PORT":       "9000",
				"STAKES_SPACE_TEST_PREDICATES": "RUN_5K=run.lua,READ=read.lua",
			},
			wantPort:  9000,
			wantPreds: map[string]string{"RUN_5K": "run.lua", "READ": "read.lua"},
		},
		{
			name:    "bad int",
			env:     map[string]string{"STAKES_SPACE_TEST_PORT": "not-an-int"},
			wantErr: "parse env:",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg envTestConfig
			err := ParseEnvWith(&cfg, tt.env)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse env: %v", err)
			}
			if cfg.Port != tt.wantPort {
				t.Fatalf("port = %d, want %d", cfg.Port, tt.wantPort)
			}
			for key, want := range tt.wantPreds {
				if cfg.Predicates[key] != want {
					t.Fatalf("predicates = %v, want %v", cfg.Predicates, tt.wantPreds)
				}
			}
		})
	}
}

func TestParseEnvReadsProcessEnvironment(t *testing.T) {
	t.Setenv("STAKES_SPACE_TEST_PORT", "8181")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 8181 {
		t.Fatalf("port = %d, want 8181", cfg.Port)
	}
}
