// Package config holds the shared environment parsing helpers used by every
// command entry point.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from the process environment.
func ParseEnv(target any) error {
	return ParseEnvWith(target, nil)
}

// ParseEnvWith loads configuration from environment, or from the process
// environment when environment is nil.
func ParseEnvWith(target any, environment map[string]string) error {
	var err error
	if environment == nil {
		err = env.Parse(target)
	} else {
		err = env.ParseWithOptions(target, env.Options{Environment: environment})
	}
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
