// Package config holds process configuration helpers shared by the binaries.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseEnv loads struct-tagged configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseEnvWithLookup loads struct-tagged configuration from the provided
// lookup instead of the process environment.
func ParseEnvWithLookup(target any, lookup EnvLookup, keys ...string) error {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		if lookup == nil {
			break
		}
		if value, ok := lookup(key); ok {
			values[key] = value
		}
	}
	if err := env.ParseWithOptions(target, env.Options{Environment: values}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// EnvOrDefault returns the first non-blank value found for keys, or fallback.
func EnvOrDefault(lookup EnvLookup, keys []string, fallback string) string {
	for _, key := range keys {
		if lookup == nil {
			break
		}
		value, ok := lookup(key)
		if ok {
			trimmed := strings.TrimSpace(value)
			if trimmed != "" {
				return trimmed
			}
		}
	}
	return fallback
}
