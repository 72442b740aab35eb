package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment variable read by the commands.
const EnvPrefix = "DUSKWALL_"

// LookupFunc resolves one environment variable.
type LookupFunc func(key string) (string, bool)

// ParseEnv loads configuration from the process environment.
func ParseEnv(target any) error {
	return ParseEnvWith(target, nil)
}

// ParseEnvWith loads configuration through lookup. A nil lookup reads the
// process environment.
func ParseEnvWith(target any, lookup LookupFunc) error {
	opts := env.Options{}
	if lookup != nil {
		environment, err := environmentFor(target, lookup)
		if err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// environmentFor resolves only the keys target declares.
func environmentFor(target any, lookup LookupFunc) (map[string]string, error) {
	params, err := env.GetFieldParams(target)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(params))
	for _, p := range params {
		if value, ok := lookup(p.Key); ok {
			out[p.Key] = value
		}
	}
	return out, nil
}
