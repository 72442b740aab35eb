package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port   int    `env:"DUSKWALL_TEST_PORT" envDefault:"123"`
	Locale string `env:"DUSKWALL_TEST_LOCALE" envDefault:"en-US"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("DUSKWALL_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvWithLookup(t *testing.T) {
	t.Setenv("DUSKWALL_TEST_PORT", "999")
	lookup := func(key string) (string, bool) {
		if key == "DUSKWALL_TEST_LOCALE" {
			return "pt-BR", true
		}
		return "", false
	}

	var cfg envTestConfig
	if err := ParseEnvWith(&cfg, lookup); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Locale != "pt-BR" {
		t.Fatalf("Locale = %q, want pt-BR", cfg.Locale)
	}
	if cfg.Port != 123 {
		t.Fatalf("Port = %d, want default 123 when lookup hides the process env", cfg.Port)
	}
}
