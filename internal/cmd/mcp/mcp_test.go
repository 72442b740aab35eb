package mcp

import (
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/duskwall/internal/services/table/storage/memory"
	"github.com/louisbranch/duskwall/internal/services/table/storage/sqlite"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil, func(string) (string, bool) { return "", false })
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "" {
		t.Fatalf("expected in-memory default, got %q", cfg.DBPath)
	}
	if cfg.Seed != 0 {
		t.Fatalf("expected zero seed, got %d", cfg.Seed)
	}
	if cfg.Locale != "en-US" {
		t.Fatalf("expected default locale en-US, got %q", cfg.Locale)
	}
	if cfg.HTTPAddr != "localhost:8081" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("expected default transport stdio, got %q", cfg.Transport)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	lookup := func(key string) (string, bool) {
		switch key {
		case "DUSKWALL_DB_PATH":
			return "env.db", true
		case "DUSKWALL_SEED":
			return "11", true
		case "DUSKWALL_LOCALE":
			return "pt-BR", true
		case "DUSKWALL_MCP_ALLOWED_HOSTS":
			return "table.example,dice.example", true
		default:
			return "", false
		}
	}
	args := []string{"-db", "flag.db", "-seed", "42", "-http-addr", "flag-http", "-transport", "http"}
	cfg, err := ParseConfig(fs, args, lookup)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "flag.db" {
		t.Fatalf("expected flag db path, got %q", cfg.DBPath)
	}
	if cfg.Seed != 42 {
		t.Fatalf("expected flag seed, got %d", cfg.Seed)
	}
	if cfg.Locale != "pt-BR" {
		t.Fatalf("expected env locale, got %q", cfg.Locale)
	}
	if cfg.HTTPAddr != "flag-http" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "http" {
		t.Fatalf("expected transport http, got %q", cfg.Transport)
	}
	if strings.Join(cfg.AllowedHosts, ",") != "table.example,dice.example" {
		t.Fatalf("expected env allowed hosts, got %v", cfg.AllowedHosts)
	}
}

func TestParseConfigRejectsBadSeed(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	lookup := func(key string) (string, bool) {
		if key == "DUSKWALL_SEED" {
			return "many", true
		}
		return "", false
	}
	if _, err := ParseConfig(fs, nil, lookup); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	store, err := openStore(ctx, "  ")
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
	_ = store.Close()

	store, err = openStore(ctx, filepath.Join(t.TempDir(), "table.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	if _, ok := store.(*sqlite.Store); !ok {
		t.Fatalf("expected sqlite store, got %T", store)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close sqlite store: %v", err)
	}
}

func TestRunRejectsUnknownTransport(t *testing.T) {
	t.Setenv("DUSKWALL_OTEL_ENDPOINT", "")
	err := Run(context.Background(), Config{Seed: 1, Transport: "smoke-signal"})
	if err == nil || !strings.Contains(err.Error(), "smoke-signal") {
		t.Fatalf("expected unsupported transport error, got %v", err)
	}
}
