package scenario

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func noEnv(string) (string, bool) { return "", false }

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil, noEnv)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.Assertions {
		t.Fatal("expected assertions to default to true")
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", cfg.Timeout)
	}
	if cfg.Seed != 1 {
		t.Fatalf("expected seed 1, got %d", cfg.Seed)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)
	lookup := func(key string) (string, bool) {
		switch key {
		case "DUSKWALL_SCENARIO_FILE":
			return "env.lua", true
		case "DUSKWALL_SCENARIO_TIMEOUT":
			return "3s", true
		default:
			return "", false
		}
	}

	cfg, err := ParseConfig(fs, []string{"-assert=false", "-verbose", "-seed", "9"}, lookup)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Scenario != "env.lua" {
		t.Fatalf("expected env scenario, got %q", cfg.Scenario)
	}
	if cfg.Assertions {
		t.Fatal("expected assertions disabled")
	}
	if !cfg.Verbose {
		t.Fatal("expected verbose")
	}
	if cfg.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %s", cfg.Timeout)
	}
	if cfg.Seed != 9 {
		t.Fatalf("expected seed 9, got %d", cfg.Seed)
	}
}

func TestRunRequiresScenario(t *testing.T) {
	if err := Run(context.Background(), Config{}, nil, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunExecutesScenario(t *testing.T) {
	t.Setenv("DUSKWALL_OTEL_ENDPOINT", "")
	path := filepath.Join(t.TempDir(), "smoke.lua")
	source := `local scene = Scenario.new("smoke")
scene:clock("Alarm", 4)
scene:fill("Alarm", 4, {expect_completed = true})
return scene
`
	if err := os.WriteFile(path, []byte(source), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	var out, errOut bytes.Buffer
	cfg := Config{Scenario: path, Assertions: true, Verbose: true, Timeout: time.Second, Seed: 1}
	if err := Run(context.Background(), cfg, &out, &errOut); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "passed") {
		t.Fatalf("expected pass message, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "scenario done: smoke") {
		t.Fatalf("expected verbose log, got %q", errOut.String())
	}
}
