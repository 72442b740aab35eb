package scenario

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
)

func newTestRunner(t *testing.T, mode AssertionMode, logs *bytes.Buffer) *Runner {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Assertions = mode
	cfg.Seed = 1
	if logs != nil {
		cfg.Logger = log.New(logs, "", 0)
		cfg.Verbose = true
	}
	runner, err := NewRunner(cfg)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return runner
}

func runSource(t *testing.T, runner *Runner, source string) error {
	t.Helper()
	scenario, err := LoadScenario(source)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	return runner.RunScenario(context.Background(), scenario)
}

func TestRunFileCoreRules(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 1
	if err := RunFile(context.Background(), cfg, "testdata/core_rules.lua"); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}

func TestRunScenarioRequiresScenario(t *testing.T) {
	if err := newTestRunner(t, AssertionStrict, nil).RunScenario(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunScenarioStrictFailsOnUnmetExpectation(t *testing.T) {
	runner := newTestRunner(t, AssertionStrict, nil)
	err := runSource(t, runner, `local scene = Scenario.new("strict")
scene:dice({4, 1})
scene:action_roll({dice = 2, expect_degree = "Critical"})
return scene`)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "step 2 (action_roll)") || !strings.Contains(err.Error(), `degree = "Partial"`) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunScenarioLogOnlyKeepsGoing(t *testing.T) {
	var logs bytes.Buffer
	runner := newTestRunner(t, AssertionLogOnly, &logs)
	err := runSource(t, runner, `local scene = Scenario.new("lenient")
scene:clock("Alarm", 4)
scene:fill("Alarm", 1, {expect_filled = 3})
scene:expect_clock("Alarm", {filled = 1})
return scene`)
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	if !strings.Contains(logs.String(), "expectation failed: filled = 1, want 3") {
		t.Fatalf("missing expectation log: %s", logs.String())
	}
	if !strings.Contains(logs.String(), "scenario done: lenient") {
		t.Fatalf("missing verbose log: %s", logs.String())
	}
}

func TestRunScenarioBrokenStepsFailInEveryMode(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name: "unknown character",
			source: `local scene = Scenario.new("broken")
scene:stress("Ghost", 1)
return scene`,
			want: `unknown character "Ghost"`,
		},
		{
			name: "duplicate clock",
			source: `local scene = Scenario.new("broken")
scene:clock("Alarm", 4)
scene:clock("Alarm", 6)
return scene`,
			want: `clock "Alarm" already exists`,
		},
		{
			name: "action roll without dice",
			source: `local scene = Scenario.new("broken")
scene:action_roll({position = "risky"})
return scene`,
			want: "action_roll requires dice",
		},
		{
			name: "out of range die",
			source: `local scene = Scenario.new("broken")
scene:dice({7})
return scene`,
			want: "7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runSource(t, newTestRunner(t, AssertionLogOnly, nil), tt.source)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestRunScenarioExpectedErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{
			name: "matching code",
			source: `local scene = Scenario.new("errors")
scene:action_roll({dice = 1, position = "sideways", expect_error = "ACTION_INVALID_POSITION"})
return scene`,
		},
		{
			name: "wrong code",
			source: `local scene = Scenario.new("errors")
scene:clock("Alarm", 0, {expect_error = "CLOCK_INVALID_FILL_AMOUNT"})
return scene`,
			wantErr: "want CLOCK_INVALID_FILL_AMOUNT",
		},
		{
			name: "unexpected success",
			source: `local scene = Scenario.new("errors")
scene:clock("Alarm", 4)
scene:fill("Alarm", 1, {expect_error = "CLOCK_INVALID_FILL_AMOUNT"})
return scene`,
			wantErr: "got success",
		},
		{
			name: "unknown consequence",
			source: `local scene = Scenario.new("errors")
scene:consequence({kind = "bad_luck", expect_error = "ACTION_INVALID_CONSEQUENCE"})
return scene`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runSource(t, newTestRunner(t, AssertionStrict, nil), tt.source)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("run scenario: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestQueuedSourceFallsBackToSeed(t *testing.T) {
	source := newQueuedSource(42)
	if err := source.Push(3, 5); err != nil {
		t.Fatalf("push: %v", err)
	}
	for _, want := range []int{3, 5} {
		got, err := source.NextDie()
		if err != nil || got != want {
			t.Fatalf("NextDie = %d, %v; want %d", got, err, want)
		}
	}
	if source.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", source.Pending())
	}
	for range 20 {
		got, err := source.NextDie()
		if err != nil || got < 1 || got > 6 {
			t.Fatalf("fallback die = %d, %v", got, err)
		}
	}
	if err := source.Push(0); err == nil {
		t.Fatal("expected out of range error")
	}
}
