package scenario

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/duskwall/internal/platform/errors"
)

func (r *Runner) failf(format string, args ...any) error {
	return r.assertions.Failf(format, args...)
}

func (r *Runner) assertf(format string, args ...any) error {
	return r.assertions.Assertf(format, args...)
}

// checkStepError matches err against the step's expect_error code. When
// handled is true the step ends with the returned error.
func (r *Runner) checkStepError(args map[string]any, err error) (handled bool, result error) {
	want := optionalString(args, "expect_error", "")
	if err == nil {
		if want != "" {
			return true, r.assertf("expected error %s, got success", want)
		}
		return false, nil
	}
	if want == "" {
		return true, err
	}
	if got := apperrors.GetCode(err); string(got) != want {
		return true, r.assertf("error code = %s, want %s (%v)", got, want, err)
	}
	return true, nil
}

func (r *Runner) expectInt(args map[string]any, key string, got int) error {
	want, ok := readInt(args, key)
	if !ok || want == got {
		return nil
	}
	return r.assertf("%s = %d, want %d", strings.TrimPrefix(key, "expect_"), got, want)
}

func (r *Runner) expectBool(args map[string]any, key string, got bool) error {
	want, ok := readBool(args, key)
	if !ok || want == got {
		return nil
	}
	return r.assertf("%s = %t, want %t", strings.TrimPrefix(key, "expect_"), got, want)
}

func (r *Runner) expectString(args map[string]any, key, got string) error {
	want := optionalString(args, key, "")
	if want == "" || strings.EqualFold(want, got) {
		return nil
	}
	return r.assertf("%s = %q, want %q", strings.TrimPrefix(key, "expect_"), got, want)
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func characterID(state *scenarioState, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("character name is required")
	}
	id, ok := state.characters[name]
	if !ok {
		return "", fmt.Errorf("unknown character %q", name)
	}
	return id, nil
}

func clockID(state *scenarioState, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("clock name is required")
	}
	id, ok := state.clocks[name]
	if !ok {
		return "", fmt.Errorf("unknown clock %q", name)
	}
	return id, nil
}

func requiredString(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok {
		return ""
	}
	text, ok := value.(string)
	if ok && text != "" {
		return text
	}
	return ""
}

func readInt(args map[string]any, key string) (int, bool) {
	value, ok := args[key]
	if !ok {
		return 0, false
	}
	switch typed := value.(type) {
	case int:
		return typed, true
	case float64:
		return int(typed), true
	default:
		return 0, false
	}
}

func optionalString(args map[string]any, key, fallback string) string {
	value, ok := args[key]
	if !ok {
		return fallback
	}
	text, ok := value.(string)
	if ok && text != "" {
		return text
	}
	return fallback
}

func optionalInt(args map[string]any, key string, fallback int) int {
	if value, ok := readInt(args, key); ok {
		return value
	}
	return fallback
}

func readBool(args map[string]any, key string) (bool, bool) {
	value, ok := args[key]
	if !ok {
		return false, false
	}
	switch typed := value.(type) {
	case bool:
		return typed, true
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
	}
	return false, false
}

// readInts converts a Lua list of numbers.
func readInts(args map[string]any, key string) ([]int, error) {
	list, ok := args[key].([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a list", key)
	}
	values := make([]int, 0, len(list))
	for i, item := range list {
		switch typed := item.(type) {
		case int:
			values = append(values, typed)
		default:
			return nil, fmt.Errorf("%s[%d] must be an integer", key, i+1)
		}
	}
	return values, nil
}

// readTable returns a nested Lua table argument.
func readTable(args map[string]any, key string) (map[string]any, bool) {
	table, ok := args[key].(map[string]any)
	return table, ok
}
