package action

import (
	"fmt"

	"github.com/louisbranch/duskwall/internal/core/dice"
)

// ExplainStep is one deterministic evaluation step.
type ExplainStep struct {
	Code    string
	Message string
	Data    map[string]any
}

// Explanation captures an outcome alongside the steps that produced it.
type Explanation struct {
	Outcome      Outcome
	RulesVersion string
	Steps        []ExplainStep
}

// Explain walks through how rolls resolve for a pool of size at position
// and effect.
func Explain(size int, rolls []int, position Position, effect Effect) (Explanation, error) {
	outcome, err := ResolveRolls(size, rolls, position, effect)
	if err != nil {
		return Explanation{}, err
	}
	pool := outcome.Pool

	sixes := 0
	for _, v := range pool.Rolls {
		if v == dice.Sides {
			sixes++
		}
	}

	rule := "keep_highest"
	ruleMessage := "Keep the highest die"
	if size == 0 {
		rule = "keep_lowest"
		ruleMessage = "Zero dice: roll two and keep the lower"
	}

	steps := []ExplainStep{
		{
			Code:    "SELECT_DICE",
			Message: fmt.Sprintf("Pool of %d rolls %d dice", size, len(pool.Rolls)),
			Data:    map[string]any{"size": size, "dice": len(pool.Rolls), "rolls": pool.Rolls},
		},
		{
			Code:    "RESOLVE_VALUE",
			Message: ruleMessage,
			Data:    map[string]any{"rule": rule, "value": pool.Value},
		},
		{
			Code:    "CHECK_CRITICAL",
			Message: criticalMessage(size, sixes, pool.Critical),
			Data:    map[string]any{"sixes": sixes, "critical": pool.Critical},
		},
		{
			Code:    "SELECT_DEGREE",
			Message: fmt.Sprintf("Value %d gives %s", pool.Value, outcome.Degree),
			Data:    map[string]any{"degree": outcome.Degree.String()},
		},
		{
			Code:    "ATTACH_POSITION",
			Message: fmt.Sprintf("%s position, %s effect", position, effect),
			Data: map[string]any{
				"position":      position.String(),
				"effect":        effect.String(),
				"harm_severity": outcome.HarmSeverity(),
				"consequences":  consequenceNames(outcome.Consequences()),
			},
		},
	}

	return Explanation{
		Outcome:      outcome,
		RulesVersion: RulesVersion().RulesVersion,
		Steps:        steps,
	}, nil
}

func criticalMessage(size, sixes int, critical bool) string {
	switch {
	case size == 0:
		return "Zero-dice pools never crit"
	case critical:
		return fmt.Sprintf("%d sixes: critical", sixes)
	default:
		return fmt.Sprintf("%d sixes: not critical", sixes)
	}
}

func consequenceNames(cs []Consequence) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.String())
	}
	return out
}
