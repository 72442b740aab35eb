package domain

import (
	"context"
	"fmt"

	"github.com/louisbranch/duskwall/internal/core/action"
	"github.com/louisbranch/duskwall/internal/core/character"
	"github.com/louisbranch/duskwall/internal/core/dice"
	"github.com/louisbranch/duskwall/internal/services/table/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ConsequenceEntry is one consequence offered by an outcome.
type ConsequenceEntry struct {
	Kind     string `json:"kind" jsonschema:"consequence kind"`
	Severity int    `json:"severity,omitempty" jsonschema:"harm severity from 1 (lesser) to 4 (fatal)"`
	Label    string `json:"label" jsonschema:"localized consequence label"`
}

// ActionRollInput represents the MCP tool input for an action roll.
type ActionRollInput struct {
	CharacterID string `json:"character_id,omitempty" jsonschema:"optional acting character"`
	Dice        int    `json:"dice" jsonschema:"dice pool size; 0 rolls two dice and keeps the lower"`
	Position    string `json:"position" jsonschema:"controlled, risky or desperate"`
	Effect      string `json:"effect" jsonschema:"zero, limited, standard, great or extreme"`
	Note        string `json:"note,omitempty" jsonschema:"optional journal note"`
}

// ActionRollResult represents the MCP tool output for an action roll.
type ActionRollResult struct {
	Dice          int                `json:"dice" jsonschema:"dice pool size"`
	Rolls         []int              `json:"rolls" jsonschema:"die faces in draw order"`
	Value         int                `json:"value" jsonschema:"resolved pool value"`
	Critical      bool               `json:"critical" jsonschema:"whether the roll is a critical"`
	Degree        string             `json:"degree" jsonschema:"Critical, Full, Partial or Failure"`
	DegreeLabel   string             `json:"degree_label" jsonschema:"localized degree label"`
	Position      string             `json:"position" jsonschema:"position the action was made at"`
	PositionLabel string             `json:"position_label" jsonschema:"localized position label"`
	Effect        string             `json:"effect" jsonschema:"effect level of the action"`
	EffectLabel   string             `json:"effect_label" jsonschema:"localized effect label"`
	Success       bool               `json:"success" jsonschema:"whether the action succeeded at least partially"`
	Consequences  []ConsequenceEntry `json:"consequences" jsonschema:"consequences the position threatens"`
}

// ActionOutcomeInput represents the MCP tool input for known dice.
type ActionOutcomeInput struct {
	Dice     int    `json:"dice" jsonschema:"dice pool size"`
	Rolls    []int  `json:"rolls" jsonschema:"die faces; two for a zero pool, otherwise one per die"`
	Position string `json:"position" jsonschema:"controlled, risky or desperate"`
	Effect   string `json:"effect" jsonschema:"zero, limited, standard, great or extreme"`
}

// ExplainStep represents a deterministic evaluation step.
type ExplainStep struct {
	Code    string         `json:"code" jsonschema:"stable step identifier"`
	Message string         `json:"message" jsonschema:"human-readable step description"`
	Data    map[string]any `json:"data" jsonschema:"structured step payload"`
}

// ExplainRollResult represents the MCP tool output for explanations.
type ExplainRollResult struct {
	ActionRollResult
	RulesVersion string        `json:"rules_version" jsonschema:"semantic ruleset version"`
	Steps        []ExplainStep `json:"steps" jsonschema:"ordered evaluation steps"`
}

// PoolProbabilityInput represents the MCP tool input for probabilities.
type PoolProbabilityInput struct {
	Dice int `json:"dice" jsonschema:"dice pool size"`
}

// ProbabilityOutcomeCount represents a counted outcome for probabilities.
type ProbabilityOutcomeCount struct {
	Degree string  `json:"degree" jsonschema:"degree name"`
	Label  string  `json:"label" jsonschema:"localized degree label"`
	Count  int     `json:"count" jsonschema:"number of outcomes"`
	Chance float64 `json:"chance" jsonschema:"probability in [0,1]"`
}

// PoolProbabilityResult represents the MCP tool output for probabilities.
type PoolProbabilityResult struct {
	Dice          int                       `json:"dice" jsonschema:"dice pool size"`
	TotalOutcomes int                       `json:"total_outcomes" jsonschema:"total number of outcomes"`
	CriticalCount int                       `json:"critical_count" jsonschema:"number of critical outcomes"`
	FullCount     int                       `json:"full_count" jsonschema:"number of full successes"`
	PartialCount  int                       `json:"partial_count" jsonschema:"number of partial successes"`
	FailureCount  int                       `json:"failure_count" jsonschema:"number of failures"`
	OutcomeCounts []ProbabilityOutcomeCount `json:"outcome_counts" jsonschema:"counts per degree"`
}

// RulesVersionInput represents the MCP tool input for ruleset metadata.
type RulesVersionInput struct{}

// RulesVersionResult represents the MCP tool output for ruleset metadata.
type RulesVersionResult struct {
	System         string   `json:"system" jsonschema:"game system name"`
	Module         string   `json:"module" jsonschema:"ruleset module name"`
	RulesVersion   string   `json:"rules_version" jsonschema:"semantic ruleset version"`
	DiceModel      string   `json:"dice_model" jsonschema:"dice model description"`
	CritRule       string   `json:"crit_rule" jsonschema:"critical rule"`
	DegreeRule     string   `json:"degree_rule" jsonschema:"degree mapping rule"`
	ResistanceRule string   `json:"resistance_rule" jsonschema:"resistance cost rule"`
	StressRule     string   `json:"stress_rule" jsonschema:"stress and trauma rule"`
	HarmRule       string   `json:"harm_rule" jsonschema:"harm track rule"`
	Degrees        []string `json:"degrees" jsonschema:"supported degrees"`
	Positions      []string `json:"positions" jsonschema:"supported positions"`
	Effects        []string `json:"effects" jsonschema:"supported effect levels"`
}

// RollDiceSpec represents an MCP die specification for a roll.
type RollDiceSpec struct {
	Sides int `json:"sides" jsonschema:"number of sides for the die"`
	Count int `json:"count" jsonschema:"number of dice to roll"`
}

// RollDiceInput represents the MCP tool input for rolling dice.
type RollDiceInput struct {
	Dice []RollDiceSpec `json:"dice" jsonschema:"dice specifications to roll"`
	Seed *int64         `json:"seed,omitempty" jsonschema:"optional seed for a replayable roll"`
}

// RollDiceRoll represents the results for a single dice spec.
type RollDiceRoll struct {
	Sides   int   `json:"sides" jsonschema:"number of sides for the die"`
	Results []int `json:"results" jsonschema:"individual roll results"`
	Total   int   `json:"total" jsonschema:"sum of the roll results"`
}

// RngResult represents RNG details used for a roll.
type RngResult struct {
	SeedUsed   int64  `json:"seed_used" jsonschema:"seed value used by the server"`
	SeedSource string `json:"seed_source" jsonschema:"seed source (CLIENT or SERVER)"`
}

// RollDiceResult represents the MCP tool output for rolling dice.
type RollDiceResult struct {
	Rolls []RollDiceRoll `json:"rolls" jsonschema:"results for each dice spec"`
	Total int            `json:"total" jsonschema:"sum of all roll totals"`
	Rng   RngResult      `json:"rng" jsonschema:"rng details"`
}

// ActionRollTool defines the MCP tool schema for action rolls.
func ActionRollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "action_roll",
		Description: "Rolls an action pool at a position and effect and journals the result",
	}
}

// ActionOutcomeTool defines the MCP tool schema for deterministic outcomes.
func ActionOutcomeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "action_outcome",
		Description: "Evaluates an action outcome from known dice",
	}
}

// ExplainRollTool defines the MCP tool schema for explanations.
func ExplainRollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "explain_roll",
		Description: "Explains step by step how known dice resolve",
	}
}

// PoolProbabilityTool defines the MCP tool schema for probabilities.
func PoolProbabilityTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "pool_probability",
		Description: "Computes exact degree probabilities for a dice pool",
	}
}

// RulesVersionTool defines the MCP tool schema for ruleset metadata.
func RulesVersionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "rules_version",
		Description: "Describes the resolution ruleset semantics",
	}
}

// RollDiceTool defines the MCP tool schema for rolling dice.
func RollDiceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_dice",
		Description: "Rolls arbitrary dice outside the pool rules",
	}
}

// ActionRollHandler executes and journals an action roll.
func ActionRollHandler(table Table, loc Localizer) mcp.ToolHandlerFor[ActionRollInput, ActionRollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ActionRollInput) (*mcp.CallToolResult, ActionRollResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, ActionRollResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		position, effect, err := parseSituation(input.Position, input.Effect)
		if err != nil {
			return nil, ActionRollResult{}, loc.Fail(err)
		}
		outcome, err := table.ActionRoll(ctx, app.ActionRollInput{
			CharacterID: input.CharacterID,
			Dice:        input.Dice,
			Position:    position,
			Effect:      effect,
			Note:        input.Note,
		})
		if err != nil {
			return nil, ActionRollResult{}, loc.Fail(err)
		}
		return CallToolResultWithMetadata(meta), actionRollResult(outcome, loc), nil
	}
}

// ActionOutcomeHandler evaluates known dice without rolling.
func ActionOutcomeHandler(loc Localizer) mcp.ToolHandlerFor[ActionOutcomeInput, ActionRollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ActionOutcomeInput) (*mcp.CallToolResult, ActionRollResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, ActionRollResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		position, effect, err := parseSituation(input.Position, input.Effect)
		if err != nil {
			return nil, ActionRollResult{}, loc.Fail(err)
		}
		outcome, err := action.ResolveRolls(input.Dice, input.Rolls, position, effect)
		if err != nil {
			return nil, ActionRollResult{}, loc.Fail(err)
		}
		return CallToolResultWithMetadata(meta), actionRollResult(outcome, loc), nil
	}
}

// ExplainRollHandler explains how known dice resolve.
func ExplainRollHandler(loc Localizer) mcp.ToolHandlerFor[ActionOutcomeInput, ExplainRollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ActionOutcomeInput) (*mcp.CallToolResult, ExplainRollResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, ExplainRollResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		position, effect, err := parseSituation(input.Position, input.Effect)
		if err != nil {
			return nil, ExplainRollResult{}, loc.Fail(err)
		}
		explanation, err := action.Explain(input.Dice, input.Rolls, position, effect)
		if err != nil {
			return nil, ExplainRollResult{}, loc.Fail(err)
		}

		result := ExplainRollResult{
			ActionRollResult: actionRollResult(explanation.Outcome, loc),
			RulesVersion:     explanation.RulesVersion,
			Steps:            make([]ExplainStep, 0, len(explanation.Steps)),
		}
		for _, step := range explanation.Steps {
			data := step.Data
			if data == nil {
				data = map[string]any{}
			}
			result.Steps = append(result.Steps, ExplainStep{
				Code:    step.Code,
				Message: step.Message,
				Data:    data,
			})
		}
		return CallToolResultWithMetadata(meta), result, nil
	}
}

// PoolProbabilityHandler computes exact degree counts for a pool.
func PoolProbabilityHandler(loc Localizer) mcp.ToolHandlerFor[PoolProbabilityInput, PoolProbabilityResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PoolProbabilityInput) (*mcp.CallToolResult, PoolProbabilityResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, PoolProbabilityResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		probability, err := dice.Probability(input.Dice)
		if err != nil {
			return nil, PoolProbabilityResult{}, loc.Fail(err)
		}

		counts := make([]ProbabilityOutcomeCount, 0, len(probability.OutcomeCounts))
		for _, count := range probability.OutcomeCounts {
			counts = append(counts, ProbabilityOutcomeCount{
				Degree: count.Degree.String(),
				Label:  loc.Label(count.Degree.LabelKey()),
				Count:  count.Count,
				Chance: probability.Chance(count.Degree),
			})
		}
		return CallToolResultWithMetadata(meta), PoolProbabilityResult{
			Dice:          probability.Size,
			TotalOutcomes: probability.TotalOutcomes,
			CriticalCount: probability.CriticalCount,
			FullCount:     probability.FullCount,
			PartialCount:  probability.PartialCount,
			FailureCount:  probability.FailureCount,
			OutcomeCounts: counts,
		}, nil
	}
}

// RulesVersionHandler returns static ruleset metadata.
func RulesVersionHandler() mcp.ToolHandlerFor[RulesVersionInput, RulesVersionResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ RulesVersionInput) (*mcp.CallToolResult, RulesVersionResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, RulesVersionResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		rules := action.RulesVersion()
		result := RulesVersionResult{
			System:         rules.System,
			Module:         rules.Module,
			RulesVersion:   rules.RulesVersion,
			DiceModel:      rules.DiceModel,
			CritRule:       rules.CritRule,
			DegreeRule:     rules.DegreeRule,
			ResistanceRule: rules.ResistanceRule,
			StressRule:     rules.StressRule,
			HarmRule:       rules.HarmRule,
		}
		for _, degree := range rules.Degrees {
			result.Degrees = append(result.Degrees, degree.String())
		}
		for _, position := range rules.Positions {
			result.Positions = append(result.Positions, position.String())
		}
		for _, effect := range rules.Effects {
			result.Effects = append(result.Effects, effect.String())
		}
		return CallToolResultWithMetadata(meta), result, nil
	}
}

// RollDiceHandler rolls free-form dice. Without a client seed a fresh
// server seed is drawn and reported so the roll can be replayed.
func RollDiceHandler(newSeed func() (int64, error), loc Localizer) mcp.ToolHandlerFor[RollDiceInput, RollDiceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollDiceInput) (*mcp.CallToolResult, RollDiceResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, RollDiceResult{}, fmt.Errorf("generate invocation id: %w", err)
		}

		rng := RngResult{SeedSource: "CLIENT"}
		if input.Seed != nil {
			rng.SeedUsed = *input.Seed
		} else {
			seed, err := newSeed()
			if err != nil {
				return nil, RollDiceResult{}, fmt.Errorf("generate seed: %w", err)
			}
			rng = RngResult{SeedUsed: seed, SeedSource: "SERVER"}
		}

		specs := make([]dice.Spec, 0, len(input.Dice))
		for _, spec := range input.Dice {
			specs = append(specs, dice.Spec{Sides: spec.Sides, Count: spec.Count})
		}
		rolled, err := dice.RollSpecs(dice.NewSeededSource(rng.SeedUsed), specs)
		if err != nil {
			return nil, RollDiceResult{}, loc.Fail(err)
		}

		rolls := make([]RollDiceRoll, 0, len(rolled.Rolls))
		for _, roll := range rolled.Rolls {
			rolls = append(rolls, RollDiceRoll{Sides: roll.Sides, Results: roll.Results, Total: roll.Total})
		}
		return CallToolResultWithMetadata(meta), RollDiceResult{Rolls: rolls, Total: rolled.Total, Rng: rng}, nil
	}
}

func parseSituation(position, effect string) (action.Position, action.Effect, error) {
	parsedPosition, err := action.ParsePosition(position)
	if err != nil {
		return action.PositionUnspecified, action.EffectUnspecified, err
	}
	parsedEffect, err := action.ParseEffect(effect)
	if err != nil {
		return action.PositionUnspecified, action.EffectUnspecified, err
	}
	return parsedPosition, parsedEffect, nil
}

func actionRollResult(outcome action.Outcome, loc Localizer) ActionRollResult {
	result := ActionRollResult{
		Dice:          outcome.Pool.Size,
		Rolls:         append([]int(nil), outcome.Pool.Rolls...),
		Value:         outcome.Pool.Value,
		Critical:      outcome.Pool.Critical,
		Degree:        outcome.Degree.String(),
		DegreeLabel:   loc.Label(outcome.Degree.LabelKey()),
		Position:      outcome.Position.String(),
		PositionLabel: loc.Label(outcome.Position.LabelKey()),
		Effect:        outcome.Effect.String(),
		EffectLabel:   loc.Label(outcome.Effect.LabelKey()),
		Success:       outcome.Success(),
		Consequences:  []ConsequenceEntry{},
	}
	for _, c := range outcome.Consequences() {
		result.Consequences = append(result.Consequences, consequenceEntry(c, loc))
	}
	return result
}

func consequenceEntry(c action.Consequence, loc Localizer) ConsequenceEntry {
	entry := ConsequenceEntry{Kind: c.Kind.String(), Severity: c.Severity, Label: loc.Label(c.Kind.LabelKey())}
	if c.Kind == action.ConsequenceHarm {
		entry.Label += " (" + loc.Label(character.HarmLabelKey(c.Severity)) + ")"
	}
	return entry
}
