package domain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/louisbranch/duskwall/internal/core/action"
	"github.com/louisbranch/duskwall/internal/core/character"
	apperrors "github.com/louisbranch/duskwall/internal/platform/errors"
	"github.com/louisbranch/duskwall/internal/services/table/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// LabeledValue pairs a stable value with its localized label.
type LabeledValue struct {
	Value string `json:"value" jsonschema:"stable value"`
	Label string `json:"label" jsonschema:"localized label"`
}

// HarmEntry is one filled harm slot.
type HarmEntry struct {
	Severity    int    `json:"severity" jsonschema:"harm severity from 1 (lesser) to 4 (fatal)"`
	Label       string `json:"label" jsonschema:"localized severity label"`
	Description string `json:"description,omitempty" jsonschema:"narrative description of the harm"`
}

// CapacityInput sets the slots per harm tier.
type CapacityInput struct {
	Lesser   int `json:"lesser" jsonschema:"lesser harm slots"`
	Moderate int `json:"moderate" jsonschema:"moderate harm slots"`
	Severe   int `json:"severe" jsonschema:"severe harm slots"`
	Fatal    int `json:"fatal" jsonschema:"fatal harm slots"`
}

// CharacterCreateInput represents the MCP tool input for creating a character.
type CharacterCreateInput struct {
	Name     string         `json:"name" jsonschema:"character name"`
	Capacity *CapacityInput `json:"capacity,omitempty" jsonschema:"optional harm track capacity; defaults to 2/2/1/1"`
}

// CharacterIDInput represents an MCP tool input naming one character.
type CharacterIDInput struct {
	CharacterID string `json:"character_id" jsonschema:"character identifier"`
}

// CharacterListInput represents the MCP tool input for listing characters.
type CharacterListInput struct{}

// CharacterResult represents a character in MCP tool output.
type CharacterResult struct {
	ID            string         `json:"id" jsonschema:"character identifier"`
	Name          string         `json:"name" jsonschema:"character name"`
	Stress        int            `json:"stress" jsonschema:"current stress"`
	MaxStress     int            `json:"max_stress" jsonschema:"stress that triggers trauma"`
	Traumas       []LabeledValue `json:"traumas" jsonschema:"trauma conditions in the order gained"`
	Harm          []HarmEntry    `json:"harm" jsonschema:"filled harm slots"`
	Capacity      CapacityInput  `json:"capacity" jsonschema:"harm track capacity"`
	Incapacitated bool           `json:"incapacitated" jsonschema:"whether fatal harm is marked"`
	Retired       bool           `json:"retired" jsonschema:"whether the character holds the maximum traumas"`
	CreatedAt     string         `json:"created_at" jsonschema:"RFC3339 creation time"`
	UpdatedAt     string         `json:"updated_at" jsonschema:"RFC3339 last update time"`
}

// CharacterListResult represents the MCP tool output for listing characters.
type CharacterListResult struct {
	Characters []CharacterResult `json:"characters" jsonschema:"characters in creation order"`
}

// StressInput represents the MCP tool input for marking or clearing stress.
type StressInput struct {
	CharacterID string `json:"character_id" jsonschema:"character identifier"`
	Amount      int    `json:"amount" jsonschema:"stress to mark or clear; must not be negative"`
}

// StressResult represents the MCP tool output for a stress change.
type StressResult struct {
	Character       CharacterResult `json:"character" jsonschema:"character after the change"`
	Before          int             `json:"before" jsonschema:"stress before the change"`
	After           int             `json:"after" jsonschema:"stress after the change"`
	TraumaTriggered bool            `json:"trauma_triggered" jsonschema:"whether stress overflowed into trauma"`
	Trauma          *LabeledValue   `json:"trauma,omitempty" jsonschema:"trauma gained, when triggered"`
	Retired         bool            `json:"retired" jsonschema:"whether the character is now retired"`
}

// HarmApplyInput represents the MCP tool input for marking harm.
type HarmApplyInput struct {
	CharacterID string `json:"character_id" jsonschema:"character identifier"`
	Severity    int    `json:"severity" jsonschema:"harm severity from 1 (lesser) to 4 (fatal)"`
	Description string `json:"description,omitempty" jsonschema:"narrative description of the harm"`
}

// HarmApplyResult represents the MCP tool output for marking harm.
type HarmApplyResult struct {
	Character     CharacterResult `json:"character" jsonschema:"character after the harm"`
	Requested     int             `json:"requested" jsonschema:"severity asked for"`
	Severity      int             `json:"severity" jsonschema:"severity actually marked after upgrades"`
	SeverityLabel string          `json:"severity_label" jsonschema:"localized label of the marked severity"`
	Upgraded      bool            `json:"upgraded" jsonschema:"whether a full tier pushed the harm up"`
	Fatal         bool            `json:"fatal" jsonschema:"whether the harm is fatal"`
	SlotFilled    bool            `json:"slot_filled" jsonschema:"whether a harm slot was marked"`
	ErrorCode     string          `json:"error_code,omitempty" jsonschema:"error code when the harm could not be marked"`
}

// HealResult represents the MCP tool output for a recovery step.
type HealResult struct {
	Character  CharacterResult `json:"character" jsonschema:"character after healing"`
	Removed    int             `json:"removed" jsonschema:"lesser harm slots cleared"`
	Downgraded int             `json:"downgraded" jsonschema:"harm slots moved down one tier"`
}

// ConsequenceInput names a consequence in MCP tool input.
type ConsequenceInput struct {
	Kind     string `json:"kind" jsonschema:"reduced_effect, complicated_success, harm, reduced_position or worse_outcome"`
	Severity int    `json:"severity,omitempty" jsonschema:"harm severity from 1 (lesser) to 4 (fatal); harm only"`
}

// ResistanceRollInput represents the MCP tool input for a resistance roll.
type ResistanceRollInput struct {
	CharacterID string            `json:"character_id" jsonschema:"resisting character"`
	Dice        int               `json:"dice" jsonschema:"attribute rating; 0 rolls two dice and keeps the lower"`
	Consequence *ConsequenceInput `json:"consequence,omitempty" jsonschema:"optional consequence being resisted"`
	Note        string            `json:"note,omitempty" jsonschema:"optional journal note"`
}

// ResistanceRollResult represents the MCP tool output for a resistance roll.
type ResistanceRollResult struct {
	Dice        int               `json:"dice" jsonschema:"dice pool size"`
	Rolls       []int             `json:"rolls" jsonschema:"die faces in draw order"`
	Value       int               `json:"value" jsonschema:"resolved pool value"`
	Critical    bool              `json:"critical" jsonschema:"whether the roll is a critical"`
	Degree      string            `json:"degree" jsonschema:"Critical, Full, Partial or Failure"`
	DegreeLabel string            `json:"degree_label" jsonschema:"localized degree label"`
	StressCost  int               `json:"stress_cost" jsonschema:"stress paid: six minus the pool value, never below zero"`
	Stress      StressResult      `json:"stress" jsonschema:"stress change from the cost"`
	Remaining   *ConsequenceEntry `json:"remaining,omitempty" jsonschema:"what is left of the resisted consequence"`
	Avoided     bool              `json:"avoided" jsonschema:"whether the consequence was avoided entirely"`
}

// ConsequenceApplyInput represents the MCP tool input for applying a consequence.
type ConsequenceApplyInput struct {
	CharacterID string           `json:"character_id,omitempty" jsonschema:"character taking harm; required for harm"`
	Consequence ConsequenceInput `json:"consequence" jsonschema:"consequence to apply"`
	Position    string           `json:"position" jsonschema:"current position"`
	Effect      string           `json:"effect" jsonschema:"current effect"`
	Description string           `json:"description,omitempty" jsonschema:"narrative description for harm"`
}

// ConsequenceApplyResult represents the MCP tool output for an applied consequence.
type ConsequenceApplyResult struct {
	Consequence   ConsequenceEntry `json:"consequence" jsonschema:"consequence applied"`
	Position      string           `json:"position" jsonschema:"position after the consequence"`
	PositionLabel string           `json:"position_label" jsonschema:"localized position label"`
	Effect        string           `json:"effect" jsonschema:"effect after the consequence"`
	EffectLabel   string           `json:"effect_label" jsonschema:"localized effect label"`
	Harm          *HarmApplyResult `json:"harm,omitempty" jsonschema:"harm marked, for harm consequences"`
}

// CharacterCreateTool defines the MCP tool schema for creating characters.
func CharacterCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "character_create",
		Description: "Creates an unstressed, unharmed character",
	}
}

// CharacterGetTool defines the MCP tool schema for reading a character.
func CharacterGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "character_get",
		Description: "Returns a character's stress, traumas and harm",
	}
}

// CharacterListTool defines the MCP tool schema for listing characters.
func CharacterListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "character_list",
		Description: "Lists every character at the table",
	}
}

// StressApplyTool defines the MCP tool schema for marking stress.
func StressApplyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "stress_apply",
		Description: "Marks stress; reaching the cap resets stress and adds a trauma",
	}
}

// StressClearTool defines the MCP tool schema for clearing stress.
func StressClearTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "stress_clear",
		Description: "Clears stress, never below zero",
	}
}

// HarmApplyTool defines the MCP tool schema for marking harm.
func HarmApplyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "harm_apply",
		Description: "Marks harm, moving up a tier when the requested tier is full",
	}
}

// HarmHealTool defines the MCP tool schema for recovery.
func HarmHealTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "harm_heal",
		Description: "Runs one recovery step: clears lesser harm and moves the rest down a tier",
	}
}

// ResistanceRollTool defines the MCP tool schema for resistance rolls.
func ResistanceRollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "resistance_roll",
		Description: "Rolls resistance, charges its stress cost and reduces a consequence",
	}
}

// ConsequenceApplyTool defines the MCP tool schema for applying consequences.
func ConsequenceApplyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "consequence_apply",
		Description: "Applies a consequence to the current situation or a character",
	}
}

// CharacterCreateHandler creates a character.
func CharacterCreateHandler(table Table, loc Localizer, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[CharacterCreateInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterCreateInput) (*mcp.CallToolResult, CharacterResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, CharacterResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		create := app.CharacterInput{Name: input.Name}
		if input.Capacity != nil {
			create.Capacity = character.Capacity{
				Lesser:   input.Capacity.Lesser,
				Moderate: input.Capacity.Moderate,
				Severe:   input.Capacity.Severe,
				Fatal:    input.Capacity.Fatal,
			}
		}
		view, err := table.CreateCharacter(ctx, create)
		if err != nil {
			return nil, CharacterResult{}, loc.Fail(err)
		}
		NotifyResourceUpdates(ctx, notify, CharactersResourceURI, CharacterResourceURI(view.ID))
		return CallToolResultWithMetadata(meta), characterResult(view, loc), nil
	}
}

// CharacterGetHandler reads one character.
func CharacterGetHandler(table Table, loc Localizer) mcp.ToolHandlerFor[CharacterIDInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterIDInput) (*mcp.CallToolResult, CharacterResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, CharacterResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		view, err := table.GetCharacter(ctx, input.CharacterID)
		if err != nil {
			return nil, CharacterResult{}, loc.Fail(err)
		}
		return CallToolResultWithMetadata(meta), characterResult(view, loc), nil
	}
}

// CharacterListHandler lists every character.
func CharacterListHandler(table Table, loc Localizer) mcp.ToolHandlerFor[CharacterListInput, CharacterListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ CharacterListInput) (*mcp.CallToolResult, CharacterListResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, CharacterListResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		views, err := table.ListCharacters(ctx)
		if err != nil {
			return nil, CharacterListResult{}, loc.Fail(err)
		}
		result := CharacterListResult{Characters: make([]CharacterResult, 0, len(views))}
		for _, view := range views {
			result.Characters = append(result.Characters, characterResult(view, loc))
		}
		return CallToolResultWithMetadata(meta), result, nil
	}
}

// StressApplyHandler marks stress.
func StressApplyHandler(table Table, loc Localizer, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[StressInput, StressResult] {
	return stressHandler(table.ApplyStress, loc, notify)
}

// StressClearHandler clears stress.
func StressClearHandler(table Table, loc Localizer, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[StressInput, StressResult] {
	return stressHandler(table.ClearStress, loc, notify)
}

type stressFunc func(ctx context.Context, characterID string, amount int) (app.CharacterView, character.StressResult, error)

func stressHandler(apply stressFunc, loc Localizer, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[StressInput, StressResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StressInput) (*mcp.CallToolResult, StressResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, StressResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		view, change, err := apply(ctx, input.CharacterID, input.Amount)
		if err != nil {
			return nil, StressResult{}, loc.Fail(err)
		}
		NotifyResourceUpdates(ctx, notify, CharactersResourceURI, CharacterResourceURI(view.ID))
		return CallToolResultWithMetadata(meta), stressResult(view, change, loc), nil
	}
}

// HarmApplyHandler marks harm. Harm spilling past a filled fatal slot is
// reported as an error result that still carries the structured output with
// fatal set and no slot filled.
func HarmApplyHandler(table Table, loc Localizer, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[HarmApplyInput, HarmApplyResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input HarmApplyInput) (*mcp.CallToolResult, HarmApplyResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, HarmApplyResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		view, harm, err := table.ApplyHarm(ctx, input.CharacterID, input.Severity, input.Description)
		var full *ToolError
		if errors.Is(err, character.ErrHarmTrackFull) && errors.As(loc.Fail(err), &full) {
			res := CallToolResultWithMetadata(meta)
			res.IsError = true
			res.Content = []mcp.Content{&mcp.TextContent{Text: full.Message}}
			out := harmApplyResult(view, harm, loc)
			out.ErrorCode = string(full.Code)
			return res, out, nil
		}
		if err != nil {
			return nil, HarmApplyResult{}, loc.Fail(err)
		}
		NotifyResourceUpdates(ctx, notify, CharactersResourceURI, CharacterResourceURI(view.ID))
		return CallToolResultWithMetadata(meta), harmApplyResult(view, harm, loc), nil
	}
}

// HarmHealHandler runs one recovery step.
func HarmHealHandler(table Table, loc Localizer, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[CharacterIDInput, HealResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterIDInput) (*mcp.CallToolResult, HealResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, HealResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		view, heal, err := table.Heal(ctx, input.CharacterID)
		if err != nil {
			return nil, HealResult{}, loc.Fail(err)
		}
		NotifyResourceUpdates(ctx, notify, CharactersResourceURI, CharacterResourceURI(view.ID))
		return CallToolResultWithMetadata(meta), HealResult{
			Character:  characterResult(view, loc),
			Removed:    heal.Removed,
			Downgraded: heal.Downgraded,
		}, nil
	}
}

// ResistanceRollHandler rolls resistance for a character.
func ResistanceRollHandler(table Table, loc Localizer, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[ResistanceRollInput, ResistanceRollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ResistanceRollInput) (*mcp.CallToolResult, ResistanceRollResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, ResistanceRollResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		roll := app.ResistanceRollInput{
			CharacterID: input.CharacterID,
			Dice:        input.Dice,
			Note:        input.Note,
		}
		if input.Consequence != nil {
			roll.Consequence, err = parseConsequence(*input.Consequence)
			if err != nil {
				return nil, ResistanceRollResult{}, loc.Fail(err)
			}
		}
		outcome, err := table.ResistanceRoll(ctx, roll)
		if err != nil {
			return nil, ResistanceRollResult{}, loc.Fail(err)
		}
		NotifyResourceUpdates(ctx, notify, CharactersResourceURI, CharacterResourceURI(outcome.Character.ID), JournalResourceURI)

		result := ResistanceRollResult{
			Dice:        outcome.Pool.Size,
			Rolls:       append([]int(nil), outcome.Pool.Rolls...),
			Value:       outcome.Pool.Value,
			Critical:    outcome.Pool.Critical,
			Degree:      outcome.Degree.String(),
			DegreeLabel: loc.Label(outcome.Degree.LabelKey()),
			StressCost:  outcome.StressCost,
			Stress:      stressResult(outcome.Character, outcome.Stress, loc),
			Avoided:     outcome.Avoided,
		}
		if outcome.Remaining.Valid() {
			remaining := consequenceEntry(outcome.Remaining, loc)
			result.Remaining = &remaining
		}
		return CallToolResultWithMetadata(meta), result, nil
	}
}

// ConsequenceApplyHandler applies a consequence.
func ConsequenceApplyHandler(table Table, loc Localizer, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[ConsequenceApplyInput, ConsequenceApplyResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ConsequenceApplyInput) (*mcp.CallToolResult, ConsequenceApplyResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, ConsequenceApplyResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		consequence, err := parseConsequence(input.Consequence)
		if err != nil {
			return nil, ConsequenceApplyResult{}, loc.Fail(err)
		}
		position, effect, err := parseSituation(input.Position, input.Effect)
		if err != nil {
			return nil, ConsequenceApplyResult{}, loc.Fail(err)
		}
		applied, err := table.ApplyConsequence(ctx, app.ConsequenceInput{
			CharacterID: input.CharacterID,
			Consequence: consequence,
			Situation:   action.Situation{Position: position, Effect: effect},
			Description: input.Description,
		})
		if err != nil {
			return nil, ConsequenceApplyResult{}, loc.Fail(err)
		}

		result := ConsequenceApplyResult{
			Consequence:   consequenceEntry(applied.Consequence, loc),
			Position:      applied.Situation.Position.String(),
			PositionLabel: loc.Label(applied.Situation.Position.LabelKey()),
			Effect:        applied.Situation.Effect.String(),
			EffectLabel:   loc.Label(applied.Situation.Effect.LabelKey()),
		}
		if applied.Harm != nil {
			view, err := table.GetCharacter(ctx, input.CharacterID)
			if err != nil {
				return nil, ConsequenceApplyResult{}, loc.Fail(err)
			}
			harm := harmApplyResult(view, *applied.Harm, loc)
			result.Harm = &harm
			NotifyResourceUpdates(ctx, notify, CharactersResourceURI, CharacterResourceURI(view.ID))
		}
		return CallToolResultWithMetadata(meta), result, nil
	}
}

func parseConsequence(input ConsequenceInput) (action.Consequence, error) {
	kind, err := action.ParseConsequenceKind(input.Kind)
	if err != nil {
		return action.Consequence{}, err
	}
	if kind != action.ConsequenceHarm {
		return action.Consequence{Kind: kind}, nil
	}
	consequence := action.Harm(input.Severity)
	if !consequence.Valid() {
		return action.Consequence{}, apperrors.WithMetadata(apperrors.CodeCharacterInvalidHarmSeverity,
			"invalid harm severity", map[string]string{"Severity": strconv.Itoa(input.Severity)})
	}
	return consequence, nil
}

func characterResult(view app.CharacterView, loc Localizer) CharacterResult {
	result := CharacterResult{
		ID:        view.ID,
		Name:      view.Name,
		Stress:    view.Stress,
		MaxStress: character.MaxStress,
		Traumas:   make([]LabeledValue, 0, len(view.Traumas)),
		Harm:      make([]HarmEntry, 0, len(view.Harm)),
		Capacity: CapacityInput{
			Lesser:   view.Capacity.Lesser,
			Moderate: view.Capacity.Moderate,
			Severe:   view.Capacity.Severe,
			Fatal:    view.Capacity.Fatal,
		},
		Incapacitated: view.Incapacitated,
		Retired:       view.Retired,
		CreatedAt:     formatTime(view.CreatedAt),
		UpdatedAt:     formatTime(view.UpdatedAt),
	}
	for _, trauma := range view.Traumas {
		result.Traumas = append(result.Traumas, traumaValue(trauma, loc))
	}
	for _, harm := range view.Harm {
		result.Harm = append(result.Harm, HarmEntry{
			Severity:    harm.Severity,
			Label:       loc.Label(character.HarmLabelKey(harm.Severity)),
			Description: harm.Description,
		})
	}
	return result
}

func stressResult(view app.CharacterView, change character.StressResult, loc Localizer) StressResult {
	result := StressResult{
		Character:       characterResult(view, loc),
		Before:          change.Before,
		After:           change.After,
		TraumaTriggered: change.TraumaTriggered,
		Retired:         change.Retired,
	}
	if change.TraumaTriggered {
		trauma := traumaValue(change.Trauma, loc)
		result.Trauma = &trauma
	}
	return result
}

func harmApplyResult(view app.CharacterView, harm character.HarmResult, loc Localizer) HarmApplyResult {
	return HarmApplyResult{
		Character:     characterResult(view, loc),
		Requested:     harm.Requested,
		Severity:      harm.Severity,
		SeverityLabel: loc.Label(character.HarmLabelKey(harm.Severity)),
		Upgraded:      harm.Upgraded,
		Fatal:         harm.Fatal,
		SlotFilled:    harm.SlotFilled,
	}
}

func traumaValue(trauma character.Trauma, loc Localizer) LabeledValue {
	return LabeledValue{Value: trauma.String(), Label: loc.Label(trauma.LabelKey())}
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
