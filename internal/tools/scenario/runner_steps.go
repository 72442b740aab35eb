package scenario

import (
	"context"

	"github.com/louisbranch/duskwall/internal/core/action"
	"github.com/louisbranch/duskwall/internal/core/character"
	"github.com/louisbranch/duskwall/internal/core/clock"
	"github.com/louisbranch/duskwall/internal/services/table/app"
)

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case "dice":
		return r.runDiceStep(step)
	case "character":
		return r.runCharacterStep(ctx, state, step)
	case "action_roll":
		return r.runActionRollStep(ctx, state, step)
	case "resist":
		return r.runResistStep(ctx, state, step)
	case "stress":
		return r.runStressStep(ctx, state, step)
	case "clear_stress":
		return r.runClearStressStep(ctx, state, step)
	case "harm":
		return r.runHarmStep(ctx, state, step)
	case "heal":
		return r.runHealStep(ctx, state, step)
	case "consequence":
		return r.runConsequenceStep(ctx, state, step)
	case "clock":
		return r.runClockStep(ctx, state, step)
	case "fill":
		return r.runFillStep(ctx, state, step)
	case "tick":
		return r.runTickStep(ctx, state, step)
	case "reset":
		return r.runResetStep(ctx, state, step)
	case "expect_character":
		return r.runExpectCharacterStep(ctx, state, step)
	case "expect_clock":
		return r.runExpectClockStep(ctx, state, step)
	case "expect_journal":
		return r.runExpectJournalStep(ctx, step)
	default:
		return r.failf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) runDiceStep(step Step) error {
	values, err := readInts(step.Args, "values")
	if err != nil {
		return r.failf("dice: %v", err)
	}
	return r.source.Push(values...)
}

func (r *Runner) runCharacterStep(ctx context.Context, state *scenarioState, step Step) error {
	name := requiredString(step.Args, "name")
	if name == "" {
		return r.failf("character name is required")
	}
	if _, exists := state.characters[name]; exists {
		return r.failf("character %q already exists", name)
	}
	view, err := r.table.CreateCharacter(ctx, app.CharacterInput{
		Name: name,
		Capacity: character.Capacity{
			Lesser:   optionalInt(step.Args, "lesser", 0),
			Moderate: optionalInt(step.Args, "moderate", 0),
			Severe:   optionalInt(step.Args, "severe", 0),
			Fatal:    optionalInt(step.Args, "fatal", 0),
		},
	})
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	state.characters[name] = view.ID
	return nil
}

func (r *Runner) runActionRollStep(ctx context.Context, state *scenarioState, step Step) error {
	size, ok := readInt(step.Args, "dice")
	if !ok {
		return r.failf("action_roll requires dice")
	}
	input := app.ActionRollInput{
		Dice: size,
		Note: optionalString(step.Args, "note", ""),
	}
	if name := requiredString(step.Args, "character"); name != "" {
		id, err := characterID(state, name)
		if err != nil {
			return r.failf("action_roll: %v", err)
		}
		input.CharacterID = id
	}

	position, err := action.ParsePosition(optionalString(step.Args, "position", "risky"))
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	effect, err := action.ParseEffect(optionalString(step.Args, "effect", "standard"))
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	input.Position = position
	input.Effect = effect

	outcome, err := r.table.ActionRoll(ctx, input)
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	r.logf("action_roll: rolls=%v value=%d degree=%s", outcome.Pool.Rolls, outcome.Pool.Value, outcome.Degree)
	return firstError(
		r.expectString(step.Args, "expect_degree", outcome.Degree.String()),
		r.expectInt(step.Args, "expect_value", outcome.Pool.Value),
		r.expectBool(step.Args, "expect_critical", outcome.Pool.Critical),
		r.expectBool(step.Args, "expect_success", outcome.Degree.Success()),
	)
}

func (r *Runner) runResistStep(ctx context.Context, state *scenarioState, step Step) error {
	id, err := characterID(state, requiredString(step.Args, "name"))
	if err != nil {
		return r.failf("resist: %v", err)
	}
	input := app.ResistanceRollInput{
		CharacterID: id,
		Dice:        optionalInt(step.Args, "dice", 0),
		Note:        optionalString(step.Args, "note", ""),
	}
	if raw, ok := readTable(step.Args, "consequence"); ok {
		consequence, err := readConsequence(raw)
		if handled, err := r.checkStepError(step.Args, err); handled {
			return err
		}
		input.Consequence = consequence
	}

	outcome, err := r.table.ResistanceRoll(ctx, input)
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	r.logf("resist: rolls=%v cost=%d stress=%d", outcome.Pool.Rolls, outcome.StressCost, outcome.Character.Stress)
	return firstError(
		r.expectString(step.Args, "expect_degree", outcome.Degree.String()),
		r.expectInt(step.Args, "expect_cost", outcome.StressCost),
		r.expectInt(step.Args, "expect_stress", outcome.Character.Stress),
		r.expectBool(step.Args, "expect_trauma", outcome.Stress.TraumaTriggered),
		r.expectBool(step.Args, "expect_retired", outcome.Character.Retired),
		r.expectBool(step.Args, "expect_avoided", outcome.Avoided),
		r.expectInt(step.Args, "expect_remaining", outcome.Remaining.Severity),
	)
}

func (r *Runner) runStressStep(ctx context.Context, state *scenarioState, step Step) error {
	id, err := characterID(state, requiredString(step.Args, "name"))
	if err != nil {
		return r.failf("stress: %v", err)
	}
	view, result, err := r.table.ApplyStress(ctx, id, optionalInt(step.Args, "amount", 0))
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	traumaKind := ""
	if result.TraumaTriggered {
		traumaKind = result.Trauma.String()
	}
	return firstError(
		r.expectInt(step.Args, "expect_stress", view.Stress),
		r.expectBool(step.Args, "expect_trauma", result.TraumaTriggered),
		r.expectString(step.Args, "expect_trauma_kind", traumaKind),
		r.expectBool(step.Args, "expect_retired", view.Retired),
	)
}

func (r *Runner) runClearStressStep(ctx context.Context, state *scenarioState, step Step) error {
	id, err := characterID(state, requiredString(step.Args, "name"))
	if err != nil {
		return r.failf("clear_stress: %v", err)
	}
	view, _, err := r.table.ClearStress(ctx, id, optionalInt(step.Args, "amount", 0))
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	return r.expectInt(step.Args, "expect_stress", view.Stress)
}

func (r *Runner) runHarmStep(ctx context.Context, state *scenarioState, step Step) error {
	id, err := characterID(state, requiredString(step.Args, "name"))
	if err != nil {
		return r.failf("harm: %v", err)
	}
	view, result, err := r.table.ApplyHarm(ctx, id, optionalInt(step.Args, "severity", 0), optionalString(step.Args, "description", ""))
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	return firstError(
		r.expectInt(step.Args, "expect_severity", result.Severity),
		r.expectBool(step.Args, "expect_upgraded", result.Upgraded),
		r.expectBool(step.Args, "expect_fatal", result.Fatal),
		r.expectBool(step.Args, "expect_incapacitated", view.Incapacitated),
	)
}

func (r *Runner) runHealStep(ctx context.Context, state *scenarioState, step Step) error {
	id, err := characterID(state, requiredString(step.Args, "name"))
	if err != nil {
		return r.failf("heal: %v", err)
	}
	_, result, err := r.table.Heal(ctx, id)
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	return firstError(
		r.expectInt(step.Args, "expect_removed", result.Removed),
		r.expectInt(step.Args, "expect_downgraded", result.Downgraded),
	)
}

func (r *Runner) runConsequenceStep(ctx context.Context, state *scenarioState, step Step) error {
	input := app.ConsequenceInput{Description: optionalString(step.Args, "description", "")}
	if name := requiredString(step.Args, "character"); name != "" {
		id, err := characterID(state, name)
		if err != nil {
			return r.failf("consequence: %v", err)
		}
		input.CharacterID = id
	}

	consequence, err := readConsequence(step.Args)
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	position, err := action.ParsePosition(optionalString(step.Args, "position", "risky"))
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	effect, err := action.ParseEffect(optionalString(step.Args, "effect", "standard"))
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	input.Consequence = consequence
	input.Situation = action.Situation{Position: position, Effect: effect}

	applied, err := r.table.ApplyConsequence(ctx, input)
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	severity := 0
	if applied.Harm != nil {
		severity = applied.Harm.Severity
	}
	return firstError(
		r.expectString(step.Args, "expect_position", applied.Situation.Position.String()),
		r.expectString(step.Args, "expect_effect", applied.Situation.Effect.String()),
		r.expectInt(step.Args, "expect_severity", severity),
	)
}

func (r *Runner) runClockStep(ctx context.Context, state *scenarioState, step Step) error {
	name := requiredString(step.Args, "name")
	if name == "" {
		return r.failf("clock name is required")
	}
	if _, exists := state.clocks[name]; exists {
		return r.failf("clock %q already exists", name)
	}
	view, err := r.table.CreateClock(ctx, name, optionalInt(step.Args, "segments", 0))
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	state.clocks[name] = view.ID
	return nil
}

func (r *Runner) runFillStep(ctx context.Context, state *scenarioState, step Step) error {
	id, err := clockID(state, requiredString(step.Args, "name"))
	if err != nil {
		return r.failf("fill: %v", err)
	}
	view, result, err := r.table.FillClock(ctx, id, optionalInt(step.Args, "amount", 0))
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	return firstError(
		r.expectInt(step.Args, "expect_applied", result.Applied),
		r.expectInt(step.Args, "expect_filled", view.Filled),
		r.expectBool(step.Args, "expect_completed", view.Completed),
		r.expectBool(step.Args, "expect_overflow", result.Overflow),
	)
}

func (r *Runner) runTickStep(ctx context.Context, state *scenarioState, step Step) error {
	id, err := clockID(state, requiredString(step.Args, "name"))
	if err != nil {
		return r.failf("tick: %v", err)
	}
	tick, err := r.table.TickClock(ctx, id, optionalInt(step.Args, "dice", 0))
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	degree := tick.Pool.Degree()
	return firstError(
		r.expectString(step.Args, "expect_degree", degree.String()),
		r.expectInt(step.Args, "expect_ticks", clock.TicksFor(degree)),
		r.expectInt(step.Args, "expect_filled", tick.Clock.Filled),
		r.expectBool(step.Args, "expect_completed", tick.Clock.Completed),
	)
}

func (r *Runner) runResetStep(ctx context.Context, state *scenarioState, step Step) error {
	id, err := clockID(state, requiredString(step.Args, "name"))
	if err != nil {
		return r.failf("reset: %v", err)
	}
	view, err := r.table.ResetClock(ctx, id)
	if handled, err := r.checkStepError(step.Args, err); handled {
		return err
	}
	return r.expectInt(step.Args, "expect_filled", view.Filled)
}

func (r *Runner) runExpectCharacterStep(ctx context.Context, state *scenarioState, step Step) error {
	id, err := characterID(state, requiredString(step.Args, "name"))
	if err != nil {
		return r.failf("expect_character: %v", err)
	}
	view, err := r.table.GetCharacter(ctx, id)
	if err != nil {
		return err
	}
	return firstError(
		r.expectInt(step.Args, "stress", view.Stress),
		r.expectInt(step.Args, "traumas", len(view.Traumas)),
		r.expectInt(step.Args, "harm", len(view.Harm)),
		r.expectBool(step.Args, "incapacitated", view.Incapacitated),
		r.expectBool(step.Args, "retired", view.Retired),
	)
}

func (r *Runner) runExpectClockStep(ctx context.Context, state *scenarioState, step Step) error {
	id, err := clockID(state, requiredString(step.Args, "name"))
	if err != nil {
		return r.failf("expect_clock: %v", err)
	}
	view, err := r.table.GetClock(ctx, id)
	if err != nil {
		return err
	}
	return firstError(
		r.expectInt(step.Args, "segments", view.Segments),
		r.expectInt(step.Args, "filled", view.Filled),
		r.expectBool(step.Args, "completed", view.Completed),
	)
}

func (r *Runner) runExpectJournalStep(ctx context.Context, step Step) error {
	entries, err := r.table.Journal(ctx, 0)
	if err != nil {
		return err
	}
	lastKind, lastDegree := "", ""
	if len(entries) > 0 {
		lastKind = entries[0].Kind
		lastDegree = entries[0].Degree
	}
	return firstError(
		r.expectInt(step.Args, "count", len(entries)),
		r.expectString(step.Args, "last_kind", lastKind),
		r.expectString(step.Args, "last_degree", lastDegree),
	)
}

// readConsequence builds a consequence from kind and severity arguments.
func readConsequence(args map[string]any) (action.Consequence, error) {
	kind, err := action.ParseConsequenceKind(optionalString(args, "kind", ""))
	if err != nil {
		return action.Consequence{}, err
	}
	return action.Consequence{Kind: kind, Severity: optionalInt(args, "severity", 0)}, nil
}
