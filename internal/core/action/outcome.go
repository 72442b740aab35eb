package action

import (
	"fmt"

	"github.com/louisbranch/duskwall/internal/core/dice"
)

// Outcome is a resolved action roll.
type Outcome struct {
	Degree   dice.Degree
	Position Position
	Effect   Effect
	Pool     dice.Pool
}

// Resolve rolls size dice from src and pairs the degree with position and
// effect. Position and effect are checked before any die is drawn.
func Resolve(size int, position Position, effect Effect, src dice.Source) (Outcome, error) {
	if err := validate(position, effect); err != nil {
		return Outcome{}, err
	}
	pool, err := dice.Roll(size, src)
	if err != nil {
		return Outcome{}, fmt.Errorf("roll action pool: %w", err)
	}
	return outcomeFor(pool, position, effect), nil
}

// ResolveRolls builds the outcome for already rolled faces.
func ResolveRolls(size int, rolls []int, position Position, effect Effect) (Outcome, error) {
	if err := validate(position, effect); err != nil {
		return Outcome{}, err
	}
	pool, err := dice.Evaluate(size, rolls)
	if err != nil {
		return Outcome{}, err
	}
	return outcomeFor(pool, position, effect), nil
}

func outcomeFor(pool dice.Pool, position Position, effect Effect) Outcome {
	return Outcome{
		Degree:   pool.Degree(),
		Position: position,
		Effect:   effect,
		Pool:     pool,
	}
}

func validate(position Position, effect Effect) error {
	if !position.Valid() {
		return invalidPosition(position.String())
	}
	if !effect.Valid() {
		return invalidEffect(effect.String())
	}
	return nil
}

// HarmSeverity is the default harm level for the outcome's position:
// Controlled 1, Risky 2, Desperate 3.
func (o Outcome) HarmSeverity() int {
	switch o.Position {
	case PositionControlled:
		return 1
	case PositionRisky:
		return 2
	case PositionDesperate:
		return 3
	default:
		return 0
	}
}

// Consequences lists the consequences a narrator may choose from. Critical
// and Full outcomes carry none.
func (o Outcome) Consequences() []Consequence {
	harm := Harm(o.HarmSeverity())
	switch o.Degree {
	case dice.DegreePartial:
		switch o.Position {
		case PositionControlled, PositionRisky:
			return []Consequence{
				{Kind: ConsequenceReducedEffect},
				{Kind: ConsequenceComplicatedSuccess},
				harm,
				{Kind: ConsequenceReducedPosition},
			}
		case PositionDesperate:
			return []Consequence{
				{Kind: ConsequenceReducedEffect},
				{Kind: ConsequenceComplicatedSuccess},
				harm,
			}
		}
	case dice.DegreeFailure:
		switch o.Position {
		case PositionControlled:
			return []Consequence{
				{Kind: ConsequenceReducedPosition},
				{Kind: ConsequenceWorseOutcome},
			}
		case PositionRisky:
			return []Consequence{
				harm,
				{Kind: ConsequenceReducedPosition},
				{Kind: ConsequenceWorseOutcome},
			}
		case PositionDesperate:
			return []Consequence{
				harm,
				{Kind: ConsequenceWorseOutcome},
			}
		}
	}
	return nil
}

// Success reports whether the action achieved its goal, possibly at a cost.
func (o Outcome) Success() bool {
	return o.Degree.Success()
}
