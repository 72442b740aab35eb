// Package resistance rolls resistance pools that trade stress for a
// reduced consequence.
package resistance

import (
	"fmt"

	"github.com/louisbranch/duskwall/internal/core/character"
	"github.com/louisbranch/duskwall/internal/core/dice"
)

// Result is a resolved resistance roll.
type Result struct {
	Pool       dice.Pool
	Degree     dice.Degree
	StressCost int
	Stress     character.StressResult
}

// StressCost is 6 minus the pool value, never below zero.
func StressCost(pool dice.Pool) int {
	return max(0, dice.Sides-pool.Value)
}

// Resist rolls size dice from src and charges the stress cost to state.
// The roll happens outside the state's lock; the stress, and any trauma
// it forces, lands in one locked step. A failed stress application leaves
// state untouched and returns the rolled pool alongside the error.
func Resist(size int, src dice.Source, state *character.State) (Result, error) {
	if state == nil {
		return Result{}, fmt.Errorf("resist: character state is required")
	}
	pool, err := dice.Roll(size, src)
	if err != nil {
		return Result{}, fmt.Errorf("roll resistance pool: %w", err)
	}
	result := Result{Pool: pool, Degree: pool.Degree(), StressCost: StressCost(pool)}

	stress, err := state.ApplyStress(result.StressCost)
	if err != nil {
		return result, err
	}
	result.Stress = stress
	return result, nil
}
