package dice

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/duskwall/internal/platform/errors"
)

// Limits for free-form dice specs.
const (
	MaxSpecCount = 100
	MaxSpecSides = 1000
)

// Spec describes a die to roll and how many times to roll it.
type Spec struct {
	Sides int
	Count int
}

// SpecRoll captures the results for a single dice spec.
type SpecRoll struct {
	Sides   int
	Results []int
	Total   int
}

// SpecResult captures the results from rolling multiple specs.
type SpecResult struct {
	Rolls []SpecRoll
	Total int
}

// RollSpecs rolls free-form dice such as 2d6+1d8 from rng, outside the
// pool rules. Specs are processed in order and every spec needs positive
// sides and count within MaxSpecSides and MaxSpecCount.
func RollSpecs(rng Intner, specs []Spec) (SpecResult, error) {
	if len(specs) == 0 {
		return SpecResult{}, ErrMissingDice
	}
	for _, spec := range specs {
		if spec.Sides <= 0 || spec.Count <= 0 {
			return SpecResult{}, ErrInvalidDiceSpec
		}
		if spec.Sides > MaxSpecSides || spec.Count > MaxSpecCount {
			return SpecResult{}, apperrors.WithMetadata(apperrors.CodeDiceSpecTooBig,
				fmt.Sprintf("dice spec %dd%d is above the limit", spec.Count, spec.Sides),
				map[string]string{
					"Spec":     fmt.Sprintf("%dd%d", spec.Count, spec.Sides),
					"MaxCount": strconv.Itoa(MaxSpecCount),
					"MaxSides": strconv.Itoa(MaxSpecSides),
				})
		}
	}

	rolls := make([]SpecRoll, 0, len(specs))
	total := 0
	for _, spec := range specs {
		results := make([]int, spec.Count)
		rollTotal := 0
		for i := range results {
			results[i] = rng.Intn(spec.Sides) + 1
			rollTotal += results[i]
		}
		rolls = append(rolls, SpecRoll{Sides: spec.Sides, Results: results, Total: rollTotal})
		total += rollTotal
	}
	return SpecResult{Rolls: rolls, Total: total}, nil
}
