package dice

import (
	"strconv"

	apperrors "github.com/louisbranch/duskwall/internal/platform/errors"
)

// MaxProbabilityDice bounds exact probability tables.
const MaxProbabilityDice = 10

// OutcomeCount captures a count for a specific degree.
type OutcomeCount struct {
	Degree Degree
	Count  int
}

// ProbabilityResult captures exact degree counts across the dice space.
type ProbabilityResult struct {
	Size          int
	TotalOutcomes int
	CriticalCount int
	FullCount     int
	PartialCount  int
	FailureCount  int
	OutcomeCounts []OutcomeCount
}

// Chance returns the probability of degree in [0,1].
func (r ProbabilityResult) Chance(degree Degree) float64 {
	if r.TotalOutcomes == 0 {
		return 0
	}
	for _, oc := range r.OutcomeCounts {
		if oc.Degree == degree {
			return float64(oc.Count) / float64(r.TotalOutcomes)
		}
	}
	return 0
}

// Probability counts each degree over every ordered outcome of a pool.
func Probability(size int) (ProbabilityResult, error) {
	if err := checkSize(size); err != nil {
		return ProbabilityResult{}, err
	}
	if size > MaxProbabilityDice {
		return ProbabilityResult{}, apperrors.WithMetadata(apperrors.CodeDiceProbabilityTooBig,
			"probability size "+strconv.Itoa(size)+" too big",
			map[string]string{"Max": strconv.Itoa(MaxProbabilityDice)})
	}

	result := ProbabilityResult{Size: size}
	if size == 0 {
		// Lower of two dice: at least k on both dice is (7-k)^2.
		result.TotalOutcomes = 36
		result.FullCount = 1
		result.PartialCount = 9 - 1
		result.FailureCount = 36 - 9
	} else {
		result.TotalOutcomes = pow(6, size)
		result.FailureCount = pow(3, size)
		result.PartialCount = pow(5, size) - pow(3, size)
		result.FullCount = size * pow(5, size-1)
		result.CriticalCount = result.TotalOutcomes - pow(5, size) - result.FullCount
	}
	result.OutcomeCounts = []OutcomeCount{
		{Degree: DegreeCritical, Count: result.CriticalCount},
		{Degree: DegreeFull, Count: result.FullCount},
		{Degree: DegreePartial, Count: result.PartialCount},
		{Degree: DegreeFailure, Count: result.FailureCount},
	}
	return result, nil
}

func pow(base, exp int) int {
	out := 1
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}
