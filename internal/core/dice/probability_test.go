package dice

import (
	"errors"
	"testing"
)

func TestProbabilityCounts(t *testing.T) {
	tests := []struct {
		size                                int
		total, critical, full, partial, fail int
	}{
		{size: 0, total: 36, critical: 0, full: 1, partial: 8, fail: 27},
		{size: 1, total: 6, critical: 0, full: 1, partial: 2, fail: 3},
		{size: 2, total: 36, critical: 1, full: 10, partial: 16, fail: 9},
		{size: 3, total: 216, critical: 16, full: 75, partial: 98, fail: 27},
	}
	for _, tt := range tests {
		got, err := Probability(tt.size)
		if err != nil {
			t.Fatalf("Probability(%d) error = %v", tt.size, err)
		}
		if got.TotalOutcomes != tt.total || got.CriticalCount != tt.critical || got.FullCount != tt.full ||
			got.PartialCount != tt.partial || got.FailureCount != tt.fail {
			t.Errorf("Probability(%d) = %+v", tt.size, got)
		}
	}
}

func TestProbabilityMatchesEnumeration(t *testing.T) {
	for size := 0; size <= 4; size++ {
		want := map[Degree]int{}
		n := DiceFor(size)
		faces := make([]int, n)
		var walk func(i int)
		walk = func(i int) {
			if i == n {
				pool, err := Evaluate(size, faces)
				if err != nil {
					t.Fatalf("Evaluate() error = %v", err)
				}
				want[pool.Degree()]++
				return
			}
			for f := 1; f <= 6; f++ {
				faces[i] = f
				walk(i + 1)
			}
		}
		walk(0)

		got, err := Probability(size)
		if err != nil {
			t.Fatalf("Probability(%d) error = %v", size, err)
		}
		for _, oc := range got.OutcomeCounts {
			if oc.Count != want[oc.Degree] {
				t.Errorf("Probability(%d) %v = %d, want %d", size, oc.Degree, oc.Count, want[oc.Degree])
			}
		}
	}
}

func TestProbabilityBounds(t *testing.T) {
	if _, err := Probability(-1); !errors.Is(err, ErrInvalidPoolSize) {
		t.Errorf("Probability(-1) error = %v", err)
	}
	if _, err := Probability(MaxProbabilityDice + 1); !errors.Is(err, ErrProbabilityTooBig) {
		t.Errorf("Probability(too big) error = %v", err)
	}
	got, err := Probability(MaxProbabilityDice)
	if err != nil {
		t.Fatalf("Probability(max) error = %v", err)
	}
	if sum := got.CriticalCount + got.FullCount + got.PartialCount + got.FailureCount; sum != got.TotalOutcomes {
		t.Errorf("counts sum to %d, want %d", sum, got.TotalOutcomes)
	}
	if c := got.Chance(DegreeFailure); c <= 0 || c >= 1 {
		t.Errorf("Chance(Failure) = %v", c)
	}
}
