package dice

import (
	"errors"
	"math"
	"testing"
)

func TestRollSpecs(t *testing.T) {
	tests := []struct {
		name    string
		specs   []Spec
		wantErr error
	}{
		{name: "single d6", specs: []Spec{{Sides: 6, Count: 1}}},
		{name: "2d6 + 1d8", specs: []Spec{{Sides: 6, Count: 2}, {Sides: 8, Count: 1}}},
		{name: "no dice", specs: nil, wantErr: ErrMissingDice},
		{name: "invalid sides", specs: []Spec{{Sides: 0, Count: 1}}, wantErr: ErrInvalidDiceSpec},
		{name: "invalid count", specs: []Spec{{Sides: 6, Count: 0}}, wantErr: ErrInvalidDiceSpec},
		{name: "count at limit", specs: []Spec{{Sides: MaxSpecSides, Count: MaxSpecCount}}},
		{name: "count above limit", specs: []Spec{{Sides: 6, Count: MaxSpecCount + 1}}, wantErr: ErrSpecTooBig},
		{name: "huge count", specs: []Spec{{Sides: 6, Count: math.MaxInt}}, wantErr: ErrSpecTooBig},
		{name: "sides above limit", specs: []Spec{{Sides: MaxSpecSides + 1, Count: 1}}, wantErr: ErrSpecTooBig},
		{name: "later spec checked before rolling", specs: []Spec{{Sides: 6, Count: 1}, {Sides: 6, Count: math.MaxInt}}, wantErr: ErrSpecTooBig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RollSpecs(NewSeededSource(42), tt.specs)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RollSpecs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if len(result.Rolls) != len(tt.specs) {
				t.Fatalf("RollSpecs() got %d rolls, want %d", len(result.Rolls), len(tt.specs))
			}
			total := 0
			for i, roll := range result.Rolls {
				if len(roll.Results) != tt.specs[i].Count {
					t.Errorf("Roll[%d] got %d results, want %d", i, len(roll.Results), tt.specs[i].Count)
				}
				sum := 0
				for _, r := range roll.Results {
					if r < 1 || r > roll.Sides {
						t.Errorf("Roll[%d] result %d out of range [1, %d]", i, r, roll.Sides)
					}
					sum += r
				}
				if roll.Total != sum {
					t.Errorf("Roll[%d].Total = %d, want %d", i, roll.Total, sum)
				}
				total += roll.Total
			}
			if result.Total != total {
				t.Errorf("Total = %d, want %d", result.Total, total)
			}
		})
	}
}
