package character

import (
	"errors"
	"testing"

	"github.com/louisbranch/duskwall/internal/core/dice"
)

func TestRandomTraumaSelectorPicksUnheld(t *testing.T) {
	selector := RandomTraumaSelector{Source: dice.NewSeededSource(3)}
	var held []Trauma
	for len(held) < len(Traumas) {
		got, err := selector.SelectTrauma(held)
		if err != nil {
			t.Fatalf("SelectTrauma() error = %v", err)
		}
		for _, h := range held {
			if h == got {
				t.Fatalf("SelectTrauma() returned held trauma %v", got)
			}
		}
		held = append(held, got)
	}
	if _, err := selector.SelectTrauma(held); !errors.Is(err, ErrTraumaConditionsExhausted) {
		t.Fatalf("SelectTrauma() error = %v, want %v", err, ErrTraumaConditionsExhausted)
	}
}

func TestFixedTraumaSelector(t *testing.T) {
	selector, err := NewFixedTraumaSelector(TraumaVicious, TraumaCold)
	if err != nil {
		t.Fatalf("NewFixedTraumaSelector() error = %v", err)
	}
	tests := []struct {
		held []Trauma
		want Trauma
		err  error
	}{
		{held: nil, want: TraumaVicious},
		{held: []Trauma{TraumaVicious}, want: TraumaCold},
		{held: []Trauma{TraumaVicious, TraumaCold}, err: ErrTraumaConditionsExhausted},
	}
	for _, tt := range tests {
		got, err := selector.SelectTrauma(tt.held)
		if !errors.Is(err, tt.err) || got != tt.want {
			t.Errorf("SelectTrauma(%v) = %v, %v, want %v, %v", tt.held, got, err, tt.want, tt.err)
		}
	}

	if _, err := NewFixedTraumaSelector(TraumaCold, TraumaCold); !errors.Is(err, ErrInvalidTraumaOptions) {
		t.Errorf("duplicate preferences error = %v", err)
	}
	if _, err := NewFixedTraumaSelector(TraumaUnspecified); !errors.Is(err, ErrInvalidTraumaOptions) {
		t.Errorf("unspecified preference error = %v", err)
	}
}

func TestParseTrauma(t *testing.T) {
	for _, tr := range Traumas {
		got, err := ParseTrauma(" " + tr.String() + " ")
		if err != nil || got != tr {
			t.Errorf("ParseTrauma(%q) = %v, %v", tr.String(), got, err)
		}
		if tr.LabelKey() == "" {
			t.Errorf("%v has no label key", tr)
		}
	}
	if _, err := ParseTrauma("grumpy"); err == nil {
		t.Error("expected error for unknown trauma")
	}
	if n := len(Available([]Trauma{TraumaCold, TraumaSoft})); n != 6 {
		t.Errorf("len(Available()) = %d, want 6", n)
	}
}
