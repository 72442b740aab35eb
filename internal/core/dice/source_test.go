package dice

import (
	"errors"
	"testing"
)

func TestScriptedSourceReplaysInOrder(t *testing.T) {
	src, err := NewScriptedSource(1, 6, 3)
	if err != nil {
		t.Fatalf("NewScriptedSource() error = %v", err)
	}
	for _, want := range []int{1, 6, 3} {
		got, err := src.NextDie()
		if err != nil {
			t.Fatalf("NextDie() error = %v", err)
		}
		if got != want {
			t.Fatalf("NextDie() = %d, want %d", got, want)
		}
	}
	if _, err := src.NextDie(); !errors.Is(err, ErrSourceExhausted) {
		t.Fatalf("NextDie() error = %v, want %v", err, ErrSourceExhausted)
	}
}

func TestScriptedSourceRejectsBadValues(t *testing.T) {
	for _, v := range []int{0, 7, -2} {
		if _, err := NewScriptedSource(2, v); !errors.Is(err, ErrDieOutOfRange) {
			t.Errorf("NewScriptedSource(%d) error = %v, want %v", v, err, ErrDieOutOfRange)
		}
	}
}

func TestCyclingSourceWraps(t *testing.T) {
	src, err := NewCyclingSource(2, 5)
	if err != nil {
		t.Fatalf("NewCyclingSource() error = %v", err)
	}
	var got []int
	for i := 0; i < 5; i++ {
		v, err := src.NextDie()
		if err != nil {
			t.Fatalf("NextDie() error = %v", err)
		}
		got = append(got, v)
	}
	want := []int{2, 5, 2, 5, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sequence = %v, want %v", got, want)
		}
	}
	if _, err := NewCyclingSource(); err == nil {
		t.Fatal("expected error for empty cycling source")
	}
}

func TestSeededSourceDeterminism(t *testing.T) {
	a := NewSeededSource(12345)
	b := NewSeededSource(12345)
	for i := 0; i < 50; i++ {
		x, _ := a.NextDie()
		y, _ := b.NextDie()
		if x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
		if x < 1 || x > 6 {
			t.Fatalf("draw %d out of range: %d", i, x)
		}
	}
	if a.Seed() != 12345 {
		t.Fatalf("Seed() = %d, want 12345", a.Seed())
	}
}
