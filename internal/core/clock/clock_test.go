package clock

import (
	"errors"
	"testing"

	"github.com/louisbranch/duskwall/internal/core/dice"
)

func TestNewRejectsSize(t *testing.T) {
	for _, n := range []int{0, -4} {
		if _, err := New(n); !errors.Is(err, ErrInvalidClockSize) {
			t.Errorf("New(%d) error = %v, want %v", n, err, ErrInvalidClockSize)
		}
	}
	for _, n := range StandardSizes {
		if _, err := New(n); err != nil {
			t.Errorf("New(%d) error = %v", n, err)
		}
	}
}

func TestFillSaturates(t *testing.T) {
	c, err := New(4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	steps := []struct {
		amount int
		want   FillResult
	}{
		{amount: 3, want: FillResult{Applied: 3, Filled: 3}},
		{amount: 2, want: FillResult{Applied: 1, Filled: 4, Overflow: true, Completed: true}},
		{amount: 1, want: FillResult{Applied: 0, Filled: 4, Overflow: true, Completed: true}},
	}
	for i, step := range steps {
		got, err := c.Fill(step.amount)
		if err != nil {
			t.Fatalf("step %d Fill() error = %v", i, err)
		}
		if got != step.want {
			t.Errorf("step %d Fill(%d) = %+v, want %+v", i, step.amount, got, step.want)
		}
	}
}

func TestFillExactIsNotOverflow(t *testing.T) {
	c, err := New(6)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := c.Fill(6)
	if err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	if got.Overflow || !got.Completed {
		t.Fatalf("Fill(6) = %+v", got)
	}
}

func TestFillRejectsNonPositive(t *testing.T) {
	c, err := New(4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, n := range []int{0, -1} {
		if _, err := c.Fill(n); !errors.Is(err, ErrInvalidFillAmount) {
			t.Errorf("Fill(%d) error = %v, want %v", n, err, ErrInvalidFillAmount)
		}
	}
	if c.Filled() != 0 {
		t.Errorf("Filled() = %d, want 0", c.Filled())
	}
}

func TestFillMonotonic(t *testing.T) {
	c, err := New(8)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	src := dice.NewSeededSource(5)
	prev := 0
	completed := false
	for i := 0; i < 20; i++ {
		got, _, err := c.Tick(2, src)
		if err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
		if got.Filled < prev || got.Filled > c.Segments() {
			t.Fatalf("Filled went from %d to %d", prev, got.Filled)
		}
		if completed && !got.Completed {
			t.Fatal("Completed reverted before Reset")
		}
		prev, completed = got.Filled, got.Completed
	}
	if !c.Completed() {
		t.Fatal("expected clock to complete after 20 ticks")
	}
	c.Reset()
	if c.Filled() != 0 || c.Completed() {
		t.Fatalf("Reset() left %d filled", c.Filled())
	}
}

func TestTick(t *testing.T) {
	tests := []struct {
		dice   []int
		degree dice.Degree
		ticks  int
	}{
		{dice: []int{6, 6}, degree: dice.DegreeCritical, ticks: 5},
		{dice: []int{6, 2}, degree: dice.DegreeFull, ticks: 3},
		{dice: []int{4, 2}, degree: dice.DegreePartial, ticks: 2},
		{dice: []int{1, 2}, degree: dice.DegreeFailure, ticks: 1},
	}
	for _, tt := range tests {
		c, err := New(8)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		src, err := dice.NewScriptedSource(tt.dice...)
		if err != nil {
			t.Fatalf("NewScriptedSource() error = %v", err)
		}
		got, pool, err := c.Tick(2, src)
		if err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
		if pool.Degree() != tt.degree || got.Applied != tt.ticks {
			t.Errorf("Tick(%v) = %+v, %v, want %d ticks at %v", tt.dice, got, pool.Degree(), tt.ticks, tt.degree)
		}
	}
	if TicksFor(dice.DegreeUnspecified) != 0 {
		t.Error("TicksFor(Unspecified) should be 0")
	}
}

func TestSnapshot(t *testing.T) {
	c, err := NewNamed(" Alarm ", 6)
	if err != nil {
		t.Fatalf("NewNamed() error = %v", err)
	}
	if _, err := c.Fill(2); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	restored, err := FromSnapshot(c.Snapshot())
	if err != nil {
		t.Fatalf("FromSnapshot() error = %v", err)
	}
	if restored.Snapshot() != (Snapshot{Name: "Alarm", Segments: 6, Filled: 2}) {
		t.Fatalf("Snapshot() = %+v", restored.Snapshot())
	}
	if _, err := FromSnapshot(Snapshot{Segments: 4, Filled: 5}); err == nil {
		t.Fatal("expected error for overfilled snapshot")
	}
}
