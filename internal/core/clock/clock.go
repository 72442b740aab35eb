// Package clock tracks segmented progress clocks.
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/louisbranch/duskwall/internal/core/dice"
	apperrors "github.com/louisbranch/duskwall/internal/platform/errors"
)

var (
	// ErrInvalidClockSize indicates a clock without segments.
	ErrInvalidClockSize = apperrors.New(apperrors.CodeClockInvalidSize, "clock must have at least one segment")
	// ErrInvalidFillAmount indicates a non-positive fill.
	ErrInvalidFillAmount = apperrors.New(apperrors.CodeClockInvalidFillAmount, "fill amount must be positive")
)

// StandardSizes are the customary clock sizes.
var StandardSizes = []int{4, 6, 8}

// FillResult reports a fill.
type FillResult struct {
	Applied   int
	Filled    int
	Overflow  bool
	Completed bool
}

// Snapshot is a plain copy of a clock.
type Snapshot struct {
	Name     string
	Segments int
	Filled   int
}

// Clock is a segmented progress tracker. It is safe for concurrent use.
type Clock struct {
	mu       sync.Mutex
	name     string
	segments int
	filled   int
}

// New returns an empty clock with segments segments.
func New(segments int) (*Clock, error) {
	return NewNamed("", segments)
}

// NewNamed returns an empty clock with a display name.
func NewNamed(name string, segments int) (*Clock, error) {
	if segments <= 0 {
		return nil, apperrors.WithMetadata(apperrors.CodeClockInvalidSize,
			"clock size "+strconv.Itoa(segments)+" is not positive",
			map[string]string{"Segments": strconv.Itoa(segments)})
	}
	return &Clock{name: strings.TrimSpace(name), segments: segments}, nil
}

// FromSnapshot rebuilds a clock.
func FromSnapshot(snap Snapshot) (*Clock, error) {
	c, err := NewNamed(snap.Name, snap.Segments)
	if err != nil {
		return nil, err
	}
	if snap.Filled < 0 || snap.Filled > snap.Segments {
		return nil, apperrors.WithMetadata(apperrors.CodeClockInvalidFillAmount,
			fmt.Sprintf("filled %d outside 0..%d", snap.Filled, snap.Segments),
			map[string]string{"Amount": strconv.Itoa(snap.Filled)})
	}
	c.filled = snap.Filled
	return c, nil
}

// Name returns the clock's display name.
func (c *Clock) Name() string {
	return c.name
}

// Segments returns the clock size.
func (c *Clock) Segments() int {
	return c.segments
}

// Filled returns the filled segment count.
func (c *Clock) Filled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filled
}

// Completed reports whether every segment is filled.
func (c *Clock) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filled == c.segments
}

// Fill adds amount segments, saturating at the clock size. Overflow
// reports that amount exceeded the room left; filling a complete clock
// changes nothing and reports both Completed and Overflow.
func (c *Clock) Fill(amount int) (FillResult, error) {
	if amount <= 0 {
		return FillResult{}, apperrors.WithMetadata(apperrors.CodeClockInvalidFillAmount,
			"fill amount "+strconv.Itoa(amount)+" is not positive",
			map[string]string{"Amount": strconv.Itoa(amount)})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	remaining := c.segments - c.filled
	applied := min(amount, remaining)
	c.filled += applied
	return FillResult{
		Applied:   applied,
		Filled:    c.filled,
		Overflow:  amount > remaining,
		Completed: c.filled == c.segments,
	}, nil
}

// TicksFor is the progress a fortune roll of degree earns.
func TicksFor(degree dice.Degree) int {
	switch degree {
	case dice.DegreeCritical:
		return 5
	case dice.DegreeFull:
		return 3
	case dice.DegreePartial:
		return 2
	case dice.DegreeFailure:
		return 1
	default:
		return 0
	}
}

// Tick rolls a fortune pool of size and fills the clock by its ticks.
func (c *Clock) Tick(size int, src dice.Source) (FillResult, dice.Pool, error) {
	pool, err := dice.Roll(size, src)
	if err != nil {
		return FillResult{}, dice.Pool{}, fmt.Errorf("roll clock ticks: %w", err)
	}
	result, err := c.Fill(TicksFor(pool.Degree()))
	if err != nil {
		return FillResult{}, pool, err
	}
	return result, pool, nil
}

// Reset empties the clock.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filled = 0
}

// Snapshot returns a plain copy of the clock.
func (c *Clock) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Name: c.name, Segments: c.segments, Filled: c.filled}
}
