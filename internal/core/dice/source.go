package dice

import (
	"math/rand"
	"strconv"
	"sync"

	apperrors "github.com/louisbranch/duskwall/internal/platform/errors"
)

// Sides is the number of faces on every die in a pool.
const Sides = 6

// Source yields die faces in [1,6].
type Source interface {
	NextDie() (int, error)
}

// Intner picks a uniform integer in [0,n).
type Intner interface {
	Intn(n int) int
}

// SeededSource is a deterministic pseudo-random Source. It is safe for
// concurrent use.
type SeededSource struct {
	mu   sync.Mutex
	seed int64
	rng  *rand.Rand
}

// NewSeededSource returns a source whose sequence is fixed by seed.
func NewSeededSource(seed int64) *SeededSource {
	return &SeededSource{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// Seed returns the seed the source was built with.
func (s *SeededSource) Seed() int64 {
	return s.seed
}

// NextDie returns a uniform face in [1,6].
func (s *SeededSource) NextDie() (int, error) {
	return s.Intn(Sides) + 1, nil
}

// Intn returns a uniform integer in [0,n).
func (s *SeededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// ScriptedSource replays a fixed sequence of faces. Once the sequence is
// used up it either fails with ErrSourceExhausted or starts over.
type ScriptedSource struct {
	mu     sync.Mutex
	values []int
	next   int
	cycle  bool
}

// NewScriptedSource returns a source that yields values once, in order.
func NewScriptedSource(values ...int) (*ScriptedSource, error) {
	return newScripted(values, false)
}

// NewCyclingSource returns a source that repeats values forever.
func NewCyclingSource(values ...int) (*ScriptedSource, error) {
	if len(values) == 0 {
		return nil, apperrors.WithMetadata(apperrors.CodeDiceSourceExhausted,
			"cycling source needs at least one value", nil)
	}
	return newScripted(values, true)
}

func newScripted(values []int, cycle bool) (*ScriptedSource, error) {
	for _, v := range values {
		if err := checkFace(v); err != nil {
			return nil, err
		}
	}
	return &ScriptedSource{values: append([]int(nil), values...), cycle: cycle}, nil
}

// NextDie returns the next scripted face.
func (s *ScriptedSource) NextDie() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.values) {
		if !s.cycle {
			return 0, ErrSourceExhausted
		}
		s.next = 0
	}
	v := s.values[s.next]
	s.next++
	return v, nil
}

// Remaining reports how many scripted faces are left before the source
// fails or wraps.
func (s *ScriptedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values) - s.next
}

func checkFace(v int) error {
	if v < 1 || v > Sides {
		return apperrors.WithMetadata(apperrors.CodeDiceDieOutOfRange,
			"die value "+strconv.Itoa(v)+" out of range",
			map[string]string{"Value": strconv.Itoa(v)})
	}
	return nil
}
