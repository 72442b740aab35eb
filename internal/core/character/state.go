package character

import (
	"slices"
	"strings"
	"sync"
)

// MaxStress is the stress level that forces a trauma.
const MaxStress = 9

// MaxTraumas is the number of traumas that retires a character.
const MaxTraumas = 4

// StressResult reports a stress change.
type StressResult struct {
	Before          int
	After           int
	TraumaTriggered bool
	Trauma          Trauma
	Retired         bool
}

// Snapshot is a plain copy of a character's state.
type Snapshot struct {
	Name     string
	Stress   int
	Traumas  []Trauma
	Harm     []Harm
	Capacity Capacity
}

// State is a character's stress, trauma and harm. Every mutation runs as
// one critical section and leaves the state untouched on error.
type State struct {
	mu       sync.Mutex
	name     string
	stress   int
	traumas  []Trauma
	harm     []Harm
	capacity Capacity
	selector TraumaSelector
}

// Option configures a State.
type Option func(*State)

// WithTraumaSelector sets how traumas are chosen. The default takes the
// first condition not held, in canonical order.
func WithTraumaSelector(selector TraumaSelector) Option {
	return func(s *State) {
		if selector != nil {
			s.selector = selector
		}
	}
}

// WithCapacity overrides the harm slot counts.
func WithCapacity(capacity Capacity) Option {
	return func(s *State) {
		s.capacity = capacity
	}
}

// NewState returns an unharmed, unstressed character.
func NewState(name string, opts ...Option) (*State, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrEmptyName
	}
	s := &State{name: trimmed, capacity: DefaultCapacity, selector: firstAvailable}
	for _, opt := range opts {
		opt(s)
	}
	if !s.capacity.Valid() {
		return nil, invalidSnapshot("every harm tier needs a slot")
	}
	return s, nil
}

// FromSnapshot rebuilds a State from a snapshot.
func FromSnapshot(snap Snapshot, opts ...Option) (*State, error) {
	s, err := NewState(snap.Name, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Restore(snap); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the character name.
func (s *State) Name() string {
	return s.name
}

// Stress returns the current stress.
func (s *State) Stress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stress
}

// Traumas returns the held traumas in the order they were taken.
func (s *State) Traumas() []Trauma {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.traumas)
}

// Harm returns the filled harm slots.
func (s *State) Harm() []Harm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.harm)
}

// Incapacitated reports whether the fatal tier is filled.
func (s *State) Incapacitated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countSeverity(s.harm, HarmFatal) > 0
}

// Retired reports whether the character holds MaxTraumas traumas.
func (s *State) Retired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.traumas) >= MaxTraumas
}

// ApplyStress adds amount stress. Reaching MaxStress marks one new trauma
// and resets stress to zero in the same step. When no trauma can be
// marked the call fails with ErrTraumaConditionsExhausted and nothing
// changes.
func (s *State) ApplyStress(amount int) (StressResult, error) {
	if amount < 0 {
		return StressResult{}, invalidStressAmount(amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := StressResult{Before: s.stress, Retired: len(s.traumas) >= MaxTraumas}
	after := min(s.stress+amount, MaxStress)
	if after < MaxStress {
		s.stress = after
		result.After = after
		return result, nil
	}

	if len(s.traumas) >= MaxTraumas {
		return StressResult{}, ErrTraumaConditionsExhausted
	}
	trauma, err := s.selector.SelectTrauma(slices.Clone(s.traumas))
	if err != nil {
		return StressResult{}, err
	}
	if !trauma.Valid() || slices.Contains(s.traumas, trauma) {
		return StressResult{}, ErrInvalidTraumaOptions
	}

	s.traumas = append(s.traumas, trauma)
	s.stress = 0
	result.After = 0
	result.TraumaTriggered = true
	result.Trauma = trauma
	result.Retired = len(s.traumas) >= MaxTraumas
	return result, nil
}

// ClearStress removes up to amount stress, stopping at zero.
func (s *State) ClearStress(amount int) (StressResult, error) {
	if amount < 0 {
		return StressResult{}, invalidStressAmount(amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := StressResult{Before: s.stress, Retired: len(s.traumas) >= MaxTraumas}
	s.stress = max(s.stress-amount, 0)
	result.After = s.stress
	return result, nil
}

// ApplyHarm marks harm of severity. A full tier pushes the harm up to the
// next tier with room. Harm that would spill past a filled fatal slot
// fails with ErrHarmTrackFull and nothing changes.
func (s *State) ApplyHarm(severity int, description string) (HarmResult, error) {
	if severity < HarmLesser || severity > HarmFatal {
		return HarmResult{}, invalidHarmSeverity(severity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tier := placeHarm(s.harm, s.capacity, severity)
	if tier == 0 {
		return HarmResult{Requested: severity, Severity: HarmFatal, Fatal: true}, ErrHarmTrackFull
	}

	s.harm = append(s.harm, Harm{Severity: tier, Description: strings.TrimSpace(description)})
	return HarmResult{
		Requested:  severity,
		Severity:   tier,
		Upgraded:   tier != severity,
		SlotFilled: true,
		Fatal:      tier == HarmFatal,
	}, nil
}

// Heal moves every harm down one tier. Lesser harm is removed.
func (s *State) Heal() (HealResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.harm) == 0 {
		return HealResult{}, ErrNotHarmed
	}
	if countSeverity(s.harm, HarmFatal) > 0 {
		return HealResult{}, ErrIncapacitated
	}

	var (
		healed []Harm
		result HealResult
	)
	// Higher tiers claim their downgraded slots first.
	ordered := slices.Clone(s.harm)
	slices.SortStableFunc(ordered, func(a, b Harm) int { return b.Severity - a.Severity })
	for _, h := range ordered {
		if h.Severity == HarmLesser {
			result.Removed++
			continue
		}
		tier := placeHarm(healed, s.capacity, h.Severity-1)
		if tier == 0 {
			tier = h.Severity
		}
		healed = append(healed, Harm{Severity: tier, Description: h.Description})
		result.Downgraded++
	}
	s.harm = healed
	return result, nil
}

// Snapshot returns a plain copy of the state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Name:     s.name,
		Stress:   s.stress,
		Traumas:  slices.Clone(s.traumas),
		Harm:     slices.Clone(s.harm),
		Capacity: s.capacity,
	}
}

// Restore replaces the state with snap after checking its invariants. A
// zero Capacity keeps the current one.
func (s *State) Restore(snap Snapshot) error {
	name := strings.TrimSpace(snap.Name)
	if name == "" {
		return ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	capacity := snap.Capacity
	if capacity == (Capacity{}) {
		capacity = s.capacity
	}
	if err := validateSnapshot(snap, capacity); err != nil {
		return err
	}
	s.name = name
	s.stress = snap.Stress
	s.traumas = slices.Clone(snap.Traumas)
	s.harm = slices.Clone(snap.Harm)
	s.capacity = capacity
	return nil
}

func validateSnapshot(snap Snapshot, capacity Capacity) error {
	if !capacity.Valid() {
		return invalidSnapshot("every harm tier needs a slot")
	}
	if snap.Stress < 0 || snap.Stress >= MaxStress {
		return invalidSnapshot("stress must be between 0 and 8")
	}
	if len(snap.Traumas) > MaxTraumas {
		return invalidSnapshot("too many traumas")
	}
	seen := map[Trauma]bool{}
	for _, t := range snap.Traumas {
		if !t.Valid() || seen[t] {
			return invalidSnapshot("traumas must be distinct known conditions")
		}
		seen[t] = true
	}
	for _, h := range snap.Harm {
		if h.Severity < HarmLesser || h.Severity > HarmFatal {
			return invalidSnapshot("harm severity out of range")
		}
	}
	for tier := HarmLesser; tier <= HarmFatal; tier++ {
		if countSeverity(snap.Harm, tier) > capacity.For(tier) {
			return invalidSnapshot(HarmName(tier) + " harm exceeds its slots")
		}
	}
	return nil
}
