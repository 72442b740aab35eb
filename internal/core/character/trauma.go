package character

import (
	"slices"
	"strings"

	"github.com/louisbranch/duskwall/internal/core/dice"
)

// Trauma is a permanent condition marked when stress overflows.
type Trauma int

const (
	TraumaUnspecified Trauma = iota
	TraumaCold
	TraumaHaunted
	TraumaObsessed
	TraumaParanoid
	TraumaReckless
	TraumaSoft
	TraumaUnstable
	TraumaVicious
)

// Traumas lists every trauma condition.
var Traumas = []Trauma{
	TraumaCold, TraumaHaunted, TraumaObsessed, TraumaParanoid,
	TraumaReckless, TraumaSoft, TraumaUnstable, TraumaVicious,
}

func (t Trauma) String() string {
	switch t {
	case TraumaUnspecified:
		return "Unspecified"
	case TraumaCold:
		return "Cold"
	case TraumaHaunted:
		return "Haunted"
	case TraumaObsessed:
		return "Obsessed"
	case TraumaParanoid:
		return "Paranoid"
	case TraumaReckless:
		return "Reckless"
	case TraumaSoft:
		return "Soft"
	case TraumaUnstable:
		return "Unstable"
	case TraumaVicious:
		return "Vicious"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is one of the eight conditions.
func (t Trauma) Valid() bool {
	return t >= TraumaCold && t <= TraumaVicious
}

// LabelKey is the catalog key for the trauma's display label.
func (t Trauma) LabelKey() string {
	if !t.Valid() {
		return ""
	}
	return "trauma." + strings.ToLower(t.String())
}

// ParseTrauma reads a trauma name, case-insensitively.
func ParseTrauma(value string) (Trauma, error) {
	trimmed := strings.TrimSpace(value)
	for _, t := range Traumas {
		if strings.EqualFold(trimmed, t.String()) {
			return t, nil
		}
	}
	return TraumaUnspecified, ErrInvalidTraumaOptions
}

// Available returns the conditions not in held, in canonical order.
func Available(held []Trauma) []Trauma {
	out := make([]Trauma, 0, len(Traumas))
	for _, t := range Traumas {
		if !slices.Contains(held, t) {
			out = append(out, t)
		}
	}
	return out
}

// TraumaSelector picks the trauma a character takes when stress overflows.
// It must return a condition not in held, or ErrTraumaConditionsExhausted.
type TraumaSelector interface {
	SelectTrauma(held []Trauma) (Trauma, error)
}

// RandomTraumaSelector picks uniformly among the conditions not yet held.
type RandomTraumaSelector struct {
	Source dice.Intner
}

// SelectTrauma implements TraumaSelector.
func (s RandomTraumaSelector) SelectTrauma(held []Trauma) (Trauma, error) {
	options := Available(held)
	if len(options) == 0 {
		return TraumaUnspecified, ErrTraumaConditionsExhausted
	}
	return options[s.Source.Intn(len(options))], nil
}

// FixedTraumaSelector takes the first preference not yet held.
type FixedTraumaSelector struct {
	Preferences []Trauma
}

// NewFixedTraumaSelector validates preferences, which must be distinct
// known conditions.
func NewFixedTraumaSelector(preferences ...Trauma) (FixedTraumaSelector, error) {
	seen := make(map[Trauma]bool, len(preferences))
	for _, t := range preferences {
		if !t.Valid() || seen[t] {
			return FixedTraumaSelector{}, ErrInvalidTraumaOptions
		}
		seen[t] = true
	}
	return FixedTraumaSelector{Preferences: slices.Clone(preferences)}, nil
}

// SelectTrauma implements TraumaSelector.
func (s FixedTraumaSelector) SelectTrauma(held []Trauma) (Trauma, error) {
	for _, t := range s.Preferences {
		if !slices.Contains(held, t) {
			return t, nil
		}
	}
	return TraumaUnspecified, ErrTraumaConditionsExhausted
}

// firstAvailable is the selector used when none is configured.
var firstAvailable = FixedTraumaSelector{Preferences: Traumas}
