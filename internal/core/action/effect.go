package action

import (
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/duskwall/internal/platform/errors"
)

// Effect is how much an action accomplishes.
type Effect int

const (
	EffectUnspecified Effect = iota
	EffectZero
	EffectLimited
	EffectStandard
	EffectGreat
	EffectExtreme
)

// Effects lists the valid effect levels from weakest to strongest.
var Effects = []Effect{EffectZero, EffectLimited, EffectStandard, EffectGreat, EffectExtreme}

func (e Effect) String() string {
	switch e {
	case EffectUnspecified:
		return "Unspecified"
	case EffectZero:
		return "Zero"
	case EffectLimited:
		return "Limited"
	case EffectStandard:
		return "Standard"
	case EffectGreat:
		return "Great"
	case EffectExtreme:
		return "Extreme"
	default:
		return "Unknown"
	}
}

// Valid reports whether e is a known effect level.
func (e Effect) Valid() bool {
	return e >= EffectZero && e <= EffectExtreme
}

// LabelKey is the catalog key for the effect's display label.
func (e Effect) LabelKey() string {
	if !e.Valid() {
		return ""
	}
	return "effect." + strings.ToLower(e.String())
}

// Increase raises effect one level, saturating at Extreme.
func (e Effect) Increase() Effect {
	if e >= EffectExtreme {
		return EffectExtreme
	}
	return e + 1
}

// Decrease lowers effect one level, saturating at Zero.
func (e Effect) Decrease() Effect {
	if e <= EffectZero {
		return EffectZero
	}
	return e - 1
}

// AtLeast returns the higher of e and floor.
func (e Effect) AtLeast(floor Effect) Effect {
	return max(e, floor)
}

// AtMost returns the lower of e and ceiling.
func (e Effect) AtMost(ceiling Effect) Effect {
	return min(e, ceiling)
}

// TradeForPosition gives up one effect level for a safer position.
func (e Effect) TradeForPosition(position Position) (Effect, Position, error) {
	if !e.Valid() {
		return e, position, invalidEffect(e.String())
	}
	if !position.Valid() {
		return e, position, invalidPosition(position.String())
	}
	if e <= EffectLimited {
		return e, position, apperrors.WithMetadata(apperrors.CodeActionEffectClamped,
			"cannot trade effect below Limited", map[string]string{"Effect": EffectLimited.String()})
	}
	if position == PositionControlled {
		return e, position, apperrors.WithMetadata(apperrors.CodeActionPositionClamped,
			"cannot improve position above Controlled", map[string]string{"Position": position.String()})
	}
	return e.Decrease(), position.Improve(), nil
}

// ParseEffect reads an effect name, case-insensitively. Numeric input
// 1..5 is accepted as well.
func ParseEffect(value string) (Effect, error) {
	trimmed := strings.TrimSpace(value)
	for _, e := range Effects {
		if strings.EqualFold(trimmed, e.String()) {
			return e, nil
		}
	}
	if n, err := strconv.Atoi(trimmed); err == nil && Effect(n).Valid() {
		return Effect(n), nil
	}
	return EffectUnspecified, invalidEffect(trimmed)
}
