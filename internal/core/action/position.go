package action

import (
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/duskwall/internal/platform/errors"
)

// Position is how dangerous an action is.
type Position int

const (
	PositionUnspecified Position = iota
	PositionControlled
	PositionRisky
	PositionDesperate
)

// Positions lists the valid positions from safest to most dangerous.
var Positions = []Position{PositionControlled, PositionRisky, PositionDesperate}

func (p Position) String() string {
	switch p {
	case PositionUnspecified:
		return "Unspecified"
	case PositionControlled:
		return "Controlled"
	case PositionRisky:
		return "Risky"
	case PositionDesperate:
		return "Desperate"
	default:
		return "Unknown"
	}
}

// Valid reports whether p is Controlled, Risky or Desperate.
func (p Position) Valid() bool {
	return p >= PositionControlled && p <= PositionDesperate
}

// LabelKey is the catalog key for the position's display label.
func (p Position) LabelKey() string {
	if !p.Valid() {
		return ""
	}
	return "position." + strings.ToLower(p.String())
}

// Improve moves one step toward Controlled, saturating there.
func (p Position) Improve() Position {
	if p <= PositionControlled {
		return PositionControlled
	}
	return p - 1
}

// Diminish moves one step toward Desperate, saturating there.
func (p Position) Diminish() Position {
	if p >= PositionDesperate {
		return PositionDesperate
	}
	return p + 1
}

// TradeForEffect takes a worse position for one more effect level.
func (p Position) TradeForEffect(effect Effect) (Position, Effect, error) {
	if !p.Valid() {
		return p, effect, invalidPosition(p.String())
	}
	if !effect.Valid() {
		return p, effect, invalidEffect(effect.String())
	}
	if p == PositionDesperate {
		return p, effect, apperrors.WithMetadata(apperrors.CodeActionPositionClamped,
			"cannot diminish position below Desperate", map[string]string{"Position": p.String()})
	}
	if effect >= EffectGreat {
		return p, effect, apperrors.WithMetadata(apperrors.CodeActionEffectClamped,
			"cannot trade effect above Great", map[string]string{"Effect": EffectGreat.String()})
	}
	return p.Diminish(), effect.Increase(), nil
}

// ParsePosition reads a position name, case-insensitively. Numeric input
// 1..3 is accepted as well.
func ParsePosition(value string) (Position, error) {
	trimmed := strings.TrimSpace(value)
	for _, p := range Positions {
		if strings.EqualFold(trimmed, p.String()) {
			return p, nil
		}
	}
	if n, err := strconv.Atoi(trimmed); err == nil && Position(n).Valid() {
		return Position(n), nil
	}
	return PositionUnspecified, invalidPosition(trimmed)
}
