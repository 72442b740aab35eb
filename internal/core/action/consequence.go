package action

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/duskwall/internal/core/character"
)

// ConsequenceKind enumerates the consequences an action can carry.
type ConsequenceKind int

const (
	ConsequenceUnspecified ConsequenceKind = iota
	ConsequenceReducedEffect
	ConsequenceComplicatedSuccess
	ConsequenceHarm
	ConsequenceReducedPosition
	ConsequenceWorseOutcome
)

func (k ConsequenceKind) String() string {
	switch k {
	case ConsequenceUnspecified:
		return "Unspecified"
	case ConsequenceReducedEffect:
		return "ReducedEffect"
	case ConsequenceComplicatedSuccess:
		return "ComplicatedSuccess"
	case ConsequenceHarm:
		return "Harm"
	case ConsequenceReducedPosition:
		return "ReducedPosition"
	case ConsequenceWorseOutcome:
		return "WorseOutcome"
	default:
		return "Unknown"
	}
}

// LabelKey is the catalog key for the kind's display label.
func (k ConsequenceKind) LabelKey() string {
	switch k {
	case ConsequenceReducedEffect:
		return "consequence.reduced_effect"
	case ConsequenceComplicatedSuccess:
		return "consequence.complicated_success"
	case ConsequenceHarm:
		return "consequence.harm"
	case ConsequenceReducedPosition:
		return "consequence.reduced_position"
	case ConsequenceWorseOutcome:
		return "consequence.worse_outcome"
	default:
		return ""
	}
}

// ConsequenceKinds lists every valid consequence kind.
var ConsequenceKinds = []ConsequenceKind{
	ConsequenceReducedEffect, ConsequenceComplicatedSuccess, ConsequenceHarm,
	ConsequenceReducedPosition, ConsequenceWorseOutcome,
}

// ParseConsequenceKind reads a kind name case-insensitively. Snake case
// spellings such as reduced_effect are accepted.
func ParseConsequenceKind(value string) (ConsequenceKind, error) {
	trimmed := strings.TrimSpace(value)
	folded := strings.ReplaceAll(trimmed, "_", "")
	for _, k := range ConsequenceKinds {
		if strings.EqualFold(folded, k.String()) {
			return k, nil
		}
	}
	return ConsequenceUnspecified, invalidConsequence(trimmed)
}

// Consequence is one narrated cost of an action. Severity is only set for
// Harm and runs 1 (lesser) to 4 (fatal).
type Consequence struct {
	Kind     ConsequenceKind
	Severity int
}

// Harm returns a harm consequence of severity.
func Harm(severity int) Consequence {
	return Consequence{Kind: ConsequenceHarm, Severity: severity}
}

// Valid reports whether the consequence is well formed.
func (c Consequence) Valid() bool {
	switch c.Kind {
	case ConsequenceHarm:
		return c.Severity >= character.HarmLesser && c.Severity <= character.HarmFatal
	case ConsequenceReducedEffect, ConsequenceComplicatedSuccess, ConsequenceReducedPosition, ConsequenceWorseOutcome:
		return c.Severity == 0
	default:
		return false
	}
}

func (c Consequence) String() string {
	if c.Kind == ConsequenceHarm {
		return "Harm(" + strconv.Itoa(c.Severity) + ")"
	}
	return c.Kind.String()
}

// Resisted returns what is left of c after a successful resistance roll:
// harm drops one level and anything else is avoided. The second result is
// false when nothing remains.
func (c Consequence) Resisted() (Consequence, bool) {
	if c.Kind == ConsequenceHarm && c.Severity > character.HarmLesser {
		return Harm(c.Severity - 1), true
	}
	return Consequence{}, false
}

// Situation is the position and effect an action is being made at.
type Situation struct {
	Position Position
	Effect   Effect
}

// Applied reports what applying a consequence changed.
type Applied struct {
	Consequence Consequence
	Situation   Situation
	Harm        *character.HarmResult
}

// Apply carries out c: effect and position consequences move the
// situation, harm lands on state, and complications or worse outcomes are
// left to the narrator. state may be nil for consequences without harm.
func Apply(c Consequence, situation Situation, state *character.State, description string) (Applied, error) {
	applied := Applied{Consequence: c, Situation: situation}
	switch c.Kind {
	case ConsequenceComplicatedSuccess, ConsequenceWorseOutcome:
	case ConsequenceReducedEffect:
		applied.Situation.Effect = situation.Effect.Decrease()
	case ConsequenceReducedPosition:
		applied.Situation.Position = situation.Position.Diminish()
	case ConsequenceHarm:
		if state == nil {
			return Applied{}, fmt.Errorf("apply %v: character state is required", c)
		}
		result, err := state.ApplyHarm(c.Severity, description)
		if err != nil {
			return Applied{}, err
		}
		applied.Harm = &result
	default:
		return Applied{}, fmt.Errorf("apply %v: unknown consequence", c)
	}
	return applied, nil
}
