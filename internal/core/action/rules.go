package action

import "github.com/louisbranch/duskwall/internal/core/dice"

// RulesMetadata captures the ruleset semantics for roll interpretation.
type RulesMetadata struct {
	System         string
	Module         string
	RulesVersion   string
	DiceModel      string
	CritRule       string
	DegreeRule     string
	ResistanceRule string
	StressRule     string
	HarmRule       string
	Degrees        []dice.Degree
	Positions      []Position
	Effects        []Effect
}

const rulesVersion = "1.0.0"

// RulesVersion returns static metadata for the resolution rules.
func RulesVersion() RulesMetadata {
	return RulesMetadata{
		System:         "Forged in the Dark",
		Module:         "action",
		RulesVersion:   rulesVersion,
		DiceModel:      "Nd6 keep highest; 0d6 rolls 2d6 and keeps the lower",
		CritRule:       "two or more sixes on a pool of one or more dice",
		DegreeRule:     "6 full success, 4-5 partial success, 1-3 failure",
		ResistanceRule: "stress cost is 6 minus the pool value, minimum 0",
		StressRule:     "stress runs 0-9; reaching 9 marks a trauma and clears stress; a fourth trauma retires the character",
		HarmRule:       "2 lesser, 2 moderate, 1 severe and 1 fatal slot; a full tier pushes harm up a tier",
		Degrees:        append([]dice.Degree(nil), dice.Degrees...),
		Positions:      append([]Position(nil), Positions...),
		Effects:        append([]Effect(nil), Effects...),
	}
}
