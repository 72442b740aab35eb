// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Dice errors
	CodeDiceInvalidPoolSize   Code = "DICE_INVALID_POOL_SIZE"
	CodeDiceDieOutOfRange     Code = "DICE_DIE_OUT_OF_RANGE"
	CodeDiceSourceExhausted   Code = "DICE_SOURCE_EXHAUSTED"
	CodeDiceInvalidSpec       Code = "DICE_INVALID_SPEC"
	CodeDiceMissing           Code = "DICE_MISSING"
	CodeDiceProbabilityTooBig Code = "DICE_PROBABILITY_TOO_BIG"
	CodeDicePoolTooBig        Code = "DICE_POOL_TOO_BIG"
	CodeDiceSpecTooBig        Code = "DICE_SPEC_TOO_BIG"

	// Action errors
	CodeActionInvalidPosition    Code = "ACTION_INVALID_POSITION"
	CodeActionInvalidEffect      Code = "ACTION_INVALID_EFFECT"
	CodeActionEffectClamped      Code = "ACTION_EFFECT_CLAMPED"
	CodeActionPositionClamped    Code = "ACTION_POSITION_CLAMPED"
	CodeActionInvalidConsequence Code = "ACTION_INVALID_CONSEQUENCE"

	// Clock errors
	CodeClockInvalidSize       Code = "CLOCK_INVALID_SIZE"
	CodeClockInvalidFillAmount Code = "CLOCK_INVALID_FILL_AMOUNT"

	// Character errors
	CodeCharacterEmptyName            Code = "CHARACTER_EMPTY_NAME"
	CodeCharacterInvalidStressAmount  Code = "CHARACTER_INVALID_STRESS_AMOUNT"
	CodeCharacterTraumaExhausted      Code = "CHARACTER_TRAUMA_EXHAUSTED"
	CodeCharacterInvalidHarmSeverity  Code = "CHARACTER_INVALID_HARM_SEVERITY"
	CodeCharacterHarmTrackFull        Code = "CHARACTER_HARM_TRACK_FULL"
	CodeCharacterNotHarmed            Code = "CHARACTER_NOT_HARMED"
	CodeCharacterIncapacitated        Code = "CHARACTER_INCAPACITATED"
	CodeCharacterInvalidSnapshot      Code = "CHARACTER_INVALID_SNAPSHOT"
	CodeCharacterInvalidTraumaOptions Code = "CHARACTER_INVALID_TRAUMA_OPTIONS"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// Kind groups codes by how callers should react to them.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindFailedPrecondition
	KindNotFound
	KindAlreadyExists
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindFailedPrecondition:
		return "failed_precondition"
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	default:
		return "internal"
	}
}

// Kind maps domain codes to a reaction kind.
func (c Code) Kind() Kind {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeDiceInvalidPoolSize,
		CodeDiceDieOutOfRange,
		CodeDiceInvalidSpec,
		CodeDiceMissing,
		CodeDiceProbabilityTooBig,
		CodeDicePoolTooBig,
		CodeDiceSpecTooBig,
		CodeActionInvalidPosition,
		CodeActionInvalidEffect,
		CodeActionInvalidConsequence,
		CodeClockInvalidSize,
		CodeClockInvalidFillAmount,
		CodeCharacterEmptyName,
		CodeCharacterInvalidStressAmount,
		CodeCharacterInvalidHarmSeverity,
		CodeCharacterInvalidSnapshot,
		CodeCharacterInvalidTraumaOptions:
		return KindInvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeDiceSourceExhausted,
		CodeActionEffectClamped,
		CodeActionPositionClamped,
		CodeCharacterTraumaExhausted,
		CodeCharacterHarmTrackFull,
		CodeCharacterNotHarmed,
		CodeCharacterIncapacitated:
		return KindFailedPrecondition

	case CodeNotFound:
		return KindNotFound

	case CodeAlreadyExists:
		return KindAlreadyExists

	default:
		return KindInternal
	}
}
