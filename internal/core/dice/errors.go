package dice

import apperrors "github.com/louisbranch/duskwall/internal/platform/errors"

var (
	// ErrInvalidPoolSize indicates a negative pool size.
	ErrInvalidPoolSize = apperrors.New(apperrors.CodeDiceInvalidPoolSize, "dice pool size must not be negative")
	// ErrDieOutOfRange indicates a die value outside 1..6.
	ErrDieOutOfRange = apperrors.New(apperrors.CodeDiceDieOutOfRange, "die value must be between 1 and 6")
	// ErrSourceExhausted indicates a scripted source ran out of values.
	ErrSourceExhausted = apperrors.New(apperrors.CodeDiceSourceExhausted, "dice source exhausted")
	// ErrMissingDice indicates a roll request had no dice specified.
	ErrMissingDice = apperrors.New(apperrors.CodeDiceMissing, "at least one die must be provided")
	// ErrInvalidDiceSpec indicates a die specification has invalid fields.
	ErrInvalidDiceSpec = apperrors.New(apperrors.CodeDiceInvalidSpec, "dice must have positive sides and count")
	// ErrProbabilityTooBig indicates a probability request above MaxProbabilityDice.
	ErrProbabilityTooBig = apperrors.New(apperrors.CodeDiceProbabilityTooBig, "too many dice for an exact probability table")
	// ErrPoolTooBig indicates a pool size above MaxPoolSize.
	ErrPoolTooBig = apperrors.New(apperrors.CodeDicePoolTooBig, "dice pool size is above the limit")
	// ErrSpecTooBig indicates a die specification above MaxSpecCount or MaxSpecSides.
	ErrSpecTooBig = apperrors.New(apperrors.CodeDiceSpecTooBig, "dice spec is above the limit")
)
