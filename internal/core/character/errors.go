package character

import (
	"strconv"

	apperrors "github.com/louisbranch/duskwall/internal/platform/errors"
)

var (
	// ErrEmptyName indicates a character without a name.
	ErrEmptyName = apperrors.New(apperrors.CodeCharacterEmptyName, "character name is required")
	// ErrInvalidStressAmount indicates a negative stress amount.
	ErrInvalidStressAmount = apperrors.New(apperrors.CodeCharacterInvalidStressAmount, "stress amount must not be negative")
	// ErrTraumaConditionsExhausted indicates no trauma condition can be added.
	ErrTraumaConditionsExhausted = apperrors.New(apperrors.CodeCharacterTraumaExhausted, "trauma conditions exhausted")
	// ErrInvalidHarmSeverity indicates a harm severity outside 1..4.
	ErrInvalidHarmSeverity = apperrors.New(apperrors.CodeCharacterInvalidHarmSeverity, "invalid harm severity")
	// ErrHarmTrackFull indicates harm would land on an already filled fatal slot.
	ErrHarmTrackFull = apperrors.New(apperrors.CodeCharacterHarmTrackFull, "harm track full")
	// ErrNotHarmed indicates a heal on a character without harm.
	ErrNotHarmed = apperrors.New(apperrors.CodeCharacterNotHarmed, "character is not harmed")
	// ErrIncapacitated indicates the fatal slot is filled.
	ErrIncapacitated = apperrors.New(apperrors.CodeCharacterIncapacitated, "character is incapacitated")
	// ErrInvalidSnapshot indicates a snapshot that breaks a state invariant.
	ErrInvalidSnapshot = apperrors.New(apperrors.CodeCharacterInvalidSnapshot, "invalid character snapshot")
	// ErrInvalidTraumaOptions indicates a selector configured or answering with an unusable trauma.
	ErrInvalidTraumaOptions = apperrors.New(apperrors.CodeCharacterInvalidTraumaOptions, "invalid trauma options")
)

func invalidStressAmount(amount int) error {
	return apperrors.WithMetadata(apperrors.CodeCharacterInvalidStressAmount,
		"stress amount "+strconv.Itoa(amount)+" is negative",
		map[string]string{"Amount": strconv.Itoa(amount)})
}

func invalidHarmSeverity(severity int) error {
	return apperrors.WithMetadata(apperrors.CodeCharacterInvalidHarmSeverity,
		"harm severity "+strconv.Itoa(severity)+" outside 1..4",
		map[string]string{"Severity": strconv.Itoa(severity)})
}

func invalidSnapshot(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeCharacterInvalidSnapshot,
		"invalid character snapshot: "+reason,
		map[string]string{"Reason": reason})
}
