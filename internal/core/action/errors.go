package action

import apperrors "github.com/louisbranch/duskwall/internal/platform/errors"

var (
	// ErrInvalidPosition indicates a position outside Controlled, Risky or Desperate.
	ErrInvalidPosition = apperrors.New(apperrors.CodeActionInvalidPosition, "invalid position")
	// ErrInvalidEffect indicates an unknown effect level.
	ErrInvalidEffect = apperrors.New(apperrors.CodeActionInvalidEffect, "invalid effect")
	// ErrEffectClamped indicates a trade would push effect past its bound.
	ErrEffectClamped = apperrors.New(apperrors.CodeActionEffectClamped, "effect clamped")
	// ErrPositionClamped indicates a trade would push position past its bound.
	ErrPositionClamped = apperrors.New(apperrors.CodeActionPositionClamped, "position clamped")
	// ErrInvalidConsequence indicates an unknown consequence kind.
	ErrInvalidConsequence = apperrors.New(apperrors.CodeActionInvalidConsequence, "invalid consequence")
)

func invalidPosition(value string) error {
	return apperrors.WithMetadata(apperrors.CodeActionInvalidPosition,
		"invalid position "+value, map[string]string{"Position": value})
}

func invalidEffect(value string) error {
	return apperrors.WithMetadata(apperrors.CodeActionInvalidEffect,
		"invalid effect "+value, map[string]string{"Effect": value})
}

func invalidConsequence(value string) error {
	return apperrors.WithMetadata(apperrors.CodeActionInvalidConsequence,
		"invalid consequence "+value, map[string]string{"Consequence": value})
}
