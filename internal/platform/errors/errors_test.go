package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/louisbranch/duskwall/internal/platform/errors/i18n"
)

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeClockInvalidSize, "clock must have at least one segment")
	withMeta := WithMetadata(CodeClockInvalidSize, "clock size -1", map[string]string{"Segments": "-1"})

	if !stderrors.Is(withMeta, sentinel) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(New(CodeNotFound, "missing"), sentinel) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapChain(t *testing.T) {
	cause := stderrors.New("boom")
	err := fmt.Errorf("roll: %w", Wrap(CodeDiceSourceExhausted, "draw die", cause))

	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause to be reachable")
	}
	if got := GetCode(err); got != CodeDiceSourceExhausted {
		t.Fatalf("GetCode() = %q, want %q", got, CodeDiceSourceExhausted)
	}
	if got := err.Error(); got != "roll: draw die: boom" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestGetCodeUnknown(t *testing.T) {
	if got := GetCode(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("GetCode() = %q, want %q", got, CodeUnknown)
	}
	if got := Metadata(stderrors.New("plain")); got != nil {
		t.Fatalf("Metadata() = %v, want nil", got)
	}
}

func TestCodeKind(t *testing.T) {
	tests := []struct {
		code Code
		want Kind
	}{
		{CodeDiceInvalidPoolSize, KindInvalidArgument},
		{CodeClockInvalidSize, KindInvalidArgument},
		{CodeCharacterTraumaExhausted, KindFailedPrecondition},
		{CodeCharacterHarmTrackFull, KindFailedPrecondition},
		{CodeNotFound, KindNotFound},
		{CodeAlreadyExists, KindAlreadyExists},
		{CodeUnknown, KindInternal},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLocalizedMessage(t *testing.T) {
	err := fmt.Errorf("fill: %w", WithMetadata(CodeClockInvalidFillAmount, "fill amount 0", map[string]string{"Amount": "0"}))

	tests := []struct {
		name   string
		err    error
		locale string
		want   string
	}{
		{name: "nil", err: nil, locale: "en-US", want: ""},
		{name: "english", err: err, locale: "en-US", want: "clock fill amount must be positive, got 0"},
		{name: "portuguese", err: err, locale: "pt-BR", want: "a quantidade para preencher o relógio deve ser positiva, recebido 0"},
		{name: "fallback locale", err: err, locale: "de-DE", want: "clock fill amount must be positive, got 0"},
		{name: "plain error", err: stderrors.New("disk on fire"), locale: "en-US", want: "an unexpected error occurred"},
		{name: "uncatalogued code", err: New(Code("CUSTOM"), "custom failure"), locale: "en-US", want: "custom failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocalizedMessage(tt.err, tt.locale); got != tt.want {
				t.Errorf("LocalizedMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEveryCodeHasTemplate(t *testing.T) {
	codes := []Code{
		CodeUnknown,
		CodeDiceInvalidPoolSize, CodeDiceDieOutOfRange, CodeDiceSourceExhausted,
		CodeDiceInvalidSpec, CodeDiceMissing, CodeDiceProbabilityTooBig, CodeDicePoolTooBig, CodeDiceSpecTooBig,
		CodeActionInvalidPosition, CodeActionInvalidEffect, CodeActionEffectClamped, CodeActionPositionClamped,
		CodeActionInvalidConsequence,
		CodeClockInvalidSize, CodeClockInvalidFillAmount,
		CodeCharacterEmptyName, CodeCharacterInvalidStressAmount, CodeCharacterTraumaExhausted,
		CodeCharacterInvalidHarmSeverity, CodeCharacterHarmTrackFull, CodeCharacterNotHarmed,
		CodeCharacterIncapacitated, CodeCharacterInvalidSnapshot, CodeCharacterInvalidTraumaOptions,
		CodeNotFound, CodeAlreadyExists,
	}
	for _, locale := range []string{"en-US", "pt-BR"} {
		cat := i18n.GetCatalog(locale)
		for _, code := range codes {
			if !cat.Has(string(code)) {
				t.Errorf("%s catalog missing %s", locale, code)
			}
		}
	}
}
