package domain

import (
	"strings"

	apperrors "github.com/louisbranch/duskwall/internal/platform/errors"
	"github.com/louisbranch/duskwall/internal/platform/i18n/catalog"
	"golang.org/x/text/message"
)

// Localizer renders labels and error messages for one locale.
type Localizer struct {
	locale  string
	bundle  *catalog.Bundle
	printer *message.Printer
}

// NewLocalizer returns a Localizer for locale, falling back to the base
// locale when it is empty or unknown.
func NewLocalizer(locale string) Localizer {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = catalog.BaseLocale
	}
	return newLocalizer(locale, catalog.Default())
}

func newLocalizer(locale string, bundle *catalog.Bundle) Localizer {
	return Localizer{locale: locale, bundle: bundle, printer: bundle.Printer(locale)}
}

// Locale returns the requested locale.
func (l Localizer) Locale() string {
	return l.locale
}

// Label renders a label key. Empty keys render as empty strings; keys the
// printer does not know fall back to the bundle's base-locale message.
func (l Localizer) Label(key string) string {
	if key == "" {
		return ""
	}
	if l.printer != nil {
		if out := l.printer.Sprintf(key); out != key {
			return out
		}
	}
	if msg, ok := l.bundle.Message(l.locale, key); ok {
		return msg
	}
	return key
}

// Sprintf renders a formatted label.
func (l Localizer) Sprintf(key string, args ...any) string {
	if l.printer == nil {
		return key
	}
	return l.printer.Sprintf(key, args...)
}

// ToolError is a tool failure carrying a player-facing message.
type ToolError struct {
	Code    apperrors.Code
	Message string
	cause   error
}

func (e *ToolError) Error() string {
	return e.Message
}

func (e *ToolError) Unwrap() error {
	return e.cause
}

// Fail turns err into a ToolError localized for l.
func (l Localizer) Fail(err error) error {
	if err == nil {
		return nil
	}
	return &ToolError{
		Code:    apperrors.GetCode(err),
		Message: apperrors.LocalizedMessage(err, l.locale),
		cause:   err,
	}
}
