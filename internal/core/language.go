package core

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultLanguage is the language code used when none is requested.
const DefaultLanguage = "zh-cn"

// supportedLanguages is the fixed set of language codes the multilingual
// XTTS model accepts.
var supportedLanguages = []string{
	"zh-cn", "en", "es", "fr", "de", "it", "pt", "pl",
	"tr", "ru", "nl", "cs", "ar", "ja", "hu", "ko",
}

// ErrUnsupportedLanguage indicates a language code outside the supported set.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// SupportedLanguages returns the supported language codes in a stable order.
func SupportedLanguages() []string {
	codes := make([]string, len(supportedLanguages))
	copy(codes, supportedLanguages)

	return codes
}

// ValidateLanguage checks a language code against the supported set.
func ValidateLanguage(code string) error {
	for _, lang := range supportedLanguages {
		if code == lang {
			return nil
		}
	}

	return fmt.Errorf(
		"%w: %q (supported: %s)",
		ErrUnsupportedLanguage,
		code,
		strings.Join(supportedLanguages, ", "),
	)
}
