// Package text provides light text normalization applied before synthesis.
//
// The XTTS model copes badly with typographic punctuation and collapsed
// formatting artifacts, so inputs are normalized to plain ASCII punctuation
// and single spaces. Abbreviation expansion is English-only; other languages
// pass through untouched apart from the language-neutral cleanup.
package text

import (
	"regexp"
	"strings"
)

const (
	languageEnglish   = "en"
	whitespacePattern = `\s+`
)

// Normalizer normalizes raw input text for synthesis.
type Normalizer struct {
	whitespace    *regexp.Regexp
	punctuation   *strings.Replacer
	abbreviations *strings.Replacer
}

// NewNormalizer creates a normalizer with compiled patterns and replacers.
func NewNormalizer() *Normalizer {
	punctuation := strings.NewReplacer(
		"—", "-",
		"–", "-",
		"‒", "-",
		"…", "...",
		"“", `"`,
		"”", `"`,
		"‘", "'",
		"’", "'",
	)

	abbreviations := strings.NewReplacer(
		"Mr.", "Mister",
		"Mrs.", "Misses",
		"Ms.", "Miss",
		"Dr.", "Doctor",
		"St.", "Saint",
		"Co.", "Company",
		"Ltd.", "Limited",
		"Corp.", "Corporation",
		"Inc.", "Incorporated",
	)

	return &Normalizer{
		whitespace:    regexp.MustCompile(whitespacePattern),
		punctuation:   punctuation,
		abbreviations: abbreviations,
	}
}

// Normalize cleans the input for the given language code. Inputs that are
// already plain single-line text come back unchanged apart from trimming.
func (n *Normalizer) Normalize(input, language string) string {
	if input == "" {
		return input
	}

	cleaned := input
	if language == languageEnglish {
		cleaned = n.abbreviations.Replace(cleaned)
	}

	cleaned = n.punctuation.Replace(cleaned)
	cleaned = n.whitespace.ReplaceAllString(cleaned, " ")

	return strings.TrimSpace(cleaned)
}
