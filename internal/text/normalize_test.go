package text_test

import (
	"testing"

	"github.com/book-expert/text2speech/internal/text"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	normalizer := text.NewNormalizer()

	tests := []struct {
		name     string
		input    string
		language string
		want     string
	}{
		{
			name:     "plain text is unchanged",
			input:    "Hello, world!",
			language: "en",
			want:     "Hello, world!",
		},
		{
			name:     "whitespace collapses",
			input:    "one\n\ttwo   three\r\n",
			language: "en",
			want:     "one two three",
		},
		{
			name:     "smart punctuation normalizes",
			input:    "“Wait” — she said…",
			language: "en",
			want:     `"Wait" - she said...`,
		},
		{
			name:     "english abbreviations expand",
			input:    "Dr. Smith met Mr. Jones",
			language: "en",
			want:     "Doctor Smith met Mister Jones",
		},
		{
			name:     "abbreviations untouched for other languages",
			input:    "Dr. Haus",
			language: "de",
			want:     "Dr. Haus",
		},
		{
			name:     "empty input stays empty",
			input:    "",
			language: "en",
			want:     "",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := normalizer.Normalize(testCase.input, testCase.language)
			if got != testCase.want {
				t.Errorf("Normalize(%q) = %q, want %q", testCase.input, got, testCase.want)
			}
		})
	}
}
