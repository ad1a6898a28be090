package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestRootCmdFlagParsing verifies the CLI flag surface, including the short
// forms and defaults.
func TestRootCmdFlagParsing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		flag string
		want string
	}{
		{
			name: "file short flag",
			args: []string{"-f", "input.txt"},
			flag: "file",
			want: "input.txt",
		},
		{
			name: "output long flag",
			args: []string{"--output", "greeting.mp3"},
			flag: "output",
			want: "greeting.mp3",
		},
		{
			name: "output default",
			args: []string{},
			flag: "output",
			want: "output.mp3",
		},
		{
			name: "speaker wav short flag",
			args: []string{"-s", "ref.wav"},
			flag: "speaker-wav",
			want: "ref.wav",
		},
		{
			name: "language short flag",
			args: []string{"-l", "en"},
			flag: "language",
			want: "en",
		},
		{
			name: "language default",
			args: []string{},
			flag: "language",
			want: "zh-cn",
		},
		{
			name: "device default",
			args: []string{},
			flag: "device",
			want: "auto",
		},
		{
			name: "device explicit",
			args: []string{"--device", "mps"},
			flag: "device",
			want: "mps",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cmd := newRootCmd()

			err := cmd.ParseFlags(testCase.args)
			if err != nil {
				t.Fatalf("ParseFlags failed: %v", err)
			}

			got, err := cmd.Flags().GetString(testCase.flag)
			if err != nil {
				t.Fatalf("Flag %q not defined: %v", testCase.flag, err)
			}

			if got != testCase.want {
				t.Errorf("Flag %q = %q, want %q", testCase.flag, got, testCase.want)
			}
		})
	}
}

func TestValidateSpeakerWav(t *testing.T) {
	t.Parallel()

	// Empty path is fine: the bundled default voice takes over.
	if err := validateSpeakerWav(""); err != nil {
		t.Errorf("Expected no error for empty path, got %v", err)
	}

	missing := filepath.Join(t.TempDir(), "nope.wav")
	if err := validateSpeakerWav(missing); !errors.Is(err, ErrSpeakerWavNotFound) {
		t.Errorf("Expected ErrSpeakerWavNotFound, got %v", err)
	}

	existing := filepath.Join(t.TempDir(), "ref.wav")
	if err := os.WriteFile(existing, []byte("ref"), 0o600); err != nil {
		t.Fatalf("Failed to write reference file: %v", err)
	}

	if err := validateSpeakerWav(existing); err != nil {
		t.Errorf("Expected no error for existing reference, got %v", err)
	}
}
