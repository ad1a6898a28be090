// Package player plays a synthesized audio file on the local sound device.
package player

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// speakerBufferDivisor sizes the playback buffer at 1/10th of a second.
const speakerBufferDivisor = 10

const (
	extMP3 = ".mp3"
	extWAV = ".wav"
)

// ErrUnsupportedFormat indicates a file extension the player cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported playback format")

// Play decodes the audio file at path and plays it to completion. Only the
// containers the synthesis service produces (mp3, wav) are supported.
func Play(path string) error {
	audioFile, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer audioFile.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3:
		streamer, format, err = mp3.Decode(audioFile)
	case extWAV:
		streamer, format, err = wav.Decode(audioFile)
	default:
		return fmt.Errorf("%w: %q (use .mp3 or .wav)", ErrUnsupportedFormat, filepath.Ext(path))
	}

	if err != nil {
		return fmt.Errorf("failed to decode audio file: %w", err)
	}
	defer streamer.Close()

	err = speaker.Init(
		format.SampleRate,
		format.SampleRate.N(time.Second/speakerBufferDivisor),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize audio device: %w", err)
	}

	done := make(chan struct{})

	speaker.Play(beep.Seq(streamer, beep.Callback(func() { close(done) })))
	<-done

	return nil
}
