// Package convert implements the conversion orchestrator: a single linear
// pass from raw CLI input to a synthesized audio file. The pass is
// validate -> acquire text -> resolve device -> resolve voice -> synthesize
// (with at most one CPU-fallback retry) -> report; no step is revisited.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/book-expert/logger"

	"github.com/book-expert/text2speech/internal/core"
	"github.com/book-expert/text2speech/internal/text"
)

// DefaultVoiceFile is the bundled reference voice asset used when the caller
// supplies no speaker sample.
const DefaultVoiceFile = "default_voice.mp3"

const previewLimit = 50

// Usage errors, reported before the synthesis capability is ever touched.
var (
	ErrMissingInput         = errors.New("missing input: provide text as an argument or use --file")
	ErrAmbiguousInput       = errors.New("ambiguous input: provide either a text argument or --file, not both")
	ErrEmptyFile            = errors.New("input file is empty")
	ErrDefaultVoiceNotFound = errors.New("default voice file not found")
)

// Progress notices written to the output stream.
const (
	noticeReadingFile     = "Reading text from file: %s\n"
	noticeTextPreview     = "Text to convert: '%s'\n"
	noticeUsingCPU        = "Using CPU (for compatibility with the XTTS backend)\n"
	noticeAcceleratorIdle = "Note: accelerated backend detected but not used due to known compatibility issues\n"
	noticeMPSWarning      = "Warning: MPS has known compatibility issues with XTTS; synthesis may fail\n"
	noticeGenerating      = "Generating speech with language: %s\n"
	noticeSpeakerRef      = "Using speaker reference: %s\n"
	noticeDefaultVoice    = "Using default voice (provide a reference with -s for a custom timbre)\n"
	noticeCPUFallback     = "Accelerated backend incompatibility detected, falling back to CPU...\n"
)

// Request carries the raw, request-scoped input of one conversion. Exactly
// one of Text and FilePath must be non-empty.
type Request struct {
	Text       string
	FilePath   string
	OutputPath string
	SpeakerWav string
	Language   string
	Device     core.Device
}

// Options configures an Orchestrator beyond its synthesis capability.
type Options struct {
	// Prober, when set, is consulted for the informational notice about
	// unused accelerated hardware. It is never load-bearing.
	Prober core.BackendProber

	// Normalizer, when set, cleans acquired text before synthesis.
	Normalizer *text.Normalizer

	// VoicesDir is the directory holding the bundled default voice.
	VoicesDir string

	// Log receives the operational log; Out receives user-facing notices.
	Log *logger.Logger
	Out io.Writer
}

// Orchestrator resolves a Request and drives the synthesis capability.
type Orchestrator struct {
	synth      core.Synthesizer
	prober     core.BackendProber
	normalizer *text.Normalizer
	voicesDir  string
	log        *logger.Logger
	out        io.Writer
}

// New creates an orchestrator around the given synthesis capability.
func New(synth core.Synthesizer, opts Options) *Orchestrator {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	return &Orchestrator{
		synth:      synth,
		prober:     opts.Prober,
		normalizer: opts.Normalizer,
		voicesDir:  opts.VoicesDir,
		log:        opts.Log,
		out:        out,
	}
}

// Run executes one conversion and returns the absolute output path on
// success. All validation happens before the synthesizer is invoked.
func (o *Orchestrator) Run(ctx context.Context, req Request) (string, error) {
	input, err := o.acquireText(req)
	if err != nil {
		return "", err
	}

	device := o.resolveDevice(ctx, req.Device)

	voicePath, usedDefault, err := o.resolveVoice(req.SpeakerWav)
	if err != nil {
		return "", err
	}

	outputPath, err := filepath.Abs(req.OutputPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path %q: %w", req.OutputPath, err)
	}

	fmt.Fprintf(o.out, noticeGenerating, req.Language)

	if usedDefault {
		fmt.Fprint(o.out, noticeDefaultVoice)
	} else {
		fmt.Fprintf(o.out, noticeSpeakerRef, voicePath)
	}

	job := core.SynthesisJob{
		Text:           input,
		OutputPath:     outputPath,
		SpeakerWavPath: voicePath,
		Language:       req.Language,
		Device:         device,
	}

	err = o.synthesize(ctx, job)
	if err != nil {
		return "", err
	}

	o.log.Info("Synthesis complete: %s (language %s, device %s)",
		outputPath, req.Language, device)

	return outputPath, nil
}

// acquireText validates the input source invariant (exactly one of literal
// text and file path) and returns the text to synthesize.
func (o *Orchestrator) acquireText(req Request) (string, error) {
	if req.Text == "" && req.FilePath == "" {
		return "", ErrMissingInput
	}

	if req.Text != "" && req.FilePath != "" {
		return "", ErrAmbiguousInput
	}

	input := req.Text

	if req.FilePath != "" {
		fmt.Fprintf(o.out, noticeReadingFile, req.FilePath)

		data, err := os.ReadFile(req.FilePath)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}

		input = strings.TrimSpace(string(data))
		if input == "" {
			return "", fmt.Errorf("%w: %s", ErrEmptyFile, req.FilePath)
		}
	}

	if o.normalizer != nil {
		input = o.normalizer.Normalize(input, req.Language)
	}

	fmt.Fprintf(o.out, noticeTextPreview, preview(input))

	return input, nil
}

// resolveDevice applies the device policy. The auto preference always
// resolves to the CPU regardless of detected hardware; the probe only feeds
// the informational notice about idle accelerators.
func (o *Orchestrator) resolveDevice(ctx context.Context, requested core.Device) core.Device {
	resolved := requested.Resolve()

	switch requested {
	case core.DeviceAuto:
		fmt.Fprint(o.out, noticeUsingCPU)

		if o.acceleratorAvailable(ctx) {
			fmt.Fprint(o.out, noticeAcceleratorIdle)
		}
	case core.DeviceMPS:
		fmt.Fprint(o.out, noticeMPSWarning)
	case core.DeviceCPU, core.DeviceCUDA:
	}

	o.log.Info("Resolved device %q to %q", requested, resolved)

	return resolved
}

func (o *Orchestrator) acceleratorAvailable(ctx context.Context) bool {
	if o.prober == nil {
		return false
	}

	backends, err := o.prober.Probe(ctx)
	if err != nil {
		// The probe is advisory; device resolution never fails on it.
		o.log.Warn("Backend probe failed: %v", err)

		return false
	}

	return backends.Any()
}

// resolveVoice returns the reference voice path and whether the bundled
// default was used. A missing bundled asset is a usage error naming the
// expected path.
func (o *Orchestrator) resolveVoice(speakerWav string) (string, bool, error) {
	if speakerWav != "" {
		return speakerWav, false, nil
	}

	voicePath := filepath.Join(o.voicesDir, DefaultVoiceFile)

	_, statErr := os.Stat(voicePath)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return "", false, fmt.Errorf("%w: %s", ErrDefaultVoiceNotFound, voicePath)
		}

		return "", false, fmt.Errorf(
			"failed to check default voice file %s: %w",
			voicePath,
			statErr,
		)
	}

	return voicePath, true, nil
}

// synthesize invokes the capability, recovering exactly once from the known
// MPS runtime defect by re-binding the identical job to the CPU. A second
// failure propagates as-is; so does every other failure.
func (o *Orchestrator) synthesize(ctx context.Context, job core.SynthesisJob) error {
	err := o.synth.Synthesize(ctx, job)
	if err == nil {
		return nil
	}

	if job.Device != core.DeviceMPS || !core.IsBackendIncompatibility(err) {
		return err
	}

	fmt.Fprint(o.out, noticeCPUFallback)
	o.log.Warn("MPS synthesis failed with backend incompatibility, retrying on CPU: %v", err)

	job.Device = core.DeviceCPU

	return o.synth.Synthesize(ctx, job)
}

// preview truncates text to a short, rune-safe display form.
func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= previewLimit {
		return s
	}

	return string(runes[:previewLimit]) + "..."
}
