package tts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/book-expert/logger"

	"github.com/book-expert/text2speech/internal/config"
	"github.com/book-expert/text2speech/internal/core"
)

const filePermissions = 0o600

// Static errors.
var (
	ErrTextEmpty       = errors.New("text cannot be empty")
	ErrOutputPathEmpty = errors.New("output path cannot be empty")
)

// Engine drives the XTTS HTTP service and writes the generated audio to
// disk. It implements core.Synthesizer and core.BackendProber.
type Engine struct {
	client *Client
	config *config.Config
	logger *logger.Logger
}

// NewEngine creates an engine talking to the service configured in cfg.
func NewEngine(cfg *config.Config, log *logger.Logger) *Engine {
	timeout := time.Duration(cfg.TTS.TimeoutSeconds) * time.Second
	client := NewClient(cfg.TTS.GetServiceURL(), timeout)

	return &Engine{
		client: client,
		config: cfg,
		logger: log,
	}
}

// NewEngineWithClient creates an engine with a custom client, primarily for
// tests that point at a mock server.
func NewEngineWithClient(cfg *config.Config, log *logger.Logger, client *Client) *Engine {
	return &Engine{
		client: client,
		config: cfg,
		logger: log,
	}
}

// Synthesize generates speech for the job and writes the audio file at the
// job's output path. Parent directories are the caller's responsibility: a
// write into a missing directory surfaces as an error, it is not papered
// over here.
func (e *Engine) Synthesize(ctx context.Context, job core.SynthesisJob) error {
	if job.Text == "" {
		return ErrTextEmpty
	}

	if job.OutputPath == "" {
		return ErrOutputPathEmpty
	}

	req := Request{
		Text:           job.Text,
		SpeakerRefPath: job.SpeakerWavPath,
		Language:       job.Language,
		Device:         string(job.Device),
		Temperature:    e.config.TTS.Temperature,
	}

	reqCtx, cancel := context.WithTimeout(
		ctx,
		time.Duration(e.config.TTS.TimeoutSeconds)*time.Second,
	)
	defer cancel()

	audioData, err := e.client.GenerateSpeech(reqCtx, req)
	if err != nil {
		return fmt.Errorf("failed to generate speech: %w", err)
	}

	writeErr := os.WriteFile(job.OutputPath, audioData, filePermissions)
	if writeErr != nil {
		return fmt.Errorf("failed to write audio file: %w", writeErr)
	}

	e.logger.Info("Generated audio: %s (%d bytes)", job.OutputPath, len(audioData))

	return nil
}

// Probe reports which accelerated backends the service's runtime can reach,
// based on its health report.
func (e *Engine) Probe(ctx context.Context) (core.Backends, error) {
	health, err := e.client.Health(ctx)
	if err != nil {
		return core.Backends{}, fmt.Errorf("backend probe failed: %w", err)
	}

	return core.Backends{
		CUDA: health.CUDAAvailable,
		MPS:  health.MPSAvailable,
	}, nil
}

// Close performs cleanup for the engine. Currently a no-op as HTTP clients
// need no explicit teardown, kept for interface consistency.
func (e *Engine) Close() error {
	return nil
}
