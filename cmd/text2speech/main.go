// Command text2speech converts a text string or file into a synthesized
// speech audio file using a multilingual XTTS backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/book-expert/logger"
	"github.com/spf13/cobra"

	"github.com/book-expert/text2speech/internal/config"
	"github.com/book-expert/text2speech/internal/convert"
	"github.com/book-expert/text2speech/internal/core"
	"github.com/book-expert/text2speech/internal/fileutil"
	"github.com/book-expert/text2speech/internal/player"
	"github.com/book-expert/text2speech/internal/text"
	"github.com/book-expert/text2speech/internal/tts"
)

// File names and defaults.
const (
	defaultOutputFile  = "output.mp3"
	logFileNameDefault = "text2speech.log"
	logFileNameVerbose = "text2speech-verbose.log"
	bootstrapLogFile   = "text2speech-bootstrap.log"
	healthTimeout      = 10 * time.Second
)

// ErrSpeakerWavNotFound indicates the supplied reference voice path does not
// exist.
var ErrSpeakerWavNotFound = errors.New("speaker reference file not found")

// cliFlags holds the parsed command-line flag values.
type cliFlags struct {
	file       string
	output     string
	speakerWav string
	language   string
	device     string
	play       bool
	health     bool
	verbose    bool
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "text2speech [text]",
		Short: "Convert text to synthesized speech",
		Long: "Convert a text string or file into a synthesized speech audio file\n" +
			"using a multilingual XTTS backend. Provide the text as an argument\n" +
			"or with --file, and optionally a reference voice sample with\n" +
			"--speaker-wav for voice cloning.",
		Example: `  text2speech "你好，世界！"
  text2speech "Hello, world!" -l en -o greeting.mp3
  text2speech -f input.txt -o output.mp3
  text2speech "你好！" -s reference_voice.wav`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			textArg := ""
			if len(args) == 1 {
				textArg = args[0]
			}

			return run(textArg, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "",
		"Read text from a file instead of the command line argument")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultOutputFile,
		"Output audio file path")
	cmd.Flags().StringVarP(&flags.speakerWav, "speaker-wav", "s", "",
		"Reference speaker audio file for voice cloning")
	cmd.Flags().StringVarP(&flags.language, "language", "l", core.DefaultLanguage,
		"Language code ("+strings.Join(core.SupportedLanguages(), ", ")+")")
	cmd.Flags().StringVar(&flags.device, "device", string(core.DeviceAuto),
		"Device to run the model on (auto, cpu, mps, cuda)")
	cmd.Flags().BoolVar(&flags.play, "play", false,
		"Play the generated audio after synthesis")
	cmd.Flags().BoolVar(&flags.health, "health", false,
		"Check TTS service health and exit")
	cmd.Flags().BoolVar(&flags.verbose, "verbose", false,
		"Enable verbose logging")

	return cmd
}

func run(textArg string, flags cliFlags) error {
	device, err := core.ParseDevice(flags.device)
	if err != nil {
		return err
	}

	err = core.ValidateLanguage(flags.language)
	if err != nil {
		return err
	}

	err = validateSpeakerWav(flags.speakerWav)
	if err != nil {
		return err
	}

	cfg, log, err := setup(flags.verbose)
	if err != nil {
		return err
	}

	defer func() {
		closeErr := log.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing logger: %v\n", closeErr)
		}
	}()

	if flags.health {
		return runHealthCheck(cfg, log)
	}

	engine := tts.NewEngine(cfg, log)

	defer func() {
		closeErr := engine.Close()
		if closeErr != nil {
			log.Warn("Failed to close engine: %v", closeErr)
		}
	}()

	orch := convert.New(engine, convert.Options{
		Prober:     engine,
		Normalizer: newNormalizer(cfg),
		VoicesDir:  resolveVoicesDir(cfg),
		Log:        log,
		Out:        os.Stdout,
	})

	req := convert.Request{
		Text:       textArg,
		FilePath:   flags.file,
		OutputPath: flags.output,
		SpeakerWav: flags.speakerWav,
		Language:   flags.language,
		Device:     device,
	}

	outputPath, err := orch.Run(context.Background(), req)
	if err != nil {
		log.Error("Conversion failed: %v", err)

		return err
	}

	fmt.Printf("Audio saved to: %s\n", outputPath)

	if flags.play {
		playErr := player.Play(outputPath)
		if playErr != nil {
			return fmt.Errorf("failed to play %s: %w", outputPath, playErr)
		}
	}

	return nil
}

// setup builds the configuration and the final logger via the two-phase
// bootstrap: a temporary logger carries the configuration loading, the final
// logger lives under the configured logs directory.
func setup(verbose bool) (*config.Config, *logger.Logger, error) {
	bootstrapLog, err := logger.New(os.TempDir(), bootstrapLogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create bootstrap logger: %w", err)
	}

	defer func() {
		closeErr := bootstrapLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing bootstrap logger: %v\n", closeErr)
		}
	}()

	cfg := config.Load(bootstrapLog)

	err = fileutil.EnsureDir(cfg.Paths.BaseLogsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFileName := logFileNameDefault
	if verbose {
		logFileName = logFileNameVerbose
	}

	log, err := logger.New(cfg.Paths.BaseLogsDir, logFileName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, log, nil
}

// newNormalizer returns the text normalizer, or nil when preprocessing is
// disabled in the configuration.
func newNormalizer(cfg *config.Config) *text.Normalizer {
	if !cfg.TTS.Preprocess {
		return nil
	}

	return text.NewNormalizer()
}

// resolveVoicesDir picks the configured voices directory, falling back to
// the voices directory shipped next to the binary. The fallback failing is
// tolerable here: a missing default voice surfaces later, with the expected
// path, and only for conversions that actually need it.
func resolveVoicesDir(cfg *config.Config) string {
	if cfg.Paths.VoicesDir != "" {
		return cfg.Paths.VoicesDir
	}

	voicesDir, err := fileutil.InstallVoicesDir()
	if err != nil {
		return "voices"
	}

	return voicesDir
}

func runHealthCheck(cfg *config.Config, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	client := tts.NewClient(cfg.TTS.GetServiceURL(), healthTimeout)

	health, err := client.Health(ctx)
	if err != nil {
		log.Error("Health check failed: %v", err)

		return fmt.Errorf("TTS service is not healthy: %w", err)
	}

	fmt.Printf("TTS service is healthy (status: %s, model loaded: %t)\n",
		health.Status, health.ModelLoaded)

	return nil
}

// validateSpeakerWav enforces that an explicit reference voice path exists.
func validateSpeakerWav(path string) error {
	if path == "" {
		return nil
	}

	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSpeakerWavNotFound, path)
		}

		return fmt.Errorf("failed to check speaker reference %s: %w", path, err)
	}

	if !fileutil.IsAudioFile(path) {
		fmt.Printf("Warning: %s does not have a recognized audio extension\n", path)
	}

	return nil
}
