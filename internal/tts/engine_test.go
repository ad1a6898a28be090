package tts_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/book-expert/logger"

	"github.com/book-expert/text2speech/internal/config"
	"github.com/book-expert/text2speech/internal/core"
	"github.com/book-expert/text2speech/internal/tts"
)

// createTestLogger creates a test logger instance for engine testing.
func createTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	lg, err := logger.New(t.TempDir(), "test.log")
	if err != nil {
		t.Fatalf("Failed to create test logger: %v", err)
	}

	return lg
}

// createMockService creates a mock server simulating the XTTS service.
func createMockService(
	t *testing.T,
	responses map[string]func(w http.ResponseWriter, r *http.Request),
) *httptest.Server {
	t.Helper()

	return httptest.NewServer(
		http.HandlerFunc(
			func(responseWriter http.ResponseWriter, request *http.Request) {
				handler, exists := responses[request.URL.Path]
				if !exists {
					t.Errorf("Unexpected request path: %s", request.URL.Path)
					responseWriter.WriteHeader(http.StatusNotFound)

					return
				}

				handler(responseWriter, request)
			},
		),
	)
}

func newTestEngine(t *testing.T, serverURL string) *tts.Engine {
	t.Helper()

	cfg := config.Default()
	log := createTestLogger(t)

	t.Cleanup(func() { log.Close() })

	client := tts.NewClient(serverURL, 30*time.Second)

	return tts.NewEngineWithClient(cfg, log, client)
}

func TestEngine_Synthesize_WritesAudioFile(t *testing.T) {
	t.Parallel()

	const testAudioData = "mock-mp3-audio-data"

	responses := map[string]func(w http.ResponseWriter, r *http.Request){
		"/v1/generate/speech": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "audio/mpeg")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(testAudioData))
		},
	}

	server := createMockService(t, responses)
	defer server.Close()

	engine := newTestEngine(t, server.URL)
	defer engine.Close()

	outputPath := filepath.Join(t.TempDir(), "greeting.mp3")

	err := engine.Synthesize(context.Background(), core.SynthesisJob{
		Text:           "Hello, world!",
		OutputPath:     outputPath,
		SpeakerWavPath: "/voices/default_voice.mp3",
		Language:       "en",
		Device:         core.DeviceCPU,
	})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}

	if string(content) != testAudioData {
		t.Errorf("Expected file content %q, got %q", testAudioData, string(content))
	}
}

func TestEngine_Synthesize_EmptyText(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, "http://127.0.0.1:1")
	defer engine.Close()

	err := engine.Synthesize(context.Background(), core.SynthesisJob{
		OutputPath: filepath.Join(t.TempDir(), "out.mp3"),
		Language:   "en",
		Device:     core.DeviceCPU,
	})
	if !errors.Is(err, tts.ErrTextEmpty) {
		t.Fatalf("Expected ErrTextEmpty, got %v", err)
	}
}

func TestEngine_Synthesize_EmptyOutputPath(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, "http://127.0.0.1:1")
	defer engine.Close()

	err := engine.Synthesize(context.Background(), core.SynthesisJob{
		Text:     "hello",
		Language: "en",
		Device:   core.DeviceCPU,
	})
	if !errors.Is(err, tts.ErrOutputPathEmpty) {
		t.Fatalf("Expected ErrOutputPathEmpty, got %v", err)
	}
}

func TestEngine_Synthesize_MissingParentDirectory(t *testing.T) {
	t.Parallel()

	const testAudioData = "mock-mp3-audio-data"

	responses := map[string]func(w http.ResponseWriter, r *http.Request){
		"/v1/generate/speech": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "audio/mpeg")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(testAudioData))
		},
	}

	server := createMockService(t, responses)
	defer server.Close()

	engine := newTestEngine(t, server.URL)
	defer engine.Close()

	// Parent directories are not created on the caller's behalf; the
	// write failure surfaces.
	outputPath := filepath.Join(t.TempDir(), "does", "not", "exist", "out.mp3")

	err := engine.Synthesize(context.Background(), core.SynthesisJob{
		Text:       "hello",
		OutputPath: outputPath,
		Language:   "en",
		Device:     core.DeviceCPU,
	})
	if err == nil {
		t.Fatal("Expected write error for missing parent directory")
	}
}

func TestEngine_Probe(t *testing.T) {
	t.Parallel()

	responses := map[string]func(w http.ResponseWriter, r *http.Request){
		"/health": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]any{
				"status":         "healthy",
				"model_loaded":   true,
				"cuda_available": true,
				"mps_available":  false,
			})
		},
	}

	server := createMockService(t, responses)
	defer server.Close()

	engine := newTestEngine(t, server.URL)
	defer engine.Close()

	backends, err := engine.Probe(context.Background())
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	if !backends.CUDA || backends.MPS {
		t.Errorf("Unexpected backends: %+v", backends)
	}

	if !backends.Any() {
		t.Error("Expected Any() to report true with CUDA available")
	}
}

func TestEngine_Probe_ServiceDown(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, "http://127.0.0.1:1")
	defer engine.Close()

	_, err := engine.Probe(context.Background())
	if err == nil {
		t.Fatal("Expected probe error for unreachable service")
	}
}
