// Package tts implements the HTTP client and engine for the standalone XTTS
// synthesis service that text2speech delegates all speech generation to.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/book-expert/text2speech/internal/core"
)

// API endpoints and paths.
const (
	apiGenerateSpeech = "/v1/generate/speech"
	apiHealth         = "/health"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	headerRequestID   = "X-Request-ID"
	contentTypeJSON   = "application/json"
	contentTypeMPEG   = "audio/mpeg"
	audioTypePrefix   = "audio/"
)

// attentionMaskIndicator is the failure-text marker the XTTS runtime emits
// when an accelerated backend hits the known attention-mask defect. Matching
// it is confined to this boundary: everything above works with the
// structured error code instead.
const attentionMaskIndicator = "attention_mask"

// Client is an HTTP client for the standalone XTTS service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Request defines the JSON payload for speech generation requests.
type Request struct {
	// Text contains the input text to convert to speech. Must be non-empty.
	Text string `json:"text"`

	// SpeakerRefPath is the path to the reference voice sample used to
	// condition the output timbre.
	SpeakerRefPath string `json:"speaker_ref_path,omitempty"`

	// Language is the target language code (e.g. "en", "zh-cn").
	Language string `json:"language"`

	// Device selects the compute device the model is bound to for this
	// request (cpu, mps or cuda).
	Device string `json:"device,omitempty"`

	// Temperature controls randomness in speech generation.
	Temperature float64 `json:"temperature,omitempty"`
}

// errorResponse is the structured JSON error body the service returns on
// failed requests.
type errorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}

// HealthStatus is the service's health report, including which accelerated
// backends its runtime can reach.
type HealthStatus struct {
	Status        string `json:"status"`
	ModelLoaded   bool   `json:"model_loaded"`
	CUDAAvailable bool   `json:"cuda_available"`
	MPSAvailable  bool   `json:"mps_available"`
}

// NewClient creates and configures an HTTP client for the XTTS service.
// The baseURL should include protocol and port (e.g. "http://localhost:8020").
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GenerateSpeech sends a synthesis request and returns the raw encoded audio.
// Failures are returned as *core.SynthesisError so callers can discriminate
// the recoverable backend-incompatibility case without parsing messages.
func (c *Client) GenerateSpeech(ctx context.Context, req Request) ([]byte, error) {
	if req.Text == "" {
		return nil, core.NewSynthesisError(
			core.CodeInvalidRequest,
			"text cannot be empty",
			nil,
		)
	}

	requestBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+apiGenerateSpeech,
		bytes.NewBuffer(requestBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, contentTypeMPEG)
	httpReq.Header.Set(headerRequestID, uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, core.NewSynthesisError(
			core.CodeServiceUnavailable,
			fmt.Sprintf("failed to reach TTS service at %s", c.baseURL),
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.classifyErrorResponse(resp)
	}

	contentType := resp.Header.Get(headerContentType)
	if !strings.HasPrefix(contentType, audioTypePrefix) {
		return nil, core.NewSynthesisError(
			core.CodeInternal,
			fmt.Sprintf("unexpected content type: expected audio/*, got %s", contentType),
			nil,
		)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	if len(audioData) == 0 {
		return nil, core.NewSynthesisError(
			core.CodeInternal,
			"received empty audio data",
			nil,
		)
	}

	return audioData, nil
}

// Health queries the service health endpoint and returns the parsed report.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var health HealthStatus

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+apiHealth,
		http.NoBody,
	)
	if err != nil {
		return health, fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return health, fmt.Errorf(
			"health check failed for service at %s: %w",
			c.baseURL,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return health, fmt.Errorf("health check failed with status: %s", resp.Status)
	}

	err = json.NewDecoder(resp.Body).Decode(&health)
	if err != nil {
		return health, fmt.Errorf("failed to decode health response: %w", err)
	}

	return health, nil
}

// classifyErrorResponse maps a non-OK service response onto a classified
// synthesis error. The service signals the known accelerated-backend defect
// either with an explicit error code or, in older deployments, with an
// attention-mask marker in the detail text.
func (c *Client) classifyErrorResponse(resp *http.Response) error {
	var errResp errorResponse

	decodeErr := json.NewDecoder(resp.Body).Decode(&errResp)
	if decodeErr != nil {
		body, _ := io.ReadAll(resp.Body)

		return core.NewSynthesisError(
			core.CodeInternal,
			fmt.Sprintf("TTS service returned %s: %s", resp.Status, string(body)),
			nil,
		)
	}

	code := core.CodeInternal

	switch {
	case errResp.ErrorCode == string(core.CodeBackendIncompatible),
		strings.Contains(errResp.Detail, attentionMaskIndicator):
		code = core.CodeBackendIncompatible
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnprocessableEntity:
		code = core.CodeInvalidRequest
	case resp.StatusCode == http.StatusServiceUnavailable:
		code = core.CodeServiceUnavailable
	}

	return core.NewSynthesisError(
		code,
		fmt.Sprintf("TTS service error (%s): %s", resp.Status, errResp.Detail),
		nil,
	)
}
