package core

import (
	"errors"
	"fmt"
)

// ErrorCode classifies synthesis failures so callers can make recovery
// decisions without matching substrings of human-readable messages.
type ErrorCode string

// Synthesis failure classes.
const (
	// CodeBackendIncompatible marks the known accelerated-backend runtime
	// failure (the attention-mask defect) that is recoverable by
	// re-binding the model to the CPU.
	CodeBackendIncompatible ErrorCode = "backend_incompatible"

	// CodeServiceUnavailable marks transport failures and explicit
	// unavailability responses from the synthesis service.
	CodeServiceUnavailable ErrorCode = "service_unavailable"

	// CodeInvalidRequest marks requests the service rejected as malformed.
	CodeInvalidRequest ErrorCode = "invalid_request"

	// CodeInternal marks every other synthesis failure.
	CodeInternal ErrorCode = "internal"
)

// SynthesisError is a classified failure from the synthesis capability.
type SynthesisError struct {
	Code   ErrorCode
	Detail string
	Err    error
}

// NewSynthesisError creates a classified synthesis failure. The wrapped
// error may be nil when the failure originates from a service response
// rather than a local operation.
func NewSynthesisError(code ErrorCode, detail string, err error) *SynthesisError {
	return &SynthesisError{
		Code:   code,
		Detail: detail,
		Err:    err,
	}
}

func (e *SynthesisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("synthesis failed (%s): %s: %v", e.Code, e.Detail, e.Err)
	}

	return fmt.Sprintf("synthesis failed (%s): %s", e.Code, e.Detail)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// IsBackendIncompatibility reports whether err carries the
// accelerated-backend incompatibility code. This is the only discriminator
// the CPU-fallback retry is allowed to use.
func IsBackendIncompatibility(err error) bool {
	var synthErr *SynthesisError
	if errors.As(err, &synthErr) {
		return synthErr.Code == CodeBackendIncompatible
	}

	return false
}
