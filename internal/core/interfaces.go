// Package core defines the domain types and interfaces for text2speech.
package core

import "context"

// SynthesisJob holds the fully resolved parameters for a single synthesis
// call. The orchestrator populates every field before the capability is
// invoked; no defaulting happens below this boundary.
type SynthesisJob struct {
	Text           string
	OutputPath     string
	SpeakerWavPath string
	Language       string
	Device         Device
}

// Synthesizer is the external text-to-speech capability: given a job, write
// the synthesized audio file at the job's output path.
type Synthesizer interface {
	Synthesize(ctx context.Context, job SynthesisJob) error
}

// Backends reports which accelerated compute backends the synthesis
// capability can technically reach, independent of whether the device policy
// chooses to use them.
type Backends struct {
	CUDA bool
	MPS  bool
}

// Any reports whether at least one accelerated backend is reachable.
func (b Backends) Any() bool {
	return b.CUDA || b.MPS
}

// BackendProber exposes the capability's view of the available hardware.
// Probing is advisory: callers must treat a probe failure as "unknown",
// never as a reason to abort a conversion.
type BackendProber interface {
	Probe(ctx context.Context) (Backends, error)
}
