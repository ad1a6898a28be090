package core

import (
	"errors"
	"fmt"
)

// Device identifies the compute device the synthesis model is bound to.
type Device string

// Supported device preferences.
const (
	DeviceAuto Device = "auto"
	DeviceCPU  Device = "cpu"
	DeviceMPS  Device = "mps"
	DeviceCUDA Device = "cuda"
)

// ErrUnsupportedDevice indicates a device preference outside the supported set.
var ErrUnsupportedDevice = errors.New("unsupported device")

// ParseDevice validates a raw device preference from the CLI.
func ParseDevice(raw string) (Device, error) {
	switch Device(raw) {
	case DeviceAuto, DeviceCPU, DeviceMPS, DeviceCUDA:
		return Device(raw), nil
	default:
		return "", fmt.Errorf(
			"%w: %q (expected auto, cpu, mps or cuda)",
			ErrUnsupportedDevice,
			raw,
		)
	}
}

// Resolve maps a device preference to the device the model is actually bound
// to. The auto preference always resolves to the CPU: a static policy
// working around known accelerated-backend defects in the current XTTS
// runtime, not a hardware probe. Revisit when the upstream runtime
// stabilizes.
func (d Device) Resolve() Device {
	if d == DeviceAuto {
		return DeviceCPU
	}

	return d
}

// Accelerated reports whether the device is a non-CPU backend.
func (d Device) Accelerated() bool {
	return d == DeviceMPS || d == DeviceCUDA
}
