// Compute device selection and probing
package model

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrDeviceUnavailable is returned when the requested device cannot be used.
var ErrDeviceUnavailable = errors.New("compute device unavailable")

// Device is where the network runs.
type Device string

const (
	DeviceCPU  Device = "cpu"
	DeviceCUDA Device = "cuda"
)

// ParseDevice validates a device name.
func ParseDevice(s string) (Device, error) {
	switch d := Device(s); d {
	case DeviceCPU, DeviceCUDA:
		return d, nil
	default:
		return "", fmt.Errorf("unknown device %q (want cpu or cuda)", s)
	}
}

// DeviceProbe reports whether a device is usable on this host.
type DeviceProbe func(Device) error

// ProbeDevice is the default DeviceProbe. The CPU is always available; CUDA
// is available when OpenCV reports at least one CUDA-enabled device, which
// requires building with the cuda tag.
func ProbeDevice(d Device) error {
	return probeWith(cudaDeviceCount)(d)
}

func probeWith(count func() (int, error)) DeviceProbe {
	return func(d Device) error {
		switch d {
		case DeviceCPU:
			return nil
		case DeviceCUDA:
			n, err := count()
			if err != nil {
				return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
			}
			if n < 1 {
				return fmt.Errorf("%w: no CUDA-enabled device", ErrDeviceUnavailable)
			}
			return nil
		default:
			return fmt.Errorf("%w: %s", ErrDeviceUnavailable, d)
		}
	}
}

// ResolveDevice picks the device to bind to. An unavailable request is fatal
// unless allowFallback is set, in which case the CPU is used and a warning logged.
func ResolveDevice(requested Device, allowFallback bool, probe DeviceProbe, logger logrus.FieldLogger) (Device, error) {
	if requested == "" {
		requested = DeviceCPU
	}

	err := probe(requested)
	if err == nil {
		return requested, nil
	}

	if !allowFallback || requested == DeviceCPU {
		return "", fmt.Errorf("device %s: %w", requested, err)
	}

	logger.WithFields(logrus.Fields{
		"requested": requested,
		"using":     DeviceCPU,
		"reason":    err.Error(),
	}).Warn("Compute device unavailable, falling back to CPU")

	return DeviceCPU, nil
}
