// Pretrained color-prediction networks behind a narrow interface.
//
// NetModel loads <kind>.onnx through OpenCV's DNN module. The graph takes a
// 1x1xHxW float32 lightness blob and returns a 1x2xHxW chrominance blob. By
// default the graph is expected to contain the networks' own normalize and
// unnormalize layers (raw L in [0,100] in, Lab ab out); set
// Options.Normalization to NormalizationExternal for graphs exported without
// them. See Normalization.
package model

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

var (
	// ErrModelNotFound is returned when the network file is missing.
	ErrModelNotFound = errors.New("model file not found")
	// ErrBadOutput is returned when the network produces an unexpected tensor shape.
	ErrBadOutput = errors.New("unexpected model output")
)

// Kind selects one of the two supported pretrained networks.
type Kind string

const (
	ECCV16     Kind = "eccv16"
	SIGGRAPH17 Kind = "siggraph17"
)

// Kinds lists the supported networks in presentation order.
func Kinds() []Kind {
	return []Kind{ECCV16, SIGGRAPH17}
}

// ParseKind validates a model name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case ECCV16, SIGGRAPH17:
		return k, nil
	default:
		return "", fmt.Errorf("unknown model %q (want eccv16 or siggraph17)", s)
	}
}

// FileName is the ONNX export of the network inside the model directory.
func (k Kind) FileName() string {
	return string(k) + ".onnx"
}

// Model is a loaded network. Implementations must be safe to call from one
// goroutine at a time; NetModel serializes internally.
type Model interface {
	Predict(input gocv.Mat) (gocv.Mat, error)
	InputSize() image.Point
	Close() error
}

// Options configure Load.
type Options struct {
	Kind             Kind
	Dir              string
	Device           Device
	AllowCPUFallback bool
	InputSize        image.Point
	Normalization    Normalization
	Probe            DeviceProbe
}

// network is the subset of *gocv.Net used by NetModel.
type network interface {
	Empty() bool
	SetPreferableBackend(gocv.NetBackendType) error
	SetPreferableTarget(gocv.NetTargetType) error
	SetInput(blob gocv.Mat, name string)
	Forward(outputName string) gocv.Mat
	Close() error
}

// readNetwork opens an ONNX file. Replaced in tests.
var readNetwork = func(path string) network {
	net := readNetwork(path)
	if net.Empty() {
		net.Close()
		return nil, fmt.Errorf("failed to read network: %s", path)
	}
	if err := bindDevice(net, device); err != nil {
		net.Close()
		return nil, fmt.Errorf("bind network to %s: %w", device, err)
	}

	size := opts.InputSize
	if size == (image.Point{}) {
		size = image.Pt(256, 256)
	}

	logger.WithFields(logrus.Fields{
		"model":         opts.Kind,
		"path":          path,
		"device":        device,
		"input":         size,
		"normalization": norm,
	}).Info("Model loaded")

	return &NetModel{
		net:    net,
		kind:   opts.Kind,
		device: device,
		size:   size,
		norm:   norm,
		logger: logger,
	}, nil
}

// InputSize returns the fixed resolution the network consumes.
func (m *NetModel) InputSize() image.Point {
	return m.size
}

// Kind returns which network is loaded.
func (m *NetModel) Kind() Kind {
	return m.kind
}

// Device returns the device the network was bound to after fallback.
func (m *NetModel) Device() Device {
	return m.device
}

// Predict runs one forward pass. input must be a normalized single-channel
// float32 plane at InputSize; the result is a two-channel float32 matrix in
// model units at the network's output resolution. Failures are returned,
// never retried.
func (m *NetModel) Predict(input gocv.Mat) (gocv.Mat, error) {
	if input.Empty() || input.Channels() != 1 {
		return gocv.NewMat(), fmt.Errorf("model input must be a single non-empty plane, got %d channels", input.Channels())
	}
	if input.Cols() != m.size.X || input.Rows() != m.size.Y {
		return gocv.NewMat(), fmt.Errorf("model input is %dx%d, want %v", input.Cols(), input.Rows(), m.size)
	}

	graphIn := m.norm.graphInput(input)
	defer graphIn.Close()

	blob := gocv.BlobFromImage(graphIn, 1.0, m.size, gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	m.mu.Lock()
	m.net.SetInput(blob, "")
	out := m.net.Forward("")
	m.mu.Unlock()
	defer out.Close()

	ab, err := chrominanceFromBlob(out)
	if err != nil {
		return ab, err
	}
	defer ab.Close()
	return m.norm.modelUnits(ab), nil
}

func bindDevice(net network, device Device) error {
	backend, target := gocv.NetBackendDefault, gocv.NetTargetCPU
	if device == DeviceCUDA {
		backend, target = gocv.NetBackendCUDA, gocv.NetTargetCUDA
	}
	if err := net.SetPreferableBackend(backend); err != nil {
		return err
	}
	return net.SetPreferableTarget(target)
}

// chrominanceFromBlob turns an NCHW blob with N=1, C=2 into an HxW two-channel matrix.
func chrominanceFromBlob(blob gocv.Mat) (gocv.Mat, error) {
	if blob.Empty() {
		return gocv.NewMat(), fmt.Errorf("%w: empty blob", ErrBadOutput)
	}

	shape := gocv.GetBlobSize(blob)
	if int(shape.Val1) != 1 || int(shape.Val2) != 2 {
		return gocv.NewMat(), fmt.Errorf("%w: shape %vx%vx%vx%v", ErrBadOutput, shape.Val1, shape.Val2, shape.Val3, shape.Val4)
	}

	a := gocv.GetBlobChannel(blob, 0, 0)
	defer a.Close()
	b := gocv.GetBlobChannel(blob, 0, 1)
	defer b.Close()

	ab := gocv.NewMat()
	gocv.Merge([]gocv.Mat{a, b}, &ab)
	return ab, nil
}

// Close releases the network.
func (m *NetModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.net.Close()
}
