// Where the lightness normalization and chrominance scaling happen
package model

import (
	"fmt"

	"gocv.io/x/gocv"

	"image-colorization/internal/core"
)

// Normalization names the tensor contract of an ONNX graph.
//
// The colorizer always hands Predict a normalized plane, (L-50)/100, and
// expects chrominance back in model units, ab/110. A graph exported together
// with its normalize/unnormalize layers consumes raw L in [0,100] and emits
// ab in Lab units instead; NetModel converts at the boundary so neither end
// applies the constants twice.
type Normalization string

const (
	// NormalizationInGraph is a full export of the network: raw L in, Lab ab out.
	NormalizationInGraph Normalization = "in-graph"
	// NormalizationExternal is a graph exported without the normalize and
	// unnormalize layers: (L-50)/100 in, ab/110 out.
	NormalizationExternal Normalization = "external"
)

// ParseNormalization validates a normalization name. Empty selects in-graph.
func ParseNormalization(s string) (Normalization, error) {
	switch n := Normalization(s); n {
	case "":
		return NormalizationInGraph, nil
	case NormalizationInGraph, NormalizationExternal:
		return n, nil
	default:
		return "", fmt.Errorf("unknown model normalization %q (want in-graph or external)", s)
	}
}

// graphInput converts a normalized lightness plane into what the graph consumes.
func (n Normalization) graphInput(normalized gocv.Mat) gocv.Mat {
	if n == NormalizationExternal {
		return normalized.Clone()
	}
	raw := gocv.NewMat()
	normalized.ConvertToWithParams(&raw, gocv.MatTypeCV32FC1,
		float32(core.LightnessScale), float32(core.LightnessCenter))
	return raw
}

// modelUnits converts the graph's chrominance into model units, ab/110.
func (n Normalization) modelUnits(chrominance gocv.Mat) gocv.Mat {
	if n == NormalizationExternal {
		return chrominance.Clone()
	}
	scaled := gocv.NewMat()
	chrominance.ConvertToWithParams(&scaled, chrominance.Type(), float32(1.0/core.ChrominanceScale), 0)
	return scaled
}
