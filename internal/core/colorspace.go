// Display <-> L*a*b* conversion
package core

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Lab holds the three planes of a luminance/chrominance image, each a
// single-channel float32 matrix of the same size.
type Lab struct {
	L gocv.Mat
	A gocv.Mat
	B gocv.Mat
}

// Close releases all three planes.
func (lab Lab) Close() {
	lab.L.Close()
	lab.A.Close()
	lab.B.Close()
}

// ToLab splits a display-space image into its lightness and chrominance planes.
// Only three-channel float images are accepted.
func ToLab(img Image) (Lab, error) {
	if img.Space != SpaceDisplay {
		return Lab{}, fmt.Errorf("%w: want %s, got %s", ErrColorSpace, SpaceDisplay, img.Space)
	}
	if err := expectChannels(img.Mat, 3); err != nil {
		return Lab{}, err
	}
	if img.Mat.Type() != gocv.MatTypeCV32FC3 {
		return Lab{}, fmt.Errorf("display image must be float32, got %v", img.Mat.Type())
	}

	lab := gocv.NewMat()
	defer lab.Close()
	if err := gocv.CvtColor(img.Mat, &lab, gocv.ColorBGRToLab); err != nil {
		return Lab{}, fmt.Errorf("bgr to lab: %w", err)
	}

	planes := gocv.Split(lab)
	if len(planes) != 3 {
		for _, p := range planes {
			p.Close()
		}
		return Lab{}, fmt.Errorf("%w: lab split produced %d planes", ErrChannelCount, len(planes))
	}

	return Lab{L: planes[0], A: planes[1], B: planes[2]}, nil
}

// ToDisplay is the inverse of ToLab. The planes are not consumed.
func ToDisplay(l, a, b gocv.Mat) (Image, error) {
	size := sizeOf(l)
	planes := []struct {
		name  string
		plane gocv.Mat
	}{{"L", l}, {"a", a}, {"b", b}}
	for _, pl := range planes {
		name, plane := pl.name, pl.plane
		if err := expectChannels(plane, 1); err != nil {
			return Image{}, fmt.Errorf("plane %s: %w", name, err)
		}
		if plane.Type() != gocv.MatTypeCV32FC1 {
			return Image{}, fmt.Errorf("plane %s must be float32, got %v", name, plane.Type())
		}
		if sizeOf(plane) != size {
			return Image{}, fmt.Errorf("%w: plane %s is %v, L is %v", ErrResolutionMismatch, name, sizeOf(plane), size)
		}
	}

	lab := gocv.NewMat()
	defer lab.Close()
	gocv.Merge([]gocv.Mat{l, a, b}, &lab)

	bgr := gocv.NewMat()
	if err := gocv.CvtColor(lab, &bgr, gocv.ColorLabToBGR); err != nil {
		bgr.Close()
		return Image{}, fmt.Errorf("lab to bgr: %w", err)
	}

	return Image{Mat: bgr, Space: SpaceDisplay}, nil
}
