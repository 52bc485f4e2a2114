// Image values tagged with the color space their samples live in
package core

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

var (
	// ErrEmptyImage is returned for matrices with no samples.
	ErrEmptyImage = errors.New("image is empty")
	// ErrChannelCount is returned when a matrix does not carry the expected channels.
	ErrChannelCount = errors.New("unexpected channel count")
	// ErrColorSpace is returned when a conversion receives an image in the wrong space.
	ErrColorSpace = errors.New("unexpected color space")
	// ErrResolutionMismatch is returned when planes that must line up do not.
	ErrResolutionMismatch = errors.New("resolution mismatch")
)

// maxDimension bounds accepted inputs to keep float intermediates in memory.
const maxDimension = 16384

// Space identifies how the samples of an Image are to be interpreted.
type Space int

const (
	// SpaceDisplay is three channels in OpenCV BGR order, float32 in [0,1].
	SpaceDisplay Space = iota
	// SpaceLab is CIE L*a*b* (D65): L in [0,100], a and b roughly [-128,127].
	SpaceLab
)

func (s Space) String() string {
	switch s {
	case SpaceDisplay:
		return "display"
	case SpaceLab:
		return "lab"
	default:
		return fmt.Sprintf("space(%d)", int(s))
	}
}

// Image pairs an OpenCV matrix with the color space its samples are in.
// The Image owns Mat; Close releases it.
type Image struct {
	Mat   gocv.Mat
	Space Space
}

// Size returns the image resolution as width x height.
func (img Image) Size() image.Point {
	return image.Pt(img.Mat.Cols(), img.Mat.Rows())
}

// Close releases the underlying matrix.
func (img Image) Close() error {
	return img.Mat.Close()
}

// NewDisplayImage converts a decoded 8-bit frame (gray, BGR or BGRA) into a
// display-space float image. The source matrix is not modified or retained.
func NewDisplayImage(src gocv.Mat) (Image, error) {
	if err := ValidateImage(src); err != nil {
		return Image{}, err
	}

	bgr := gocv.NewMat()
	defer bgr.Close()

	switch src.Channels() {
	case 1:
		if err := gocv.CvtColor(src, &bgr, gocv.ColorGrayToBGR); err != nil {
			return Image{}, fmt.Errorf("gray to bgr: %w", err)
		}
	case 3:
		src.CopyTo(&bgr)
	case 4:
		if err := gocv.CvtColor(src, &bgr, gocv.ColorBGRAToBGR); err != nil {
			return Image{}, fmt.Errorf("bgra to bgr: %w", err)
		}
	}

	out := gocv.NewMat()
	switch bgr.Type() {
	case gocv.MatTypeCV8UC3:
		bgr.ConvertToWithParams(&out, gocv.MatTypeCV32FC3, 1.0/255.0, 0)
	case gocv.MatTypeCV32FC3:
		bgr.CopyTo(&out)
	default:
		out.Close()
		return Image{}, fmt.Errorf("unsupported sample type %v", bgr.Type())
	}

	return Image{Mat: out, Space: SpaceDisplay}, nil
}

// ToBGR8 converts a display-space image to an 8-bit BGR matrix. Samples
// outside [0,1] saturate.
func ToBGR8(img Image) (gocv.Mat, error) {
	if img.Space != SpaceDisplay {
		return gocv.NewMat(), fmt.Errorf("%w: want %s, got %s", ErrColorSpace, SpaceDisplay, img.Space)
	}
	if err := expectChannels(img.Mat, 3); err != nil {
		return gocv.NewMat(), err
	}

	out := gocv.NewMat()
	img.Mat.ConvertToWithParams(&out, gocv.MatTypeCV8UC3, 255, 0)
	return out, nil
}

// ValidateImage checks an OpenCV matrix for the basic requirements of the pipeline.
func ValidateImage(mat gocv.Mat) error {
	if mat.Empty() {
		return ErrEmptyImage
	}

	if mat.Cols() <= 0 || mat.Rows() <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", mat.Cols(), mat.Rows())
	}

	channels := mat.Channels()
	if channels != 1 && channels != 3 && channels != 4 {
		return fmt.Errorf("%w: %d", ErrChannelCount, channels)
	}

	if mat.Cols() > maxDimension || mat.Rows() > maxDimension {
		return fmt.Errorf("image too large: %dx%d (max: %d)", mat.Cols(), mat.Rows(), maxDimension)
	}

	return nil
}

func expectChannels(mat gocv.Mat, n int) error {
	if mat.Empty() {
		return ErrEmptyImage
	}
	if mat.Channels() != n {
		return fmt.Errorf("%w: want %d, got %d", ErrChannelCount, n, mat.Channels())
	}
	return nil
}

func sizeOf(mat gocv.Mat) image.Point {
	return image.Pt(mat.Cols(), mat.Rows())
}
