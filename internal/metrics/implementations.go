// Concrete implementations of quality metrics
package metrics

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

var (
	errEmpty    = errors.New("empty images")
	errMismatch = errors.New("image dimensions mismatch")
)

// PSNR is the peak signal-to-noise ratio of the lightness planes. A colorizer
// keeps the source's lightness, so this stays high for faithful output.
type PSNR struct{}

func NewPSNR() *PSNR { return &PSNR{} }

func (p *PSNR) Calculate(original, colorized gocv.Mat) (float64, error) {
	mse, err := lightnessMSE(original, colorized)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 20 * math.Log10(255/math.Sqrt(mse)), nil
}

func (p *PSNR) GetName() string { return "PSNR (lightness)" }
func (p *PSNR) GetDescription() string {
	return "Peak Signal-to-Noise Ratio between input and output lightness"
}
func (p *PSNR) GetRange() (float64, float64) { return 0, 100 }
func (p *PSNR) IsHigherBetter() bool         { return true }

// MSE is the mean squared error of the lightness planes.
type MSE struct{}

func NewMSE() *MSE { return &MSE{} }

func (m *MSE) Calculate(original, colorized gocv.Mat) (float64, error) {
	return lightnessMSE(original, colorized)
}

func (m *MSE) GetName() string              { return "MSE (lightness)" }
func (m *MSE) GetDescription() string       { return "Mean Squared Error between input and output lightness" }
func (m *MSE) GetRange() (float64, float64) { return 0, 65025 }
func (m *MSE) IsHigherBetter() bool         { return false }

// SSIM is the mean structural similarity of the lightness planes, computed
// with an 11x11 Gaussian window (sigma 1.5).
type SSIM struct{}

func NewSSIM() *SSIM { return &SSIM{} }

func (s *SSIM) Calculate(original, colorized gocv.Mat) (float64, error) {
	f1, f2, err := lightnessPair(original, colorized)
	if err != nil {
		return 0, err
	}
	defer f1.Close()
	defer f2.Close()

	const (
		C1 = 6.5025  // (0.01 * 255)^2
		C2 = 58.5225 // (0.03 * 255)^2
	)

	window := image.Pt(11, 11)
	blur := func(src gocv.Mat) gocv.Mat {
		dst := gocv.NewMat()
		gocv.GaussianBlur(src, &dst, window, 1.5, 1.5, gocv.BorderDefault)
		return dst
	}
	product := func(a, b gocv.Mat) gocv.Mat {
		dst := gocv.NewMat()
		gocv.Multiply(a, b, &dst)
		return dst
	}

	mu1 := blur(f1)
	defer mu1.Close()
	mu2 := blur(f2)
	defer mu2.Close()

	mu1Sq := product(mu1, mu1)
	defer mu1Sq.Close()
	mu2Sq := product(mu2, mu2)
	defer mu2Sq.Close()
	mu1Mu2 := product(mu1, mu2)
	defer mu1Mu2.Close()

	// sigma = blur(x*y) - mu_x*mu_y
	variance := func(a, b, mu gocv.Mat) gocv.Mat {
		ab := product(a, b)
		defer ab.Close()
		dst := blur(ab)
		gocv.Subtract(dst, mu, &dst)
		return dst
	}
	sigma1Sq := variance(f1, f1, mu1Sq)
	defer sigma1Sq.Close()
	sigma2Sq := variance(f2, f2, mu2Sq)
	defer sigma2Sq.Close()
	sigma12 := variance(f1, f2, mu1Mu2)
	defer sigma12.Close()

	// (2*mu1mu2 + C1) * (2*sigma12 + C2)
	n1 := gocv.NewMat()
	defer n1.Close()
	mu1Mu2.ConvertToWithParams(&n1, gocv.MatTypeCV32F, 2, C1)
	n2 := gocv.NewMat()
	defer n2.Close()
	sigma12.ConvertToWithParams(&n2, gocv.MatTypeCV32F, 2, C2)
	numerator := product(n1, n2)
	defer numerator.Close()

	// (mu1^2 + mu2^2 + C1) * (sigma1^2 + sigma2^2 + C2)
	d1 := gocv.NewMat()
	defer d1.Close()
	gocv.AddWeighted(mu1Sq, 1, mu2Sq, 1, C1, &d1)
	d2 := gocv.NewMat()
	defer d2.Close()
	gocv.AddWeighted(sigma1Sq, 1, sigma2Sq, 1, C2, &d2)
	denominator := product(d1, d2)
	defer denominator.Close()

	ssimMap := gocv.NewMat()
	defer ssimMap.Close()
	gocv.Divide(numerator, denominator, &ssimMap)

	return ssimMap.Mean().Val1, nil
}

func (s *SSIM) GetName() string { return "SSIM (lightness)" }
func (s *SSIM) GetDescription() string {
	return "Structural Similarity between input and output lightness"
}
func (s *SSIM) GetRange() (float64, float64) { return 0, 1 }
func (s *SSIM) IsHigherBetter() bool         { return true }

// Colorfulness is the Hasler and Suesstrunk colorfulness of the colorized image.
// The original is only checked for matching size.
type Colorfulness struct{}

func NewColorfulness() *Colorfulness { return &Colorfulness{} }

func (c *Colorfulness) Calculate(original, colorized gocv.Mat) (float64, error) {
	if err := checkPair(original, colorized); err != nil {
		return 0, err
	}
	return ColorfulnessOf(colorized)
}

func (c *Colorfulness) GetName() string              { return "Colorfulness" }
func (c *Colorfulness) GetDescription() string       { return "Hasler-Suesstrunk colorfulness of the output" }
func (c *Colorfulness) GetRange() (float64, float64) { return 0, 150 }
func (c *Colorfulness) IsHigherBetter() bool         { return true }

// ColorfulnessOf scores an 8-bit BGR image. Gray images score 0.
func ColorfulnessOf(img gocv.Mat) (float64, error) {
	if img.Empty() {
		return 0, errEmpty
	}
	if img.Channels() != 3 {
		return 0, nil
	}

	f := gocv.NewMat()
	defer f.Close()
	img.ConvertTo(&f, gocv.MatTypeCV32FC3)

	planes := gocv.Split(f)
	defer func() {
		for _, p := range planes {
			p.Close()
		}
	}()
	b, g, r := planes[0], planes[1], planes[2]

	// rg = R - G, yb = (R + G)/2 - B
	rg := gocv.NewMat()
	defer rg.Close()
	gocv.Subtract(r, g, &rg)

	rgSum := gocv.NewMat()
	defer rgSum.Close()
	gocv.AddWeighted(r, 0.5, g, 0.5, 0, &rgSum)
	yb := gocv.NewMat()
	defer yb.Close()
	gocv.Subtract(rgSum, b, &yb)

	meanRG, stdRG := meanStd(rg)
	meanYB, stdYB := meanStd(yb)

	std := math.Sqrt(stdRG*stdRG + stdYB*stdYB)
	mean := math.Sqrt(meanRG*meanRG + meanYB*meanYB)
	return std + 0.3*mean, nil
}

func meanStd(m gocv.Mat) (float64, float64) {
	mean := m.Mean().Val1

	sq := gocv.NewMat()
	defer sq.Close()
	gocv.Multiply(m, m, &sq)

	variance := sq.Mean().Val1 - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

func lightnessMSE(original, colorized gocv.Mat) (float64, error) {
	f1, f2, err := lightnessPair(original, colorized)
	if err != nil {
		return 0, err
	}
	defer f1.Close()
	defer f2.Close()

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.Subtract(f1, f2, &diff)

	sq := gocv.NewMat()
	defer sq.Close()
	gocv.Multiply(diff, diff, &sq)

	return sq.Mean().Val1, nil
}

// lightnessPair returns both images as float32 gray planes in [0,255].
func lightnessPair(original, colorized gocv.Mat) (gocv.Mat, gocv.Mat, error) {
	if err := checkPair(original, colorized); err != nil {
		return gocv.Mat{}, gocv.Mat{}, err
	}
	f1, err := grayFloat(original)
	if err != nil {
		return gocv.Mat{}, gocv.Mat{}, err
	}
	f2, err := grayFloat(colorized)
	if err != nil {
		f1.Close()
		return gocv.Mat{}, gocv.Mat{}, err
	}
	return f1, f2, nil
}

func grayFloat(input gocv.Mat) (gocv.Mat, error) {
	gray := gocv.NewMat()
	defer gray.Close()

	switch input.Channels() {
	case 1:
		input.CopyTo(&gray)
	case 3:
		if err := gocv.CvtColor(input, &gray, gocv.ColorBGRToGray); err != nil {
			return gocv.Mat{}, err
		}
	case 4:
		if err := gocv.CvtColor(input, &gray, gocv.ColorBGRAToGray); err != nil {
			return gocv.Mat{}, err
		}
	default:
		return gocv.Mat{}, fmt.Errorf("unsupported channel count %d", input.Channels())
	}

	out := gocv.NewMat()
	gray.ConvertTo(&out, gocv.MatTypeCV32F)
	return out, nil
}

func checkPair(original, colorized gocv.Mat) error {
	if original.Empty() || colorized.Empty() {
		return errEmpty
	}
	if original.Rows() != colorized.Rows() || original.Cols() != colorized.Cols() {
		return errMismatch
	}
	return nil
}
