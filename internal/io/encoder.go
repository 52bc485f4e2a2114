// Output encoding: PNG, JPEG, PDF and TIFF
package io

import (
	"bytes"
	"fmt"
	"image"
	stdio "io"
	"os"
	"path/filepath"

	"github.com/disintegration/gift"
	"github.com/go-pdf/fpdf"
	"github.com/google/renameio/v2/maybe"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// OpenCV TIFF writer parameters: IMWRITE_TIFF_COMPRESSION and libtiff's COMPRESSION_LZW.
const (
	imwriteTiffCompression = 259
	tiffCompressionLZW     = 5
)

// Encoder serializes finished images.
type Encoder struct {
	logger logrus.FieldLogger
}

func NewEncoder(logger logrus.FieldLogger) *Encoder {
	return &Encoder{
		logger: logger,
	}
}

// Encode resizes img for target and writes it to w.
func (e *Encoder) Encode(w stdio.Writer, img image.Image, target Target) error {
	if err := target.Resolution.Validate(); err != nil {
		return err
	}

	out := Resize(img, target.Resolution.Size(img.Bounds().Size()))

	var (
		data []byte
		err  error
	)
	switch target.Format {
	case FormatPNG:
		data, err = encodeWithOpenCV(out, gocv.PNGFileExt, nil)
	case FormatJPEG:
		data, err = encodeWithOpenCV(out, gocv.JPEGFileExt, []int{int(gocv.IMWriteJpegQuality), JPEGQuality})
	case FormatTIFF:
		data, err = encodeWithOpenCV(out, gocv.FileExt(".tiff"), []int{imwriteTiffCompression, tiffCompressionLZW})
	case FormatPDF:
		data, err = encodePDF(out)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, target.Format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", target.Format, err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", target.Format, err)
	}

	e.logger.WithFields(logrus.Fields{
		"format": target.Format,
		"width":  out.Bounds().Dx(),
		"height": out.Bounds().Dy(),
		"bytes":  len(data),
	}).Debug("Image encoded")

	return nil
}

// EncodeBytes is Encode into memory.
func (e *Encoder) EncodeBytes(img image.Image, target Target) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Encode(&buf, img, target); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveFile encodes img to path. The file is written in full or not at all.
func (e *Encoder) SaveFile(path string, img image.Image, target Target) error {
	data, err := e.EncodeBytes(img, target)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	if err := maybe.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	e.logger.WithFields(logrus.Fields{
		"filepath": path,
		"format":   target.Format,
	}).Info("Image saved successfully")

	return nil
}

// Resize scales img to size with Lanczos resampling. Same-size inputs are returned as is.
func Resize(img image.Image, size image.Point) image.Image {
	if img.Bounds().Size() == size {
		return img
	}
	g := gift.New(gift.Resize(size.X, size.Y, gift.LanczosResampling))
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

func encodeWithOpenCV(img image.Image, ext gocv.FileExt, params []int) ([]byte, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("image to mat: %w", err)
	}
	defer mat.Close()

	buf, err := gocv.IMEncodeWithParams(ext, mat, params)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	// buf is backed by C memory released on Close.
	return append([]byte(nil), buf.GetBytes()...), nil
}

// encodePDF embeds img as a JPEG on a single page sized to the image at 72 dpi.
func encodePDF(img image.Image) ([]byte, error) {
	jpg, err := encodeWithOpenCV(img, gocv.JPEGFileExt, []int{int(gocv.IMWriteJpegQuality), JPEGQuality})
	if err != nil {
		return nil, err
	}

	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader("page", opts, bytes.NewReader(jpg))
	pdf.ImageOptions("page", 0, 0, w, h, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
