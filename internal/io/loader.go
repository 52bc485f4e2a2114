// Image loading for the colorization pipeline
package io

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

var (
	// ErrInputNotFound is returned when the source path does not exist.
	ErrInputNotFound = errors.New("input not found")
	// ErrUnsupportedFormat is returned for extensions the pipeline does not read or write.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrCorruptImage is returned when a file has a supported extension but does not decode.
	ErrCorruptImage = errors.New("image could not be decoded")
)

// inputExtensions are the image types accepted as colorization input.
var inputExtensions = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}

// ImageLoader reads source images from disk.
type ImageLoader struct {
	logger logrus.FieldLogger
}

func NewImageLoader(logger logrus.FieldLogger) *ImageLoader {
	return &ImageLoader{
		logger: logger,
	}
}

// LoadImage decodes path as an 8-bit BGR matrix. Gray sources are expanded to three channels.
func (il *ImageLoader) LoadImage(path string) (gocv.Mat, error) {
	il.logger.WithField("filepath", path).Debug("Loading image")

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return gocv.NewMat(), fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return gocv.NewMat(), fmt.Errorf("stat %s: %w", path, err)
	}

	if !IsSupportedInput(path) {
		return gocv.NewMat(), fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("%w: %s", ErrCorruptImage, path)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("Image loaded successfully")

	return mat, nil
}

// LoadImageBytes decodes an in-memory image, for sources that are not files.
func (il *ImageLoader) LoadImageBytes(data []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), ErrCorruptImage
	}
	return mat, nil
}

// IsSupportedInput reports whether path has a readable image extension.
func IsSupportedInput(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range inputExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ListImages returns the supported images directly inside dir, sorted by name.
func ListImages(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, dir)
		}
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range extensions {
			if ext == want {
				files = append(files, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
