// Package session holds the editor's state as an immutable value.
// Every With* method returns an updated copy; the receiver is never changed.
package session

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"slices"

	"image-colorization/internal/adjust"
	imgio "image-colorization/internal/io"
)

// ErrNoImage is returned by operations that need a colorized image before one exists.
var ErrNoImage = errors.New("no colorized image in session")

type Session struct {
	sourceName string
	source     image.Image
	colorized  image.Image
	settings   adjust.Settings
	resolution imgio.Resolution
	formats    []imgio.Format
}

// New returns an empty session with neutral adjustments, original
// resolution and PNG export.
func New() Session {
	return Session{
		settings:   adjust.DefaultSettings(),
		resolution: imgio.OriginalResolution(),
		formats:    []imgio.Format{imgio.FormatPNG},
	}
}

// WithSource starts work on a new input. Any previous colorized result is dropped.
func (s Session) WithSource(name string, img image.Image) Session {
	s.sourceName = name
	s.source = img
	s.colorized = nil
	return s
}

// WithColorized stores the unadjusted model output.
func (s Session) WithColorized(img image.Image) Session {
	s.colorized = img
	return s
}

// WithSettings stores settings, clamped to the slider ranges.
func (s Session) WithSettings(settings adjust.Settings) Session {
	s.settings = settings.Clamp()
	return s
}

// ResetAdjustments restores neutral settings and keeps the images.
func (s Session) ResetAdjustments() Session {
	s.settings = adjust.DefaultSettings()
	return s
}

func (s Session) WithResolution(r imgio.Resolution) (Session, error) {
	if err := r.Validate(); err != nil {
		return s, err
	}
	s.resolution = r
	return s, nil
}

// WithFormats sets the export formats. Duplicates are dropped, order is kept.
func (s Session) WithFormats(formats []imgio.Format) Session {
	out := make([]imgio.Format, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	s.formats = out
	return s
}

func (s Session) SourceName() string           { return s.sourceName }
func (s Session) Source() image.Image          { return s.source }
func (s Session) Colorized() image.Image       { return s.colorized }
func (s Session) Settings() adjust.Settings    { return s.settings }
func (s Session) Resolution() imgio.Resolution { return s.resolution }
func (s Session) Formats() []imgio.Format      { return slices.Clone(s.formats) }
func (s Session) HasSource() bool              { return s.source != nil }
func (s Session) HasColorized() bool           { return s.colorized != nil }

// OutputSize is the size exported files will have.
func (s Session) OutputSize() (image.Point, error) {
	if s.colorized == nil {
		return image.Point{}, ErrNoImage
	}
	return s.resolution.Size(s.colorized.Bounds().Size()), nil
}

// Render applies the current adjustments to the colorized image.
func (s Session) Render() (image.Image, error) {
	if s.colorized == nil {
		return nil, ErrNoImage
	}
	if s.settings.IsIdentity() {
		return s.colorized, nil
	}
	return adjust.Apply(s.colorized, s.settings), nil
}

// Targets lists one encoder target per selected format.
func (s Session) Targets() []imgio.Target {
	targets := make([]imgio.Target, 0, len(s.formats))
	for _, f := range s.formats {
		targets = append(targets, imgio.Target{Format: f, Resolution: s.resolution})
	}
	return targets
}

// Export renders once and writes colorized_<W>x<H>.<ext> into dir for every
// selected format. It returns the written paths.
func (s Session) Export(enc *imgio.Encoder, dir string) ([]string, error) {
	if len(s.formats) == 0 {
		return nil, errors.New("no export format selected")
	}
	img, err := s.Render()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(s.formats))
	for _, target := range s.Targets() {
		path := filepath.Join(dir, target.FileName(img.Bounds().Size()))
		if err := enc.SaveFile(path, img, target); err != nil {
			return paths, fmt.Errorf("export %s: %w", target.Format, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
