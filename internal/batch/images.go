// Image folder colorization
package batch

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-colorization/internal/adjust"
	imgio "image-colorization/internal/io"
	"image-colorization/internal/metrics"
)

// ImageExtensions are the inputs picked up from a folder. Matching ignores case.
var ImageExtensions = []string{".jpg", ".jpeg", ".png"}

// ImageColorizer produces an 8-bit BGR colorized copy at the input's resolution.
type ImageColorizer interface {
	Colorize(src gocv.Mat) (gocv.Mat, error)
}

// ImageOptions shape every output of an image batch.
type ImageOptions struct {
	Settings   adjust.Settings
	Resolution imgio.Resolution
	// Formats to write. Empty keeps the input's own format.
	Formats []imgio.Format
}

// ImagePipeline loads, colorizes, adjusts and encodes single images.
type ImagePipeline struct {
	loader    *imgio.ImageLoader
	encoder   *imgio.Encoder
	colorizer ImageColorizer
	evaluator *metrics.Evaluator
	opts      ImageOptions
	logger    logrus.FieldLogger
}

func NewImagePipeline(colorizer ImageColorizer, opts ImageOptions, logger logrus.FieldLogger) *ImagePipeline {
	return &ImagePipeline{
		loader:    imgio.NewImageLoader(logger),
		encoder:   imgio.NewEncoder(logger),
		colorizer: colorizer,
		evaluator: metrics.NewEvaluator(),
		opts:      opts,
		logger:    logger,
	}
}

// ImageItems lists the images in inDir and pairs each with color_<name> in outDir.
func ImageItems(inDir, outDir string) ([]Item, error) {
	files, err := imgio.ListImages(inDir, ImageExtensions)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(files))
	for _, f := range files {
		items = append(items, Item{
			Input:  f,
			Output: filepath.Join(outDir, "color_"+filepath.Base(f)),
		})
	}
	return items, nil
}

// Colorize loads path and returns the adjusted colorized image with its metrics.
func (p *ImagePipeline) Colorize(path string) (image.Image, []metrics.Score, error) {
	src, err := p.loader.LoadImage(path)
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	colored, err := p.colorizer.Colorize(src)
	if err != nil {
		return nil, nil, fmt.Errorf("colorize: %w", err)
	}
	defer colored.Close()

	scores := p.evaluator.Evaluate(src, colored)

	img, err := colored.ToImage()
	if err != nil {
		return nil, nil, fmt.Errorf("mat to image: %w", err)
	}
	if p.opts.Settings.IsIdentity() {
		return img, scores, nil
	}
	return adjust.Apply(img, p.opts.Settings), scores, nil
}

// Process is a Job: it colorizes item.Input and writes every requested format.
func (p *ImagePipeline) Process(_ context.Context, item Item) error {
	img, scores, err := p.Colorize(item.Input)
	if err != nil {
		return err
	}
	p.logger.WithFields(metrics.Fields(scores)).WithField("input", item.Input).Info("Colorization metrics")

	targets, err := p.targets(item.Output)
	if err != nil {
		return err
	}
	for _, o := range targets {
		if err := p.encoder.SaveFile(o.path, img, o.target); err != nil {
			return err
		}
	}
	return nil
}

type outputFile struct {
	path   string
	target imgio.Target
}

// targets lists output files in the order of the requested formats. With no
// explicit formats the format follows the output extension; otherwise the
// extension is replaced per format.
func (p *ImagePipeline) targets(path string) ([]outputFile, error) {
	if len(p.opts.Formats) == 0 {
		f, err := imgio.FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		return []outputFile{{path: path, target: imgio.Target{Format: f, Resolution: p.opts.Resolution}}}, nil
	}

	stem := strings.TrimSuffix(path, filepath.Ext(path))
	out := make([]outputFile, 0, len(p.opts.Formats))
	for _, f := range p.opts.Formats {
		out = append(out, outputFile{path: stem + f.Ext(), target: imgio.Target{Format: f, Resolution: p.opts.Resolution}})
	}
	return out, nil
}
