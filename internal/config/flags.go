// Flag bindings
package config

import (
	"strings"

	"github.com/spf13/pflag"

	"image-colorization/internal/adjust"
	imgio "image-colorization/internal/io"
	"image-colorization/internal/model"
	"image-colorization/internal/video"
)

// enumFlag adapts a closed set of values to pflag.Value.
type enumFlag[T any] struct {
	target *T
	parse  func(string) (T, error)
	format func(T) string
	kind   string
}

func (e *enumFlag[T]) String() string { return e.format(*e.target) }
func (e *enumFlag[T]) Type() string   { return e.kind }

func (e *enumFlag[T]) Set(s string) error {
	v, err := e.parse(s)
	if err != nil {
		return err
	}
	*e.target = v
	return nil
}

// formatsFlag accepts repeated or comma-separated formats.
type formatsFlag struct {
	target *[]imgio.Format
}

func (f *formatsFlag) Type() string { return "formats" }

func (f *formatsFlag) String() string {
	names := make([]string, 0, len(*f.target))
	for _, format := range *f.target {
		names = append(names, strings.ToLower(format.String()))
	}
	return strings.Join(names, ",")
}

func (f *formatsFlag) Set(s string) error {
	parsed, err := imgio.ParseFormats(strings.Split(s, ","))
	if err != nil {
		return err
	}
	merged, _ := imgio.ParseFormats(append(formatNames(*f.target), formatNames(parsed)...))
	*f.target = merged
	return nil
}

func formatNames(formats []imgio.Format) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		out = append(out, f.Ext())
	}
	return out
}

// BindCommon registers the flags every tool shares.
func (c *Config) BindCommon(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Input, "input", "i", c.Input, "Input path or directory")
	fs.StringVarP(&c.Output, "output", "o", c.Output, "Output path or directory")
	fs.Var(&enumFlag[model.Kind]{
		target: &c.Model, parse: model.ParseKind,
		format: func(k model.Kind) string { return string(k) }, kind: "eccv16|siggraph17",
	}, "model", "Model type")
	fs.StringVar(&c.ModelDir, "model-dir", c.ModelDir, "Directory holding <model>.onnx")
	fs.Var(&enumFlag[model.Device]{
		target: &c.Device, parse: model.ParseDevice,
		format: func(d model.Device) string { return string(d) }, kind: "cpu|cuda",
	}, "device", "Device to use")
	fs.Var(&enumFlag[model.Normalization]{
		target: &c.Normalization, parse: model.ParseNormalization,
		format: func(n model.Normalization) string { return string(n) }, kind: "in-graph|external",
	}, "model-normalization", "Whether the ONNX graph normalizes L and scales ab itself (in-graph) or expects it done outside (external)")
	fs.BoolVar(&c.AllowCPUFallback, "allow-cpu-fallback", c.AllowCPUFallback, "Use the CPU when the requested device is unavailable")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug mode with verbose logging")
}

// BindVideo registers the video tool's flags.
func (c *Config) BindVideo(fs *pflag.FlagSet) {
	fs.IntVar(&c.FrameSkip, "frame_skip", c.FrameSkip, "Process every nth frame")
	fs.Var(&enumFlag[video.QualityTier]{
		target: &c.Quality, parse: video.ParseQualityTier,
		format: video.QualityTier.String, kind: "low|medium|high",
	}, "quality", "Output quality")
	fs.BoolVar(&c.Realtime, "realtime", c.Realtime, "Real-time preview mode")
	fs.BoolVar(&c.Batch, "batch", c.Batch, "Batch process directory of videos")
}

// BindImage registers adjustment and export flags for image output.
func (c *Config) BindImage(fs *pflag.FlagSet) {
	c.BindAdjust(fs)
	c.BindExport(fs)
}

// BindAdjust registers the post-colorization adjustment flags.
func (c *Config) BindAdjust(fs *pflag.FlagSet) {
	fs.Float64Var(&c.Adjust.Brightness, "brightness", c.Adjust.Brightness, "Brightness factor (0.0-2.0)")
	fs.Float64Var(&c.Adjust.Contrast, "contrast", c.Adjust.Contrast, "Contrast factor (0.0-2.0)")
	fs.Float64Var(&c.Adjust.Saturation, "saturation", c.Adjust.Saturation, "Saturation factor (0.0-2.0)")
	fs.Float64Var(&c.Adjust.HueShift, "hue", c.Adjust.HueShift, "Hue shift in degrees (-180 to 180)")
	fs.Var(&enumFlag[adjust.Filter]{
		target: &c.Adjust.Filter, parse: adjust.ParseFilter,
		format: adjust.Filter.String, kind: "filter",
	}, "filter", "Filter: none, vintage, cool, warm or dramatic")
}

// BindExport registers output format and resolution flags.
func (c *Config) BindExport(fs *pflag.FlagSet) {
	fs.Var(&formatsFlag{target: &c.Formats}, "format", "Output formats (png, jpg, pdf, tiff); defaults to the input's format")
	fs.Var(&enumFlag[imgio.Preset]{
		target: &c.Resolution.Preset, parse: imgio.ParsePreset,
		format: imgio.Preset.String, kind: "resolution",
	}, "resolution", "Output resolution: Original, 256x256, 512x512, 1024x1024 or Custom")
	fs.IntVar(&c.Resolution.Custom.X, "width", 512, "Custom output width")
	fs.IntVar(&c.Resolution.Custom.Y, "height", 512, "Custom output height")
}
