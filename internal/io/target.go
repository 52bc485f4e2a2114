// Output target: format plus resolution
package io

import (
	"fmt"
	"image"
	"strings"
)

// Custom resolution bounds, per side.
const (
	MinCustomSide = 64
	MaxCustomSide = 4096
)

// Preset names a resolution choice.
type Preset int

const (
	PresetOriginal Preset = iota
	Preset256
	Preset512
	Preset1024
	PresetCustom
)

// Presets lists the choices in presentation order.
func Presets() []Preset {
	return []Preset{PresetOriginal, Preset256, Preset512, Preset1024, PresetCustom}
}

func (p Preset) String() string {
	switch p {
	case PresetOriginal:
		return "Original"
	case Preset256:
		return "256x256"
	case Preset512:
		return "512x512"
	case Preset1024:
		return "1024x1024"
	case PresetCustom:
		return "Custom"
	default:
		return fmt.Sprintf("preset(%d)", int(p))
	}
}

// ParsePreset accepts the String form of a preset, ignoring case.
func ParsePreset(s string) (Preset, error) {
	for _, p := range Presets() {
		if strings.EqualFold(p.String(), s) {
			return p, nil
		}
	}
	return PresetOriginal, fmt.Errorf("unknown resolution %q", s)
}

// Resolution is a preset plus the custom size used when Preset is PresetCustom.
type Resolution struct {
	Preset Preset
	Custom image.Point
}

// OriginalResolution keeps the colorized image's own size.
func OriginalResolution() Resolution {
	return Resolution{Preset: PresetOriginal}
}

// CustomResolution builds a custom resolution; Validate checks its bounds.
func CustomResolution(w, h int) Resolution {
	return Resolution{Preset: PresetCustom, Custom: image.Pt(w, h)}
}

// Validate checks custom bounds.
func (r Resolution) Validate() error {
	if r.Preset != PresetCustom {
		return nil
	}
	for _, side := range []int{r.Custom.X, r.Custom.Y} {
		if side < MinCustomSide || side > MaxCustomSide {
			return fmt.Errorf("custom size %v out of range [%d, %d]", r.Custom, MinCustomSide, MaxCustomSide)
		}
	}
	return nil
}

// Size resolves the output size for an image of size original.
func (r Resolution) Size(original image.Point) image.Point {
	switch r.Preset {
	case Preset256:
		return image.Pt(256, 256)
	case Preset512:
		return image.Pt(512, 512)
	case Preset1024:
		return image.Pt(1024, 1024)
	case PresetCustom:
		return r.Custom
	default:
		return original
	}
}

// Target is consumed by the encoder at the pipeline's exit.
type Target struct {
	Format     Format
	Resolution Resolution
}

// FileName follows the colorized_<W>x<H>.<ext> convention.
func (t Target) FileName(original image.Point) string {
	size := t.Resolution.Size(original)
	return fmt.Sprintf("colorized_%dx%d%s", size.X, size.Y, t.Format.Ext())
}
