// Adjustment settings and the closed set of named filters
package adjust

import (
	"fmt"
	"math"
	"strings"
)

// Ranges accepted by Apply. Callers clamp before invoking; see Settings.Clamp.
const (
	MinScale = 0.0
	MaxScale = 2.0
	MinHue   = -180.0
	MaxHue   = 180.0
)

// Filter is one of a fixed set of stylized effects. Exactly one runs per Apply.
type Filter int

const (
	FilterNone Filter = iota
	FilterVintage
	FilterCool
	FilterWarm
	FilterDramatic

	filterCount
)

// Filters lists every filter in presentation order.
func Filters() []Filter {
	out := make([]Filter, 0, filterCount)
	for f := FilterNone; f < filterCount; f++ {
		out = append(out, f)
	}
	return out
}

func (f Filter) String() string {
	switch f {
	case FilterNone:
		return "none"
	case FilterVintage:
		return "vintage"
	case FilterCool:
		return "cool"
	case FilterWarm:
		return "warm"
	case FilterDramatic:
		return "dramatic"
	default:
		return fmt.Sprintf("filter(%d)", int(f))
	}
}

// Label is the human-readable name shown in the editor.
func (f Filter) Label() string {
	switch f {
	case FilterNone:
		return "None"
	case FilterVintage:
		return "Vintage"
	case FilterCool:
		return "Cool Tone"
	case FilterWarm:
		return "Warm Tone"
	case FilterDramatic:
		return "Dramatic"
	default:
		return f.String()
	}
}

// Valid reports whether f is a member of the closed set.
func (f Filter) Valid() bool {
	return f >= FilterNone && f < filterCount
}

// ParseFilter accepts either the identifier ("cool") or the label ("Cool Tone").
func ParseFilter(s string) (Filter, error) {
	for _, f := range Filters() {
		if strings.EqualFold(s, f.String()) || strings.EqualFold(s, f.Label()) {
			return f, nil
		}
	}
	return FilterNone, fmt.Errorf("unknown filter %q", s)
}

// Settings is passed by value into Apply and never persisted.
type Settings struct {
	Brightness float64
	Contrast   float64
	Saturation float64
	HueShift   float64 // degrees
	Filter     Filter
}

// DefaultSettings leaves an image unchanged.
func DefaultSettings() Settings {
	return Settings{
		Brightness: 1.0,
		Contrast:   1.0,
		Saturation: 1.0,
		HueShift:   0.0,
		Filter:     FilterNone,
	}
}

// IsIdentity reports whether Apply would return the input unchanged.
func (s Settings) IsIdentity() bool {
	return s == DefaultSettings()
}

// Clamp forces every field into its accepted range. Unknown filters become FilterNone.
func (s Settings) Clamp() Settings {
	s.Brightness = clamp(s.Brightness, MinScale, MaxScale)
	s.Contrast = clamp(s.Contrast, MinScale, MaxScale)
	s.Saturation = clamp(s.Saturation, MinScale, MaxScale)
	s.HueShift = clamp(s.HueShift, MinHue, MaxHue)
	if !s.Filter.Valid() {
		s.Filter = FilterNone
	}
	return s
}

// Validate reports the first out-of-range field.
func (s Settings) Validate() error {
	scales := []struct {
		name string
		v    float64
	}{
		{"brightness", s.Brightness},
		{"contrast", s.Contrast},
		{"saturation", s.Saturation},
	}
	for _, sc := range scales {
		if math.IsNaN(sc.v) || sc.v < MinScale || sc.v > MaxScale {
			return fmt.Errorf("%s must be between %.1f and %.1f, got %v", sc.name, MinScale, MaxScale, sc.v)
		}
	}
	if math.IsNaN(s.HueShift) || s.HueShift < MinHue || s.HueShift > MaxHue {
		return fmt.Errorf("hue shift must be between %.0f and %.0f, got %v", MinHue, MaxHue, s.HueShift)
	}
	if !s.Filter.Valid() {
		return fmt.Errorf("unknown filter %v", s.Filter)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
