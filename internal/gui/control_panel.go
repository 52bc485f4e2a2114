// internal/gui/control_panel.go
// Adjustment controls: sliders, filter selection and reset
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"image-colorization/internal/adjust"
)

type ControlPanel struct {
	container *fyne.Container

	brightness *valueSlider
	contrast   *valueSlider
	saturation *valueSlider
	hue        *valueSlider

	filterSelect *widget.Select
	resetBtn     *widget.Button

	settings adjust.Settings
	// updating suppresses callbacks while widgets are set programmatically.
	updating bool

	onSettingsChanged func(adjust.Settings)
}

// valueSlider is a labelled slider that shows its current value.
type valueSlider struct {
	slider *widget.Slider
	value  *widget.Label
	format string
}

func newValueSlider(lo, hi, step float64, format string, onChanged func(float64)) *valueSlider {
	vs := &valueSlider{
		slider: widget.NewSlider(lo, hi),
		value:  widget.NewLabel(""),
		format: format,
	}
	vs.slider.Step = step
	vs.slider.OnChanged = func(v float64) {
		vs.value.SetText(fmt.Sprintf(vs.format, v))
		onChanged(v)
	}
	return vs
}

func (vs *valueSlider) set(v float64) {
	vs.slider.SetValue(v)
	vs.value.SetText(fmt.Sprintf(vs.format, v))
}

func (vs *valueSlider) row(name string) fyne.CanvasObject {
	label := widget.NewLabelWithStyle(name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	return container.NewBorder(nil, nil, label, vs.value, vs.slider)
}

func NewControlPanel() *ControlPanel {
	cp := &ControlPanel{
		settings: adjust.DefaultSettings(),
	}
	cp.initializeUI()
	cp.SetSettings(cp.settings)
	cp.Disable()
	return cp
}

func (cp *ControlPanel) initializeUI() {
	cp.brightness = newValueSlider(adjust.MinScale, adjust.MaxScale, 0.1, "%.1f", func(v float64) {
		cp.change(func(s *adjust.Settings) { s.Brightness = v })
	})
	cp.contrast = newValueSlider(adjust.MinScale, adjust.MaxScale, 0.1, "%.1f", func(v float64) {
		cp.change(func(s *adjust.Settings) { s.Contrast = v })
	})
	cp.saturation = newValueSlider(adjust.MinScale, adjust.MaxScale, 0.1, "%.1f", func(v float64) {
		cp.change(func(s *adjust.Settings) { s.Saturation = v })
	})
	cp.hue = newValueSlider(adjust.MinHue, adjust.MaxHue, 1, "%.0f°", func(v float64) {
		cp.change(func(s *adjust.Settings) { s.HueShift = v })
	})

	labels := make([]string, 0, len(adjust.Filters()))
	for _, f := range adjust.Filters() {
		labels = append(labels, f.Label())
	}
	cp.filterSelect = widget.NewSelect(labels, func(label string) {
		for _, f := range adjust.Filters() {
			if f.Label() == label {
				cp.change(func(s *adjust.Settings) { s.Filter = f })
				return
			}
		}
	})

	cp.resetBtn = widget.NewButtonWithIcon("Reset", theme.ViewRefreshIcon(), func() {
		cp.SetSettings(adjust.DefaultSettings())
		if cp.onSettingsChanged != nil {
			cp.onSettingsChanged(cp.settings)
		}
	})

	content := container.NewVBox(
		cp.brightness.row("Brightness"),
		cp.contrast.row("Contrast"),
		cp.saturation.row("Saturation"),
		cp.hue.row("Hue Shift"),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Filter", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		cp.filterSelect,
		widget.NewSeparator(),
		cp.resetBtn,
	)

	cp.container = container.NewVBox(widget.NewCard("ADJUSTMENTS", "", content))
}

func (cp *ControlPanel) change(fn func(*adjust.Settings)) {
	if cp.updating {
		return
	}
	fn(&cp.settings)
	if cp.onSettingsChanged != nil {
		cp.onSettingsChanged(cp.settings)
	}
}

// SetSettings moves every control to s without firing the change callback.
func (cp *ControlPanel) SetSettings(s adjust.Settings) {
	cp.updating = true
	defer func() { cp.updating = false }()

	cp.settings = s
	cp.brightness.set(s.Brightness)
	cp.contrast.set(s.Contrast)
	cp.saturation.set(s.Saturation)
	cp.hue.set(s.HueShift)
	cp.filterSelect.SetSelected(s.Filter.Label())
}

func (cp *ControlPanel) Settings() adjust.Settings {
	return cp.settings
}

func (cp *ControlPanel) SetOnSettingsChanged(fn func(adjust.Settings)) {
	cp.onSettingsChanged = fn
}

func (cp *ControlPanel) Enable() {
	for _, s := range []*valueSlider{cp.brightness, cp.contrast, cp.saturation, cp.hue} {
		s.slider.Enable()
	}
	cp.filterSelect.Enable()
	cp.resetBtn.Enable()
}

func (cp *ControlPanel) Disable() {
	for _, s := range []*valueSlider{cp.brightness, cp.contrast, cp.saturation, cp.hue} {
		s.slider.Disable()
	}
	cp.filterSelect.Disable()
	cp.resetBtn.Disable()
}

func (cp *ControlPanel) GetContainer() fyne.CanvasObject {
	return cp.container
}
