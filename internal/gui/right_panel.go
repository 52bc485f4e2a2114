// Right panel: output resolution, export formats and colorization metrics
package gui

import (
	"fmt"
	"image"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	imgio "image-colorization/internal/io"
	"image-colorization/internal/metrics"
)

type RightPanel struct {
	container *container.Scroll

	// Output section
	resolutionSelect *widget.Select
	widthEntry       *widget.Entry
	heightEntry      *widget.Entry
	customRow        *fyne.Container
	formatChecks     *widget.CheckGroup
	sizeLabel        *widget.Label
	exportBtn        *widget.Button

	// Quality metrics section
	metricsBox *fyne.Container

	updating bool

	onResolutionChanged func(imgio.Resolution)
	onFormatsChanged    func([]imgio.Format)
	onExport            func()
}

func NewRightPanel() *RightPanel {
	rp := &RightPanel{}

	outputCard := rp.createOutputSection()
	qualityCard := rp.createQualitySection()

	rp.container = container.NewScroll(container.NewVBox(outputCard, qualityCard))
	rp.SetExportEnabled(false)
	return rp
}

func (rp *RightPanel) createOutputSection() *widget.Card {
	presets := make([]string, 0, len(imgio.Presets()))
	for _, p := range imgio.Presets() {
		presets = append(presets, p.String())
	}

	rp.widthEntry = widget.NewEntry()
	rp.widthEntry.SetText("512")
	rp.heightEntry = widget.NewEntry()
	rp.heightEntry.SetText("512")
	rp.widthEntry.OnChanged = func(string) { rp.resolutionChanged() }
	rp.heightEntry.OnChanged = func(string) { rp.resolutionChanged() }

	rp.customRow = container.NewGridWithColumns(4,
		widget.NewLabel("W"), rp.widthEntry,
		widget.NewLabel("H"), rp.heightEntry,
	)
	rp.customRow.Hide()

	rp.resolutionSelect = widget.NewSelect(presets, func(string) { rp.resolutionChanged() })

	formats := make([]string, 0, len(imgio.Formats()))
	for _, f := range imgio.Formats() {
		formats = append(formats, f.String())
	}
	rp.formatChecks = widget.NewCheckGroup(formats, func(selected []string) {
		if rp.updating || rp.onFormatsChanged == nil {
			return
		}
		out, err := imgio.ParseFormats(selected)
		if err == nil {
			rp.onFormatsChanged(out)
		}
	})
	rp.formatChecks.Horizontal = true

	rp.sizeLabel = widget.NewLabel("Output size: -")

	rp.exportBtn = widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), func() {
		if rp.onExport != nil {
			rp.onExport()
		}
	})
	rp.exportBtn.Importance = widget.HighImportance

	content := container.NewVBox(
		widget.NewLabelWithStyle("Resolution", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		rp.resolutionSelect,
		rp.customRow,
		widget.NewLabelWithStyle("Formats", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		rp.formatChecks,
		rp.sizeLabel,
		rp.exportBtn,
	)
	return widget.NewCard("OUTPUT", "", content)
}

func (rp *RightPanel) createQualitySection() *widget.Card {
	rp.metricsBox = container.NewVBox(widget.NewLabel("No colorized image yet"))
	return widget.NewCard("METRICS", "", rp.metricsBox)
}

// Resolution reads the selection; custom sizes that do not parse report an error.
func (rp *RightPanel) Resolution() (imgio.Resolution, error) {
	preset, err := imgio.ParsePreset(rp.resolutionSelect.Selected)
	if err != nil {
		return imgio.OriginalResolution(), nil
	}
	if preset != imgio.PresetCustom {
		return imgio.Resolution{Preset: preset}, nil
	}

	w, err := strconv.Atoi(rp.widthEntry.Text)
	if err != nil {
		return imgio.Resolution{}, fmt.Errorf("width: %w", err)
	}
	h, err := strconv.Atoi(rp.heightEntry.Text)
	if err != nil {
		return imgio.Resolution{}, fmt.Errorf("height: %w", err)
	}
	r := imgio.CustomResolution(w, h)
	return r, r.Validate()
}

func (rp *RightPanel) resolutionChanged() {
	if rp.resolutionSelect.Selected == imgio.PresetCustom.String() {
		rp.customRow.Show()
	} else {
		rp.customRow.Hide()
	}
	if rp.updating || rp.onResolutionChanged == nil {
		return
	}
	r, err := rp.Resolution()
	if err != nil {
		rp.sizeLabel.SetText(fmt.Sprintf("Invalid size (%d-%d per side)", imgio.MinCustomSide, imgio.MaxCustomSide))
		return
	}
	rp.onResolutionChanged(r)
}

// SetOutput shows the session's resolution, formats and resulting size.
func (rp *RightPanel) SetOutput(r imgio.Resolution, formats []imgio.Format, size image.Point, hasImage bool) {
	rp.updating = true
	defer func() { rp.updating = false }()

	rp.resolutionSelect.SetSelected(r.Preset.String())
	if r.Preset == imgio.PresetCustom {
		rp.widthEntry.SetText(strconv.Itoa(r.Custom.X))
		rp.heightEntry.SetText(strconv.Itoa(r.Custom.Y))
	}

	selected := make([]string, 0, len(formats))
	for _, f := range formats {
		selected = append(selected, f.String())
	}
	rp.formatChecks.SetSelected(selected)

	if hasImage {
		rp.sizeLabel.SetText(fmt.Sprintf("Output size: %d x %d", size.X, size.Y))
	} else {
		rp.sizeLabel.SetText("Output size: -")
	}
	rp.SetExportEnabled(hasImage && len(formats) > 0)
}

// SetMetrics lists the scores of the last colorization.
func (rp *RightPanel) SetMetrics(scores []metrics.Score) {
	rp.metricsBox.RemoveAll()
	if len(scores) == 0 {
		rp.metricsBox.Add(widget.NewLabel("No colorized image yet"))
		return
	}
	evaluator := metrics.NewEvaluator()
	for _, s := range scores {
		name := s.Name
		if m, ok := evaluator.Metric(s.Name); ok {
			name = m.GetName()
		}
		rp.metricsBox.Add(container.NewBorder(nil, nil,
			widget.NewLabelWithStyle(name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), nil,
			widget.NewLabel(formatScore(s.Value)),
		))
	}
	rp.metricsBox.Refresh()
}

func formatScore(v float64) string {
	if v > 1e9 {
		return "∞"
	}
	return fmt.Sprintf("%.3f", v)
}

func (rp *RightPanel) SetExportEnabled(enabled bool) {
	if enabled {
		rp.exportBtn.Enable()
	} else {
		rp.exportBtn.Disable()
	}
}

func (rp *RightPanel) SetCallbacks(onResolution func(imgio.Resolution), onFormats func([]imgio.Format), onExport func()) {
	rp.onResolutionChanged = onResolution
	rp.onFormatsChanged = onFormats
	rp.onExport = onExport
}

func (rp *RightPanel) GetContainer() fyne.CanvasObject {
	return rp.container
}
