// internal/gui/center_panel.go
// Center panel: original and colorized images side by side
package gui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type CenterPanel struct {
	container *fyne.Container

	originalImage  *canvas.Image
	colorizedImage *canvas.Image
	progress       *widget.ProgressBarInfinite
	caption        *widget.Label
}

func NewCenterPanel() *CenterPanel {
	cp := &CenterPanel{}
	cp.initializeUI()
	return cp
}

func (cp *CenterPanel) initializeUI() {
	placeholder := createPlaceholderImage()

	cp.originalImage = canvas.NewImageFromImage(placeholder)
	cp.originalImage.FillMode = canvas.ImageFillContain
	cp.originalImage.SetMinSize(fyne.NewSize(400, 300))

	cp.colorizedImage = canvas.NewImageFromImage(placeholder)
	cp.colorizedImage.FillMode = canvas.ImageFillContain
	cp.colorizedImage.SetMinSize(fyne.NewSize(400, 300))

	cp.progress = widget.NewProgressBarInfinite()
	cp.progress.Stop()
	cp.progress.Hide()

	cp.caption = widget.NewLabel("Open a grayscale image to begin")
	cp.caption.Alignment = fyne.TextAlignCenter

	split := container.NewHSplit(
		widget.NewCard("Original", "", cp.originalImage),
		widget.NewCard("Colorized", "", cp.colorizedImage),
	)
	split.SetOffset(0.5)

	cp.container = container.NewBorder(nil, container.NewVBox(cp.progress, cp.caption), nil, nil, split)
}

func createPlaceholderImage() image.Image {
	placeholder := image.NewRGBA(image.Rect(0, 0, 400, 300))
	gray := color.RGBA{245, 245, 245, 255}
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			placeholder.Set(x, y, gray)
		}
	}
	return placeholder
}

func (cp *CenterPanel) SetOriginal(img image.Image) {
	cp.originalImage.Image = img
	cp.originalImage.Refresh()
}

func (cp *CenterPanel) SetColorized(img image.Image) {
	if img == nil {
		img = createPlaceholderImage()
	}
	cp.colorizedImage.Image = img
	cp.colorizedImage.Refresh()
}

// SetBusy shows or hides the progress bar with a caption.
func (cp *CenterPanel) SetBusy(busy bool, caption string) {
	if busy {
		cp.progress.Show()
		cp.progress.Start()
	} else {
		cp.progress.Stop()
		cp.progress.Hide()
	}
	cp.caption.SetText(caption)
}

func (cp *CenterPanel) GetContainer() fyne.CanvasObject {
	return cp.container
}
