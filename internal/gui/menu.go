// Menu handler for application actions
package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

// MenuHandler builds the main menu and its file dialogs
type MenuHandler struct {
	window fyne.Window
	logger logrus.FieldLogger

	onOpen   func(path string)
	onExport func(dir string)
	onReset  func()
}

func NewMenuHandler(window fyne.Window, logger logrus.FieldLogger) *MenuHandler {
	return &MenuHandler{
		window: window,
		logger: logger,
	}
}

func (mh *MenuHandler) GetMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mh.OpenImage),
		fyne.NewMenuItem("Export...", mh.ExportImages),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Exit", func() {
			mh.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Reset Adjustments", func() {
			if mh.onReset != nil {
				mh.onReset()
			}
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mh.showAbout),
	)

	return fyne.NewMainMenu(fileMenu, editMenu, helpMenu)
}

func (mh *MenuHandler) OpenImage() {
	mh.logger.Info("Opening file dialog for image selection")

	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mh.showError("File Dialog Error", err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if mh.onOpen != nil {
			mh.onOpen(path)
		}
	}, mh.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}))
	fileDialog.Show()
}

// ExportImages asks for a destination folder; every selected format is written there.
func (mh *MenuHandler) ExportImages() {
	folderDialog := dialog.NewFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			mh.showError("Folder Dialog Error", err)
			return
		}
		if dir == nil {
			return
		}
		if mh.onExport != nil {
			mh.onExport(dir.Path())
		}
	}, mh.window)
	folderDialog.Show()
}

func (mh *MenuHandler) showAbout() {
	content := container.NewVBox(
		widget.NewLabel("Image Colorization Editor"),
		widget.NewSeparator(),
		widget.NewLabel("Colorizes grayscale photos with a pretrained network,"),
		widget.NewLabel("then adjusts and exports them as PNG, JPG, PDF or TIFF."),
		widget.NewSeparator(),
		widget.NewLabel("Built with Go, Fyne v2.6, and OpenCV 4.11"),
	)

	aboutDialog := dialog.NewCustom("About", "Close", content, mh.window)
	aboutDialog.Resize(fyne.NewSize(400, 240))
	aboutDialog.Show()
}

func (mh *MenuHandler) showError(title string, err error) {
	mh.logger.WithError(err).Error(title)
	dialog.ShowError(err, mh.window)
}

func (mh *MenuHandler) SetCallbacks(onOpen func(string), onExport func(string), onReset func()) {
	mh.onOpen = onOpen
	mh.onExport = onExport
	mh.onReset = onReset
}
