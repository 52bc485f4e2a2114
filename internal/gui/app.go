// Main editor window: open, colorize, adjust and export one image at a time
package gui

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-colorization/internal/adjust"
	"image-colorization/internal/core"
	imgio "image-colorization/internal/io"
	"image-colorization/internal/metrics"
	"image-colorization/internal/session"
)

// Colorizer produces an 8-bit BGR colorized copy of an 8-bit image.
type Colorizer interface {
	Colorize(src gocv.Mat) (gocv.Mat, error)
}

// Application is the editor. All session changes happen on the fyne thread.
type Application struct {
	app       fyne.App
	window    fyne.Window
	logger    logrus.FieldLogger
	debugMode bool

	colorizer Colorizer
	loader    *imgio.ImageLoader
	encoder   *imgio.Encoder
	evaluator *metrics.Evaluator

	state session.Session
	// preview is the colorized image scaled for display.
	preview image.Image
	// loadSeq discards colorizations that finish after a newer image was opened.
	loadSeq int

	center      *CenterPanel
	controls    *ControlPanel
	output      *RightPanel
	menuHandler *MenuHandler
	statusCard  *widget.Card

	debugger *GUIDebugger
}

func NewApplication(app fyne.App, colorizer Colorizer, logger logrus.FieldLogger, debugMode bool) *Application {
	window := app.NewWindow("Image Colorization")
	window.Resize(fyne.NewSize(1400, 900))
	window.CenterOnScreen()

	a := &Application{
		app:       app,
		window:    window,
		logger:    logger,
		debugMode: debugMode,
		colorizer: colorizer,
		loader:    imgio.NewImageLoader(logger),
		encoder:   imgio.NewEncoder(logger),
		evaluator: metrics.NewEvaluator(),
		state:     session.New(),
	}
	if debugMode {
		a.debugger = NewGUIDebugger(logger)
	}

	a.initializeGUI()
	a.setupLayout()
	a.setupCallbacks()
	a.render(a.state)

	return a
}

func (a *Application) initializeGUI() {
	a.center = NewCenterPanel()
	a.controls = NewControlPanel()
	a.output = NewRightPanel()
	a.menuHandler = NewMenuHandler(a.window, a.logger)
	a.statusCard = widget.NewCard("Status", "", widget.NewLabel("Ready"))
}

func (a *Application) setupLayout() {
	left := container.NewVBox(a.controls.GetContainer(), a.statusCard)
	right := a.output.GetContainer()

	centerAndRight := container.NewHSplit(a.center.GetContainer(), right)
	centerAndRight.SetOffset(0.75)

	content := container.NewHSplit(container.NewScroll(left), centerAndRight)
	content.SetOffset(0.22)

	a.window.SetMainMenu(a.menuHandler.GetMainMenu())
	a.window.SetContent(content)
}

func (a *Application) setupCallbacks() {
	a.menuHandler.SetCallbacks(
		func(path string) {
			if err := a.LoadImageFromPath(path); err != nil {
				a.showError("Failed to Load Image", err)
			}
		},
		a.exportTo,
		func() {
			a.update(func(s session.Session) (session.Session, error) { return s.ResetAdjustments(), nil })
		},
	)

	a.controls.SetOnSettingsChanged(func(settings adjust.Settings) {
		a.update(func(s session.Session) (session.Session, error) { return s.WithSettings(settings), nil })
	})

	a.output.SetCallbacks(
		func(r imgio.Resolution) {
			a.update(func(s session.Session) (session.Session, error) { return s.WithResolution(r) })
		},
		func(formats []imgio.Format) {
			a.update(func(s session.Session) (session.Session, error) { return s.WithFormats(formats), nil })
		},
		a.menuHandler.ExportImages,
	)
}

// update replaces the session with fn's result and re-renders. On error the
// session is left as it was.
func (a *Application) update(fn func(session.Session) (session.Session, error)) {
	next, err := fn(a.state)
	if err != nil {
		a.showError("Invalid Setting", err)
		return
	}
	a.state = next
	a.render(a.state)
}

// render draws s. It reads the session and never changes it.
func (a *Application) render(s session.Session) {
	defer a.debugger.Time("render")()

	a.controls.SetSettings(s.Settings())
	if s.HasColorized() {
		a.controls.Enable()
	} else {
		a.controls.Disable()
	}

	var size image.Point
	if out, err := s.OutputSize(); err == nil {
		size = out
	}
	a.output.SetOutput(s.Resolution(), s.Formats(), size, s.HasColorized())

	if a.preview == nil {
		a.center.SetColorized(nil)
		return
	}
	img, err := s.WithColorized(a.preview).Render()
	if err != nil {
		a.logger.WithError(err).Debug("Preview render skipped")
		return
	}
	a.center.SetColorized(img)
}

// LoadImageFromPath opens path and colorizes it in the background.
func (a *Application) LoadImageFromPath(path string) error {
	mat, err := a.loader.LoadImage(path)
	if err != nil {
		return err
	}
	defer mat.Close()

	if err := core.ValidateImage(mat); err != nil {
		return fmt.Errorf("invalid image: %w", err)
	}
	src, err := mat.ToImage()
	if err != nil {
		return fmt.Errorf("mat to image: %w", err)
	}

	a.loadSeq++
	seq := a.loadSeq
	a.preview = nil
	a.state = a.state.WithSource(filepath.Base(path), src)
	a.center.SetOriginal(Thumbnail(src, previewSide))
	a.center.SetBusy(true, "Colorizing "+filepath.Base(path)+"...")
	a.output.SetMetrics(nil)
	a.render(a.state)

	input := mat.Clone()
	go func() {
		defer input.Close()
		done := a.debugger.Time("colorize")
		img, scores, err := a.colorize(input)
		done()
		fyne.Do(func() {
			if seq != a.loadSeq {
				return
			}
			a.onColorized(path, img, scores, err)
		})
	}()

	return nil
}

func (a *Application) colorize(input gocv.Mat) (image.Image, []metrics.Score, error) {
	colored, err := a.colorizer.Colorize(input)
	if err != nil {
		return nil, nil, err
	}
	defer colored.Close()

	scores := a.evaluator.Evaluate(input, colored)
	img, err := colored.ToImage()
	if err != nil {
		return nil, nil, fmt.Errorf("mat to image: %w", err)
	}
	return img, scores, nil
}

func (a *Application) onColorized(path string, img image.Image, scores []metrics.Score, err error) {
	if err != nil {
		a.center.SetBusy(false, "Colorization failed")
		a.showError("Colorization Failed", err)
		return
	}

	a.logger.WithFields(metrics.Fields(scores)).WithField("filepath", path).Info("Image colorized")

	a.preview = Thumbnail(img, previewSide)
	a.state = a.state.WithColorized(img)
	a.center.SetBusy(false, filepath.Base(path))
	a.output.SetMetrics(scores)
	a.render(a.state)
	a.updateStatusMessage(fmt.Sprintf("Colorized: %s", filepath.Base(path)))
}

func (a *Application) exportTo(dir string) {
	s := a.state
	if !s.HasColorized() {
		a.showError("Nothing to Export", session.ErrNoImage)
		return
	}

	a.center.SetBusy(true, "Exporting...")
	go func() {
		paths, err := s.Export(a.encoder, dir)
		fyne.Do(func() {
			a.center.SetBusy(false, s.SourceName())
			if err != nil {
				a.showError("Export Failed", err)
				return
			}
			a.showInfo("Exported", strings.Join(paths, "\n"))
			a.updateStatusMessage(fmt.Sprintf("Exported %d file(s)", len(paths)))
		})
	}()
}

func (a *Application) updateStatusMessage(message string) {
	if a.statusCard != nil {
		a.statusCard.SetContent(widget.NewLabel(message))
	}
}

func (a *Application) ShowAndRun() {
	a.logger.Info("Showing main application window")
	a.window.ShowAndRun()
	a.debugger.LogSummary()
}

func (a *Application) showError(title string, err error) {
	a.logger.WithError(err).Error(title)
	dialog.ShowError(err, a.window)
	a.updateStatusMessage(fmt.Sprintf("Error: %s", err.Error()))
}

func (a *Application) showInfo(title, message string) {
	a.logger.WithField("message", message).Info(title)
	dialog.ShowInformation(title, message, a.window)
}
