// Image Colorization Editor
// Desktop editor: open a grayscale photo, colorize, adjust and export.

package main

import (
	"os"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"image-colorization/internal/config"
	"image-colorization/internal/gui"
)

const (
	AppName    = "Image Colorization"
	AppID      = "com.example.image-colorization"
	AppVersion = "1.0.0"
)

func main() {
	cfg := config.Default()
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	cfg.BindCommon(fs)
	_ = fs.Parse(os.Args[1:])

	logger := config.NewLogger(cfg.Debug)
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": cfg.Debug,
		"model":      cfg.Model,
		"device":     cfg.Device,
	}).Info("Starting " + AppName)

	pipeline, err := cfg.LoadPipeline(logger)
	if err != nil {
		logger.WithError(err).Error("Failed to load colorization model")
		os.Exit(1)
	}

	myApp := app.NewWithID(AppID)
	myApp.SetIcon(theme.DocumentIcon())
	myApp.Settings().SetTheme(theme.DefaultTheme())

	editor := gui.NewApplication(myApp, pipeline.Colorizer, logger, cfg.Debug)
	if cfg.Input != "" {
		if err := editor.LoadImageFromPath(cfg.Input); err != nil {
			logger.WithError(err).Warn("Could not open initial image")
		}
	}
	editor.ShowAndRun()

	if err := pipeline.Close(); err != nil {
		logger.WithError(err).Warn("Closing model")
	}
	logger.Info("Application shutting down gracefully")
}
