// Directory batch over video files
package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"image-colorization/internal/batch"
	imgio "image-colorization/internal/io"
)

// Extensions lists the video file types picked up by a directory batch.
// Matching ignores case.
var Extensions = []string{".mp4", ".avi", ".mov", ".mkv", ".wmv"}

// FindVideos lists the videos directly inside dir, sorted by name.
func FindVideos(dir string) ([]string, error) {
	return imgio.ListImages(dir, Extensions)
}

// VideoJob colorizes one input file into one output file.
type VideoJob func(ctx context.Context, input, output string) error

// ColorizeDirectory runs job for every video in inDir, writing
// colorized_<name> into outDir. Failures are collected in the report.
func ColorizeDirectory(ctx context.Context, runner *batch.Runner, inDir, outDir string, job VideoJob) (batch.Report, error) {
	files, err := FindVideos(inDir)
	if err != nil {
		return batch.Report{}, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return batch.Report{}, fmt.Errorf("create output dir: %w", err)
	}

	items := make([]batch.Item, 0, len(files))
	for _, f := range files {
		items = append(items, batch.Item{
			Input:  f,
			Output: filepath.Join(outDir, "colorized_"+filepath.Base(f)),
		})
	}

	report := runner.Run(ctx, items, func(ctx context.Context, item batch.Item) error {
		return job(ctx, item.Input, item.Output)
	})
	return report, nil
}
