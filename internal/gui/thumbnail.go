// Preview scaling for on-screen images
package gui

import (
	"image"

	"golang.org/x/image/draw"
)

// previewSide bounds the longest side of images shown in the editor.
const previewSide = 800

// Thumbnail scales img down so neither side exceeds maxSide. Smaller images are returned as is.
func Thumbnail(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}

	scale := float64(maxSide) / float64(max(w, h))
	tw := max(1, int(float64(w)*scale+0.5))
	th := max(1, int(float64(h)*scale+0.5))

	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
