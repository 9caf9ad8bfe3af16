// Package postprocess turns decoded atlas pages into viewable images:
// per-glyph crops, ink bounds and scaled previews.
package postprocess

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Backdrop is the opaque colour exported glyphs are composited onto.
var Backdrop = color.NRGBA{0, 0, 0, 255}

// CropGlyph cuts box out of page and composites it over Backdrop. The
// box is clipped to the page.
func CropGlyph(page image.Image, box image.Rectangle) (*image.NRGBA, error) {
	r := box.Intersect(page.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("postprocess: glyph box %v outside page %v", box, page.Bounds())
	}
	glyph := imaging.Crop(page, r)
	bg := imaging.New(r.Dx(), r.Dy(), Backdrop)
	return imaging.Overlay(bg, glyph, image.Point{}, 1.0), nil
}

// InkBounds returns the smallest rectangle holding every pixel with
// non-zero alpha, or an empty rectangle if there is none.
func InkBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] > 0 {
				minX = min(minX, x)
				maxX = max(maxX, x)
				minY = min(minY, y)
				maxY = max(maxY, y)
			}
		}
	}
	if maxX < minX {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
