// Package raster renders font glyphs with golang.org/x/image/font faces.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// GlyphFace rasterizes single characters of a TrueType/OpenType font
// at a fixed pixel size. A GlyphFace is not safe for concurrent use.
type GlyphFace struct {
	face    font.Face
	ascent  int
	descent int
	src     image.Image
}

// NewGlyphFace parses font data and sizes it so one em is sizePx pixels.
func NewGlyphFace(data []byte, sizePx int) (*GlyphFace, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("raster: font size %dpx", sizePx)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("raster: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("raster: new face: %w", err)
	}
	m := face.Metrics()
	return &GlyphFace{
		face:    face,
		ascent:  m.Ascent.Ceil(),
		descent: m.Descent.Ceil(),
		src:     image.NewUniform(color.White),
	}, nil
}

// LoadGlyphFace reads a font file from disk.
func LoadGlyphFace(path string, sizePx int) (*GlyphFace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("raster: read font %s: %w", path, err)
	}
	return NewGlyphFace(data, sizePx)
}

// Measure returns the advance width of ch and the face's line height.
func (g *GlyphFace) Measure(ch rune) image.Point {
	adv := font.MeasureString(g.face, string(ch))
	return image.Pt(adv.Ceil(), g.ascent+g.descent)
}

// Has reports whether the font maps ch to a glyph.
func (g *GlyphFace) Has(ch rune) bool {
	_, ok := g.face.GlyphAdvance(ch)
	return ok
}

// Draw paints ch in white with the top of its line box at at.
func (g *GlyphFace) Draw(dst draw.Image, at image.Point, ch rune) {
	d := font.Drawer{
		Dst:  dst,
		Src:  g.src,
		Face: g.face,
		Dot:  fixed.P(at.X, at.Y+g.ascent),
	}
	d.DrawString(string(ch))
}

// Close releases the face.
func (g *GlyphFace) Close() error {
	return g.face.Close()
}
