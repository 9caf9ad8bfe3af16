package atlas

import (
	"image"
	"image/draw"

	"mt-loc-tools/internal/gfd"
)

// Rasterizer measures and draws single glyphs.
type Rasterizer interface {
	// Measure returns the ink box of ch.
	Measure(ch rune) image.Point
	// Draw paints ch with its ink box's top-left corner at at.
	Draw(dst draw.Image, at image.Point, ch rune)
}

// Builder fills atlas pages from a character list.
type Builder struct {
	r   Rasterizer
	adj image.Point

	alloc  *Allocator
	pages  []*image.NRGBA
	glyphs []gfd.Glyph
}

// NewBuilder creates a builder drawing with r.
func NewBuilder(r Rasterizer, adj image.Point) *Builder {
	return &Builder{r: r, adj: adj}
}

// NewPage returns a blank page: white with zero alpha.
func NewPage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, PageSize, PageSize))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = 255, 255, 255
	}
	return img
}

// Add draws ch on the current page, opening a new page first if the
// previous one is full.
func (b *Builder) Add(ch rune) gfd.Glyph {
	if b.alloc == nil || b.alloc.Full() {
		b.alloc = NewAllocator(len(b.pages), b.adj)
		b.pages = append(b.pages, NewPage())
	}
	page := b.pages[len(b.pages)-1]
	b.r.Draw(page, b.alloc.Cursor(), ch)
	g := b.alloc.Place(ch, b.r.Measure(ch))
	b.glyphs = append(b.glyphs, g)
	return g
}

// AddAll adds every character in order.
func (b *Builder) AddAll(chars []rune) {
	for _, ch := range chars {
		b.Add(ch)
	}
}

// Pages returns the pages drawn so far.
func (b *Builder) Pages() []*image.NRGBA { return b.pages }

// Glyphs returns the placed glyph records in insertion order.
func (b *Builder) Glyphs() []gfd.Glyph { return b.glyphs }
