// Package atlas lays glyphs out on fixed 512×512 atlas pages in a grid
// of 20-pixel cells, in the order the game's font tool used.
package atlas

import (
	"image"

	"mt-loc-tools/internal/gfd"
)

const (
	PageSize  = 512
	CellSize  = 20
	PageBound = 511

	// GlobalOffset is the render offset stored in every glyph record.
	GlobalOffset = 20

	posOffY         = 18
	posOffYAdjusted = 16
)

// Allocator places glyphs on a single page. Once Full reports true the
// caller must start a new Allocator for the next page.
type Allocator struct {
	page   int
	adj    image.Point
	cursor image.Point
	full   bool
}

// NewAllocator returns an allocator for page index page. adj shifts each
// recorded position and shrinks each recorded size, for fonts whose ink
// is visually trimmed.
func NewAllocator(page int, adj image.Point) *Allocator {
	return &Allocator{page: page, adj: adj}
}

// Cursor is where the next glyph will be drawn.
func (a *Allocator) Cursor() image.Point { return a.cursor }

// Full reports whether the page has no cell left.
func (a *Allocator) Full() bool { return a.full }

// Page returns the page index recorded in placed glyphs.
func (a *Allocator) Page() int { return a.page }

// Place records a glyph with the given ink size at the cursor and
// advances to the next cell.
func (a *Allocator) Place(ch rune, ink image.Point) gfd.Glyph {
	offY := posOffY
	if a.adj.Y != 0 {
		offY = posOffYAdjusted
	}
	g := gfd.Glyph{
		Char:   ch,
		Tex:    a.page,
		Pos:    a.cursor.Add(a.adj),
		Size:   ink.Sub(a.adj),
		PosOff: image.Pt(ink.X, offY),
		Offset: GlobalOffset,
	}
	a.advance()
	return g
}

func (a *Allocator) advance() {
	a.cursor.X += CellSize
	if a.cursor.X+CellSize >= PageBound {
		a.cursor.Y += CellSize
		a.cursor.X = 0
	}
	if a.cursor.Y+CellSize >= PageBound {
		a.full = true
	}
}

// Capacity is the number of glyphs one page holds.
func Capacity() int {
	a := NewAllocator(0, image.Point{})
	n := 0
	for !a.Full() {
		a.Place(0, image.Point{})
		n++
	}
	return n
}
