package atlas

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestCapacity(t *testing.T) {
	if got := Capacity(); got != 625 {
		t.Errorf("Capacity: got %d, want 625", got)
	}
}

func TestPlace(t *testing.T) {
	a := NewAllocator(2, image.Point{})
	g := a.Place('x', image.Pt(11, 19))
	if g.Tex != 2 || g.Pos != (image.Point{}) || g.Size != image.Pt(11, 19) {
		t.Errorf("first glyph: %+v", g)
	}
	if g.PosOff != image.Pt(11, 18) || g.PosAdd != (image.Point{}) || g.Offset != GlobalOffset {
		t.Errorf("first glyph metrics: %+v", g)
	}
	if a.Cursor() != image.Pt(20, 0) {
		t.Errorf("cursor: got %v", a.Cursor())
	}
}

func TestPlaceAdjusted(t *testing.T) {
	a := NewAllocator(0, image.Pt(1, 2))
	a.Place('a', image.Pt(10, 10))
	g := a.Place('b', image.Pt(12, 20))
	if g.Pos != image.Pt(21, 2) {
		t.Errorf("pos: got %v", g.Pos)
	}
	if g.Size != image.Pt(11, 18) {
		t.Errorf("size: got %v", g.Size)
	}
	if g.PosOff != image.Pt(12, 16) {
		t.Errorf("pos_off: got %v", g.PosOff)
	}
}

func TestWrap(t *testing.T) {
	a := NewAllocator(0, image.Point{})
	var last image.Point
	for i := 0; i < 26; i++ {
		last = a.Place('x', image.Pt(10, 10)).Pos
	}
	// 25 cells per row: 0..480.
	if last != image.Pt(0, 20) {
		t.Errorf("26th glyph: got %v, want (0,20)", last)
	}
}

func TestFullAfterPlacement(t *testing.T) {
	a := NewAllocator(0, image.Point{})
	var g image.Point
	for i := 0; i < 624; i++ {
		g = a.Place('x', image.Pt(1, 1)).Pos
		if a.Full() {
			t.Fatalf("full after %d glyphs", i+1)
		}
	}
	if g != image.Pt(460, 480) {
		t.Errorf("624th glyph: got %v", g)
	}
	g = a.Place('x', image.Pt(1, 1)).Pos
	if g != image.Pt(480, 480) {
		t.Errorf("625th glyph: got %v", g)
	}
	if !a.Full() {
		t.Error("expected full after 625 glyphs")
	}
}

// boxRasterizer paints an opaque ink box of fixed size.
type boxRasterizer struct {
	size image.Point
}

func (b boxRasterizer) Measure(rune) image.Point { return b.size }

func (b boxRasterizer) Draw(dst draw.Image, at image.Point, _ rune) {
	r := image.Rectangle{Min: at, Max: at.Add(b.size)}
	draw.Draw(dst, r, image.NewUniform(color.White), image.Point{}, draw.Src)
}

func TestBuilderPages(t *testing.T) {
	chars := make([]rune, 700)
	for i := range chars {
		chars[i] = rune(0x4E00 + i)
	}
	b := NewBuilder(boxRasterizer{image.Pt(18, 18)}, image.Point{})
	b.AddAll(chars)

	if len(b.Pages()) != 2 {
		t.Fatalf("pages: got %d, want 2", len(b.Pages()))
	}
	perPage := map[int]int{}
	for _, g := range b.Glyphs() {
		perPage[g.Tex]++
	}
	if perPage[0] != 625 || perPage[1] != 75 {
		t.Errorf("glyphs per page: got %v, want 625/75", perPage)
	}

	g := b.Glyphs()[625]
	if g.Tex != 1 || g.Pos != (image.Point{}) {
		t.Errorf("first glyph of page 1: %+v", g)
	}

	page := b.Pages()[1]
	if a := page.NRGBAAt(5, 5).A; a != 255 {
		t.Errorf("ink alpha: got %d", a)
	}
	if c := page.NRGBAAt(19, 19); c != (color.NRGBA{255, 255, 255, 0}) {
		t.Errorf("background: got %v", c)
	}
}

func TestBuilderExactPage(t *testing.T) {
	b := NewBuilder(boxRasterizer{image.Pt(1, 1)}, image.Point{})
	b.AddAll(make([]rune, 625))
	if len(b.Pages()) != 1 {
		t.Errorf("pages: got %d, want 1", len(b.Pages()))
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage()
	if page.Bounds() != image.Rect(0, 0, PageSize, PageSize) {
		t.Fatalf("bounds: %v", page.Bounds())
	}
	blank := color.NRGBA{255, 255, 255, 0}
	for _, p := range []image.Point{{0, 0}, {PageSize - 1, 0}, {0, PageSize - 1}, {PageSize - 1, PageSize - 1}, {200, 317}} {
		if c := page.NRGBAAt(p.X, p.Y); c != blank {
			t.Errorf("pixel %v: got %v, want %v", p, c, blank)
		}
	}
}
