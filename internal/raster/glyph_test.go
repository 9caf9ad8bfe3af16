package raster

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestGlyphFace(t *testing.T) {
	g, err := NewGlyphFace(goregular.TTF, 18)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	m := g.Measure('W')
	if m.X <= 0 || m.X > 20 {
		t.Errorf("width of W: got %d", m.X)
	}
	if m.Y < 18 || m.Y > 24 {
		t.Errorf("line height: got %d", m.Y)
	}
	if g.Measure('i').X >= m.X {
		t.Error("i is not narrower than W")
	}
	if !g.Has('A') {
		t.Error("Has(A) = false")
	}

	dst := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.NRGBA{255, 255, 255, 0}), image.Point{}, draw.Src)
	g.Draw(dst, image.Pt(10, 10), 'W')

	var inside, above int
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			c := dst.NRGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			if c.R != 255 || c.G != 255 || c.B != 255 {
				t.Fatalf("ink at (%d,%d) is not white: %v", x, y, c)
			}
			if y < 10 {
				above++
			} else if x >= 10 && x < 10+m.X && y < 10+m.Y {
				inside++
			}
		}
	}
	if inside == 0 {
		t.Error("nothing drawn inside the glyph cell")
	}
	if above != 0 {
		t.Errorf("%d pixels drawn above the line box", above)
	}
}

func TestGlyphFaceErrors(t *testing.T) {
	if _, err := NewGlyphFace([]byte("not a font"), 18); err == nil {
		t.Error("expected parse error")
	}
	if _, err := NewGlyphFace(goregular.TTF, 0); err == nil {
		t.Error("expected size error")
	}
}
