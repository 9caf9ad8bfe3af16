// Package swizzle maps between the GPU's tiled pixel order and
// row-major raster order.
//
// A Pattern describes one tiled index bit per entry of Bits: when bit j
// of the index is set, Bits[j] is XORed into the position inside the
// macro tile. Macro tiles are laid out row-major across the image.
package swizzle

import (
	"fmt"

	"mt-loc-tools/internal/binfmt"
)

// Point is an (x, y) pixel coordinate or displacement.
type Point struct {
	X, Y int
}

// Pattern is a swizzle configuration for one image stride.
type Pattern struct {
	Stride int
	Origin Point
	Bits   []Point

	tileW, tileH int
	tilesPerRow  int
}

// ctrBits is the 3DS layout: x and y bits interleaved over an 8×8 tile.
var ctrBits = []Point{{1, 0}, {0, 1}, {2, 0}, {0, 2}, {4, 0}, {0, 4}}

// NewPattern derives the macro tile size from the OR of all bit weights.
func NewPattern(stride int, origin Point, bits []Point) (*Pattern, error) {
	if stride <= 0 {
		return nil, fmt.Errorf("swizzle: stride %d: %w", stride, binfmt.ErrRange)
	}
	if len(bits) == 0 {
		return nil, fmt.Errorf("swizzle: empty bit pattern: %w", binfmt.ErrRange)
	}
	var w, h int
	for _, b := range bits {
		w |= b.X
		h |= b.Y
	}
	p := &Pattern{
		Stride: stride,
		Origin: origin,
		Bits:   append([]Point(nil), bits...),
		tileW:  w + 1,
		tileH:  h + 1,
	}
	p.tilesPerRow = (stride + p.tileW - 1) / p.tileW
	return p, nil
}

// TileSize returns the macro tile dimensions.
func (p *Pattern) TileSize() (w, h int) { return p.tileW, p.tileH }

// Locate returns the raster position of tiled index i.
func (p *Pattern) Locate(i int) Point {
	tile := i / (p.tileW * p.tileH)
	x := (tile % p.tilesPerRow) * p.tileW
	y := (tile / p.tilesPerRow) * p.tileH

	pt := Point{p.Origin.X ^ x, p.Origin.Y ^ y}
	for j, b := range p.Bits {
		if i>>j&1 == 1 {
			pt.X ^= b.X
			pt.Y ^= b.Y
		}
	}
	return pt
}

// Map is a bijection between tiled and raster indices. Callers must
// not modify the slices; maps are shared through Cache.
type Map struct {
	Width, Height int
	TiledToRaster []int
	RasterToTiled []int
}

// Raster returns the raster index of tiled index i.
func (m *Map) Raster(i int) int { return m.TiledToRaster[i] }

// Tiled returns the tiled index of raster index i.
func (m *Map) Tiled(i int) int { return m.RasterToTiled[i] }

// Len returns the number of pixels covered.
func (m *Map) Len() int { return len(m.TiledToRaster) }

// Build walks every tiled index of a width×height image and records the
// pairing in both directions. A tiled index landing outside the image or
// on an already visited pixel fails: the result is always a bijection.
func (p *Pattern) Build(width, height int) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("swizzle: size %dx%d: %w", width, height, binfmt.ErrRange)
	}
	n := width * height
	m := &Map{
		Width:         width,
		Height:        height,
		TiledToRaster: make([]int, n),
		RasterToTiled: make([]int, n),
	}
	for i := range m.RasterToTiled {
		m.RasterToTiled[i] = -1
	}

	for i := 0; i < n; i++ {
		pt := p.Locate(i)
		if pt.X < 0 || pt.X >= width || pt.Y < 0 || pt.Y >= height {
			return nil, fmt.Errorf("swizzle: tiled index %d maps to (%d,%d) outside %dx%d: %w",
				i, pt.X, pt.Y, width, height, binfmt.ErrRange)
		}
		r := pt.X + pt.Y*width
		if prev := m.RasterToTiled[r]; prev >= 0 {
			return nil, fmt.Errorf("swizzle: tiled indices %d and %d both map to raster %d: %w",
				prev, i, r, binfmt.ErrRange)
		}
		m.TiledToRaster[i] = r
		m.RasterToTiled[r] = i
	}
	return m, nil
}

// CTR builds the 3DS swizzle map for a width×height texture.
func CTR(width, height int) (*Map, error) {
	p, err := NewPattern(width, Point{}, ctrBits)
	if err != nil {
		return nil, err
	}
	return p.Build(width, height)
}
