// Package pixel converts between packed 4-bit alpha samples and
// straight-alpha RGBA pixels.
package pixel

import (
	"fmt"
	"image/color"

	"mt-loc-tools/internal/binfmt"
	"mt-loc-tools/internal/bitfield"
)

// Expansion and reduction tables for the 16 possible nibbles and 256
// possible alpha levels, filled from bitfield.Rescale.
var (
	expand [16]uint8
	reduce [256]uint8
)

func init() {
	for v := range expand {
		a, err := bitfield.Rescale(uint32(v), 4, 8)
		if err != nil {
			panic(err)
		}
		expand[v] = uint8(a)
	}
	for v := range reduce {
		a, err := bitfield.Rescale(uint32(v), 8, 4)
		if err != nil {
			panic(err)
		}
		reduce[v] = uint8(a)
	}
}

// DecodedLen returns the number of pixels held by n packed bytes.
func DecodedLen(n int) int { return n * 2 }

// DecodeLA4 expands every byte into two white pixels, low nibble first.
// The output keeps the input's storage order.
func DecodeLA4(src []byte) []color.NRGBA {
	out := make([]color.NRGBA, 0, DecodedLen(len(src)))
	for _, b := range src {
		out = append(out,
			color.NRGBA{R: 255, G: 255, B: 255, A: expand[b&0x0F]},
			color.NRGBA{R: 255, G: 255, B: 255, A: expand[b>>4]},
		)
	}
	return out
}

// EncodeLA4 packs the alpha of consecutive pixel pairs into one byte.
// Colour channels are discarded.
func EncodeLA4(pix []color.NRGBA) ([]byte, error) {
	if len(pix)%2 != 0 {
		return nil, fmt.Errorf("pixel: LA4 needs an even sample count, got %d: %w", len(pix), binfmt.ErrRange)
	}
	out := make([]byte, len(pix)/2)
	for i := range out {
		lo := reduce[pix[2*i].A]
		hi := reduce[pix[2*i+1].A]
		out[i] = lo | hi<<4
	}
	return out, nil
}
