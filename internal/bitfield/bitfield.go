// Package bitfield packs unsigned integers into consecutive sub-fields
// of given bit widths, least significant field first, and rescales
// samples between bit depths.
package bitfield

import (
	"fmt"

	"mt-loc-tools/internal/binfmt"
)

// MaxBits is the widest word the codec packs.
const MaxBits = 32

func totalWidth(widths []uint) (uint, error) {
	var sum uint
	for _, w := range widths {
		sum += w
	}
	if sum > MaxBits {
		return 0, fmt.Errorf("bitfield: widths %v sum to %d bits, max %d: %w", widths, sum, MaxBits, binfmt.ErrRange)
	}
	return sum, nil
}

// Cut splits value into one field per width, in the order given. The
// first width takes the lowest bits.
func Cut(value uint32, widths ...uint) ([]uint32, error) {
	if _, err := totalWidth(widths); err != nil {
		return nil, err
	}
	v := uint64(value)
	parts := make([]uint32, len(widths))
	for i, w := range widths {
		parts[i] = uint32(v & (1<<w - 1))
		v >>= w
	}
	return parts, nil
}

// Merge is the inverse of Cut. A value that does not fit its width is
// an error rather than being truncated.
func Merge(widths []uint, values ...uint32) (uint32, error) {
	if len(widths) != len(values) {
		return 0, fmt.Errorf("bitfield: %d widths for %d values: %w", len(widths), len(values), binfmt.ErrRange)
	}
	if _, err := totalWidth(widths); err != nil {
		return 0, err
	}
	var out uint64
	var shift uint
	for i, w := range widths {
		v := uint64(values[i])
		if v>>w != 0 {
			return 0, fmt.Errorf("bitfield: value %d does not fit field %d (%d bits): %w", v, i, w, binfmt.ErrRange)
		}
		out |= v << shift
		shift += w
	}
	return uint32(out), nil
}

var pairWidths = []uint{12, 12}

// PairLimit is the exclusive upper bound of a packed-pair component.
const PairLimit = 1 << 12

// Pair12 packs two 12-bit values into three little-endian bytes: low
// takes bits 0..11, high takes bits 12..23.
func Pair12(low, high uint32) ([3]byte, error) {
	v, err := Merge(pairWidths, low, high)
	if err != nil {
		return [3]byte{}, err
	}
	return [3]byte{byte(v), byte(v >> 8), byte(v >> 16)}, nil
}

// SplitPair12 reverses Pair12.
func SplitPair12(b [3]byte) (low, high uint32) {
	v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	parts, _ := Cut(v, pairWidths...)
	return parts[0], parts[1]
}
