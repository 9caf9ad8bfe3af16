package bitfield

import (
	"fmt"

	"mt-loc-tools/internal/binfmt"
)

// Rescale converts a sample from one bit depth to another.
//
// Upscaling searches for the smallest all-ones target that is a
// multiple of the source maximum, widening it one bit at a time and
// doubling a divisor to compensate. For 4→8 this is v*17; for depths
// that do not divide evenly it reproduces the game tool's rounding
// instead of a linear v*to/from scale. Downscaling truncates.
func Rescale(value uint32, fromBits, toBits uint) (uint32, error) {
	if fromBits == 0 || fromBits > MaxBits || toBits == 0 || toBits > MaxBits {
		return 0, fmt.Errorf("bitfield: rescale %d→%d bits: depth out of range: %w", fromBits, toBits, binfmt.ErrRange)
	}
	if uint64(value)>>fromBits != 0 {
		return 0, fmt.Errorf("bitfield: value %d does not fit %d bits: %w", value, fromBits, binfmt.ErrRange)
	}
	if fromBits == toBits {
		return value, nil
	}

	if fromBits < toBits {
		fromMax := uint64(1)<<fromBits - 1
		toMax := uint64(1)<<toBits - 1
		div := uint64(1)
		for toMax%fromMax != 0 {
			div <<= 1
			toMax = (toMax+1)<<1 - 1
		}
		return uint32(uint64(value) * (toMax / fromMax) / div), nil
	}

	limit := uint64(1)<<fromBits / (uint64(1) << toBits)
	return uint32(uint64(value) / limit), nil
}
