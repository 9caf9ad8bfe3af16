// Package crypto implements the keystream cipher that obfuscates GMD
// text blobs.
//
// Two fixed ASCII keys are XORed into the data, each repeating with its
// own period. The last byte of a ciphered buffer doubles as a checksum:
// it is a NUL terminator before ciphering, so after ciphering it equals
// the keystream byte at that offset.
package crypto

import (
	"fmt"

	"mt-loc-tools/internal/binfmt"
)

var (
	key1 = []byte("e43bcc7fcab+a6c4ed22fcd433/9d2e6cb053fa462-463f3a446b19")
	key2 = []byte("861f1dca05a0;9ddd5261e5dcc@6b438e6c.8ba7d71c*4fd11f3af1")
)

// keyAt returns the combined keystream byte for offset i.
func keyAt(i int) byte {
	return key1[i%len(key1)] ^ key2[i%len(key2)]
}

// ApplyKeystream XORs the keystream into data in place and returns it.
// The transform is its own inverse.
func ApplyKeystream(data []byte) []byte {
	for i := range data {
		data[i] ^= keyAt(i)
	}
	return data
}

// EncryptText appends the NUL checksum byte to plain and ciphers the
// result. The input is not modified.
func EncryptText(plain []byte) []byte {
	out := make([]byte, len(plain)+1)
	copy(out, plain)
	return ApplyKeystream(out)
}

// DecryptText validates the trailing checksum byte, deciphers data and
// strips the checksum. A buffer ending in NUL is taken as already plain
// unless the keystream itself is zero at that offset, in which case a
// ciphered terminator is indistinguishable and the buffer is deciphered.
func DecryptText(data []byte) ([]byte, error) {
	n := len(data)
	if n == 0 {
		return []byte{}, nil
	}
	last := data[n-1]
	k := keyAt(n - 1)

	if last == 0 && k != 0 {
		out := make([]byte, n-1)
		copy(out, data)
		return out, nil
	}
	if last^k != 0 {
		return nil, fmt.Errorf("crypto: trailing byte %#02x at offset %d: %w", last, n-1, binfmt.ErrChecksum)
	}

	out := make([]byte, n)
	copy(out, data)
	return ApplyKeystream(out)[:n-1], nil
}
