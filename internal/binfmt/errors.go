// Package binfmt holds the pieces shared by the container codecs: the
// error taxonomy every codec reports through, and a bounds-checked
// little-endian cursor for reading and building fixed layouts.
package binfmt

import "errors"

// Error kinds. Codecs wrap one of these with context, so callers can
// classify a failure with errors.Is.
var (
	// ErrFormat reports bad magic, short data or inconsistent declared sizes.
	ErrFormat = errors.New("format error")
	// ErrRange reports a value that does not fit its field or an index out of bounds.
	ErrRange = errors.New("range error")
	// ErrChecksum reports a stream-cipher checksum mismatch.
	ErrChecksum = errors.New("checksum error")
	// ErrUnsupported reports a valid but unsupported feature (mip count, pixel format, version).
	ErrUnsupported = errors.New("unsupported feature")
)
