package binfmt

import (
	"encoding/binary"
	"fmt"
)

// Reader walks a byte slice. The first out-of-bounds read records an
// ErrFormat and every later read returns zero values, so a parser can
// read a whole fixed layout and check Err once.
type Reader struct {
	data []byte
	off  int
	err  error
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first truncation error, if any.
func (r *Reader) Err() error { return r.err }

// Offset returns the current read position.
func (r *Reader) Offset() int { return r.off }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.data) - r.off }

func (r *Reader) take(n int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.data) {
		r.err = fmt.Errorf("read %s at offset %d: need %d bytes, have %d: %w",
			what, r.off, n, len(r.data)-r.off, ErrFormat)
		r.off = len(r.data)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// Bytes returns the next n bytes without copying.
func (r *Reader) Bytes(n int, what string) []byte {
	return r.take(n, what)
}

// Skip advances past n bytes.
func (r *Reader) Skip(n int, what string) {
	r.take(n, what)
}

func (r *Reader) U8(what string) uint8 {
	b := r.take(1, what)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) U16(what string) uint16 {
	b := r.take(2, what)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *Reader) U32(what string) uint32 {
	b := r.take(4, what)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) I32(what string) int32 {
	return int32(r.U32(what))
}

func (r *Reader) I64(what string) int64 {
	b := r.take(8, what)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

// Array copies the next len(dst) bytes into dst.
func (r *Reader) Array(dst []byte, what string) {
	if b := r.take(len(dst), what); b != nil {
		copy(dst, b)
	}
}

// CString reads exactly n bytes followed by a NUL terminator.
func (r *Reader) CString(n int, what string) string {
	b := r.take(n+1, what)
	if b == nil {
		return ""
	}
	if b[n] != 0 {
		r.err = fmt.Errorf("read %s: missing NUL terminator after %d bytes: %w", what, n, ErrFormat)
		return ""
	}
	return string(b[:n])
}

// CStringAt reads a NUL-terminated string starting at off within data.
func CStringAt(data []byte, off int) (string, error) {
	if off < 0 || off >= len(data) {
		return "", fmt.Errorf("string offset %d outside %d-byte blob: %w", off, len(data), ErrFormat)
	}
	for i := off; i < len(data); i++ {
		if data[i] == 0 {
			return string(data[off:i]), nil
		}
	}
	return "", fmt.Errorf("unterminated string at offset %d: %w", off, ErrFormat)
}
