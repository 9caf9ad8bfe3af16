package binfmt

import (
	"errors"
	"testing"
)

func TestReaderRoundTrip(t *testing.T) {
	w := NewWriter(32)
	w.U8(0xAB)
	w.U16(0x1234)
	w.U32(0xDEADBEEF)
	w.I32(-1)
	w.I64(-42)
	w.CString("abc")

	r := NewReader(w.Bytes())
	if v := r.U8("u8"); v != 0xAB {
		t.Errorf("U8: got %#x", v)
	}
	if v := r.U16("u16"); v != 0x1234 {
		t.Errorf("U16: got %#x", v)
	}
	if v := r.U32("u32"); v != 0xDEADBEEF {
		t.Errorf("U32: got %#x", v)
	}
	if v := r.I32("i32"); v != -1 {
		t.Errorf("I32: got %d", v)
	}
	if v := r.I64("i64"); v != -42 {
		t.Errorf("I64: got %d", v)
	}
	if v := r.CString(3, "name"); v != "abc" {
		t.Errorf("CString: got %q", v)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len: got %d, want 0", r.Len())
	}
}

func TestReaderTruncation(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	_ = r.U16("first")
	if v := r.U32("second"); v != 0 {
		t.Errorf("truncated read returned %d", v)
	}
	_ = r.U8("third")
	if !errors.Is(r.Err(), ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", r.Err())
	}
}

func TestCString(t *testing.T) {
	t.Run("MissingTerminator", func(t *testing.T) {
		r := NewReader([]byte("abcd"))
		r.CString(3, "name")
		if !errors.Is(r.Err(), ErrFormat) {
			t.Errorf("expected ErrFormat, got %v", r.Err())
		}
	})

	t.Run("At", func(t *testing.T) {
		blob := []byte("one\x00two\x00")
		s, err := CStringAt(blob, 4)
		if err != nil || s != "two" {
			t.Errorf("got %q, %v", s, err)
		}
		if _, err := CStringAt(blob, 8); !errors.Is(err, ErrFormat) {
			t.Errorf("out of range: got %v", err)
		}
		if _, err := CStringAt([]byte("abc"), 0); !errors.Is(err, ErrFormat) {
			t.Errorf("unterminated: got %v", err)
		}
	})
}
