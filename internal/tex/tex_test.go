package tex

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"testing"

	"mt-loc-tools/internal/binfmt"
)

func gradient(w, h int) []color.NRGBA {
	pix := make([]color.NRGBA, w*h)
	for i := range pix {
		pix[i] = color.NRGBA{R: 255, G: 255, B: 255, A: uint8(i%16) * 17}
	}
	return pix
}

func TestRoundTrip(t *testing.T) {
	for _, size := range [][2]int{{8, 8}, {16, 8}, {32, 64}} {
		w, h := size[0], size[1]
		src, err := New(w, h, gradient(w, h))
		if err != nil {
			t.Fatal(err)
		}
		data, err := src.Encode()
		if err != nil {
			t.Fatalf("%dx%d encode: %v", w, h, err)
		}
		if want := HeaderSize + 4 + w*h/2; len(data) != want {
			t.Fatalf("%dx%d: encoded %d bytes, want %d", w, h, len(data), want)
		}

		got, err := Decode(data)
		if err != nil {
			t.Fatalf("%dx%d decode: %v", w, h, err)
		}
		if got.Header != src.Header {
			t.Errorf("%dx%d header: got %+v, want %+v", w, h, got.Header, src.Header)
		}
		for i := range src.Pix {
			if got.Pix[i] != src.Pix[i] {
				t.Fatalf("%dx%d pixel %d: got %v, want %v", w, h, i, got.Pix[i], src.Pix[i])
			}
		}

		again, err := got.Encode()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(again, data) {
			t.Errorf("%dx%d: re-encode differs", w, h)
		}
	}
}

func TestHeaderLayout(t *testing.T) {
	src, err := New(8, 8, gradient(8, 8))
	if err != nil {
		t.Fatal(err)
	}
	data, err := src.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if string(data[:4]) != "TEX\x00" {
		t.Errorf("magic: %q", data[:4])
	}
	words := []uint32{
		0xA6 | 2<<28,
		1 | 8<<6 | 8<<19,
		1 | FormatLA4<<8 | 1<<16,
		0,
	}
	for i, want := range words {
		if got := binary.LittleEndian.Uint32(data[4+4*i:]); got != want {
			t.Errorf("word %d: got %#08x, want %#08x", i, got, want)
		}
	}
}

func TestSwizzledStorage(t *testing.T) {
	// A single opaque pixel at raster (2,0) lands at tiled index 4.
	pix := make([]color.NRGBA, 64)
	pix[2] = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	src, err := New(8, 8, pix)
	if err != nil {
		t.Fatal(err)
	}
	data, err := src.Encode()
	if err != nil {
		t.Fatal(err)
	}
	payload := data[HeaderSize+4:]
	for i, b := range payload {
		want := byte(0)
		if i == 2 {
			want = 0x0F
		}
		if b != want {
			t.Errorf("payload byte %d: got %#x, want %#x", i, b, want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	valid, err := New(8, 8, gradient(8, 8))
	if err != nil {
		t.Fatal(err)
	}
	good, err := valid.Encode()
	if err != nil {
		t.Fatal(err)
	}

	patch := func(h func(*Header)) []byte {
		hdr := valid.Header
		h(&hdr)
		head, err := hdr.Encode()
		if err != nil {
			t.Fatal(err)
		}
		return append(head, good[HeaderSize:]...)
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short header", good[:10], binfmt.ErrFormat},
		{"bad magic", append([]byte("XET\x00"), good[4:]...), binfmt.ErrFormat},
		{"format", patch(func(h *Header) { h.Format = 13 }), binfmt.ErrUnsupported},
		{"version", patch(func(h *Header) { h.Version = 0xA5 }), binfmt.ErrUnsupported},
		{"mip count", patch(func(h *Header) { h.MapCount = 2 }), binfmt.ErrUnsupported},
		{"truncated payload", good[:len(good)-1], binfmt.ErrFormat},
		{"missing mip table", good[:HeaderSize+2], binfmt.ErrFormat},
		{"size mismatch", patch(func(h *Header) { h.Width = 16 }), binfmt.ErrFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	if _, err := New(8, 8, make([]color.NRGBA, 10)); !errors.Is(err, binfmt.ErrRange) {
		t.Errorf("pixel count: got %v", err)
	}

	tx, err := New(8, 8, gradient(8, 8))
	if err != nil {
		t.Fatal(err)
	}
	tx.Header.Width = 8192
	tx.Pix = make([]color.NRGBA, 8192*8)
	if _, err := tx.Encode(); !errors.Is(err, binfmt.ErrRange) {
		t.Errorf("width overflow: got %v", err)
	}
}

func TestImageConversion(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.SetNRGBA(3, 5, color.NRGBA{R: 10, G: 20, B: 30, A: 0x88})

	tx, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	if got := tx.Pix[5*8+3]; got != (color.NRGBA{255, 255, 255, 0x88}) {
		t.Errorf("FromImage pixel: got %v", got)
	}
	if got := tx.Image().NRGBAAt(3, 5); got.A != 0x88 {
		t.Errorf("Image alpha: got %#x", got.A)
	}
}
