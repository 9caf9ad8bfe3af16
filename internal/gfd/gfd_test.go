package gfd

import (
	"bytes"
	"errors"
	"image"
	"strings"
	"testing"

	"mt-loc-tools/internal/binfmt"
)

func sample() *Font {
	f := &Font{Name: "font00_jpn"}
	f.Header.Magic = Magic
	f.Header.Version = [4]byte{1, 0, 1, 0}
	f.Header.Reserved1[3] = 7
	f.Header.SizePx = 18
	f.Header.BitmapCount = 4
	f.Header.Reserved2[27] = 9
	f.Glyphs = []Glyph{
		{
			Char:   'あ',
			Tex:    3,
			Pos:    image.Pt(100, 50),
			Size:   image.Pt(18, 20),
			PosOff: image.Pt(18, 18),
			Offset: 20,
		},
		{
			Char:   'A',
			Pos:    image.Pt(4095, 4095),
			Size:   image.Pt(1, 2),
			PosOff: image.Pt(3, 16),
			PosAdd: image.Pt(1, 255),
			Offset: 20,
		},
	}
	return f
}

func TestRecordLayout(t *testing.T) {
	rec, err := sample().Glyphs[0].Record()
	if err != nil {
		t.Fatal(err)
	}
	want := [RecordSize]byte{
		0x42, 0x30, // U+3042
		0, 0,
		3,
		0x64, 0x20, 0x03, // (100, 50)
		0x12, 0x40, 0x01, // (18, 20)
		0,
		0x12, 0x20, 0x01, // (18, 18)
		20,
		0, 0,
		0xFF, 0xFF,
	}
	if rec != want {
		t.Errorf("record:\n got % x\nwant % x", rec, want)
	}
}

func TestRoundTrip(t *testing.T) {
	src := sample()
	data, err := src.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if want := HeaderSize + len(src.Name) + 1 + 2*RecordSize; len(data) != want {
		t.Fatalf("length: got %d, want %d", len(data), want)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != src.Name {
		t.Errorf("name: got %q", got.Name)
	}
	src.Header.EntryCount = 2
	src.Header.NameLength = int32(len(src.Name))
	if got.Header != src.Header {
		t.Errorf("header:\n got %+v\nwant %+v", got.Header, src.Header)
	}
	for i := range src.Glyphs {
		if got.Glyphs[i] != src.Glyphs[i] {
			t.Errorf("glyph %d: got %+v, want %+v", i, got.Glyphs[i], src.Glyphs[i])
		}
	}

	again, err := got.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again, data) {
		t.Error("re-encode differs")
	}
}

func TestDecodeHeader(t *testing.T) {
	src := sample()
	data, err := src.Encode()
	if err != nil {
		t.Fatal(err)
	}
	f, err := DecodeHeader(data)
	if err != nil {
		t.Fatal(err)
	}
	if f.Name != src.Name || len(f.Glyphs) != 0 || f.Header.SizePx != 18 {
		t.Errorf("unexpected header decode: %+v", f)
	}
	if !bytes.Equal(f.EncodeHeader(), data[:HeaderSize+len(src.Name)+1]) {
		t.Error("EncodeHeader does not match the encoded prefix")
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Glyph)
	}{
		{"pair overflow", func(g *Glyph) { g.Pos.X = 4096 }},
		{"negative size", func(g *Glyph) { g.Size.Y = -1 }},
		{"wide char", func(g *Glyph) { g.Char = 0x1F600 }},
		{"offset", func(g *Glyph) { g.Offset = 256 }},
		{"page count", func(g *Glyph) { g.Tex = 4 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := sample()
			tt.mutate(&f.Glyphs[0])
			if _, err := f.Encode(); !errors.Is(err, binfmt.ErrRange) {
				t.Errorf("got %v, want ErrRange", err)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	good, err := sample().Encode()
	if err != nil {
		t.Fatal(err)
	}
	badCount := append([]byte(nil), good...)
	badCount[28] = 3 // entry_count

	badName := append([]byte(nil), good...)
	badName[HeaderSize+len("font00_jpn")] = 'x'

	badPage := append([]byte(nil), good...)
	badPage[24] = 2 // bitmap_count below the page of glyph 0

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short header", good[:63], binfmt.ErrFormat},
		{"bad magic", append([]byte("GMD\x00"), good[4:]...), binfmt.ErrFormat},
		{"unterminated name", badName, binfmt.ErrFormat},
		{"partial record", good[:len(good)-5], binfmt.ErrFormat},
		{"entry count", badCount, binfmt.ErrFormat},
		{"page index", badPage, binfmt.ErrRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCSV(t *testing.T) {
	src := sample()
	src.Glyphs = append(src.Glyphs, Glyph{Char: ',', Offset: 20}, Glyph{Char: '"', Offset: 20})

	var buf bytes.Buffer
	if err := src.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "char,tex,pos_x,pos_y,width,height,") {
		t.Errorf("header row: %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	glyphs, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(glyphs) != len(src.Glyphs) {
		t.Fatalf("rows: got %d, want %d", len(glyphs), len(src.Glyphs))
	}
	for i := range glyphs {
		if glyphs[i] != src.Glyphs[i] {
			t.Errorf("row %d: got %+v, want %+v", i, glyphs[i], src.Glyphs[i])
		}
	}

	if _, err := ReadCSV(strings.NewReader("char,tex,pos_x,pos_y,width,height,pos_off_x,pos_off_y,pos_add_x,pos_add_y,offset\nab,0,0,0,0,0,0,0,0,0,0\n")); !errors.Is(err, binfmt.ErrFormat) {
		t.Errorf("multi-char cell: got %v", err)
	}
}
