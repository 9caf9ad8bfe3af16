// Package gfd reads and writes GFD glyph atlas descriptors: a header
// naming the font followed by one 20-byte record per glyph locating it
// on an atlas page.
package gfd

import (
	"fmt"
	"image"
	"io"
	"os"

	"mt-loc-tools/internal/binfmt"
	"mt-loc-tools/internal/bitfield"
)

const (
	HeaderSize = 64
	RecordSize = 20

	// MaxChar is the largest character code a record can hold.
	MaxChar = 0xFFFF
)

var Magic = [4]byte{'G', 'F', 'D', 0}

// Header is the fixed 64-byte descriptor header. Reserved bytes pass
// through unchanged.
type Header struct {
	Magic       [4]byte
	Version     [4]byte
	Reserved1   [12]byte
	SizePx      int32
	BitmapCount int32
	EntryCount  int32
	Reserved2   [28]byte
	NameLength  int32
}

// Glyph locates one character on an atlas page.
type Glyph struct {
	Char   rune
	Tex    int
	Pos    image.Point
	Size   image.Point
	PosOff image.Point
	PosAdd image.Point
	Offset int
}

// Font is a decoded descriptor.
type Font struct {
	Header Header
	Name   string
	Glyphs []Glyph
}

// DecodeHeader parses the header and font name, ignoring any glyph
// records that follow.
func DecodeHeader(data []byte) (*Font, error) {
	r := binfmt.NewReader(data)
	f, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func readHeader(r *binfmt.Reader) (*Font, error) {
	f := &Font{}
	h := &f.Header
	r.Array(h.Magic[:], "magic")
	r.Array(h.Version[:], "version")
	r.Array(h.Reserved1[:], "reserved")
	h.SizePx = r.I32("size")
	h.BitmapCount = r.I32("bitmap count")
	h.EntryCount = r.I32("entry count")
	r.Array(h.Reserved2[:], "reserved")
	h.NameLength = r.I32("name length")
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("gfd: header: %w", err)
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("gfd: bad magic %q: %w", h.Magic[:], binfmt.ErrFormat)
	}
	if h.NameLength < 0 || h.EntryCount < 0 || h.BitmapCount < 0 {
		return nil, fmt.Errorf("gfd: negative count in header: %w", binfmt.ErrFormat)
	}
	f.Name = r.CString(int(h.NameLength), "name")
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("gfd: %w", err)
	}
	return f, nil
}

// Decode parses a full descriptor. The glyph table runs to the end of
// data and must hold exactly EntryCount records.
func Decode(data []byte) (*Font, error) {
	r := binfmt.NewReader(data)
	f, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if r.Len()%RecordSize != 0 {
		return nil, fmt.Errorf("gfd: %d-byte glyph table is not a multiple of %d: %w", r.Len(), RecordSize, binfmt.ErrFormat)
	}
	if n := r.Len() / RecordSize; n != int(f.Header.EntryCount) {
		return nil, fmt.Errorf("gfd: %d glyph records, header declares %d: %w", n, f.Header.EntryCount, binfmt.ErrFormat)
	}

	f.Glyphs = make([]Glyph, 0, f.Header.EntryCount)
	for i := 0; i < int(f.Header.EntryCount); i++ {
		g := readGlyph(r)
		if g.Tex >= int(f.Header.BitmapCount) {
			return nil, fmt.Errorf("gfd: glyph %d on page %d of %d: %w", i, g.Tex, f.Header.BitmapCount, binfmt.ErrRange)
		}
		f.Glyphs = append(f.Glyphs, g)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("gfd: %w", err)
	}
	return f, nil
}

func readPair(r *binfmt.Reader, what string) image.Point {
	var b [3]byte
	r.Array(b[:], what)
	lo, hi := bitfield.SplitPair12(b)
	return image.Pt(int(lo), int(hi))
}

func readGlyph(r *binfmt.Reader) Glyph {
	var g Glyph
	g.Char = rune(r.U16("char"))
	r.Skip(2, "reserved")
	g.Tex = int(r.U8("page"))
	g.Pos = readPair(r, "position")
	g.Size = readPair(r, "size")
	r.Skip(1, "reserved")
	g.PosOff = readPair(r, "position offset")
	g.Offset = int(r.U8("offset"))
	g.PosAdd.X = int(r.U8("position adjust x"))
	g.PosAdd.Y = int(r.U8("position adjust y"))
	r.Skip(2, "marker")
	return g
}

// Read decodes a descriptor from r.
func Read(r io.Reader) (*Font, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gfd: read: %w", err)
	}
	return Decode(data)
}

// ReadFile decodes the descriptor at path.
func ReadFile(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gfd: read %s: %w", path, err)
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// EncodeHeader serializes the header and name. NameLength is taken from
// the name.
func (f *Font) EncodeHeader() []byte {
	w := binfmt.NewWriter(HeaderSize + len(f.Name) + 1)
	f.writeHeader(w, f.Header.EntryCount)
	return w.Bytes()
}

func (f *Font) writeHeader(w *binfmt.Writer, entries int32) {
	h := f.Header
	w.Raw(Magic[:])
	w.Raw(h.Version[:])
	w.Raw(h.Reserved1[:])
	w.I32(h.SizePx)
	w.I32(h.BitmapCount)
	w.I32(entries)
	w.Raw(h.Reserved2[:])
	w.I32(int32(len(f.Name)))
	w.CString(f.Name)
}

// Encode validates every glyph and serializes the descriptor. The entry
// count written is the number of glyphs.
func (f *Font) Encode() ([]byte, error) {
	records := make([][RecordSize]byte, len(f.Glyphs))
	for i, g := range f.Glyphs {
		if g.Tex >= int(f.Header.BitmapCount) {
			return nil, fmt.Errorf("gfd: glyph %d on page %d of %d: %w", i, g.Tex, f.Header.BitmapCount, binfmt.ErrRange)
		}
		rec, err := g.Record()
		if err != nil {
			return nil, fmt.Errorf("gfd: glyph %d: %w", i, err)
		}
		records[i] = rec
	}

	w := binfmt.NewWriter(HeaderSize + len(f.Name) + 1 + RecordSize*len(records))
	f.writeHeader(w, int32(len(records)))
	for i := range records {
		w.Raw(records[i][:])
	}
	return w.Bytes(), nil
}

// Write encodes f to w.
func (f *Font) Write(w io.Writer) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func byteField(v int, what string) (byte, error) {
	if v < 0 || v > 0xFF {
		return 0, fmt.Errorf("%s %d does not fit a byte: %w", what, v, binfmt.ErrRange)
	}
	return byte(v), nil
}

func pairField(p image.Point, what string) ([3]byte, error) {
	if p.X < 0 || p.Y < 0 {
		return [3]byte{}, fmt.Errorf("%s %v is negative: %w", what, p, binfmt.ErrRange)
	}
	b, err := bitfield.Pair12(uint32(p.X), uint32(p.Y))
	if err != nil {
		return b, fmt.Errorf("%s: %w", what, err)
	}
	return b, nil
}

// Record packs the glyph into its 20-byte form.
func (g Glyph) Record() ([RecordSize]byte, error) {
	var rec [RecordSize]byte
	if g.Char < 0 || g.Char > MaxChar {
		return rec, fmt.Errorf("char %U outside the 16-bit range: %w", g.Char, binfmt.ErrRange)
	}

	tex, err := byteField(g.Tex, "page")
	if err != nil {
		return rec, err
	}
	offset, err := byteField(g.Offset, "offset")
	if err != nil {
		return rec, err
	}
	addX, err := byteField(g.PosAdd.X, "position adjust x")
	if err != nil {
		return rec, err
	}
	addY, err := byteField(g.PosAdd.Y, "position adjust y")
	if err != nil {
		return rec, err
	}
	pos, err := pairField(g.Pos, "position")
	if err != nil {
		return rec, err
	}
	size, err := pairField(g.Size, "size")
	if err != nil {
		return rec, err
	}
	posOff, err := pairField(g.PosOff, "position offset")
	if err != nil {
		return rec, err
	}

	rec[0] = byte(g.Char)
	rec[1] = byte(g.Char >> 8)
	rec[4] = tex
	copy(rec[5:8], pos[:])
	copy(rec[8:11], size[:])
	copy(rec[12:15], posOff[:])
	rec[15] = offset
	rec[16] = addX
	rec[17] = addY
	rec[18] = 0xFF
	rec[19] = 0xFF
	return rec, nil
}

// Rect returns the glyph's ink box on its page.
func (g Glyph) Rect() image.Rectangle {
	return image.Rectangle{Min: g.Pos, Max: g.Pos.Add(g.Size)}
}
