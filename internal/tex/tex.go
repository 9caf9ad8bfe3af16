// Package tex reads and writes MT Framework 3DS TEX containers holding a
// single-mip LA4 alpha texture.
//
// Layout (little-endian):
//
//	[0:4]   magic "TEX\0"
//	[4:8]   version:12 unused:12 reservedA:4 alphaFlags:4
//	[8:12]  mapCount:6 width:13 height:13
//	[12:16] reservedB:8 format:8 reservedC:16
//	[16:]   mapCount uint32 mip sizes, then the swizzled LA4 payload
package tex

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"mt-loc-tools/internal/binfmt"
	"mt-loc-tools/internal/bitfield"
	"mt-loc-tools/internal/pixel"
	"mt-loc-tools/internal/swizzle"
)

const (
	HeaderSize = 16

	// FormatLA4 is the only pixel format understood.
	FormatLA4 = 14
	// Version3DS is the only container revision understood.
	Version3DS = 0xA6
)

// Magic identifies a TEX container.
var Magic = [4]byte{'T', 'E', 'X', 0}

var (
	word1Widths = []uint{12, 12, 4, 4}
	word2Widths = []uint{6, 13, 13}
	word3Widths = []uint{8, 8, 16}
)

// Header is the decoded 16-byte TEX header. Unknown fields are kept so a
// decoded header writes back unchanged.
type Header struct {
	Magic      [4]byte
	Version    uint32
	Unused     uint32
	ReservedA  uint32
	AlphaFlags uint32
	MapCount   uint32
	Width      uint32
	Height     uint32
	ReservedB  uint32
	Format     uint32
	ReservedC  uint32
}

func (h Header) String() string {
	return fmt.Sprintf("magic=%q version=%#x format=%d size=%dx%d maps=%d alpha_flags=%d reserved=(%d,%d,%d) unused=%d",
		h.Magic[:], h.Version, h.Format, h.Width, h.Height, h.MapCount, h.AlphaFlags,
		h.ReservedA, h.ReservedB, h.ReservedC, h.Unused)
}

// Texture is a decoded texture with pixels in raster order.
type Texture struct {
	Header Header
	Pix    []color.NRGBA
}

// New creates a texture with the header defaults used by the game's
// font pages.
func New(width, height int, pix []color.NRGBA) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("tex: size %dx%d: %w", width, height, binfmt.ErrRange)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("tex: %d pixels for %dx%d: %w", len(pix), width, height, binfmt.ErrRange)
	}
	return &Texture{
		Header: Header{
			Magic:      Magic,
			Version:    Version3DS,
			AlphaFlags: 2,
			MapCount:   1,
			Width:      uint32(width),
			Height:     uint32(height),
			ReservedB:  1,
			Format:     FormatLA4,
			ReservedC:  1,
		},
		Pix: pix,
	}, nil
}

// DecodeHeader parses the fixed header without validating format support.
func DecodeHeader(data []byte) (Header, error) {
	var h Header
	r := binfmt.NewReader(data)
	r.Array(h.Magic[:], "magic")
	w1 := r.U32("header word 1")
	w2 := r.U32("header word 2")
	w3 := r.U32("header word 3")
	if err := r.Err(); err != nil {
		return h, fmt.Errorf("tex: %w", err)
	}
	if h.Magic != Magic {
		return h, fmt.Errorf("tex: bad magic %q: %w", h.Magic[:], binfmt.ErrFormat)
	}

	f1, err := bitfield.Cut(w1, word1Widths...)
	if err != nil {
		return h, fmt.Errorf("tex: %w", err)
	}
	f2, err := bitfield.Cut(w2, word2Widths...)
	if err != nil {
		return h, fmt.Errorf("tex: %w", err)
	}
	f3, err := bitfield.Cut(w3, word3Widths...)
	if err != nil {
		return h, fmt.Errorf("tex: %w", err)
	}
	h.Version, h.Unused, h.ReservedA, h.AlphaFlags = f1[0], f1[1], f1[2], f1[3]
	h.MapCount, h.Width, h.Height = f2[0], f2[1], f2[2]
	h.ReservedB, h.Format, h.ReservedC = f3[0], f3[1], f3[2]
	return h, nil
}

// Decode parses a TEX container and unswizzles its pixels.
func Decode(data []byte) (*Texture, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	if h.Format != FormatLA4 {
		return nil, fmt.Errorf("tex: pixel format %d: %w", h.Format, binfmt.ErrUnsupported)
	}
	if h.Version != Version3DS {
		return nil, fmt.Errorf("tex: version %#x: %w", h.Version, binfmt.ErrUnsupported)
	}
	if h.MapCount != 1 {
		return nil, fmt.Errorf("tex: %d mip maps: %w", h.MapCount, binfmt.ErrUnsupported)
	}

	r := binfmt.NewReader(data[HeaderSize:])
	r.Skip(4*int(h.MapCount), "mip table")
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("tex: %w", err)
	}
	payload := r.Bytes(r.Len(), "payload")

	n := int(h.Width) * int(h.Height)
	if got := pixel.DecodedLen(len(payload)); got != n {
		return nil, fmt.Errorf("tex: payload holds %d samples, header declares %dx%d: %w",
			got, h.Width, h.Height, binfmt.ErrFormat)
	}

	m, err := swizzle.Default.Get(int(h.Width), int(h.Height))
	if err != nil {
		return nil, fmt.Errorf("tex: %w", err)
	}
	tiled := pixel.DecodeLA4(payload)
	pix := make([]color.NRGBA, n)
	for i, px := range tiled {
		pix[m.TiledToRaster[i]] = px
	}
	return &Texture{Header: h, Pix: pix}, nil
}

// Read decodes a TEX container from r.
func Read(r io.Reader) (*Texture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("tex: read: %w", err)
	}
	return Decode(data)
}

// EncodeHeader packs h into its 16-byte form.
func (h Header) Encode() ([]byte, error) {
	w1, err := bitfield.Merge(word1Widths, h.Version, h.Unused, h.ReservedA, h.AlphaFlags)
	if err != nil {
		return nil, fmt.Errorf("tex: header word 1: %w", err)
	}
	w2, err := bitfield.Merge(word2Widths, h.MapCount, h.Width, h.Height)
	if err != nil {
		return nil, fmt.Errorf("tex: header word 2: %w", err)
	}
	w3, err := bitfield.Merge(word3Widths, h.ReservedB, h.Format, h.ReservedC)
	if err != nil {
		return nil, fmt.Errorf("tex: header word 3: %w", err)
	}
	w := binfmt.NewWriter(HeaderSize)
	w.Raw(h.Magic[:])
	w.U32(w1)
	w.U32(w2)
	w.U32(w3)
	return w.Bytes(), nil
}

// Encode swizzles the pixels and serializes the container with a single
// zero mip-size word.
func (t *Texture) Encode() ([]byte, error) {
	h := t.Header
	if h.MapCount != 1 {
		return nil, fmt.Errorf("tex: %d mip maps: %w", h.MapCount, binfmt.ErrUnsupported)
	}
	n := int(h.Width) * int(h.Height)
	if len(t.Pix) != n {
		return nil, fmt.Errorf("tex: %d pixels for %dx%d: %w", len(t.Pix), h.Width, h.Height, binfmt.ErrRange)
	}
	head, err := h.Encode()
	if err != nil {
		return nil, err
	}

	m, err := swizzle.Default.Get(int(h.Width), int(h.Height))
	if err != nil {
		return nil, fmt.Errorf("tex: %w", err)
	}
	tiled := make([]color.NRGBA, n)
	for i, px := range t.Pix {
		tiled[m.RasterToTiled[i]] = px
	}
	payload, err := pixel.EncodeLA4(tiled)
	if err != nil {
		return nil, fmt.Errorf("tex: %w", err)
	}

	w := binfmt.NewWriter(HeaderSize + 4 + len(payload))
	w.Raw(head)
	w.U32(0)
	w.Raw(payload)
	return w.Bytes(), nil
}

// Write encodes t to w.
func (t *Texture) Write(w io.Writer) error {
	data, err := t.Encode()
	if err != nil {
		return err
	}
	_, err = io.Copy(w, bytes.NewReader(data))
	return err
}

// Image returns a copy of the pixels as an image.
func (t *Texture) Image() *image.NRGBA {
	w, h := int(t.Header.Width), int(t.Header.Height)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, px := range t.Pix {
		o := i * 4
		img.Pix[o+0] = px.R
		img.Pix[o+1] = px.G
		img.Pix[o+2] = px.B
		img.Pix[o+3] = px.A
	}
	return img
}

// FromImage builds a texture from the alpha channel of img.
func FromImage(img image.Image) (*Texture, error) {
	b := img.Bounds()
	pix := make([]color.NRGBA, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pix = append(pix, color.NRGBA{R: 255, G: 255, B: 255, A: c.A})
		}
	}
	return New(b.Dx(), b.Dy(), pix)
}
