package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"

	"mt-loc-tools/internal/tex"
)

// Format names an image file format.
type Format string

const (
	PNG  Format = "png"
	TGA  Format = "tga"
	WebP Format = "webp"
	TEX  Format = "tex"
)

// ParseFormat validates a format name from configuration or flags.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case PNG, TGA, WebP, TEX:
		return f, nil
	}
	return "", fmt.Errorf("texture: unknown image format %q", s)
}

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// Load reads a PNG, TGA, WebP or TEX file and returns an NRGBA image.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}

	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if f == TEX {
		t, err := tex.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("texture: %s: %w", path, err)
		}
		return t.Image(), nil
	}

	img, err := Decode(bytes.NewReader(raw), f)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return img, nil
}

// Decode reads an image in format f. Formats are dispatched explicitly
// rather than sniffed, since TGA has no magic number.
func Decode(r io.Reader, f Format) (*image.NRGBA, error) {
	var (
		img image.Image
		err error
	)
	switch f {
	case PNG:
		img, err = png.Decode(r)
	case TGA:
		img, err = tga.Decode(r)
	case WebP:
		img, err = nativewebp.Decode(r)
	case TEX:
		var t *tex.Texture
		if t, err = tex.Read(r); err == nil {
			return t.Image(), nil
		}
	default:
		err = fmt.Errorf("texture: unknown image format %q", f)
	}
	if err != nil {
		return nil, err
	}
	return toNRGBA(img), nil
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case TGA:
		return tga.Encode(w, img)
	case WebP:
		return nativewebp.Encode(w, img, nil)
	case TEX:
		t, err := tex.FromImage(img)
		if err != nil {
			return err
		}
		return t.Write(w)
	}
	return fmt.Errorf("texture: unknown image format %q", f)
}

// Save writes img to path, creating parent directories.
func Save(path string, img image.Image, f Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("texture: %w", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return fmt.Errorf("texture: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("texture: write %s: %w", path, err)
	}
	return nil
}

// toNRGBA converts any image to NRGBA format with its origin at (0,0).
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
