// Command inspect prints the headers and index of GMD, GFD and TEX files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"mt-loc-tools/internal/gfd"
	"mt-loc-tools/internal/gmd"
	"mt-loc-tools/internal/tex"
)

func main() {
	all := pflag.BoolP("all", "a", false, "list every section, label or glyph")
	limit := pflag.IntP("limit", "n", 10, "entries to list without --all")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: inspect [flags] <file.gmd|file.gfd|file.tex>...\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if pflag.NArg() == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	n := *limit
	if *all {
		n = -1
	}
	failed := false
	for _, path := range pflag.Args() {
		if err := inspect(path, n); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func inspect(path string, n int) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gmd":
		return inspectScript(path, n)
	case ".gfd":
		return inspectFont(path, n)
	case ".tex":
		return inspectTexture(path)
	}
	return fmt.Errorf("unknown file type")
}

func shown(total, n int) int {
	if n < 0 || n > total {
		return total
	}
	return n
}

func inspectScript(path string, n int) error {
	s, err := gmd.ReadFile(path)
	if err != nil {
		return err
	}
	h := s.Header
	fmt.Printf("%s: GMD version %x language %d name %q\n", path, h.Version, h.Language, s.Name)
	fmt.Printf("  Sections: %d, Labels: %d, label blob %d bytes, text blob %d bytes\n",
		h.SectionCount, h.LabelCount, h.LabelSize, h.SectionSize)
	for _, l := range s.Labels[:shown(len(s.Labels), n)] {
		fmt.Printf("  Label %-24q section=%d hash1=%08x hash2=%08x link=%d\n",
			l.Name, l.SectionID, l.Hash1, l.Hash2, l.ListLink)
	}
	for _, sec := range s.Sections[:shown(len(s.Sections), n)] {
		fmt.Printf("  [%d] %s: %q\n", sec.ID, sec.Name, sec.Text)
	}
	for _, m := range s.Verify() {
		fmt.Printf("  MISMATCH %s\n", m)
	}
	return nil
}

func inspectFont(path string, n int) error {
	f, err := gfd.ReadFile(path)
	if err != nil {
		return err
	}
	h := f.Header
	fmt.Printf("%s: GFD version %x name %q size %dpx\n", path, h.Version, f.Name, h.SizePx)
	fmt.Printf("  Pages: %d, Glyphs: %d\n", h.BitmapCount, len(f.Glyphs))
	for _, g := range f.Glyphs[:shown(len(f.Glyphs), n)] {
		fmt.Printf("  %U %q page=%d rect=%v pos_off=%v pos_add=%v offset=%d\n",
			g.Char, g.Char, g.Tex, g.Rect(), g.PosOff, g.PosAdd, g.Offset)
	}
	return nil
}

func inspectTexture(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	h, err := tex.DecodeHeader(data)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", path, h)
	fmt.Printf("  Payload: %d bytes\n", len(data)-tex.HeaderSize)
	return nil
}
