package texture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// pageName matches atlas page files: the TEX itself or an image decoded
// from it, e.g. font00_jpn_01_AM_NOMIP.tex or font00_jpn_01_AM_NOMIP.tex.00.png.
var pageName = regexp.MustCompile(`(?i)^(.+)_(\d+)_AM_NOMIP\.tex(?:\.\d+)?(\.png|\.tga|\.webp)?$`)

// ErrPageNotFound reports a page number with no file in the index.
var ErrPageNotFound = errors.New("page not found")

// PageName returns the TEX file name of page n of a font.
func PageName(base string, n int) string {
	return fmt.Sprintf("%s_%02d_AM_NOMIP.tex", base, n)
}

// Index maps the atlas page numbers of one font to filesystem paths.
// A TEX file takes priority over an image decoded from it.
type Index struct {
	entries map[int]string // page → full path
}

// BuildIndex scans dir (not recursively) for pages of the font base.
func BuildIndex(dir, base string) (*Index, error) {
	idx := &Index{entries: make(map[int]string)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("texture: scan %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := pageName.FindStringSubmatch(e.Name())
		if m == nil || !strings.EqualFold(m[1], base) {
			continue
		}
		page, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		path := filepath.Join(dir, e.Name())
		isTex := m[3] == ""

		existing, exists := idx.entries[page]
		if !exists {
			idx.entries[page] = path
		} else if isTex && !strings.EqualFold(filepath.Ext(existing), ".tex") {
			// TEX wins over a decoded image
			idx.entries[page] = path
		}
	}
	return idx, nil
}

// ResolvePath returns the filesystem path for a page, or ("", false).
func (idx *Index) ResolvePath(page int) (string, bool) {
	path, ok := idx.entries[page]
	return path, ok
}

// Len returns the number of indexed pages.
func (idx *Index) Len() int {
	return len(idx.entries)
}
