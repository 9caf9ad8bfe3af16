// Package charset builds the sorted character lists that drive glyph
// atlas generation.
package charset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Excluded characters never get a glyph.
var Excluded = []rune{'\n'}

// Set collects distinct characters.
type Set map[rune]struct{}

// AddText adds every character of UTF-8 text.
func (s Set) AddText(text []byte) error {
	if !utf8.Valid(text) {
		return errors.New("charset: text is not valid UTF-8")
	}
	for _, r := range string(text) {
		s[r] = struct{}{}
	}
	return nil
}

// Add adds characters.
func (s Set) Add(rs ...rune) {
	for _, r := range rs {
		s[r] = struct{}{}
	}
}

// List returns the characters in ascending order without Excluded.
func (s Set) List() []rune {
	out := make([]rune, 0, len(s))
	for r := range s {
		if !slices.Contains(Excluded, r) {
			out = append(out, r)
		}
	}
	slices.Sort(out)
	return out
}

// Normalize strips a byte order mark, converting UTF-16 text that
// carries one to UTF-8. Text without a BOM is returned unchanged.
func Normalize(text []byte) ([]byte, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), text)
	if err != nil {
		return nil, fmt.Errorf("charset: %w", err)
	}
	return out, nil
}

// Count collects the characters of every .txt file under dir. Files
// whose path contains one of skip are ignored.
func Count(dir string, skip []string) ([]rune, error) {
	set := Set{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}
		for _, s := range skip {
			if s != "" && strings.Contains(path, s) {
				return nil
			}
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		text, err := Normalize(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := set.AddText(text); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("charset: count %s: %w", dir, err)
	}
	return set.List(), nil
}

// FromCSV collects the first character of the "char" column of every
// row, as written by a glyph map dump.
func FromCSV(r io.Reader) ([]rune, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("charset: csv header: %w", err)
	}
	col := slices.Index(header, "char")
	if col < 0 {
		return nil, errors.New("charset: csv has no char column")
	}

	set := Set{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("charset: csv: %w", err)
		}
		r, size := utf8.DecodeRuneInString(row[col])
		if size == 0 || r == utf8.RuneError {
			return nil, fmt.Errorf("charset: csv line %d: bad char %q", line, row[col])
		}
		set.Add(r)
	}
	return set.List(), nil
}

// Merge unions character lists.
func Merge(lists ...[]rune) []rune {
	set := Set{}
	for _, l := range lists {
		set.Add(l...)
	}
	return set.List()
}

// ReadList reads a JSON array of code points.
func ReadList(path string) ([]rune, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("charset: read %s: %w", path, err)
	}
	var codes []int32
	if err := json.Unmarshal(data, &codes); err != nil {
		return nil, fmt.Errorf("charset: parse %s: %w", path, err)
	}
	out := make([]rune, len(codes))
	for i, c := range codes {
		out[i] = rune(c)
	}
	return out, nil
}

// WriteList writes list as a JSON array of code points.
func WriteList(path string, list []rune) error {
	codes := make([]int32, len(list))
	for i, r := range list {
		codes[i] = int32(r)
	}
	data, err := json.Marshal(codes)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("charset: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
