package gfd

import (
	"encoding/csv"
	"fmt"
	"image"
	"io"
	"strconv"
	"unicode/utf8"

	"mt-loc-tools/internal/binfmt"
)

// CSVHeader lists the glyph map columns.
var CSVHeader = []string{
	"char", "tex", "pos_x", "pos_y", "width", "height",
	"pos_off_x", "pos_off_y", "pos_add_x", "pos_add_y", "offset",
}

// WriteCSV writes one row per glyph, the character itself in the first
// column.
func (f *Font) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, g := range f.Glyphs {
		row := []string{string(g.Char)}
		for _, v := range []int{
			g.Tex, g.Pos.X, g.Pos.Y, g.Size.X, g.Size.Y,
			g.PosOff.X, g.PosOff.Y, g.PosAdd.X, g.PosAdd.Y, g.Offset,
		} {
			row = append(row, strconv.Itoa(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a glyph map written by WriteCSV.
func ReadCSV(r io.Reader) ([]Glyph, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("gfd: csv: %v: %w", err, binfmt.ErrFormat)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("gfd: csv: missing header row: %w", binfmt.ErrFormat)
	}

	glyphs := make([]Glyph, 0, len(rows)-1)
	for line, row := range rows[1:] {
		ch, size := utf8.DecodeRuneInString(row[0])
		if ch == utf8.RuneError || size != len(row[0]) {
			return nil, fmt.Errorf("gfd: csv row %d: char %q is not a single character: %w", line+2, row[0], binfmt.ErrFormat)
		}
		var v [10]int
		for i := range v {
			n, err := strconv.Atoi(row[i+1])
			if err != nil {
				return nil, fmt.Errorf("gfd: csv row %d column %s: %v: %w", line+2, CSVHeader[i+1], err, binfmt.ErrFormat)
			}
			v[i] = n
		}
		glyphs = append(glyphs, Glyph{
			Char:   ch,
			Tex:    v[0],
			Pos:    image.Pt(v[1], v[2]),
			Size:   image.Pt(v[3], v[4]),
			PosOff: image.Pt(v[5], v[6]),
			PosAdd: image.Pt(v[7], v[8]),
			Offset: v[9],
		})
	}
	return glyphs, nil
}
