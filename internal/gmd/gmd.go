// Package gmd reads and writes GMD script containers.
//
// A script is a list of text sections addressed by id. Named sections
// also get a label record indexed by a 256-bucket CRC hash table that
// the game walks to find a section by name.
package gmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"mt-loc-tools/internal/binfmt"
)

const (
	HeaderSize  = 40
	LabelSize   = 20
	BucketCount = 256

	// UnnamedPrefix marks sections that carry no label.
	UnnamedPrefix = "no_name_"
)

var (
	Magic = [4]byte{'G', 'M', 'D', 0}

	// DefaultVersion is written for scripts created from scratch.
	DefaultVersion = [4]byte{0x02, 0x03, 0x01, 0x00}
)

// Header is the fixed 40-byte script header.
type Header struct {
	Magic        [4]byte
	Version      [4]byte
	Language     int32
	Padding      int64
	LabelCount   int32
	SectionCount int32
	LabelSize    int32
	SectionSize  int32
	NameSize     int32
}

// Section is one text entry. ID is its position in the script.
type Section struct {
	ID   int
	Name string
	Text []byte
}

// Unnamed reports whether the section gets no label.
func (s Section) Unnamed() bool {
	return s.Name == "" || strings.HasPrefix(s.Name, UnnamedPrefix)
}

// Label is one entry of the name index.
type Label struct {
	SectionID   int32
	Hash1       uint32
	Hash2       uint32
	LabelOffset int32
	ListLink    int32

	// Name is resolved from the label blob; it is not stored in the record.
	Name string
}

// Script is a decoded or in-construction GMD container.
type Script struct {
	Header   Header
	Name     string
	Sections []Section
	Labels   []Label
	Buckets  [BucketCount]int32

	labelBlob []byte
	hash      HashFunc
}

// Option configures a Script.
type Option func(*Script)

// WithHash replaces the CRC used for label hashes and bucket selection.
func WithHash(h HashFunc) Option {
	return func(s *Script) { s.hash = h }
}

// New creates an empty script.
func New(name string, opts ...Option) *Script {
	s := &Script{
		Header: Header{Magic: Magic, Version: DefaultVersion},
		Name:   name,
		hash:   CRC32,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddSection appends a section and, if it is named, indexes its label.
// The section id must equal its position.
func (s *Script) AddSection(sec Section) error {
	if sec.ID != len(s.Sections) {
		return fmt.Errorf("gmd: section id %d added at position %d: %w", sec.ID, len(s.Sections), binfmt.ErrRange)
	}
	if bytes.IndexByte(sec.Text, 0) >= 0 {
		return fmt.Errorf("gmd: section %d text contains NUL: %w", sec.ID, binfmt.ErrRange)
	}
	if strings.IndexByte(sec.Name, 0) >= 0 {
		return fmt.Errorf("gmd: section %d name contains NUL: %w", sec.ID, binfmt.ErrRange)
	}
	s.Sections = append(s.Sections, sec)
	if sec.Unnamed() {
		return nil
	}
	s.index(sec)
	return nil
}

// Encode serializes the script. Header counts and sizes are derived from
// the current content; version, language and padding pass through.
func (s *Script) Encode() ([]byte, error) {
	text := encodeText(s.Sections)

	var labelBlob []byte
	if len(s.Labels) > 0 {
		labelBlob = s.labelBlob
	}

	h := s.Header
	h.Magic = Magic
	h.LabelCount = int32(len(s.Labels))
	h.SectionCount = int32(len(s.Sections))
	h.LabelSize = int32(len(labelBlob))
	h.SectionSize = int32(len(text))
	h.NameSize = int32(len(s.Name))

	size := HeaderSize + len(s.Name) + 1 + LabelSize*len(s.Labels) + len(labelBlob) + len(text)
	if len(s.Labels) > 0 {
		size += 4 * BucketCount
	}
	w := binfmt.NewWriter(size)
	w.Raw(h.Magic[:])
	w.Raw(h.Version[:])
	w.I32(h.Language)
	w.I64(h.Padding)
	w.I32(h.LabelCount)
	w.I32(h.SectionCount)
	w.I32(h.LabelSize)
	w.I32(h.SectionSize)
	w.I32(h.NameSize)
	w.CString(s.Name)

	for _, l := range s.Labels {
		w.I32(l.SectionID)
		w.U32(l.Hash1)
		w.U32(l.Hash2)
		w.I32(l.LabelOffset)
		w.I32(l.ListLink)
	}
	if len(s.Labels) > 0 {
		for _, b := range s.Buckets {
			w.I32(b)
		}
		w.Raw(labelBlob)
	}
	w.Raw(text)
	return w.Bytes(), nil
}

// Write encodes the script to w.
func (s *Script) Write(w io.Writer) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Decode parses a GMD container.
func Decode(data []byte, opts ...Option) (*Script, error) {
	s := New("", opts...)
	r := binfmt.NewReader(data)

	h := &s.Header
	r.Array(h.Magic[:], "magic")
	r.Array(h.Version[:], "version")
	h.Language = r.I32("language")
	h.Padding = r.I64("padding")
	h.LabelCount = r.I32("label count")
	h.SectionCount = r.I32("section count")
	h.LabelSize = r.I32("label size")
	h.SectionSize = r.I32("section size")
	h.NameSize = r.I32("name size")
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("gmd: header: %w", err)
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("gmd: bad magic %q: %w", h.Magic[:], binfmt.ErrFormat)
	}
	if h.LabelCount < 0 || h.SectionCount < 0 || h.LabelSize < 0 || h.SectionSize < 0 || h.NameSize < 0 {
		return nil, fmt.Errorf("gmd: negative size in header: %w", binfmt.ErrFormat)
	}
	if h.LabelCount == 0 && h.LabelSize != 0 {
		return nil, fmt.Errorf("gmd: %d-byte label blob without labels: %w", h.LabelSize, binfmt.ErrFormat)
	}

	s.Name = r.CString(int(h.NameSize), "name")
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("gmd: %w", err)
	}
	need := int64(h.LabelCount)*LabelSize + int64(h.LabelSize) + int64(h.SectionSize)
	if h.LabelCount > 0 {
		need += 4 * BucketCount
	}
	if need > int64(r.Len()) {
		return nil, fmt.Errorf("gmd: header declares %d bytes after the name, %d present: %w", need, r.Len(), binfmt.ErrFormat)
	}

	labels := make([]Label, 0, h.LabelCount)
	for i := 0; i < int(h.LabelCount) && r.Err() == nil; i++ {
		labels = append(labels, Label{
			SectionID:   r.I32("label section id"),
			Hash1:       r.U32("label hash1"),
			Hash2:       r.U32("label hash2"),
			LabelOffset: r.I32("label offset"),
			ListLink:    r.I32("label list link"),
		})
	}
	if h.LabelCount > 0 {
		for i := range s.Buckets {
			s.Buckets[i] = r.I32("bucket table")
		}
	}
	labelBlob := r.Bytes(int(h.LabelSize), "label blob")
	cipher := r.Bytes(int(h.SectionSize), "text blob")
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("gmd: %w", err)
	}

	for i := range labels {
		name, err := binfmt.CStringAt(labelBlob, int(labels[i].LabelOffset))
		if err != nil {
			return nil, fmt.Errorf("gmd: label %d: %w", i, err)
		}
		labels[i].Name = name
	}

	texts, err := decodeText(cipher, int(h.SectionCount))
	if err != nil {
		return nil, err
	}

	names := make(map[int32]string, len(labels))
	for _, l := range labels {
		names[l.SectionID] = l.Name
	}
	unnamed := 0
	s.Sections = make([]Section, len(texts))
	for i, t := range texts {
		name, ok := names[int32(i)]
		if !ok {
			name = fmt.Sprintf("%s%d", UnnamedPrefix, unnamed)
			unnamed++
		}
		s.Sections[i] = Section{ID: i, Name: name, Text: t}
	}
	s.Labels = labels
	s.labelBlob = append([]byte(nil), labelBlob...)
	return s, nil
}

// Read decodes a GMD container from r.
func Read(r io.Reader, opts ...Option) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gmd: read: %w", err)
	}
	return Decode(data, opts...)
}

// ReadFile decodes the GMD container at path.
func ReadFile(path string, opts ...Option) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gmd: read %s: %w", path, err)
	}
	s, err := Decode(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
