package gmd

import (
	"fmt"
	"hash/crc32"
	"strings"
)

// HashFunc is the 32-bit hash behind label lookup.
type HashFunc func([]byte) uint32

// CRC32 is the default label hash.
func CRC32(p []byte) uint32 { return crc32.ChecksumIEEE(p) }

// LabelHashes returns the two hashes stored in a label record and the
// bucket the label is filed under.
func LabelHashes(h HashFunc, name string) (hash1, hash2 uint32, bucket int) {
	hash1 = ^h([]byte(strings.Repeat(name, 2)))
	hash2 = ^h([]byte(strings.Repeat(name, 3)))
	bucket = int(^h([]byte(name)) & 0xFF)
	return hash1, hash2, bucket
}

// index appends a label for sec and files it in the bucket table.
//
// The bucket table and list links hold label indices, except that the
// first label is recorded as -1. A bucket reads as occupied only when
// positive, so -1 and 0 are both overwritten. On a collision the label
// stored in the bucket has its link replaced by the newcomer.
func (s *Script) index(sec Section) {
	hash1, hash2, bucket := LabelHashes(s.hash, sec.Name)

	counter := int32(len(s.Labels))
	if counter == 0 {
		counter = -1
	}
	s.Labels = append(s.Labels, Label{
		SectionID:   int32(sec.ID),
		Hash1:       hash1,
		Hash2:       hash2,
		LabelOffset: int32(len(s.labelBlob)),
		Name:        sec.Name,
	})
	s.labelBlob = append(s.labelBlob, sec.Name...)
	s.labelBlob = append(s.labelBlob, 0)

	if head := s.Buckets[bucket]; head > 0 && int(head) < len(s.Labels) {
		s.Labels[head].ListLink = counter
	} else {
		s.Buckets[bucket] = counter
	}
}

// Lookup finds the label for name by walking its bucket chain.
func (s *Script) Lookup(name string) (Label, bool) {
	hash1, hash2, bucket := LabelHashes(s.hash, name)

	idx := s.Buckets[bucket]
	if idx == 0 {
		return Label{}, false
	}
	if idx < 0 {
		idx = 0
	}
	for steps := 0; steps < len(s.Labels); steps++ {
		if int(idx) >= len(s.Labels) {
			return Label{}, false
		}
		l := s.Labels[idx]
		if l.Hash1 == hash1 && l.Hash2 == hash2 {
			return l, true
		}
		if l.ListLink <= 0 {
			break
		}
		idx = l.ListLink
	}
	return Label{}, false
}

// Mismatch describes a label whose stored hash differs from the one
// recomputed from its name.
type Mismatch struct {
	Label int
	Name  string
	Field string
	Got   uint32
	Want  uint32
}

func (m Mismatch) String() string {
	return fmt.Sprintf("label %d %q: %s stored %#08x, computed %#08x", m.Label, m.Name, m.Field, m.Got, m.Want)
}

// Verify recomputes both hashes of every label. An empty result means
// the configured hash matches the one the file was built with.
func (s *Script) Verify() []Mismatch {
	var out []Mismatch
	for i, l := range s.Labels {
		hash1, hash2, _ := LabelHashes(s.hash, l.Name)
		if l.Hash1 != hash1 {
			out = append(out, Mismatch{Label: i, Name: l.Name, Field: "hash1", Got: l.Hash1, Want: hash1})
		}
		if l.Hash2 != hash2 {
			out = append(out, Mismatch{Label: i, Name: l.Name, Field: "hash2", Got: l.Hash2, Want: hash2})
		}
	}
	return out
}
