package gmd

import (
	"bytes"
	"fmt"

	"mt-loc-tools/internal/binfmt"
	"mt-loc-tools/internal/crypto"
)

var (
	crlf = []byte("\r\n")
	lf   = []byte("\n")
)

// encodeText joins the sections with NUL terminators, normalizes line
// breaks to CRLF and ciphers the blob. The last terminator becomes the
// cipher's checksum byte.
func encodeText(sections []Section) []byte {
	if len(sections) == 0 {
		return nil
	}
	var buf bytes.Buffer
	for i, sec := range sections {
		if i > 0 {
			buf.WriteByte(0)
		}
		buf.Write(sec.Text)
	}
	plain := bytes.ReplaceAll(buf.Bytes(), crlf, lf)
	plain = bytes.ReplaceAll(plain, lf, crlf)
	return crypto.EncryptText(plain)
}

// decodeText deciphers the blob and splits it into exactly count texts.
func decodeText(cipher []byte, count int) ([][]byte, error) {
	if count > 0 && len(cipher) == 0 {
		return nil, fmt.Errorf("gmd: empty text blob for %d sections: %w", count, binfmt.ErrFormat)
	}
	plain, err := crypto.DecryptText(cipher)
	if err != nil {
		return nil, fmt.Errorf("gmd: text blob: %w", err)
	}
	if count == 0 {
		if len(plain) != 0 {
			return nil, fmt.Errorf("gmd: %d text bytes but no sections: %w", len(plain), binfmt.ErrFormat)
		}
		return nil, nil
	}
	parts := bytes.Split(plain, []byte{0})
	if len(parts) != count {
		return nil, fmt.Errorf("gmd: text blob holds %d sections, header declares %d: %w",
			len(parts), count, binfmt.ErrFormat)
	}
	for i, p := range parts {
		parts[i] = append([]byte(nil), p...)
	}
	return parts, nil
}
