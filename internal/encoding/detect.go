// Package encoding decodes legacy report exports to UTF-8. The delimited
// exports this service ingests predate modern encoding conventions and
// usually arrive as ISO-8859-1 / Windows-1252 text.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// NewUTF8Reader detects the encoding of a legacy export and returns a reader
// that decodes it to UTF-8.
//
// Detection order:
//  1. A UTF-8 BOM is stripped and the rest passed through
//  2. Valid UTF-8 passes through unchanged
//  3. Heuristic detection via chardet for the known legacy charsets
//  4. Fallback to Windows-1252, the encoding of the oldest source system
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	if utf8.Valid(buf) {
		return br, nil
	}

	detector := chardet.NewTextDetector()

	result, detectErr := detector.DetectBest(buf)
	if detectErr == nil {
		switch result.Charset {
		case "UTF-8":
			return br, nil
		case "ISO-8859-1":
			return transform.NewReader(br, charmap.ISO8859_1.NewDecoder()), nil
		case "windows-1252":
			return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}
