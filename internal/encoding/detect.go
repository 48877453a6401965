// Package encoding normalises statement files to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

// Charset names reported by Detect.
const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO8859_9   = "ISO-8859-9"
	ISO8859_15  = "ISO-8859-15"
)

var boms = []struct {
	prefix  []byte
	charset string
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

// decoders maps a charset to its decoder; UTF-8 needs none.
var decoders = map[string]xenc.Encoding{
	UTF16LE:      unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	UTF16BE:      unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	Windows1252:  charmap.Windows1252,
	"ISO-8859-1": charmap.Windows1252,
	ISO8859_9:    charmap.ISO8859_9,
	ISO8859_15:   charmap.ISO8859_15,
}

// Detect names the charset of a file from its first bytes. The order is BOM,
// UTF-8 validity, chardet's best guess, then windows-1252. It also reports
// whether a UTF-8 BOM must be skipped.
func Detect(head []byte, complete bool) (charset string, skipBOM bool) {
	for _, bom := range boms {
		if bytes.HasPrefix(head, bom.prefix) {
			return bom.charset, bom.charset == UTF8
		}
	}

	if !complete {
		head = trimPartialRune(head)
	}

	if utf8.Valid(head) {
		return UTF8, false
	}

	if result, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		if _, ok := decoders[result.Charset]; ok || result.Charset == UTF8 {
			return result.Charset, false
		}
	}

	return Windows1252, false
}

// NewUTF8Reader returns a reader that yields r's content as UTF-8.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	charset, skipBOM := Detect(head, err == io.EOF)
	slog.Debug("detected statement encoding", "charset", charset)

	if skipBOM {
		_, _ = br.Discard(3)
	}

	dec, ok := decoders[charset]
	if !ok {
		return br, nil
	}

	return transform.NewReader(br, dec.NewDecoder()), nil
}

// trimPartialRune drops a multi-byte sequence cut off by the sniff window.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if utf8.RuneStart(c) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}

			break
		}
	}

	return b
}
