// Package encoding normalizes uploaded spreadsheets to UTF-8. Count sheets
// and supplier invoices usually come out of office software in a legacy
// Windows or Latin charset.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	CharsetUTF8     = "UTF-8"
	CharsetUTF16LE  = "UTF-16LE"
	CharsetUTF16BE  = "UTF-16BE"
	CharsetFallback = "windows-1252"
)

const sniffLen = 4096

type bom struct {
	prefix  []byte
	charset string
	enc     encoding.Encoding
}

var boms = []bom{
	{prefix: []byte{0xEF, 0xBB, 0xBF}, charset: CharsetUTF8},
	{prefix: []byte{0xFF, 0xFE}, charset: CharsetUTF16LE, enc: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{prefix: []byte{0xFE, 0xFF}, charset: CharsetUTF16BE, enc: unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

// legacy maps chardet results to decoders. ISO-8859-1 is read as
// windows-1252, its superset.
var legacy = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-15":  charmap.ISO8859_15,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-2":   charmap.ISO8859_2,
	"windows-1250": charmap.Windows1250,
}

// UTF8Reader returns a reader that yields r decoded to UTF-8 along with the
// name of the charset it was read as. A byte order mark wins over content
// sniffing; content that is valid UTF-8 passes through untouched and
// everything chardet cannot place is read as windows-1252.
func UTF8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peeking input: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(buf, b.prefix) {
			continue
		}

		if b.enc == nil {
			_, _ = br.Discard(len(b.prefix))
			return br, b.charset, nil
		}

		return transform.NewReader(br, b.enc.NewDecoder()), b.charset, nil
	}

	if validUTF8(buf, len(buf) == sniffLen) {
		return br, CharsetUTF8, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if result.Charset == CharsetUTF8 {
			return br, CharsetUTF8, nil
		}

		if enc, ok := legacy[result.Charset]; ok {
			return transform.NewReader(br, enc.NewDecoder()), result.Charset, nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), CharsetFallback, nil
}

// validUTF8 tolerates a rune cut off at the end of a truncated sniff buffer.
func validUTF8(buf []byte, truncated bool) bool {
	if utf8.Valid(buf) {
		return true
	}

	if !truncated {
		return false
	}

	for cut := 1; cut < utf8.UTFMax && cut < len(buf); cut++ {
		if utf8.Valid(buf[:len(buf)-cut]) {
			return true
		}
	}

	return false
}
