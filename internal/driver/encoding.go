package driver

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// codingRE matches the source-encoding declaration comment allowed on the
// first two lines of a file.
var codingRE = regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*([-_.a-zA-Z0-9]+)`)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileEncoding describes how a file's bytes map to text, so the fixed text
// can be written back in the same representation.
type FileEncoding struct {
	Name string // declared codec name, "utf-8" when absent
	BOM  bool   // file opened with a UTF-8 byte order mark
}

// DetectEncoding inspects the BOM and the declaration comment on the first
// two lines.
func DetectEncoding(data []byte) FileEncoding {
	if bytes.HasPrefix(data, utf8BOM) {
		return FileEncoding{Name: "utf-8", BOM: true}
	}
	rest := data
	for range 2 {
		line := rest
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line = rest[:i]
			rest = rest[i+1:]
		} else {
			rest = nil
		}
		if m := codingRE.FindSubmatch(line); m != nil {
			return FileEncoding{Name: string(m[1])}
		}
		if len(rest) == 0 {
			break
		}
	}
	return FileEncoding{Name: "utf-8"}
}

// Decode converts file bytes to text according to the detected encoding.
// An unknown codec or undecodable content falls back to latin-1, which
// accepts any byte sequence, so Decode cannot fail.
func Decode(data []byte) (string, FileEncoding) {
	fe := DetectEncoding(data)
	body := data
	if fe.BOM {
		body = data[len(utf8BOM):]
	}
	if text, ok := decodeWith(body, fe); ok {
		return text, fe
	}
	fe = FileEncoding{Name: "latin-1", BOM: fe.BOM}
	text, _ := decodeWith(body, fe)
	return text, fe
}

func decodeWith(body []byte, fe FileEncoding) (string, bool) {
	enc, err := fe.lookup()
	if err != nil {
		return "", false
	}
	if enc == nil {
		if !utf8.Valid(body) {
			return "", false
		}
		return string(body), true
	}
	text, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", false
	}
	return string(text), true
}

// Encode converts text back to the file's byte representation, restoring the
// BOM when the original carried one.
func (fe FileEncoding) Encode(text string) ([]byte, error) {
	enc, err := fe.lookup()
	if err != nil {
		return nil, err
	}
	var body []byte
	if enc == nil {
		body = []byte(text)
	} else {
		body, err = enc.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("encode as %s: %w", fe.Name, err)
		}
	}
	if fe.BOM {
		return append(append(make([]byte, 0, len(utf8BOM)+len(body)), utf8BOM...), body...), nil
	}
	return body, nil
}

// lookup resolves the declared codec name. UTF-8 and ASCII need no
// transformation; everything else goes through the IANA registry.
func (fe FileEncoding) lookup() (encoding.Encoding, error) {
	name := strings.ToLower(strings.ReplaceAll(fe.Name, "_", "-"))
	switch name {
	case "", "utf-8", "utf8", "ascii", "us-ascii":
		return nil, nil
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1":
		// Common interpreter spellings the IANA registry does not list.
		return charmap.ISO8859_1, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported source encoding %q", fe.Name)
	}
	return enc, nil
}
