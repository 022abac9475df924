package main

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is the text encoding used to read files.
const DefaultEncoding = "utf-8"

// newlineReplacer folds CRLF and lone CR line endings into LF.
var newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// textDecoder converts file bytes to a string, replacing undecodable bytes
// with U+FFFD instead of failing. Line endings are normalized to LF.
type textDecoder struct {
	name     string
	encoding encoding.Encoding
}

// newTextDecoder looks up an encoding by its WHATWG name or alias.
func newTextDecoder(name string) (*textDecoder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	return &textDecoder{name: name, encoding: enc}, nil
}

func (d *textDecoder) Decode(data []byte) string {
	enc := d.encoding
	if enc == nil {
		enc = unicode.UTF8
	}
	out, err := enc.NewDecoder().Bytes(data)
	text := string(out)
	if err != nil {
		text = strings.ToValidUTF8(string(data), "\uFFFD")
	}
	return newlineReplacer.Replace(text)
}
