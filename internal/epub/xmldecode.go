package epub

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// newDecoder returns a strict token decoder for an archive XML member.
// A leading byte order mark selects the input encoding; otherwise the
// encoding declared in the XML prolog is honored.
func newDecoder(data []byte) *xml.Decoder {
	r := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(transform.Nop))
	d := xml.NewDecoder(r)
	d.Strict = true
	d.Entity = xml.HTMLEntity
	d.CharsetReader = charsetReader
	return d
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "utf-8", "utf8", "utf-16", "utf-16le", "utf-16be":
		// UTF-16 input has already been transcoded by the BOM override.
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}

// attrValue returns the value of the first attribute whose local name
// matches, ignoring any namespace prefix.
func attrValue(se xml.StartElement, local string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == local && a.Name.Space != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}
