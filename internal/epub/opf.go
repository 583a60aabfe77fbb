package epub

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// metaField identifies a metadata element whose text is being awaited.
type metaField int

const (
	fieldNone metaField = iota
	fieldTitle
	fieldCreator
	fieldDescription
	fieldPublisher
	fieldLanguage
	fieldIdentifier
	fieldSubject
)

// dcFields maps Dublin Core local names to the field they populate.
var dcFields = map[string]metaField{
	"title":       fieldTitle,
	"creator":     fieldCreator,
	"description": fieldDescription,
	"publisher":   fieldPublisher,
	"language":    fieldLanguage,
	"identifier":  fieldIdentifier,
	"subject":     fieldSubject,
}

// metadataScan carries the state of one pass over a package document.
type metadataScan struct {
	md         BookMetadata
	hasTitle   bool
	coverID    string
	inMetadata bool

	pending   metaField
	scheme    string
	hasScheme bool
}

// ExtractMetadata scans the <metadata> section of a package document.
// It returns the record without cover fields and the manifest id named
// by <meta name="cover">, if any.
func ExtractMetadata(data []byte) (BookMetadata, string, error) {
	s := &metadataScan{
		md: BookMetadata{
			Authors:     []string{},
			Subjects:    []string{},
			Identifiers: []Identifier{},
		},
	}

	d := newDecoder(data)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return BookMetadata{}, "", fmt.Errorf("%w: %w", ErrPackageParse, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			s.start(t)
		case xml.EndElement:
			s.pending = fieldNone
			if t.Name.Local == "metadata" {
				s.inMetadata = false
			}
		case xml.CharData:
			s.text(t)
		}
	}

	s.finish()
	return s.md, s.coverID, nil
}

func (s *metadataScan) start(se xml.StartElement) {
	s.pending = fieldNone

	name := se.Name.Local
	if name == "metadata" {
		s.inMetadata = true
		return
	}
	if !s.inMetadata {
		return
	}

	if name == "meta" {
		s.startMeta(se)
		return
	}

	field, ok := dcFields[name]
	if !ok {
		return
	}
	s.pending = field
	if field == fieldIdentifier {
		s.scheme, s.hasScheme = attrValue(se, "scheme")
	}
}

// startMeta reads the EPUB 2 name/content form. Series come only from the
// calibre metas; EPUB 3 property metas are ignored.
func (s *metadataScan) startMeta(se xml.StartElement) {
	name, hasName := attrValue(se, "name")
	content, hasContent := attrValue(se, "content")
	if !hasName || !hasContent {
		return
	}
	switch name {
	case "cover":
		s.coverID = content
	case "calibre:series":
		s.md.Series = content
	case "calibre:series_index":
		s.md.SeriesIndex = content
	}
}

func (s *metadataScan) text(cd xml.CharData) {
	if s.pending == fieldNone {
		return
	}
	value := strings.TrimSpace(string(cd))
	if value == "" {
		return
	}

	switch s.pending {
	case fieldTitle:
		s.md.Title = value
		s.hasTitle = true
	case fieldCreator:
		s.md.Authors = append(s.md.Authors, value)
	case fieldDescription:
		s.md.Description = value
	case fieldPublisher:
		s.md.Publisher = value
	case fieldLanguage:
		s.md.Language = value
	case fieldIdentifier:
		s.md.Identifiers = append(s.md.Identifiers, parseIdentifier(s.scheme, s.hasScheme, value))
	case fieldSubject:
		s.md.Subjects = append(s.md.Subjects, value)
	}
	s.pending = fieldNone
}

func (s *metadataScan) finish() {
	if !s.hasTitle {
		s.md.Title = UnknownTitle
	}
}

// parseIdentifier builds an Identifier from dc:identifier text. An explicit
// scheme attribute is used as-is and leaves the text untouched; otherwise
// the text is split on its first colon.
func parseIdentifier(scheme string, hasScheme bool, text string) Identifier {
	if hasScheme {
		return Identifier{Scheme: scheme, Value: text}
	}
	if before, after, ok := strings.Cut(text, ":"); ok {
		return Identifier{Scheme: before, Value: after}
	}
	return Identifier{Scheme: "unknown", Value: text}
}
