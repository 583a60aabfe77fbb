// Package report renders extracted book metadata for people and programs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuanying/epubmeta/internal/epub"
	"golang.org/x/net/html"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// blockSelectors end a line when a description is flattened to text.
const blockSelectors = "p, div, li, h1, h2, h3, h4, h5, h6, blockquote, tr"

// Write renders md to w in the given format.
func Write(w io.Writer, format string, md *epub.BookMetadata) error {
	switch format {
	case FormatText:
		return WriteText(w, md)
	case FormatJSON:
		return WriteJSON(w, md)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// jsonReport adds derived cover fields to the metadata record.
type jsonReport struct {
	*epub.BookMetadata
	HasCover  bool `json:"has_cover"`
	CoverSize int  `json:"cover_size,omitempty"`
}

// WriteJSON writes md as an indented JSON object. Cover bytes are not
// embedded; only their presence and size are reported.
func WriteJSON(w io.Writer, md *epub.BookMetadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(jsonReport{
		BookMetadata: md,
		HasCover:     md.HasCover(),
		CoverSize:    len(md.CoverData),
	})
}

// WriteText writes a human-readable summary of md.
func WriteText(w io.Writer, md *epub.BookMetadata) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Title:       %s\n", md.Title)
	if len(md.Authors) > 0 {
		fmt.Fprintf(&b, "Authors:     %s\n", strings.Join(md.Authors, ", "))
	}
	if md.Publisher != "" {
		fmt.Fprintf(&b, "Publisher:   %s\n", md.Publisher)
	}
	if md.Language != "" {
		fmt.Fprintf(&b, "Language:    %s\n", md.Language)
	}
	if md.Series != "" {
		if md.SeriesIndex != "" {
			fmt.Fprintf(&b, "Series:      %s #%s\n", md.Series, md.SeriesIndex)
		} else {
			fmt.Fprintf(&b, "Series:      %s\n", md.Series)
		}
	}
	if len(md.Subjects) > 0 {
		fmt.Fprintf(&b, "Subjects:    %s\n", strings.Join(md.Subjects, ", "))
	}
	if len(md.Identifiers) > 0 {
		b.WriteString("Identifiers:\n")
		for _, id := range md.Identifiers {
			fmt.Fprintf(&b, "  %s: %s\n", id.Scheme, id.Value)
		}
	}

	switch {
	case md.HasCover():
		fmt.Fprintf(&b, "Cover:       %s (%d bytes)\n", md.CoverMediaType, len(md.CoverData))
	case md.CoverMediaType != "":
		fmt.Fprintf(&b, "Cover:       %s (unreadable)\n", md.CoverMediaType)
	default:
		b.WriteString("Cover:       (not found)\n")
	}

	if md.Description != "" {
		b.WriteString("Description:\n")
		for _, line := range strings.Split(DescriptionText(md.Description), "\n") {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// DescriptionText flattens a description to plain text. Descriptions are
// frequently stored as escaped XHTML; block elements become line breaks and
// runs of whitespace collapse to a single space.
func DescriptionText(desc string) string {
	if !strings.Contains(desc, "<") {
		return collapseLines(desc)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc))
	if err != nil {
		return collapseLines(desc)
	}

	doc.Find("script, style").Remove()
	doc.Find("br").Each(func(i int, s *goquery.Selection) {
		s.ReplaceWithNodes(newline())
	})
	doc.Find(blockSelectors).Each(func(i int, s *goquery.Selection) {
		s.AppendNodes(newline())
	})

	return collapseLines(doc.Find("body").Text())
}

func newline() *html.Node {
	return &html.Node{Type: html.TextNode, Data: "\n"}
}

func collapseLines(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
