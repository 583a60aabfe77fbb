package epub

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ResolveCover finds the cover image among the manifest items of a package
// document. Items are visited in document order and only image/* items are
// candidates. For each candidate two rules are tried:
//  1. properties contains "cover-image" (EPUB 3.0)
//  2. id equals coverID from <meta name="cover"> (EPUB 2.0)
//
// The first candidate matching either rule wins. The boolean result is
// false when nothing matches.
func ResolveCover(data []byte, coverID string) (CoverRef, bool, error) {
	d := newDecoder(data)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return CoverRef{}, false, nil
		}
		if err != nil {
			return CoverRef{}, false, fmt.Errorf("failed to scan manifest: %w", err)
		}

		se, isStart := tok.(xml.StartElement)
		if !isStart || se.Name.Local != "item" {
			continue
		}

		if _, hasHref := attrValue(se, "href"); !hasHref {
			continue
		}
		if ref, ok := matchCover(readManifestItem(se), coverID); ok {
			return ref, true, nil
		}
	}
}

func readManifestItem(se xml.StartElement) ManifestItem {
	var item ManifestItem
	item.ID, _ = attrValue(se, "id")
	item.Href, _ = attrValue(se, "href")
	item.MediaType, _ = attrValue(se, "media-type")
	item.Properties, _ = attrValue(se, "properties")
	return item
}

// matchCover applies the cover rules to a single manifest item that carries
// an href attribute. An empty href still counts.
func matchCover(item ManifestItem, coverID string) (CoverRef, bool) {
	if !isImageMediaType(item.MediaType) {
		return CoverRef{}, false
	}

	if strings.Contains(item.Properties, "cover-image") {
		return CoverRef{Href: item.Href, MediaType: item.MediaType, Method: "properties"}, true
	}
	if coverID != "" && item.ID == coverID {
		return CoverRef{Href: item.Href, MediaType: item.MediaType, Method: "meta"}, true
	}

	return CoverRef{}, false
}

// isImageMediaType checks if a media type names an image.
func isImageMediaType(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}

// ResolveMemberPath resolves a manifest href against the directory of the
// package document, giving the archive member name.
func ResolveMemberPath(opfPath, href string) string {
	opfPath = strings.ReplaceAll(opfPath, `\`, "/")
	href = strings.ReplaceAll(href, `\`, "/")

	dir := path.Dir(opfPath)
	if dir == "." || dir == "/" {
		return normalizePath(href)
	}
	return path.Join(dir, href)
}
