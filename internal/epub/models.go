package epub

// UnknownTitle is used when the package document carries no title.
const UnknownTitle = "Unknown Title"

// BookMetadata is the normalized record extracted from an EPUB.
// Empty strings mean the field was absent from the package document.
type BookMetadata struct {
	Title       string       `json:"title"`
	Authors     []string     `json:"authors"`
	Description string       `json:"description,omitempty"`
	Publisher   string       `json:"publisher,omitempty"`
	Language    string       `json:"language,omitempty"` // raw OPF value
	Subjects    []string     `json:"subjects"`
	Series      string       `json:"series,omitempty"`
	SeriesIndex string       `json:"series_index,omitempty"` // kept verbatim, e.g. "2.5"
	Identifiers []Identifier `json:"identifiers"`

	// CoverData is nil when no cover was found or it could not be read.
	// CoverMediaType may still be set in the latter case.
	CoverData      []byte `json:"-"`
	CoverMediaType string `json:"cover_media_type,omitempty"`
}

// HasCover reports whether cover bytes were extracted.
func (m *BookMetadata) HasCover() bool {
	return m.CoverData != nil
}

// Identifier is a (scheme, value) pair from a dc:identifier element.
type Identifier struct {
	Scheme string `json:"scheme"`
	Value  string `json:"value"`
}

// ManifestItem represents an item in the manifest.
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties string
}

// CoverRef is the manifest entry chosen as the cover image.
type CoverRef struct {
	Href      string // as written in the manifest, relative to the OPF
	MediaType string
	Method    string // "properties" or "meta"
}
