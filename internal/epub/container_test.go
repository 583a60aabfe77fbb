package epub

import (
	"errors"
	"testing"
)

const testContainerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

func TestParseContainer(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			name: "standard",
			xml:  testContainerXML,
			want: "OEBPS/content.opf",
		},
		{
			name: "prefixed element",
			xml: `<ocf:container xmlns:ocf="urn:oasis:names:tc:opendocument:xmlns:container">
  <ocf:rootfiles><ocf:rootfile full-path="book.opf"/></ocf:rootfiles>
</ocf:container>`,
			want: "book.opf",
		},
		{
			name: "first rootfile with full-path wins",
			xml: `<container><rootfiles>
  <rootfile media-type="application/oebps-package+xml"/>
  <rootfile full-path="first.opf"></rootfile>
  <rootfile full-path="second.opf"/>
</rootfiles></container>`,
			want: "first.opf",
		},
		{
			name: "utf-8 byte order mark",
			xml:  "\xEF\xBB\xBF" + testContainerXML,
			want: "OEBPS/content.opf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseContainer([]byte(tt.xml))
			if err != nil {
				t.Fatalf("ParseContainer() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseContainer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseContainer_Errors(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"empty", ""},
		{"no rootfile", `<container><rootfiles></rootfiles></container>`},
		{"rootfile without full-path", `<container><rootfiles><rootfile media-type="x"/></rootfiles></container>`},
		{"malformed", `<container><rootfiles>`},
		{"mismatched tags", `<container><rootfiles></container>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseContainer([]byte(tt.xml))
			if !errors.Is(err, ErrContainerParse) {
				t.Fatalf("ParseContainer() error = %v, want ErrContainerParse", err)
			}
		})
	}
}
