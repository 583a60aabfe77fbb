package epub

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// containerPath is the fixed location of the OCF container descriptor.
const containerPath = "META-INF/container.xml"

// ParseContainer returns the package document path named by the first
// rootfile element carrying a full-path attribute.
func ParseContainer(data []byte) (string, error) {
	d := newDecoder(data)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrContainerParse, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "rootfile" {
			continue
		}
		if fullPath, ok := attrValue(se, "full-path"); ok {
			return fullPath, nil
		}
	}

	return "", ErrContainerParse
}
