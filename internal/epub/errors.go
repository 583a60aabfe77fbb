package epub

import (
	"errors"
	"fmt"
)

// Fatal extraction errors. Callers match them with errors.Is.
var (
	ErrSourceOpen       = errors.New("source is not a readable zip archive")
	ErrContainerMissing = errors.New("META-INF/container.xml not found")
	ErrContainerParse   = errors.New("no usable rootfile in container.xml")
	ErrPackageMissing   = errors.New("package document not found")
	ErrPackageParse     = errors.New("failed to parse package document")
)

// Archive member errors
var (
	ErrFileNotFound   = errors.New("file not found")
	ErrMemberTooLarge = errors.New("archive member exceeds size limit")
)

// ExtractError reports a fatal failure for one archive.
type ExtractError struct {
	Path string // archive path, empty when reading from an io.ReaderAt
	Err  error
}

func (e *ExtractError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("epub: %v", e.Err)
	}
	return fmt.Sprintf("epub %s: %v", e.Path, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}
