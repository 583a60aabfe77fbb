package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
)

// maxMemberSize bounds a single decompressed member (256 MiB).
const maxMemberSize int64 = 256 * 1024 * 1024

// Archive provides access to the members of a zip-structured EPUB.
type Archive struct {
	closer io.Closer
	files  map[string]*zip.File
	names  []string
	limit  int64
}

// OpenArchive opens a zip archive from a random-access byte source.
// The returned Archive does not own r; Close is a no-op.
func OpenArchive(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceOpen, err)
	}
	return newArchive(zr, nil), nil
}

// OpenFile opens an EPUB file from disk. The caller must Close it.
func OpenFile(path string) (*Archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceOpen, err)
	}
	return newArchive(&zr.Reader, zr), nil
}

func newArchive(zr *zip.Reader, closer io.Closer) *Archive {
	a := &Archive{
		closer: closer,
		files:  make(map[string]*zip.File, len(zr.File)),
		names:  make([]string, 0, len(zr.File)),
		limit:  maxMemberSize,
	}

	for _, f := range zr.File {
		name := normalizePath(f.Name)
		if _, dup := a.files[name]; dup {
			continue
		}
		a.files[name] = f
		a.names = append(a.names, name)
	}

	return a
}

// Close releases the underlying file, if any.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Names returns member names in archive order.
func (a *Archive) Names() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// ReadFile reads the contents of a member.
func (a *Archive) ReadFile(path string) ([]byte, error) {
	path = normalizePath(path)
	f, ok := a.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	if f.UncompressedSize64 > uint64(a.limit) {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrMemberTooLarge, path, f.UncompressedSize64)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer rc.Close()

	// Declared sizes can lie; read one byte past the limit to notice.
	data, err := io.ReadAll(io.LimitReader(rc, a.limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if int64(len(data)) > a.limit {
		return nil, fmt.Errorf("%w: %s", ErrMemberTooLarge, path)
	}

	return data, nil
}

// normalizePath strips "./" and "/" prefixes from member names.
func normalizePath(path string) string {
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimPrefix(path, "/")
	return path
}
