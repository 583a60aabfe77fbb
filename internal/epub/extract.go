package epub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Extractor runs the metadata extraction pipeline:
// container.xml -> package document -> metadata and cover reference ->
// manifest cover lookup -> cover bytes.
//
// An Extractor holds no per-archive state and may be shared between
// goroutines.
type Extractor struct {
	Logger *slog.Logger
}

// NewExtractor creates an Extractor. A nil logger discards all records.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{Logger: logger}
}

// Extract reads metadata from a zip archive held in r.
func Extract(ctx context.Context, r io.ReaderAt, size int64) (*BookMetadata, error) {
	return NewExtractor(nil).Extract(ctx, r, size)
}

// ExtractFile reads metadata from the EPUB file at path.
func ExtractFile(ctx context.Context, path string) (*BookMetadata, error) {
	return NewExtractor(nil).ExtractFile(ctx, path)
}

// Extract reads metadata from a zip archive held in r.
func (e *Extractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (*BookMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ExtractError{Err: err}
	}

	a, err := OpenArchive(r, size)
	if err != nil {
		return nil, &ExtractError{Err: err}
	}
	defer a.Close()

	md, err := e.extract(ctx, a, e.logger())
	if err != nil {
		return nil, &ExtractError{Err: err}
	}
	return md, nil
}

// ExtractFile reads metadata from the EPUB file at path.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*BookMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ExtractError{Path: path, Err: err}
	}

	a, err := OpenFile(path)
	if err != nil {
		return nil, &ExtractError{Path: path, Err: err}
	}
	defer a.Close()

	md, err := e.extract(ctx, a, e.logger().With("epub", path))
	if err != nil {
		return nil, &ExtractError{Path: path, Err: err}
	}
	return md, nil
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Logger
}

// extract runs the pipeline stages over an open archive. Only failures to
// locate or parse the package document are returned; problems with the
// cover are logged and leave CoverData nil.
func (e *Extractor) extract(ctx context.Context, a *Archive, logger *slog.Logger) (*BookMetadata, error) {
	containerData, err := a.ReadFile(containerPath)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return nil, ErrContainerMissing
		}
		return nil, fmt.Errorf("%w: %w", ErrContainerMissing, err)
	}

	opfPath, err := ParseContainer(containerData)
	if err != nil {
		return nil, err
	}
	logger.Debug("located package document", "opf_path", opfPath)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opfData, err := a.ReadFile(opfPath)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPackageMissing, opfPath)
		}
		return nil, fmt.Errorf("%w: %w", ErrPackageMissing, err)
	}

	md, coverID, err := ExtractMetadata(opfData)
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed metadata",
		"title", md.Title,
		"authors", len(md.Authors),
		"identifiers", len(md.Identifiers),
		"cover_id", coverID,
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	attachCover(logger, a, opfPath, opfData, coverID, &md)
	return &md, nil
}

// attachCover fills the cover fields of md. The media type is recorded as
// soon as the manifest names a cover, even if its bytes cannot be read.
func attachCover(logger *slog.Logger, a *Archive, opfPath string, opfData []byte, coverID string, md *BookMetadata) {
	ref, ok, err := ResolveCover(opfData, coverID)
	if err != nil {
		logger.Warn("failed to resolve cover, continuing without it", "error", err)
		return
	}
	if !ok {
		logger.Debug("no cover image in manifest", "cover_id", coverID)
		return
	}

	md.CoverMediaType = ref.MediaType
	coverPath := ResolveMemberPath(opfPath, ref.Href)
	logger.Debug("resolved cover",
		"cover_href", ref.Href,
		"cover_path", coverPath,
		"method", ref.Method,
	)

	data, err := a.ReadFile(coverPath)
	if err != nil {
		logger.Warn("cover image unreadable, continuing without it",
			"cover_path", coverPath,
			"error", err,
		)
		return
	}
	md.CoverData = data
}
