// Package coverimg prepares extracted cover images for storage.
package coverimg

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // decoder registration
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // decoder registration
)

const (
	defaultJPEGQuality = 90
	minJPEGQuality     = 60
	defaultMaxPixels   = 100 * 1000 * 1000 // 100 megapixels
)

// Options configures a Renderer.
type Options struct {
	MaxWidth    int // 0 keeps the original size
	JPEGQuality int
}

// Renderer scales cover images down to a maximum width.
type Renderer struct {
	MaxWidth    int
	JPEGQuality int
	MaxPixels   int // Total pixel count limit for decode (width * height)
}

// Image holds rendered cover data.
// Warning is set when the input was returned as-is because it could not
// be decoded; Data is usable either way.
type Image struct {
	Data      []byte
	Width     int
	Height    int
	MediaType string
	Warning   string
}

// NewRenderer creates a renderer with defaults applied.
func NewRenderer(opts Options) *Renderer {
	quality := opts.JPEGQuality
	if quality <= 0 {
		quality = defaultJPEGQuality
	}
	if quality < minJPEGQuality {
		quality = minJPEGQuality
	}
	if quality > 100 {
		quality = 100
	}

	maxWidth := opts.MaxWidth
	if maxWidth < 0 {
		maxWidth = 0
	}

	return &Renderer{
		MaxWidth:    maxWidth,
		JPEGQuality: quality,
		MaxPixels:   defaultMaxPixels,
	}
}

// Render decodes a cover and, if it is wider than MaxWidth, resizes and
// re-encodes it. Covers that fit are returned byte-for-byte.
func (r *Renderer) Render(mediaType string, input []byte) (Image, error) {
	out := Image{
		Data:      input,
		MediaType: mediaType,
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(input))
	if err != nil {
		out.Warning = fmt.Sprintf("image decode failed: %v", err)
		return out, nil
	}
	out.Width = cfg.Width
	out.Height = cfg.Height

	pixels := uint64(cfg.Width) * uint64(cfg.Height)
	if r.MaxPixels > 0 && pixels > uint64(r.MaxPixels) {
		out.Warning = fmt.Sprintf("image too large to decode: %dx%d (%d pixels)", cfg.Width, cfg.Height, pixels)
		return out, nil
	}

	if r.MaxWidth <= 0 || cfg.Width <= r.MaxWidth {
		return out, nil
	}

	src, format, err := image.Decode(bytes.NewReader(input))
	if err != nil {
		out.Warning = fmt.Sprintf("image decode failed: %v", err)
		return out, nil
	}

	resized := imaging.Resize(src, r.MaxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if keepPNG(mediaType, format, resized) {
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		if err := encoder.Encode(&buf, resized); err != nil {
			return out, fmt.Errorf("png encode failed: %w", err)
		}
		out.MediaType = "image/png"
	} else {
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: r.JPEGQuality}); err != nil {
			return out, fmt.Errorf("jpeg encode failed: %w", err)
		}
		out.MediaType = "image/jpeg"
	}

	out.Data = buf.Bytes()
	out.Width = resized.Bounds().Dx()
	out.Height = resized.Bounds().Dy()
	return out, nil
}

// keepPNG reports whether a resized PNG source must stay PNG to preserve
// transparency. Everything else is written as JPEG.
func keepPNG(mediaType, detected string, img image.Image) bool {
	if !strings.EqualFold(mediaType, "image/png") && detected != "png" {
		return false
	}
	return hasAlpha(img)
}

func hasAlpha(img image.Image) bool {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a < 0xFFFF {
				return true
			}
		}
	}
	return false
}

// Extension returns a file extension for a cover media type.
func Extension(mediaType string) string {
	switch strings.ToLower(mediaType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".img"
	}
}
