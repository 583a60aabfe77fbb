package coverimg

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func TestRenderer_ResizeOverMaxWidth(t *testing.T) {
	src := makeSolidNRGBA(1200, 800, color.NRGBA{R: 20, G: 50, B: 200, A: 255})
	data := mustEncodeJPEG(t, src, 90)
	r := NewRenderer(Options{MaxWidth: 600})

	out, err := r.Render("image/jpeg", data)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out.Width != 600 || out.Height != 400 {
		t.Fatalf("got %dx%d, want 600x400", out.Width, out.Height)
	}
	if out.MediaType != "image/jpeg" {
		t.Fatalf("MediaType = %q, want image/jpeg", out.MediaType)
	}
	if _, err := jpeg.Decode(bytes.NewReader(out.Data)); err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
}

func TestRenderer_PassthroughUnderMaxWidth(t *testing.T) {
	src := makeSolidNRGBA(500, 300, color.NRGBA{R: 100, G: 120, B: 140, A: 255})
	data := mustEncodeJPEG(t, src, 90)
	r := NewRenderer(Options{MaxWidth: 600})

	out, err := r.Render("image/jpeg", data)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.Equal(out.Data, data) {
		t.Fatal("Render() should return the original bytes when no resize is needed")
	}
	if out.Width != 500 || out.Height != 300 {
		t.Fatalf("got %dx%d, want 500x300", out.Width, out.Height)
	}
}

func TestRenderer_ZeroWidthKeepsOriginal(t *testing.T) {
	data := mustEncodePNG(t, makeSolidNRGBA(900, 900, color.NRGBA{A: 255}))
	out, err := NewRenderer(Options{}).Render("image/png", data)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.Equal(out.Data, data) || out.MediaType != "image/png" {
		t.Fatalf("Render() changed the image: %q, %d bytes", out.MediaType, len(out.Data))
	}
}

func TestRenderer_OpaquePNGToJPEG(t *testing.T) {
	data := mustEncodePNG(t, makeSolidNRGBA(700, 400, color.NRGBA{R: 10, G: 80, B: 180, A: 255}))
	out, err := NewRenderer(Options{MaxWidth: 350}).Render("image/png", data)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out.MediaType != "image/jpeg" {
		t.Fatalf("MediaType = %q, want image/jpeg", out.MediaType)
	}
}

func TestRenderer_KeepTransparentPNG(t *testing.T) {
	data := mustEncodePNG(t, makeSolidNRGBA(700, 400, color.NRGBA{R: 10, G: 80, B: 180, A: 120}))
	out, err := NewRenderer(Options{MaxWidth: 350}).Render("image/png", data)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out.MediaType != "image/png" {
		t.Fatalf("MediaType = %q, want image/png", out.MediaType)
	}
	if _, err := png.Decode(bytes.NewReader(out.Data)); err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
}

func TestRenderer_UndecodableInput(t *testing.T) {
	data := []byte("not an image")
	out, err := NewRenderer(Options{MaxWidth: 100}).Render("image/jpeg", data)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out.Warning == "" {
		t.Fatal("Warning should be set for undecodable input")
	}
	if !bytes.Equal(out.Data, data) {
		t.Fatal("undecodable input should pass through")
	}
}

func TestNewRenderer_QualityBounds(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, defaultJPEGQuality},
		{10, minJPEGQuality},
		{75, 75},
		{150, 100},
	}
	for _, tt := range tests {
		if got := NewRenderer(Options{JPEGQuality: tt.in}).JPEGQuality; got != tt.want {
			t.Errorf("NewRenderer(quality %d).JPEGQuality = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"image/jpeg":    ".jpg",
		"IMAGE/PNG":     ".png",
		"image/gif":     ".gif",
		"image/webp":    ".webp",
		"image/svg+xml": ".svg",
		"image/x-foo":   ".img",
	}
	for mediaType, want := range tests {
		if got := Extension(mediaType); got != want {
			t.Errorf("Extension(%q) = %q, want %q", mediaType, got, want)
		}
	}
}

func makeSolidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func mustEncodeJPEG(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("jpeg.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func mustEncodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}
