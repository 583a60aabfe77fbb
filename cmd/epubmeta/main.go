package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuanying/epubmeta/internal/coverimg"
	"github.com/yuanying/epubmeta/internal/epub"
	"github.com/yuanying/epubmeta/internal/report"
)

const (
	defaultJPEGQuality = 90
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
)

// cliOptions holds validated command-line settings.
type cliOptions struct {
	InputPath   string
	Format      string
	CoverOut    string
	CoverWidth  int
	JPEGQuality int
	Logger      *slog.Logger
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epubmeta <file.epub>",
		Short: "Extract bibliographic metadata and the cover image from an EPUB",
		Long: `epubmeta reads the package document of an EPUB 2 or EPUB 3 file and
prints its title, authors, identifiers, series and other metadata.

The cover image named by the manifest can be written to a file, optionally
scaled down to a maximum width.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringP("format", "f", report.FormatText, "Output format: text or json")
	flags.StringP("cover-out", "c", "", "Write the cover image to this file or directory")
	flags.Int("cover-width", 0, "Scale the written cover down to this width in pixels (0 keeps the original)")
	flags.Int("quality", defaultJPEGQuality, "JPEG quality for re-encoded covers (60-100)")
	flags.String("log-level", defaultLogLevel, "Log level: debug, info, warn or error")
	flags.String("log-format", defaultLogFormat, "Log format: text or json")
	flags.BoolP("verbose", "v", false, "Enable debug logging (overrides --log-level)")

	return cmd
}

func readCLIOptions(cmd *cobra.Command, args []string) (cliOptions, error) {
	flags := cmd.Flags()
	format, _ := flags.GetString("format")
	coverOut, _ := flags.GetString("cover-out")
	coverWidth, _ := flags.GetInt("cover-width")
	quality, _ := flags.GetInt("quality")
	logLevel, _ := flags.GetString("log-level")
	logFormat, _ := flags.GetString("log-format")
	verbose, _ := flags.GetBool("verbose")

	format = strings.ToLower(format)
	if format != report.FormatText && format != report.FormatJSON {
		return cliOptions{}, fmt.Errorf("--format must be text or json, got %q", format)
	}
	if coverWidth < 0 {
		return cliOptions{}, fmt.Errorf("--cover-width must be >= 0, got %d", coverWidth)
	}
	if quality < 60 || quality > 100 {
		return cliOptions{}, fmt.Errorf("--quality must be between 60 and 100, got %d", quality)
	}
	if _, err := parseLogLevel(logLevel); err != nil {
		return cliOptions{}, fmt.Errorf("--log-level: %w", err)
	}
	if f := strings.ToLower(logFormat); f != "text" && f != "json" {
		return cliOptions{}, fmt.Errorf("--log-format must be text or json, got %q", logFormat)
	}
	if verbose {
		logLevel = "debug"
	}

	return cliOptions{
		InputPath:   args[0],
		Format:      format,
		CoverOut:    coverOut,
		CoverWidth:  coverWidth,
		JPEGQuality: quality,
		Logger:      buildLogger(cmd.ErrOrStderr(), logLevel, logFormat),
	}, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
	}
}

// buildLogger creates a slog.Logger writing to w. Invalid values fall back
// to info level and text format.
func buildLogger(w io.Writer, level, format string) *slog.Logger {
	lvl, err := parseLogLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: lvl}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

func run(ctx context.Context, out io.Writer, opts cliOptions) error {
	md, err := epub.NewExtractor(opts.Logger).ExtractFile(ctx, opts.InputPath)
	if err != nil {
		return err
	}

	if opts.CoverOut != "" {
		if err := writeCover(opts, md); err != nil {
			return err
		}
	}

	return report.Write(out, opts.Format, md)
}

// writeCover stores the extracted cover. A book without a readable cover is
// not an error; it is logged and nothing is written.
func writeCover(opts cliOptions, md *epub.BookMetadata) error {
	logger := opts.Logger
	if !md.HasCover() {
		logger.Warn("no cover image to write", "epub", opts.InputPath, "media_type", md.CoverMediaType)
		return nil
	}

	img := coverimg.Image{Data: md.CoverData, MediaType: md.CoverMediaType}
	if opts.CoverWidth > 0 {
		r := coverimg.NewRenderer(coverimg.Options{
			MaxWidth:    opts.CoverWidth,
			JPEGQuality: opts.JPEGQuality,
		})
		rendered, err := r.Render(md.CoverMediaType, md.CoverData)
		if err != nil {
			return fmt.Errorf("failed to render cover: %w", err)
		}
		if rendered.Warning != "" {
			logger.Warn("cover written unmodified", "reason", rendered.Warning)
		}
		img = rendered
	}

	path := coverPath(opts.CoverOut, opts.InputPath, img.MediaType)
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write cover: %w", err)
	}
	logger.Info("wrote cover", "path", path, "bytes", len(img.Data), "media_type", img.MediaType)
	return nil
}

// coverPath returns target itself, or a file named after the input book
// when target is an existing directory.
func coverPath(target, inputPath, mediaType string) string {
	if fi, err := os.Stat(target); err == nil && fi.IsDir() {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		return filepath.Join(target, base+coverimg.Extension(mediaType))
	}
	return target
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "epubmeta:", err)
		os.Exit(1)
	}
}
