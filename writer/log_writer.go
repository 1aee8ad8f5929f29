package writer

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/artvee/go-artvee-scraper/models"
)

// JSONLogWriter emits each artwork to the structured log as a JSON document.
// The write has no I/O failure mode at this layer; it reports success once
// the log call returns.
type JSONLogWriter struct {
	spaceLevel   int
	sortKeys     bool
	includeImage bool
}

// NewJSONLogWriter builds a log sink. With includeImage false the binary
// asset is omitted from the output entirely.
func NewJSONLogWriter(spaceLevel int, sortKeys, includeImage bool) *JSONLogWriter {
	return &JSONLogWriter{
		spaceLevel:   spaceLevel,
		sortKeys:     sortKeys,
		includeImage: includeImage,
	}
}

// Write emits the artwork to the log.
func (w *JSONLogWriter) Write(artwork *models.Artwork) bool {
	if !w.includeImage {
		artwork = artwork.WithoutImage()
	}

	encoded, err := encodeArtwork(artwork, w.spaceLevel, w.sortKeys)
	if err != nil {
		slog.Error("encode artwork", slog.String("resource", artwork.Resource), slog.Any("error", err))
		return false
	}

	slog.Info(string(encoded))
	return true
}

// JSONConsoleWriter emits each artwork to a console stream as a JSON
// document, one per line (or pretty-printed block).
type JSONConsoleWriter struct {
	out          io.Writer
	spaceLevel   int
	sortKeys     bool
	includeImage bool
}

// NewJSONConsoleWriter builds a console sink writing to stdout.
func NewJSONConsoleWriter(spaceLevel int, sortKeys, includeImage bool) *JSONConsoleWriter {
	return &JSONConsoleWriter{
		out:          os.Stdout,
		spaceLevel:   spaceLevel,
		sortKeys:     sortKeys,
		includeImage: includeImage,
	}
}

// Write emits the artwork to the console stream.
func (w *JSONConsoleWriter) Write(artwork *models.Artwork) bool {
	if !w.includeImage {
		artwork = artwork.WithoutImage()
	}

	encoded, err := encodeArtwork(artwork, w.spaceLevel, w.sortKeys)
	if err != nil {
		slog.Error("encode artwork", slog.String("resource", artwork.Resource), slog.Any("error", err))
		return false
	}

	fmt.Fprintln(w.out, string(encoded))
	return true
}
