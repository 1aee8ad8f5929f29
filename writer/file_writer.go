package writer

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/artvee/go-artvee-scraper/models"
)

// writeNewFile writes data to path, honoring the overwrite policy. A failure
// after the file was created removes it again, so a false result never
// leaves a partial artifact behind.
func writeNewFile(path string, data []byte, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// JSONFileWriter writes one artwork as one JSON file per item into a target
// directory, named from a slug derived from artist and title.
type JSONFileWriter struct {
	dirPath    string
	spaceLevel int
	sortKeys   bool
	overwrite  bool
}

// NewJSONFileWriter builds a single-file sink. With overwrite false, an
// existing file for the same slug fails the write.
func NewJSONFileWriter(dirPath string, spaceLevel int, sortKeys, overwrite bool) *JSONFileWriter {
	return &JSONFileWriter{
		dirPath:    dirPath,
		spaceLevel: spaceLevel,
		sortKeys:   sortKeys,
		overwrite:  overwrite,
	}
}

// Write persists the artwork, image included, as a JSON file. Filesystem
// errors are logged and reported as false, without retry.
func (w *JSONFileWriter) Write(artwork *models.Artwork) bool {
	path := filepath.Join(w.dirPath, fileSlug(artwork)+".json")
	slog.Debug("writing artwork", slog.String("path", path))

	encoded, err := encodeArtwork(artwork, w.spaceLevel, w.sortKeys)
	if err != nil {
		slog.Error("encode artwork", slog.String("path", path), slog.Any("error", err))
		return false
	}

	if err := writeNewFile(path, encoded, w.overwrite); err != nil {
		slog.Error("write artwork file", slog.String("path", path), slog.Any("error", err))
		return false
	}
	return true
}

// MultiFileWriter writes the image and the metadata as two separate files
// into two independently configured directories. On any failure in either
// write, both are reverted so the destination holds no orphaned artifacts
// for the item.
type MultiFileWriter struct {
	metadataDir string
	imageDir    string
	spaceLevel  int
	sortKeys    bool
	overwrite   bool
}

// NewMultiFileWriter builds a split-file sink.
func NewMultiFileWriter(metadataDir, imageDir string, spaceLevel int, sortKeys, overwrite bool) *MultiFileWriter {
	return &MultiFileWriter{
		metadataDir: metadataDir,
		imageDir:    imageDir,
		spaceLevel:  spaceLevel,
		sortKeys:    sortKeys,
		overwrite:   overwrite,
	}
}

// Write persists both artifacts through the command protocol: either both
// files end up present or neither does.
func (w *MultiFileWriter) Write(artwork *models.Artwork) bool {
	macro := NewMacroCommand()
	macro.Add(NewWriteImageCommand(w.imageDir, artwork, w.overwrite))
	macro.Add(NewWriteMetadataCommand(w.metadataDir, artwork, w.spaceLevel, w.sortKeys, w.overwrite))

	if !macro.Execute() {
		macro.Revert()
		return false
	}
	return true
}

// WriteImageCommand writes an artwork's image bytes as a .jpg artifact;
// Revert deletes it again.
type WriteImageCommand struct {
	image     *models.Image
	path      string
	overwrite bool
}

// NewWriteImageCommand builds the image artifact command for one artwork.
func NewWriteImageCommand(dirPath string, artwork *models.Artwork, overwrite bool) *WriteImageCommand {
	format := models.DefaultImageFormat
	if artwork.Image != nil && artwork.Image.Format != "" {
		format = artwork.Image.Format
	}
	return &WriteImageCommand{
		image:     artwork.Image,
		path:      filepath.Join(dirPath, fileSlug(artwork)+"."+format),
		overwrite: overwrite,
	}
}

// Execute writes the image artifact. An artwork without raw bytes fails
// without touching the filesystem.
func (c *WriteImageCommand) Execute() bool {
	if c.image == nil || len(c.image.Raw) == 0 {
		slog.Error("no image bytes to write", slog.String("path", c.path))
		return false
	}

	slog.Debug("writing image", slog.String("path", c.path))
	if err := writeNewFile(c.path, c.image.Raw, c.overwrite); err != nil {
		slog.Error("write image file", slog.String("path", c.path), slog.Any("error", err))
		return false
	}
	return true
}

// Revert deletes the image artifact.
func (c *WriteImageCommand) Revert() bool {
	slog.Debug("deleting image", slog.String("path", c.path))
	if err := os.Remove(c.path); err != nil {
		slog.Error("delete image file", slog.String("path", c.path), slog.Any("error", err))
		return false
	}
	return true
}

// WriteMetadataCommand writes an artwork's metadata as a .json artifact,
// image excluded; Revert deletes it again.
type WriteMetadataCommand struct {
	artwork    *models.Artwork
	path       string
	spaceLevel int
	sortKeys   bool
	overwrite  bool
}

// NewWriteMetadataCommand builds the metadata artifact command for one
// artwork.
func NewWriteMetadataCommand(dirPath string, artwork *models.Artwork, spaceLevel int, sortKeys, overwrite bool) *WriteMetadataCommand {
	return &WriteMetadataCommand{
		artwork:    artwork,
		path:       filepath.Join(dirPath, fileSlug(artwork)+".json"),
		spaceLevel: spaceLevel,
		sortKeys:   sortKeys,
		overwrite:  overwrite,
	}
}

// Execute writes the metadata artifact.
func (c *WriteMetadataCommand) Execute() bool {
	slog.Debug("writing metadata", slog.String("path", c.path))

	encoded, err := encodeArtwork(c.artwork.WithoutImage(), c.spaceLevel, c.sortKeys)
	if err != nil {
		slog.Error("encode metadata", slog.String("path", c.path), slog.Any("error", err))
		return false
	}

	if err := writeNewFile(c.path, encoded, c.overwrite); err != nil {
		slog.Error("write metadata file", slog.String("path", c.path), slog.Any("error", err))
		return false
	}
	return true
}

// Revert deletes the metadata artifact.
func (c *WriteMetadataCommand) Revert() bool {
	slog.Debug("deleting metadata", slog.String("path", c.path))
	if err := os.Remove(c.path); err != nil {
		slog.Error("delete metadata file", slog.String("path", c.path), slog.Any("error", err))
		return false
	}
	return true
}
