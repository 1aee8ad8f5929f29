package writer

import (
	"fmt"

	"github.com/artvee/go-artvee-scraper/config"
)

// New constructs the delivery sink selected by cfg.Writer.
func New(cfg *config.Config) (Writer, error) {
	switch cfg.Writer {
	case config.WriterLogJSON:
		return NewJSONLogWriter(cfg.SpaceLevel, cfg.SortKeys, cfg.IncludeImage), nil
	case config.WriterConsoleJSON:
		return NewJSONConsoleWriter(cfg.SpaceLevel, cfg.SortKeys, cfg.IncludeImage), nil
	case config.WriterFileJSON:
		return NewJSONFileWriter(cfg.DirPath, cfg.SpaceLevel, cfg.SortKeys, cfg.OverwriteExisting), nil
	case config.WriterFileMulti:
		return NewMultiFileWriter(cfg.MetadataDir, cfg.ImageDir, cfg.SpaceLevel, cfg.SortKeys, cfg.OverwriteExisting), nil
	default:
		return nil, fmt.Errorf("unsupported writer: %s", cfg.Writer)
	}
}
