// Package writer provides the delivery sinks that persist one harvested
// artwork, and the revertible command protocol backing the multi-file sink.
package writer

import (
	"encoding/json"
	"strings"

	"github.com/gosimple/slug"

	"github.com/artvee/go-artvee-scraper/models"
)

// Writer delivers one completed (or partial) artwork to a destination.
// Write reports success by boolean; failures are logged by the sink and
// never propagate past the worker task boundary.
type Writer interface {
	Write(artwork *models.Artwork) bool
}

// fileSlug derives the filesystem-safe base name for an artwork's artifacts.
func fileSlug(artwork *models.Artwork) string {
	return slug.Make(artwork.Artist + "-" + artwork.Title)
}

// encodeArtwork serializes an artwork to JSON. A space level above one
// enables pretty-printing with that many spaces of indentation; sortKeys
// switches from declaration order to alphabetical key order.
func encodeArtwork(artwork *models.Artwork, spaceLevel int, sortKeys bool) ([]byte, error) {
	indent := ""
	if spaceLevel > 1 {
		indent = strings.Repeat(" ", spaceLevel)
	}

	var value any = artwork
	if sortKeys {
		// encoding/json emits map keys in sorted order; round-trip through a
		// map to reorder the fields.
		plain, err := json.Marshal(artwork)
		if err != nil {
			return nil, err
		}
		var fields map[string]any
		if err := json.Unmarshal(plain, &fields); err != nil {
			return nil, err
		}
		value = fields
	}

	if indent == "" {
		return json.Marshal(value)
	}
	return json.MarshalIndent(value, "", indent)
}
