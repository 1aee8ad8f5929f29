// Package models defines the data structures handled by the harvest pipeline.
package models

// ArtworkMetadata identifies one catalog entry, parsed from a listing page.
// Values are immutable once parsed.
type ArtworkMetadata struct {
	URL      string `json:"url"`
	Resource string `json:"resource"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Artist   string `json:"artist"`
	Date     string `json:"date"`
	Origin   string `json:"origin,omitempty"`
}

// DefaultArtist is used when a listing entry carries no artist line.
const DefaultArtist = "Unknown Artist"

// DefaultDate is used when no creation date can be extracted ("no date").
const DefaultDate = "n.d."

// ImageMetadata describes the binary asset before it is fetched.
type ImageMetadata struct {
	SourceURL    string  `json:"source_url,omitempty"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	FileSize     float64 `json:"file_size,omitempty"`
	FileSizeUnit string  `json:"file_size_unit,omitempty"`
}

// Image is the binary asset container: metadata plus the raw bytes once
// fetched. Raw serializes as base64 in JSON.
type Image struct {
	ImageMetadata
	Raw    []byte `json:"raw,omitempty"`
	Format string `json:"format"`
}

// DefaultImageFormat is assumed for downloads unless the source says otherwise.
const DefaultImageFormat = "jpg"

// PageEntry is one (artwork, image) metadata pair extracted from a listing
// page. It is the unit fanned out to the worker pool.
type PageEntry struct {
	Artwork ArtworkMetadata
	Image   ImageMetadata
}

// Artwork is the unit handled by one worker task: catalog metadata plus the
// image container. It is complete once the raw bytes are present.
type Artwork struct {
	ArtworkMetadata
	Image *Image `json:"image,omitempty"`
}

// Complete reports whether the raw image bytes have been fetched.
func (a *Artwork) Complete() bool {
	return a.Image != nil && len(a.Image.Raw) > 0
}

// WithoutImage returns a shallow copy of the artwork with the image dropped,
// for sinks configured to emit metadata only.
func (a *Artwork) WithoutImage() *Artwork {
	clone := *a
	clone.Image = nil
	return &clone
}
