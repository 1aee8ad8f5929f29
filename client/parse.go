package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/artvee/go-artvee-scraper/config"
	"github.com/artvee/go-artvee-scraper/models"
)

var (
	// "Man playing the guitar (1924)" -> title, date.
	titlePattern = regexp.MustCompile(`^(.+) *\((.+)\) *$`)
	// "Eugeniusz Zak (Polish, 1884-1926)" -> artist, origin.
	artistPattern = regexp.MustCompile(`^(.+) *\((.+)\) *$`)
	// "https://artvee.com/dl/zwei-tanzende/" -> resource slug.
	resourcePattern = regexp.MustCompile(`^https://artvee\.com/dl/((?:\w|-|%)+)/$`)
	// "1800 x 1185px" -> width, height.
	imgDimensionPattern = regexp.MustCompile(`^(\d+)\sx\s(\d+)px$`)
	// "1.82 MB" -> size, unit.
	imgFileSizePattern = regexp.MustCompile(`^((?:[0-9]*\.)?[0-9]+)\s([A-Za-z]+)$`)
)

// parseResultCount extracts the reported total-item count from a listing page.
func parseResultCount(pageURL string, body []byte) (int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 0, &ParseError{URL: pageURL, Msg: err.Error()}
	}

	sel := doc.Find("p.woocommerce-result-count").First()
	if sel.Length() == 0 {
		return 0, &ParseError{URL: pageURL, Msg: "result count element not found"}
	}

	text := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sel.Text()), "items"))
	total, err := strconv.Atoi(text)
	if err != nil {
		return 0, &ParseError{URL: pageURL, Msg: fmt.Sprintf("result count %q is not an integer", text)}
	}
	return total, nil
}

// parsePageEntries extracts one metadata pair per catalog entry. Malformed
// entries are logged and dropped.
func parsePageEntries(pageURL string, body []byte, category models.Category, imageSize string) ([]models.PageEntry, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{URL: pageURL, Msg: err.Error()}
	}

	var entries []models.PageEntry
	doc.Find("div.product-element-bottom").Each(func(_ int, sel *goquery.Selection) {
		entry, err := parseEntry(sel, category, imageSize)
		if err != nil {
			slog.Warn("dropping malformed listing entry",
				slog.String("page_url", pageURL),
				slog.Any("error", err),
			)
			return
		}
		entries = append(entries, entry)
	})

	return entries, nil
}

func parseEntry(sel *goquery.Selection, category models.Category, imageSize string) (models.PageEntry, error) {
	artwork, err := parseArtworkMetadata(sel, category)
	if err != nil {
		return models.PageEntry{}, err
	}

	image, err := parseImageMetadata(sel, imageSize)
	if err != nil {
		return models.PageEntry{}, err
	}

	return models.PageEntry{Artwork: artwork, Image: image}, nil
}

func parseArtworkMetadata(sel *goquery.Selection, category models.Category) (models.ArtworkMetadata, error) {
	details := sel.Find("h3.product-title").First()
	if details.Length() == 0 {
		return models.ArtworkMetadata{}, fmt.Errorf("product title not found")
	}

	href, ok := details.Find("a").First().Attr("href")
	if !ok {
		return models.ArtworkMetadata{}, fmt.Errorf("artwork link not found")
	}

	m := resourcePattern.FindStringSubmatch(href)
	if m == nil {
		return models.ArtworkMetadata{}, fmt.Errorf("artwork url %q has no resource name", href)
	}
	resource, err := url.QueryUnescape(m[1])
	if err != nil {
		return models.ArtworkMetadata{}, fmt.Errorf("unescape resource %q: %w", m[1], err)
	}

	artwork := models.ArtworkMetadata{
		URL:      href,
		Resource: resource,
		Title:    strings.TrimSpace(details.Text()),
		Category: category.Display(),
		Artist:   models.DefaultArtist,
		Date:     models.DefaultDate,
	}

	if m := titlePattern.FindStringSubmatch(artwork.Title); m != nil {
		artwork.Title = strings.TrimSpace(m[1])
		artwork.Date = strings.TrimSpace(m[2])
	}

	brands := sel.Find("div.woodmart-product-brands-links").First()
	if brands.Length() == 0 {
		return models.ArtworkMetadata{}, fmt.Errorf("artist line not found")
	}
	if artist := strings.TrimSpace(brands.Text()); artist != "" {
		artwork.Artist = artist
		if m := artistPattern.FindStringSubmatch(artist); m != nil {
			artwork.Artist = strings.TrimSpace(m[1])
			artwork.Origin = strings.TrimSpace(m[2])
		}
	}

	return artwork, nil
}

// imageDetails is the JSON payload carried in a listing entry's data-sk
// attribute.
type imageDetails struct {
	SDLImageSize string `json:"sdlimagesize"`
	HDLImageSize string `json:"hdlimagesize"`
	SDLFileSize  string `json:"sdlfilesize"`
	HDLFileSize  string `json:"hdlfilesize"`
	SK           string `json:"sk"`
}

func parseImageMetadata(sel *goquery.Selection, imageSize string) (models.ImageMetadata, error) {
	raw, ok := sel.Find("div.tbmc.linko").First().Attr("data-sk")
	if !ok {
		return models.ImageMetadata{}, fmt.Errorf("image details not found")
	}

	var details imageDetails
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return models.ImageMetadata{}, fmt.Errorf("decode image details: %w", err)
	}

	dimensions, fileSize, variant := details.SDLImageSize, details.SDLFileSize, "sdl"
	if imageSize == config.ImageSizeMax {
		dimensions, fileSize, variant = details.HDLImageSize, details.HDLFileSize, "hdl"
	}

	var image models.ImageMetadata
	if m := imgDimensionPattern.FindStringSubmatch(dimensions); m != nil {
		image.Width, _ = strconv.Atoi(m[1])
		image.Height, _ = strconv.Atoi(m[2])
	}
	if m := imgFileSizePattern.FindStringSubmatch(fileSize); m != nil {
		image.FileSize, _ = strconv.ParseFloat(m[1], 64)
		image.FileSizeUnit = m[2]
	}
	if details.SK != "" {
		image.SourceURL = fmt.Sprintf("https://mdl.artvee.com/%s/%s%s.jpg", variant, details.SK, variant)
	}

	return image, nil
}
