package models

import (
	"fmt"
	"sort"
	"strings"
)

// Category is a top-level classification tag partitioning the remote catalog.
// Its value is the path segment used in listing URLs.
type Category string

const (
	CategoryAbstract     Category = "abstract"
	CategoryFigurative   Category = "figurative"
	CategoryLandscape    Category = "landscape"
	CategoryReligion     Category = "religion"
	CategoryMythology    Category = "mythology"
	CategoryPosters      Category = "posters"
	CategoryAnimals      Category = "animals"
	CategoryIllustration Category = "illustration"
	CategoryStillLife    Category = "still-life"
	CategoryBotanical    Category = "botanical"
	CategoryDrawings     Category = "drawings"
	CategoryAsianArt     Category = "asian-art"
)

func (c Category) String() string {
	return string(c)
}

// Display returns the capitalized form used in artwork metadata
// (ex: "still-life" -> "Still-life").
func (c Category) Display() string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// AllCategories returns every known category in sorted order.
func AllCategories() []Category {
	all := []Category{
		CategoryAbstract,
		CategoryFigurative,
		CategoryLandscape,
		CategoryReligion,
		CategoryMythology,
		CategoryPosters,
		CategoryAnimals,
		CategoryIllustration,
		CategoryStillLife,
		CategoryBotanical,
		CategoryDrawings,
		CategoryAsianArt,
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// ParseCategory validates a category name supplied by the caller.
func ParseCategory(name string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AllCategories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", name)
}

// ParseCategories validates a list of category names, dropping duplicates
// while preserving the caller-supplied order.
func ParseCategories(names []string) ([]Category, error) {
	seen := make(map[Category]struct{}, len(names))
	out := make([]Category, 0, len(names))
	for _, name := range names {
		c, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}
