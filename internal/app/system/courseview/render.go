// Package courseview turns a catalog projection into category sections and
// renders the catalog HTML fragments: the section grid and the preview modal
// content.
package courseview

import (
	"strings"

	"github.com/dalemusser/coursehub/internal/domain/models"
)

// Card is one course tile.
type Card struct {
	Key         string
	Title       string
	Description string
	Category    string
	ImageURL    string
	ImageAlt    string

	// CanDownload is set for Roadmap records with a document. The action
	// opens a document preview rather than navigating.
	CanDownload bool
	DocumentURL string
}

// Section is the container for one category.
type Section struct {
	Category    string
	Heading     string
	ID          string // section-<category>
	GridID      string // <category>-grid
	Cards       []Card
	Placeholder string
}

// Empty reports whether the section shows its placeholder.
func (s Section) Empty() bool { return len(s.Cards) == 0 }

// Heading returns the section heading for category: the category name, or
// "Roadmaps" for the Roadmap category.
func Heading(category string) string {
	if category == models.CategoryRoadmap {
		return category + "s"
	}
	return category
}

// Placeholder is the text shown in a section with no cards.
func Placeholder(category string) string {
	return "No " + category + " courses found."
}

// Render groups projection into one Section per category, in category
// order, preserving the order of projection inside each section. A record
// whose category has no section lands in the fallback (Tools) section.
// Sections are rebuilt from scratch on every call.
func Render(projection []models.Course) []Section {
	sections := make([]Section, len(models.Categories))
	index := make(map[string]int, len(models.Categories))
	for i, cat := range models.Categories {
		lower := strings.ToLower(cat)
		sections[i] = Section{
			Category:    cat,
			Heading:     Heading(cat),
			ID:          "section-" + lower,
			GridID:      lower + "-grid",
			Placeholder: Placeholder(cat),
		}
		index[cat] = i
	}

	for _, rec := range projection {
		i, ok := index[rec.Category]
		if !ok {
			i = index[models.FallbackCategory]
		}
		sections[i].Cards = append(sections[i].Cards, NewCard(rec))
	}
	return sections
}

// NewCard builds the tile for rec.
func NewCard(rec models.Course) Card {
	img := rec.ImageURL
	if strings.TrimSpace(img) == "" {
		img = models.DefaultCourseImage
	}
	return Card{
		Key:         rec.Key,
		Title:       rec.Title,
		Description: rec.Description,
		Category:    rec.Category,
		ImageURL:    img,
		ImageAlt:    rec.Title + " image",
		CanDownload: rec.IsRoadmap() && rec.HasDocument(),
		DocumentURL: rec.DocumentURL,
	}
}

// CountCards returns the number of cards across sections.
func CountCards(sections []Section) int {
	n := 0
	for _, s := range sections {
		n += len(s.Cards)
	}
	return n
}
