// Package courseq is the catalog query engine: free-text search, category
// filter and title sort over an immutable catalog.
//
// Project is pure. It never mutates its input and returns the same ordered
// output for the same arguments, so callers can run it on every keystroke.
package courseq

import (
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/dalemusser/coursehub/internal/app/system/catalog"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode selects the ordering of a projection.
type SortMode string

const (
	SortRecommended SortMode = "recommended" // catalog order
	SortAZ          SortMode = "az"
	SortZA          SortMode = "za"
)

// SortModes lists the modes in selector order.
var SortModes = []SortMode{SortRecommended, SortAZ, SortZA}

// Label is the text shown in the sort selector.
func (m SortMode) Label() string {
	switch m {
	case SortAZ:
		return "A → Z"
	case SortZA:
		return "Z → A"
	default:
		return "Recommended"
	}
}

// ParseSort maps a selector value to a SortMode. Unknown values fall back to
// SortRecommended.
func ParseSort(s string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortAZ:
		return SortAZ
	case SortZA:
		return SortZA
	default:
		return SortRecommended
	}
}

// ParseCategory maps a filter value to a category. Anything that is not an
// exact category name is treated as models.CategoryAll.
func ParseCategory(s string) string {
	s = strings.TrimSpace(s)
	if models.IsCategory(s) {
		return s
	}
	return models.CategoryAll
}

// State is the full set of control values the catalog page is driven by.
type State struct {
	FreeText string
	Category string
	Sort     SortMode
}

// DefaultState is the state of a freshly loaded page.
func DefaultState() State {
	return State{Category: models.CategoryAll, Sort: SortRecommended}
}

// FromValues reads a State from query parameters q, category and sort.
func FromValues(v url.Values) State {
	return State{
		FreeText: v.Get("q"),
		Category: ParseCategory(v.Get("category")),
		Sort:     ParseSort(v.Get("sort")),
	}
}

// Values encodes the State as query parameters, omitting defaults.
func (s State) Values() url.Values {
	v := url.Values{}
	if strings.TrimSpace(s.FreeText) != "" {
		v.Set("q", s.FreeText)
	}
	if s.Category != "" && s.Category != models.CategoryAll {
		v.Set("category", s.Category)
	}
	if s.Sort != "" && s.Sort != SortRecommended {
		v.Set("sort", string(s.Sort))
	}
	return v
}

// Project applies s to the catalog.
func Project(c *catalog.Catalog, s State) []models.Course {
	return ProjectRecords(c.All(), s)
}

// ProjectRecords applies s to records given in catalog order. The input
// slice is not modified.
func ProjectRecords(records []models.Course, s State) []models.Course {
	out := make([]models.Course, 0, len(records))

	needle := ""
	if strings.TrimSpace(s.FreeText) != "" {
		needle = text.Fold(strings.TrimSpace(s.FreeText))
	}
	category := s.Category
	if category == "" {
		category = models.CategoryAll
	}

	for _, rec := range records {
		if needle != "" && !strings.Contains(haystack(rec), needle) {
			continue
		}
		if category != models.CategoryAll && rec.Category != category {
			continue
		}
		out = append(out, rec)
	}

	switch s.Sort {
	case SortAZ:
		sortByTitle(out, false)
	case SortZA:
		sortByTitle(out, true)
	}
	return out
}

func haystack(rec models.Course) string {
	return text.Fold(rec.Title + " " + rec.Description + " " + rec.Category)
}

// collate.Collator keeps internal buffers and is not safe for concurrent use.
var collators = sync.Pool{
	New: func() any { return collate.New(language.English) },
}

// CompareTitles orders two titles the way the A → Z sort does.
func CompareTitles(a, b string) int {
	col := collators.Get().(*collate.Collator)
	defer collators.Put(col)
	return col.CompareString(a, b)
}

func sortByTitle(recs []models.Course, desc bool) {
	col := collators.Get().(*collate.Collator)
	defer collators.Put(col)

	sort.SliceStable(recs, func(i, j int) bool {
		if desc {
			return col.CompareString(recs[j].Title, recs[i].Title) < 0
		}
		return col.CompareString(recs[i].Title, recs[j].Title) < 0
	})
}
