// Package catalog holds the immutable, ordered course catalog.
//
// A Catalog is built once at startup (from the courses collection or a YAML
// file) and then shared read-only by every handler and live session. Nothing
// in the package mutates a Catalog after New returns, so it is safe for
// concurrent use without locking.
package catalog

import (
	"errors"
	"fmt"

	"github.com/dalemusser/coursehub/internal/domain/models"
)

// ErrInvalid is returned by New when the records violate a hard invariant
// (duplicate or empty id, empty title).
var ErrInvalid = errors.New("catalog: invalid records")

// Catalog is an ordered, read-only set of course records.
type Catalog struct {
	courses []models.Course
	byKey   map[string]int
}

// New builds a Catalog from records in insertion order. Position is
// rewritten to match the slice order. Hard problems make New fail; soft
// problems are returned as warnings alongside a usable Catalog.
func New(records []models.Course) (*Catalog, []Problem, error) {
	problems := Validate(records)

	var hard []Problem
	var soft []Problem
	for _, p := range problems {
		if p.Severity == SeverityError {
			hard = append(hard, p)
		} else {
			soft = append(soft, p)
		}
	}
	if len(hard) > 0 {
		return nil, soft, fmt.Errorf("%w: %s", ErrInvalid, joinProblems(hard))
	}

	c := &Catalog{
		courses: make([]models.Course, len(records)),
		byKey:   make(map[string]int, len(records)),
	}
	for i, rec := range records {
		rec.Position = i
		c.courses[i] = rec
		c.byKey[rec.Key] = i
	}
	return c, soft, nil
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.courses)
}

// All returns a copy of the records in catalog order.
func (c *Catalog) All() []models.Course {
	if c == nil {
		return nil
	}
	out := make([]models.Course, len(c.courses))
	copy(out, c.courses)
	return out
}

// Get looks a record up by its string key.
func (c *Catalog) Get(key string) (models.Course, bool) {
	if c == nil {
		return models.Course{}, false
	}
	i, ok := c.byKey[key]
	if !ok {
		return models.Course{}, false
	}
	return c.courses[i], true
}

// CountCategory returns how many records carry category cat.
func (c *Catalog) CountCategory(cat string) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, rec := range c.courses {
		if rec.Category == cat {
			n++
		}
	}
	return n
}

// CategoriesInUse returns the distinct categories present, in the canonical
// order of models.Categories followed by any unknown ones in catalog order.
func (c *Catalog) CategoriesInUse() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]bool)
	for _, rec := range c.courses {
		seen[rec.Category] = true
	}
	var out []string
	for _, cat := range models.Categories {
		if seen[cat] {
			out = append(out, cat)
			delete(seen, cat)
		}
	}
	for _, rec := range c.courses {
		if seen[rec.Category] {
			out = append(out, rec.Category)
			delete(seen, rec.Category)
		}
	}
	return out
}
