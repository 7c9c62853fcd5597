package catalog

import (
	"fmt"
	"strings"

	"github.com/dalemusser/coursehub/internal/domain/models"
)

// Severity classifies a validation Problem.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Problem describes one invariant violation for a record.
type Problem struct {
	Index    int
	Key      string
	Severity Severity
	Message  string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: record %d (%q): %s", p.Severity, p.Index, p.Key, p.Message)
}

// Validate checks records against the catalog invariants.
//
// Errors: empty id, duplicate id, empty title.
// Warnings: unknown category (the renderer places these under Tools), a
// document on a non-Roadmap record, a Roadmap record without a document.
func Validate(records []models.Course) []Problem {
	var out []Problem
	seen := make(map[string]int, len(records))

	for i, rec := range records {
		add := func(sev Severity, format string, args ...any) {
			out = append(out, Problem{
				Index:    i,
				Key:      rec.Key,
				Severity: sev,
				Message:  fmt.Sprintf(format, args...),
			})
		}

		key := strings.TrimSpace(rec.Key)
		switch {
		case key == "":
			add(SeverityError, "id is empty")
		default:
			if prev, dup := seen[key]; dup {
				add(SeverityError, "duplicate id (first seen at record %d)", prev)
			} else {
				seen[key] = i
			}
		}

		if strings.TrimSpace(rec.Title) == "" {
			add(SeverityError, "title is empty")
		}

		if !models.IsCategory(rec.Category) {
			add(SeverityWarning, "unknown category %q, will be shown under %s", rec.Category, models.FallbackCategory)
		}

		switch {
		case rec.IsRoadmap() && !rec.HasDocument():
			add(SeverityWarning, "roadmap has no document")
		case !rec.IsRoadmap() && rec.HasDocument():
			add(SeverityWarning, "document set on a %s record", rec.Category)
		}
	}
	return out
}

func joinProblems(ps []Problem) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "; ")
}
