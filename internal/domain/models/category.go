// internal/domain/models/category.go
package models

// Canonical course category identifiers.
//
// These values are stored in the courses collection and double as the
// section keys on the catalog page. Order matters: sections render in the
// order of Categories.
const (
	CategoryFrontend = "Frontend"
	CategoryBackend  = "Backend"
	CategoryDatabase = "Database"
	CategoryTools    = "Tools"
	CategoryRoadmap  = "Roadmap"
)

// CategoryAll is the filter value that matches every category.
const CategoryAll = "All"

// Categories is the full, ordered set of allowed categories.
var Categories = []string{
	CategoryFrontend,
	CategoryBackend,
	CategoryDatabase,
	CategoryTools,
	CategoryRoadmap,
}

// FallbackCategory receives records whose category has no section.
const FallbackCategory = CategoryTools

// IsCategory reports whether c is one of Categories (exact match).
func IsCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
