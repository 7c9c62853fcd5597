package courseview_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dalemusser/coursehub/internal/app/system/catalog"
	"github.com/dalemusser/coursehub/internal/app/system/courseq"
	"github.com/dalemusser/coursehub/internal/app/system/courseview"
	"github.com/dalemusser/coursehub/internal/app/system/uistate"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardKeys(s courseview.Section) []string {
	out := make([]string, 0, len(s.Cards))
	for _, c := range s.Cards {
		out = append(out, c.Key)
	}
	return out
}

func TestRender_SectionsInCategoryOrder(t *testing.T) {
	sections := courseview.Render(catalog.Default())
	require.Len(t, sections, len(models.Categories))
	for i, cat := range models.Categories {
		assert.Equal(t, cat, sections[i].Category)
	}
	assert.Equal(t, "Roadmaps", sections[4].Heading)
	assert.Equal(t, "Frontend", sections[0].Heading)
	assert.Equal(t, "section-database", sections[2].ID)
	assert.Equal(t, "database-grid", sections[2].GridID)
	assert.Equal(t, 18, courseview.CountCards(sections))
}

func TestRender_EmptySectionsGetPlaceholder(t *testing.T) {
	c, _, err := catalog.New(catalog.Default())
	require.NoError(t, err)

	proj := courseq.Project(c, courseq.State{FreeText: "mongo", Category: models.CategoryAll})
	sections := courseview.Render(proj)

	for _, s := range sections {
		if s.Category == models.CategoryDatabase {
			assert.Equal(t, []string{"mongodb"}, cardKeys(s))
			continue
		}
		assert.True(t, s.Empty(), s.Category)
		assert.Equal(t, fmt.Sprintf("No %s courses found.", s.Category), s.Placeholder)
	}
}

func TestRender_UnknownCategoryFallsBackToTools(t *testing.T) {
	proj := []models.Course{
		{Key: "git", Title: "Git", Category: models.CategoryTools},
		{Key: "design", Title: "Design", Category: "Design"},
	}
	sections := courseview.Render(proj)
	assert.Equal(t, []string{"git", "design"}, cardKeys(sections[3]))
	assert.Equal(t, "Design", sections[3].Cards[1].Category, "card keeps its own category")
}

func TestRender_PreservesProjectionOrder(t *testing.T) {
	c, _, err := catalog.New(catalog.Default())
	require.NoError(t, err)

	proj := courseq.Project(c, courseq.State{Category: models.CategoryAll, Sort: courseq.SortZA})
	sections := courseview.Render(proj)
	assert.Equal(t, []string{"typescript", "react", "javascript", "html", "css", "bootstrap"}, cardKeys(sections[0]))
}

func TestNewCard(t *testing.T) {
	card := courseview.NewCard(models.Course{Key: "x", Title: "X", Category: models.CategoryTools})
	assert.Equal(t, models.DefaultCourseImage, card.ImageURL)
	assert.Equal(t, "X image", card.ImageAlt)
	assert.False(t, card.CanDownload)

	rm := courseview.NewCard(models.Course{Key: "r", Title: "R", Category: models.CategoryRoadmap, DocumentURL: "r.pdf"})
	assert.True(t, rm.CanDownload)

	// A document on a non-roadmap record never shows the download action.
	odd := courseview.NewCard(models.Course{Key: "o", Title: "O", Category: models.CategoryFrontend, DocumentURL: "o.pdf"})
	assert.False(t, odd.CanDownload)
}

func TestRender_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(2468)
	properties := gopter.NewProperties(parameters)

	categories := append(append([]string{}, models.Categories...), "Design", "")
	recordGen := gen.SliceOf(gen.IntRange(0, len(categories)-1))

	build := func(cats []int) []models.Course {
		recs := make([]models.Course, len(cats))
		for i, ci := range cats {
			recs[i] = models.Course{Key: fmt.Sprintf("k%d", i), Title: fmt.Sprintf("T%d", i), Category: categories[ci]}
		}
		return recs
	}

	properties.Property("every record appears exactly once", prop.ForAll(
		func(cats []int) bool {
			recs := build(cats)
			seen := map[string]int{}
			for _, s := range courseview.Render(recs) {
				for _, c := range s.Cards {
					seen[c.Key]++
				}
			}
			if len(seen) != len(recs) {
				return false
			}
			for _, n := range seen {
				if n != 1 {
					return false
				}
			}
			return true
		},
		recordGen,
	))

	properties.Property("placeholder shown iff section empty", prop.ForAll(
		func(cats []int) bool {
			for _, s := range courseview.Render(build(cats)) {
				if s.Empty() != (len(s.Cards) == 0) || s.Placeholder == "" {
					return false
				}
			}
			return true
		},
		recordGen,
	))

	properties.Property("known categories land in their own section", prop.ForAll(
		func(cats []int) bool {
			for _, s := range courseview.Render(build(cats)) {
				for _, c := range s.Cards {
					if models.IsCategory(c.Category) && c.Category != s.Category {
						return false
					}
					if !models.IsCategory(c.Category) && s.Category != models.FallbackCategory {
						return false
					}
				}
			}
			return true
		},
		recordGen,
	))

	properties.TestingRun(t)
}

func TestRenderer_Sections(t *testing.T) {
	r := courseview.MustRenderer()

	html, err := r.Sections(courseview.Render([]models.Course{
		{Key: "rm", Title: "Frontend Roadmap", Category: models.CategoryRoadmap, Description: "Path <b>one</b>", DocumentURL: "roadmaps/frontend.pdf"},
	}))
	require.NoError(t, err)
	out := string(html)

	assert.Contains(t, out, `id="section-roadmap"`)
	assert.Contains(t, out, `<h2>Roadmaps</h2>`)
	assert.Contains(t, out, `No Frontend courses found.`)
	assert.Contains(t, out, `ENROLL NOW`)
	assert.Contains(t, out, `Download Roadmap`)
	assert.Contains(t, out, `data-action="download"`)
	assert.Contains(t, out, "Path &lt;b&gt;one&lt;/b&gt;", "descriptions are escaped")
	assert.Equal(t, 5, strings.Count(out, `class="course-section"`))
}

func TestRenderer_CourseModal(t *testing.T) {
	r := courseview.MustRenderer()
	store := uistate.New()

	html, err := r.Modal(store.Modal())
	require.NoError(t, err)
	assert.Empty(t, html, "closed modal renders nothing")

	store.OpenCourse(models.Course{
		Key: "html", Title: "HTML", Category: models.CategoryFrontend,
		Description: "Structure.", Details: "- Forms\n- Accessibility\n",
	})
	html, err = r.Modal(store.Modal())
	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, "Category: Frontend")
	assert.Contains(t, out, "Confirm Enroll")
	assert.Contains(t, out, "<li>Forms</li>")
	assert.Contains(t, out, models.DefaultCourseImage)

	store.ConfirmEnroll()
	html, err = r.Modal(store.Modal())
	require.NoError(t, err)
	assert.Contains(t, string(html), "Enrolled ✓")
	assert.Contains(t, string(html), "disabled")
	assert.NotContains(t, string(html), "Confirm Enroll")
}

func TestRenderer_DocumentModal(t *testing.T) {
	r := courseview.MustRenderer()
	store := uistate.New()

	store.OpenDocument(models.Course{Key: "rm", Title: "Backend Roadmap", Category: models.CategoryRoadmap, DocumentURL: "roadmaps/backend.pdf"})
	html, err := r.Modal(store.Modal())
	require.NoError(t, err)
	assert.Contains(t, string(html), `<iframe src="roadmaps/backend.pdf"`)
	assert.Contains(t, string(html), "Download PDF")

	store.OpenDocument(models.Course{Key: "rm2", Title: "Empty Roadmap", Category: models.CategoryRoadmap})
	html, err = r.Modal(store.Modal())
	require.NoError(t, err)
	assert.Contains(t, string(html), "No preview available.")
	assert.NotContains(t, string(html), "<iframe")
}
