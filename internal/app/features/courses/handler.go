// internal/app/features/courses/handler.go
package courses

import (
	"encoding/json"
	"html/template"
	"net/http"

	errorsfeature "github.com/dalemusser/coursehub/internal/app/features/errors"
	"github.com/dalemusser/coursehub/internal/app/system/catalog"
	"github.com/dalemusser/coursehub/internal/app/system/courseq"
	"github.com/dalemusser/coursehub/internal/app/system/courseview"
	"github.com/dalemusser/coursehub/internal/app/system/uistate"
	"github.com/dalemusser/coursehub/internal/app/system/viewdata"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the catalog page. It holds no per-user state: every
// request recomputes the view from its query parameters.
type Handler struct {
	Catalog  *catalog.Catalog
	Renderer *courseview.Renderer
	ErrLog   *errorsfeature.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(cat *catalog.Catalog, renderer *courseview.Renderer, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Catalog:  cat,
		Renderer: renderer,
		ErrLog:   errLog,
		Log:      logger,
	}
}

type filterButton struct {
	Value  string
	Label  string
	Active bool
}

type sortOption struct {
	Value    string
	Label    string
	Selected bool
}

type listData struct {
	viewdata.BaseVM

	Query    string
	Category string
	Sort     string

	Filters []filterButton
	Sorts   []sortOption

	Count    int
	Sections template.HTML
}

// view projects the catalog for q and renders the section fragment.
func (h *Handler) view(q courseq.State) (int, template.HTML, error) {
	projection := courseq.Project(h.Catalog, q)
	html, err := h.Renderer.Sections(courseview.Render(projection))
	return len(projection), html, err
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /courses – catalog page                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := courseq.FromValues(r.URL.Query())

	count, sections, err := h.view(q)
	if err != nil {
		h.ErrLog.ServerError(w, r, err, "Could not render courses.")
		return
	}

	// htmx swaps of the sections container get the fragment only.
	if r.Header.Get("HX-Request") != "" && r.Header.Get("HX-Target") == "course-sections" {
		writeFragment(w, sections)
		return
	}

	data := listData{
		BaseVM:   viewdata.NewBaseVM(r, "Courses", "/"),
		Query:    q.FreeText,
		Category: q.Category,
		Sort:     string(q.Sort),
		Count:    count,
		Sections: sections,
	}
	for _, c := range append([]string{models.CategoryAll}, models.Categories...) {
		data.Filters = append(data.Filters, filterButton{Value: c, Label: c, Active: c == q.Category})
	}
	for _, m := range courseq.SortModes {
		data.Sorts = append(data.Sorts, sortOption{Value: string(m), Label: m.Label(), Selected: m == q.Sort})
	}

	templates.Render(w, r, "courses_list", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /courses/sections – sections fragment                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSections(w http.ResponseWriter, r *http.Request) {
	_, sections, err := h.view(courseq.FromValues(r.URL.Query()))
	if err != nil {
		h.ErrLog.ServerError(w, r, err, "Could not render courses.")
		return
	}
	writeFragment(w, sections)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /courses/{id}/preview – modal fragment                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// ServePreview renders the course preview, or the document preview when
// kind=document. It backs the modal when no live session is connected.
func (h *Handler) ServePreview(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "id")
	rec, ok := h.Catalog.Get(key)
	if !ok {
		errorsfeature.RenderNotFound(w, r, "No such course.")
		return
	}

	m := uistate.Modal{Kind: uistate.ModalCourse, Course: rec}
	if r.URL.Query().Get("kind") == "document" {
		m.Kind = uistate.ModalDocument
	}
	html, err := h.Renderer.Modal(m)
	if err != nil {
		h.ErrLog.ServerError(w, r, err, "Could not render preview.")
		return
	}
	writeFragment(w, html)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/courses – projection as JSON                                       |
*─────────────────────────────────────────────────────────────────────────────*/

type apiResponse struct {
	Query   string          `json:"query"`
	Count   int             `json:"count"`
	Courses []models.Course `json:"courses"`
}

func (h *Handler) ServeJSON(w http.ResponseWriter, r *http.Request) {
	q := courseq.FromValues(r.URL.Query())
	projection := courseq.Project(h.Catalog, q)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(apiResponse{
		Query:   q.Values().Encode(),
		Count:   len(projection),
		Courses: projection,
	}); err != nil {
		h.Log.Warn("encode courses response", zap.Error(err))
	}
}

func writeFragment(w http.ResponseWriter, html template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}
