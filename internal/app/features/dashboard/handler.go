// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"encoding/json"
	"net/http"

	metricsstore "github.com/dalemusser/coursehub/internal/app/store/metrics"
	"github.com/dalemusser/coursehub/internal/app/system/catalog"
	"github.com/dalemusser/coursehub/internal/app/system/counter"
	"github.com/dalemusser/coursehub/internal/app/system/courseview"
	"github.com/dalemusser/coursehub/internal/app/system/timeouts"
	"github.com/dalemusser/coursehub/internal/app/system/viewdata"
	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// featuredCount is how many courses the dashboard highlights.
const featuredCount = 3

type Handler struct {
	DB      *mongo.Database
	Catalog *catalog.Catalog
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, cat *catalog.Catalog, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Catalog: cat,
		Log:     logger,
	}
}

// Tile is one dashboard counter.
type Tile struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int64  `json:"value"`
	Text  string `json:"text"`
}

type dashboardData struct {
	viewdata.BaseVM
	Tiles    []Tile
	Featured []courseview.Card
}

// Tile keys, in display order.
const (
	TileCourses     = "courses"
	TileCategories  = "categories"
	TileRoadmaps    = "roadmaps"
	TileEnrollments = "enrollments"
	TileMessages    = "messages"
)

// TileKeys returns every tile key in display order.
func TileKeys() []string {
	return []string{TileCourses, TileCategories, TileRoadmaps, TileEnrollments, TileMessages}
}

// Tiles returns the counters for the dashboard. Catalog figures come from
// the database when it has been seeded and from the in-memory catalog
// otherwise; enrollments and messages always come from the database.
func (h *Handler) Tiles(ctx context.Context) []Tile {
	var counts metricsstore.Counts
	if h.DB != nil {
		counts = metricsstore.FetchDashboardCounts(ctx, h.DB)
	}
	if counts.Courses == 0 && h.Catalog != nil {
		counts.Courses = int64(h.Catalog.Len())
		counts.Categories = int64(len(h.Catalog.CategoriesInUse()))
		counts.Roadmaps = int64(h.Catalog.CountCategory(models.CategoryRoadmap))
	}

	tiles := []Tile{
		{Key: TileCourses, Label: "Courses", Value: counts.Courses},
		{Key: TileCategories, Label: "Categories", Value: counts.Categories},
		{Key: TileRoadmaps, Label: "Roadmaps", Value: counts.Roadmaps},
		{Key: TileEnrollments, Label: "Enrollments", Value: counts.Enrollments},
		{Key: TileMessages, Label: "Messages", Value: counts.Messages},
	}
	for i := range tiles {
		tiles[i].Text = counter.Format(int(tiles[i].Value))
	}
	return tiles
}

// featured picks the first non-roadmap courses in catalog order.
func (h *Handler) featured() []courseview.Card {
	var out []courseview.Card
	if h.Catalog == nil {
		return out
	}
	for _, rec := range h.Catalog.All() {
		if rec.IsRoadmap() {
			continue
		}
		out = append(out, courseview.NewCard(rec))
		if len(out) == featuredCount {
			break
		}
	}
	return out
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / and /dashboard – dashboard                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := dashboardData{
		BaseVM:   viewdata.NewBaseVM(r, "Dashboard", "/"),
		Tiles:    h.Tiles(ctx),
		Featured: h.featured(),
	}

	h.Log.Debug("dashboard served", zap.String("path", r.URL.Path))

	templates.Render(w, r, "dashboard", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/stats – tile values as JSON                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.Tiles(ctx)); err != nil {
		h.Log.Warn("encode dashboard stats", zap.Error(err))
	}
}
