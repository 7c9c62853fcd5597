package metricsstore

import (
	"context"

	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals shown on the dashboard tiles.
type Counts struct {
	Courses     int64
	Categories  int64
	Roadmaps    int64
	Enrollments int64
	Messages    int64
}

// FetchDashboardCounts returns the totals used by the dashboard.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database) Counts {
	var out Counts

	courses := db.Collection("courses")

	// courses
	if n, err := courses.CountDocuments(ctx, bson.M{}); err == nil {
		out.Courses = n
	}

	// distinct categories
	if vals, err := courses.Distinct(ctx, "category", bson.M{}); err == nil {
		out.Categories = int64(len(vals))
	}

	// roadmaps
	if n, err := courses.CountDocuments(ctx, bson.M{"category": models.CategoryRoadmap}); err == nil {
		out.Roadmaps = n
	}

	// enrollments
	if n, err := db.Collection("enrollments").CountDocuments(ctx, bson.M{}); err == nil {
		out.Enrollments = n
	}

	// delivered contact messages
	if n, err := db.Collection("contact_messages").CountDocuments(ctx, bson.M{"status": models.ContactStatusSent}); err == nil {
		out.Messages = n
	}

	return out
}
