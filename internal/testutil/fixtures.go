package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/coursehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateCourse inserts a catalog record at position pos.
func (f *Fixtures) CreateCourse(ctx context.Context, key, title, category string, pos int) models.Course {
	f.t.Helper()

	c := models.Course{
		ID:          primitive.NewObjectID(),
		Key:         key,
		Title:       title,
		Category:    category,
		Description: title + " course.",
		Position:    pos,
		CreatedAt:   time.Now().UTC(),
	}
	if category == models.CategoryRoadmap {
		c.DocumentURL = "roadmaps/" + key + ".pdf"
	}
	if _, err := f.db.Collection("courses").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test course: %v", err)
	}
	return c
}

// CreateEnrollment records an enrollment in courseKey.
func (f *Fixtures) CreateEnrollment(ctx context.Context, courseKey, sessionID string) models.Enrollment {
	f.t.Helper()

	e := models.Enrollment{
		ID:        primitive.NewObjectID(),
		CourseKey: courseKey,
		Title:     courseKey,
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("enrollments").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test enrollment: %v", err)
	}
	return e
}

// CreateContactMessage stores a contact message with the given status.
func (f *Fixtures) CreateContactMessage(ctx context.Context, email, status string) models.ContactMessage {
	f.t.Helper()

	m := models.ContactMessage{
		ID:        primitive.NewObjectID(),
		RequestID: primitive.NewObjectID().Hex(),
		Name:      "Test Sender",
		Email:     email,
		Message:   "Hello",
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("contact_messages").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test contact message: %v", err)
	}
	return m
}
