// internal/app/store/enrollments/enrollmentstore.go
package enrollmentstore

import (
	"context"
	"time"

	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store records confirmed enrollments.
type Store struct {
	c *mongo.Collection
}

// New creates a new enrollment store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("enrollments")}
}

// EnsureIndexes creates indexes for per-course and recent lookups.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "course_key", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_enrollment_course"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_enrollment_created"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts an enrollment for course and returns it with ID and
// CreatedAt filled in.
func (s *Store) Create(ctx context.Context, course models.Course, sessionID string) (models.Enrollment, error) {
	e := models.Enrollment{
		ID:        primitive.NewObjectID(),
		CourseKey: course.Key,
		Title:     course.Title,
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Enrollment{}, err
	}
	return e, nil
}

// Count returns the total number of enrollments.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CountForCourse returns the number of enrollments in one course.
func (s *Store) CountForCourse(ctx context.Context, courseKey string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"course_key": courseKey})
}

// ListRecent returns up to limit enrollments, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int64) ([]models.Enrollment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Enrollment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
