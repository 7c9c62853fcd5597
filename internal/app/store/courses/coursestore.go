// internal/app/store/courses/coursestore.go
package coursestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrEmptyCatalog is returned by ReplaceAll when asked to store no records.
var ErrEmptyCatalog = errors.New("coursestore: no records to store")

// Store provides access to the courses collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new course store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("courses")}
}

// EnsureIndexes creates the key and position indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetName("uniq_course_key").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "position", Value: 1}},
			Options: options.Index().SetName("idx_course_position"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index().SetName("idx_course_category_position"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// List returns every course in catalog order.
func (s *Store) List(ctx context.Context) ([]models.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Course
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByKey returns the course with the given string key.
// Returns mongo.ErrNoDocuments if it does not exist.
func (s *Store) GetByKey(ctx context.Context, key string) (models.Course, error) {
	var c models.Course
	err := s.c.FindOne(ctx, bson.M{"key": key}).Decode(&c)
	return c, err
}

// Count returns the number of stored courses.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CountByCategory returns the number of courses in category.
func (s *Store) CountByCategory(ctx context.Context, category string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"category": category})
}

// ReplaceAll swaps the stored catalog for recs. Positions are rewritten to
// slice order. Keys present in the collection but absent from recs are removed.
func (s *Store) ReplaceAll(ctx context.Context, recs []models.Course) error {
	if len(recs) == 0 {
		return ErrEmptyCatalog
	}

	now := time.Now().UTC()
	keys := make([]string, 0, len(recs))
	writes := make([]mongo.WriteModel, 0, len(recs))
	for i, rec := range recs {
		keys = append(keys, rec.Key)
		update := bson.M{
			"$set": bson.M{
				"title":        rec.Title,
				"category":     rec.Category,
				"description":  rec.Description,
				"details":      rec.Details,
				"image_url":    rec.ImageURL,
				"document_url": rec.DocumentURL,
				"position":     i,
				"updated_at":   now,
			},
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID(),
				"key":        rec.Key,
				"created_at": now,
			},
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"key": rec.Key}).
			SetUpdate(update).
			SetUpsert(true))
	}

	if _, err := s.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("upsert courses: %w", err)
	}
	if _, err := s.c.DeleteMany(ctx, bson.M{"key": bson.M{"$nin": keys}}); err != nil {
		return fmt.Errorf("prune courses: %w", err)
	}
	return nil
}

// SeedIfEmpty stores recs only when the collection holds no courses.
// It reports whether anything was written.
func (s *Store) SeedIfEmpty(ctx context.Context, recs []models.Course) (bool, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := s.ReplaceAll(ctx, recs); err != nil {
		return false, err
	}
	return true, nil
}
