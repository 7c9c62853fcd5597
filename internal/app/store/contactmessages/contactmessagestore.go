// internal/app/store/contactmessages/contactmessagestore.go
package contactmessagestore

import (
	"context"
	"time"

	"github.com/dalemusser/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store keeps a diagnostic record of every contact form submission.
type Store struct {
	c *mongo.Collection
}

// New creates a new contact message store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contact_messages")}
}

// EnsureIndexes creates the request id and status indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "request_id", Value: 1}},
			Options: options.Index().SetName("uniq_contact_request").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_contact_status"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create stores m as pending. ID, Status and CreatedAt are filled in.
func (s *Store) Create(ctx context.Context, m models.ContactMessage) (models.ContactMessage, error) {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	m.Status = models.ContactStatusPending
	m.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.ContactMessage{}, err
	}
	return m, nil
}

// MarkSent records a successful relay.
func (s *Store) MarkSent(ctx context.Context, id primitive.ObjectID, statusCode int) error {
	now := time.Now().UTC()
	return s.setStatus(ctx, id, bson.M{
		"status":      models.ContactStatusSent,
		"status_code": statusCode,
		"sent_at":     now,
	})
}

// MarkFailed records a rejected or undelivered relay. A zero statusCode
// means the endpoint was never reached.
func (s *Store) MarkFailed(ctx context.Context, id primitive.ObjectID, statusCode int, cause error) error {
	status := models.ContactStatusRejected
	if statusCode == 0 {
		status = models.ContactStatusTransport
	}
	set := bson.M{"status": status}
	if statusCode != 0 {
		set["status_code"] = statusCode
	}
	if cause != nil {
		set["error"] = cause.Error()
	}
	return s.setStatus(ctx, id, set)
}

func (s *Store) setStatus(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetByID returns a stored message.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ContactMessage, error) {
	var m models.ContactMessage
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	return m, err
}

// Count returns the number of stored messages.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CountByStatus returns the number of messages with status.
func (s *Store) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": status})
}
