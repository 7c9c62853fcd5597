package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enrollment records a confirmed "Confirm Enroll" click from a course preview.
type Enrollment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseKey string             `bson:"course_key" json:"course_key"`
	Title     string             `bson:"title" json:"title"`
	SessionID string             `bson:"session_id,omitempty" json:"session_id,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
