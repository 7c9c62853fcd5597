package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is a single catalog record.
//
// Key is the stable string id used in URLs and page markup ("html",
// "roadmap-frontend"); ID is the Mongo _id. Position is the insertion order
// of the record in the catalog and drives the "recommended" sort.
type Course struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-" yaml:"-"`
	Key      string             `bson:"key" json:"id" yaml:"id"`
	Title    string             `bson:"title" json:"title" yaml:"title"`
	Category string             `bson:"category" json:"category" yaml:"category"`

	Description string `bson:"description" json:"description" yaml:"description"`
	Details     string `bson:"details,omitempty" json:"details,omitempty" yaml:"details,omitempty"` // markdown

	ImageURL    string `bson:"image_url,omitempty" json:"image_url,omitempty" yaml:"image"`
	DocumentURL string `bson:"document_url,omitempty" json:"document_url,omitempty" yaml:"document,omitempty"`

	Position int `bson:"position" json:"position" yaml:"-"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at" yaml:"-"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty" yaml:"-"`
}

// HasDocument reports whether the record carries a previewable document.
func (c Course) HasDocument() bool {
	return c.DocumentURL != ""
}

// IsRoadmap reports whether the record belongs to the Roadmap category.
func (c Course) IsRoadmap() bool {
	return c.Category == CategoryRoadmap
}

// DefaultCourseImage is shown when a record has no image.
const DefaultCourseImage = "https://via.placeholder.com/720x360.png?text=Course"
