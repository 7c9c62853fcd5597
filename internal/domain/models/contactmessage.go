package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact message delivery outcomes.
const (
	ContactStatusPending   = "pending"
	ContactStatusSent      = "sent"
	ContactStatusRejected  = "rejected"
	ContactStatusTransport = "transport_error"
)

// ContactMessage is a contact form submission as relayed to the remote form
// endpoint. The JSON shape is the wire payload the endpoint expects.
type ContactMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	RequestID string             `bson:"request_id" json:"-"`

	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	Contact string `bson:"contact" json:"contact"`
	Message string `bson:"message" json:"message"`

	Status     string     `bson:"status" json:"-"`
	StatusCode int        `bson:"status_code,omitempty" json:"-"`
	Error      string     `bson:"error,omitempty" json:"-"`
	ClientIP   string     `bson:"client_ip,omitempty" json:"-"`
	CreatedAt  time.Time  `bson:"created_at" json:"-"`
	SentAt     *time.Time `bson:"sent_at,omitempty" json:"-"`
}
