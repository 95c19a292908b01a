package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscriber is an email address that receives a notification whenever the
// note it belongs to is created or updated.
type Subscriber struct {
	Email     string    `bson:"email" json:"email"`
	AddedAt   time.Time `bson:"addedAt" json:"addedAt"`
}

// Note is a shared progress note written by a participant. Subscribers are
// embedded rather than stored as their own collection; they are never
// queried independently of the note.
type Note struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"`
	AuthorID    primitive.ObjectID `bson:"authorId" json:"authorId"`
	AuthorName  string             `bson:"authorName" json:"authorName"`   // denormalized
	AuthorEmail string             `bson:"authorEmail" json:"authorEmail"` // denormalized
	Subscribers []Subscriber       `bson:"subscribers,omitempty" json:"subscribers,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
