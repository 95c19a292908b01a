package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PhotoSource records how a photo entered the system.
type PhotoSource string

const (
	PhotoSourceEmail  PhotoSource = "email"
	PhotoSourceUpload PhotoSource = "upload"
)

// Photo is a progress photo belonging to a participant. Image bytes live in
// object storage under ObjectKey.
type Photo struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Filename  string             `bson:"filename" json:"filename"`
	ObjectKey string             `bson:"objectKey" json:"-"`
	Caption   string             `bson:"caption,omitempty" json:"caption,omitempty"`
	Source    PhotoSource        `bson:"source" json:"source"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
