package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workspace is a named group participants can join.
type Workspace struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"` // lowercase, unique
	DisplayName string             `bson:"displayName" json:"displayName"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// WorkspaceMember links a user to a workspace. The (userId, workspaceId)
// pair is unique.
type WorkspaceMember struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	WorkspaceID primitive.ObjectID `bson:"workspaceId" json:"workspaceId"`
	Role        string             `bson:"role" json:"role"` // "member" or "owner"
	JoinedAt    time.Time          `bson:"joinedAt" json:"joinedAt"`
}
