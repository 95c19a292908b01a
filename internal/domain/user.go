package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleParticipant Role = "participant"
	RoleAdmin       Role = "admin"
)

// FellowshipStatus is the lifecycle state of a participant's fellowship.
type FellowshipStatus string

const (
	FellowshipActive    FellowshipStatus = "active"
	FellowshipSubmitted FellowshipStatus = "submitted"
	FellowshipApproved  FellowshipStatus = "approved"
	FellowshipRejected  FellowshipStatus = "rejected"
)

// User represents a fellowship participant or an admin reviewer.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Fellowship lifecycle ---
	// FellowshipStartDate is set once when the account is created; every
	// day count in the app derives from it.
	FellowshipStartDate time.Time        `bson:"fellowshipStartDate" json:"fellowshipStartDate"`
	FellowshipStatus    FellowshipStatus `bson:"fellowshipStatus" json:"fellowshipStatus"`
	SubmittedAt         *time.Time       `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`

	// --- Workspace membership ---
	HasJoinedWorkspace bool                `bson:"hasJoinedWorkspace" json:"hasJoinedWorkspace"`
	CurrentWorkspaceID *primitive.ObjectID `bson:"currentWorkspaceId,omitempty" json:"currentWorkspaceId,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
