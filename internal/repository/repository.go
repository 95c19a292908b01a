package repository

import (
	"context"
	"time"

	"vamo/fellowship-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate record")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// ListByFellowshipStatus returns users whose fellowship status is in the
	// given set, most recently submitted first.
	ListByFellowshipStatus(ctx context.Context, statuses ...domain.FellowshipStatus) ([]domain.User, error)
	// UpdateFellowshipStatus sets the status and, when submittedAt is
	// non-nil, the submission timestamp.
	UpdateFellowshipStatus(ctx context.Context, id primitive.ObjectID, status domain.FellowshipStatus, submittedAt *time.Time) error
	SetWorkspace(ctx context.Context, userID, workspaceID primitive.ObjectID) error
}

// ProofRepository defines the interface for interacting with customer proofs.
type ProofRepository interface {
	Create(ctx context.Context, proof *domain.CustomerProof) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CustomerProof, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.CustomerProof, error)
	CountByUserID(ctx context.Context, userID primitive.ObjectID) (int, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// NoteRepository defines the interface for interacting with notes.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Note, error)
	List(ctx context.Context) ([]domain.Note, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PhotoRepository defines the interface for interacting with photo metadata.
type PhotoRepository interface {
	Create(ctx context.Context, photo *domain.Photo) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Photo, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Photo, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkspaceRepository defines the interface for interacting with workspaces
// and their membership rows.
type WorkspaceRepository interface {
	Create(ctx context.Context, ws *domain.Workspace) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workspace, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Workspace, error)
	CountMembers(ctx context.Context, workspaceID primitive.ObjectID) (int64, error)
	AddMember(ctx context.Context, member *domain.WorkspaceMember) error
	IsMember(ctx context.Context, userID, workspaceID primitive.ObjectID) (bool, error)
}
