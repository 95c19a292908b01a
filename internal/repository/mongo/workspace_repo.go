package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"vamo/fellowship-app/internal/domain"
	"vamo/fellowship-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	workspaceCollectionName       = "workspaces"
	workspaceMemberCollectionName = "workspace_members"
)

// mongoWorkspaceRepository implements repository.WorkspaceRepository using
// two collections: one for workspaces and one for membership rows.
type mongoWorkspaceRepository struct {
	workspaces *mongo.Collection
	members    *mongo.Collection
}

// NewMongoWorkspaceRepository creates a new Workspace repository backed by MongoDB.
func NewMongoWorkspaceRepository(db *mongo.Database) repository.WorkspaceRepository {
	return &mongoWorkspaceRepository{
		workspaces: db.Collection(workspaceCollectionName),
		members:    db.Collection(workspaceMemberCollectionName),
	}
}

// Create inserts a new workspace.
func (r *mongoWorkspaceRepository) Create(ctx context.Context, ws *domain.Workspace) (primitive.ObjectID, error) {
	if ws.Name == "" || ws.DisplayName == "" {
		return primitive.NilObjectID, errors.New("workspace name and display name are required")
	}

	ws.ID = primitive.NewObjectID()
	ws.CreatedAt = time.Now().UTC()

	result, err := r.workspaces.InsertOne(ctx, ws)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a workspace by its ID.
func (r *mongoWorkspaceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workspace, error) {
	var ws domain.Workspace
	err := r.workspaces.FindOne(ctx, bson.M{"_id": id}).Decode(&ws)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &ws, nil
}

// Search matches workspaces by name or display name, case-insensitive
// substring match, capped at limit.
func (r *mongoWorkspaceRepository) Search(ctx context.Context, query string, limit int) ([]domain.Workspace, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"$or": []bson.M{
			{"name": pattern},
			{"displayName": pattern},
		},
	}
	findOptions := options.Find().SetLimit(int64(limit))

	cursor, err := r.workspaces.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workspaces []domain.Workspace
	if err = cursor.All(ctx, &workspaces); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return workspaces, nil
}

// CountMembers counts membership rows for a workspace.
func (r *mongoWorkspaceRepository) CountMembers(ctx context.Context, workspaceID primitive.ObjectID) (int64, error) {
	return r.members.CountDocuments(ctx, bson.M{"workspaceId": workspaceID})
}

// AddMember inserts a membership row. The unique (userId, workspaceId)
// index turns a repeat join into ErrDuplicate.
func (r *mongoWorkspaceRepository) AddMember(ctx context.Context, member *domain.WorkspaceMember) error {
	if member.UserID == primitive.NilObjectID || member.WorkspaceID == primitive.NilObjectID {
		return errors.New("member requires userId and workspaceId")
	}

	member.ID = primitive.NewObjectID()
	member.JoinedAt = time.Now().UTC()
	if member.Role == "" {
		member.Role = "member"
	}

	_, err := r.members.InsertOne(ctx, member)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// IsMember reports whether the user already belongs to the workspace.
func (r *mongoWorkspaceRepository) IsMember(ctx context.Context, userID, workspaceID primitive.ObjectID) (bool, error) {
	count, err := r.members.CountDocuments(ctx, bson.M{"userId": userID, "workspaceId": workspaceID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// EnsureWorkspaceIndexes creates necessary indexes for workspaces and
// membership rows.
func EnsureWorkspaceIndexes(ctx context.Context, workspaces, members *mongo.Collection) {
	_, err := workspaces.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		// Non-fatal; see EnsureUserIndexes.
	}

	_, err = members.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "workspaceId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "workspaceId", Value: 1}},
			Options: options.Index(),
		},
	})
	if err != nil {
		// Non-fatal.
	}
}
