package mongo

import (
	"context"
	"errors"
	"time"

	"vamo/fellowship-app/internal/domain"
	"vamo/fellowship-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user into the database.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	// Essential fields; richer validation belongs in the service layer.
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user email, password hash, and role are required")
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.FellowshipStartDate.IsZero() {
		user.FellowshipStartDate = now
	}
	if user.FellowshipStatus == "" {
		user.FellowshipStatus = domain.FellowshipActive
	}

	result, err := r.collection.InsertOne(ctx, user)
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

// GetByEmail retrieves a user by their email address.
func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	filter := bson.M{"email": email}

	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by their MongoDB ObjectID.
func (r *mongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var user domain.User
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListByFellowshipStatus retrieves users whose fellowship status is in the
// given set, most recently submitted first.
func (r *mongoUserRepository) ListByFellowshipStatus(ctx context.Context, statuses ...domain.FellowshipStatus) ([]domain.User, error) {
	if len(statuses) == 0 {
		return []domain.User{}, nil
	}

	filter := bson.M{"fellowshipStatus": bson.M{"$in": statuses}}
	findOptions := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []domain.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// UpdateFellowshipStatus sets the fellowship status for a user and, when
// submittedAt is non-nil, stamps the submission time.
func (r *mongoUserRepository) UpdateFellowshipStatus(ctx context.Context, id primitive.ObjectID, status domain.FellowshipStatus, submittedAt *time.Time) error {
	set := bson.M{
		"fellowshipStatus": status,
		"updatedAt":        time.Now().UTC(),
	}
	if submittedAt != nil {
		set["submittedAt"] = submittedAt.UTC()
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetWorkspace records which workspace a user currently belongs to.
func (r *mongoUserRepository) SetWorkspace(ctx context.Context, userID, workspaceID primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{
			"hasJoinedWorkspace": true,
			"currentWorkspaceId": workspaceID,
			"updatedAt":          time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureUserIndexes creates necessary indexes for the users collection.
// Call this once during application startup.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// The sweep and the admin review both filter on status.
			Keys:    bson.D{{Key: "fellowshipStatus", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Index creation failure is not fatal; queries still work unindexed.
	}
}
