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

const photoCollectionName = "photos"

// mongoPhotoRepository implements repository.PhotoRepository
type mongoPhotoRepository struct {
	collection *mongo.Collection
}

// NewMongoPhotoRepository creates a new Photo repository backed by MongoDB.
func NewMongoPhotoRepository(db *mongo.Database) repository.PhotoRepository {
	return &mongoPhotoRepository{
		collection: db.Collection(photoCollectionName),
	}
}

// Create inserts new photo metadata into the database.
func (r *mongoPhotoRepository) Create(ctx context.Context, photo *domain.Photo) (primitive.ObjectID, error) {
	if photo.UserID == primitive.NilObjectID || photo.ObjectKey == "" {
		return primitive.NilObjectID, errors.New("photo requires userId and objectKey")
	}

	photo.ID = primitive.NewObjectID()
	photo.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, photo)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a photo by its ID.
func (r *mongoPhotoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Photo, error) {
	var photo domain.Photo
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&photo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &photo, nil
}

// GetByUserID retrieves all photos belonging to a user, newest first.
func (r *mongoPhotoRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Photo, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var photos []domain.Photo
	if err = cursor.All(ctx, &photos); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return photos, nil
}

// Delete removes a photo record.
func (r *mongoPhotoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePhotoIndexes creates necessary indexes for the photos collection.
func EnsurePhotoIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal; see EnsureUserIndexes.
	}
}
