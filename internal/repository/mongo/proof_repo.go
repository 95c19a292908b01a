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

const proofCollectionName = "customer_proofs"

// mongoProofRepository implements repository.ProofRepository
type mongoProofRepository struct {
	collection *mongo.Collection
}

// NewMongoProofRepository creates a new CustomerProof repository backed by MongoDB.
func NewMongoProofRepository(db *mongo.Database) repository.ProofRepository {
	return &mongoProofRepository{
		collection: db.Collection(proofCollectionName),
	}
}

// Create inserts a new customer proof into the database.
func (r *mongoProofRepository) Create(ctx context.Context, proof *domain.CustomerProof) (primitive.ObjectID, error) {
	if proof.UserID == primitive.NilObjectID || proof.CustomerName == "" || proof.ObjectKey == "" {
		return primitive.NilObjectID, errors.New("proof requires userId, customerName, and objectKey")
	}

	proof.ID = primitive.NewObjectID()
	proof.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, proof)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a proof by its ID.
func (r *mongoProofRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CustomerProof, error) {
	var proof domain.CustomerProof
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&proof)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &proof, nil
}

// GetByUserID retrieves all proofs submitted by a user, newest first.
func (r *mongoProofRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.CustomerProof, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var proofs []domain.CustomerProof
	if err = cursor.All(ctx, &proofs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return proofs, nil
}

// CountByUserID counts a user's proofs. This count drives the pass/fail
// quota check, so it goes to the database rather than trusting any cached
// value.
func (r *mongoProofRepository) CountByUserID(ctx context.Context, userID primitive.ObjectID) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Delete removes a proof record.
func (r *mongoProofRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProofIndexes creates necessary indexes for the customer_proofs collection.
func EnsureProofIndexes(ctx context.Context, collection *mongo.Collection) {
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
