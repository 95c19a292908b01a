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

const noteCollectionName = "notes"

// mongoNoteRepository implements repository.NoteRepository
type mongoNoteRepository struct {
	collection *mongo.Collection
}

// NewMongoNoteRepository creates a new Note repository backed by MongoDB.
func NewMongoNoteRepository(db *mongo.Database) repository.NoteRepository {
	return &mongoNoteRepository{
		collection: db.Collection(noteCollectionName),
	}
}

// Create inserts a new note into the database.
func (r *mongoNoteRepository) Create(ctx context.Context, note *domain.Note) (primitive.ObjectID, error) {
	if note.Title == "" || note.Content == "" || note.AuthorID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("note title, content, and author are required")
	}

	note.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, note)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a note by its ID.
func (r *mongoNoteRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Note, error) {
	var note domain.Note
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

// List retrieves every note, most recently updated first.
func (r *mongoNoteRepository) List(ctx context.Context) ([]domain.Note, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notes []domain.Note
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

// Update modifies a note's title, content, and subscriber list. The author
// is never changed here.
func (r *mongoNoteRepository) Update(ctx context.Context, note *domain.Note) error {
	if note.ID == primitive.NilObjectID {
		return errors.New("note ID is required for update")
	}
	if note.Title == "" || note.Content == "" {
		return errors.New("note title and content cannot be empty")
	}

	update := bson.M{
		"$set": bson.M{
			"title":       note.Title,
			"content":     note.Content,
			"subscribers": note.Subscribers,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": note.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a note.
func (r *mongoNoteRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureNoteIndexes creates necessary indexes for the notes collection.
func EnsureNoteIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "authorId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal; see EnsureUserIndexes.
	}
}
