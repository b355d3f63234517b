package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petraflow/wellscope/services/rta-service/internal/models"
)

// MatchRepository stores user-accepted type-curve matches.
type MatchRepository struct {
	collection *mongo.Collection
}

func NewMatchRepository(db *mongo.Database) *MatchRepository {
	return &MatchRepository{
		collection: db.Collection("saved_matches"),
	}
}

// Save inserts a saved match.
func (r *MatchRepository) Save(ctx context.Context, match *models.SavedMatch) error {
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, match)
	return err
}

// GetByID fetches one saved match.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*models.SavedMatch, error) {
	var match models.SavedMatch
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&match)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ListByDataset returns the saved matches for a dataset, newest first.
func (r *MatchRepository) ListByDataset(ctx context.Context, datasetID string) ([]models.SavedMatch, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"dataset_id": datasetID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var matches []models.SavedMatch
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, err
	}

	return matches, nil
}

// Delete removes a saved match.
func (r *MatchRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrMatchNotFound
	}
	return nil
}
