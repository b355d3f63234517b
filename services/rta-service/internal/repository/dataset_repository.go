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

// DatasetRepository stores imported production datasets.
type DatasetRepository struct {
	collection *mongo.Collection
}

func NewDatasetRepository(db *mongo.Database) *DatasetRepository {
	return &DatasetRepository{
		collection: db.Collection("well_datasets"),
	}
}

// EnsureIndexes creates the lookup indexes used by the import dedupe check
// and the listing queries.
func (r *DatasetRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "content_hash", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "well_name", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	return err
}

// Save inserts a dataset. A content-hash collision surfaces as
// ErrDuplicateImport.
func (r *DatasetRepository) Save(ctx context.Context, dataset *models.WellDataset) error {
	if dataset.CreatedAt.IsZero() {
		dataset.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, dataset)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicateImport
	}
	return err
}

// GetByID fetches one dataset.
func (r *DatasetRepository) GetByID(ctx context.Context, id string) (*models.WellDataset, error) {
	var dataset models.WellDataset
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&dataset)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrDatasetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dataset, nil
}

// GetByContentHash finds a previously imported dataset with identical
// content, if any.
func (r *DatasetRepository) GetByContentHash(ctx context.Context, hash uint64) (*models.WellDataset, error) {
	var dataset models.WellDataset
	err := r.collection.FindOne(ctx, bson.M{"content_hash": hash}).Decode(&dataset)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrDatasetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dataset, nil
}

// List returns dataset summaries, newest first. The stored series arrays are
// excluded from the listing projection to keep responses small.
func (r *DatasetRepository) List(ctx context.Context, wellName string, limit int64) ([]models.WellDataset, error) {
	filter := bson.M{}
	if wellName != "" {
		filter["well_name"] = wellName
	}

	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"series": 0})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var datasets []models.WellDataset
	if err := cursor.All(ctx, &datasets); err != nil {
		return nil, err
	}

	return datasets, nil
}

// Delete removes a dataset.
func (r *DatasetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrDatasetNotFound
	}
	return nil
}
