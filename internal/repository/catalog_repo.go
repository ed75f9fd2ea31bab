package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
)

// MongoCatalogRepository implements CatalogRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoCatalogRepository struct {
	categories   *mongo.Collection
	questions    *mongo.Collection
	coefficients *mongo.Collection
}

// NewMongoCatalogRepository creates a new MongoDB catalog repository
func NewMongoCatalogRepository(db *mongo.Database) *MongoCatalogRepository {
	return &MongoCatalogRepository{
		categories:   db.Collection(models.Category{}.CollectionName()),
		questions:    db.Collection(models.Question{}.CollectionName()),
		coefficients: db.Collection(models.Coefficient{}.CollectionName()),
	}
}

// ListCategories lists all categories ordered by name
func (r *MongoCatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.categories.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListQuestions lists the full question catalog ordered by display order
func (r *MongoCatalogRepository) ListQuestions(ctx context.Context) ([]models.Question, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})

	cursor, err := r.questions.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []models.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// ListCoefficients lists all free-text question coefficients
func (r *MongoCatalogRepository) ListCoefficients(ctx context.Context) ([]models.Coefficient, error) {
	cursor, err := r.coefficients.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var coefficients []models.Coefficient
	if err := cursor.All(ctx, &coefficients); err != nil {
		return nil, err
	}
	return coefficients, nil
}
