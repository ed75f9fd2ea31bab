package database

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
)

// Seeder handles database seeding operations
// #SEED_DATA: Baseline survey catalog (categories, questions, options, coefficients)
type Seeder struct {
	db *mongo.Database
}

// NewSeeder creates a new database seeder
func NewSeeder(db *mongo.Database) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed operations
func (s *Seeder) SeedAll(ctx context.Context) error {
	log.Println("Starting database seeding...")

	if err := s.SeedCatalog(ctx); err != nil {
		return fmt.Errorf("failed to seed survey catalog: %w", err)
	}

	log.Println("Database seeding completed successfully")
	return nil
}

// SeedCatalog seeds the baseline survey catalog
// #IMPLEMENTATION_DECISION: Only seeds if the catalog is empty (idempotent)
func (s *Seeder) SeedCatalog(ctx context.Context) error {
	categories := s.db.Collection(models.Category{}.CollectionName())

	count, err := categories.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Survey catalog already exists, skipping seeding")
		return nil
	}

	cats := baselineCategories()
	catDocs := make([]interface{}, len(cats))
	catByName := make(map[string]primitive.ObjectID, len(cats))
	for i := range cats {
		cats[i].BeforeCreate()
		catByName[cats[i].Name] = cats[i].ID
		catDocs[i] = cats[i]
	}
	if _, err := categories.InsertMany(ctx, catDocs); err != nil {
		return err
	}

	questions, coefficients := baselineQuestions(catByName)

	questionDocs := make([]interface{}, len(questions))
	for i := range questions {
		questions[i].BeforeCreate()
		questionDocs[i] = questions[i]
	}
	if _, err := s.db.Collection(models.Question{}.CollectionName()).InsertMany(ctx, questionDocs); err != nil {
		return err
	}

	// Coefficients reference question IDs assigned above
	coefDocs := make([]interface{}, 0, len(coefficients))
	for text, value := range coefficients {
		for i := range questions {
			if questions[i].Text != text {
				continue
			}
			coef := models.Coefficient{QuestionID: questions[i].ID, Value: value}
			coef.BeforeCreate()
			coefDocs = append(coefDocs, coef)
		}
	}
	if len(coefDocs) > 0 {
		if _, err := s.db.Collection(models.Coefficient{}.CollectionName()).InsertMany(ctx, coefDocs); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d categories and %d catalog questions", len(cats), len(questions))
	return nil
}

func baselineCategories() []models.Category {
	return []models.Category{
		{Name: "Transport"},
		{Name: "Alimentation"},
		{Name: "Logement"},
		{Name: "Consommation"},
	}
}

// baselineQuestions returns the baseline question catalog and the
// coefficients of its free-text questions, keyed by question text.
func baselineQuestions(catByName map[string]primitive.ObjectID) ([]models.Question, map[string]float64) {
	questions := []models.Question{
		{
			CategoryID: catByName["Transport"],
			Text:       "Quel est votre moyen de transport principal ?",
			Kind:       models.QuestionKindMultipleChoice,
			Order:      1,
			Options: []models.AnswerOption{
				{Label: "Vélo ou marche", Value: 0, Order: 1},
				{Label: "Transports en commun", Value: 4, Order: 2},
				{Label: "Voiture électrique", Value: 8, Order: 3},
				{Label: "Voiture thermique", Value: 16, Order: 4},
			},
		},
		{
			CategoryID: catByName["Transport"],
			Text:       "Combien de vols avez-vous pris cette année ?",
			Kind:       models.QuestionKindFreeText,
			Order:      2,
		},
		{
			CategoryID: catByName["Alimentation"],
			Text:       "À quelle fréquence mangez-vous de la viande ?",
			Kind:       models.QuestionKindMultipleChoice,
			Order:      3,
			Options: []models.AnswerOption{
				{Label: "Jamais", Value: 0, Order: 1},
				{Label: "Quelques fois par semaine", Value: 6, Order: 2},
				{Label: "Tous les jours", Value: 14, Order: 3},
			},
		},
		{
			CategoryID: catByName["Logement"],
			Text:       "Quel est votre mode de chauffage ?",
			Kind:       models.QuestionKindMultipleChoice,
			Order:      4,
			Options: []models.AnswerOption{
				{Label: "Pompe à chaleur", Value: 3, Order: 1},
				{Label: "Électrique", Value: 7, Order: 2},
				{Label: "Gaz", Value: 12, Order: 3},
				{Label: "Fioul", Value: 18, Order: 4},
			},
		},
		{
			CategoryID: catByName["Logement"],
			Text:       "Quelle est la surface de votre logement en m² ?",
			Kind:       models.QuestionKindFreeText,
			Order:      5,
		},
		{
			CategoryID: catByName["Consommation"],
			Text:       "Combien de vêtements neufs achetez-vous par mois ?",
			Kind:       models.QuestionKindFreeText,
			Order:      6,
		},
	}

	coefficients := map[string]float64{
		"Combien de vols avez-vous pris cette année ?":       2.5,
		"Quelle est la surface de votre logement en m² ?":    0.1,
		"Combien de vêtements neufs achetez-vous par mois ?": 1.2,
	}

	return questions, coefficients
}
