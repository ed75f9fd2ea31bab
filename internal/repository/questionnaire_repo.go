package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
)

// MongoQuestionnaireRepository implements QuestionnaireRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoQuestionnaireRepository struct {
	questionnaires *mongo.Collection
	choices        *mongo.Collection
	answers        *mongo.Collection
}

// NewMongoQuestionnaireRepository creates a new MongoDB questionnaire repository
func NewMongoQuestionnaireRepository(db *mongo.Database) *MongoQuestionnaireRepository {
	return &MongoQuestionnaireRepository{
		questionnaires: db.Collection(models.Questionnaire{}.CollectionName()),
		choices:        db.Collection(models.SelectedChoice{}.CollectionName()),
		answers:        db.Collection(models.SubmittedAnswer{}.CollectionName()),
	}
}

// Create inserts a questionnaire
func (r *MongoQuestionnaireRepository) Create(ctx context.Context, q *models.Questionnaire) error {
	q.BeforeCreate()
	_, err := r.questionnaires.InsertOne(ctx, q)
	return err
}

// GetByID finds a questionnaire by ID
func (r *MongoQuestionnaireRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Questionnaire, error) {
	var q models.Questionnaire
	filter := bson.M{"_id": id}
	err := r.questionnaires.FindOne(ctx, filter).Decode(&q)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrQuestionnaireNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ListByUser lists a user's questionnaires ordered newest-first
func (r *MongoQuestionnaireRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, includeDrafts bool) ([]models.Questionnaire, error) {
	filter := bson.M{"user_id": userID}
	if !includeDrafts {
		filter["is_draft"] = false
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})

	cursor, err := r.questionnaires.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questionnaires []models.Questionnaire
	if err := cursor.All(ctx, &questionnaires); err != nil {
		return nil, err
	}
	return questionnaires, nil
}

// Finalize clears the draft flag of a questionnaire exactly once
func (r *MongoQuestionnaireRepository) Finalize(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "is_draft": true}
	update := bson.M{"$set": bson.M{"is_draft": false}}

	result, err := r.questionnaires.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Distinguish a missing questionnaire from one already finalized
		count, countErr := r.questionnaires.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return countErr
		}
		if count == 0 {
			return models.ErrQuestionnaireNotFound
		}
		return models.ErrQuestionnaireFinalized
	}
	return nil
}

// Delete removes a questionnaire and its answers (submission rollback)
func (r *MongoQuestionnaireRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.choices.DeleteMany(ctx, bson.M{"questionnaire_id": id}); err != nil {
		return err
	}
	if _, err := r.answers.DeleteMany(ctx, bson.M{"questionnaire_id": id}); err != nil {
		return err
	}

	result, err := r.questionnaires.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrQuestionnaireNotFound
	}
	return nil
}

// InsertChoices inserts selected choices for a questionnaire
func (r *MongoQuestionnaireRepository) InsertChoices(ctx context.Context, choices []models.SelectedChoice) error {
	if len(choices) == 0 {
		return nil
	}
	docs := make([]interface{}, len(choices))
	for i := range choices {
		choices[i].BeforeCreate()
		docs[i] = choices[i]
	}
	_, err := r.choices.InsertMany(ctx, docs)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrDuplicateChoice
	}
	return err
}

// InsertAnswers inserts submitted free-text answers for a questionnaire
func (r *MongoQuestionnaireRepository) InsertAnswers(ctx context.Context, answers []models.SubmittedAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	docs := make([]interface{}, len(answers))
	for i := range answers {
		answers[i].BeforeCreate()
		docs[i] = answers[i]
	}
	_, err := r.answers.InsertMany(ctx, docs)
	return err
}

// ListChoices lists the selected choices of a questionnaire
func (r *MongoQuestionnaireRepository) ListChoices(ctx context.Context, questionnaireID primitive.ObjectID) ([]models.SelectedChoice, error) {
	cursor, err := r.choices.Find(ctx, bson.M{"questionnaire_id": questionnaireID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var choices []models.SelectedChoice
	if err := cursor.All(ctx, &choices); err != nil {
		return nil, err
	}
	return choices, nil
}

// ListAnswers lists the submitted free-text answers of a questionnaire
func (r *MongoQuestionnaireRepository) ListAnswers(ctx context.Context, questionnaireID primitive.ObjectID) ([]models.SubmittedAnswer, error) {
	cursor, err := r.answers.Find(ctx, bson.M{"questionnaire_id": questionnaireID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var answers []models.SubmittedAnswer
	if err := cursor.All(ctx, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
