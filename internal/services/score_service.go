// Package services provides business logic implementations.
package services

import (
	"context"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
	"github.com/empreinte-tools/empreinte_backend/internal/repository"
)

// Score is the footprint of one questionnaire: the grand total plus the
// per-category breakdown. ByCategory always carries an entry for every
// catalog category so that two periods can be name-aligned.
type Score struct {
	Total      float64
	ByCategory map[primitive.ObjectID]float64
}

// ScoreService computes footprint scores from submitted questionnaires
// #INTEGRATION_POINT: Consumed by the report and ranking services
type ScoreService interface {
	// ComputeScore computes the footprint of a single questionnaire.
	// Returns models.ErrQuestionnaireNotFound for an unknown ID.
	ComputeScore(ctx context.Context, questionnaireID primitive.ObjectID) (*Score, error)
}

// scoreService implements ScoreService
type scoreService struct {
	catalogRepo       repository.CatalogRepository
	questionnaireRepo repository.QuestionnaireRepository
}

// NewScoreService creates a new score service
func NewScoreService(catalogRepo repository.CatalogRepository, questionnaireRepo repository.QuestionnaireRepository) ScoreService {
	return &scoreService{
		catalogRepo:       catalogRepo,
		questionnaireRepo: questionnaireRepo,
	}
}

// ComputeScore loads the questionnaire's answers and the catalog, then sums
// the contributions. Repository failures propagate to the caller unwrapped;
// retrying is a transport concern.
func (s *scoreService) ComputeScore(ctx context.Context, questionnaireID primitive.ObjectID) (*Score, error) {
	if _, err := s.questionnaireRepo.GetByID(ctx, questionnaireID); err != nil {
		return nil, err
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	choices, err := s.questionnaireRepo.ListChoices(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}

	answers, err := s.questionnaireRepo.ListAnswers(ctx, questionnaireID)
	if err != nil {
		return nil, err
	}

	return scoreAnswers(catalog, choices, answers), nil
}

// catalogIndex holds the catalog lookups scoring needs. Constructed once at
// the repository boundary, consumed as plain data by the pure scoring core.
type catalogIndex struct {
	categoryIDs           []primitive.ObjectID
	questionByID          map[primitive.ObjectID]*models.Question
	coefficientByQuestion map[primitive.ObjectID]float64
}

func (s *scoreService) loadCatalog(ctx context.Context) (*catalogIndex, error) {
	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	questions, err := s.catalogRepo.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	coefficients, err := s.catalogRepo.ListCoefficients(ctx)
	if err != nil {
		return nil, err
	}
	return newCatalogIndex(categories, questions, coefficients), nil
}

func newCatalogIndex(categories []models.Category, questions []models.Question, coefficients []models.Coefficient) *catalogIndex {
	idx := &catalogIndex{
		categoryIDs:           make([]primitive.ObjectID, 0, len(categories)),
		questionByID:          make(map[primitive.ObjectID]*models.Question, len(questions)),
		coefficientByQuestion: make(map[primitive.ObjectID]float64, len(coefficients)),
	}
	for _, c := range categories {
		idx.categoryIDs = append(idx.categoryIDs, c.ID)
	}
	for i := range questions {
		idx.questionByID[questions[i].ID] = &questions[i]
	}
	for _, c := range coefficients {
		idx.coefficientByQuestion[c.QuestionID] = c.Value
	}
	return idx
}

// scoreAnswers is the pure scoring core: no I/O, no side effects.
//
// A selected choice contributes its option's point value. A submitted
// free-text answer contributes rawValue × coefficient; a non-numeric raw
// value or a missing coefficient contributes exactly 0 and is never an
// error. Every catalog category appears in the breakdown, 0 when absent.
func scoreAnswers(catalog *catalogIndex, choices []models.SelectedChoice, answers []models.SubmittedAnswer) *Score {
	score := &Score{
		ByCategory: make(map[primitive.ObjectID]float64, len(catalog.categoryIDs)),
	}
	for _, catID := range catalog.categoryIDs {
		score.ByCategory[catID] = 0
	}

	for _, choice := range choices {
		question, ok := catalog.questionByID[choice.QuestionID]
		if !ok {
			continue
		}
		option := question.OptionByID(choice.OptionID)
		if option == nil {
			continue
		}
		score.ByCategory[question.CategoryID] += option.Value
		score.Total += option.Value
	}

	for _, answer := range answers {
		question, ok := catalog.questionByID[answer.QuestionID]
		if !ok {
			continue
		}
		value, ok := parseNumericAnswer(answer.Value)
		if !ok {
			continue
		}
		coefficient := catalog.coefficientByQuestion[answer.QuestionID]
		contribution := value * coefficient
		score.ByCategory[question.CategoryID] += contribution
		score.Total += contribution
	}

	return score
}

// parseNumericAnswer parses a raw free-text answer as a number. Non-numeric
// values are not an error; they simply contribute nothing.
func parseNumericAnswer(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
