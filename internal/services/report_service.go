package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
	"github.com/empreinte-tools/empreinte_backend/internal/repository"
)

// CategoryValue is one category of a footprint snapshot.
// Wire format preserved for the existing frontend.
type CategoryValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// CategoryComparison is one category of a before/after comparison
type CategoryComparison struct {
	Name     string  `json:"name"`
	Current  float64 `json:"actuel"`
	Previous float64 `json:"precedent"`
}

// EvolutionPoint is one month of a footprint time series
type EvolutionPoint struct {
	Date      string  `json:"date"`
	Footprint float64 `json:"empreinte"`
}

// QuestionSummaryEntry is one question of the human-readable answer listing
type QuestionSummaryEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AnswerUnanswered is reported for catalog questions a questionnaire never answered
const AnswerUnanswered = "unanswered"

// ReportService composes the score calculator and the period selector into
// the user-facing footprint views
// #INTEGRATION_POINT: Each view tolerates a user with zero questionnaires
type ReportService interface {
	// Snapshot reports the latest footprint broken down by category, one
	// entry per catalog category (0 when absent). With includeDraft a
	// pending draft is previewed instead of the latest official record.
	Snapshot(ctx context.Context, userID primitive.ObjectID, includeDraft bool) ([]CategoryValue, error)

	// Comparison reports the latest official footprint against the
	// previous one per category; the previous defaults to 0.
	Comparison(ctx context.Context, userID primitive.ObjectID) ([]CategoryComparison, error)

	// Evolution reports one footprint total per calendar month,
	// oldest-first, as a display-ready time series.
	Evolution(ctx context.Context, userID primitive.ObjectID, includeDraft bool) ([]EvolutionPoint, error)

	// QuestionnaireSummary lists every catalog question with the answer
	// the latest official questionnaire gave it.
	QuestionnaireSummary(ctx context.Context, userID primitive.ObjectID) ([]QuestionSummaryEntry, error)
}

// reportService implements ReportService
type reportService struct {
	catalogRepo       repository.CatalogRepository
	questionnaireRepo repository.QuestionnaireRepository
	scores            ScoreService
	periods           PeriodSelector
}

// NewReportService creates a new report service
func NewReportService(
	catalogRepo repository.CatalogRepository,
	questionnaireRepo repository.QuestionnaireRepository,
	scores ScoreService,
	periods PeriodSelector,
) ReportService {
	return &reportService{
		catalogRepo:       catalogRepo,
		questionnaireRepo: questionnaireRepo,
		scores:            scores,
		periods:           periods,
	}
}

// Snapshot reports the latest footprint per category
func (s *reportService) Snapshot(ctx context.Context, userID primitive.ObjectID, includeDraft bool) ([]CategoryValue, error) {
	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := s.periods.Latest(ctx, userID, includeDraft)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return zeroedCategoryValues(categories), nil
	}

	score, err := s.scores.ComputeScore(ctx, latest.ID)
	if err != nil {
		return nil, err
	}

	result := make([]CategoryValue, len(categories))
	for i, cat := range categories {
		result[i] = CategoryValue{Name: cat.Name, Value: score.ByCategory[cat.ID]}
	}
	return result, nil
}

// Comparison reports the two latest official footprints per category
func (s *reportService) Comparison(ctx context.Context, userID primitive.ObjectID) ([]CategoryComparison, error) {
	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	current, previous, err := s.periods.LatestPair(ctx, userID)
	if err != nil {
		return nil, err
	}

	currentScore := &Score{ByCategory: map[primitive.ObjectID]float64{}}
	if current != nil {
		if currentScore, err = s.scores.ComputeScore(ctx, current.ID); err != nil {
			return nil, err
		}
	}

	previousScore := &Score{ByCategory: map[primitive.ObjectID]float64{}}
	if previous != nil {
		if previousScore, err = s.scores.ComputeScore(ctx, previous.ID); err != nil {
			return nil, err
		}
	}

	result := make([]CategoryComparison, len(categories))
	for i, cat := range categories {
		result[i] = CategoryComparison{
			Name:     cat.Name,
			Current:  currentScore.ByCategory[cat.ID],
			Previous: previousScore.ByCategory[cat.ID],
		}
	}
	return result, nil
}

// Evolution reports one footprint total per calendar month, oldest-first
func (s *reportService) Evolution(ctx context.Context, userID primitive.ObjectID, includeDraft bool) ([]EvolutionPoint, error) {
	months, err := s.periods.OneLatestPerMonth(ctx, userID, includeDraft)
	if err != nil {
		return nil, err
	}

	// The selector returns newest-first; the chart wants a left-to-right
	// time series, so the points are built in reverse.
	points := make([]EvolutionPoint, 0, len(months))
	for i := len(months) - 1; i >= 0; i-- {
		score, err := s.scores.ComputeScore(ctx, months[i].ID)
		if err != nil {
			return nil, err
		}
		points = append(points, EvolutionPoint{
			Date:      monthLabel(months[i].SubmittedAt),
			Footprint: round2(score.Total),
		})
	}
	return points, nil
}

// QuestionnaireSummary lists every catalog question with its given answer
func (s *reportService) QuestionnaireSummary(ctx context.Context, userID primitive.ObjectID) ([]QuestionSummaryEntry, error) {
	latest, err := s.periods.Latest(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return []QuestionSummaryEntry{}, nil
	}

	questions, err := s.catalogRepo.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	choices, err := s.questionnaireRepo.ListChoices(ctx, latest.ID)
	if err != nil {
		return nil, err
	}
	answers, err := s.questionnaireRepo.ListAnswers(ctx, latest.ID)
	if err != nil {
		return nil, err
	}

	optionByQuestion := make(map[primitive.ObjectID]primitive.ObjectID, len(choices))
	for _, c := range choices {
		optionByQuestion[c.QuestionID] = c.OptionID
	}
	valueByQuestion := make(map[primitive.ObjectID]string, len(answers))
	for _, a := range answers {
		valueByQuestion[a.QuestionID] = a.Value
	}

	summary := make([]QuestionSummaryEntry, 0, len(questions))
	for i := range questions {
		summary = append(summary, QuestionSummaryEntry{
			Question: questions[i].Text,
			Answer:   answerLabel(&questions[i], optionByQuestion, valueByQuestion),
		})
	}
	return summary, nil
}

func answerLabel(question *models.Question, optionByQuestion map[primitive.ObjectID]primitive.ObjectID, valueByQuestion map[primitive.ObjectID]string) string {
	if optionID, ok := optionByQuestion[question.ID]; ok {
		if option := question.OptionByID(optionID); option != nil {
			return option.Label
		}
	}
	if value, ok := valueByQuestion[question.ID]; ok {
		return value
	}
	return AnswerUnanswered
}

func zeroedCategoryValues(categories []models.Category) []CategoryValue {
	result := make([]CategoryValue, len(categories))
	for i, cat := range categories {
		result[i] = CategoryValue{Name: cat.Name, Value: 0}
	}
	return result
}

// French short month names, matching the labels the frontend charts expect
var frenchMonths = [...]string{
	"janv", "févr", "mars", "avr", "mai", "juin",
	"juil", "août", "sept", "oct", "nov", "déc",
}

// monthLabel formats a submission timestamp as a chart label ("mars 2025"),
// keyed on the UTC calendar month like the period selector.
func monthLabel(t time.Time) string {
	utc := t.UTC()
	return fmt.Sprintf("%s %d", frenchMonths[utc.Month()-1], utc.Year())
}

// round2 rounds a display total to 2 decimals; internal totals stay unrounded
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
