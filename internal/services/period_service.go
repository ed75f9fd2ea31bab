package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
	"github.com/empreinte-tools/empreinte_backend/internal/repository"
)

// PeriodSelector picks the questionnaire(s) relevant for a requested view
// out of a user's submission history.
// #IMPLEMENTATION_DECISION: Calendar months are keyed in UTC to avoid
// off-by-one-day month assignment near midnight.
type PeriodSelector interface {
	// Latest returns the user's most recent questionnaire, or nil when the
	// user has none. With includeDraft a draft is preferred when one
	// exists; otherwise the most recent official questionnaire is used.
	Latest(ctx context.Context, userID primitive.ObjectID, includeDraft bool) (*models.Questionnaire, error)

	// LatestPair returns the user's two most recent official
	// questionnaires, newest first. Either may be nil.
	LatestPair(ctx context.Context, userID primitive.ObjectID) (current, previous *models.Questionnaire, err error)

	// OneLatestPerMonth partitions the user's official questionnaires by
	// UTC calendar month, keeps the most recent submission within each
	// month and returns the months newest-first. With includeDraft, the
	// most recent draft (when one exists) replaces the entry of its own
	// month or is prepended as a new leading entry.
	OneLatestPerMonth(ctx context.Context, userID primitive.ObjectID, includeDraft bool) ([]models.Questionnaire, error)
}

// periodSelector implements PeriodSelector
type periodSelector struct {
	questionnaireRepo repository.QuestionnaireRepository
}

// NewPeriodSelector creates a new period selector
func NewPeriodSelector(questionnaireRepo repository.QuestionnaireRepository) PeriodSelector {
	return &periodSelector{questionnaireRepo: questionnaireRepo}
}

// Latest returns the most recent questionnaire for the requested view
func (s *periodSelector) Latest(ctx context.Context, userID primitive.ObjectID, includeDraft bool) (*models.Questionnaire, error) {
	questionnaires, err := s.questionnaireRepo.ListByUser(ctx, userID, includeDraft)
	if err != nil {
		return nil, err
	}
	if len(questionnaires) == 0 {
		return nil, nil
	}

	if includeDraft {
		// A draft previews the user's current state and wins over any
		// official questionnaire, regardless of submission order.
		if draft := latestDraft(questionnaires); draft != nil {
			return draft, nil
		}
	}

	for i := range questionnaires {
		if questionnaires[i].IsOfficial() {
			return &questionnaires[i], nil
		}
	}
	return nil, nil
}

// LatestPair returns the two most recent official questionnaires
func (s *periodSelector) LatestPair(ctx context.Context, userID primitive.ObjectID) (*models.Questionnaire, *models.Questionnaire, error) {
	questionnaires, err := s.questionnaireRepo.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, nil, err
	}

	var current, previous *models.Questionnaire
	if len(questionnaires) > 0 {
		current = &questionnaires[0]
	}
	if len(questionnaires) > 1 {
		previous = &questionnaires[1]
	}
	return current, previous, nil
}

// OneLatestPerMonth deduplicates official questionnaires by calendar month
func (s *periodSelector) OneLatestPerMonth(ctx context.Context, userID primitive.ObjectID, includeDraft bool) ([]models.Questionnaire, error) {
	questionnaires, err := s.questionnaireRepo.ListByUser(ctx, userID, includeDraft)
	if err != nil {
		return nil, err
	}

	// The repository returns newest-first, so the first questionnaire
	// seen for a month is the most recent one within that month.
	seen := make(map[monthKey]bool)
	series := make([]models.Questionnaire, 0, len(questionnaires))
	for _, q := range questionnaires {
		if !q.IsOfficial() {
			continue
		}
		key := monthKeyOf(q.SubmittedAt)
		if seen[key] {
			continue
		}
		seen[key] = true
		series = append(series, q)
	}

	if !includeDraft {
		return series, nil
	}

	draft := latestDraft(questionnaires)
	if draft == nil {
		return series, nil
	}

	// The draft previews its own month without permanently altering
	// history: replace that month's entry, or prepend a new leading one.
	draftKey := monthKeyOf(draft.SubmittedAt)
	for i := range series {
		if monthKeyOf(series[i].SubmittedAt) == draftKey {
			series[i] = *draft
			return series, nil
		}
	}
	return append([]models.Questionnaire{*draft}, series...), nil
}

// monthKey identifies a UTC calendar month
type monthKey struct {
	year  int
	month time.Month
}

func monthKeyOf(t time.Time) monthKey {
	utc := t.UTC()
	return monthKey{year: utc.Year(), month: utc.Month()}
}

// latestDraft returns the most recent draft in a newest-first list, or nil
func latestDraft(questionnaires []models.Questionnaire) *models.Questionnaire {
	for i := range questionnaires {
		if questionnaires[i].IsDraft {
			return &questionnaires[i]
		}
	}
	return nil
}
