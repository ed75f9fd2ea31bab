package services

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
	"github.com/empreinte-tools/empreinte_backend/internal/repository"
)

// ChoiceInput is one multiple-choice answer of a submission
type ChoiceInput struct {
	QuestionID primitive.ObjectID
	OptionID   primitive.ObjectID
}

// AnswerInput is one free-text answer of a submission
type AnswerInput struct {
	QuestionID primitive.ObjectID
	Value      string
}

// SubmitRequest carries one full survey submission
// #DATA_ASSUMPTION: Submissions default to draft ("simulation") until finalized
type SubmitRequest struct {
	Choices []ChoiceInput
	Answers []AnswerInput
	IsDraft bool
}

// LastAnswers carries the raw answers of the latest official questionnaire,
// used to prefill the survey form and consumed by the external advice matcher.
type LastAnswers struct {
	QuestionnaireID primitive.ObjectID
	Choices         []ChoiceInput
	Answers         []AnswerInput
}

// SubmissionService handles questionnaire submission and finalization
type SubmissionService interface {
	// Submit stores a new questionnaire with its answers and returns its ID
	Submit(ctx context.Context, userID primitive.ObjectID, req SubmitRequest) (primitive.ObjectID, error)

	// Finalize clears the draft flag exactly once, making the
	// questionnaire part of the user's official history. Only the owner
	// or an admin may finalize.
	Finalize(ctx context.Context, questionnaireID, requesterID primitive.ObjectID, isAdmin bool) error

	// Delete removes a questionnaire with its answers (admin moderation)
	Delete(ctx context.Context, questionnaireID primitive.ObjectID) error

	// LastQuestionnaireID returns the ID of the user's most recent
	// questionnaire, drafts included
	LastQuestionnaireID(ctx context.Context, userID primitive.ObjectID) (primitive.ObjectID, error)

	// LastAnswers returns the raw answers of the user's most recent
	// official questionnaire
	LastAnswers(ctx context.Context, userID primitive.ObjectID) (*LastAnswers, error)
}

// submissionService implements SubmissionService
type submissionService struct {
	catalogRepo       repository.CatalogRepository
	questionnaireRepo repository.QuestionnaireRepository
	periods           PeriodSelector
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	catalogRepo repository.CatalogRepository,
	questionnaireRepo repository.QuestionnaireRepository,
	periods PeriodSelector,
) SubmissionService {
	return &submissionService{
		catalogRepo:       catalogRepo,
		questionnaireRepo: questionnaireRepo,
		periods:           periods,
	}
}

// Submit stores a new questionnaire with its answers
// #IMPLEMENTATION_DECISION: No multi-document transaction; a failed answer
// insert compensates by deleting the questionnaire again
func (s *submissionService) Submit(ctx context.Context, userID primitive.ObjectID, req SubmitRequest) (primitive.ObjectID, error) {
	if len(req.Choices) == 0 && len(req.Answers) == 0 {
		return primitive.NilObjectID, models.ErrEmptySubmission
	}
	if err := s.validateAgainstCatalog(ctx, req); err != nil {
		return primitive.NilObjectID, err
	}

	questionnaire := &models.Questionnaire{
		UserID:  userID,
		IsDraft: req.IsDraft,
	}
	if err := s.questionnaireRepo.Create(ctx, questionnaire); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create questionnaire: %w", err)
	}

	choices := make([]models.SelectedChoice, len(req.Choices))
	for i, c := range req.Choices {
		choices[i] = models.SelectedChoice{
			QuestionnaireID: questionnaire.ID,
			QuestionID:      c.QuestionID,
			OptionID:        c.OptionID,
		}
	}
	answers := make([]models.SubmittedAnswer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = models.SubmittedAnswer{
			QuestionnaireID: questionnaire.ID,
			QuestionID:      a.QuestionID,
			Value:           a.Value,
		}
	}

	if err := s.questionnaireRepo.InsertChoices(ctx, choices); err != nil {
		s.rollback(ctx, questionnaire.ID)
		return primitive.NilObjectID, err
	}
	if err := s.questionnaireRepo.InsertAnswers(ctx, answers); err != nil {
		s.rollback(ctx, questionnaire.ID)
		return primitive.NilObjectID, err
	}

	return questionnaire.ID, nil
}

// validateAgainstCatalog checks every answer against the question catalog
func (s *submissionService) validateAgainstCatalog(ctx context.Context, req SubmitRequest) error {
	questions, err := s.catalogRepo.ListQuestions(ctx)
	if err != nil {
		return err
	}
	questionByID := make(map[primitive.ObjectID]*models.Question, len(questions))
	for i := range questions {
		questionByID[questions[i].ID] = &questions[i]
	}

	seen := make(map[primitive.ObjectID]bool, len(req.Choices)+len(req.Answers))
	for _, c := range req.Choices {
		question, ok := questionByID[c.QuestionID]
		if !ok {
			return models.ErrQuestionNotFound
		}
		if question.Kind != models.QuestionKindMultipleChoice {
			return models.ErrInvalidQuestionKind
		}
		if question.OptionByID(c.OptionID) == nil {
			return models.ErrOptionNotFound
		}
		if seen[c.QuestionID] {
			return models.ErrDuplicateChoice
		}
		seen[c.QuestionID] = true
	}
	for _, a := range req.Answers {
		question, ok := questionByID[a.QuestionID]
		if !ok {
			return models.ErrQuestionNotFound
		}
		if question.Kind != models.QuestionKindFreeText {
			return models.ErrInvalidQuestionKind
		}
		if seen[a.QuestionID] {
			return models.ErrDuplicateChoice
		}
		seen[a.QuestionID] = true
	}
	return nil
}

func (s *submissionService) rollback(ctx context.Context, questionnaireID primitive.ObjectID) {
	if err := s.questionnaireRepo.Delete(ctx, questionnaireID); err != nil {
		log.Printf("Warning: failed to roll back questionnaire %s: %v", questionnaireID.Hex(), err)
	}
}

// Finalize clears the draft flag exactly once
func (s *submissionService) Finalize(ctx context.Context, questionnaireID, requesterID primitive.ObjectID, isAdmin bool) error {
	questionnaire, err := s.questionnaireRepo.GetByID(ctx, questionnaireID)
	if err != nil {
		return err
	}
	if questionnaire.UserID != requesterID && !isAdmin {
		return models.ErrForbidden
	}
	return s.questionnaireRepo.Finalize(ctx, questionnaireID)
}

// Delete removes a questionnaire with its answers
func (s *submissionService) Delete(ctx context.Context, questionnaireID primitive.ObjectID) error {
	if _, err := s.questionnaireRepo.GetByID(ctx, questionnaireID); err != nil {
		return err
	}
	return s.questionnaireRepo.Delete(ctx, questionnaireID)
}

// LastQuestionnaireID returns the ID of the user's most recent questionnaire
func (s *submissionService) LastQuestionnaireID(ctx context.Context, userID primitive.ObjectID) (primitive.ObjectID, error) {
	latest, err := s.periods.Latest(ctx, userID, true)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if latest == nil {
		return primitive.NilObjectID, models.ErrQuestionnaireNotFound
	}
	return latest.ID, nil
}

// LastAnswers returns the raw answers of the latest official questionnaire
func (s *submissionService) LastAnswers(ctx context.Context, userID primitive.ObjectID) (*LastAnswers, error) {
	latest, err := s.periods.Latest(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		// No official submission yet: an empty prefill, not an error
		return &LastAnswers{Choices: []ChoiceInput{}, Answers: []AnswerInput{}}, nil
	}

	choices, err := s.questionnaireRepo.ListChoices(ctx, latest.ID)
	if err != nil {
		return nil, err
	}
	answers, err := s.questionnaireRepo.ListAnswers(ctx, latest.ID)
	if err != nil {
		return nil, err
	}

	result := &LastAnswers{
		QuestionnaireID: latest.ID,
		Choices:         make([]ChoiceInput, len(choices)),
		Answers:         make([]AnswerInput, len(answers)),
	}
	for i, c := range choices {
		result.Choices[i] = ChoiceInput{QuestionID: c.QuestionID, OptionID: c.OptionID}
	}
	for i, a := range answers {
		result.Answers[i] = AnswerInput{QuestionID: a.QuestionID, Value: a.Value}
	}
	return result, nil
}
