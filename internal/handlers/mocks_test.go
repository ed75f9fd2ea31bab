package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/empreinte-tools/empreinte_backend/internal/middleware"
	"github.com/empreinte-tools/empreinte_backend/internal/models"
	"github.com/empreinte-tools/empreinte_backend/internal/repository"
	"github.com/empreinte-tools/empreinte_backend/internal/services"
)

// Service mocks shared by the handler tests.

type mockReportService struct {
	snapshot   []services.CategoryValue
	comparison []services.CategoryComparison
	evolution  []services.EvolutionPoint
	summary    []services.QuestionSummaryEntry
	err        error

	lastIncludeDraft bool
}

func (m *mockReportService) Snapshot(ctx context.Context, userID primitive.ObjectID, includeDraft bool) ([]services.CategoryValue, error) {
	m.lastIncludeDraft = includeDraft
	return m.snapshot, m.err
}

func (m *mockReportService) Comparison(ctx context.Context, userID primitive.ObjectID) ([]services.CategoryComparison, error) {
	return m.comparison, m.err
}

func (m *mockReportService) Evolution(ctx context.Context, userID primitive.ObjectID, includeDraft bool) ([]services.EvolutionPoint, error) {
	m.lastIncludeDraft = includeDraft
	return m.evolution, m.err
}

func (m *mockReportService) QuestionnaireSummary(ctx context.Context, userID primitive.ObjectID) ([]services.QuestionSummaryEntry, error) {
	return m.summary, m.err
}

type mockRankingService struct {
	userPage    *services.UserRankingPage
	companyPage *services.CompanyRankingPage
	err         error

	lastCriterion services.RankCriterion
	lastOpts      repository.PaginationOptions
}

func (m *mockRankingService) RankUsers(ctx context.Context, criterion services.RankCriterion, opts repository.PaginationOptions) (*services.UserRankingPage, error) {
	m.lastCriterion = criterion
	m.lastOpts = opts
	return m.userPage, m.err
}

func (m *mockRankingService) RankCompanies(ctx context.Context, opts repository.PaginationOptions) (*services.CompanyRankingPage, error) {
	m.lastOpts = opts
	return m.companyPage, m.err
}

type mockSubmissionService struct {
	submitID    primitive.ObjectID
	latestID    primitive.ObjectID
	lastAnswers *services.LastAnswers
	err         error

	lastUserID      primitive.ObjectID
	lastSubmit      services.SubmitRequest
	lastRequesterID primitive.ObjectID
	lastIsAdmin     bool
	lastDeletedID   primitive.ObjectID
}

func (m *mockSubmissionService) Submit(ctx context.Context, userID primitive.ObjectID, req services.SubmitRequest) (primitive.ObjectID, error) {
	m.lastUserID = userID
	m.lastSubmit = req
	return m.submitID, m.err
}

func (m *mockSubmissionService) Finalize(ctx context.Context, questionnaireID, requesterID primitive.ObjectID, isAdmin bool) error {
	m.lastRequesterID = requesterID
	m.lastIsAdmin = isAdmin
	return m.err
}

func (m *mockSubmissionService) Delete(ctx context.Context, questionnaireID primitive.ObjectID) error {
	m.lastDeletedID = questionnaireID
	return m.err
}

func (m *mockSubmissionService) LastQuestionnaireID(ctx context.Context, userID primitive.ObjectID) (primitive.ObjectID, error) {
	return m.latestID, m.err
}

func (m *mockSubmissionService) LastAnswers(ctx context.Context, userID primitive.ObjectID) (*services.LastAnswers, error) {
	return m.lastAnswers, m.err
}

type mockCatalogRepo struct {
	categories []models.Category
	questions  []models.Question
	err        error
}

func (m *mockCatalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	return m.categories, m.err
}

func (m *mockCatalogRepo) ListQuestions(ctx context.Context) ([]models.Question, error) {
	return m.questions, m.err
}

func (m *mockCatalogRepo) ListCoefficients(ctx context.Context) ([]models.Coefficient, error) {
	return nil, m.err
}

// authAs injects authenticated claims the way AuthMiddleware would
func authAs(userID primitive.ObjectID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID.Hex())
		c.Set(middleware.ContextKeyRole, role)
		c.Next()
	}
}
