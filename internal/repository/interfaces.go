// Package repository defines interfaces for data access and their MongoDB implementations
// #ORM_PATTERN: Repository pattern with interfaces for testability and abstraction
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
)

// PaginationOptions contains pagination parameters
type PaginationOptions struct {
	Page  int
	Limit int
}

// DefaultPaginationOptions returns default pagination settings
// #DATA_ASSUMPTION: Pagination defaults to 20 items per page
func DefaultPaginationOptions() PaginationOptions {
	return PaginationOptions{
		Page:  1,
		Limit: 20,
	}
}

// Offset returns the zero-based offset of the first item on the page
func (p PaginationOptions) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Validate checks the pagination parameters
func (p PaginationOptions) Validate() error {
	if p.Page < 1 || p.Limit < 1 || p.Limit > 100 {
		return models.ErrInvalidPagination
	}
	return nil
}

// CatalogRepository exposes read access to the static survey catalog:
// categories, questions with their answer options, and coefficients.
// #QUERY_INTERFACE: The catalog is immutable at runtime; writes happen only through seeding
type CatalogRepository interface {
	// ListCategories lists all categories ordered by name
	ListCategories(ctx context.Context) ([]models.Category, error)

	// ListQuestions lists the full question catalog ordered by display order
	ListQuestions(ctx context.Context) ([]models.Question, error)

	// ListCoefficients lists all free-text question coefficients
	ListCoefficients(ctx context.Context) ([]models.Coefficient, error)
}

// QuestionnaireRepository defines operations for survey submissions and
// their answers
// #QUERY_INTERFACE: Questionnaire data access patterns
type QuestionnaireRepository interface {
	// Create inserts a questionnaire
	Create(ctx context.Context, q *models.Questionnaire) error

	// GetByID finds a questionnaire by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Questionnaire, error)

	// ListByUser lists a user's questionnaires ordered newest-first.
	// Drafts are included only when includeDrafts is true.
	ListByUser(ctx context.Context, userID primitive.ObjectID, includeDrafts bool) ([]models.Questionnaire, error)

	// Finalize clears the draft flag of a questionnaire. Returns
	// models.ErrQuestionnaireFinalized if the flag was already cleared.
	Finalize(ctx context.Context, id primitive.ObjectID) error

	// Delete removes a questionnaire and its answers (submission rollback)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// InsertChoices inserts selected choices for a questionnaire
	InsertChoices(ctx context.Context, choices []models.SelectedChoice) error

	// InsertAnswers inserts submitted free-text answers for a questionnaire
	InsertAnswers(ctx context.Context, answers []models.SubmittedAnswer) error

	// ListChoices lists the selected choices of a questionnaire
	ListChoices(ctx context.Context, questionnaireID primitive.ObjectID) ([]models.SelectedChoice, error)

	// ListAnswers lists the submitted free-text answers of a questionnaire
	ListAnswers(ctx context.Context, questionnaireID primitive.ObjectID) ([]models.SubmittedAnswer, error)
}

// UserRepository defines operations for users
// #QUERY_INTERFACE: User data access patterns
type UserRepository interface {
	// GetByID finds a user by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	// ListActive lists all active, non-deleted users ordered by creation
	// time. The ranking aggregator fans out over this set.
	ListActive(ctx context.Context) ([]models.User, error)
}

// GroupRepository defines operations for groups and their memberships
// #QUERY_INTERFACE: Group data access patterns
type GroupRepository interface {
	// GetByID finds a group by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error)

	// ListCertified lists all certified groups ordered by name
	ListCertified(ctx context.Context) ([]models.Group, error)

	// ListMemberIDs lists the user IDs belonging to a group
	ListMemberIDs(ctx context.Context, groupID primitive.ObjectID) ([]primitive.ObjectID, error)
}
