package models

import "errors"

// Model validation and operation errors
var (
	// General errors
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrUserInactive = errors.New("user is inactive")

	// Group errors
	ErrGroupNotFound     = errors.New("group not found")
	ErrGroupNotCertified = errors.New("group is not certified")

	// Catalog errors
	ErrCategoryNotFound    = errors.New("category not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrOptionNotFound      = errors.New("answer option not found")
	ErrInvalidQuestionKind = errors.New("invalid question kind")

	// Questionnaire errors
	ErrQuestionnaireNotFound  = errors.New("questionnaire not found")
	ErrQuestionnaireFinalized = errors.New("questionnaire has already been finalized")
	ErrEmptySubmission        = errors.New("submission contains no answers")
	ErrDuplicateChoice        = errors.New("question already has a selected choice")

	// Ranking errors
	ErrInvalidSortCriterion = errors.New("invalid sort criterion")
	ErrInvalidPagination    = errors.New("invalid pagination parameters")
)

// IsNotFoundError returns true if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrOptionNotFound) ||
		errors.Is(err, ErrQuestionnaireNotFound)
}

// IsValidationError returns true if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidQuestionKind) ||
		errors.Is(err, ErrInvalidSortCriterion) ||
		errors.Is(err, ErrInvalidPagination) ||
		errors.Is(err, ErrEmptySubmission) ||
		errors.Is(err, ErrDuplicateChoice)
}

// IsConflictError returns true if the error indicates a state conflict
func IsConflictError(err error) bool {
	return errors.Is(err, ErrQuestionnaireFinalized) ||
		errors.Is(err, ErrGroupNotCertified)
}

// IsAuthError returns true if the error is an authentication/authorization error
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden)
}
