package models

import (
	"testing"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"ErrUserNotFound", ErrUserNotFound, true},
		{"ErrGroupNotFound", ErrGroupNotFound, true},
		{"ErrCategoryNotFound", ErrCategoryNotFound, true},
		{"ErrQuestionNotFound", ErrQuestionNotFound, true},
		{"ErrOptionNotFound", ErrOptionNotFound, true},
		{"ErrQuestionnaireNotFound", ErrQuestionnaireNotFound, true},
		{"Non-NotFound error", ErrInvalidInput, false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.expected {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"ErrInvalidInput", ErrInvalidInput, true},
		{"ErrInvalidQuestionKind", ErrInvalidQuestionKind, true},
		{"ErrInvalidSortCriterion", ErrInvalidSortCriterion, true},
		{"ErrInvalidPagination", ErrInvalidPagination, true},
		{"ErrEmptySubmission", ErrEmptySubmission, true},
		{"Non-validation error", ErrUserNotFound, false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidationError(tt.err); got != tt.expected {
				t.Errorf("IsValidationError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsConflictError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"ErrQuestionnaireFinalized", ErrQuestionnaireFinalized, true},
		{"ErrGroupNotCertified", ErrGroupNotCertified, true},
		{"Non-conflict error", ErrUserNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConflictError(tt.err); got != tt.expected {
				t.Errorf("IsConflictError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"ErrUnauthorized", ErrUnauthorized, true},
		{"ErrForbidden", ErrForbidden, true},
		{"Non-auth error", ErrQuestionnaireNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAuthError(tt.err); got != tt.expected {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.expected)
			}
		})
	}
}
