package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
)

func newCatalogRouter(mock *mockCatalogRepo) *gin.Engine {
	handler := NewCatalogHandler(mock)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api, authAs(primitive.NewObjectID(), "MEMBER"))
	return router
}

func TestCatalogHandler_ListCategories(t *testing.T) {
	mock := &mockCatalogRepo{
		categories: []models.Category{
			{ID: primitive.NewObjectID(), Name: "Transport"},
			{ID: primitive.NewObjectID(), Name: "Alimentation"},
		},
	}
	router := newCatalogRouter(mock)

	req := httptest.NewRequest("GET", "/api/v1/catalog/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response []CategoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 2 || response[0].Name != "Transport" {
		t.Errorf("Unexpected response: %+v", response)
	}
}

func TestCatalogHandler_ListQuestions(t *testing.T) {
	categoryID := primitive.NewObjectID()
	mock := &mockCatalogRepo{
		questions: []models.Question{
			{
				ID:         primitive.NewObjectID(),
				CategoryID: categoryID,
				Text:       "Quel est votre moyen de transport principal ?",
				Kind:       models.QuestionKindMultipleChoice,
				Order:      1,
				Options: []models.AnswerOption{
					{ID: primitive.NewObjectID(), Label: "Vélo", Value: 4, Order: 1},
				},
			},
			{
				ID:         primitive.NewObjectID(),
				CategoryID: categoryID,
				Text:       "Combien de repas carnés par semaine ?",
				Kind:       models.QuestionKindFreeText,
				Order:      2,
			},
		},
	}
	router := newCatalogRouter(mock)

	req := httptest.NewRequest("GET", "/api/v1/catalog/questions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response []CatalogQuestionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(response))
	}
	if response[0].Kind != models.QuestionKindMultipleChoice {
		t.Errorf("Expected multiple choice kind, got %q", response[0].Kind)
	}
	if len(response[0].Options) != 1 || response[0].Options[0].Label != "Vélo" {
		t.Errorf("Unexpected options: %+v", response[0].Options)
	}
	if len(response[1].Options) != 0 {
		t.Errorf("Free-text question should have no options, got %+v", response[1].Options)
	}

	// The wire format uses lowercase kinds
	if !json.Valid(w.Body.Bytes()) {
		t.Fatal("Response is not valid JSON")
	}
	var raw []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("Failed to unmarshal raw response: %v", err)
	}
	if raw[0]["kind"] != "multiple_choice" {
		t.Errorf("Expected lowercase kind on the wire, got %v", raw[0]["kind"])
	}
}

func TestCatalogHandler_RepositoryFailure(t *testing.T) {
	mock := &mockCatalogRepo{err: errors.New("replica set unreachable")}
	router := newCatalogRouter(mock)

	req := httptest.NewRequest("GET", "/api/v1/catalog/questions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}
