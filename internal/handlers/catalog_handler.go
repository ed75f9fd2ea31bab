package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
	"github.com/empreinte-tools/empreinte_backend/internal/repository"
)

// CatalogHandler serves the question catalog
// #INTEGRATION_POINT: Survey form builds itself from these endpoints
type CatalogHandler struct {
	catalogRepo repository.CatalogRepository
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogRepo repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{
		catalogRepo: catalogRepo,
	}
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CatalogOptionResponse represents an answer option in API responses
type CatalogOptionResponse struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Order int     `json:"order"`
}

// CatalogQuestionResponse represents a question in API responses
type CatalogQuestionResponse struct {
	ID         string                  `json:"id"`
	CategoryID string                  `json:"category_id"`
	Text       string                  `json:"text"`
	Kind       models.QuestionKind     `json:"kind"`
	Order      int                     `json:"order"`
	Options    []CatalogOptionResponse `json:"options,omitempty"`
}

// ListCategories handles GET /api/v1/catalog/categories
// @Summary List categories
// @Description Lists all footprint categories in catalog order.
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CategoryResponse
// @Failure 401 {object} ErrorResponse
// @Router /catalog/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogRepo.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list categories",
		})
		return
	}

	result := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		result[i] = CategoryResponse{
			ID:        cat.ID.Hex(),
			Name:      cat.Name,
			CreatedAt: cat.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, result)
}

// ListQuestions handles GET /api/v1/catalog/questions
// @Summary List questions
// @Description Lists the full question catalog with answer options per question.
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CatalogQuestionResponse
// @Failure 401 {object} ErrorResponse
// @Router /catalog/questions [get]
func (h *CatalogHandler) ListQuestions(c *gin.Context) {
	questions, err := h.catalogRepo.ListQuestions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list questions",
		})
		return
	}

	result := make([]CatalogQuestionResponse, len(questions))
	for i := range questions {
		result[i] = toCatalogQuestionResponse(&questions[i])
	}

	c.JSON(http.StatusOK, result)
}

func toCatalogQuestionResponse(q *models.Question) CatalogQuestionResponse {
	resp := CatalogQuestionResponse{
		ID:         q.ID.Hex(),
		CategoryID: q.CategoryID.Hex(),
		Text:       q.Text,
		Kind:       q.Kind,
		Order:      q.Order,
	}
	if len(q.Options) > 0 {
		resp.Options = make([]CatalogOptionResponse, len(q.Options))
		for i, opt := range q.Options {
			resp.Options[i] = CatalogOptionResponse{
				ID:    opt.ID.Hex(),
				Label: opt.Label,
				Value: opt.Value,
				Order: opt.Order,
			}
		}
	}
	return resp
}

// RegisterRoutes registers catalog handler routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	catalog := rg.Group("/catalog")
	catalog.Use(authMiddleware)
	{
		catalog.GET("/categories", h.ListCategories)
		catalog.GET("/questions", h.ListQuestions)
	}
}
