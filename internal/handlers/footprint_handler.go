package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/empreinte-tools/empreinte_backend/internal/middleware"
	"github.com/empreinte-tools/empreinte_backend/internal/models"
	"github.com/empreinte-tools/empreinte_backend/internal/services"
)

// FootprintHandler handles the per-user footprint views
// #INTEGRATION_POINT: Mobile app dashboard reads all four views
type FootprintHandler struct {
	reportService services.ReportService
}

// NewFootprintHandler creates a new footprint handler
func NewFootprintHandler(reportService services.ReportService) *FootprintHandler {
	return &FootprintHandler{
		reportService: reportService,
	}
}

// GetSnapshot handles GET /api/v1/users/:id/footprint
// @Summary Latest footprint by category
// @Description Returns the latest footprint broken down by category, one entry per catalog category. With include_draft=true a pending draft is previewed.
// @Tags Footprint
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param include_draft query bool false "Preview a pending draft"
// @Success 200 {array} services.CategoryValue
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /users/{id}/footprint [get]
func (h *FootprintHandler) GetSnapshot(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}

	includeDraft := c.Query("include_draft") == "true"
	snapshot, err := h.reportService.Snapshot(c.Request.Context(), userID, includeDraft)
	if err != nil {
		respondFootprintError(c, err, "Failed to compute footprint")
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetComparison handles GET /api/v1/users/:id/footprint/comparison
// @Summary Footprint comparison
// @Description Compares the latest official footprint with the previous one per category. The previous defaults to 0 when the user has a single submission.
// @Tags Footprint
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {array} services.CategoryComparison
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /users/{id}/footprint/comparison [get]
func (h *FootprintHandler) GetComparison(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}

	comparison, err := h.reportService.Comparison(c.Request.Context(), userID)
	if err != nil {
		respondFootprintError(c, err, "Failed to compute comparison")
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// GetEvolution handles GET /api/v1/users/:id/footprint/evolution
// @Summary Footprint evolution
// @Description Returns one footprint total per calendar month, oldest first, as a display-ready time series.
// @Tags Footprint
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param include_draft query bool false "Include a pending draft as the newest point"
// @Success 200 {array} services.EvolutionPoint
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /users/{id}/footprint/evolution [get]
func (h *FootprintHandler) GetEvolution(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}

	includeDraft := c.Query("include_draft") == "true"
	evolution, err := h.reportService.Evolution(c.Request.Context(), userID, includeDraft)
	if err != nil {
		respondFootprintError(c, err, "Failed to compute evolution")
		return
	}

	c.JSON(http.StatusOK, evolution)
}

// GetSummary handles GET /api/v1/users/:id/footprint/summary
// @Summary Questionnaire summary
// @Description Lists every catalog question with the answer the latest official questionnaire gave it.
// @Tags Footprint
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {array} services.QuestionSummaryEntry
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /users/{id}/footprint/summary [get]
func (h *FootprintHandler) GetSummary(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}

	summary, err := h.reportService.QuestionnaireSummary(c.Request.Context(), userID)
	if err != nil {
		respondFootprintError(c, err, "Failed to build summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// authorizedUserID parses the :id parameter and enforces self-or-admin access
func (h *FootprintHandler) authorizedUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid user ID",
		})
		return primitive.NilObjectID, false
	}

	if !middleware.CanAccessUser(c, userID) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "You may only read your own footprint",
		})
		return primitive.NilObjectID, false
	}

	return userID, true
}

func respondFootprintError(c *gin.Context, err error, message string) {
	switch {
	case models.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case models.IsValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: message,
		})
	}
}

// RegisterRoutes registers footprint handler routes
func (h *FootprintHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	users := rg.Group("/users")
	users.Use(authMiddleware)
	{
		users.GET("/:id/footprint", h.GetSnapshot)
		users.GET("/:id/footprint/comparison", h.GetComparison)
		users.GET("/:id/footprint/evolution", h.GetEvolution)
		users.GET("/:id/footprint/summary", h.GetSummary)
	}
}
