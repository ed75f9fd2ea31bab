package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/empreinte-tools/empreinte_backend/internal/models"
	"github.com/empreinte-tools/empreinte_backend/internal/repository"
	"github.com/empreinte-tools/empreinte_backend/internal/services"
)

// RankingHandler handles the leaderboard endpoints
// #INTEGRATION_POINT: Leaderboard screens poll these endpoints
type RankingHandler struct {
	rankingService services.RankingService
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(rankingService services.RankingService) *RankingHandler {
	return &RankingHandler{
		rankingService: rankingService,
	}
}

// RankUsers handles GET /api/v1/ranking/users
// @Summary User leaderboard
// @Description Ranks all active users by footprint (sort=co2, lowest first) or by improvement since the previous submission (sort=effort).
// @Tags Ranking
// @Produce json
// @Security BearerAuth
// @Param sort query string false "Sort criterion: co2 or effort" default(co2)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} services.UserRankingPage
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /ranking/users [get]
func (h *RankingHandler) RankUsers(c *gin.Context) {
	criterion, err := services.ParseRankCriterion(c.DefaultQuery("sort", string(services.RankByCO2)))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_sort",
			Message: "Sort criterion must be co2 or effort",
		})
		return
	}

	opts, ok := paginationFromQuery(c)
	if !ok {
		return
	}

	page, err := h.rankingService.RankUsers(c.Request.Context(), criterion, opts)
	if err != nil {
		respondRankingError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// RankCompanies handles GET /api/v1/ranking/companies
// @Summary Company leaderboard
// @Description Ranks all certified groups by the summed footprint of their members, lowest first.
// @Tags Ranking
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} services.CompanyRankingPage
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /ranking/companies [get]
func (h *RankingHandler) RankCompanies(c *gin.Context) {
	opts, ok := paginationFromQuery(c)
	if !ok {
		return
	}

	page, err := h.rankingService.RankCompanies(c.Request.Context(), opts)
	if err != nil {
		respondRankingError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// paginationFromQuery parses page/limit query parameters, writing a 400
// response and returning false on malformed input
func paginationFromQuery(c *gin.Context) (repository.PaginationOptions, bool) {
	opts := repository.DefaultPaginationOptions()

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_pagination",
				Message: "Page must be a positive integer",
			})
			return opts, false
		}
		opts.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_pagination",
				Message: "Limit must be a positive integer",
			})
			return opts, false
		}
		opts.Limit = limit
	}

	if err := opts.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_pagination",
			Message: err.Error(),
		})
		return opts, false
	}

	return opts, true
}

func respondRankingError(c *gin.Context, err error) {
	if models.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "Failed to compute ranking",
	})
}

// RegisterRoutes registers ranking handler routes
// #IMPLEMENTATION_DECISION: Ranking recomputes scores across all subjects,
// so these routes carry the rate limiter in addition to authentication
func (h *RankingHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc, rateLimit gin.HandlerFunc) {
	ranking := rg.Group("/ranking")
	ranking.Use(authMiddleware)
	ranking.Use(rateLimit)
	{
		ranking.GET("/users", h.RankUsers)
		ranking.GET("/companies", h.RankCompanies)
	}
}
