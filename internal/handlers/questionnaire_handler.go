package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/empreinte-tools/empreinte_backend/internal/middleware"
	"github.com/empreinte-tools/empreinte_backend/internal/models"
	"github.com/empreinte-tools/empreinte_backend/internal/services"
)

// QuestionnaireHandler handles questionnaire submission and finalization
type QuestionnaireHandler struct {
	submissionService services.SubmissionService
}

// NewQuestionnaireHandler creates a new questionnaire handler
func NewQuestionnaireHandler(submissionService services.SubmissionService) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		submissionService: submissionService,
	}
}

// ChoiceRequest represents one multiple-choice answer in a submission
type ChoiceRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	OptionID   string `json:"option_id" binding:"required"`
}

// AnswerRequest represents one free-text answer in a submission
type AnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Value      string `json:"value"`
}

// SubmitQuestionnaireRequest represents the submission request body
// #DATA_ASSUMPTION: is_draft defaults to false (an official submission)
type SubmitQuestionnaireRequest struct {
	Choices []ChoiceRequest `json:"choices"`
	Answers []AnswerRequest `json:"answers"`
	IsDraft bool            `json:"is_draft"`
}

// SubmitQuestionnaireResponse represents the submission response
type SubmitQuestionnaireResponse struct {
	ID      string `json:"id"`
	IsDraft bool   `json:"is_draft"`
}

// LatestQuestionnaireResponse represents the latest questionnaire lookup
type LatestQuestionnaireResponse struct {
	ID string `json:"id"`
}

// LastAnswersResponse represents the last-answers prefill payload
type LastAnswersResponse struct {
	QuestionnaireID string          `json:"questionnaire_id,omitempty"`
	Choices         []ChoiceRequest `json:"choices"`
	Answers         []AnswerRequest `json:"answers"`
}

// Submit handles POST /api/v1/questionnaires
// @Summary Submit a questionnaire
// @Description Stores a new questionnaire with its answers for the authenticated user. Pass is_draft=true for a simulation.
// @Tags Questionnaires
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitQuestionnaireRequest true "Submission"
// @Success 201 {object} SubmitQuestionnaireResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /questionnaires [post]
func (h *QuestionnaireHandler) Submit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid session",
		})
		return
	}

	var req SubmitQuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	submitReq, err := toSubmitRequest(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Question and option IDs must be valid object IDs",
		})
		return
	}

	id, err := h.submissionService.Submit(c.Request.Context(), userID, submitReq)
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SubmitQuestionnaireResponse{
		ID:      id.Hex(),
		IsDraft: req.IsDraft,
	})
}

// Finalize handles POST /api/v1/questionnaires/:id/finalize
// @Summary Finalize a draft questionnaire
// @Description Clears the draft flag exactly once, making the questionnaire part of the user's official history. Only the owner or an admin may finalize.
// @Tags Questionnaires
// @Produce json
// @Security BearerAuth
// @Param id path string true "Questionnaire ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /questionnaires/{id}/finalize [post]
func (h *QuestionnaireHandler) Finalize(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid session",
		})
		return
	}

	questionnaireID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid questionnaire ID",
		})
		return
	}

	if err := h.submissionService.Finalize(c.Request.Context(), questionnaireID, userID, middleware.IsAdmin(c)); err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Questionnaire finalized"})
}

// Delete handles DELETE /api/v1/questionnaires/:id
// @Summary Delete a questionnaire
// @Description Removes a questionnaire with all its answers. Admin-only moderation endpoint.
// @Tags Questionnaires
// @Produce json
// @Security BearerAuth
// @Param id path string true "Questionnaire ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questionnaires/{id} [delete]
func (h *QuestionnaireHandler) Delete(c *gin.Context) {
	questionnaireID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid questionnaire ID",
		})
		return
	}

	if err := h.submissionService.Delete(c.Request.Context(), questionnaireID); err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Questionnaire deleted"})
}

// GetLatest handles GET /api/v1/users/:id/questionnaires/latest
// @Summary Latest questionnaire ID
// @Description Returns the ID of the user's most recent questionnaire, drafts included.
// @Tags Questionnaires
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} LatestQuestionnaireResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/questionnaires/latest [get]
func (h *QuestionnaireHandler) GetLatest(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}

	id, err := h.submissionService.LastQuestionnaireID(c.Request.Context(), userID)
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, LatestQuestionnaireResponse{ID: id.Hex()})
}

// GetLastAnswers handles GET /api/v1/users/:id/answers/latest
// @Summary Last official answers
// @Description Returns the raw answers of the user's most recent official questionnaire, for prefilling the survey form. Empty when the user never submitted.
// @Tags Questionnaires
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} LastAnswersResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /users/{id}/answers/latest [get]
func (h *QuestionnaireHandler) GetLastAnswers(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}

	last, err := h.submissionService.LastAnswers(c.Request.Context(), userID)
	if err != nil {
		respondSubmissionError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLastAnswersResponse(last))
}

func (h *QuestionnaireHandler) authorizedUserID(c *gin.Context) (primitive.ObjectID, bool) {
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
			Message: "You may only read your own questionnaires",
		})
		return primitive.NilObjectID, false
	}

	return userID, true
}

func toSubmitRequest(req SubmitQuestionnaireRequest) (services.SubmitRequest, error) {
	result := services.SubmitRequest{
		Choices: make([]services.ChoiceInput, len(req.Choices)),
		Answers: make([]services.AnswerInput, len(req.Answers)),
		IsDraft: req.IsDraft,
	}

	for i, choice := range req.Choices {
		questionID, err := primitive.ObjectIDFromHex(choice.QuestionID)
		if err != nil {
			return services.SubmitRequest{}, err
		}
		optionID, err := primitive.ObjectIDFromHex(choice.OptionID)
		if err != nil {
			return services.SubmitRequest{}, err
		}
		result.Choices[i] = services.ChoiceInput{QuestionID: questionID, OptionID: optionID}
	}

	for i, answer := range req.Answers {
		questionID, err := primitive.ObjectIDFromHex(answer.QuestionID)
		if err != nil {
			return services.SubmitRequest{}, err
		}
		result.Answers[i] = services.AnswerInput{QuestionID: questionID, Value: answer.Value}
	}

	return result, nil
}

func toLastAnswersResponse(last *services.LastAnswers) LastAnswersResponse {
	resp := LastAnswersResponse{
		Choices: make([]ChoiceRequest, len(last.Choices)),
		Answers: make([]AnswerRequest, len(last.Answers)),
	}
	if !last.QuestionnaireID.IsZero() {
		resp.QuestionnaireID = last.QuestionnaireID.Hex()
	}
	for i, choice := range last.Choices {
		resp.Choices[i] = ChoiceRequest{
			QuestionID: choice.QuestionID.Hex(),
			OptionID:   choice.OptionID.Hex(),
		}
	}
	for i, answer := range last.Answers {
		resp.Answers[i] = AnswerRequest{
			QuestionID: answer.QuestionID.Hex(),
			Value:      answer.Value,
		}
	}
	return resp
}

func respondSubmissionError(c *gin.Context, err error) {
	switch {
	case models.IsAuthError(err):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: err.Error(),
		})
	case models.IsValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	case models.IsConflictError(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case models.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to process questionnaire",
		})
	}
}

// RegisterRoutes registers questionnaire handler routes
func (h *QuestionnaireHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	questionnaires := rg.Group("/questionnaires")
	questionnaires.Use(authMiddleware)
	{
		questionnaires.POST("", h.Submit)
		questionnaires.POST("/:id/finalize", h.Finalize)
		questionnaires.DELETE("/:id", middleware.RequireAdmin(), h.Delete)
	}

	users := rg.Group("/users")
	users.Use(authMiddleware)
	{
		users.GET("/:id/questionnaires/latest", h.GetLatest)
		users.GET("/:id/answers/latest", h.GetLastAnswers)
	}
}
