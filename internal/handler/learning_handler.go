package handler

import (
	"errors"
	"net/http"

	"github.com/aprendia/estadistica-backend/internal/middleware"
	"github.com/aprendia/estadistica-backend/internal/model"
	"github.com/aprendia/estadistica-backend/internal/response"
	"github.com/aprendia/estadistica-backend/internal/service"
	"github.com/aprendia/estadistica-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// LearningHandler handles the topic catalog and both learning flows.
type LearningHandler struct {
	learningService *service.LearningService
}

// NewLearningHandler creates a new LearningHandler.
func NewLearningHandler(learningService *service.LearningService) *LearningHandler {
	return &LearningHandler{learningService: learningService}
}

// Topics godoc
// GET /api/v1/learn/topics
// Returns the fixed topic catalog for the subject.
func (h *LearningHandler) Topics(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"asignatura": model.Asignatura,
		"temas":      model.Temas,
	})
}

// Select godoc
// POST /api/v1/learn/select
// Validates the (topic, style) submission and names the flow to follow.
func (h *LearningHandler) Select(c *gin.Context) {
	var req model.SelectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	flujo, err := h.learningService.Dispatch(req.Tema, req.Estilo)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownTopic):
			response.Fail(c, http.StatusBadRequest, response.ErrUnknownTopic)
		case errors.Is(err, service.ErrUnknownStyle):
			response.Fail(c, http.StatusBadRequest, response.ErrUnknownStyle)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"tema":  req.Tema,
		"flujo": flujo,
	})
}

// Visual godoc
// GET /api/v1/learn/visual?tema=...
// Runs the visual flow. An empty topic is tolerated.
func (h *LearningHandler) Visual(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	content := h.learningService.Visual(c.Request.Context(), sess, c.Query("tema"))
	response.Success(c, http.StatusOK, content)
}

// Generate godoc
// POST /api/v1/learn/practico/generar
// Runs the practical-flow generation step. A generation failure degrades to
// the static stored exercise with a warning, never an error status.
func (h *LearningHandler) Generate(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.GenerateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	batch := h.learningService.GenerateQuiz(c.Request.Context(), sess, req.Tema)
	response.Success(c, http.StatusOK, batch)
}

// Evaluate godoc
// POST /api/v1/learn/practico/evaluar
// Grades a submitted batch and persists the aggregate outcome.
func (h *LearningHandler) Evaluate(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.EvaluateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result := h.learningService.Evaluate(c.Request.Context(), sess, &req)
	response.Success(c, http.StatusOK, result)
}
