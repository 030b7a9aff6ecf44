package handler

import (
	"errors"
	"net/http"

	"github.com/aprendia/estadistica-backend/internal/identity"
	"github.com/aprendia/estadistica-backend/internal/middleware"
	"github.com/aprendia/estadistica-backend/internal/model"
	"github.com/aprendia/estadistica-backend/internal/profile"
	"github.com/aprendia/estadistica-backend/internal/response"
	"github.com/aprendia/estadistica-backend/internal/service"
	"github.com/aprendia/estadistica-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService    *service.AuthService
	studentService *service.StudentService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, studentService *service.StudentService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		studentService: studentService,
	}
}

// Login godoc
// POST /api/v1/auth/login
// Verifies credentials with the identity provider, establishes the session
// and returns the token plus the (possibly default) student record.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, student, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status, code := mapAuthError(err)
		response.Fail(c, status, code)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":      token,
		"estudiante": student,
	})
}

// Register godoc
// POST /api/v1/auth/register
// Validates the registration payload (mismatched or short passwords never
// reach the identity provider), creates the account and writes the initial
// student record.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.authService.Register(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailExists):
			response.Fail(c, http.StatusConflict, response.ErrEmailExists)
		case errors.Is(err, service.ErrProfileSave):
			response.Fail(c, http.StatusBadGateway, response.ErrProfileSaveError)
		default:
			response.Fail(c, http.StatusBadGateway, response.ErrAuthFailed)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"mensaje": "Cuenta creada exitosamente. Ahora puedes iniciar sesión.",
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Clears all session state for the authenticated user.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), sess); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"mensaje": "Sesión cerrada exitosamente.",
	})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the student record of the authenticated user, re-reading the
// remote store when the cached copy is gone.
func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	student, err := h.studentService.Load(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrProfileNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"estudiante": student,
	})
}

// mapAuthError translates identity provider failures into the caller-facing
// taxonomy: account not found, wrong credentials, disabled account, or an
// unclassified authentication error.
func mapAuthError(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, identity.ErrUserNotFound):
		return http.StatusUnauthorized, response.ErrUserNotFound
	case errors.Is(err, identity.ErrWrongPassword):
		return http.StatusUnauthorized, response.ErrInvalidCredentials
	case errors.Is(err, identity.ErrUserDisabled):
		return http.StatusForbidden, response.ErrAccountDisabled
	default:
		return http.StatusUnauthorized, response.ErrAuthFailed
	}
}
