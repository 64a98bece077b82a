package handler

import (
	"net/http"

	"github.com/abeleng/shemeta/internal/auth"
)

// AuthHandler serves account registration and token issuance
type AuthHandler struct {
	service auth.Service
}

func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// HandleRegister creates an account and returns a bearer token for it
// @Summary Register a farmer or buyer
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account details"
// @Success 201 {object} auth.Session
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Register"); err != nil {
		return
	}

	session, err := h.service.Register(r.Context(), auth.RegisterInput{
		Name:            req.Name,
		Phone:           req.Phone,
		Role:            req.Role,
		Region:          req.Region,
		ExperienceYears: req.ExperienceYears,
	})
	if err != nil {
		respondServiceError(w, r, "Register", err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

// HandleIssueToken issues a token for an existing user id. Not mounted in production.
// @Summary Issue a token for an existing user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "User id"
// @Success 200 {object} auth.Session
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/auth/token [post]
func (h *AuthHandler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Issue token"); err != nil {
		return
	}

	session, err := h.service.IssueToken(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, r, "Issue token", err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}
