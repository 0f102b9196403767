package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/transfermarket/platform/internal/auth"
	"github.com/transfermarket/platform/internal/domain"
	"github.com/transfermarket/platform/internal/service"
)

// AuthHandler handles club signup and login endpoints.
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input service.SignupInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	result, err := h.authSvc.Signup(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, result)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondBadBody(w)
		return
	}

	result, err := h.authSvc.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, result)
}

// ActorClubID extracts the authenticated club's ID from the request claims.
func ActorClubID(r *http.Request) (uuid.UUID, error) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil || claims.ClubID == "" {
		return uuid.Nil, domain.ErrUnauthorized("no club in auth context")
	}
	id, err := uuid.Parse(claims.ClubID)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized("malformed club claim")
	}
	return id, nil
}

// ActorUserID extracts the authenticated user's ID from the request claims.
func ActorUserID(r *http.Request) (uuid.UUID, error) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		return uuid.Nil, domain.ErrUnauthorized("no auth context")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized("malformed subject claim")
	}
	return id, nil
}
