package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/paisatrack/backend/internal/service"
)

type AuthHandler struct {
	service UserServiceInterface
}

func NewAuthHandler(service UserServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register godoc
// @Summary Register a new user
// @Description Create an account with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param input body service.RegisterInput true "Registration data"
// @Success 201 {object} service.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Email == "" || input.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	resp, err := h.service.Register(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondError(w, http.StatusConflict, "email already registered")
		case errors.Is(err, service.ErrUnsupportedCurrency):
			respondError(w, http.StatusBadRequest, "unsupported currency")
		default:
			respondError(w, http.StatusInternalServerError, "failed to register")
		}
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param input body service.LoginInput true "Credentials"
// @Success 200 {object} service.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Login(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Me godoc
// @Summary Current user
// @Description Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetByID(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, "failed to load profile")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateSettings godoc
// @Summary Update settings
// @Description Update profile settings: name, currency and monthly figures
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.UpdateSettingsInput true "Settings"
// @Success 200 {object} model.User
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/settings [put]
func (h *AuthHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateSettingsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.UpdateSettings(r.Context(), GetUserID(r.Context()), input)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedCurrency) {
			respondError(w, http.StatusBadRequest, "unsupported currency")
			return
		}
		respondServiceError(w, err, "failed to update settings")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
