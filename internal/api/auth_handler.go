package api

import (
	"errors"
	"net/http"

	app_errors "roadmate/backend/internal/errors"
	"roadmate/backend/internal/interfaces"
	"roadmate/backend/internal/model"
	"roadmate/backend/internal/service"
)

// AddressRequest mirrors model.Address on the wire.
type AddressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type RegisterRequest struct {
	Name     string         `json:"name" validate:"required,max=100" example:"Dana Driver"`
	Email    string         `json:"email" validate:"required,email" example:"dana@example.com"`
	Password string         `json:"password" validate:"required,min=6" example:"secret1"`
	Address  AddressRequest `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

type LoginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    *model.User `json:"user"`
}

type AuthHandler struct {
	service interfaces.AuthService
}

func NewAuthHandler(svc interfaces.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Register godoc
// @Summary      Register
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Account"
// @Success      201      {object}  RegisterResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	user, token, err := h.service.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  model.Address(req.Address),
	})
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, RegisterResponse{User: user, Token: token})
}

// Login godoc
// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  LoginResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, app_errors.ErrUnauthorized) {
			respondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
			return
		}
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, LoginResponse{Success: true, Token: token, User: user})
}
