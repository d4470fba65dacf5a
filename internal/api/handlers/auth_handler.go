package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/markdave123-py/Cluster/internal/api/response"
	"github.com/markdave123-py/Cluster/internal/apierr"
	"github.com/markdave123-py/Cluster/internal/logger"
	"github.com/markdave123-py/Cluster/internal/services"
)

type AuthHandler struct {
	users *services.UserService
	log   *logger.Logger
}

func NewAuthHandler(users *services.UserService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, log: log.With("handler", "auth")}
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, h.log, apierr.BadRequest("Invalid request body"))
		return
	}

	u, err := h.users.Register(r.Context(), req)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.JSON(w, http.StatusCreated, registerResponse{Message: "User registered successfully", UserID: u.ID})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, h.log, apierr.BadRequest("Invalid request body"))
		return
	}

	token, _, err := h.users.Login(r.Context(), req)
	if err != nil {
		response.Error(w, h.log, err)
		return
	}
	response.OK(w, loginResponse{AccessToken: token, TokenType: "bearer"})
}
