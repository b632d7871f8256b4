package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"groupchat-backend/internal/models"
	"groupchat-backend/internal/repositories"
	"groupchat-backend/internal/services"
	"groupchat-backend/pkg/utils"
)

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// AuthHandler owns signup, login, and logout.
type AuthHandler struct {
	users  repositories.UserRepository
	tokens *services.TokenService
}

func NewAuthHandler(users repositories.UserRepository, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Signup handles POST /user/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Please provide all details"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Internal server error"})
		return
	}

	user, err := h.users.Create(r.Context(), models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hash,
		Groups:    []string{},
		CreatedAt: time.Now().UTC(),
	})
	if errors.Is(err, repositories.ErrConflict) {
		writeJSON(w, http.StatusConflict, AuthResponse{Success: false, Message: "User already exists"})
		return
	}
	if err != nil {
		log.Printf("signup failed for %s: %v", req.Username, err)
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Internal server error"})
		return
	}

	token, err := h.tokens.Issue(services.Principal{
		ID:       user.ID.Hex(),
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "User created successfully",
		Token:   token,
	})
}

// Login handles POST /user/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Please provide username and password"})
		return
	}

	user, err := h.users.FindByUsername(r.Context(), req.Username)
	if errors.Is(err, repositories.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, AuthResponse{Success: false, Message: "User not found"})
		return
	}
	if err != nil {
		log.Printf("login lookup failed for %s: %v", req.Username, err)
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Internal server error"})
		return
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		writeJSON(w, http.StatusUnauthorized, AuthResponse{Success: false, Message: "Invalid password"})
		return
	}

	token, err := h.tokens.Issue(services.Principal{
		ID:       user.ID.Hex(),
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Logged in successfully",
		Token:   token,
	})
}

// Logout handles POST /user/logout. Tokens are stateless; the client discards
// its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, true, "Logged out successfully. Please remove token on client side.")
}
