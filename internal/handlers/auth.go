package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/reelstack/apiserver/internal/auth"
	"github.com/reelstack/apiserver/internal/services"
	"github.com/reelstack/apiserver/types"
)

// AuthHandler provides registration and login endpoints.
type AuthHandler struct {
	userService *services.UserService
	issuer      *auth.Issuer
}

func NewAuthHandler(userService *services.UserService, issuer *auth.Issuer) *AuthHandler {
	return &AuthHandler{userService: userService, issuer: issuer}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, issuer *auth.Issuer) {
	handler := NewAuthHandler(userService, issuer)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.With(RequireAuth(issuer)).Get("/me", handler.Me)
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

// Register creates a new user account and returns a session token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		respondError(w, err, "user not found")
		return
	}

	token, err := h.issuer.Issue(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login verifies credentials and returns a session token. The identifier
// may be a username or an email address.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Identifier == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing identifier or password")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		respondError(w, err, "user not found")
		return
	}

	token, err := h.issuer.Issue(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, err, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
