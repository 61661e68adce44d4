package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/reelstack/apiserver/internal/services"
)

// UserHandler provides read and delete endpoints for users.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, userService *services.UserService) {
	handler := NewUserHandler(userService)

	r.Get("/", handler.ListUsers)
	r.Get("/{userID}", handler.GetUser)
	r.Delete("/{userID}", handler.DeleteUser)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		respondError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.Delete(r.Context(), id)
	if err != nil {
		respondError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
