package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kazi-s/usermgmt/internal/service"
)

type usersHandler struct {
	userService *service.UserService
}

func NewUsersHandler(userService *service.UserService) *usersHandler {
	return &usersHandler{userService: userService}
}

type userActionRequest struct {
	UserIDs []string `json:"userIds"`
}

// userResponse is the public projection of an account. Password hash
// and confirmation token never leave the server.
type userResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	LastLoginTime    *time.Time `json:"lastLoginTime"`
	Status           string     `json:"status"`
	RegistrationTime time.Time  `json:"registrationTime"`
}

func (h *usersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List()
	if err != nil {
		slog.Error("failed to list users", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResponse{
			ID:               u.ID,
			Name:             u.Name,
			Email:            u.Email,
			LastLoginTime:    u.LastLoginTime,
			Status:           string(u.Status),
			RegistrationTime: u.RegistrationTime,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *usersHandler) Block(w http.ResponseWriter, r *http.Request) {
	var req userActionRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	count, err := h.userService.Block(req.UserIDs)
	if err != nil {
		slog.Error("failed to block users", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Failed to block users")
		return
	}

	respondMessage(w, http.StatusOK, fmt.Sprintf("%d user(s) blocked successfully", count))
}

func (h *usersHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	var req userActionRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	count, err := h.userService.Unblock(req.UserIDs)
	if err != nil {
		slog.Error("failed to unblock users", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Failed to unblock users")
		return
	}

	respondMessage(w, http.StatusOK, fmt.Sprintf("%d user(s) unblocked successfully", count))
}

func (h *usersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req userActionRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	count, err := h.userService.Delete(req.UserIDs)
	if err != nil {
		slog.Error("failed to delete users", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Failed to delete users")
		return
	}

	respondMessage(w, http.StatusOK, fmt.Sprintf("%d user(s) deleted permanently", count))
}

func (h *usersHandler) DeleteUnverified(w http.ResponseWriter, r *http.Request) {
	count, err := h.userService.DeleteUnverified()
	if err != nil {
		slog.Error("failed to delete unverified users", "error", err)
		respondMessage(w, http.StatusInternalServerError, "Failed to delete unverified users")
		return
	}

	respondMessage(w, http.StatusOK, fmt.Sprintf("%d unverified user(s) deleted permanently", count))
}
