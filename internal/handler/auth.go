package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kazi-s/usermgmt/internal/repository"
	"github.com/kazi-s/usermgmt/internal/service"
	"github.com/kazi-s/usermgmt/internal/validation"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{authService: authService}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token  string `json:"token"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.ValidateName(req.Name); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err = h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			respondMessage(w, http.StatusConflict, "Email already exists")
			return
		}
		slog.Error("registration failed", "email", req.Email, "error", err)
		respondMessage(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	respondMessage(w, http.StatusOK, "Registration successful! Please check your email to confirm your account.")
}

func (h *authHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	token := r.URL.Query().Get("token")

	alreadyConfirmed, err := h.authService.ConfirmEmail(email, token)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			respondMessage(w, http.StatusNotFound, "User not found.")
		case errors.Is(err, service.ErrInvalidOrExpiredToken):
			respondMessage(w, http.StatusBadRequest, "Invalid or expired confirmation link.")
		default:
			slog.Error("email confirmation failed", "email", email, "error", err)
			respondMessage(w, http.StatusInternalServerError, "Confirmation failed")
		}
		return
	}

	if alreadyConfirmed {
		respondMessage(w, http.StatusOK, "Email already confirmed.")
		return
	}

	respondMessage(w, http.StatusOK, "Email confirmed successfully! You can now login.")
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountBlocked):
			respondMessage(w, http.StatusUnauthorized, "Your account is blocked")
		case errors.Is(err, service.ErrInvalidCredentials):
			respondMessage(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			slog.Error("login failed", "email", req.Email, "error", err)
			respondMessage(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, authResponse{
		Token:  token,
		Email:  user.Email,
		Name:   user.Name,
		Status: string(user.Status),
	})
}
