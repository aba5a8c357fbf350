package httpserver

import (
	"errors"
	"net/http"

	"techmart/internal/domain"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) || !checkValid(w, req) {
		return
	}
	user, err := h.Auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			writeMessage(w, http.StatusBadRequest, "Email already in use")
			return
		}
		writeError(w, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User created",
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) || !checkValid(w, req) {
		return
	}
	token, user, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "User not found")
		case errors.Is(err, domain.ErrInvalid):
			writeMessage(w, http.StatusBadRequest, "Incorrect password")
		default:
			writeError(w, err, "User not found")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}
