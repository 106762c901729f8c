package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

const minSecretLength = 16

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type credentialsRequest struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Secret == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and secret are required"})
		return
	}

	if len(req.Secret) < minSecretLength {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "secret must be at least 16 characters"})
		return
	}

	result, err := h.service.Register(r.Context(), req.Name, req.Secret)
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "client name already registered"})
			return
		}
		slog.Error("register client failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Secret == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and secret are required"})
		return
	}

	result, err := h.service.Token(r.Context(), req.Name, req.Secret)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		slog.Error("issue token failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
