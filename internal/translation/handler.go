package translation

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inamate/inamate/lottiegen/internal/auth"
	"github.com/inamate/inamate/lottiegen/internal/issues"
	"github.com/inamate/inamate/lottiegen/internal/translate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Name     string             `json:"name"`
	Document json.RawMessage    `json:"document"`
	Options  *translate.Options `json:"options"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	clientID := auth.ClientIDFromContext(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if len(req.Document) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document is required"})
		return
	}

	tr, err := h.service.Create(r.Context(), clientID, req.Name, req.Document, req.Options)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tr)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	clientID := auth.ClientIDFromContext(r.Context())
	id := mux.Vars(r)["translationId"]

	tr, err := h.service.Get(r.Context(), id, clientID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tr)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	clientID := auth.ClientIDFromContext(r.Context())

	trs, err := h.service.List(r.Context(), clientID)
	if err != nil {
		slog.Error("list translations failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, trs)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	clientID := auth.ClientIDFromContext(r.Context())
	id := mux.Vars(r)["translationId"]

	if err := h.service.Delete(r.Context(), id, clientID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Frame renders ?progress= (0..1, default 0) as draw commands.
func (h *Handler) Frame(w http.ResponseWriter, r *http.Request) {
	clientID := auth.ClientIDFromContext(r.Context())
	id := mux.Vars(r)["translationId"]

	progress := 0.0
	if p := r.URL.Query().Get("progress"); p != "" {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 || v > 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "progress must be a number between 0 and 1"})
			return
		}
		progress = v
	}

	frame, err := h.service.Frame(r.Context(), id, clientID, progress)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, frame)
}

func handleServiceError(w http.ResponseWriter, err error) {
	var unsupported *issues.UnsupportedError
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, translate.ErrInvalidDocument):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &unsupported):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "unsupported feature", "issue": unsupported.Issue})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
