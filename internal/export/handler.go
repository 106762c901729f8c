package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/inamate/inamate/lottiegen/internal/auth"
	"github.com/inamate/inamate/lottiegen/internal/translation"
)

const (
	maxScale  = 4
	maxPixels = 4096 * 4096
)

// FrameSource renders stored translations; *translation.Service
// implements it.
type FrameSource interface {
	Frame(ctx context.Context, id, clientID string, progress float64) (*translation.Frame, error)
}

type Handler struct {
	frames FrameSource
}

func NewHandler(frames FrameSource) *Handler {
	return &Handler{frames: frames}
}

// FramePNG renders ?progress= (0..1) of a translation as a PNG, scaled by
// ?scale= (default 1).
func (h *Handler) FramePNG(w http.ResponseWriter, r *http.Request) {
	clientID := auth.ClientIDFromContext(r.Context())
	id := mux.Vars(r)["translationId"]

	progress, err := queryFloat(r, "progress", 0)
	if err != nil || progress < 0 || progress > 1 {
		http.Error(w, "progress must be a number between 0 and 1", http.StatusBadRequest)
		return
	}
	scale, err := queryFloat(r, "scale", 1)
	if err != nil || scale <= 0 || scale > maxScale {
		http.Error(w, fmt.Sprintf("scale must be in (0, %d]", maxScale), http.StatusBadRequest)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "frame"
	}
	// Sanitize filename
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)

	frame, err := h.frames.Frame(r.Context(), id, clientID, progress)
	switch {
	case errors.Is(err, translation.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
		return
	case errors.Is(err, translation.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	case err != nil:
		slog.Error("render frame", "error", err, "translation", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	width := int(math.Ceil(frame.Width * scale))
	height := int(math.Ceil(frame.Height * scale))
	if width <= 0 || height <= 0 || width*height > maxPixels {
		http.Error(w, fmt.Sprintf("frame size %dx%d cannot be exported", width, height), http.StatusBadRequest)
		return
	}

	dc, err := Rasterize(frame.Commands, width, height, scale)
	if err != nil {
		slog.Error("rasterize frame", "error", err, "translation", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer dc.Close()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		slog.Error("encode png", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s.png"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())

	slog.Info("export complete", "translation", id, "width", width, "height", height, "size", buf.Len())
}

func queryFloat(r *http.Request, key string, def float64) (float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}
