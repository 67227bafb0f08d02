package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/slides"
)

// PresentationHandler exposes the live slide position and manual controls.
type PresentationHandler struct {
	presenter Presenter
}

// NewPresentationHandler creates a PresentationHandler.
func NewPresentationHandler(p Presenter) *PresentationHandler {
	return &PresentationHandler{presenter: p}
}

// Routes mounts the presentation endpoints on r.
func (h *PresentationHandler) Routes(r chi.Router) {
	r.Get("/", h.status)
	r.Post("/next", h.next)
	r.Post("/prev", h.prev)
	r.Put("/detection", h.setDetection)
}

type presentationResponse struct {
	Position slides.Position      `json:"position"`
	Enabled  bool                 `json:"enabled"`
	Hands    []gesture.HandStatus `json:"hands"`
}

type detectionRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func (h *PresentationHandler) snapshot() presentationResponse {
	return presentationResponse{
		Position: h.presenter.Position(),
		Enabled:  h.presenter.IsEnabled(),
		Hands:    h.presenter.Hands(),
	}
}

// status handles GET /api/presentation.
func (h *PresentationHandler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshot())
}

// next handles POST /api/presentation/next.
func (h *PresentationHandler) next(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.presenter.Next())
}

// prev handles POST /api/presentation/prev.
func (h *PresentationHandler) prev(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.presenter.Prev())
}

// setDetection handles PUT /api/presentation/detection.
func (h *PresentationHandler) setDetection(w http.ResponseWriter, r *http.Request) {
	var req detectionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.presenter.SetEnabled(*req.Enabled)
	writeJSON(w, http.StatusOK, h.snapshot())
}
