package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/slides"
	"github.com/ayusman/mudra/internal/store"
)

// DeckHandler handles HTTP requests for deck resources.
type DeckHandler struct {
	store     *store.Store
	presenter Presenter
	log       zerolog.Logger
}

// NewDeckHandler creates a DeckHandler. presenter may be nil, in which case
// decks can be stored but not activated.
func NewDeckHandler(s *store.Store, presenter Presenter, log zerolog.Logger) *DeckHandler {
	return &DeckHandler{store: s, presenter: presenter, log: log}
}

// Routes mounts the deck endpoints on r.
func (h *DeckHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/activate", h.activate)
}

type slideRequest struct {
	Title string `json:"title" validate:"max=200"`
	Body  string `json:"body" validate:"max=10000"`
}

type createDeckRequest struct {
	Title  string         `json:"title" validate:"required,max=200"`
	Slides []slideRequest `json:"slides" validate:"max=500,dive"`
}

type listDecksResponse struct {
	Decks  []store.DeckSummary `json:"decks"`
	Active string              `json:"active,omitempty"`
}

// list handles GET /api/decks.
func (h *DeckHandler) list(w http.ResponseWriter, r *http.Request) {
	decks, err := h.store.Decks().List()
	if err != nil {
		h.log.Error().Err(err).Msg("list decks")
		writeError(w, http.StatusInternalServerError, "Failed to list decks")
		return
	}

	response := listDecksResponse{Decks: decks}
	if response.Decks == nil {
		response.Decks = []store.DeckSummary{}
	}
	if active, err := h.store.Settings().Get(store.KeyActiveDeck); err == nil {
		response.Active = active
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/decks.
func (h *DeckHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createDeckRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deck := &slides.Deck{Title: req.Title}
	for _, s := range req.Slides {
		deck.Slides = append(deck.Slides, slides.Slide{Title: s.Title, Body: s.Body})
	}

	if err := h.store.Decks().Create(deck); err != nil {
		h.log.Error().Err(err).Msg("create deck")
		writeError(w, http.StatusInternalServerError, "Failed to create deck")
		return
	}

	writeJSON(w, http.StatusCreated, deck)
}

// get handles GET /api/decks/{id}.
func (h *DeckHandler) get(w http.ResponseWriter, r *http.Request) {
	deck, ok := h.load(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

// delete handles DELETE /api/decks/{id}. Deleting the active deck clears
// the presentation.
func (h *DeckHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Decks().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Deck not found")
			return
		}
		h.log.Error().Err(err).Str("deck", id).Msg("delete deck")
		writeError(w, http.StatusInternalServerError, "Failed to delete deck")
		return
	}

	if active, err := h.store.Settings().Get(store.KeyActiveDeck); err == nil && active == id {
		if err := h.store.Settings().Delete(store.KeyActiveDeck); err != nil {
			h.log.Warn().Err(err).Msg("clear active deck")
		}
	}
	if h.presenter != nil {
		h.presenter.UnloadDeck(id)
	}

	w.WriteHeader(http.StatusNoContent)
}

// activate handles POST /api/decks/{id}/activate, loading the deck into the
// presentation and remembering it for the next start.
func (h *DeckHandler) activate(w http.ResponseWriter, r *http.Request) {
	if h.presenter == nil {
		writeError(w, http.StatusServiceUnavailable, "Presentation not running")
		return
	}

	deck, ok := h.load(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.store.Settings().Set(store.KeyActiveDeck, deck.ID); err != nil {
		h.log.Error().Err(err).Msg("save active deck")
		writeError(w, http.StatusInternalServerError, "Failed to activate deck")
		return
	}
	h.presenter.LoadDeck(*deck)

	writeJSON(w, http.StatusOK, h.presenter.Position())
}

func (h *DeckHandler) load(w http.ResponseWriter, id string) (*slides.Deck, bool) {
	deck, err := h.store.Decks().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Deck not found")
			return nil, false
		}
		h.log.Error().Err(err).Str("deck", id).Msg("get deck")
		writeError(w, http.StatusInternalServerError, "Failed to get deck")
		return nil, false
	}
	return deck, true
}
