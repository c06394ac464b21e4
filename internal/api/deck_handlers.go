package api

import (
	"net/http"

	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/models"
)

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.DeckService.ListDecks(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, decks)
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var input models.DeckInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.CreateDeck(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("deck created: id=%d", deck.ID)
	writeJSON(w, r, http.StatusCreated, deck)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.GetDeck(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleUpdateDeck(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var input models.DeckInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.UpdateDeck(r.Context(), id, input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.DeckService.DeleteDeck(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("deck deleted: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}
