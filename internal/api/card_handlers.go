package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/models"
)

type reviewRequest struct {
	Correct *bool `json:"correct"`
}

type bulkCardsRequest struct {
	Cards []models.CardFields `json:"cards"`
}

type countResponse struct {
	Count int `json:"count"`
}

func (s *Server) handleDeckCards(w http.ResponseWriter, r *http.Request) {
	deckID, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if _, err := s.DeckService.GetDeck(r.Context(), deckID); err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.CardService.GetCardsByDeck(r.Context(), deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	deckID, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var fields models.CardFields
	if err := decodeJSON(r, &fields); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.CreateCard(r.Context(), deckID, fields)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleBulkCreateCards(w http.ResponseWriter, r *http.Request) {
	deckID, err := idParam(r, "deckID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req bulkCardsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.CardService.BulkCreateCards(r.Context(), deckID, req.Cards)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("bulk created %d cards in deck %d", len(cards), deckID)
	writeJSON(w, r, http.StatusCreated, cards)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.GetCard(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var fields models.CardFields
	if err := decodeJSON(r, &fields); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.UpdateCard(r.Context(), id, fields)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.CardService.DeleteCard(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCardsByStatus(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		handleError(w, r, errors.NewBadRequestError("status query parameter required"))
		return
	}
	status, ok := models.ParseCardStatus(strings.ToUpper(raw))
	if !ok {
		handleError(w, r, errors.NewValidationError("status", "unknown status "+raw))
		return
	}

	cards, err := s.CardService.GetCardsByStatus(r.Context(), status)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

// atQuery reads an optional RFC 3339 "at" parameter, defaulting to now.
func (s *Server) atQuery(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("at")
	if raw == "" {
		return s.now(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.NewBadRequestError("invalid at: " + raw)
	}
	return t, nil
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	at, err := s.atQuery(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if r.URL.Query().Get("count") == "true" {
		n, err := s.CardService.CountDueCards(r.Context(), at)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, countResponse{Count: n})
		return
	}

	cards, err := s.CardService.GetDueCards(r.Context(), at)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleCardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.CardService.GetStats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

// handleReviewCard applies a single review outside any session. It does
// not touch the streak.
func (s *Server) handleReviewCard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "cardID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Correct == nil {
		handleError(w, r, errors.NewValidationError("correct", "required"))
		return
	}

	card, err := s.CardService.ApplyReview(r.Context(), id, *req.Correct, s.now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}
