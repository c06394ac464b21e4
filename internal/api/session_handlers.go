package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/review"
)

type swipeRequest struct {
	CardID    int64  `json:"card_id"`
	Direction string `json:"direction"`
}

type filterRequest struct {
	DeckID *int64 `json:"deck_id"`
}

func (s *Server) session(r *http.Request) (*review.Session, error) {
	return s.Sessions.Get(chi.URLParam(r, "sessionID"))
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.Sessions.Start(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, session.State())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session.State())
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.Sessions.End(id); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("session %s ended", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSwipe(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req swipeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.CardID <= 0 {
		handleError(w, r, errors.NewValidationError("card_id", "required"))
		return
	}

	state, err := session.Swipe(r.Context(), req.Direction, req.CardID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleFilterSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req filterRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	state, err := session.FilterByDeck(req.DeckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}
