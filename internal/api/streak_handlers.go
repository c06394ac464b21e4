package api

import (
	"net/http"
	"time"

	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/models"
	"github.com/vytor/readwithcard/internal/services"
)

type currentStreakResponse struct {
	Date string `json:"date"`
	Days int    `json:"days"`
}

// dateQuery reads an optional "date" parameter (YYYY-MM-DD), defaulting to today.
func (s *Server) dateQuery(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return s.now(), nil
	}
	t, err := time.ParseInLocation(models.DateLayout, raw, s.location())
	if err != nil {
		return time.Time{}, errors.NewBadRequestError("invalid date, expected YYYY-MM-DD: " + raw)
	}
	return t, nil
}

func (s *Server) handleDailyStreak(w http.ResponseWriter, r *http.Request) {
	date, err := s.dateQuery(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.StreakService.GetDailyStreak(r.Context(), date))
}

func (s *Server) handleStreakWindow(w http.ResponseWriter, r *http.Request) {
	date, err := s.dateQuery(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	back, err := intQuery(r, "back", services.DefaultDaysBack)
	if err != nil {
		handleError(w, r, err)
		return
	}
	forward, err := intQuery(r, "forward", services.DefaultDaysForward)
	if err != nil {
		handleError(w, r, err)
		return
	}

	days, err := s.StreakService.GetStreakWindow(r.Context(), date, back, forward)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, days)
}

func (s *Server) handleCurrentStreak(w http.ResponseWriter, r *http.Request) {
	date, err := s.dateQuery(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	days, err := s.StreakService.GetCurrentStreak(r.Context(), date)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, currentStreakResponse{
		Date: services.DayStart(date, s.location()).Format(models.DateLayout),
		Days: days,
	})
}
