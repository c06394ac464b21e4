package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the storage format of a streak date.
const DateLayout = "2006-01-02"

type StreakDay struct {
	Date          time.Time `json:"-"`
	CardsReviewed int       `json:"cards_reviewed"`
}

// DateString formats the calendar date of the record.
func (d StreakDay) DateString() string {
	return d.Date.Format(DateLayout)
}

// Active reports whether at least one card was reviewed that day.
func (d StreakDay) Active() bool {
	return d.CardsReviewed > 0
}

func (d StreakDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date          string `json:"date"`
		CardsReviewed int    `json:"cards_reviewed"`
	}{d.DateString(), d.CardsReviewed})
}
