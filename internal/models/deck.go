package models

import "time"

type Deck struct {
	ID          int64     `json:"id" db:"deck_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	ImageURI    string    `json:"image_uri" db:"image_uri"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	CardCount   int       `json:"card_count" db:"card_count"`
}

// DeckInput carries the editable fields of a deck.
type DeckInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURI    string `json:"image_uri"`
}
