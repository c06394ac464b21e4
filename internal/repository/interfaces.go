package repository

import (
	"context"
	"time"

	"github.com/vytor/readwithcard/internal/models"
)

// Lookups of a single row return sql.ErrNoRows when the row does not exist.

// DeckRepository handles deck data access
type DeckRepository interface {
	Get(ctx context.Context, id int64) (*models.Deck, error)
	List(ctx context.Context) ([]models.Deck, error)
	Insert(ctx context.Context, deck models.Deck) (int64, error)
	Update(ctx context.Context, deck models.Deck) error
	// Delete removes the deck together with its cards and viewed-card rows.
	Delete(ctx context.Context, id int64) error
}

// CardRepository handles card data access
type CardRepository interface {
	Get(ctx context.Context, id int64) (*models.Card, error)
	Insert(ctx context.Context, card models.Card) (int64, error)
	// InsertBatch inserts all cards or none.
	InsertBatch(ctx context.Context, cards []models.Card) ([]int64, error)
	UpdateFields(ctx context.Context, id int64, fields models.CardFields) error
	UpdateProgress(ctx context.Context, id int64, review models.Review) error
	UpdateSentence(ctx context.Context, id int64, sentence string, at time.Time) error
	Delete(ctx context.Context, id int64) error
	ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error)
	ListByStatus(ctx context.Context, status models.CardStatus) ([]models.Card, error)
	ListDue(ctx context.Context, now time.Time) ([]models.Card, error)
	CountDue(ctx context.Context, now time.Time) (int, error)
	CountByStatus(ctx context.Context) (models.CardStats, error)
}

// StreakRepository handles daily streak data access. Dates use models.DateLayout.
type StreakRepository interface {
	Upsert(ctx context.Context, date string, cardsReviewed int) error
	Get(ctx context.Context, date string) (int, error)
	Range(ctx context.Context, from, to string) (map[string]int, error)
}
