package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vytor/readwithcard/internal/db"
	"github.com/vytor/readwithcard/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	database, err := db.Open(db.MemoryPath)
	require.NoError(t, err)
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// MustCreateDeck inserts a deck directly and returns its id.
func MustCreateDeck(t *testing.T, database *db.DB, name string) int64 {
	res, err := database.ExecContext(context.Background(),
		`INSERT INTO decks (name, created_at) VALUES (?, ?)`, name, time.Now().UTC())
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// Date builds a UTC timestamp for tests.
func Date(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

// Card returns a NEW card in deckID with only the word set.
func Card(deckID int64, word string) models.Card {
	return models.Card{DeckID: deckID, Word: word, Status: models.StatusNew}
}
