package db_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/readwithcard/internal/db"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	database, err := db.Open(db.MemoryPath)
	require.NoError(t, err)
	defer database.Close()

	versions, err := database.AppliedMigrations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_indexes.sql"}, versions)

	for _, table := range []string{"decks", "cards", "viewed_cards", "streaks"} {
		var name string
		err := database.Get(&name, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		assert.NoError(t, err, "table %s should exist", table)
	}
}

func TestOpen_EnforcesForeignKeys(t *testing.T) {
	database, err := db.Open(db.MemoryPath)
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO cards (deck_id, word) VALUES (999, 'orphan')`)
	assert.Error(t, err)
}

func TestOpen_IsIdempotentOnFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.db")

	first, err := db.Open(path)
	require.NoError(t, err)
	_, err = first.Exec(`INSERT INTO decks (name) VALUES ('Verbs')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.Open(path)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.Get(&count, `SELECT COUNT(*) FROM decks`))
	assert.Equal(t, 1, count)
}

func TestReset_RemovesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.db")

	database, err := db.Open(path)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO decks (name) VALUES ('Nouns')`)
	require.NoError(t, err)

	fresh, err := database.Reset()
	require.NoError(t, err)
	defer fresh.Close()

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "database file should be recreated")

	var count int
	require.NoError(t, fresh.Get(&count, `SELECT COUNT(*) FROM decks`))
	assert.Zero(t, count)
	assert.Equal(t, path, fresh.Path())
}
