package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/models"
	"github.com/vytor/readwithcard/internal/repository"
)

type deckRepository struct {
	db *sqlx.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sqlx.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func deckSelect() squirrel.SelectBuilder {
	return sqlBuilder.Select(
		"d.deck_id", "d.name",
		"COALESCE(d.description, '') AS description",
		"COALESCE(d.image_uri, '') AS image_uri",
		"d.created_at",
		"COUNT(c.card_id) AS card_count",
	).From("decks d").
		LeftJoin("cards c ON c.deck_id = d.deck_id").
		GroupBy("d.deck_id")
}

func (r *deckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d", id)

	query, args, err := deckSelect().Where(squirrel.Eq{"d.deck_id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var d models.Deck
	if err := r.db.GetContext(ctx, &d, query, args...); err != nil {
		if err == sql.ErrNoRows {
			log.Debug("deck not found: id=%d", id)
		} else {
			log.Error("failed to get deck: %v", err)
		}
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) List(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks")

	query, args, err := deckSelect().OrderBy("d.created_at DESC", "d.deck_id DESC").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	decks := []models.Deck{}
	if err := r.db.SelectContext(ctx, &decks, query, args...); err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	log.Debug("found %d decks", len(decks))
	return decks, nil
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: name=%s", d.Name)

	created := d.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	query, args, err := sqlBuilder.Insert("decks").
		Columns("name", "description", "image_uri", "created_at").
		Values(d.Name, nullable(d.Description), nullable(d.ImageURI), utc(created)).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get deck id: %v", err)
		return 0, err
	}
	log.Debug("deck inserted: id=%d", id)
	return id, nil
}

func (r *deckRepository) Update(ctx context.Context, d models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating deck: id=%d", d.ID)

	err := execOne(ctx, r.db, sqlBuilder.Update("decks").
		Set("name", d.Name).
		Set("description", nullable(d.Description)).
		Set("image_uri", nullable(d.ImageURI)).
		Where(squirrel.Eq{"deck_id": d.ID}))
	if err != nil && err != sql.ErrNoRows {
		log.Error("failed to update deck: %v", err)
	}
	return err
}

func (r *deckRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck with its cards: id=%d", id)

	return tx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
DELETE FROM viewed_cards
WHERE deck_id = ? OR card_id IN (SELECT card_id FROM cards WHERE deck_id = ?)
`, id, id); err != nil {
			log.Error("failed to delete viewed rows: %v", err)
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE deck_id = ?`, id); err != nil {
			log.Error("failed to delete deck cards: %v", err)
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM decks WHERE deck_id = ?`, id); err != nil {
			log.Error("failed to delete deck: %v", err)
			return err
		}
		return nil
	})
}
