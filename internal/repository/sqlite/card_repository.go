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

var cardColumns = []string{
	"card_id", "deck_id", "word",
	coalesce("t_word"), coalesce("description"), coalesce("pronunciation"),
	coalesce("part_of_speech"), coalesce("synonyms"), coalesce("sentence"), coalesce("image_uri"),
	"right_count", "status", "last_review", "next_review", "created_at",
}

const statusPrecedence = `CASE status WHEN 'NEW' THEN 1 WHEN 'LEARNING' THEN 2 WHEN 'REVIEWING' THEN 3 WHEN 'GRADUATED' THEN 4 ELSE 5 END`

type cardRepository struct {
	db *sqlx.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sqlx.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d", id)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards").Where(squirrel.Eq{"card_id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var c models.Card
	if err := r.db.GetContext(ctx, &c, query, args...); err != nil {
		if err == sql.ErrNoRows {
			log.Debug("card not found: id=%d", id)
		} else {
			log.Error("failed to get card: %v", err)
		}
		return nil, err
	}
	return &c, nil
}

func insertCard(ctx context.Context, ex sqlx.ExecerContext, c models.Card) (int64, error) {
	status := c.Status
	if status == "" {
		status = models.StatusNew
	}
	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	query, args, err := sqlBuilder.Insert("cards").
		Columns("deck_id", "word", "t_word", "description", "pronunciation", "part_of_speech",
			"synonyms", "sentence", "image_uri", "right_count", "status", "last_review", "next_review", "created_at").
		Values(c.DeckID, c.Word, nullable(c.TranslatedWord), nullable(c.Description), nullable(c.Pronunciation),
			nullable(c.PartOfSpeech), nullable(c.Synonyms), nullable(c.Sentence), nullable(c.ImageURI),
			c.RightCount, string(status), utcPtr(c.LastReview), utcPtr(c.NextReview), utc(created)).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: deck_id=%d, word=%s", c.DeckID, c.Word)

	id, err := insertCard(ctx, r.db, c)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) InsertBatch(ctx context.Context, cards []models.Card) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting %d cards in one transaction", len(cards))

	ids := make([]int64, 0, len(cards))
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		for i, c := range cards {
			id, err := insertCard(ctx, tx, c)
			if err != nil {
				log.Error("failed to insert card %d of %d: %v", i+1, len(cards), err)
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug("inserted %d cards", len(ids))
	return ids, nil
}

// execOne runs an update and reports sql.ErrNoRows when nothing matched.
func execOne(ctx context.Context, db *sqlx.DB, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *cardRepository) UpdateFields(ctx context.Context, id int64, f models.CardFields) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card fields: id=%d", id)

	err := execOne(ctx, r.db, sqlBuilder.Update("cards").
		Set("word", f.Word).
		Set("t_word", nullable(f.TranslatedWord)).
		Set("description", nullable(f.Description)).
		Set("pronunciation", nullable(f.Pronunciation)).
		Set("part_of_speech", nullable(f.PartOfSpeech)).
		Set("synonyms", nullable(f.Synonyms)).
		Set("sentence", nullable(f.Sentence)).
		Set("image_uri", nullable(f.ImageURI)).
		Where(squirrel.Eq{"card_id": id}))
	if err != nil && err != sql.ErrNoRows {
		log.Error("failed to update card: %v", err)
	}
	return err
}

func (r *cardRepository) UpdateProgress(ctx context.Context, id int64, rv models.Review) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card progress: id=%d, right_count=%d, status=%s", id, rv.RightCount, rv.Status)

	err := execOne(ctx, r.db, sqlBuilder.Update("cards").
		Set("right_count", rv.RightCount).
		Set("status", string(rv.Status)).
		Set("last_review", utc(rv.LastReview)).
		Set("next_review", utc(rv.NextReview)).
		Where(squirrel.Eq{"card_id": id}))
	if err != nil && err != sql.ErrNoRows {
		log.Error("failed to update card progress: %v", err)
	}
	return err
}

func (r *cardRepository) UpdateSentence(ctx context.Context, id int64, sentence string, at time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("saving sentence: id=%d", id)

	err := execOne(ctx, r.db, sqlBuilder.Update("cards").
		Set("sentence", nullable(sentence)).
		Set("last_review", utc(at)).
		Where(squirrel.Eq{"card_id": id}))
	if err != nil && err != sql.ErrNoRows {
		log.Error("failed to save sentence: %v", err)
	}
	return err
}

func (r *cardRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%d", id)

	return tx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM viewed_cards WHERE card_id = ?`, id); err != nil {
			log.Error("failed to delete viewed rows: %v", err)
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE card_id = ?`, id); err != nil {
			log.Error("failed to delete card: %v", err)
			return err
		}
		return nil
	})
}

func (r *cardRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	cards := []models.Card{}
	if err := r.db.SelectContext(ctx, &cards, query, args...); err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	log.Debug("found %d cards", len(cards))
	return cards, nil
}

func (r *cardRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	return r.list(ctx, sqlBuilder.Select(cardColumns...).From("cards").
		Where(squirrel.Eq{"deck_id": deckID}).
		OrderBy("created_at DESC", "card_id DESC"))
}

func (r *cardRepository) ListByStatus(ctx context.Context, status models.CardStatus) ([]models.Card, error) {
	return r.list(ctx, sqlBuilder.Select(cardColumns...).From("cards").
		Where(squirrel.Eq{"status": string(status)}).
		OrderBy("next_review ASC", "card_id ASC"))
}

func dueFilter(now time.Time) squirrel.Or {
	return squirrel.Or{
		squirrel.Eq{"next_review": nil},
		squirrel.LtOrEq{"next_review": utc(now)},
	}
}

func (r *cardRepository) ListDue(ctx context.Context, now time.Time) ([]models.Card, error) {
	return r.list(ctx, sqlBuilder.Select(cardColumns...).From("cards").
		Where(dueFilter(now)).
		OrderBy(statusPrecedence, "next_review IS NOT NULL", "next_review ASC", "card_id ASC"))
}

func (r *cardRepository) CountDue(ctx context.Context, now time.Time) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	query, args, err := sqlBuilder.Select("COUNT(*)").From("cards").Where(dueFilter(now)).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		log.Error("failed to count due cards: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *cardRepository) CountByStatus(ctx context.Context) (models.CardStats, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	query, args, err := sqlBuilder.Select("status", "COUNT(*) AS total").From("cards").
		Where(squirrel.NotEq{"status": string(models.StatusNew)}).
		GroupBy("status").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return models.CardStats{}, err
	}

	var rows []struct {
		Status models.CardStatus `db:"status"`
		Total  int               `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		log.Error("failed to count cards by status: %v", err)
		return models.CardStats{}, err
	}

	var stats models.CardStats
	for _, row := range rows {
		switch row.Status {
		case models.StatusLearning:
			stats.Learning = row.Total
		case models.StatusReviewing:
			stats.Reviewing = row.Total
		case models.StatusGraduated:
			stats.Graduated = row.Total
		}
	}
	log.Debug("card stats: learning=%d, reviewing=%d, graduated=%d", stats.Learning, stats.Reviewing, stats.Graduated)
	return stats, nil
}
