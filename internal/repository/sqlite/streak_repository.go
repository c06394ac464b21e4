package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/repository"
)

type streakRepository struct {
	db *sqlx.DB
}

// NewStreakRepository creates a new StreakRepository implementation
func NewStreakRepository(db *sqlx.DB) repository.StreakRepository {
	return &streakRepository{db: db}
}

// Upsert replaces the count stored for date.
func (r *streakRepository) Upsert(ctx context.Context, date string, cardsReviewed int) error {
	log := logger.FromContext(ctx).WithPrefix("streak_repo")
	log.Debug("recording streak: date=%s, cards_reviewed=%d", date, cardsReviewed)

	_, err := r.db.ExecContext(ctx, `
INSERT OR REPLACE INTO streaks (streak_date, cards_reviewed)
VALUES (?, ?)
`, date, cardsReviewed)
	if err != nil {
		log.Error("failed to record streak: %v", err)
	}
	return err
}

func (r *streakRepository) Get(ctx context.Context, date string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("streak_repo")

	var count int
	err := r.db.GetContext(ctx, &count, `SELECT cards_reviewed FROM streaks WHERE streak_date = ?`, date)
	if err != nil && err != sql.ErrNoRows {
		log.Error("failed to get streak: %v", err)
	}
	return count, err
}

func (r *streakRepository) Range(ctx context.Context, from, to string) (map[string]int, error) {
	log := logger.FromContext(ctx).WithPrefix("streak_repo")
	log.Debug("loading streak range: %s..%s", from, to)

	query, args, err := sqlBuilder.Select("streak_date", "cards_reviewed").From("streaks").
		Where(squirrel.GtOrEq{"streak_date": from}).
		Where(squirrel.LtOrEq{"streak_date": to}).
		OrderBy("streak_date").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var rows []struct {
		Date          string `db:"streak_date"`
		CardsReviewed int    `db:"cards_reviewed"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		log.Error("failed to load streak range: %v", err)
		return nil, err
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Date] = row.CardsReviewed
	}
	return out, nil
}
