package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/vytor/readwithcard/internal/errors"
	"github.com/vytor/readwithcard/internal/logger"
	"github.com/vytor/readwithcard/internal/models"
	"github.com/vytor/readwithcard/internal/repository"
)

// Default streak window around the reference day.
const (
	DefaultDaysBack    = 5
	DefaultDaysForward = 1
)

// MaxWindowDays caps the number of days a streak window may span.
const MaxWindowDays = 366

// currentStreakChunk is how many days GetCurrentStreak loads per query.
const currentStreakChunk = 30

// StreakService tracks how many cards were reviewed per calendar day.
type StreakService interface {
	RecordDailyStreak(ctx context.Context, date time.Time, cardsReviewed int) error
	GetDailyStreak(ctx context.Context, date time.Time) models.StreakDay
	GetStreakWindow(ctx context.Context, reference time.Time, daysBack, daysForward int) ([]models.StreakDay, error)
	GetCurrentStreak(ctx context.Context, reference time.Time) (int, error)
}

type streakService struct {
	streakRepo repository.StreakRepository
	loc        *time.Location
}

// NewStreakService creates a StreakService whose calendar days are taken in loc.
func NewStreakService(streakRepo repository.StreakRepository, loc *time.Location) StreakService {
	if loc == nil {
		loc = time.Local
	}
	return &streakService{streakRepo: streakRepo, loc: loc}
}

// DayStart returns midnight of t's calendar day in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func (s *streakService) key(t time.Time) string {
	return DayStart(t, s.loc).Format(models.DateLayout)
}

func (s *streakService) RecordDailyStreak(ctx context.Context, date time.Time, cardsReviewed int) error {
	log := logger.FromContext(ctx)
	if cardsReviewed < 0 {
		return errors.NewValidationError("cards_reviewed", "cannot be negative")
	}

	day := s.key(date)
	if err := s.streakRepo.Upsert(ctx, day, cardsReviewed); err != nil {
		log.Error("failed to record streak for %s: %v", day, err)
		return errors.NewStoreError("record streak", err)
	}
	log.Debug("streak recorded: %s=%d", day, cardsReviewed)
	return nil
}

// GetDailyStreak never fails: a missing or unreadable day counts as zero.
func (s *streakService) GetDailyStreak(ctx context.Context, date time.Time) models.StreakDay {
	day := DayStart(date, s.loc)
	out := models.StreakDay{Date: day}

	count, err := s.streakRepo.Get(ctx, day.Format(models.DateLayout))
	switch {
	case err == nil:
		out.CardsReviewed = count
	case stderrors.Is(err, sql.ErrNoRows):
	default:
		logger.FromContext(ctx).Warn("failed to read streak for %s, using zero: %v", out.DateString(), err)
	}
	return out
}

func (s *streakService) GetStreakWindow(ctx context.Context, reference time.Time, daysBack, daysForward int) ([]models.StreakDay, error) {
	if daysBack < 0 || daysForward < 0 {
		return nil, errors.NewValidationError("window", "day offsets cannot be negative")
	}
	if daysBack > MaxWindowDays || daysForward > MaxWindowDays || daysBack+daysForward+1 > MaxWindowDays {
		return nil, errors.NewValidationError("window", fmt.Sprintf("cannot span more than %d days", MaxWindowDays))
	}

	ref := DayStart(reference, s.loc)
	from := ref.AddDate(0, 0, -daysBack)
	to := ref.AddDate(0, 0, daysForward)

	counts, err := s.streakRepo.Range(ctx, from.Format(models.DateLayout), to.Format(models.DateLayout))
	if err != nil {
		logger.FromContext(ctx).Error("failed to load streak window: %v", err)
		return nil, errors.NewStoreError("streak window", err)
	}

	days := make([]models.StreakDay, 0, daysBack+daysForward+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, models.StreakDay{Date: d, CardsReviewed: counts[d.Format(models.DateLayout)]})
	}
	return days, nil
}

func (s *streakService) GetCurrentStreak(ctx context.Context, reference time.Time) (int, error) {
	end := DayStart(reference, s.loc)
	streak := 0

	for {
		start := end.AddDate(0, 0, -(currentStreakChunk - 1))
		counts, err := s.streakRepo.Range(ctx, start.Format(models.DateLayout), end.Format(models.DateLayout))
		if err != nil {
			logger.FromContext(ctx).Error("failed to load streak history: %v", err)
			return 0, errors.NewStoreError("current streak", err)
		}

		for d := end; !d.Before(start); d = d.AddDate(0, 0, -1) {
			if counts[d.Format(models.DateLayout)] <= 0 {
				return streak, nil
			}
			streak++
		}
		end = start.AddDate(0, 0, -1)
	}
}
