package flashcard

import (
	"time"

	"github.com/vytor/readwithcard/internal/models"
)

// Review delays, indexed by the right count reached after a correct answer.
const (
	FirstStepDelay  = 4 * time.Hour
	SecondStepDelay = 8 * time.Hour
	ThirdStepDelay  = 24 * time.Hour
	FourthStepDelay = 3 * 24 * time.Hour
	GraduatedDelay  = 7 * 24 * time.Hour

	// IncorrectDelay applies to any wrong answer.
	IncorrectDelay = 4 * time.Hour

	// GraduationThreshold is the right count at which a card graduates.
	GraduationThreshold = 5
)

// ApplyReview computes the new learning state of a card after one answer.
// It is pure: the caller persists the result. A negative rightCount is
// treated as 0.
func ApplyReview(rightCount int, isCorrect bool, now time.Time) models.Review {
	if rightCount < 0 {
		rightCount = 0
	}

	var (
		next   int
		status models.CardStatus
		delay  time.Duration
	)

	if isCorrect {
		next = rightCount + 1
		status, delay = stepFor(next)
	} else {
		next = rightCount - 1
		if next < 0 {
			next = 0
		}
		status, delay = models.StatusLearning, IncorrectDelay
	}

	return models.Review{
		RightCount: next,
		Status:     status,
		LastReview: now,
		NextReview: now.Add(delay),
		Delay:      delay,
	}
}

func stepFor(rightCount int) (models.CardStatus, time.Duration) {
	switch {
	case rightCount >= GraduationThreshold:
		return models.StatusGraduated, GraduatedDelay
	case rightCount == 4:
		return models.StatusReviewing, FourthStepDelay
	case rightCount == 3:
		return models.StatusReviewing, ThirdStepDelay
	case rightCount == 2:
		return models.StatusLearning, SecondStepDelay
	default:
		return models.StatusLearning, FirstStepDelay
	}
}
