package models

import (
	"strings"
	"time"
)

// CardStatus is the learning stage of a card.
type CardStatus string

const (
	StatusNew       CardStatus = "NEW"
	StatusLearning  CardStatus = "LEARNING"
	StatusReviewing CardStatus = "REVIEWING"
	StatusGraduated CardStatus = "GRADUATED"
)

// ParseCardStatus accepts any letter case.
func ParseCardStatus(s string) (CardStatus, bool) {
	st := CardStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

func (s CardStatus) Valid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusReviewing, StatusGraduated:
		return true
	}
	return false
}

// Precedence orders statuses in the due queue, lowest first.
func (s CardStatus) Precedence() int {
	switch s {
	case StatusNew:
		return 1
	case StatusLearning:
		return 2
	case StatusReviewing:
		return 3
	case StatusGraduated:
		return 4
	default:
		return 5
	}
}

type Card struct {
	ID             int64      `json:"card_id" db:"card_id"`
	DeckID         int64      `json:"deck_id" db:"deck_id"`
	Word           string     `json:"word" db:"word"`
	TranslatedWord string     `json:"t_word" db:"t_word"`
	Description    string     `json:"description" db:"description"`
	Pronunciation  string     `json:"pronunciation" db:"pronunciation"`
	PartOfSpeech   string     `json:"part_of_speech" db:"part_of_speech"`
	Synonyms       string     `json:"synonyms" db:"synonyms"`
	Sentence       string     `json:"sentence" db:"sentence"`
	ImageURI       string     `json:"image_uri" db:"image_uri"`
	RightCount     int        `json:"right_count" db:"right_count"`
	Status         CardStatus `json:"status" db:"status"`
	LastReview     *time.Time `json:"last_review" db:"last_review"`
	NextReview     *time.Time `json:"next_review" db:"next_review"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// Fields returns the descriptive part of the card.
func (c Card) Fields() CardFields {
	return CardFields{
		Word:           c.Word,
		TranslatedWord: c.TranslatedWord,
		Description:    c.Description,
		Pronunciation:  c.Pronunciation,
		PartOfSpeech:   c.PartOfSpeech,
		Synonyms:       c.Synonyms,
		Sentence:       c.Sentence,
		ImageURI:       c.ImageURI,
	}
}

// IsDue reports whether the card is eligible for review at now.
func (c Card) IsDue(now time.Time) bool {
	return c.NextReview == nil || !c.NextReview.After(now)
}

// CardFields holds the user-editable descriptive fields of a card.
// Progress fields are not part of it; they only change through a review.
type CardFields struct {
	Word           string `json:"word"`
	TranslatedWord string `json:"t_word"`
	Description    string `json:"description"`
	Pronunciation  string `json:"pronunciation"`
	PartOfSpeech   string `json:"part_of_speech"`
	Synonyms       string `json:"synonyms"`
	Sentence       string `json:"sentence"`
	ImageURI       string `json:"image_uri"`
}

// Review is the scheduling outcome of a single answer.
type Review struct {
	RightCount int           `json:"right_count"`
	Status     CardStatus    `json:"status"`
	LastReview time.Time     `json:"last_review"`
	NextReview time.Time     `json:"next_review"`
	Delay      time.Duration `json:"-"`
}

// CardStats counts cards per learning stage. NEW cards are not counted.
type CardStats struct {
	Learning  int `json:"learning"`
	Reviewing int `json:"reviewing"`
	Graduated int `json:"graduated"`
}

func (s CardStats) Total() int {
	return s.Learning + s.Reviewing + s.Graduated
}
