package practice

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"lexipic-backend/internal/models"
)

// AnswerResult is the outcome of one recorded answer.
type AnswerResult struct {
	IsCorrect     bool                      `json:"is_correct"`
	CorrectAnswer string                    `json:"correct_answer"`
	CardStat      *models.UserFlashcardStat `json:"flashcard_stats"`
	Stats         models.StatsSummary       `json:"user_stats"`
}

// RecordAnswer grades one answer against the flashcard's translation, updates
// the per-(user, flashcard) stat row, and returns the user's recomputed
// aggregate stats. This is the only mutation point for stat rows.
func (s *Service) RecordAnswer(ctx context.Context, userID, flashcardID uuid.UUID, userAnswer string) (*AnswerResult, error) {
	card, err := s.flashcards.GetByID(ctx, flashcardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrFlashcardNotFound
	}

	isCorrect := answersMatch(userAnswer, card.Translation)

	// The upsert is a single atomic store operation, never a read followed
	// by a write: concurrent answers on the same pair must not lose an
	// increment or create a duplicate row.
	stat, err := s.stats.Upsert(ctx, userID, flashcardID, isCorrect, s.clock.Now())
	if err != nil {
		return nil, err
	}

	summary, err := s.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &AnswerResult{
		IsCorrect:     isCorrect,
		CorrectAnswer: card.Translation,
		CardStat:      stat,
		Stats:         summary,
	}, nil
}

// answersMatch compares case-insensitively after trimming surrounding
// whitespace. Grading is binary; there is no fuzzy matching.
func answersMatch(answer, translation string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(translation))
}

// UserStats derives the aggregate learning statistics from all of the user's
// stat rows. An empty history is the defined zero state, not an error.
func (s *Service) UserStats(ctx context.Context, userID uuid.UUID) (models.StatsSummary, error) {
	rows, err := s.stats.ListByUser(ctx, userID)
	if err != nil {
		return models.StatsSummary{}, err
	}
	return summarize(rows, s.clock.Now()), nil
}

func summarize(rows []models.UserFlashcardStat, now time.Time) models.StatsSummary {
	if len(rows) == 0 {
		return models.StatsSummary{Level: 1}
	}

	var totalSeen, totalCorrect int
	for _, row := range rows {
		totalSeen += row.TimesSeen
		totalCorrect += row.TimesCorrect
	}

	accuracy := 0
	if totalSeen > 0 {
		accuracy = int(math.Round(float64(totalCorrect) / float64(totalSeen) * 100))
	}

	// 10 XP per correct answer plus an accuracy bonus per correct answer:
	// +5 at 80% and above, +2 at 60% and above.
	baseXP := totalCorrect * 10
	accuracyBonus := 0
	switch {
	case accuracy >= 80:
		accuracyBonus = totalCorrect * 5
	case accuracy >= 60:
		accuracyBonus = totalCorrect * 2
	}
	xp := baseXP + accuracyBonus

	return models.StatsSummary{
		TotalSeen:     totalSeen,
		TotalCorrect:  totalCorrect,
		Accuracy:      accuracy,
		XP:            xp,
		Level:         xp/250 + 1,
		CurrentStreak: dayStreak(rows, now),
		TotalScore:    totalCorrect + accuracyBonus/10,
	}
}
