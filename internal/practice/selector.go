package practice

import (
	"context"

	"github.com/google/uuid"

	"lexipic-backend/internal/models"
)

const (
	// Number of most recent stat rows used to build the exclusion set.
	recentExclusionLimit = 10
	// Size of the pool fetched to build multiple-choice distractors.
	optionPoolLimit = 20
	maxDistractors  = 3
)

// SelectPractice picks one flashcard for the user to practice, preferring
// cards the user has not seen recently, plus a shuffled multiple-choice
// option list containing the correct translation exactly once.
//
// userID may be nil for anonymous practice; language may be empty for any
// language. Returns ErrNoFlashcardsAvailable when nothing matches even with
// the recency exclusion cleared.
func (s *Service) SelectPractice(ctx context.Context, userID *uuid.UUID, language string) (*models.PracticeResponse, error) {
	var excludeIDs []uuid.UUID
	if userID != nil {
		recent, err := s.stats.RecentByUser(ctx, *userID, recentExclusionLimit)
		if err != nil {
			return nil, err
		}
		for _, row := range recent {
			excludeIDs = append(excludeIDs, row.FlashcardID)
		}
	}

	candidates, err := s.flashcards.FindCandidates(ctx, language, excludeIDs, 0)
	if err != nil {
		return nil, err
	}

	// Everything matching was seen recently: allow repeats rather than
	// failing, still honoring the language filter.
	if len(candidates) == 0 && len(excludeIDs) > 0 {
		candidates, err = s.flashcards.FindCandidates(ctx, language, nil, 0)
		if err != nil {
			return nil, err
		}
	}

	if len(candidates) == 0 {
		return nil, ErrNoFlashcardsAvailable
	}

	chosen := candidates[s.intn(len(candidates))]

	options, err := s.buildOptions(ctx, &chosen, language)
	if err != nil {
		return nil, err
	}

	return &models.PracticeResponse{Flashcard: &chosen, Options: options}, nil
}

// buildOptions assembles the multiple-choice list: up to three distractor
// translations drawn from same-language cards, plus the correct answer,
// shuffled. With fewer than three distractors available the list is simply
// shorter; it is never padded or duplicated.
func (s *Service) buildOptions(ctx context.Context, chosen *models.Flashcard, language string) ([]string, error) {
	pool, err := s.flashcards.FindCandidates(ctx, language, []uuid.UUID{chosen.ID}, optionPoolLimit)
	if err != nil {
		return nil, err
	}

	distractors := make([]string, 0, len(pool))
	for _, f := range pool {
		// Another card may share the translation; skip it so the correct
		// answer appears exactly once.
		if f.Translation == chosen.Translation {
			continue
		}
		distractors = append(distractors, f.Translation)
	}

	s.shuffleStrings(distractors)
	if len(distractors) > maxDistractors {
		distractors = distractors[:maxDistractors]
	}

	options := append(distractors, chosen.Translation)
	s.shuffleStrings(options)
	return options, nil
}
