// Package practice implements flashcard selection and user progress tracking.
// All state lives in the backing stores; the service itself is stateless
// between calls apart from its random source.
package practice

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"lexipic-backend/internal/models"
)

var (
	// ErrNoFlashcardsAvailable means no flashcard matched the request even
	// after the recency exclusion was relaxed. Callers should treat it as an
	// empty result, not a failure.
	ErrNoFlashcardsAvailable = errors.New("no flashcards available")

	// ErrFlashcardNotFound means an answer referenced a flashcard id that
	// does not exist.
	ErrFlashcardNotFound = errors.New("flashcard not found")
)

// FlashcardStore is the read side of the flashcard table needed by the
// selector and the progress tracker.
type FlashcardStore interface {
	// FindCandidates returns flashcards matching the language filter (empty
	// string matches all) whose ids are not in excludeIDs. A limit of 0
	// means no limit.
	FindCandidates(ctx context.Context, language string, excludeIDs []uuid.UUID, limit int) ([]models.Flashcard, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Flashcard, error)
}

// StatStore owns the user_flashcard_stats rows. Upsert must be atomic on the
// (userID, flashcardID) unique key: concurrent calls may never create two
// rows or lose an increment.
type StatStore interface {
	Upsert(ctx context.Context, userID, flashcardID uuid.UUID, correct bool, seenAt time.Time) (*models.UserFlashcardStat, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserFlashcardStat, error)
	// RecentByUser returns up to limit rows ordered by last_seen descending.
	RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.UserFlashcardStat, error)
}

// Clock is injected so streak computations are testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Service wires the selector and progress tracker to their stores.
type Service struct {
	flashcards FlashcardStore
	stats      StatStore
	clock      Clock

	mu  sync.Mutex // guards rng, which is not safe for concurrent use
	rng *rand.Rand
}

// NewService builds a practice service. A nil clock uses the system clock and
// a nil rng is seeded from the current time.
func NewService(flashcards FlashcardStore, stats StatStore, clock Clock, rng *rand.Rand) *Service {
	if clock == nil {
		clock = systemClock{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		flashcards: flashcards,
		stats:      stats,
		clock:      clock,
		rng:        rng,
	}
}

func (s *Service) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *Service) shuffleStrings(vals []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(vals), func(i, j int) {
		vals[i], vals[j] = vals[j], vals[i]
	})
}
