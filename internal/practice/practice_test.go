package practice

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexipic-backend/internal/models"
)

type fakeFlashcardStore struct {
	cards []models.Flashcard
}

func (f *fakeFlashcardStore) FindCandidates(_ context.Context, language string, excludeIDs []uuid.UUID, limit int) ([]models.Flashcard, error) {
	excluded := make(map[uuid.UUID]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	var out []models.Flashcard
	for _, c := range f.cards {
		if language != "" && c.Language != language {
			continue
		}
		if excluded[c.ID] {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeFlashcardStore) GetByID(_ context.Context, id uuid.UUID) (*models.Flashcard, error) {
	for i := range f.cards {
		if f.cards[i].ID == id {
			card := f.cards[i]
			return &card, nil
		}
	}
	return nil, nil
}

type statKey struct {
	user, card uuid.UUID
}

type fakeStatStore struct {
	mu   sync.Mutex
	rows map[statKey]*models.UserFlashcardStat
}

func newFakeStatStore() *fakeStatStore {
	return &fakeStatStore{rows: make(map[statKey]*models.UserFlashcardStat)}
}

func (f *fakeStatStore) Upsert(_ context.Context, userID, flashcardID uuid.UUID, correct bool, seenAt time.Time) (*models.UserFlashcardStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := statKey{userID, flashcardID}
	row, ok := f.rows[key]
	if !ok {
		row = &models.UserFlashcardStat{
			ID:          uuid.New(),
			UserID:      userID,
			FlashcardID: flashcardID,
		}
		f.rows[key] = row
	}
	row.TimesSeen++
	if correct {
		row.TimesCorrect++
	}
	row.LastSeen = seenAt

	copied := *row
	return &copied, nil
}

func (f *fakeStatStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.UserFlashcardStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.UserFlashcardStat
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeStatStore) RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.UserFlashcardStat, error) {
	rows, _ := f.ListByUser(ctx, userID)
	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			if rows[j].LastSeen.After(rows[i].LastSeen) {
				rows[i], rows[j] = rows[j], rows[i]
			}
		}
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func newCard(object, translation, language string) models.Flashcard {
	return models.Flashcard{
		ID:          uuid.New(),
		ObjectName:  object,
		Translation: translation,
		ImageURL:    "https://img.example/" + object,
		Language:    language,
		CreatedAt:   time.Now(),
	}
}

func newTestService(cards []models.Flashcard, stats *fakeStatStore, now time.Time) *Service {
	if stats == nil {
		stats = newFakeStatStore()
	}
	return NewService(
		&fakeFlashcardStore{cards: cards},
		stats,
		fixedClock{now: now},
		rand.New(rand.NewSource(42)),
	)
}

// ─── Selector ───

func TestSelectPractice_RespectsLanguageFilter(t *testing.T) {
	cards := []models.Flashcard{
		newCard("table", "mesa", "Spanish"),
		newCard("chair", "silla", "Spanish"),
		newCard("table", "table", "French"),
		newCard("dog", "chien", "French"),
	}
	svc := newTestService(cards, nil, time.Now())

	for i := 0; i < 50; i++ {
		resp, err := svc.SelectPractice(context.Background(), nil, "Spanish")
		require.NoError(t, err)
		assert.Equal(t, "Spanish", resp.Flashcard.Language)
	}
}

func TestSelectPractice_ExcludesRecentlySeen(t *testing.T) {
	cards := []models.Flashcard{
		newCard("table", "mesa", "Spanish"),
		newCard("chair", "silla", "Spanish"),
		newCard("dog", "perro", "Spanish"),
	}
	stats := newFakeStatStore()
	userID := uuid.New()
	now := time.Now()
	svc := newTestService(cards, stats, now)

	// Mark the first two cards as recently seen.
	_, err := stats.Upsert(context.Background(), userID, cards[0].ID, true, now)
	require.NoError(t, err)
	_, err = stats.Upsert(context.Background(), userID, cards[1].ID, false, now)
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		resp, err := svc.SelectPractice(context.Background(), &userID, "Spanish")
		require.NoError(t, err)
		assert.Equal(t, cards[2].ID, resp.Flashcard.ID, "only the unseen card should be selectable")
	}
}

func TestSelectPractice_FallsBackToRepeatsWhenAllSeen(t *testing.T) {
	cards := []models.Flashcard{
		newCard("table", "mesa", "Spanish"),
		newCard("chair", "silla", "Spanish"),
	}
	stats := newFakeStatStore()
	userID := uuid.New()
	now := time.Now()
	svc := newTestService(cards, stats, now)

	for _, c := range cards {
		_, err := stats.Upsert(context.Background(), userID, c.ID, true, now)
		require.NoError(t, err)
	}

	resp, err := svc.SelectPractice(context.Background(), &userID, "Spanish")
	require.NoError(t, err)
	assert.NotNil(t, resp.Flashcard)
	assert.Equal(t, "Spanish", resp.Flashcard.Language)
}

func TestSelectPractice_NoFlashcardsAvailable(t *testing.T) {
	svc := newTestService(nil, nil, time.Now())

	_, err := svc.SelectPractice(context.Background(), nil, "Spanish")
	assert.ErrorIs(t, err, ErrNoFlashcardsAvailable)
}

func TestSelectPractice_NoMatchForLanguage(t *testing.T) {
	cards := []models.Flashcard{newCard("table", "mesa", "Spanish")}
	svc := newTestService(cards, nil, time.Now())

	_, err := svc.SelectPractice(context.Background(), nil, "German")
	assert.ErrorIs(t, err, ErrNoFlashcardsAvailable)
}

func TestSelectPractice_OptionsContainAnswerExactlyOnce(t *testing.T) {
	cards := []models.Flashcard{
		newCard("table", "mesa", "Spanish"),
		newCard("chair", "silla", "Spanish"),
		newCard("dog", "perro", "Spanish"),
		newCard("cat", "gato", "Spanish"),
		newCard("house", "casa", "Spanish"),
		newCard("book", "libro", "Spanish"),
	}
	svc := newTestService(cards, nil, time.Now())

	for i := 0; i < 50; i++ {
		resp, err := svc.SelectPractice(context.Background(), nil, "Spanish")
		require.NoError(t, err)

		assert.LessOrEqual(t, len(resp.Options), 4)
		occurrences := 0
		for _, opt := range resp.Options {
			if opt == resp.Flashcard.Translation {
				occurrences++
			}
		}
		assert.Equal(t, 1, occurrences, "correct translation must appear exactly once in %v", resp.Options)
	}
}

func TestSelectPractice_FewerDistractorsThanThree(t *testing.T) {
	cards := []models.Flashcard{
		newCard("table", "mesa", "Spanish"),
		newCard("chair", "silla", "Spanish"),
	}
	svc := newTestService(cards, nil, time.Now())

	resp, err := svc.SelectPractice(context.Background(), nil, "Spanish")
	require.NoError(t, err)

	// One distractor exists, so exactly two options and no padding.
	assert.Len(t, resp.Options, 2)
	assert.Contains(t, resp.Options, resp.Flashcard.Translation)
}

func TestSelectPractice_DuplicateTranslationsNotOffered(t *testing.T) {
	cards := []models.Flashcard{
		newCard("table", "mesa", "Spanish"),
		newCard("desk", "mesa", "Spanish"),
		newCard("chair", "silla", "Spanish"),
	}
	svc := newTestService(cards, nil, time.Now())

	for i := 0; i < 25; i++ {
		resp, err := svc.SelectPractice(context.Background(), nil, "Spanish")
		require.NoError(t, err)

		counts := make(map[string]int)
		for _, opt := range resp.Options {
			counts[opt]++
		}
		assert.Equal(t, 1, counts[resp.Flashcard.Translation])
	}
}

// ─── Progress tracker ───

func TestRecordAnswer_GradesCaseAndWhitespaceInsensitively(t *testing.T) {
	card := newCard("table", "mesa", "Spanish")
	svc := newTestService([]models.Flashcard{card}, nil, time.Now())
	userID := uuid.New()

	tests := []struct {
		answer  string
		correct bool
	}{
		{"mesa", true},
		{" Mesa ", true},
		{"MESA", true},
		{"\tmesa\n", true},
		{"silla", false},
		{"", false},
		{"mes a", false},
	}

	for _, tc := range tests {
		res, err := svc.RecordAnswer(context.Background(), userID, card.ID, tc.answer)
		require.NoError(t, err)
		assert.Equal(t, tc.correct, res.IsCorrect, "answer %q", tc.answer)
		assert.Equal(t, "mesa", res.CorrectAnswer)
	}
}

func TestRecordAnswer_UnknownFlashcard(t *testing.T) {
	svc := newTestService(nil, nil, time.Now())

	_, err := svc.RecordAnswer(context.Background(), uuid.New(), uuid.New(), "mesa")
	assert.ErrorIs(t, err, ErrFlashcardNotFound)
}

func TestRecordAnswer_StatInvariantHolds(t *testing.T) {
	card := newCard("table", "mesa", "Spanish")
	svc := newTestService([]models.Flashcard{card}, nil, time.Now())
	userID := uuid.New()

	answers := []string{"mesa", "wrong", "mesa", "mesa", "nope", "mesa"}
	for i, answer := range answers {
		res, err := svc.RecordAnswer(context.Background(), userID, card.ID, answer)
		require.NoError(t, err)

		assert.Equal(t, i+1, res.CardStat.TimesSeen)
		assert.LessOrEqual(t, res.CardStat.TimesCorrect, res.CardStat.TimesSeen)
	}
}

func TestRecordAnswer_SingleRowPerPair(t *testing.T) {
	card := newCard("table", "mesa", "Spanish")
	stats := newFakeStatStore()
	svc := newTestService([]models.Flashcard{card}, stats, time.Now())
	userID := uuid.New()

	for i := 0; i < 5; i++ {
		_, err := svc.RecordAnswer(context.Background(), userID, card.ID, "mesa")
		require.NoError(t, err)
	}

	rows, err := stats.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].TimesSeen)
	assert.Equal(t, 5, rows[0].TimesCorrect)
}

func TestRecordAnswer_ConcurrentCallsLoseNothing(t *testing.T) {
	card := newCard("table", "mesa", "Spanish")
	stats := newFakeStatStore()
	svc := newTestService([]models.Flashcard{card}, stats, time.Now())
	userID := uuid.New()

	const calls = 50
	var wg sync.WaitGroup
	wg.Add(calls)
	for i := 0; i < calls; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.RecordAnswer(context.Background(), userID, card.ID, "mesa")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	rows, err := stats.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, calls, rows[0].TimesSeen)
	assert.Equal(t, calls, rows[0].TimesCorrect)
}

// ─── Aggregate stats ───

func TestUserStats_ZeroState(t *testing.T) {
	svc := newTestService(nil, nil, time.Now())

	stats, err := svc.UserStats(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, models.StatsSummary{Level: 1}, stats)
}

func TestSummarize_XPAndLevel(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		seen       int
		correct    int
		accuracy   int
		xp         int
		level      int
		totalScore int
	}{
		// 10 correct out of 12 → accuracy 83, bonus 50.
		{"high accuracy", 12, 10, 83, 150, 1, 15},
		// 10 correct out of 15 → accuracy 67, bonus 20.
		{"medium accuracy", 15, 10, 67, 120, 1, 12},
		// 10 correct out of 25 → accuracy 40, no bonus.
		{"low accuracy", 25, 10, 40, 100, 1, 10},
		// 30 correct out of 30 → accuracy 100, bonus 150, xp 450 → level 2.
		{"level two", 30, 30, 100, 450, 2, 45},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rows := []models.UserFlashcardStat{
				{TimesSeen: tc.seen, TimesCorrect: tc.correct, LastSeen: now},
			}
			got := summarize(rows, now)

			assert.Equal(t, tc.seen, got.TotalSeen)
			assert.Equal(t, tc.correct, got.TotalCorrect)
			assert.Equal(t, tc.accuracy, got.Accuracy)
			assert.Equal(t, tc.xp, got.XP)
			assert.Equal(t, tc.level, got.Level)
			assert.Equal(t, tc.totalScore, got.TotalScore)
		})
	}
}

func TestSummarize_AggregatesAcrossRows(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	rows := []models.UserFlashcardStat{
		{TimesSeen: 4, TimesCorrect: 4, LastSeen: now},
		{TimesSeen: 3, TimesCorrect: 2, LastSeen: now.Add(-time.Hour)},
		{TimesSeen: 3, TimesCorrect: 3, LastSeen: now.Add(-2 * time.Hour)},
	}

	got := summarize(rows, now)

	assert.Equal(t, 10, got.TotalSeen)
	assert.Equal(t, 9, got.TotalCorrect)
	assert.Equal(t, 90, got.Accuracy)
	assert.Equal(t, 135, got.XP) // 90 base + 45 bonus
}
