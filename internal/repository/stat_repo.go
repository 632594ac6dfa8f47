package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lexipic-backend/internal/models"
)

type StatRepo struct {
	pool *pgxpool.Pool
}

func NewStatRepo(pool *pgxpool.Pool) *StatRepo {
	return &StatRepo{pool: pool}
}

// Upsert records one answer as a single atomic statement keyed on the
// (user_id, flashcard_id) unique constraint. Concurrent answers for the same
// pair serialize on the row; increments are never lost and duplicate rows are
// never created. GREATEST keeps last_seen monotonically non-decreasing.
func (r *StatRepo) Upsert(ctx context.Context, userID, flashcardID uuid.UUID, correct bool, seenAt time.Time) (*models.UserFlashcardStat, error) {
	correctDelta := 0
	if correct {
		correctDelta = 1
	}

	stat := &models.UserFlashcardStat{}
	query := `
		INSERT INTO user_flashcard_stats (id, user_id, flashcard_id, times_seen, times_correct, last_seen)
		VALUES ($1, $2, $3, 1, $4, $5)
		ON CONFLICT (user_id, flashcard_id) DO UPDATE
		SET times_seen = user_flashcard_stats.times_seen + 1,
		    times_correct = user_flashcard_stats.times_correct + $4,
		    last_seen = GREATEST(user_flashcard_stats.last_seen, $5)
		RETURNING id, user_id, flashcard_id, times_seen, times_correct, last_seen`

	err := r.pool.QueryRow(ctx, query, uuid.New(), userID, flashcardID, correctDelta, seenAt).Scan(
		&stat.ID, &stat.UserID, &stat.FlashcardID, &stat.TimesSeen, &stat.TimesCorrect, &stat.LastSeen,
	)
	if err != nil {
		return nil, err
	}
	return stat, nil
}

func (r *StatRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserFlashcardStat, error) {
	query := `SELECT id, user_id, flashcard_id, times_seen, times_correct, last_seen
		FROM user_flashcard_stats WHERE user_id = $1`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UserFlashcardStat
	for rows.Next() {
		var s models.UserFlashcardStat
		if err := rows.Scan(&s.ID, &s.UserID, &s.FlashcardID, &s.TimesSeen, &s.TimesCorrect, &s.LastSeen); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StatRepo) RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.UserFlashcardStat, error) {
	query := `SELECT id, user_id, flashcard_id, times_seen, times_correct, last_seen
		FROM user_flashcard_stats WHERE user_id = $1
		ORDER BY last_seen DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UserFlashcardStat
	for rows.Next() {
		var s models.UserFlashcardStat
		if err := rows.Scan(&s.ID, &s.UserID, &s.FlashcardID, &s.TimesSeen, &s.TimesCorrect, &s.LastSeen); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecentActivity joins recent stat rows with their flashcards for history and
// stats views.
func (r *StatRepo) RecentActivity(ctx context.Context, userID uuid.UUID, limit int) ([]models.ActivityEntry, error) {
	query := `
		SELECT s.id, s.user_id, s.flashcard_id, s.times_seen, s.times_correct, s.last_seen,
		       f.object_name, f.translation, f.image_url
		FROM user_flashcard_stats s
		JOIN flashcards f ON f.id = s.flashcard_id
		WHERE s.user_id = $1
		ORDER BY s.last_seen DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ActivityEntry
	for rows.Next() {
		var e models.ActivityEntry
		err := rows.Scan(&e.ID, &e.UserID, &e.FlashcardID, &e.TimesSeen, &e.TimesCorrect, &e.LastSeen,
			&e.ObjectName, &e.Translation, &e.ImageURL)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Leaderboard aggregates per-user totals over all active users, ordered by
// score (10 points per correct answer).
func (r *StatRepo) Leaderboard(ctx context.Context, limit, offset int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT u.id, COALESCE(NULLIF(u.display_name, ''), 'Anonymous'), u.avatar,
		       COALESCE(SUM(s.times_correct), 0) AS total_correct,
		       COALESCE(SUM(s.times_seen), 0) AS total_seen
		FROM users u
		LEFT JOIN user_flashcard_stats s ON s.user_id = u.id
		WHERE u.is_active = TRUE
		GROUP BY u.id, u.display_name, u.avatar
		ORDER BY COALESCE(SUM(s.times_correct), 0) DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LeaderboardEntry
	rank := offset
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.DisplayName, &e.Avatar, &e.TotalCorrect, &e.TotalSeen); err != nil {
			return nil, err
		}
		rank++
		e.Rank = rank
		e.Score = e.TotalCorrect * 10
		if e.TotalSeen > 0 {
			e.Accuracy = int(float64(e.TotalCorrect)/float64(e.TotalSeen)*100 + 0.5)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
