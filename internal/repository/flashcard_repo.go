package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lexipic-backend/internal/models"
)

type FlashcardRepo struct {
	pool *pgxpool.Pool
}

func NewFlashcardRepo(pool *pgxpool.Pool) *FlashcardRepo {
	return &FlashcardRepo{pool: pool}
}

func (r *FlashcardRepo) Create(ctx context.Context, f *models.Flashcard) error {
	f.ID = uuid.New()
	query := `INSERT INTO flashcards (id, object_name, translation, image_url, language, created_by)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		f.ID, f.ObjectName, f.Translation, f.ImageURL, f.Language, f.CreatedBy,
	).Scan(&f.CreatedAt)
}

// GetByID returns (nil, nil) when the flashcard does not exist so callers can
// distinguish absence from store failure.
func (r *FlashcardRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Flashcard, error) {
	f := &models.Flashcard{}
	query := `SELECT id, object_name, translation, image_url, language, created_by, created_at
		FROM flashcards WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.ObjectName, &f.Translation, &f.ImageURL, &f.Language, &f.CreatedBy, &f.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// FindCandidates returns flashcards matching the language filter (empty
// matches all) whose ids are not in excludeIDs, newest first. limit 0 means
// no limit.
func (r *FlashcardRepo) FindCandidates(ctx context.Context, language string, excludeIDs []uuid.UUID, limit int) ([]models.Flashcard, error) {
	query := `SELECT id, object_name, translation, image_url, language, created_by, created_at
		FROM flashcards WHERE ($1 = '' OR language = $1) AND NOT (id = ANY($2))
		ORDER BY created_at DESC`
	args := []interface{}{language, excludeIDs}
	if excludeIDs == nil {
		args[1] = []uuid.UUID{}
	}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFlashcards(rows)
}

func (r *FlashcardRepo) List(ctx context.Context, language string, limit, offset int) ([]models.Flashcard, error) {
	query := `SELECT id, object_name, translation, image_url, language, created_by, created_at
		FROM flashcards WHERE ($1 = '' OR language = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, language, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFlashcards(rows)
}

func (r *FlashcardRepo) Count(ctx context.Context, language string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM flashcards WHERE ($1 = '' OR language = $1)", language,
	).Scan(&count)
	return count, err
}

// FindByObjectName matches flashcards whose object name contains the given
// term, case-insensitively. Used to pair detected objects with cards.
func (r *FlashcardRepo) FindByObjectName(ctx context.Context, term string, limit int) ([]models.Flashcard, error) {
	query := `SELECT id, object_name, translation, image_url, language, created_by, created_at
		FROM flashcards WHERE object_name ILIKE '%' || $1 || '%' LIMIT $2`

	rows, err := r.pool.Query(ctx, query, term, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFlashcards(rows)
}

func (r *FlashcardRepo) Languages(ctx context.Context) ([]models.LanguageCount, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT language, COUNT(*) FROM flashcards GROUP BY language ORDER BY language")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LanguageCount
	for rows.Next() {
		var lc models.LanguageCount
		if err := rows.Scan(&lc.Language, &lc.Count); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

func scanFlashcards(rows pgx.Rows) ([]models.Flashcard, error) {
	var out []models.Flashcard
	for rows.Next() {
		var f models.Flashcard
		err := rows.Scan(&f.ID, &f.ObjectName, &f.Translation, &f.ImageURL, &f.Language, &f.CreatedBy, &f.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
