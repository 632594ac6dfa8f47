package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lexipic-backend/internal/models"
)

type JobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

func (r *JobRepo) Create(ctx context.Context, job *models.Job) error {
	job.ID = uuid.New()
	job.Status = "pending"

	query := `INSERT INTO jobs (id, user_id, type, config_json, status)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		job.ID, job.UserID, job.Type, job.ConfigJSON, job.Status,
	).Scan(&job.CreatedAt)
}

func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job := &models.Job{}
	query := `SELECT id, user_id, type, config_json, status, result_json, error_message, created_at, completed_at
		FROM jobs WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.UserID, &job.Type, &job.ConfigJSON, &job.Status,
		&job.ResultJSON, &job.ErrorMessage, &job.CreatedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (r *JobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, "UPDATE jobs SET status = $1 WHERE id = $2", status, id)
	return err
}

func (r *JobRepo) Complete(ctx context.Context, id uuid.UUID, result []byte) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE jobs SET status = 'completed', result_json = $1, completed_at = NOW() WHERE id = $2",
		result, id,
	)
	return err
}

func (r *JobRepo) Fail(ctx context.Context, id uuid.UUID, errMsg string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE jobs SET status = 'failed', error_message = $1, completed_at = NOW() WHERE id = $2",
		errMsg, id,
	)
	return err
}
