package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/st-studio/job-tracker/internal/api/domain"
	"github.com/st-studio/job-tracker/internal/api/model"
	"github.com/st-studio/job-tracker/shared/postgresql"
)

// Storage is the Postgres-backed JobStore.
type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

const schema = `
	CREATE TABLE IF NOT EXISTS jobs (
		job_id        TEXT PRIMARY KEY,
		customer_name TEXT NOT NULL DEFAULT '',
		phone         TEXT NOT NULL DEFAULT '',
		item_type     TEXT NOT NULL DEFAULT '',
		quantity      INTEGER NOT NULL DEFAULT 0,
		status        TEXT NOT NULL,
		image_url     TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL
	)
`

// EnsureSchema creates the jobs table if it does not exist.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure jobs schema: %w", err)
	}
	return nil
}

func (s *Storage) Insert(ctx context.Context, job *domain.Job) error {
	row := model.FromDomain(job)

	query := `
		INSERT INTO jobs (
			job_id, customer_name, phone, item_type,
			quantity, status, image_url, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		row.JobID,
		row.CustomerName,
		row.Phone,
		row.ItemType,
		row.Quantity,
		row.Status,
		row.ImageURL,
		row.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	return nil
}

func (s *Storage) GetByJobID(ctx context.Context, jobID string) (*domain.Job, error) {
	var row model.Job
	query := `
		SELECT
			job_id, customer_name, phone, item_type,
			quantity, status, image_url, created_at
		FROM jobs
		WHERE job_id = $1
	`

	err := s.db.GetContext(ctx, &row, query, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return row.ToDomain(), nil
}

// List returns every job, newest first. The shop tracks a few dozen
// open jobs at a time; there is deliberately no pagination.
func (s *Storage) List(ctx context.Context) ([]domain.Job, error) {
	query := `
		SELECT
			job_id, customer_name, phone, item_type,
			quantity, status, image_url, created_at
		FROM jobs
		ORDER BY created_at DESC, job_id DESC
	`

	var rows []model.Job
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	jobs := make([]domain.Job, len(rows))
	for i := range rows {
		jobs[i] = *rows[i].ToDomain()
	}

	return jobs, nil
}

func (s *Storage) SetStatus(ctx context.Context, jobID, status string) error {
	return s.updateField(ctx, `UPDATE jobs SET status = $1 WHERE job_id = $2`, status, jobID)
}

func (s *Storage) SetImageURL(ctx context.Context, jobID, imageURL string) error {
	return s.updateField(ctx, `UPDATE jobs SET image_url = $1 WHERE job_id = $2`, imageURL, jobID)
}

func (s *Storage) updateField(ctx context.Context, query, value, jobID string) error {
	res, err := s.db.ExecContext(ctx, query, value, jobID)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}

	if affected == 0 {
		return domain.ErrJobNotFound
	}

	return nil
}
