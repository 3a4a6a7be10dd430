package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tics/site-backend-go/internal/database"
	"github.com/tics/site-backend-go/internal/model"
)

type JobRepository interface {
	FindActive(ctx context.Context, limit, offset int) ([]model.Job, error)
	Create(ctx context.Context, params model.CreateJobParams) (*model.Job, error)
	DeleteAll(ctx context.Context) (int64, error)
	WithTx(tx *sqlx.Tx) JobRepository
}

type jobRepo struct {
	db database.DBTX
}

func NewJobRepository(db database.DBTX) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) WithTx(tx *sqlx.Tx) JobRepository {
	return &jobRepo{db: tx}
}

func (r *jobRepo) FindActive(ctx context.Context, limit, offset int) ([]model.Job, error) {
	lim, off := window(limit, offset)
	jobs := []model.Job{}
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT * FROM jobs
		WHERE is_active = true
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, lim, off)
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepo) Create(ctx context.Context, params model.CreateJobParams) (*model.Job, error) {
	jobType := params.Type
	if jobType == "" {
		jobType = model.JobTypeFullTime
	}

	var job model.Job
	err := r.db.GetContext(ctx, &job, `
		INSERT INTO jobs (id, title, department, location, type, description, requirements, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING *
	`, uuid.NewString(), params.Title, params.Department, params.Location, jobType,
		params.Description, pq.StringArray(params.Requirements), params.IsActive)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepo) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
