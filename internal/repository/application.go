package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/tics/site-backend-go/internal/database"
	"github.com/tics/site-backend-go/internal/model"
)

type ApplicationRepository interface {
	Create(ctx context.Context, params model.CreateJobApplicationParams) (*model.JobApplication, error)
	FindAll(ctx context.Context, limit, offset int) ([]model.JobApplication, error)
}

type applicationRepo struct {
	db database.DBTX
}

func NewApplicationRepository(db database.DBTX) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, params model.CreateJobApplicationParams) (*model.JobApplication, error) {
	var app model.JobApplication
	err := r.db.GetContext(ctx, &app, `
		INSERT INTO job_applications (id, name, email, phone, position, resume_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`, uuid.NewString(), params.Name, params.Email, params.Phone, params.Position, params.ResumeURL)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) FindAll(ctx context.Context, limit, offset int) ([]model.JobApplication, error) {
	lim, off := window(limit, offset)
	apps := []model.JobApplication{}
	err := r.db.SelectContext(ctx, &apps, `
		SELECT * FROM job_applications
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, lim, off)
	if err != nil {
		return nil, err
	}
	return apps, nil
}
