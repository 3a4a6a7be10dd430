package service

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/tics/site-backend-go/internal/database"
	apperrors "github.com/tics/site-backend-go/internal/errors"
	"github.com/tics/site-backend-go/internal/model"
	"github.com/tics/site-backend-go/internal/repository"
)

type ApplicationInput struct {
	Name     string
	Email    string
	Phone    string
	Position string
}

// FileDiscarder removes an admitted upload whose submission was rejected.
type FileDiscarder interface {
	Discard(name string)
}

type TxRunner interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

type CareersService struct {
	jobs         repository.JobRepository
	applications repository.ApplicationRepository
	files        FileDiscarder
	notifier     Notifier
}

func NewCareersService(
	jobs repository.JobRepository,
	applications repository.ApplicationRepository,
	files FileDiscarder,
	notifier Notifier,
) *CareersService {
	return &CareersService{
		jobs:         jobs,
		applications: applications,
		files:        files,
		notifier:     notifier,
	}
}

func (s *CareersService) ListJobs(ctx context.Context, limit, offset int) ([]model.Job, error) {
	jobs, err := s.jobs.FindActive(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return jobs, nil
}

// Apply records an application for an already admitted resume. The resume is
// discarded when the application itself is rejected.
func (s *CareersService) Apply(ctx context.Context, input ApplicationInput, resume *model.UploadedFile) (*model.JobApplication, error) {
	if resume == nil {
		return nil, apperrors.MissingRequired("Resume file")
	}

	application, err := s.apply(ctx, input, resume)
	if err != nil {
		s.files.Discard(resume.GeneratedName)
		return nil, err
	}

	s.notifier.ApplicationReceived(application)
	return application, nil
}

func (s *CareersService) apply(ctx context.Context, input ApplicationInput, resume *model.UploadedFile) (*model.JobApplication, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	position := strings.TrimSpace(input.Position)

	if name == "" {
		return nil, apperrors.MissingRequired("Name")
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if phone == "" {
		return nil, apperrors.MissingRequired("Phone")
	}
	if position == "" {
		return nil, apperrors.MissingRequired("Position")
	}

	application, err := s.applications.Create(ctx, model.CreateJobApplicationParams{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Position:  position,
		ResumeURL: resume.GeneratedName,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return application, nil
}

func (s *CareersService) ListApplications(ctx context.Context, limit, offset int) ([]model.JobApplication, error) {
	applications, err := s.applications.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return applications, nil
}

// ReplaceJobs swaps the whole job board for the given postings in one
// transaction.
func ReplaceJobs(ctx context.Context, db TxRunner, repo repository.JobRepository, postings []model.CreateJobParams) (int, error) {
	for _, p := range postings {
		if p.Type != "" && !p.Type.Valid() {
			return 0, apperrors.InvalidInput("job type", string(p.Type))
		}
	}

	err := db.WithTx(ctx, func(tx *sqlx.Tx) error {
		txRepo := repo.WithTx(tx)
		removed, err := txRepo.DeleteAll(ctx)
		if err != nil {
			return err
		}
		log.Info().Int64("count", removed).Msg("cleared existing jobs")

		for _, p := range postings {
			if _, err := txRepo.Create(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, apperrors.Database(err)
	}
	return len(postings), nil
}
