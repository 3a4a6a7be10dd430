// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tics/site-backend-go/internal/model"
	"github.com/tics/site-backend-go/internal/repository"
)

// clock hands out strictly increasing timestamps so newest-first ordering is
// deterministic even for records created in the same instant.
type clock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UTC()
	if !now.After(c.last) {
		now = c.last.Add(time.Microsecond)
	}
	c.last = now
	return now
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return append([]T{}, items...)
}

type AdminRepo struct {
	mu    sync.Mutex
	clock clock
	users []model.AdminUser
	Err   error
}

var _ repository.AdminRepository = (*AdminRepo)(nil)

func NewAdminRepo() *AdminRepo {
	return &AdminRepo{}
}

func (r *AdminRepo) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

// Create enforces the case-insensitive unique index like Postgres would.
func (r *AdminRepo) Create(ctx context.Context, params model.CreateAdminUserParams) (*model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Username, params.Username) {
			return nil, &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
		}
	}
	now := r.clock.next()
	user := model.AdminUser{
		ID:           uuid.NewString(),
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users = append(r.users, user)
	return &user, nil
}

func (r *AdminRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return len(r.users), nil
}

type ContactRepo struct {
	mu       sync.Mutex
	clock    clock
	messages []model.ContactMessage
	Err      error
}

var _ repository.ContactRepository = (*ContactRepo)(nil)

func NewContactRepo() *ContactRepo {
	return &ContactRepo{}
}

func (r *ContactRepo) Create(ctx context.Context, params model.CreateContactMessageParams) (*model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	msg := model.ContactMessage{
		ID:        uuid.NewString(),
		Name:      params.Name,
		Email:     params.Email,
		Phone:     params.Phone,
		Message:   params.Message,
		CreatedAt: r.clock.next(),
	}
	r.messages = append(r.messages, msg)
	return &msg, nil
}

func (r *ContactRepo) FindAll(ctx context.Context, limit, offset int) ([]model.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	sorted := append([]model.ContactMessage{}, r.messages...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	return page(sorted, limit, offset), nil
}

type ApplicationRepo struct {
	mu           sync.Mutex
	clock        clock
	applications []model.JobApplication
	Err          error
}

var _ repository.ApplicationRepository = (*ApplicationRepo)(nil)

func NewApplicationRepo() *ApplicationRepo {
	return &ApplicationRepo{}
}

func (r *ApplicationRepo) Create(ctx context.Context, params model.CreateJobApplicationParams) (*model.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	app := model.JobApplication{
		ID:        uuid.NewString(),
		Name:      params.Name,
		Email:     params.Email,
		Phone:     params.Phone,
		Position:  params.Position,
		ResumeURL: params.ResumeURL,
		CreatedAt: r.clock.next(),
	}
	r.applications = append(r.applications, app)
	return &app, nil
}

func (r *ApplicationRepo) FindAll(ctx context.Context, limit, offset int) ([]model.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	sorted := append([]model.JobApplication{}, r.applications...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	return page(sorted, limit, offset), nil
}

type JobRepo struct {
	mu    sync.Mutex
	clock clock
	jobs  []model.Job
	Err   error
}

var _ repository.JobRepository = (*JobRepo)(nil)

func NewJobRepo() *JobRepo {
	return &JobRepo{}
}

// WithTx returns the same store; transactions are not simulated.
func (r *JobRepo) WithTx(tx *sqlx.Tx) repository.JobRepository {
	return r
}

func (r *JobRepo) FindActive(ctx context.Context, limit, offset int) ([]model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	active := []model.Job{}
	for _, j := range r.jobs {
		if j.IsActive {
			active = append(active, j)
		}
	}
	sort.SliceStable(active, func(i, k int) bool { return active[i].CreatedAt.After(active[k].CreatedAt) })
	return page(active, limit, offset), nil
}

func (r *JobRepo) Create(ctx context.Context, params model.CreateJobParams) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	jobType := params.Type
	if jobType == "" {
		jobType = model.JobTypeFullTime
	}
	now := r.clock.next()
	job := model.Job{
		ID:           uuid.NewString(),
		Title:        params.Title,
		Department:   params.Department,
		Location:     params.Location,
		Type:         jobType,
		Description:  params.Description,
		Requirements: pq.StringArray(params.Requirements),
		IsActive:     params.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.jobs = append(r.jobs, job)
	return &job, nil
}

func (r *JobRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	n := int64(len(r.jobs))
	r.jobs = nil
	return n, nil
}
