package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tics/site-backend-go/internal/model"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

var adminColumns = []string{"id", "username", "password_hash", "created_at", "updated_at"}

func TestAdminRepository_FindByUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("normalizes username to lowercase", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM admin_users").
			WithArgs("admin").
			WillReturnRows(sqlmock.NewRows(adminColumns).AddRow("id-1", "admin", "$2a$10$hash", now, now))

		user, err := repo.FindByUsername(ctx, "ADMIN")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "id-1", user.ID)
		assert.Equal(t, "$2a$10$hash", user.PasswordHash)
	})

	t.Run("returns nil when missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM admin_users").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.FindByUsername(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("propagates database errors", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM admin_users").
			WithArgs("admin").
			WillReturnError(errors.New("connection reset"))

		user, err := repo.FindByUsername(ctx, "admin")
		assert.Error(t, err)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_CreateAndCount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("INSERT INTO admin_users").
		WithArgs(sqlmock.AnyArg(), "admin", "$2a$10$hash").
		WillReturnRows(sqlmock.NewRows(adminColumns).AddRow("id-1", "admin", "$2a$10$hash", now, now))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	user, err := repo.Create(ctx, model.CreateAdminUserParams{Username: "admin", PasswordHash: "$2a$10$hash"})
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_CreateDuplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectQuery("INSERT INTO admin_users").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	_, err := repo.Create(context.Background(), model.CreateAdminUserParams{Username: "admin", PasswordHash: "x"})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestContactRepository(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewContactRepository(db)
	ctx := context.Background()
	now := time.Now()
	columns := []string{"id", "name", "email", "phone", "message", "created_at"}

	t.Run("Create returns stored row", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO contact_messages").
			WithArgs(sqlmock.AnyArg(), "A", "a@b.com", nil, "hi").
			WillReturnRows(sqlmock.NewRows(columns).AddRow("c-1", "A", "a@b.com", nil, "hi", now))

		msg, err := repo.Create(ctx, model.CreateContactMessageParams{Name: "A", Email: "a@b.com", Message: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "c-1", msg.ID)
		assert.Nil(t, msg.Phone)
	})

	t.Run("FindAll without limit passes NULL", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\* FROM contact_messages").
			WithArgs(nil, 0).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("c-2", "B", "b@b.com", "555", "second", now).
				AddRow("c-1", "A", "a@b.com", nil, "hi", now.Add(-time.Minute)))

		messages, err := repo.FindAll(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, "555", *messages[0].Phone)
	})

	t.Run("FindAll returns empty slice, not nil", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\* FROM contact_messages").
			WithArgs(10, 20).
			WillReturnRows(sqlmock.NewRows(columns))

		messages, err := repo.FindAll(ctx, 10, 20)
		require.NoError(t, err)
		assert.NotNil(t, messages)
		assert.Empty(t, messages)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()
	now := time.Now()
	columns := []string{"id", "title", "department", "location", "type", "description", "requirements", "is_active", "created_at", "updated_at"}

	t.Run("FindActive scans requirement arrays", func(t *testing.T) {
		mock.ExpectQuery("SELECT \\* FROM jobs\\s+WHERE is_active = true").
			WithArgs(nil, 0).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("j-1", "Go Developer", "Engineering", "Remote", "Full-time", "Build things", "{Go,SQL}", true, now, now))

		jobs, err := repo.FindActive(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, model.JobTypeFullTime, jobs[0].Type)
		assert.Equal(t, []string{"Go", "SQL"}, []string(jobs[0].Requirements))
	})

	t.Run("Create defaults the job type", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO jobs").
			WithArgs(sqlmock.AnyArg(), "Designer", "Design", "Remote", model.JobTypeFullTime, "Design things", sqlmock.AnyArg(), true).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("j-2", "Designer", "Design", "Remote", "Full-time", "Design things", "{}", true, now, now))

		job, err := repo.Create(ctx, model.CreateJobParams{
			Title: "Designer", Department: "Design", Location: "Remote",
			Description: "Design things", IsActive: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "j-2", job.ID)
		assert.Empty(t, job.Requirements)
	})

	t.Run("DeleteAll reports affected rows", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM jobs").WillReturnResult(sqlmock.NewResult(0, 5))

		n, err := repo.DeleteAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), n)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()
	now := time.Now()
	columns := []string{"id", "name", "email", "phone", "position", "resume_url", "created_at"}

	mock.ExpectQuery("INSERT INTO job_applications").
		WithArgs(sqlmock.AnyArg(), "Ann", "ann@example.com", "555", "Designer", "resume-1-2.pdf").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("a-1", "Ann", "ann@example.com", "555", "Designer", "resume-1-2.pdf", now))
	mock.ExpectQuery("SELECT \\* FROM job_applications").
		WithArgs(nil, 0).
		WillReturnRows(sqlmock.NewRows(columns).AddRow("a-1", "Ann", "ann@example.com", "555", "Designer", "resume-1-2.pdf", now))

	app, err := repo.Create(context.Background(), model.CreateJobApplicationParams{
		Name: "Ann", Email: "ann@example.com", Phone: "555", Position: "Designer", ResumeURL: "resume-1-2.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "resume-1-2.pdf", app.ResumeURL)

	apps, err := repo.FindAll(ctx, -1, -5)
	require.NoError(t, err)
	assert.Len(t, apps, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("duplicate")))
}
