package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tics/site-backend-go/internal/database"
	"github.com/tics/site-backend-go/internal/model"
)

type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	Create(ctx context.Context, params model.CreateAdminUserParams) (*model.AdminUser, error)
	Count(ctx context.Context) (int, error)
}

type adminRepo struct {
	db database.DBTX
}

func NewAdminRepository(db database.DBTX) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	var user model.AdminUser
	err := r.db.GetContext(ctx, &user, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM admin_users
		WHERE lower(username) = $1
	`, strings.ToLower(username))
	return HandleNotFound(&user, err)
}

func (r *adminRepo) Create(ctx context.Context, params model.CreateAdminUserParams) (*model.AdminUser, error) {
	var user model.AdminUser
	err := r.db.GetContext(ctx, &user, `
		INSERT INTO admin_users (id, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, password_hash, created_at, updated_at
	`, uuid.NewString(), params.Username, params.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM admin_users`)
	return count, err
}
