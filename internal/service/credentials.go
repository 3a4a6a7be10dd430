package service

import (
	"context"
	"strings"

	apperrors "github.com/tics/site-backend-go/internal/errors"
	"github.com/tics/site-backend-go/internal/model"
	"github.com/tics/site-backend-go/internal/repository"
	"github.com/tics/site-backend-go/internal/util"
)

const MinPasswordLength = 6

// CredentialStore owns admin identities. Usernames are matched
// case-insensitively and only bcrypt hashes are ever persisted.
type CredentialStore struct {
	repo repository.AdminRepository
}

func NewCredentialStore(repo repository.AdminRepository) *CredentialStore {
	return &CredentialStore{repo: repo}
}

// FindByUsername returns nil, nil when no admin has that username.
func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	normalized := util.NormalizeUsername(username)
	if normalized == "" {
		return nil, nil
	}
	user, err := s.repo.FindByUsername(ctx, normalized)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return user, nil
}

func (s *CredentialStore) Create(ctx context.Context, username, password string) (*model.AdminUser, error) {
	if len(password) < MinPasswordLength {
		return nil, apperrors.InvalidInput("password", "must be at least 6 characters")
	}
	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password").WithCause(err)
	}
	return s.CreateWithHash(ctx, username, hash)
}

// CreateWithHash stores a precomputed bcrypt hash.
func (s *CredentialStore) CreateWithHash(ctx context.Context, username, passwordHash string) (*model.AdminUser, error) {
	normalized := util.NormalizeUsername(username)
	if normalized == "" {
		return nil, apperrors.MissingRequired("Username")
	}
	if !strings.HasPrefix(passwordHash, "$2") {
		return nil, apperrors.InvalidInput("password hash", "not a bcrypt hash")
	}

	existing, err := s.repo.FindByUsername(ctx, normalized)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("Admin user")
	}

	user, err := s.repo.Create(ctx, model.CreateAdminUserParams{
		Username:     normalized,
		PasswordHash: passwordHash,
	})
	if repository.IsUniqueViolation(err) {
		return nil, apperrors.AlreadyExists("Admin user").WithCause(err)
	}
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return user, nil
}

func (s *CredentialStore) VerifyPassword(user *model.AdminUser, password string) bool {
	if user == nil {
		return false
	}
	return util.CheckPasswordHash(password, user.PasswordHash)
}

func (s *CredentialStore) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperrors.Database(err)
	}
	return n, nil
}
