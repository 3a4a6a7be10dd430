package service

import (
	"context"
	"strings"
	"sync"

	apperrors "github.com/tics/site-backend-go/internal/errors"
	"github.com/tics/site-backend-go/internal/model"
	"github.com/tics/site-backend-go/internal/util"
)

type TokenIssuer interface {
	Issue(subject string) (string, error)
}

type AuthService struct {
	credentials *CredentialStore
	tokens      TokenIssuer
}

func NewAuthService(credentials *CredentialStore, tokens TokenIssuer) *AuthService {
	return &AuthService{credentials: credentials, tokens: tokens}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// equalizeTiming burns one bcrypt comparison so unknown usernames cost
// the same as wrong passwords.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = util.HashPassword("timing-equalizer")
	})
	util.CheckPasswordHash(password, dummyHash)
}

// Login checks credentials and issues a session token. Unknown usernames and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.AdminUser, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", nil, apperrors.ValidationError("Please provide username and password")
	}

	user, err := s.credentials.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		equalizeTiming(password)
		return "", nil, apperrors.Unauthorized("Invalid credentials")
	}
	if !s.credentials.VerifyPassword(user, password) {
		return "", user, apperrors.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", user, apperrors.Internal("Error logging in").WithCause(err)
	}
	return token, user, nil
}
