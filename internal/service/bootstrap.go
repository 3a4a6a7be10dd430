package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tics/site-backend-go/internal/audit"
	apperrors "github.com/tics/site-backend-go/internal/errors"
)

// AdminSeed is the identity created when no admin exists yet. PasswordHash
// wins over Password when both are set.
type AdminSeed struct {
	Username     string
	Password     string
	PasswordHash string
}

// Bootstrap prepares a reachable database: schema, then the initial admin.
type Bootstrap struct {
	credentials *CredentialStore
	seed        AdminSeed
	migrate     func(ctx context.Context) error
}

func NewBootstrap(credentials *CredentialStore, seed AdminSeed, migrate func(ctx context.Context) error) *Bootstrap {
	return &Bootstrap{credentials: credentials, seed: seed, migrate: migrate}
}

func (b *Bootstrap) Run(ctx context.Context) error {
	if b.migrate != nil {
		if err := b.migrate(ctx); err != nil {
			return err
		}
	}
	_, err := b.EnsureAdmin(ctx)
	return err
}

// EnsureAdmin creates the seed admin when the table is empty. It is safe to
// run repeatedly and concurrently; losing a creation race is not an error.
func (b *Bootstrap) EnsureAdmin(ctx context.Context) (bool, error) {
	count, err := b.credentials.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		log.Info().Msg("admin user already exists")
		return false, nil
	}

	if b.seed.PasswordHash != "" {
		_, err = b.credentials.CreateWithHash(ctx, b.seed.Username, b.seed.PasswordHash)
	} else {
		_, err = b.credentials.Create(ctx, b.seed.Username, b.seed.Password)
	}
	if apperrors.HasCode(err, apperrors.ErrCodeAlreadyExists) {
		log.Info().Msg("admin user created concurrently")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	audit.Log(ctx, audit.Event{
		Type:     audit.EventAdminBootstrap,
		Username: b.seed.Username,
	})
	log.Info().Str("username", b.seed.Username).Msg("admin user created")
	return true, nil
}
