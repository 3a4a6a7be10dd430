package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tics/site-backend-go/internal/audit"
	apperrors "github.com/tics/site-backend-go/internal/errors"
	"github.com/tics/site-backend-go/internal/token"
)

type contextKey string

const IdentityContextKey contextKey = "identity"

// Identity is the admin a verified token was issued for.
type Identity struct {
	AdminID   string
	ExpiresAt time.Time
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityContextKey).(*Identity); ok {
		return identity
	}
	return nil
}

type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString == "" {
			writeError(w, apperrors.Unauthorized("Not authorized, no token"))
			return
		}

		claims, err := m.verifier.Verify(tokenString)
		if err != nil {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventAuthFailure,
				Details: map[string]any{"code": string(apperrors.GetCode(err)), "path": r.URL.Path},
			})
			if appErr, ok := apperrors.AsAppError(err); ok {
				writeError(w, appErr)
				return
			}
			writeError(w, apperrors.InvalidToken("Not authorized, token failed"))
			return
		}

		identity := &Identity{AdminID: claims.Subject}
		if claims.ExpiresAt != nil {
			identity.ExpiresAt = claims.ExpiresAt.Time
		}

		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	scheme, value, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(value)
}
