package middleware

import (
	"net/http"

	apperrors "github.com/tics/site-backend-go/internal/errors"
)

// ReadinessChecker reports whether the backing store currently accepts queries.
type ReadinessChecker interface {
	Ready() bool
}

// RequireStorage short-circuits data routes with 503 while the database is
// unreachable, instead of letting each query time out.
func RequireStorage(checker ReadinessChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !checker.Ready() {
				writeError(w, apperrors.StorageUnavailable("Database is not connected. Please try again later."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
