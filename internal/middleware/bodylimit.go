package middleware

import (
	"net/http"
	"strings"

	"github.com/tics/site-backend-go/internal/config"
	apperrors "github.com/tics/site-backend-go/internal/errors"
	"github.com/tics/site-backend-go/internal/httputil"
)

const (
	DefaultMaxBodySize = 1 << 20 // 1MB
)

// BodyLimitMiddleware caps request bodies. Multipart requests get their own,
// larger ceiling so a resume can pass through to the upload gate, which
// enforces the per-file limit itself.
type BodyLimitMiddleware struct {
	maxSize          int64
	maxMultipartSize int64
}

func NewBodyLimitMiddleware(maxSize, maxMultipartSize int64) *BodyLimitMiddleware {
	if maxSize <= 0 {
		maxSize = DefaultMaxBodySize
	}
	if maxMultipartSize < maxSize {
		maxMultipartSize = maxSize
	}
	return &BodyLimitMiddleware{maxSize: maxSize, maxMultipartSize: maxMultipartSize}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/")
}

func (m *BodyLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := m.maxSize
		multipart := isMultipart(r)
		if multipart {
			limit = m.maxMultipartSize
		}

		if r.Body != nil && r.ContentLength > limit {
			// An oversized upload is still a file size error to the client.
			if multipart {
				writeError(w, apperrors.FileTooLarge(config.MaxUploadBytes))
				return
			}
			httputil.WriteErrorWithStatus(w, http.StatusRequestEntityTooLarge,
				apperrors.ValidationError("Request body too large"))
			return
		}

		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}
