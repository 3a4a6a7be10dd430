package handler

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tics/site-backend-go/internal/database"
	apperrors "github.com/tics/site-backend-go/internal/errors"
	"github.com/tics/site-backend-go/internal/httputil"
)

const maxFormBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

// writeError logs server-side failures and renders the error envelope. The
// underlying cause is only shown outside production.
func writeError(w http.ResponseWriter, r *http.Request, err error, isProduction bool) {
	if database.IsConnectionError(err) {
		err = apperrors.StorageUnavailable("Database is not connected. Please try again later.").WithCause(err)
	}
	if status := httputil.StatusFromCode(apperrors.GetCode(err)); status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	httputil.WriteError(w, err, !isProduction)
}

type listResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    any  `json:"data"`
}

func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Count: len(items), Data: items})
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// decodeBody accepts JSON or URL-encoded forms into the same struct.
func decodeBody(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return apperrors.ValidationError("Invalid request body").WithCause(err)
		}
		fields := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			fields[k] = r.PostForm.Get(k)
		}
		raw, err := json.Marshal(fields)
		if err != nil {
			return apperrors.ValidationError("Invalid request body").WithCause(err)
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return apperrors.ValidationError("Invalid request body").WithCause(err)
		}
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.ValidationError("Invalid request body").WithCause(err)
	}
	return nil
}
