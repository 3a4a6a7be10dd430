package upload

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	apperrors "github.com/tics/site-backend-go/internal/errors"
)

// ResolveDir returns the first candidate that exists (or can be created) and
// accepts writes. No usable candidate is a STORAGE_UNAVAILABLE error.
func ResolveDir(candidates ...string) (string, error) {
	var lastErr error
	seen := make(map[string]bool)

	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			lastErr = err
			continue
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true

		if err := ensureWritable(abs); err != nil {
			log.Warn().Err(err).Str("dir", abs).Msg("upload directory unusable, trying next")
			lastErr = err
			continue
		}
		return abs, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no upload directory candidates")
	}
	return "", apperrors.StorageUnavailable("Unable to create uploads directory. Please check file system permissions.").WithCause(lastErr)
}

func ensureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
