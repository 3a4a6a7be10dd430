// Package upload admits resume files onto local disk.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/tics/site-backend-go/internal/errors"
	"github.com/tics/site-backend-go/internal/model"
)

const namePrefix = "resume-"

// AllowedExtensions is the resume allow-list.
var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

var storedNameRegex = regexp.MustCompile(`^resume-\d+-\d+\.(pdf|doc|docx)$`)

type Gate struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

func NewGate(dir string, maxBytes int64) *Gate {
	return &Gate{
		dir:      dir,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

func (g *Gate) MaxBytes() int64 {
	return g.maxBytes
}

// Admit validates and persists one uploaded file. Checks run in order:
// extension, declared size, then the streamed size. Nothing is left on disk
// when any of them fails. declaredSize may be negative when unknown.
func (g *Gate) Admit(ctx context.Context, originalName string, declaredSize int64, r io.Reader) (*model.UploadedFile, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !AllowedExtensions[ext] {
		return nil, apperrors.UnsupportedFileType()
	}

	if declaredSize > g.maxBytes {
		return nil, apperrors.FileTooLarge(g.maxBytes)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, name, err := g.create(ext)
	if err != nil {
		return nil, apperrors.StorageUnavailable("Upload directory not accessible").WithCause(err)
	}
	path := f.Name()

	written, err := io.Copy(f, io.LimitReader(&ctxReader{ctx: ctx, r: r}, g.maxBytes+1))
	closeErr := f.Close()

	if err == nil && written > g.maxBytes {
		g.remove(path)
		return nil, apperrors.FileTooLarge(g.maxBytes)
	}
	if err != nil {
		g.remove(path)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, apperrors.FileTooLarge(g.maxBytes)
		}
		return nil, fmt.Errorf("write upload: %w", err)
	}
	if closeErr != nil {
		g.remove(path)
		return nil, fmt.Errorf("close upload: %w", closeErr)
	}

	return &model.UploadedFile{
		GeneratedName:     name,
		OriginalExtension: ext,
		SizeBytes:         written,
		StoragePath:       path,
	}, nil
}

// create opens a fresh file exclusively; a name clash retries with a new name.
func (g *Gate) create(ext string) (*os.File, string, error) {
	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		name := GenerateName(g.now(), ext)
		f, err := os.OpenFile(filepath.Join(g.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
		lastErr = err
	}
	return nil, "", lastErr
}

func (g *Gate) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("path", path).Msg("failed to discard partial upload")
	}
}

// Discard removes an admitted file whose submission was later rejected.
func (g *Gate) Discard(name string) {
	if !ValidStoredName(name) {
		return
	}
	g.remove(filepath.Join(g.dir, name))
}

// Open returns a stored resume for download. Names that could not have been
// produced by the gate are reported as not found.
func (g *Gate) Open(name string) (*os.File, os.FileInfo, error) {
	if !ValidStoredName(name) {
		return nil, nil, apperrors.NotFound("File")
	}

	f, err := os.Open(filepath.Join(g.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, apperrors.NotFound("File")
	}
	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, apperrors.NotFound("File")
	}
	return f, info, nil
}

// GenerateName builds "resume-<unix millis>-<random below 1e9><ext>".
func GenerateName(now time.Time, ext string) string {
	return fmt.Sprintf("%s%d-%d%s", namePrefix, now.UnixMilli(), rand.Intn(1_000_000_000), ext)
}

func ValidStoredName(name string) bool {
	return filepath.Base(name) == name && storedNameRegex.MatchString(name)
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
