package handler

import (
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/tics/site-backend-go/internal/audit"
	apperrors "github.com/tics/site-backend-go/internal/errors"
	"github.com/tics/site-backend-go/internal/middleware"
	"github.com/tics/site-backend-go/internal/service"
	"github.com/tics/site-backend-go/internal/upload"
)

var resumeContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type AdminHandler struct {
	auth         *service.AuthService
	files        *upload.Gate
	isProduction bool
}

func NewAdminHandler(auth *service.AuthService, files *upload.Gate, isProduction bool) *AdminHandler {
	return &AdminHandler{
		auth:         auth,
		files:        files,
		isProduction: isProduction,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err, h.isProduction)
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeUnauthorized) {
			event := audit.Event{Type: audit.EventLoginFailure, Username: req.Username}
			if user != nil {
				event.AdminID = user.ID
			}
			audit.LogFromRequest(r, event)
		}
		writeError(w, r, err, h.isProduction)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventLoginSuccess,
		AdminID:  user.ID,
		Username: user.Username,
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
	})
}

// GET /api/admin/resume/{filename}
func (h *AdminHandler) DownloadResume(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if !upload.ValidStoredName(name) {
		writeError(w, r, apperrors.ValidationError("Invalid file name"), h.isProduction)
		return
	}

	f, info, err := h.files.Open(name)
	if err != nil {
		writeError(w, r, err, h.isProduction)
		return
	}
	defer f.Close()

	event := audit.Event{Type: audit.EventResumeDownload, Details: map[string]any{"file": name}}
	if identity := middleware.GetIdentity(r.Context()); identity != nil {
		event.AdminID = identity.AdminID
	}
	audit.LogFromRequest(r, event)

	contentType := resumeContentTypes[filepath.Ext(name)]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)
}
