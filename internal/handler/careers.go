package handler

import (
	"errors"
	"io"
	"net/http"

	apperrors "github.com/tics/site-backend-go/internal/errors"
	"github.com/tics/site-backend-go/internal/model"
	"github.com/tics/site-backend-go/internal/service"
	"github.com/tics/site-backend-go/internal/upload"
)

const resumeField = "resume"

type CareersHandler struct {
	careers      *service.CareersService
	gate         *upload.Gate
	isProduction bool
}

func NewCareersHandler(careers *service.CareersService, gate *upload.Gate, isProduction bool) *CareersHandler {
	return &CareersHandler{
		careers:      careers,
		gate:         gate,
		isProduction: isProduction,
	}
}

// GET /api/careers/jobs
func (h *CareersHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)
	jobs, err := h.careers.ListJobs(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, r, err, h.isProduction)
		return
	}
	writeList(w, jobs)
}

// GET /api/careers/applications
func (h *CareersHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)
	applications, err := h.careers.ListApplications(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, r, err, h.isProduction)
		return
	}
	writeList(w, applications)
}

// POST /api/careers/apply
//
// The multipart body is streamed part by part: the resume goes straight
// through the upload gate and is never buffered in memory or a temp file.
func (h *CareersHandler) Apply(w http.ResponseWriter, r *http.Request) {
	input, resume, err := h.readApplication(r)
	if err != nil {
		if resume != nil {
			h.gate.Discard(resume.GeneratedName)
		}
		writeError(w, r, err, h.isProduction)
		return
	}

	application, err := h.careers.Apply(r.Context(), input, resume)
	if err != nil {
		writeError(w, r, err, h.isProduction)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{
		Success: true,
		Message: "Job application submitted successfully",
		Data:    application,
	})
}

func (h *CareersHandler) readApplication(r *http.Request) (service.ApplicationInput, *model.UploadedFile, error) {
	var input service.ApplicationInput
	var resume *model.UploadedFile

	mr, err := r.MultipartReader()
	if err != nil {
		return input, nil, apperrors.ValidationError("Expected a multipart/form-data body").WithCause(err)
	}

	fields := map[string]*string{
		"name":     &input.Name,
		"email":    &input.Email,
		"phone":    &input.Phone,
		"position": &input.Position,
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return input, resume, nil
		}
		if err != nil {
			return input, resume, multipartError(err, h.gate.MaxBytes())
		}

		if part.FileName() != "" {
			if part.FormName() != resumeField {
				part.Close()
				continue
			}
			if resume != nil {
				part.Close()
				return input, resume, apperrors.ValidationError("Only one resume file may be uploaded")
			}
			resume, err = h.gate.Admit(r.Context(), part.FileName(), -1, part)
			part.Close()
			if err != nil {
				return input, nil, err
			}
			continue
		}

		target, ok := fields[part.FormName()]
		if !ok {
			part.Close()
			continue
		}
		value, err := io.ReadAll(io.LimitReader(part, maxFormBytes+1))
		part.Close()
		if err != nil {
			return input, resume, multipartError(err, h.gate.MaxBytes())
		}
		if len(value) > maxFormBytes {
			return input, resume, apperrors.ValidationError("Form field too large")
		}
		*target = string(value)
	}
}

func multipartError(err error, limit int64) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.FileTooLarge(limit)
	}
	return apperrors.ValidationError("Malformed multipart body").WithCause(err)
}
