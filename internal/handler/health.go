package handler

import (
	"net/http"

	"github.com/tics/site-backend-go/internal/database"
)

const (
	apiName    = "TICS Backend API"
	apiVersion = "1.0.0"
)

type StateReporter interface {
	State() database.State
}

type HealthHandler struct {
	db StateReporter
}

func NewHealthHandler(db StateReporter) *HealthHandler {
	return &HealthHandler{db: db}
}

// GET /api/health
//
// Always 200: the process is up even when the database is not.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "OK",
		"message":  "TICS API is running",
		"database": h.db.State().String(),
	})
}

// GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": apiName,
		"status":  "running",
		"version": apiVersion,
	})
}

// GET /favicon.ico
func (h *HealthHandler) Favicon(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
