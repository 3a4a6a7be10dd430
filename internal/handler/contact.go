package handler

import (
	"net/http"

	"github.com/tics/site-backend-go/internal/service"
)

type ContactHandler struct {
	contacts     *service.ContactService
	isProduction bool
}

func NewContactHandler(contacts *service.ContactService, isProduction bool) *ContactHandler {
	return &ContactHandler{contacts: contacts, isProduction: isProduction}
}

// POST /api/contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input service.ContactInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err, h.isProduction)
		return
	}

	msg, err := h.contacts.Submit(r.Context(), input)
	if err != nil {
		writeError(w, r, err, h.isProduction)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{
		Success: true,
		Message: "Contact message submitted successfully",
		Data:    msg,
	})
}

// GET /api/contact/admin, GET /api/admin/contacts
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)
	messages, err := h.contacts.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(w, r, err, h.isProduction)
		return
	}
	writeList(w, messages)
}
