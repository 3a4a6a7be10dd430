package handler

import (
	"net/http"

	"github.com/tics/site-backend-go/internal/service"
)

type ServicesHandler struct {
	proposals    *service.ProposalService
	isProduction bool
}

func NewServicesHandler(proposals *service.ProposalService, isProduction bool) *ServicesHandler {
	return &ServicesHandler{proposals: proposals, isProduction: isProduction}
}

// POST /api/services/proposal
func (h *ServicesHandler) RequestProposal(w http.ResponseWriter, r *http.Request) {
	var input service.ProposalInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err, h.isProduction)
		return
	}

	if _, err := h.proposals.Request(input); err != nil {
		writeError(w, r, err, h.isProduction)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Success: true,
		Message: "Proposal request submitted successfully",
	})
}
