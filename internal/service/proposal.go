package service

import (
	"strings"

	apperrors "github.com/tics/site-backend-go/internal/errors"
	"github.com/tics/site-backend-go/internal/model"
	"github.com/tics/site-backend-go/internal/util"
)

type ProposalInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Service string `json:"service"`
	Message string `json:"message"`
}

// ProposalService forwards proposal requests to the admin inbox. Nothing is stored.
type ProposalService struct {
	notifier Notifier
}

func NewProposalService(notifier Notifier) *ProposalService {
	return &ProposalService{notifier: notifier}
}

func (s *ProposalService) Request(input ProposalInput) (*model.ProposalRequest, error) {
	name := strings.TrimSpace(input.Name)
	service := strings.TrimSpace(input.Service)
	message := strings.TrimSpace(input.Message)

	if name == "" {
		return nil, apperrors.MissingRequired("Name")
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if service == "" {
		return nil, apperrors.MissingRequired("Service")
	}
	if message == "" {
		return nil, apperrors.MissingRequired("Message")
	}

	proposal := &model.ProposalRequest{
		Name:    name,
		Email:   email,
		Phone:   util.OptionalString(input.Phone),
		Company: util.OptionalString(input.Company),
		Service: service,
		Message: message,
	}
	s.notifier.ProposalRequested(proposal)
	return proposal, nil
}
