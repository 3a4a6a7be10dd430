package service

import (
	"context"
	"strings"

	apperrors "github.com/tics/site-backend-go/internal/errors"
	"github.com/tics/site-backend-go/internal/model"
	"github.com/tics/site-backend-go/internal/repository"
	"github.com/tics/site-backend-go/internal/util"
)

// Notifier delivers admin notifications in the background.
type Notifier interface {
	ContactReceived(c *model.ContactMessage)
	ApplicationReceived(a *model.JobApplication)
	ProposalRequested(p *model.ProposalRequest)
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type ContactService struct {
	repo     repository.ContactRepository
	notifier Notifier
}

func NewContactService(repo repository.ContactRepository, notifier Notifier) *ContactService {
	return &ContactService{repo: repo, notifier: notifier}
}

func (s *ContactService) Submit(ctx context.Context, input ContactInput) (*model.ContactMessage, error) {
	name := strings.TrimSpace(input.Name)
	message := strings.TrimSpace(input.Message)

	if name == "" {
		return nil, apperrors.MissingRequired("Name")
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if message == "" {
		return nil, apperrors.MissingRequired("Message")
	}

	contact, err := s.repo.Create(ctx, model.CreateContactMessageParams{
		Name:    name,
		Email:   email,
		Phone:   util.OptionalString(input.Phone),
		Message: message,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	s.notifier.ContactReceived(contact)
	return contact, nil
}

func (s *ContactService) List(ctx context.Context, limit, offset int) ([]model.ContactMessage, error) {
	messages, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return messages, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperrors.MissingRequired("Email")
	}
	if !util.IsValidEmail(email) {
		return "", apperrors.ValidationError("Please provide a valid email")
	}
	return email, nil
}
