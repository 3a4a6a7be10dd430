package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/tics/site-backend-go/internal/database"
	"github.com/tics/site-backend-go/internal/model"
)

type ContactRepository interface {
	Create(ctx context.Context, params model.CreateContactMessageParams) (*model.ContactMessage, error)
	FindAll(ctx context.Context, limit, offset int) ([]model.ContactMessage, error)
}

type contactRepo struct {
	db database.DBTX
}

func NewContactRepository(db database.DBTX) ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, params model.CreateContactMessageParams) (*model.ContactMessage, error) {
	var msg model.ContactMessage
	err := r.db.GetContext(ctx, &msg, `
		INSERT INTO contact_messages (id, name, email, phone, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, uuid.NewString(), params.Name, params.Email, params.Phone, params.Message)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *contactRepo) FindAll(ctx context.Context, limit, offset int) ([]model.ContactMessage, error) {
	lim, off := window(limit, offset)
	messages := []model.ContactMessage{}
	err := r.db.SelectContext(ctx, &messages, `
		SELECT * FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, lim, off)
	if err != nil {
		return nil, err
	}
	return messages, nil
}
