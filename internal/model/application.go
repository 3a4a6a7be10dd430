package model

import (
	"time"
)

type JobApplication struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Position  string    `db:"position" json:"position"`
	ResumeURL string    `db:"resume_url" json:"resumeURL"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateJobApplicationParams struct {
	Name      string
	Email     string
	Phone     string
	Position  string
	ResumeURL string
}
