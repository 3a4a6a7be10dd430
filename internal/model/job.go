package model

import (
	"time"

	"github.com/lib/pq"
)

type Job struct {
	ID           string         `db:"id" json:"id"`
	Title        string         `db:"title" json:"title"`
	Department   string         `db:"department" json:"department"`
	Location     string         `db:"location" json:"location"`
	Type         JobType        `db:"type" json:"type"`
	Description  string         `db:"description" json:"description"`
	Requirements pq.StringArray `db:"requirements" json:"requirements"`
	IsActive     bool           `db:"is_active" json:"isActive"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

type CreateJobParams struct {
	Title        string
	Department   string
	Location     string
	Type         JobType
	Description  string
	Requirements []string
	IsActive     bool
}
