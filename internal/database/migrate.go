package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_admin_users",
		SQL: `CREATE TABLE IF NOT EXISTS admin_users (
  id            UUID        PRIMARY KEY,
  username      TEXT        NOT NULL,
  password_hash TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_admin_users_username",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_admin_users_username ON admin_users (lower(username));`,
	},
	{
		Name: "create_table_contact_messages",
		SQL: `CREATE TABLE IF NOT EXISTS contact_messages (
  id         UUID        PRIMARY KEY,
  name       TEXT        NOT NULL,
  email      TEXT        NOT NULL,
  phone      TEXT,
  message    TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_jobs",
		SQL: `CREATE TABLE IF NOT EXISTS jobs (
  id           UUID        PRIMARY KEY,
  title        TEXT        NOT NULL,
  department   TEXT        NOT NULL,
  location     TEXT        NOT NULL,
  type         TEXT        NOT NULL DEFAULT 'Full-time'
               CHECK (type IN ('Full-time', 'Part-time', 'Contract', 'Internship')),
  description  TEXT        NOT NULL,
  requirements TEXT[]      NOT NULL DEFAULT '{}',
  is_active    BOOLEAN     NOT NULL DEFAULT true,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_jobs_active_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_jobs_active_created_at ON jobs (is_active, created_at DESC);`,
	},
	{
		Name: "create_table_job_applications",
		SQL: `CREATE TABLE IF NOT EXISTS job_applications (
  id         UUID        PRIMARY KEY,
  name       TEXT        NOT NULL,
  email      TEXT        NOT NULL,
  phone      TEXT        NOT NULL,
  position   TEXT        NOT NULL,
  resume_url TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
}

// Migrate applies the idempotent schema steps in order.
func Migrate(ctx context.Context, db DBTX) error {
	for _, step := range steps {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			return fmt.Errorf("migration %s: %w", step.Name, err)
		}
		log.Debug().Str("step", step.Name).Msg("migration applied")
	}
	log.Info().Int("steps", len(steps)).Msg("database schema up to date")
	return nil
}
