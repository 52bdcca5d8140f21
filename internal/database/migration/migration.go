// Package migration bootstraps the questionnaire schema on an empty database.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_questionnaires",
		SQL: `CREATE TABLE IF NOT EXISTS questionnaires (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  filename          TEXT        NOT NULL,
  original_filename TEXT        NOT NULL,
  storage_path      TEXT        NOT NULL UNIQUE,
  size              BIGINT      NOT NULL CHECK (size >= 0),
  content_type      TEXT        NOT NULL,
  format_kind       TEXT        NOT NULL CHECK (format_kind IN ('pdf', 'docx', 'txt', 'csv', 'xlsx')),
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_questionnaire_sections",
		SQL: `CREATE TABLE IF NOT EXISTS questionnaire_sections (
  id               UUID    PRIMARY KEY DEFAULT uuid_generate_v4(),
  questionnaire_id UUID    NOT NULL REFERENCES questionnaires (id) ON DELETE CASCADE,
  position         INTEGER NOT NULL,
  title            TEXT    NOT NULL,
  UNIQUE (questionnaire_id, position)
);`,
	},
	{
		Name: "create_table_questionnaire_questions",
		SQL: `CREATE TABLE IF NOT EXISTS questionnaire_questions (
  id         UUID    PRIMARY KEY DEFAULT uuid_generate_v4(),
  section_id UUID    NOT NULL REFERENCES questionnaire_sections (id) ON DELETE CASCADE,
  position   INTEGER NOT NULL,
  text       TEXT    NOT NULL,
  options    JSONB   NOT NULL DEFAULT '[]'::jsonb,
  UNIQUE (section_id, position)
);`,
	},
	{
		Name: "create_index_questionnaires_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_questionnaires_created_at ON questionnaires (created_at);`,
	},
	{
		Name: "create_index_questionnaires_format_kind",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_questionnaires_format_kind ON questionnaires (format_kind);`,
	},
}

// EnsureMigrated checks whether the questionnaires table exists and runs every step if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("checking schema", zap.String("event", "db_migration_check"), zap.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass('public.questionnaires') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("failed to check sentinel table",
			zap.String("event", "db_migration_failed"),
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("schema already exists, skipping migration",
			zap.String("event", "db_migration_skip"),
			zap.String("status", "success"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("running migration", zap.String("event", "db_migration_start"), zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("migration step failed",
				zap.String("event", "db_migration_failed"),
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("migration step applied",
			zap.String("event", "db_migration_step"),
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("migration complete",
		zap.String("event", "db_migration_success"),
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
