package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaVersion is the current PRAGMA user_version. Upgrades are additive:
// each step only creates collections that do not exist yet, never migrating
// records between shapes.
const schemaVersion = 2

// runMigrations brings the schema up to schemaVersion. Safe to call on a
// database at any older version, including a fresh file at version 0.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, db); err != nil {
			return fmt.Errorf("schema v1: %w", err)
		}
	}
	if version < 2 {
		if err := migrateV2(ctx, db); err != nil {
			return fmt.Errorf("schema v2: %w", err)
		}
	}

	if version < schemaVersion {
		stmt := fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("setting schema version: %w", err)
		}
	}

	return nil
}

// migrateV1 creates the original flat collections: stages, tasks, history.
// Only history is still written by the live code path; stages and tasks
// remain for databases created before boards were embedded in projects.
func migrateV1(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stages (
			id TEXT PRIMARY KEY,
			ord TEXT NOT NULL,
			doc TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stages_ord ON stages(ord)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			stage_id TEXT NOT NULL,
			doc TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_stage ON tasks(stage_id)`,
		`CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL,
			doc TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_task ON history(task_id)`,
	}
	return execAll(ctx, db, stmts)
}

// migrateV2 adds the projects collection holding whole aggregate documents
// (project plus embedded task items and board state).
func migrateV2(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			doc TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_name ON projects(name)`,
	}
	return execAll(ctx, db, stmts)
}

func execAll(ctx context.Context, db *sql.DB, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
