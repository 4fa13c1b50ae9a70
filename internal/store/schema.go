package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/abhisek/masterysheet/internal/mastery"
)

const (
	tableSkills  = "character_skills"
	tableChanges = "mastery_changes"
)

// migrate creates the tables used by the repositories.
func migrate(ctx context.Context, db *sql.DB) error {
	quoted := make([]string, 0, len(mastery.Levels()))
	for _, l := range mastery.Levels() {
		quoted = append(quoted, "'"+string(l)+"'")
	}
	levelCheck := strings.Join(quoted, ", ")

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + tableSkills + ` (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			character_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			mastery TEXT NOT NULL DEFAULT 'None' CHECK (mastery IN (` + levelCheck + `)),
			UNIQUE (character_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tableChanges + ` (
			sequence INTEGER PRIMARY KEY,
			skill_id INTEGER NOT NULL REFERENCES ` + tableSkills + `(id) ON DELETE CASCADE,
			from_level TEXT NOT NULL,
			to_level TEXT NOT NULL,
			request_id TEXT NOT NULL DEFAULT '',
			timestamp TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mastery_changes_skill ON ` + tableChanges + ` (skill_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
