package postgresadapter

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const (
	constraintCandidateName = "candidates_name_key"
	constraintUniqueBallot  = "votes_unique_ballot"

	singletonKey = "default"
)

// schemaStatements are idempotent; Migrate can run on every boot.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS candidates (
		candidate_id TEXT PRIMARY KEY,
		name         VARCHAR(100) NOT NULL,
		photo_path   VARCHAR(500) NOT NULL DEFAULT '',
		description  TEXT NOT NULL DEFAULT '',
		votes        INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0),
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL,
		CONSTRAINT candidates_name_key UNIQUE (name)
	)`,
	`CREATE TABLE IF NOT EXISTS votes (
		vote_id            TEXT PRIMARY KEY,
		candidate_id       TEXT NOT NULL REFERENCES candidates (candidate_id) ON DELETE CASCADE,
		voter_ip           VARCHAR(45) NOT NULL,
		device_fingerprint VARCHAR(255) NOT NULL DEFAULT '',
		user_agent         TEXT NOT NULL DEFAULT '',
		voted_at           TIMESTAMPTZ NOT NULL,
		CONSTRAINT votes_unique_ballot UNIQUE (candidate_id, voter_ip, device_fingerprint)
	)`,
	`CREATE INDEX IF NOT EXISTS votes_voter_idx ON votes (voter_ip, device_fingerprint)`,
	`CREATE INDEX IF NOT EXISTS votes_voted_at_idx ON votes (voted_at DESC)`,
	`CREATE TABLE IF NOT EXISTS lottery_records (
		record_id      TEXT PRIMARY KEY,
		candidate_id   TEXT NOT NULL REFERENCES candidates (candidate_id) ON DELETE CASCADE,
		candidate_name VARCHAR(100) NOT NULL,
		photo_path     VARCHAR(500) NOT NULL DEFAULT '',
		round          INTEGER NOT NULL CHECK (round >= 1),
		prize_name     VARCHAR(100) NOT NULL,
		drawn_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS lottery_records_round_idx ON lottery_records (round DESC)`,
	`CREATE TABLE IF NOT EXISTS vote_config (
		config_key         TEXT PRIMARY KEY CHECK (config_key = 'default'),
		vote_name          VARCHAR(100) NOT NULL,
		max_votes_per_user INTEGER NOT NULL CHECK (max_votes_per_user >= 1),
		created_at         TIMESTAMPTZ NOT NULL,
		updated_at         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS lottery_settings (
		settings_key     TEXT PRIMARY KEY CHECK (settings_key = 'default'),
		count            INTEGER NOT NULL,
		prize_name       VARCHAR(100) NOT NULL,
		exclude_winners  BOOLEAN NOT NULL,
		rounds           INTEGER NOT NULL,
		completed_rounds INTEGER NOT NULL DEFAULT 0,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate creates the voting and lottery tables when they are missing.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, statement := range schemaStatements {
			if err := tx.Exec(statement).Error; err != nil { // gorm-postgres-enforcer: allow-raw-sql schema DDL
				return fmt.Errorf("voting schema statement %d: %w", i, err)
			}
		}
		return nil
	})
}
