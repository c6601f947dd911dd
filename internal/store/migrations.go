package store

import (
	"context"
	"database/sql"
	"strings"
)

// schema contains the DDL for all tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
		role          TEXT NOT NULL DEFAULT 'admin',
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		slug            TEXT NOT NULL UNIQUE,
		description     TEXT NOT NULL,
		short_summary   TEXT NOT NULL,
		technologies    TEXT NOT NULL DEFAULT '[]',
		images          TEXT NOT NULL DEFAULT '[]',
		live_demo_url   TEXT NOT NULL DEFAULT '',
		source_code_url TEXT NOT NULL DEFAULT '',
		role            TEXT NOT NULL DEFAULT '',
		challenges      TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'draft',
		featured        INTEGER NOT NULL DEFAULT 0,
		sort_order      INTEGER NOT NULL DEFAULT 0,
		published_at    TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS blog_posts (
		id                 TEXT PRIMARY KEY,
		title              TEXT NOT NULL,
		slug               TEXT NOT NULL UNIQUE,
		content            TEXT NOT NULL,
		excerpt            TEXT NOT NULL DEFAULT '',
		categories         TEXT NOT NULL DEFAULT '[]',
		tags               TEXT NOT NULL DEFAULT '[]',
		author_id          TEXT NOT NULL DEFAULT '',
		status             TEXT NOT NULL DEFAULT 'draft',
		featured_image_url TEXT NOT NULL DEFAULT '',
		published_at       TEXT,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS contact_submissions (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		subject    TEXT NOT NULL DEFAULT '',
		message    TEXT NOT NULL,
		is_read    INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS profile (
		id                  TEXT PRIMARY KEY,
		name                TEXT NOT NULL,
		title               TEXT NOT NULL,
		biography           TEXT NOT NULL DEFAULT '',
		profile_picture_url TEXT NOT NULL DEFAULT '',
		contact_email       TEXT NOT NULL DEFAULT '',
		skills              TEXT NOT NULL DEFAULT '[]',
		education           TEXT NOT NULL DEFAULT '[]',
		work_experience     TEXT NOT NULL DEFAULT '[]',
		social_links        TEXT NOT NULL DEFAULT '[]',
		updated_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_featured ON projects(featured)`,
	`CREATE INDEX IF NOT EXISTS idx_blog_posts_status ON blog_posts(status)`,
	`CREATE INDEX IF NOT EXISTS idx_blog_posts_published_at ON blog_posts(published_at)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_submissions_is_read ON contact_submissions(is_read)`,
}

// alterStatements are column additions that need special handling since
// SQLite doesn't support IF NOT EXISTS for ALTER TABLE ADD COLUMN.
var alterStatements = []struct {
	table    string
	column   string
	alterSQL string
	indexSQL string // Optional index to create after column is added
}{
	{
		table:    "blog_posts",
		column:   "seo_metadata",
		alterSQL: "ALTER TABLE blog_posts ADD COLUMN seo_metadata TEXT NOT NULL DEFAULT ''",
	},
	{
		table:    "profile",
		column:   "resume_url",
		alterSQL: "ALTER TABLE profile ADD COLUMN resume_url TEXT NOT NULL DEFAULT ''",
	},
	{
		table:    "blog_posts",
		column:   "author_id",
		alterSQL: "ALTER TABLE blog_posts ADD COLUMN author_id TEXT NOT NULL DEFAULT ''",
		indexSQL: "CREATE INDEX IF NOT EXISTS idx_blog_posts_author_id ON blog_posts(author_id)",
	},
}

// migrate executes all schema DDL statements, alter migrations, and post-migration indexes.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	for _, alter := range alterStatements {
		if err := addColumnIfNotExists(ctx, db, alter.table, alter.column, alter.alterSQL); err != nil {
			return err
		}
		if alter.indexSQL != "" {
			if _, err := db.ExecContext(ctx, alter.indexSQL); err != nil {
				return err
			}
		}
	}

	return nil
}

// addColumnIfNotExists adds a column to a table if it doesn't already exist.
func addColumnIfNotExists(ctx context.Context, db *sql.DB, table, column, alterSQL string) error {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+table+")")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue *string
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return err
		}
		if strings.EqualFold(name, column) {
			return nil // Column already exists
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	_, err = db.ExecContext(ctx, alterSQL)
	return err
}
