package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) the single-file SQLite database at path and ensures
// the schema exists.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight; foreign keys are off
	// by default in SQLite and the messages table depends on them.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// migrate creates the schema idempotently. Later additions to existing tables
// go through addColumnIfNotExists so the same binary can start against
// databases created by older versions.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			google_id     TEXT,
			display_name  TEXT NOT NULL DEFAULT '',
			is_admin      INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_google_id
			ON users(google_id) WHERE google_id IS NOT NULL;

		CREATE TABLE IF NOT EXISTS contacts (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE,
			country    TEXT NOT NULL DEFAULT '',
			ip_address TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS messages (
			id            TEXT PRIMARY KEY,
			contact_id    TEXT NOT NULL REFERENCES contacts(id),
			content       TEXT NOT NULL,
			status        TEXT NOT NULL DEFAULT 'Pending',
			reply_content TEXT NOT NULL DEFAULT '',
			replied_by    TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_messages_contact_id ON messages(contact_id);
		CREATE INDEX IF NOT EXISTS idx_messages_status ON messages(status);

		CREATE TABLE IF NOT EXISTS payments (
			id             TEXT PRIMARY KEY,
			user_id        TEXT,
			amount         REAL NOT NULL,
			currency       TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			status         TEXT NOT NULL,
			transaction_id TEXT NOT NULL UNIQUE,
			created_at     DATETIME NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	// buyer_email arrived after the first payments schema shipped.
	if err := addColumnIfNotExists(db, "payments", "buyer_email",
		"TEXT NOT NULL DEFAULT ''"); err != nil {
		return fmt.Errorf("add payments.buyer_email: %w", err)
	}
	return nil
}

// addColumnIfNotExists makes ALTER TABLE migrations idempotent: ALTER TABLE
// errors when the column exists, so pragma_table_info is checked first.
func addColumnIfNotExists(db *sql.DB, table, column, definition string) error {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err = db.Exec(fmt.Sprintf(
		`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition))
	return err
}
