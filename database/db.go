package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound covers both a genuinely missing row and a row owned by a
// different user. Handlers surface the two identically so callers cannot
// probe for the existence of other users' resources.
var ErrNotFound = errors.New("not found")

// ErrInvalid marks a rejected input (malformed week string, field too long).
var ErrInvalid = errors.New("invalid input")

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Cascade deletes down the Board -> List -> Card -> children chain
	// depend on foreign key enforcement being on.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS boards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS lists (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			board_id INTEGER NOT NULL REFERENCES boards(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS cards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			due_date TIMESTAMP,
			"order" INTEGER NOT NULL DEFAULT 0,
			list_id INTEGER NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
			user_id INTEGER REFERENCES users(id),
			completed INTEGER NOT NULL DEFAULT 0,
			overdue INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS labels (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			card_id INTEGER NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			color TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS subtasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			card_id INTEGER NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS timesheets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			description TEXT NOT NULL,
			hours REAL NOT NULL,
			date TIMESTAMP NOT NULL,
			card_id INTEGER REFERENCES cards(id) ON DELETE CASCADE,
			user_id INTEGER NOT NULL REFERENCES users(id),
			created_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	log.Println("Database initialized successfully")
	return db, nil
}

// Store handles all database operations for the board hierarchy.
type Store struct {
	db *sql.DB

	// List role matchers used by the report aggregator. Replaceable so the
	// substring heuristic can later give way to an explicit role attribute.
	DoneMatcher    ListMatcher
	OverdueMatcher ListMatcher
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:             db,
		DoneMatcher:    DoneListMatcher,
		OverdueMatcher: OverdueListMatcher,
	}
}

// inTx runs fn inside a transaction, rolling back on error.
func (s *Store) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
