package database

import (
	"database/sql"
	"fmt"
)

// UserByEmail returns the user with the given email, or ErrNotFound.
func (s *Store) UserByEmail(email string) (*User, error) {
	row := s.db.QueryRow(
		"SELECT id, email, hashed_password, is_active FROM users WHERE email = ?", email)

	var u User
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.IsActive)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

func (s *Store) UserByID(id int64) (*User, error) {
	row := s.db.QueryRow(
		"SELECT id, email, hashed_password, is_active FROM users WHERE id = ?", id)

	var u User
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.IsActive)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a new active user with an already-hashed password.
func (s *Store) CreateUser(email, hashedPassword string) (*User, error) {
	res, err := s.db.Exec(
		"INSERT INTO users (email, hashed_password, is_active) VALUES (?, ?, 1)",
		email, hashedPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}
	return &User{ID: id, Email: email, HashedPassword: hashedPassword, IsActive: true}, nil
}
