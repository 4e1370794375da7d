package database

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateTimesheet records worked hours for the user, optionally attached to
// a card. The card only needs to exist; hour entries are not restricted to
// the caller's own boards.
func (s *Store) CreateTimesheet(userID int64, in TimesheetCreate) (*Timesheet, error) {
	if in.CardID != nil {
		var id int64
		row := s.db.QueryRow("SELECT id FROM cards WHERE id = ?", *in.CardID)
		if err := row.Scan(&id); err == sql.ErrNoRows {
			return nil, ErrNotFound
		} else if err != nil {
			return nil, fmt.Errorf("failed to query card: %w", err)
		}
	}

	entry := &Timesheet{
		Description: in.Description,
		Hours:       in.Hours,
		Date:        in.Date,
		CardID:      in.CardID,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
	}

	res, err := s.db.Exec(`
		INSERT INTO timesheets (description, hours, date, card_id, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Description, entry.Hours, entry.Date, nullInt64(entry.CardID),
		entry.UserID, entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert timesheet: %w", err)
	}

	entry.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read timesheet id: %w", err)
	}
	return entry, nil
}

// TimesheetsForUser returns every hour entry the user has recorded.
func (s *Store) TimesheetsForUser(userID int64) ([]Timesheet, error) {
	rows, err := s.db.Query(`
		SELECT id, description, hours, date, card_id, user_id, created_at
		FROM timesheets WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheets: %w", err)
	}
	defer rows.Close()

	entries := []Timesheet{}
	for rows.Next() {
		var (
			t      Timesheet
			cardID sql.NullInt64
		)
		if err := rows.Scan(&t.ID, &t.Description, &t.Hours, &t.Date, &cardID,
			&t.UserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan timesheet: %w", err)
		}
		if cardID.Valid {
			id := cardID.Int64
			t.CardID = &id
		}
		entries = append(entries, t)
	}
	return entries, rows.Err()
}

// DeleteTimesheet removes one of the user's own entries.
func (s *Store) DeleteTimesheet(timesheetID, userID int64) error {
	res, err := s.db.Exec("DELETE FROM timesheets WHERE id = ? AND user_id = ?", timesheetID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete timesheet: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
