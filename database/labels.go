package database

import (
	"database/sql"
	"fmt"
)

const (
	maxLabelNameLen  = 30
	maxLabelColorLen = 20
)

func (s *Store) LabelsForCard(cardID, userID int64) ([]Label, error) {
	if _, err := s.CardByIDAndUser(cardID, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT id, card_id, name, color FROM labels WHERE card_id = ?", cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer rows.Close()

	labels := []Label{}
	for rows.Next() {
		var l Label
		if err := rows.Scan(&l.ID, &l.CardID, &l.Name, &l.Color); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func (s *Store) CreateLabel(cardID, userID int64, in LabelCreate) (*Label, error) {
	if len(in.Name) > maxLabelNameLen {
		return nil, fmt.Errorf("%w: label name exceeds %d characters", ErrInvalid, maxLabelNameLen)
	}
	if len(in.Color) > maxLabelColorLen {
		return nil, fmt.Errorf("%w: label color exceeds %d characters", ErrInvalid, maxLabelColorLen)
	}

	if _, err := s.CardByIDAndUser(cardID, userID); err != nil {
		return nil, err
	}

	res, err := s.db.Exec("INSERT INTO labels (card_id, name, color) VALUES (?, ?, ?)",
		cardID, in.Name, in.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to insert label: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read label id: %w", err)
	}
	return &Label{ID: id, CardID: cardID, Name: in.Name, Color: in.Color}, nil
}

func (s *Store) DeleteLabel(labelID, userID int64) error {
	row := s.db.QueryRow(`
		SELECT la.id
		FROM labels la
		JOIN cards c ON c.id = la.card_id
		JOIN lists l ON l.id = c.list_id
		JOIN boards b ON b.id = l.board_id
		WHERE la.id = ? AND b.user_id = ?`, labelID, userID)

	var id int64
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query label: %w", err)
	}

	if _, err := s.db.Exec("DELETE FROM labels WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}
	return nil
}
