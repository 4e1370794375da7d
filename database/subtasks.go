package database

import (
	"database/sql"
	"fmt"
)

const maxSubtaskTitleLen = 100

func (s *Store) SubtasksForCard(cardID, userID int64) ([]Subtask, error) {
	if _, err := s.CardByIDAndUser(cardID, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT id, card_id, title, completed FROM subtasks WHERE card_id = ? ORDER BY id ASC", cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subtasks: %w", err)
	}
	defer rows.Close()

	subtasks := []Subtask{}
	for rows.Next() {
		var st Subtask
		if err := rows.Scan(&st.ID, &st.CardID, &st.Title, &st.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan subtask: %w", err)
		}
		subtasks = append(subtasks, st)
	}
	return subtasks, rows.Err()
}

func (s *Store) CreateSubtask(cardID, userID int64, in SubtaskCreate) (*Subtask, error) {
	if len(in.Title) > maxSubtaskTitleLen {
		return nil, fmt.Errorf("%w: subtask title exceeds %d characters", ErrInvalid, maxSubtaskTitleLen)
	}

	if _, err := s.CardByIDAndUser(cardID, userID); err != nil {
		return nil, err
	}

	res, err := s.db.Exec("INSERT INTO subtasks (card_id, title, completed) VALUES (?, ?, 0)",
		cardID, in.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to insert subtask: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read subtask id: %w", err)
	}
	return &Subtask{ID: id, CardID: cardID, Title: in.Title}, nil
}

func (s *Store) subtaskByIDAndUser(subtaskID, userID int64) (*Subtask, error) {
	row := s.db.QueryRow(`
		SELECT st.id, st.card_id, st.title, st.completed
		FROM subtasks st
		JOIN cards c ON c.id = st.card_id
		JOIN lists l ON l.id = c.list_id
		JOIN boards b ON b.id = l.board_id
		WHERE st.id = ? AND b.user_id = ?`, subtaskID, userID)

	var st Subtask
	err := row.Scan(&st.ID, &st.CardID, &st.Title, &st.Completed)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subtask: %w", err)
	}
	return &st, nil
}

func (s *Store) UpdateSubtask(subtaskID, userID int64, upd SubtaskUpdate) (*Subtask, error) {
	st, err := s.subtaskByIDAndUser(subtaskID, userID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		if len(*upd.Title) > maxSubtaskTitleLen {
			return nil, fmt.Errorf("%w: subtask title exceeds %d characters", ErrInvalid, maxSubtaskTitleLen)
		}
		st.Title = *upd.Title
	}
	if upd.Completed != nil {
		st.Completed = *upd.Completed
	}

	if _, err := s.db.Exec("UPDATE subtasks SET title = ?, completed = ? WHERE id = ?",
		st.Title, st.Completed, st.ID); err != nil {
		return nil, fmt.Errorf("failed to update subtask: %w", err)
	}
	return st, nil
}

func (s *Store) DeleteSubtask(subtaskID, userID int64) error {
	st, err := s.subtaskByIDAndUser(subtaskID, userID)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec("DELETE FROM subtasks WHERE id = ?", st.ID); err != nil {
		return fmt.Errorf("failed to delete subtask: %w", err)
	}
	return nil
}
