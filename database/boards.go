package database

import (
	"database/sql"
	"fmt"
)

func (s *Store) CreateBoard(userID int64, in BoardCreate) (*Board, error) {
	res, err := s.db.Exec("INSERT INTO boards (title, user_id) VALUES (?, ?)", in.Title, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert board: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read board id: %w", err)
	}
	return &Board{ID: id, Title: in.Title, UserID: userID}, nil
}

func (s *Store) BoardsByUser(userID int64) ([]Board, error) {
	rows, err := s.db.Query("SELECT id, title, user_id FROM boards WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query boards: %w", err)
	}
	defer rows.Close()

	boards := []Board{}
	for rows.Next() {
		var b Board
		if err := rows.Scan(&b.ID, &b.Title, &b.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

// BoardByIDAndUser is the ownership check every board-scoped operation goes
// through. A board owned by someone else looks exactly like a missing board.
func (s *Store) BoardByIDAndUser(boardID, userID int64) (*Board, error) {
	row := s.db.QueryRow(
		"SELECT id, title, user_id FROM boards WHERE id = ? AND user_id = ?", boardID, userID)

	var b Board
	err := row.Scan(&b.ID, &b.Title, &b.UserID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query board: %w", err)
	}
	return &b, nil
}

func (s *Store) UpdateBoardTitle(boardID, userID int64, title string) (*Board, error) {
	board, err := s.BoardByIDAndUser(boardID, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.Exec("UPDATE boards SET title = ? WHERE id = ?", title, board.ID); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}
	board.Title = title
	return board, nil
}

// DeleteBoard removes the board; lists, cards and card children go with it
// via cascading foreign keys.
func (s *Store) DeleteBoard(boardID, userID int64) error {
	if _, err := s.BoardByIDAndUser(boardID, userID); err != nil {
		return err
	}

	if _, err := s.db.Exec("DELETE FROM boards WHERE id = ?", boardID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	return nil
}
