package database

import (
	"database/sql"
	"fmt"
)

func (s *Store) CreateList(userID int64, in ListCreate) (*List, error) {
	board, err := s.BoardByIDAndUser(in.BoardID, userID)
	if err != nil {
		return nil, err
	}

	res, err := s.db.Exec("INSERT INTO lists (title, board_id) VALUES (?, ?)", in.Title, board.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert list: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read list id: %w", err)
	}
	return &List{ID: id, Title: in.Title, BoardID: board.ID}, nil
}

func (s *Store) ListsByBoard(boardID, userID int64) ([]List, error) {
	if _, err := s.BoardByIDAndUser(boardID, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT id, title, board_id FROM lists WHERE board_id = ?", boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	lists := []List{}
	for rows.Next() {
		var l List
		if err := rows.Scan(&l.ID, &l.Title, &l.BoardID); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// ListByIDAndUser resolves a list only if its board belongs to the user.
func (s *Store) ListByIDAndUser(listID, userID int64) (*List, error) {
	row := s.db.QueryRow(`
		SELECT l.id, l.title, l.board_id
		FROM lists l
		JOIN boards b ON b.id = l.board_id
		WHERE l.id = ? AND b.user_id = ?`, listID, userID)

	var l List
	err := row.Scan(&l.ID, &l.Title, &l.BoardID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query list: %w", err)
	}
	return &l, nil
}

func (s *Store) UpdateList(listID, userID int64, upd ListUpdate) (*List, error) {
	list, err := s.ListByIDAndUser(listID, userID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		if _, err := s.db.Exec("UPDATE lists SET title = ? WHERE id = ?", *upd.Title, list.ID); err != nil {
			return nil, fmt.Errorf("failed to update list: %w", err)
		}
		list.Title = *upd.Title
	}
	return list, nil
}

func (s *Store) DeleteList(listID, userID int64) error {
	list, err := s.ListByIDAndUser(listID, userID)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec("DELETE FROM lists WHERE id = ?", list.ID); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}
