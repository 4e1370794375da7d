package database

import (
	"database/sql"
	"fmt"
	"time"
)

const cardColumns = `c.id, c.title, c.description, c.due_date, c."order",
	c.list_id, c.user_id, c.completed, c.overdue, c.created_at, c.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*Card, error) {
	var (
		c           Card
		description sql.NullString
		dueDate     sql.NullTime
		userID      sql.NullInt64
	)
	err := row.Scan(&c.ID, &c.Title, &description, &dueDate, &c.Order,
		&c.ListID, &userID, &c.Completed, &c.Overdue, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.Description = description.String
	if dueDate.Valid {
		t := dueDate.Time
		c.DueDate = &t
	}
	c.UserID = userID.Int64
	return &c, nil
}

// CardByIDAndUser resolves a card only if its list's board belongs to the
// user.
func (s *Store) CardByIDAndUser(cardID, userID int64) (*Card, error) {
	row := s.db.QueryRow(`
		SELECT `+cardColumns+`
		FROM cards c
		JOIN lists l ON l.id = c.list_id
		JOIN boards b ON b.id = l.board_id
		WHERE c.id = ? AND b.user_id = ?`, cardID, userID)

	card, err := scanCard(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query card: %w", err)
	}
	return card, nil
}

// CreateCard appends a card at the end of its list: order = max(order)+1,
// or 1 for an empty list. The lookup and insert share a transaction so two
// concurrent creates cannot claim the same slot.
func (s *Store) CreateCard(userID int64, in CardCreate) (*Card, error) {
	list, err := s.ListByIDAndUser(in.ListID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	card := &Card{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		ListID:      list.ID,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.inTx(func(tx *sql.Tx) error {
		var maxOrder int
		row := tx.QueryRow(`SELECT COALESCE(MAX("order"), 0) FROM cards WHERE list_id = ?`, list.ID)
		if err := row.Scan(&maxOrder); err != nil {
			return fmt.Errorf("failed to query max order: %w", err)
		}
		card.Order = maxOrder + 1

		res, err := tx.Exec(`
			INSERT INTO cards (title, description, due_date, "order", list_id, user_id,
				completed, overdue, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
			card.Title, nullString(card.Description), nullTime(card.DueDate),
			card.Order, card.ListID, card.UserID, card.CreatedAt, card.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert card: %w", err)
		}

		card.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read card id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// DeleteCard removes the card and closes the gap it leaves: every card
// behind it in the same list moves up one position. Both steps run in one
// transaction so the order set stays exactly {1..N-1}.
func (s *Store) DeleteCard(cardID, userID int64) error {
	card, err := s.CardByIDAndUser(cardID, userID)
	if err != nil {
		return err
	}

	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			UPDATE cards SET "order" = "order" - 1
			WHERE list_id = ? AND "order" > ?`, card.ListID, card.Order); err != nil {
			return fmt.Errorf("failed to renumber cards: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM cards WHERE id = ?", card.ID); err != nil {
			return fmt.Errorf("failed to delete card: %w", err)
		}
		return nil
	})
}

// MoveCard relocates a card to (list_id, new_order) and renumbers both
// affected lists so their order sets stay dense:
//
//   - same list, forward:  cards in (old, new] shift down one
//   - same list, backward: cards in [new, old) shift up one
//   - cross-list: the old list closes the gap behind the card, the new list
//     opens a slot at new_order
//
// The requested position is clamped to [1, N] within the same list and
// [1, N+1] when changing lists; an out-of-range target would otherwise
// punch a gap into the sequence. All updates plus the card's own
// reassignment commit as a single transaction.
func (s *Store) MoveCard(cardID, userID int64, mv CardMove) (*Card, error) {
	card, err := s.CardByIDAndUser(cardID, userID)
	if err != nil {
		return nil, err
	}

	targetList, err := s.ListByIDAndUser(mv.ListID, userID)
	if err != nil {
		return nil, err
	}

	oldListID := card.ListID
	oldOrder := card.Order
	newListID := targetList.ID
	newOrder := mv.NewOrder

	err = s.inTx(func(tx *sql.Tx) error {
		var targetCount int
		row := tx.QueryRow("SELECT COUNT(*) FROM cards WHERE list_id = ?", newListID)
		if err := row.Scan(&targetCount); err != nil {
			return fmt.Errorf("failed to count cards: %w", err)
		}

		maxOrder := targetCount
		if oldListID != newListID {
			maxOrder = targetCount + 1
		}
		if newOrder < 1 {
			newOrder = 1
		}
		if newOrder > maxOrder {
			newOrder = maxOrder
		}

		if oldListID == newListID {
			switch {
			case newOrder > oldOrder:
				if _, err := tx.Exec(`
					UPDATE cards SET "order" = "order" - 1
					WHERE list_id = ? AND "order" > ? AND "order" <= ?`,
					oldListID, oldOrder, newOrder); err != nil {
					return fmt.Errorf("failed to shift cards forward: %w", err)
				}
			case newOrder < oldOrder:
				if _, err := tx.Exec(`
					UPDATE cards SET "order" = "order" + 1
					WHERE list_id = ? AND "order" >= ? AND "order" < ?`,
					oldListID, newOrder, oldOrder); err != nil {
					return fmt.Errorf("failed to shift cards backward: %w", err)
				}
			default:
				// Moving a card onto its own position is a no-op.
				return nil
			}
		} else {
			if _, err := tx.Exec(`
				UPDATE cards SET "order" = "order" - 1
				WHERE list_id = ? AND "order" > ?`, oldListID, oldOrder); err != nil {
				return fmt.Errorf("failed to close gap in old list: %w", err)
			}
			if _, err := tx.Exec(`
				UPDATE cards SET "order" = "order" + 1
				WHERE list_id = ? AND "order" >= ?`, newListID, newOrder); err != nil {
				return fmt.Errorf("failed to open slot in new list: %w", err)
			}
		}

		card.UpdatedAt = time.Now().UTC()
		if _, err := tx.Exec(`
			UPDATE cards SET list_id = ?, "order" = ?, updated_at = ? WHERE id = ?`,
			newListID, newOrder, card.UpdatedAt, card.ID); err != nil {
			return fmt.Errorf("failed to move card: %w", err)
		}
		card.ListID = newListID
		card.Order = newOrder
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// CardsByList returns a list's cards in board order.
func (s *Store) CardsByList(listID, userID int64) ([]Card, error) {
	if _, err := s.ListByIDAndUser(listID, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT `+cardColumns+`
		FROM cards c
		WHERE c.list_id = ?
		ORDER BY c."order"`, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	return collectCards(rows)
}

// CardsByBoard returns every card on the board, oldest first, optionally
// filtered by responsible user.
func (s *Store) CardsByBoard(boardID, userID int64, responsibleID *int64) ([]Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards c
		JOIN lists l ON l.id = c.list_id
		JOIN boards b ON b.id = l.board_id
		WHERE b.id = ? AND b.user_id = ?`
	args := []any{boardID, userID}

	if responsibleID != nil {
		query += " AND c.user_id = ?"
		args = append(args, *responsibleID)
	}
	query += " ORDER BY c.created_at ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	return collectCards(rows)
}

// SearchCards matches the text against card titles and descriptions,
// newest first.
func (s *Store) SearchCards(boardID, userID int64, text string, responsibleID *int64) ([]Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards c
		JOIN lists l ON l.id = c.list_id
		JOIN boards b ON b.id = l.board_id
		WHERE b.id = ? AND b.user_id = ?
		  AND (c.title LIKE ? OR c.description LIKE ?)`
	pattern := "%" + text + "%"
	args := []any{boardID, userID, pattern, pattern}

	if responsibleID != nil {
		query += " AND c.user_id = ?"
		args = append(args, *responsibleID)
	}
	query += " ORDER BY c.created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search cards: %w", err)
	}
	return collectCards(rows)
}

// UpdateCard applies a partial update to a card's own fields. Position and
// list membership are out of scope here; MoveCard owns those.
func (s *Store) UpdateCard(cardID, userID int64, upd CardUpdate) (*Card, error) {
	card, err := s.CardByIDAndUser(cardID, userID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		card.Title = *upd.Title
	}
	if upd.Description != nil {
		card.Description = *upd.Description
	}
	if upd.DueDate != nil {
		card.DueDate = upd.DueDate
	}
	if upd.Completed != nil {
		card.Completed = *upd.Completed
	}
	if upd.Overdue != nil {
		card.Overdue = *upd.Overdue
	}
	card.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec(`
		UPDATE cards SET title = ?, description = ?, due_date = ?,
			completed = ?, overdue = ?, updated_at = ?
		WHERE id = ?`,
		card.Title, nullString(card.Description), nullTime(card.DueDate),
		card.Completed, card.Overdue, card.UpdatedAt, card.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}
	return card, nil
}

func collectCards(rows *sql.Rows) ([]Card, error) {
	defer rows.Close()

	cards := []Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
