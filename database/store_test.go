package database

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

var testDBCounter atomic.Int64

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := InitDB(path)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	return NewStore(db)
}

func seedUser(t *testing.T, s *Store, email string) *User {
	t.Helper()
	user, err := s.CreateUser(email, "hashed-password")
	require.NoError(t, err)
	return user
}

func seedBoard(t *testing.T, s *Store, userID int64, title string) *Board {
	t.Helper()
	board, err := s.CreateBoard(userID, BoardCreate{Title: title})
	require.NoError(t, err)
	return board
}

func seedList(t *testing.T, s *Store, userID, boardID int64, title string) *List {
	t.Helper()
	list, err := s.CreateList(userID, ListCreate{Title: title, BoardID: boardID})
	require.NoError(t, err)
	return list
}

func seedCard(t *testing.T, s *Store, userID, listID int64, title string) *Card {
	t.Helper()
	card, err := s.CreateCard(userID, CardCreate{Title: title, ListID: listID})
	require.NoError(t, err)
	return card
}

// assertDense checks the density invariant: the order values of a list are
// exactly 1..N in board order.
func assertDense(t *testing.T, s *Store, userID, listID int64) []Card {
	t.Helper()

	cards, err := s.CardsByList(listID, userID)
	require.NoError(t, err)
	for i, c := range cards {
		require.Equal(t, i+1, c.Order, "card %q out of place", c.Title)
	}
	return cards
}
