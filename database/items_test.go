package database

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelValidation(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "ana@example.com")
	board := seedBoard(t, s, user.ID, "Proyecto")
	list := seedList(t, s, user.ID, board.ID, "Pendiente")
	card := seedCard(t, s, user.ID, list.ID, "tarea")

	label, err := s.CreateLabel(card.ID, user.ID, LabelCreate{Name: "urgente", Color: "#ff0000"})
	require.NoError(t, err)
	assert.Equal(t, card.ID, label.CardID)

	_, err = s.CreateLabel(card.ID, user.ID, LabelCreate{Name: strings.Repeat("x", 31), Color: "red"})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = s.CreateLabel(card.ID, user.ID, LabelCreate{Name: "ok", Color: strings.Repeat("x", 21)})
	assert.ErrorIs(t, err, ErrInvalid)

	labels, err := s.LabelsForCard(card.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "urgente", labels[0].Name)
}

func TestLabelOwnership(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "ana@example.com")
	other := seedUser(t, s, "eva@example.com")
	board := seedBoard(t, s, owner.ID, "Proyecto")
	list := seedList(t, s, owner.ID, board.ID, "Pendiente")
	card := seedCard(t, s, owner.ID, list.ID, "tarea")

	label, err := s.CreateLabel(card.ID, owner.ID, LabelCreate{Name: "urgente", Color: "red"})
	require.NoError(t, err)

	_, err = s.CreateLabel(card.ID, other.ID, LabelCreate{Name: "ajena", Color: "blue"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.DeleteLabel(label.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteLabel(label.ID, owner.ID))
}

func TestSubtaskLifecycle(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "ana@example.com")
	board := seedBoard(t, s, user.ID, "Proyecto")
	list := seedList(t, s, user.ID, board.ID, "Pendiente")
	card := seedCard(t, s, user.ID, list.ID, "tarea")

	first, err := s.CreateSubtask(card.ID, user.ID, SubtaskCreate{Title: "paso uno"})
	require.NoError(t, err)
	_, err = s.CreateSubtask(card.ID, user.ID, SubtaskCreate{Title: "paso dos"})
	require.NoError(t, err)

	_, err = s.CreateSubtask(card.ID, user.ID, SubtaskCreate{Title: strings.Repeat("x", 101)})
	assert.ErrorIs(t, err, ErrInvalid)

	done := true
	updated, err := s.UpdateSubtask(first.ID, user.ID, SubtaskUpdate{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "paso uno", updated.Title)

	subtasks, err := s.SubtasksForCard(card.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, subtasks, 2)
	assert.Equal(t, []string{"paso uno", "paso dos"}, []string{subtasks[0].Title, subtasks[1].Title})

	require.NoError(t, s.DeleteSubtask(first.ID, user.ID))
	subtasks, err = s.SubtasksForCard(card.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, subtasks, 1)
}

func TestTimesheetCardMustExist(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "ana@example.com")

	missing := int64(999)
	_, err := s.CreateTimesheet(user.ID, TimesheetCreate{
		Description: "trabajo",
		Hours:       1,
		Date:        time.Now().UTC(),
		CardID:      &missing,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// Entries without a card are allowed.
	entry, err := s.CreateTimesheet(user.ID, TimesheetCreate{
		Description: "reunion",
		Hours:       0.5,
		Date:        time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Nil(t, entry.CardID)
}

func TestDeleteTimesheetOnlyOwn(t *testing.T) {
	s := newTestStore(t)
	owner := seedUser(t, s, "ana@example.com")
	other := seedUser(t, s, "eva@example.com")

	entry, err := s.CreateTimesheet(owner.ID, TimesheetCreate{
		Description: "trabajo",
		Hours:       2,
		Date:        time.Now().UTC(),
	})
	require.NoError(t, err)

	err = s.DeleteTimesheet(entry.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteTimesheet(entry.ID, owner.ID))

	entries, err := s.TimesheetsForUser(owner.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteListCascadesToCards(t *testing.T) {
	s := newTestStore(t)
	user := seedUser(t, s, "ana@example.com")
	board := seedBoard(t, s, user.ID, "Proyecto")
	list := seedList(t, s, user.ID, board.ID, "Pendiente")
	card := seedCard(t, s, user.ID, list.ID, "tarea")

	_, err := s.CreateSubtask(card.ID, user.ID, SubtaskCreate{Title: "paso"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteList(list.ID, user.ID))

	_, err = s.CardByIDAndUser(card.ID, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
