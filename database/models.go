package database

import "time"

type User struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"`
	IsActive       bool   `json:"is_active"`
}

type Board struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	UserID int64  `json:"user_id"`
}

type List struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	BoardID int64  `json:"board_id"`
}

// Card carries a per-list position in Order. The set of Order values for the
// cards of one list is always {1..N}; only CreateCard, DeleteCard and
// MoveCard are allowed to touch it.
type Card struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Order       int        `json:"order"`
	ListID      int64      `json:"list_id"`
	UserID      int64      `json:"user_id"`
	Completed   bool       `json:"completed"`
	Overdue     bool       `json:"overdue"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Label struct {
	ID     int64  `json:"id"`
	CardID int64  `json:"card_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

type Subtask struct {
	ID        int64  `json:"id"`
	CardID    int64  `json:"card_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Timesheet struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Hours       float64   `json:"hours"`
	Date        time.Time `json:"date"`
	CardID      *int64    `json:"card_id"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Request records decoded straight from JSON bodies.

type BoardCreate struct {
	Title string `json:"title"`
}

type ListCreate struct {
	Title   string `json:"title"`
	BoardID int64  `json:"board_id"`
}

// ListUpdate is a structured partial update: only recognized fields, each
// optional. Unknown JSON keys are rejected at decode time.
type ListUpdate struct {
	Title *string `json:"title"`
}

type CardCreate struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	ListID      int64      `json:"list_id"`
}

// CardUpdate deliberately has no order or list fields: relocation goes
// through MoveCard so the per-list ordering stays dense.
type CardUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Completed   *bool      `json:"completed"`
	Overdue     *bool      `json:"overdue"`
}

type CardMove struct {
	ListID   int64 `json:"list_id"`
	NewOrder int   `json:"new_order"`
}

type LabelCreate struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type SubtaskCreate struct {
	Title string `json:"title"`
}

type SubtaskUpdate struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

type TimesheetCreate struct {
	Description string    `json:"description"`
	Hours       float64   `json:"hours"`
	Date        time.Time `json:"date"`
	CardID      *int64    `json:"card_id"`
}
