package database

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ListMatcher classifies a list's role by keyword containment in its title.
// Matchers are a compatibility shim for boards that predate the per-card
// completed/overdue flags; swapping one out on the Store replaces the
// vocabulary without touching the aggregation queries.
type ListMatcher struct {
	Role     string
	Keywords []string
}

func (m ListMatcher) Match(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range m.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// FirstMatch returns the first list whose title matches, or nil.
func (m ListMatcher) FirstMatch(lists []List) *List {
	for i := range lists {
		if m.Match(lists[i].Title) {
			return &lists[i]
		}
	}
	return nil
}

var DoneListMatcher = ListMatcher{
	Role: "done",
	Keywords: []string{
		"hecho", "done", "completado", "finalizado", "terminado", "completo",
		"completadas", "completados", "realizado", "realizada", "finalizadas",
	},
}

var OverdueListMatcher = ListMatcher{
	Role: "overdue",
	Keywords: []string{
		"vencido", "vencida", "vencidas", "vencidos", "overdue", "atrasado", "atrasada",
	},
}

const noResponsible = "Sin responsable"

// TaskRow is one card in a summary bucket.
type TaskRow struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Responsible string     `json:"responsible"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	UpdatedAt   *time.Time `json:"updated_at"`
	CreatedAt   *time.Time `json:"created_at"`
	Completed   bool       `json:"completed"`
	Overdue     bool       `json:"overdue"`
}

type SummaryMeta struct {
	WeekStart          string   `json:"week_start"`
	WeekEnd            string   `json:"week_end"`
	PreviousWeekStart  string   `json:"previous_week_start"`
	PreviousWeekEnd    string   `json:"previous_week_end"`
	CreatedPrevCount   int      `json:"created_prev_count"`
	CompletedPrevCount int      `json:"completed_prev_count"`
	OverduePrevCount   int      `json:"overdue_prev_count"`
	DoneListName       string   `json:"done_list_name"`
	DoneListID         *int64   `json:"done_list_id"`
	OverdueListName    string   `json:"overdue_list_name"`
	OverdueListID      *int64   `json:"overdue_list_id"`
	TotalLists         int      `json:"total_lists"`
	ListNames          []string `json:"list_names"`
}

type Summary struct {
	Created   []TaskRow   `json:"created"`
	Completed []TaskRow   `json:"completed"`
	Overdue   []TaskRow   `json:"overdue"`
	Meta      SummaryMeta `json:"meta"`
}

const taskRowColumns = `c.id, c.title, u.email, l.title, c.due_date,
	c.updated_at, c.created_at, c.completed, c.overdue`

const taskRowJoins = `
	FROM cards c
	JOIN lists l ON l.id = c.list_id
	JOIN boards b ON b.id = l.board_id
	LEFT JOIN users u ON u.id = c.user_id`

func (s *Store) taskRows(query string, args ...any) ([]TaskRow, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query report rows: %w", err)
	}
	defer rows.Close()

	result := []TaskRow{}
	for rows.Next() {
		var (
			tr          TaskRow
			responsible sql.NullString
			dueDate     sql.NullTime
			updatedAt   sql.NullTime
			createdAt   sql.NullTime
		)
		if err := rows.Scan(&tr.ID, &tr.Title, &responsible, &tr.Status,
			&dueDate, &updatedAt, &createdAt, &tr.Completed, &tr.Overdue); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}

		tr.Responsible = noResponsible
		if responsible.Valid && responsible.String != "" {
			tr.Responsible = responsible.String
		}
		if dueDate.Valid {
			t := dueDate.Time
			tr.DueDate = &t
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			tr.UpdatedAt = &t
		}
		if createdAt.Valid {
			t := createdAt.Time
			tr.CreatedAt = &t
		}
		result = append(result, tr)
	}
	return result, rows.Err()
}

// mergeRows appends sources in order, keeping the first row seen per card id.
func mergeRows(sources ...[]TaskRow) []TaskRow {
	seen := make(map[int64]bool)
	merged := []TaskRow{}
	for _, rows := range sources {
		for _, row := range rows {
			if seen[row.ID] {
				continue
			}
			seen[row.ID] = true
			merged = append(merged, row)
		}
	}
	return merged
}

// Summary builds the weekly report for a board: cards created during the
// week, plus the completed and overdue buckets.
//
// The completed and overdue buckets reflect current state, not activity
// within the week: the field-based strategies carry no week filter. That
// mirrors the original reporting behavior and is intentional, surprising as
// it reads next to the week parameter.
func (s *Store) Summary(boardID, userID int64, week string) (*Summary, error) {
	if _, err := s.BoardByIDAndUser(boardID, userID); err != nil {
		return nil, err
	}

	weekStart, weekEnd, err := ParseWeek(week)
	if err != nil {
		return nil, err
	}
	startDT := weekStart
	endDT := endOfDay(weekEnd)

	lists, err := s.ListsByBoard(boardID, userID)
	if err != nil {
		return nil, err
	}
	doneList := s.DoneMatcher.FirstMatch(lists)
	overdueList := s.OverdueMatcher.FirstMatch(lists)

	// Created: cards whose created_at falls inside the week.
	created, err := s.taskRows(`
		SELECT `+taskRowColumns+taskRowJoins+`
		WHERE b.id = ? AND b.user_id = ? AND c.created_at BETWEEN ? AND ?
		ORDER BY c.created_at DESC`, boardID, userID, startDT, endDT)
	if err != nil {
		return nil, err
	}

	// Completed: the completed flag, then cards sitting in the detected
	// done list, deduplicated with the flag results first.
	completedByField, err := s.taskRows(`
		SELECT `+taskRowColumns+taskRowJoins+`
		WHERE b.id = ? AND b.user_id = ? AND c.completed = 1
		ORDER BY c.updated_at DESC`, boardID, userID)
	if err != nil {
		return nil, err
	}

	completedByList := []TaskRow{}
	if doneList != nil {
		completedByList, err = s.taskRows(`
			SELECT `+taskRowColumns+taskRowJoins+`
			WHERE b.id = ? AND b.user_id = ? AND l.id = ?
			ORDER BY c.updated_at DESC`, boardID, userID, doneList.ID)
		if err != nil {
			return nil, err
		}
	}
	completed := mergeRows(completedByField, completedByList)

	// Overdue: flag, then detected overdue list, then past due date. The
	// date strategy skips cards already parked in the detected lists.
	overdueByField, err := s.taskRows(`
		SELECT `+taskRowColumns+taskRowJoins+`
		WHERE b.id = ? AND b.user_id = ? AND c.overdue = 1
		ORDER BY c.due_date DESC`, boardID, userID)
	if err != nil {
		return nil, err
	}

	overdueByList := []TaskRow{}
	if overdueList != nil {
		overdueByList, err = s.taskRows(`
			SELECT `+taskRowColumns+taskRowJoins+`
			WHERE b.id = ? AND b.user_id = ? AND l.id = ?
			ORDER BY c.due_date DESC`, boardID, userID, overdueList.ID)
		if err != nil {
			return nil, err
		}
	}

	dateQuery := `
		SELECT ` + taskRowColumns + taskRowJoins + `
		WHERE b.id = ? AND b.user_id = ?
		  AND c.due_date IS NOT NULL AND c.due_date < ?`
	dateArgs := []any{boardID, userID, time.Now().UTC()}
	if doneList != nil {
		dateQuery += " AND l.id != ?"
		dateArgs = append(dateArgs, doneList.ID)
	}
	if overdueList != nil {
		dateQuery += " AND l.id != ?"
		dateArgs = append(dateArgs, overdueList.ID)
	}
	dateQuery += " ORDER BY c.due_date DESC"

	overdueByDate, err := s.taskRows(dateQuery, dateArgs...)
	if err != nil {
		return nil, err
	}
	overdue := mergeRows(overdueByField, overdueByList, overdueByDate)

	// Previous-week counts for the comparison deltas.
	prevStart := weekStart.AddDate(0, 0, -7)
	prevEnd := weekEnd.AddDate(0, 0, -7)
	prevStartDT := prevStart
	prevEndDT := endOfDay(prevEnd)

	createdPrev, err := s.countCards(`
		AND c.created_at BETWEEN ? AND ?`, boardID, userID, prevStartDT, prevEndDT)
	if err != nil {
		return nil, err
	}
	completedPrev, err := s.countCards(`
		AND c.completed = 1 AND c.updated_at BETWEEN ? AND ?`, boardID, userID, prevStartDT, prevEndDT)
	if err != nil {
		return nil, err
	}
	overduePrev, err := s.countCards(`
		AND c.overdue = 1 AND c.updated_at BETWEEN ? AND ?`, boardID, userID, prevStartDT, prevEndDT)
	if err != nil {
		return nil, err
	}

	meta := SummaryMeta{
		WeekStart:          weekStart.Format("2006-01-02"),
		WeekEnd:            weekEnd.Format("2006-01-02"),
		PreviousWeekStart:  prevStart.Format("2006-01-02"),
		PreviousWeekEnd:    prevEnd.Format("2006-01-02"),
		CreatedPrevCount:   createdPrev,
		CompletedPrevCount: completedPrev,
		OverduePrevCount:   overduePrev,
		DoneListName:       "No encontrada",
		OverdueListName:    "No encontrada",
		TotalLists:         len(lists),
		ListNames:          make([]string, 0, len(lists)),
	}
	for _, l := range lists {
		meta.ListNames = append(meta.ListNames, l.Title)
	}
	if doneList != nil {
		meta.DoneListName = doneList.Title
		meta.DoneListID = &doneList.ID
	}
	if overdueList != nil {
		meta.OverdueListName = overdueList.Title
		meta.OverdueListID = &overdueList.ID
	}

	return &Summary{Created: created, Completed: completed, Overdue: overdue, Meta: meta}, nil
}

func (s *Store) countCards(condition string, boardID, userID int64, args ...any) (int, error) {
	query := `
		SELECT COUNT(c.id)
		FROM cards c
		JOIN lists l ON l.id = c.list_id
		JOIN boards b ON b.id = l.board_id
		WHERE b.id = ? AND b.user_id = ? ` + condition
	queryArgs := append([]any{boardID, userID}, args...)

	var count int
	if err := s.db.QueryRow(query, queryArgs...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

// UserHours is one row of the hours-by-user report.
type UserHours struct {
	UserID     int64   `json:"user_id"`
	UserEmail  string  `json:"user_email"`
	UserName   string  `json:"user_name"`
	TotalHours float64 `json:"total_hours"`
	TasksCount int     `json:"tasks_count"`
}

// HoursByUser sums timesheet hours per user for the week, scoped to the
// board through the card -> list -> board join, heaviest first. When the
// week has no entries at all it falls back to listing every user attached
// to a card on the board with zero hours, so the report is never empty for
// an active board.
func (s *Store) HoursByUser(boardID, userID int64, week string) ([]UserHours, error) {
	if _, err := s.BoardByIDAndUser(boardID, userID); err != nil {
		return nil, err
	}

	weekStart, weekEnd, err := ParseWeek(week)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT t.user_id, u.email, COALESCE(SUM(t.hours), 0), COUNT(DISTINCT t.card_id)
		FROM timesheets t
		JOIN users u ON u.id = t.user_id
		JOIN cards c ON c.id = t.card_id
		JOIN lists l ON l.id = c.list_id
		JOIN boards b ON b.id = l.board_id
		WHERE b.id = ? AND b.user_id = ? AND t.date >= ? AND t.date <= ?
		GROUP BY t.user_id, u.email
		ORDER BY COALESCE(SUM(t.hours), 0) DESC`,
		boardID, userID, weekStart, endOfDay(weekEnd))
	if err != nil {
		return nil, fmt.Errorf("failed to query hours by user: %w", err)
	}
	defer rows.Close()

	result := []UserHours{}
	for rows.Next() {
		var uh UserHours
		if err := rows.Scan(&uh.UserID, &uh.UserEmail, &uh.TotalHours, &uh.TasksCount); err != nil {
			return nil, fmt.Errorf("failed to scan hours by user: %w", err)
		}
		uh.UserName = userNameFromEmail(uh.UserEmail)
		result = append(result, uh)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result) > 0 {
		return result, nil
	}

	// Zero-hour fallback. Note: board ownership was verified on entry; the
	// fallback query itself only scopes by board, matching the original's
	// asymmetry.
	fallback, err := s.db.Query(`
		SELECT DISTINCT u.id, u.email
		FROM users u
		JOIN cards c ON c.user_id = u.id
		JOIN lists l ON l.id = c.list_id
		WHERE l.board_id = ?`, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query board users: %w", err)
	}
	defer fallback.Close()

	for fallback.Next() {
		var uh UserHours
		if err := fallback.Scan(&uh.UserID, &uh.UserEmail); err != nil {
			return nil, fmt.Errorf("failed to scan board user: %w", err)
		}
		uh.UserName = userNameFromEmail(uh.UserEmail)
		result = append(result, uh)
	}
	return result, fallback.Err()
}

// CardHours is one row of the hours-by-card report.
type CardHours struct {
	CardID           int64   `json:"card_id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Status           string  `json:"status"`
	Responsible      string  `json:"responsible"`
	ResponsibleName  string  `json:"responsible_name"`
	TotalHours       float64 `json:"total_hours"`
	TimesheetEntries int     `json:"timesheet_entries"`
	AvgHoursPerEntry float64 `json:"avg_hours_per_entry"`
	Completed        bool    `json:"completed"`
	Overdue          bool    `json:"overdue"`
}

// HoursByCard sums the week's timesheet hours for every card on the board.
// Cards without entries still appear, with zero hours, via the left join.
func (s *Store) HoursByCard(boardID, userID int64, week string) ([]CardHours, error) {
	if _, err := s.BoardByIDAndUser(boardID, userID); err != nil {
		return nil, err
	}

	weekStart, weekEnd, err := ParseWeek(week)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT c.id, c.title, c.description, l.title, u.email,
			COALESCE(SUM(t.hours), 0), COUNT(t.id), c.completed, c.overdue
		FROM cards c
		JOIN lists l ON l.id = c.list_id
		JOIN boards b ON b.id = l.board_id
		LEFT JOIN timesheets t ON t.card_id = c.id AND t.date >= ? AND t.date <= ?
		LEFT JOIN users u ON u.id = c.user_id
		WHERE b.id = ? AND b.user_id = ?
		GROUP BY c.id, c.title, c.description, l.title, u.email, c.completed, c.overdue
		ORDER BY COALESCE(SUM(t.hours), 0) DESC`,
		weekStart, endOfDay(weekEnd), boardID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query hours by card: %w", err)
	}
	defer rows.Close()

	result := []CardHours{}
	for rows.Next() {
		var (
			ch          CardHours
			description sql.NullString
			email       sql.NullString
		)
		if err := rows.Scan(&ch.CardID, &ch.Title, &description, &ch.Status, &email,
			&ch.TotalHours, &ch.TimesheetEntries, &ch.Completed, &ch.Overdue); err != nil {
			return nil, fmt.Errorf("failed to scan hours by card: %w", err)
		}

		ch.Description = description.String
		if ch.Status == "" {
			ch.Status = "Sin estado"
		}
		ch.Responsible = noResponsible
		ch.ResponsibleName = noResponsible
		if email.Valid && email.String != "" {
			ch.Responsible = email.String
			ch.ResponsibleName = userNameFromEmail(email.String)
		}

		// Guarded average: cards with no entries report 0, not NaN.
		entries := ch.TimesheetEntries
		if entries == 0 {
			entries = 1
		}
		ch.AvgHoursPerEntry = ch.TotalHours / float64(entries)

		result = append(result, ch)
	}
	return result, rows.Err()
}

// WeeksAvailable lists the ISO weeks with any board activity.
type WeeksAvailable struct {
	BoardID        int64    `json:"board_id"`
	BoardTitle     string   `json:"board_title"`
	AvailableWeeks []string `json:"available_weeks"`
	TotalWeeks     int      `json:"total_weeks"`
}

// AvailableWeeks derives the reportable weeks from card creation dates,
// card update dates and timesheet dates, newest week first.
func (s *Store) AvailableWeeks(boardID, userID int64) (*WeeksAvailable, error) {
	board, err := s.BoardByIDAndUser(boardID, userID)
	if err != nil {
		return nil, err
	}

	weeks := make(map[string]bool)
	collect := func(query string) error {
		rows, err := s.db.Query(query, boardID)
		if err != nil {
			return fmt.Errorf("failed to query activity dates: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var t sql.NullTime
			if err := rows.Scan(&t); err != nil {
				return fmt.Errorf("failed to scan activity date: %w", err)
			}
			if t.Valid {
				weeks[FormatWeek(t.Time)] = true
			}
		}
		return rows.Err()
	}

	queries := []string{
		`SELECT DISTINCT c.created_at FROM cards c
			JOIN lists l ON l.id = c.list_id WHERE l.board_id = ?`,
		`SELECT DISTINCT c.updated_at FROM cards c
			JOIN lists l ON l.id = c.list_id WHERE l.board_id = ? AND c.updated_at IS NOT NULL`,
		`SELECT DISTINCT t.date FROM timesheets t
			JOIN cards c ON c.id = t.card_id
			JOIN lists l ON l.id = c.list_id WHERE l.board_id = ? AND t.date IS NOT NULL`,
	}
	for _, q := range queries {
		if err := collect(q); err != nil {
			return nil, err
		}
	}

	available := make([]string, 0, len(weeks))
	for w := range weeks {
		available = append(available, w)
	}
	// Zero-padded week numbers make the lexicographic order the
	// chronological one.
	sort.Sort(sort.Reverse(sort.StringSlice(available)))

	return &WeeksAvailable{
		BoardID:        board.ID,
		BoardTitle:     board.Title,
		AvailableWeeks: available,
		TotalWeeks:     len(available),
	}, nil
}

func userNameFromEmail(email string) string {
	if email == "" {
		return "Usuario"
	}
	name, _, _ := strings.Cut(email, "@")
	return name
}
