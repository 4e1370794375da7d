package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlmarquez1986/Neocare/database"
	"github.com/jlmarquez1986/Neocare/services"
)

var testDBCounter atomic.Int64

type testEnv struct {
	store *database.Store
	hub   *services.Hub
	auth  *services.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	path := fmt.Sprintf("file:handlersdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := database.InitDB(path)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	hub := services.NewHub()
	go hub.Run()

	return &testEnv{
		store: database.NewStore(db),
		hub:   hub,
		auth:  services.NewAuthService(),
	}
}

func (e *testEnv) seedUser(t *testing.T, email string) *database.User {
	t.Helper()
	user, err := e.store.CreateUser(email, "hashed")
	require.NoError(t, err)
	return user
}

func (e *testEnv) seedBoardListCard(t *testing.T, userID int64) (*database.Board, *database.List, *database.Card) {
	t.Helper()
	board, err := e.store.CreateBoard(userID, database.BoardCreate{Title: "Proyecto"})
	require.NoError(t, err)
	list, err := e.store.CreateList(userID, database.ListCreate{Title: "Pendiente", BoardID: board.ID})
	require.NoError(t, err)
	card, err := e.store.CreateCard(userID, database.CardCreate{Title: "tarea", ListID: list.ID})
	require.NoError(t, err)
	return board, list, card
}

// authedRequest builds a request that already passed the auth middleware.
func authedRequest(method, target, body string, userID int64, vars map[string]string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(r.Context(), userIDContextKey, userID)
	r = r.WithContext(ctx)
	if vars != nil {
		r = mux.SetURLVars(r, vars)
	}
	return r
}

func TestRegisterLoginFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	env := newTestEnv(t)
	h := NewAuthHandler(env.auth, env.store)

	w := httptest.NewRecorder()
	h.Register(w, httptest.NewRequest("POST", "/api/auth/register",
		strings.NewReader(`{"email":"ana@example.com","password":"hunter2"}`)))
	require.Equal(t, http.StatusCreated, w.Code)

	// Same email again is rejected.
	w = httptest.NewRecorder()
	h.Register(w, httptest.NewRequest("POST", "/api/auth/register",
		strings.NewReader(`{"email":"ana@example.com","password":"other"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.Login(w, httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"ana@example.com","password":"hunter2"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "bearer", resp["token_type"])
	assert.NotEmpty(t, resp["access_token"])

	userID, err := env.auth.VerifyToken(resp["access_token"])
	require.NoError(t, err)
	assert.Greater(t, userID, int64(0))

	w = httptest.NewRecorder()
	h.Login(w, httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"ana@example.com","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.auth, env.store)

	for _, body := range []string{
		`{"email":"","password":"x"}`,
		`{"email":"not-an-email","password":"x"}`,
		`{"email":"ana@example.com","password":""}`,
	} {
		w := httptest.NewRecorder()
		h.Register(w, httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	auth := services.NewAuthService()
	mw := NewAuthMiddleware(auth)

	var gotUserID int64
	probe := mw.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := currentUserID(r)
		require.True(t, ok)
		gotUserID = id
	}))

	w := httptest.NewRecorder()
	probe.ServeHTTP(w, httptest.NewRequest("GET", "/api/boards", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := httptest.NewRequest("GET", "/api/boards", nil)
	r.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	probe.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r = httptest.NewRequest("GET", "/api/boards", nil)
	r.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	probe.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := auth.CreateToken(42)
	require.NoError(t, err)
	r = httptest.NewRequest("GET", "/api/boards", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	probe.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), gotUserID)
}

func TestMoveCardEndpoint(t *testing.T) {
	env := newTestEnv(t)
	h := NewCardHandler(env.store, env.hub)

	user := env.seedUser(t, "ana@example.com")
	board, _, card := env.seedBoardListCard(t, user.ID)
	target, err := env.store.CreateList(user.ID, database.ListCreate{Title: "Hecho", BoardID: board.ID})
	require.NoError(t, err)

	body := fmt.Sprintf(`{"list_id":%d,"new_order":1}`, target.ID)
	w := httptest.NewRecorder()
	h.Move(w, authedRequest("PATCH", "/api/cards/1/move", body, user.ID,
		map[string]string{"id": fmt.Sprint(card.ID)}))
	require.Equal(t, http.StatusOK, w.Code)

	var moved database.Card
	require.NoError(t, json.NewDecoder(w.Body).Decode(&moved))
	assert.Equal(t, target.ID, moved.ListID)
	assert.Equal(t, 1, moved.Order)
}

func TestMoveCardOfAnotherUserIs404(t *testing.T) {
	env := newTestEnv(t)
	h := NewCardHandler(env.store, env.hub)

	owner := env.seedUser(t, "ana@example.com")
	intruder := env.seedUser(t, "eva@example.com")
	_, list, card := env.seedBoardListCard(t, owner.ID)

	body := fmt.Sprintf(`{"list_id":%d,"new_order":1}`, list.ID)
	w := httptest.NewRecorder()
	h.Move(w, authedRequest("PATCH", "/api/cards/1/move", body, intruder.ID,
		map[string]string{"id": fmt.Sprint(card.ID)}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCardRequiresTitle(t *testing.T) {
	env := newTestEnv(t)
	h := NewCardHandler(env.store, env.hub)

	user := env.seedUser(t, "ana@example.com")
	_, list, _ := env.seedBoardListCard(t, user.ID)

	body := fmt.Sprintf(`{"title":"","list_id":%d}`, list.ID)
	w := httptest.NewRecorder()
	h.Create(w, authedRequest("POST", "/api/cards", body, user.ID, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCardIgnoresOrderField(t *testing.T) {
	env := newTestEnv(t)
	h := NewCardHandler(env.store, env.hub)

	user := env.seedUser(t, "ana@example.com")
	_, list, _ := env.seedBoardListCard(t, user.ID)
	second, err := env.store.CreateCard(user.ID, database.CardCreate{Title: "segunda", ListID: list.ID})
	require.NoError(t, err)

	// A stray order key in the payload has no matching field and changes
	// nothing; position updates only happen through the move endpoint.
	w := httptest.NewRecorder()
	h.Update(w, authedRequest("PUT", "/api/cards/2", `{"title":"renombrada","order":1}`, user.ID,
		map[string]string{"id": fmt.Sprint(second.ID)}))
	require.Equal(t, http.StatusOK, w.Code)

	var updated database.Card
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, "renombrada", updated.Title)
	assert.Equal(t, 2, updated.Order)
}

func TestListUpdateRejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t)
	h := NewListHandler(env.store, env.hub)

	user := env.seedUser(t, "ana@example.com")
	_, list, _ := env.seedBoardListCard(t, user.ID)

	w := httptest.NewRecorder()
	h.Update(w, authedRequest("PUT", "/api/lists/1", `{"title":"nuevo","position":3}`, user.ID,
		map[string]string{"id": fmt.Sprint(list.ID)}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.Update(w, authedRequest("PUT", "/api/lists/1", `{"title":"nuevo"}`, user.ID,
		map[string]string{"id": fmt.Sprint(list.ID)}))
	require.Equal(t, http.StatusOK, w.Code)

	var updated database.List
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, "nuevo", updated.Title)
}

func TestSummaryEndpointWeekValidation(t *testing.T) {
	env := newTestEnv(t)
	h := NewReportHandler(env.store)

	user := env.seedUser(t, "ana@example.com")
	board, _, _ := env.seedBoardListCard(t, user.ID)

	w := httptest.NewRecorder()
	h.Summary(w, authedRequest("GET", "/api/report/1/summary?week=2025-01", "", user.ID,
		map[string]string{"boardID": fmt.Sprint(board.ID)}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.Summary(w, authedRequest("GET", "/api/report/1/summary?week=2025-W10", "", user.ID,
		map[string]string{"boardID": fmt.Sprint(board.ID)}))
	require.Equal(t, http.StatusOK, w.Code)

	var summary database.Summary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, "2025-03-03", summary.Meta.WeekStart)
	assert.Equal(t, "2025-03-09", summary.Meta.WeekEnd)
}

func TestSummaryEndpointUnknownBoardIs404(t *testing.T) {
	env := newTestEnv(t)
	h := NewReportHandler(env.store)

	user := env.seedUser(t, "ana@example.com")

	w := httptest.NewRecorder()
	h.Summary(w, authedRequest("GET", "/api/report/99/summary?week=2025-W10", "", user.ID,
		map[string]string{"boardID": "99"}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteBoardCascades(t *testing.T) {
	env := newTestEnv(t)
	boards := NewBoardHandler(env.store)

	user := env.seedUser(t, "ana@example.com")
	board, _, card := env.seedBoardListCard(t, user.ID)

	w := httptest.NewRecorder()
	boards.Delete(w, authedRequest("DELETE", "/api/boards/1", "", user.ID,
		map[string]string{"id": fmt.Sprint(board.ID)}))
	require.Equal(t, http.StatusNoContent, w.Code)

	_, err := env.store.CardByIDAndUser(card.ID, user.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
