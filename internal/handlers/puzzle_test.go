package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/untangle-server/internal/config"
	"github.com/vancomm/untangle-server/internal/middleware"
	"github.com/vancomm/untangle-server/internal/repository"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func testWebSocket() *config.WebSocket {
	return &config.WebSocket{
		WriteWait:      time.Second,
		PongWait:       time.Minute,
		PingPeriod:     50 * time.Second,
		MaxMessageSize: 64 * 1024,
	}
}

func newTestPuzzleHandler(store Store) *PuzzleHandler {
	return NewPuzzleHandler(discard, store, testWebSocket(), 20, rand.New(rand.NewPCG(1, 2)))
}

func puzzleRouter(h *PuzzleHandler) *http.ServeMux {
	router := http.NewServeMux()
	router.HandleFunc("GET /presets", h.Presets)
	router.HandleFunc("POST /puzzle", h.NewPuzzle)
	router.HandleFunc("GET /puzzle/{id}", h.Fetch)
	router.HandleFunc("POST /puzzle/{id}/move", h.Move)
	router.HandleFunc("POST /puzzle/{id}/solve", h.Solve)
	router.HandleFunc("GET /puzzle/{id}/connect", h.Connect)
	return router
}

func serve(t *testing.T, h http.Handler, r *http.Request) (*httptest.ResponseRecorder, []byte) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)
	return w, body
}

func newPuzzle(t *testing.T, h http.Handler, ctx context.Context, n int) PuzzleSessionDTO {
	t.Helper()
	r := httptest.NewRequestWithContext(ctx, http.MethodPost, "/puzzle?n="+strconv.Itoa(n), nil)
	w, body := serve(t, h, r)
	require.Equal(t, http.StatusOK, w.Code, string(body))
	var dto PuzzleSessionDTO
	require.NoError(t, json.Unmarshal(body, &dto))
	return dto
}

func move(t *testing.T, h http.Handler, ctx context.Context, id, m string) (int, []byte) {
	t.Helper()
	query := url.Values{"move": {m}}.Encode()
	r := httptest.NewRequestWithContext(ctx, http.MethodPost, "/puzzle/"+id+"/move?"+query, nil)
	w, body := serve(t, h, r)
	return w.Code, body
}

// fairMove is the recorded solution without its solve marker.
func fairMove(t *testing.T, store *memStore, id string) string {
	t.Helper()
	n, err := strconv.ParseInt(id, 10, 64)
	require.NoError(t, err)
	session, err := store.FetchPuzzleSession(context.Background(), n)
	require.NoError(t, err)
	require.NotNil(t, session.Solution)
	return strings.TrimPrefix(*session.Solution, "S;")
}

func TestPresets(t *testing.T) {
	router := puzzleRouter(newTestPuzzleHandler(newMemStore()))
	w, body := serve(t, router, httptest.NewRequest(http.MethodGet, "/presets", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var dto PresetsDTO
	require.NoError(t, json.Unmarshal(body, &dto))
	var ns []int
	for _, p := range dto.Presets {
		ns = append(ns, p.Params.N)
	}
	assert.Equal(t, []int{6, 10, 15, 20}, ns)
	assert.Equal(t, 10, dto.Default.N)
	assert.Equal(t, 20, dto.MaxPoints)
}

func TestNewPuzzle(t *testing.T) {
	store := newMemStore()
	router := puzzleRouter(newTestPuzzleHandler(store))

	dto := newPuzzle(t, router, context.Background(), 8)
	assert.Equal(t, "1", dto.PuzzleSessionId)
	assert.Equal(t, 8, dto.N)
	assert.Len(t, dto.Points, 8)
	assert.NotEmpty(t, dto.Edges)
	assert.Zero(t, dto.MoveCount)
	assert.False(t, dto.Completed)
	assert.False(t, dto.Cheated)
	assert.Nil(t, dto.EndedAt)
	for _, e := range dto.Edges {
		assert.Less(t, e[0], e[1])
		assert.Less(t, e[1], 8)
	}

	session, err := store.FetchPuzzleSession(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, session.PlayerId)
	assert.Equal(t, 8, session.PointCount)
	assert.NotEmpty(t, session.Description)
}

func TestNewPuzzleDefault(t *testing.T) {
	router := puzzleRouter(newTestPuzzleHandler(newMemStore()))
	w, body := serve(t, router, httptest.NewRequest(http.MethodPost, "/puzzle", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var dto PuzzleSessionDTO
	require.NoError(t, json.Unmarshal(body, &dto))
	assert.Equal(t, 10, dto.N)
}

func TestNewPuzzleInvalid(t *testing.T) {
	router := puzzleRouter(newTestPuzzleHandler(newMemStore()))
	for _, query := range []string{"n=3", "n=21", "n=abc", "n=-5"} {
		t.Run(query, func(t *testing.T) {
			w, body := serve(t, router, httptest.NewRequest(http.MethodPost, "/puzzle?"+query, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code, string(body))
			assert.Contains(t, string(body), `"error"`)
		})
	}
}

func TestFetch(t *testing.T) {
	router := puzzleRouter(newTestPuzzleHandler(newMemStore()))
	created := newPuzzle(t, router, context.Background(), 6)

	w, body := serve(t, router, httptest.NewRequest(http.MethodGet, "/puzzle/"+created.PuzzleSessionId, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var fetched PuzzleSessionDTO
	require.NoError(t, json.Unmarshal(body, &fetched))
	assert.Equal(t, created.Points, fetched.Points)
	assert.Equal(t, created.Edges, fetched.Edges)

	w, _ = serve(t, router, httptest.NewRequest(http.MethodGet, "/puzzle/99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = serve(t, router, httptest.NewRequest(http.MethodGet, "/puzzle/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMove(t *testing.T) {
	router := puzzleRouter(newTestPuzzleHandler(newMemStore()))
	created := newPuzzle(t, router, context.Background(), 6)

	status, body := move(t, router, context.Background(), created.PuzzleSessionId, "P0:1,2/1;P1:3,4/2")
	require.Equal(t, http.StatusOK, status, string(body))
	var dto PuzzleSessionDTO
	require.NoError(t, json.Unmarshal(body, &dto))
	assert.Equal(t, 1, dto.MoveCount)
	assert.Equal(t, PointDTO{1, 2, 1}, dto.Points[0])
	assert.Equal(t, PointDTO{3, 4, 2}, dto.Points[1])
	assert.Equal(t, created.Points[2:], dto.Points[2:])
}

func TestMoveRejected(t *testing.T) {
	router := puzzleRouter(newTestPuzzleHandler(newMemStore()))
	created := newPuzzle(t, router, context.Background(), 6)

	tests := []struct {
		name string
		move string
	}{
		{"empty", ""},
		{"garbage", "hello"},
		{"index out of range", "P6:1,1/1"},
		{"zero denominator", "P0:1,1/0"},
		{"second token bad", "P0:1,1/1;P1:2,2"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			status, body := move(t, router, context.Background(), created.PuzzleSessionId, test.move)
			assert.Equal(t, http.StatusBadRequest, status, string(body))
		})
	}

	w, body := serve(t, router, httptest.NewRequest(http.MethodGet, "/puzzle/"+created.PuzzleSessionId, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var dto PuzzleSessionDTO
	require.NoError(t, json.Unmarshal(body, &dto))
	assert.Zero(t, dto.MoveCount)
	assert.Equal(t, created.Points, dto.Points)

	status, _ := move(t, router, context.Background(), "42", "P0:1,1/1")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMoveConflict(t *testing.T) {
	store := newMemStore()
	created := newPuzzle(t, puzzleRouter(newTestPuzzleHandler(store)), context.Background(), 6)

	router := puzzleRouter(newTestPuzzleHandler(racingStore{store}))
	status, body := move(t, router, context.Background(), created.PuzzleSessionId, "P0:1,1/1")
	assert.Equal(t, http.StatusConflict, status, string(body))
}

func TestMoveCompletes(t *testing.T) {
	store := newMemStore()
	router := puzzleRouter(newTestPuzzleHandler(store))
	created := newPuzzle(t, router, context.Background(), 10)

	status, body := move(t, router, context.Background(), created.PuzzleSessionId, fairMove(t, store, created.PuzzleSessionId))
	require.Equal(t, http.StatusOK, status, string(body))
	var dto PuzzleSessionDTO
	require.NoError(t, json.Unmarshal(body, &dto))
	assert.True(t, dto.Completed)
	assert.False(t, dto.Cheated)
	assert.True(t, dto.JustSolved)
	assert.True(t, dto.JustCompleted)
	require.NotNil(t, dto.EndedAt)

	// completion is sticky and only flashes once
	status, body = move(t, router, context.Background(), created.PuzzleSessionId, "P0:1,1/1")
	require.Equal(t, http.StatusOK, status, string(body))
	var next PuzzleSessionDTO
	require.NoError(t, json.Unmarshal(body, &next))
	assert.True(t, next.Completed)
	assert.False(t, next.JustSolved)
	assert.False(t, next.JustCompleted)
	assert.Equal(t, *dto.EndedAt, *next.EndedAt)
}

func TestSolve(t *testing.T) {
	store := newMemStore()
	router := puzzleRouter(newTestPuzzleHandler(store))
	created := newPuzzle(t, router, context.Background(), 6)

	r := httptest.NewRequest(http.MethodPost, "/puzzle/"+created.PuzzleSessionId+"/solve", nil)
	w, body := serve(t, router, r)
	require.Equal(t, http.StatusOK, w.Code, string(body))
	var dto PuzzleSessionDTO
	require.NoError(t, json.Unmarshal(body, &dto))
	assert.True(t, dto.Completed)
	assert.True(t, dto.Cheated)
	assert.True(t, dto.JustSolved)
	assert.False(t, dto.JustCompleted)

	highscores, err := store.GetHighscores(context.Background(), repository.HighscoreFilter{})
	require.NoError(t, err)
	assert.Empty(t, highscores)
}

func TestSolveUnknown(t *testing.T) {
	store := newMemStore()
	router := puzzleRouter(newTestPuzzleHandler(store))
	created := newPuzzle(t, router, context.Background(), 6)

	store.mu.Lock()
	session := store.sessions[1]
	session.Solution = nil
	store.sessions[1] = session
	store.mu.Unlock()

	r := httptest.NewRequest(http.MethodPost, "/puzzle/"+created.PuzzleSessionId+"/solve", nil)
	w, _ := serve(t, router, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOwnedPuzzle(t *testing.T) {
	router := puzzleRouter(newTestPuzzleHandler(newMemStore()))
	owner := middleware.WithPlayerClaims(context.Background(), config.NewPlayerClaims(7, "alice"))
	other := middleware.WithPlayerClaims(context.Background(), config.NewPlayerClaims(8, "bob"))

	created := newPuzzle(t, router, owner, 6)

	status, _ := move(t, router, context.Background(), created.PuzzleSessionId, "P0:1,1/1")
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = move(t, router, other, created.PuzzleSessionId, "P0:1,1/1")
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = move(t, router, owner, created.PuzzleSessionId, "P0:1,1/1")
	assert.Equal(t, http.StatusOK, status)
}

func wsURL(server *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + path
}

func TestConnect(t *testing.T) {
	store := newMemStore()
	router := puzzleRouter(newTestPuzzleHandler(store))
	created := newPuzzle(t, router, context.Background(), 6)

	server := httptest.NewServer(router)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "/puzzle/"+created.PuzzleSessionId+"/connect"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("P0:1,1/1\nP1:2,2/1\n")))
	var dto PuzzleSessionDTO
	require.NoError(t, conn.ReadJSON(&dto))
	assert.Equal(t, 2, dto.MoveCount)
	assert.Equal(t, PointDTO{2, 2, 1}, dto.Points[1])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("P0:oops")))
	var failure map[string]string
	require.NoError(t, conn.ReadJSON(&failure))
	assert.Contains(t, failure, "error")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("")))
	require.NoError(t, conn.ReadJSON(&dto))
	assert.Equal(t, 2, dto.MoveCount)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("solve")))
	require.NoError(t, conn.ReadJSON(&dto))
	assert.Equal(t, 3, dto.MoveCount)
	assert.True(t, dto.Completed)
	assert.True(t, dto.Cheated)
}

func TestConnectRejected(t *testing.T) {
	router := puzzleRouter(newTestPuzzleHandler(newMemStore()))
	server := httptest.NewServer(router)
	defer server.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, "/puzzle/5/connect"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
