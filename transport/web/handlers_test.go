package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/view"
)

func newTestServer(t *testing.T, boardSize int) (usecase.GameUseCase, http.Handler) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gameUseCase := usecase.NewGameUseCase(logger, repository.NewSessionRepository(), boardSize)

	return gameUseCase, New(logger, gameUseCase).Handler()
}

func sessionFrom(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == sessionCookie {
			return cookie
		}
	}

	t.Fatalf("expected %s cookie to be set", sessionCookie)
	return nil
}

func openPage(t *testing.T, handler http.Handler) *http.Cookie {
	t.Helper()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	return sessionFrom(t, rr)
}

func post(handler http.Handler, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(htmxHeader, "true")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}

func currentBoard(t *testing.T, gameUseCase usecase.GameUseCase, cookie *http.Cookie) view.Board {
	t.Helper()

	_, board, err := gameUseCase.OpenSession(context.Background(), cookie.Value)
	require.NoError(t, err)

	return board
}

func TestIndex(t *testing.T) {
	// Given: a fresh server with a 4x4 board
	_, handler := newTestServer(t, 4)

	// When: the page is requested without a cookie
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	// Then: a session cookie is issued and the empty board is drawn
	require.Equal(t, http.StatusOK, rr.Code)
	cookie := sessionFrom(t, rr)
	assert.NotEmpty(t, cookie.Value)

	body := rr.Body.String()
	assert.Contains(t, body, `id="game"`)
	assert.Contains(t, body, "Next player: X")
	assert.Contains(t, body, "Go to game start")
	assert.Equal(t, 16, strings.Count(body, `class="square"`))
}

func TestIndex_KeepsExistingSession(t *testing.T) {
	// Given: a session with one move
	gameUseCase, handler := newTestServer(t, 3)
	cookie := openPage(t, handler)
	_, err := gameUseCase.MakeMove(context.Background(), cookie.Value, 0, 0)
	require.NoError(t, err)

	// When: the page is requested with the cookie
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	// Then: no new cookie is set and the move is shown
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Result().Cookies())
	assert.Contains(t, rr.Body.String(), "Go to move #1")
	assert.Contains(t, rr.Body.String(), "Next player: O")
}

func TestPing(t *testing.T) {
	_, handler := newTestServer(t, 3)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}

func TestPlay(t *testing.T) {
	t.Run("Places a mark and returns the fragment", func(t *testing.T) {
		// Given: an open session
		gameUseCase, handler := newTestServer(t, 3)
		cookie := openPage(t, handler)

		// When: X plays the center
		rr := post(handler, "/play", url.Values{"r": {"1"}, "c": {"1"}}, cookie)

		// Then: the fragment shows the new state
		require.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.NotContains(t, body, "<html>")
		assert.Contains(t, body, "Next player: O")
		assert.Contains(t, body, "Go to move #1")

		board := currentBoard(t, gameUseCase, cookie)
		assert.Equal(t, "X", board.Rows[1][1].Mark)
	})

	t.Run("Ignores a move on an occupied cell", func(t *testing.T) {
		// Given: X holds the center
		gameUseCase, handler := newTestServer(t, 3)
		cookie := openPage(t, handler)
		require.Equal(t, http.StatusOK, post(handler, "/play", url.Values{"r": {"1"}, "c": {"1"}}, cookie).Code)

		// When: O plays the center
		rr := post(handler, "/play", url.Values{"r": {"1"}, "c": {"1"}}, cookie)

		// Then: 200 with the unchanged board
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Next player: O")
		assert.NotContains(t, rr.Body.String(), "Go to move #2")
		assert.Len(t, currentBoard(t, gameUseCase, cookie).Moves, 2)
	})

	t.Run("Treats malformed coordinates as out of bounds", func(t *testing.T) {
		// Given: an open session
		gameUseCase, handler := newTestServer(t, 3)
		cookie := openPage(t, handler)

		// When: the coordinates are not numbers
		rr := post(handler, "/play", url.Values{"r": {"x"}, "c": {""}}, cookie)

		// Then: nothing changes
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Next player: X")
		assert.Len(t, currentBoard(t, gameUseCase, cookie).Moves, 1)
	})

	t.Run("Creates a session for a request without cookie", func(t *testing.T) {
		_, handler := newTestServer(t, 3)

		rr := post(handler, "/play", url.Values{"r": {"0"}, "c": {"0"}}, nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, sessionFrom(t, rr).Value)
		assert.Contains(t, rr.Body.String(), "Next player: O")
	})

	t.Run("Redirects plain form posts", func(t *testing.T) {
		// Given: a request without the htmx header
		gameUseCase, handler := newTestServer(t, 3)
		cookie := openPage(t, handler)

		req := httptest.NewRequest(http.MethodPost, "/play", strings.NewReader("r=0&c=0"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()

		// When: it is served
		handler.ServeHTTP(rr, req)

		// Then: the move is applied and the browser is sent back to the page
		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/", rr.Header().Get("Location"))
		assert.Equal(t, "X", currentBoard(t, gameUseCase, cookie).Rows[0][0].Mark)
	})
}

func TestJump(t *testing.T) {
	// Given: a session with two moves
	gameUseCase, handler := newTestServer(t, 3)
	cookie := openPage(t, handler)
	post(handler, "/play", url.Values{"r": {"0"}, "c": {"0"}}, cookie)
	post(handler, "/play", url.Values{"r": {"1"}, "c": {"1"}}, cookie)

	// When: jumping to the game start
	rr := post(handler, "/jump", url.Values{"move": {"0"}}, cookie)

	// Then: the empty board is shown and the moves are kept
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Next player: X")
	assert.Contains(t, rr.Body.String(), "Go to move #2")

	board := currentBoard(t, gameUseCase, cookie)
	assert.Equal(t, 0, board.Cursor)
	assert.True(t, board.Rows[0][0].Empty)

	// When: jumping out of range
	rr = post(handler, "/jump", url.Values{"move": {"9"}}, cookie)

	// Then: it is ignored
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, currentBoard(t, gameUseCase, cookie).Cursor)
}

func TestReset(t *testing.T) {
	// Given: a session with a move
	gameUseCase, handler := newTestServer(t, 3)
	cookie := openPage(t, handler)
	post(handler, "/play", url.Values{"r": {"2"}, "c": {"2"}}, cookie)

	// When: the game is reset
	rr := post(handler, "/reset", url.Values{}, cookie)

	// Then: the history is back to the empty board
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "Go to move #1")
	assert.Len(t, currentBoard(t, gameUseCase, cookie).Moves, 1)
}

func TestSessionsAreIsolated(t *testing.T) {
	// Given: two browsers
	gameUseCase, handler := newTestServer(t, 3)
	first := openPage(t, handler)
	second := openPage(t, handler)
	require.NotEqual(t, first.Value, second.Value)

	// When: only the first one plays
	post(handler, "/play", url.Values{"r": {"0"}, "c": {"0"}}, first)

	// Then: the second board is untouched
	assert.Equal(t, "X", currentBoard(t, gameUseCase, first).Rows[0][0].Mark)
	assert.True(t, currentBoard(t, gameUseCase, second).Rows[0][0].Empty)
}

// sweptGame expires every session right before the first move, like the
// idle sweeper running between opening the session and playing.
type sweptGame struct {
	usecase.GameUseCase
	sessionRepo repository.SessionRepository
	swept       bool
}

func (that *sweptGame) MakeMove(ctx context.Context, sessionID string, row, col int) (view.Board, error) {
	if !that.swept {
		that.swept = true
		if _, err := that.sessionRepo.DeleteIdle(ctx, time.Now().Add(time.Hour)); err != nil {
			return view.Board{}, err
		}
	}

	return that.GameUseCase.MakeMove(ctx, sessionID, row, col)
}

func TestPlay_SessionExpiredMidRequest(t *testing.T) {
	// Given: a session that is swept before the move lands
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessionRepo := repository.NewSessionRepository()
	gameUseCase := usecase.NewGameUseCase(logger, sessionRepo, 3)
	handler := New(logger, &sweptGame{GameUseCase: gameUseCase, sessionRepo: sessionRepo}).Handler()

	cookie := openPage(t, handler)

	// When: X plays the center
	rr := post(handler, "/play", url.Values{"r": {"1"}, "c": {"1"}}, cookie)

	// Then: a new session is issued and the move is applied to it
	require.Equal(t, http.StatusOK, rr.Code)
	renewed := sessionFrom(t, rr)
	assert.NotEqual(t, cookie.Value, renewed.Value)
	assert.Contains(t, rr.Body.String(), "Next player: O")
	assert.Equal(t, "X", currentBoard(t, gameUseCase, renewed).Rows[1][1].Mark)
}

type failingGame struct{}

var errStoreDown = errors.New("store down")

func (failingGame) OpenSession(context.Context, string) (string, view.Board, error) {
	return "", view.Board{}, errStoreDown
}

func (failingGame) NewGame(context.Context, string) (view.Board, error) {
	return view.Board{}, errStoreDown
}

func (failingGame) MakeMove(context.Context, string, int, int) (view.Board, error) {
	return view.Board{}, errStoreDown
}

func (failingGame) JumpTo(context.Context, string, int) (view.Board, error) {
	return view.Board{}, errStoreDown
}

func TestServerErrors(t *testing.T) {
	// Given: a game use case whose store is down
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := New(logger, failingGame{}).Handler()

	// When: the page is requested
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	// Then: 500 is returned
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = post(handler, "/play", url.Values{"r": {"0"}, "c": {"0"}}, nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestServer_StartStops(t *testing.T) {
	// Given: a server on a random free port
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := New(logger, failingGame{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(ctx, "0") }()

	// When: the context is cancelled
	cancel()

	// Then: Start returns without error
	require.NoError(t, <-errCh)
}
