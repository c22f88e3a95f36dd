package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/view"
)

const (
	sessionCookie = "session_id"
	htmxHeader    = "HX-Request"

	// invalidIndex stands in for unparsable form values so they are
	// rejected by the game rules like any other bad coordinate.
	invalidIndex = -1
)

func (that *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleIndex")

	_, board, ok := that.openSession(w, r, cookieSession(r))
	if !ok {
		return
	}

	body, err := that.tpl.render("page", board)
	if err != nil {
		log.Error("failed to render page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeHTML(w, body)
}

func (that *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	row := formInt(r, "r")
	col := formInt(r, "c")

	that.handleAction(w, r, "handlePlay", func(sessionID string) (view.Board, error) {
		return that.uGame.MakeMove(r.Context(), sessionID, row, col)
	})
}

func (that *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	index := formInt(r, "move")

	that.handleAction(w, r, "handleJump", func(sessionID string) (view.Board, error) {
		return that.uGame.JumpTo(r.Context(), sessionID, index)
	})
}

func (that *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	that.handleAction(w, r, "handleReset", func(sessionID string) (view.Board, error) {
		return that.uGame.NewGame(r.Context(), sessionID)
	})
}

// handleAction - runs action on the caller's session and answers with the
// board fragment. Rejected actions redraw the unchanged board. A session
// expired in between is replaced by a new one and the action runs again.
func (that *Server) handleAction(w http.ResponseWriter, r *http.Request, method string, action func(string) (view.Board, error)) {
	log := that.logger.With("method", method)

	sessionID, _, ok := that.openSession(w, r, cookieSession(r))
	if !ok {
		return
	}

	board, err := action(sessionID)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		log.Info("session expired, starting a new one", "sessionID", sessionID)

		if sessionID, _, ok = that.openSession(w, r, ""); !ok {
			return
		}

		board, err = action(sessionID)
	}

	if err != nil && !usecase.IsRejection(err) {
		log.Error("action failed", "sessionID", sessionID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if r.Header.Get(htmxHeader) != "true" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	body, err := that.tpl.render("board", board)
	if err != nil {
		log.Error("failed to render board", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeHTML(w, body)
}

// openSession - resolves cookieID, creating a session and setting the
// cookie when it is empty or unknown.
func (that *Server) openSession(w http.ResponseWriter, r *http.Request, cookieID string) (string, view.Board, bool) {
	log := that.logger.With("method", "openSession")

	sessionID, board, err := that.uGame.OpenSession(r.Context(), cookieID)
	if err != nil {
		log.Error("failed to open session", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return "", view.Board{}, false
	}

	if sessionID != cookieID {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		log.Info("session cookie set", "sessionID", sessionID)
	}

	return sessionID, board, true
}

func cookieSession(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}

	return ""
}

func formInt(r *http.Request, key string) int {
	value, err := strconv.Atoi(r.FormValue(key))
	if err != nil {
		return invalidIndex
	}

	return value
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
