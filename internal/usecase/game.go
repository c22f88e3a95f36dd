package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/view"
)

// GameUseCase drives one game per session. Every call on a session's
// controller runs under that session's lock.
type GameUseCase interface {
	OpenSession(ctx context.Context, sessionID string) (string, view.Board, error)
	NewGame(ctx context.Context, sessionID string) (view.Board, error)

	MakeMove(ctx context.Context, sessionID string, row, col int) (view.Board, error)
	JumpTo(ctx context.Context, sessionID string, index int) (view.Board, error)

	ExpireIdle(ctx context.Context, maxIdle time.Duration) (int, error)
}

type sessionRepoDep interface {
	CreateOrUpdate(ctx context.Context, session *repository.Session) error
	GetByID(ctx context.Context, id string) (*repository.Session, error)
	Touch(ctx context.Context, id string, at time.Time) error
	DeleteIdle(ctx context.Context, before time.Time) (int, error)
}

type gameUseCase struct {
	logger      *slog.Logger
	sessionRepo sessionRepoDep
	boardSize   int

	newID func() string
	now   func() time.Time
}

func NewGameUseCase(logger *slog.Logger, sessionRepo sessionRepoDep, boardSize int) GameUseCase {
	return &gameUseCase{
		logger:      logger.With("component", "usecase"),
		sessionRepo: sessionRepo,
		boardSize:   boardSize,
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// IsRejection reports whether err is a move or jump the rules refused, as
// opposed to a failure of the session store.
func IsRejection(err error) bool {
	return errors.Is(err, apperror.ErrCellOccupied) ||
		errors.Is(err, apperror.ErrGameAlreadyWon) ||
		errors.Is(err, apperror.ErrOutOfBounds) ||
		errors.Is(err, apperror.ErrOutOfRange)
}

// OpenSession - returns the game of an existing session, or starts a new
// session when sessionID is empty or unknown.
func (that *gameUseCase) OpenSession(ctx context.Context, sessionID string) (string, view.Board, error) {
	if sessionID != "" {
		session, err := that.sessionRepo.GetByID(ctx, sessionID)
		if err == nil {
			session.Lock()
			board := view.Build(session.Game)
			session.Unlock()

			return session.ID, board, nil
		}

		if !errors.Is(err, apperror.ErrSessionNotFound) {
			return "", view.Board{}, fmt.Errorf("failed to get session: %w", err)
		}
	}

	session, err := that.createSession(ctx)
	if err != nil {
		return "", view.Board{}, err
	}

	return session.ID, view.Build(session.Game), nil
}

func (that *gameUseCase) createSession(ctx context.Context) (*repository.Session, error) {
	game, err := tictactoe.NewGameController(that.boardSize)
	if err != nil {
		return nil, fmt.Errorf("could not create game: %w", err)
	}

	now := that.now()
	session := &repository.Session{
		ID:        that.newID(),
		Game:      game,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.logger.Info("session created", "sessionID", session.ID, "boardSize", that.boardSize)

	return session, nil
}

// NewGame - replaces the session's game with an empty board.
func (that *gameUseCase) NewGame(ctx context.Context, sessionID string) (view.Board, error) {
	return that.withSession(ctx, sessionID, "newGame", func(session *repository.Session) error {
		game, err := tictactoe.NewGameController(that.boardSize)
		if err != nil {
			return fmt.Errorf("could not create game: %w", err)
		}

		session.Game = game

		return nil
	})
}

// MakeMove - attempts a move. On rejection the returned board is the
// unchanged one together with the reason.
func (that *gameUseCase) MakeMove(ctx context.Context, sessionID string, row, col int) (view.Board, error) {
	return that.withSession(ctx, sessionID, "makeMove", func(session *repository.Session) error {
		if _, err := session.Game.AttemptMove(row, col); err != nil {
			return fmt.Errorf("failed to make move: %w", err)
		}

		return nil
	})
}

func (that *gameUseCase) JumpTo(ctx context.Context, sessionID string, index int) (view.Board, error) {
	return that.withSession(ctx, sessionID, "jumpTo", func(session *repository.Session) error {
		if err := session.Game.RequestJump(index); err != nil {
			return fmt.Errorf("failed to jump: %w", err)
		}

		return nil
	})
}

// withSession - runs fn under the session lock and returns the board as fn
// left it, whether fn failed or not.
func (that *gameUseCase) withSession(ctx context.Context, sessionID, method string, fn func(*repository.Session) error) (view.Board, error) {
	log := that.logger.With("method", method, "sessionID", sessionID)

	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return view.Board{}, fmt.Errorf("failed to get session: %w", err)
	}

	session.Lock()
	fnErr := fn(session)
	board := view.Build(session.Game)
	state := session.Game.State()
	session.Unlock()

	if fnErr != nil {
		if IsRejection(fnErr) {
			log.Debug("rejected", "reason", fnErr)
		} else {
			log.Error("failed", "error", fnErr)
		}

		return board, fnErr
	}

	if err = that.sessionRepo.Touch(ctx, sessionID, that.now()); err != nil {
		log.Warn("could not touch session", "error", err)
	}

	log.Debug("applied", "cursor", board.Cursor, "moves", len(board.Moves), "state", state.String())

	return board, nil
}

// ExpireIdle - forgets sessions untouched for longer than maxIdle.
func (that *gameUseCase) ExpireIdle(ctx context.Context, maxIdle time.Duration) (int, error) {
	removed, err := that.sessionRepo.DeleteIdle(ctx, that.now().Add(-maxIdle))
	if err != nil {
		return removed, fmt.Errorf("failed to expire sessions: %w", err)
	}

	if removed > 0 {
		that.logger.Info("expired idle sessions", "count", removed)
	}

	return removed, nil
}
