package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

// Session is one player's game. The embedded mutex serializes every call on
// Game; holders must lock it before touching the controller. UpdatedAt is
// owned by the repository and only changes through Touch.
type Session struct {
	sync.Mutex

	ID        string
	Game      *tictactoe.GameController
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	Touch(ctx context.Context, id string, at time.Time) error
	DeleteIdle(ctx context.Context, before time.Time) (int, error)
}

// memSession keeps sessions for the lifetime of the process only.
type memSession struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionRepository() SessionRepository {
	return &memSession{
		sessions: make(map[string]*Session),
	}
}

func (that *memSession) CreateOrUpdate(_ context.Context, session *Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[session.ID] = session

	return nil
}

func (that *memSession) GetByID(_ context.Context, id string) (*Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return session, nil
}

func (that *memSession) Touch(_ context.Context, id string, at time.Time) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[id]
	if !ok {
		return apperror.ErrSessionNotFound
	}
	session.UpdatedAt = at

	return nil
}

// DeleteIdle - drops sessions not updated since before and returns how many.
func (that *memSession) DeleteIdle(ctx context.Context, before time.Time) (int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	removed := 0
	for id, session := range that.sessions {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		if session.UpdatedAt.Before(before) {
			delete(that.sessions, id)
			removed++
		}
	}

	return removed, nil
}
