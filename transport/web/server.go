package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/view"
)

const shutdownTimeout = 5 * time.Second

type uGame interface {
	OpenSession(ctx context.Context, sessionID string) (string, view.Board, error)
	NewGame(ctx context.Context, sessionID string) (view.Board, error)

	MakeMove(ctx context.Context, sessionID string, row, col int) (view.Board, error)
	JumpTo(ctx context.Context, sessionID string, index int) (view.Board, error)
}

type Server struct {
	logger *slog.Logger
	uGame  uGame

	tpl    *templates
	router chi.Router
}

func New(logger *slog.Logger, uGame uGame) *Server {
	server := &Server{
		logger: logger.With("component", "web"),
		uGame:  uGame,
		tpl:    loadTemplates(),
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/", server.handleIndex)
	router.Post("/play", server.handlePlay)
	router.Post("/jump", server.handleJump)
	router.Post("/reset", server.handleReset)
	router.Get("/ping", NewPingHandler().PingHandler)

	server.router = router

	return server
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start - serves HTTP on port until ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	that.logger.Info("HTTP server stopped")

	return nil
}
