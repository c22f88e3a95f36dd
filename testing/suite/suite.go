package suite

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-timetravel/transport/web"
)

const maxWaitDuration = 30 * time.Second

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Sessions repository.SessionRepository
	UseCase  usecase.GameUseCase

	Server *httptest.Server
	Client *http.Client
}

// New - starts the web stack on a local listener. The client keeps cookies,
// so it behaves like one browser.
func New(t *testing.T, boardSize int) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(func() {
		cancel()
	})

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	sessionRepo := repository.NewSessionRepository()
	gameUseCase := usecase.NewGameUseCase(logger, sessionRepo, boardSize)

	server := httptest.NewServer(web.New(logger, gameUseCase).Handler())
	t.Cleanup(server.Close)

	return ctx, &Suite{
		T:        t,
		Logger:   logger,
		Sessions: sessionRepo,
		UseCase:  gameUseCase,
		Server:   server,
		Client:   newBrowser(t),
	}
}

// NewBrowser - returns another client with its own cookie jar.
func (that *Suite) NewBrowser() *http.Client {
	return newBrowser(that.T)
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("could not create cookie jar: %v", err)
	}

	return &http.Client{Jar: jar, Timeout: maxWaitDuration}
}
