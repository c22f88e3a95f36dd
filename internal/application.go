package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/config"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-timetravel/transport/terminal"
	"github.com/rocketscienceinc/tictactoe-timetravel/transport/web"
)

const maxSweepInterval = time.Minute

// RunApp - runs the configured UI until it exits or a signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	switch conf.UI {
	case config.UITerminal:
		return runTerminal(ctx, logger, conf)
	default:
		return runWeb(ctx, logger, conf)
	}
}

func runWeb(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	sessionRepo := repository.NewSessionRepository()
	gameUseCase := usecase.NewGameUseCase(logger, sessionRepo, conf.BoardSize)

	go sweepSessions(ctx, log, gameUseCase, conf.SessionTTL)

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "boardSize", conf.BoardSize)

	if err := web.New(logger, gameUseCase).Start(ctx, conf.HTTPPort); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func runTerminal(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	screen, err := terminal.NewScreen()
	if err != nil {
		return err
	}

	ui, err := terminal.New(logger, screen, conf.BoardSize)
	if err != nil {
		return err
	}

	if err = ui.Init(); err != nil {
		return err
	}

	return ui.Run(ctx)
}

// sweepSessions - expires idle sessions until ctx is done.
func sweepSessions(ctx context.Context, log *slog.Logger, gameUseCase usecase.GameUseCase, ttl time.Duration) {
	ticker := time.NewTicker(min(ttl, maxSweepInterval))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := gameUseCase.ExpireIdle(ctx, ttl); err != nil {
				log.Error("could not expire sessions", "error", err)
			}
		}
	}
}
