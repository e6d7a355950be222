package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/quizzlio/quizzlio-server/internal/config"
	"github.com/quizzlio/quizzlio-server/internal/game"
	"github.com/quizzlio/quizzlio-server/internal/logging"
	"github.com/quizzlio/quizzlio-server/internal/server"
	"github.com/quizzlio/quizzlio-server/internal/trivia"
	ws "github.com/quizzlio/quizzlio-server/pkg/http/ws"
)

// Application aggregates the process-wide components: the room registry, the
// connection hub, and the HTTP server that fronts both.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger
	http   *http.Server
}

// New bootstraps config, logger, the trivia client, and the game service.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	triviaClient := trivia.NewClient(cfg.Trivia.BaseURL, cfg.Trivia.FetchTimeout)

	registry := game.NewRegistry(cfg.Game.CodeAttempts)
	hub := ws.NewHub(logger)
	gameSvc := game.NewService(registry, triviaClient, hub, game.Options{
		MaxPlayers:             cfg.Game.MaxPlayers,
		DefaultQuestionCount:   cfg.Game.DefaultQuestionCount,
		DefaultTimePerQuestion: int(cfg.Game.DefaultQuestionSeconds.Seconds()),
	}, logger)
	gameHandler := game.NewHandler(gameSvc, hub, logger)

	httpServer := server.NewHTTPServer(
		cfg,
		logger,
		gameHandler.HandleWebSocket,
		trivia.NewCategoriesHandler(triviaClient, logger),
	)

	return &Application{
		cfg:    cfg,
		logger: logger,
		http:   httpServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
