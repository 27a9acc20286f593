package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/tictactoe-history/internal/config"
	"github.com/rocketscienceinc/tictactoe-history/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-history/internal/terminal"
	"github.com/rocketscienceinc/tictactoe-history/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-history/transport/rest"
	"github.com/rocketscienceinc/tictactoe-history/transport/websocket"
)

// localSessionID - the terminal UI plays a single game.
const localSessionID = "local"

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
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

	gameRepo, closeRepo, err := newGameRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err := closeRepo(); err != nil {
			log.Error("could not close game storage", "error", err)
		}
	}()

	gameManager := usecase.NewGameManager(logger, gameRepo, metrics.New(prometheus.DefaultRegisterer))

	if conf.Mode == config.ModeTerminal {
		return runTerminal(ctx, logger, gameManager)
	}

	return runServers(ctx, logger, conf, gameManager)
}

func newGameRepository(ctx context.Context, conf *config.Config) (repository.GameRepository, func() error, error) {
	if conf.Storage != config.StorageRedis {
		return repository.NewMemoryGameRepository(), func() error { return nil }, nil
	}

	if conf.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewGameRepository(redisStorage.Connection, conf.Redis.TTL), redisStorage.Close, nil
}

func runServers(ctx context.Context, logger *slog.Logger, conf *config.Config, gameManager *usecase.GameManager) error {
	log := logger.With("component", "app")

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		handlers := rest.NewHandlers(logger, gameManager)
		httpErrCh <- rest.Start(ctx, conf.HTTPPort, handlers.Routes())
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager)
		wsErrCh <- wsServer.Start(ctx, conf.SocketPort)
	}()

	select {
	case err := <-httpErrCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	case err := <-wsErrCh:
		if err != nil {
			return fmt.Errorf("WebSocket server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		// both servers return once their graceful shutdown completes
		return errors.Join(<-httpErrCh, <-wsErrCh)
	}

	return nil
}

func runTerminal(ctx context.Context, logger *slog.Logger, gameManager *usecase.GameManager) error {
	app := tview.NewApplication()

	ui := terminal.New(ctx, app, logger, gameManager, localSessionID)
	if err := ui.Load(); err != nil {
		return fmt.Errorf("terminal UI: %w", err)
	}

	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	app.SetInputCapture(ui.HandleInput)
	if err := app.SetRoot(ui.Root(), true).EnableMouse(true).Run(); err != nil {
		return fmt.Errorf("terminal UI: %w", err)
	}

	return nil
}
