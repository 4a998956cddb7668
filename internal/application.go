package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/gridtactoe/internal/config"
	"github.com/rocketscienceinc/gridtactoe/internal/entity"
	"github.com/rocketscienceinc/gridtactoe/internal/repository"
	"github.com/rocketscienceinc/gridtactoe/internal/repository/storage"
	"github.com/rocketscienceinc/gridtactoe/internal/usecase"
	"github.com/rocketscienceinc/gridtactoe/transport/rest"
	"github.com/rocketscienceinc/gridtactoe/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis host is empty")

// OpenStorage - opens the backend selected in the config.
func OpenStorage(ctx context.Context, conf *config.Config) (storage.Storage, error) {
	switch conf.Storage.Driver {
	case config.DriverRedis:
		if conf.Redis.Host == "" {
			return nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}
		return redisStorage, nil
	case config.DriverSQLite:
		sqliteStorage, err := storage.NewSQLiteStorage(ctx, conf.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}
		return sqliteStorage, nil
	case config.DriverMemory:
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, conf.Storage.Driver)
	}
}

// NewGameManager - wires repositories on top of st and loads any saved state.
func NewGameManager(ctx context.Context, logger *slog.Logger, conf *config.Config, st storage.Storage) *usecase.GameManager {
	scoreRepo := repository.NewScoreRepository(st)
	gameRepo := repository.NewGameRepository(st)

	defaults := entity.Settings{Size: conf.Game.Size, WinLength: conf.Game.WinLength}
	manager := usecase.NewGameManager(logger, scoreRepo, gameRepo, defaults)
	manager.Init(ctx)

	return manager
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	st, err := OpenStorage(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = st.Close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	gameManager := NewGameManager(ctx, logger, conf, st)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, gameManager).Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameManager)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
