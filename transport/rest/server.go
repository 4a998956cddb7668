package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/gridtactoe/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	Session() entity.Session
	Scores() entity.ScoreBoard

	MakeTurn(ctx context.Context, cell int) (entity.Session, entity.MoveOutcome)
	NewGame(ctx context.Context) entity.Session
	ApplySettings(ctx context.Context, settings entity.Settings) entity.Session
	ResetScores(ctx context.Context) entity.ScoreBoard
}

type Server struct {
	logger  *slog.Logger
	manager gameManager
}

func New(logger *slog.Logger, manager gameManager) *Server {
	return &Server{
		logger:  logger.With("component", "rest"),
		manager: manager,
	}
}

// Handler - routes of the game API.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", that.ping)

	mux.HandleFunc("GET /game", that.getGame)
	mux.HandleFunc("POST /game/new", that.newGame)
	mux.HandleFunc("POST /game/settings", that.applySettings)
	mux.HandleFunc("POST /game/turn", that.makeTurn)

	mux.HandleFunc("GET /scores", that.getScores)
	mux.HandleFunc("POST /scores/reset", that.resetScores)

	return mux
}

// Start - serves the API until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
