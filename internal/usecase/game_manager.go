package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/gridtactoe/internal/entity"
	"github.com/rocketscienceinc/gridtactoe/internal/pkg"
	"github.com/rocketscienceinc/gridtactoe/internal/repository"
	"github.com/rocketscienceinc/gridtactoe/internal/tictactoe"
)

type scoreRepo interface {
	Load(ctx context.Context) (entity.ScoreBoard, error)
	Save(ctx context.Context, scores entity.ScoreBoard) error
	Reset(ctx context.Context) (entity.ScoreBoard, error)
}

type gameRepo interface {
	Save(ctx context.Context, session entity.Session) error
	Load(ctx context.Context) (entity.Session, error)
	Clear(ctx context.Context) error
}

// GameManager - owns the current game and the tallies between player actions.
// Persistence is best effort: failures are logged and play goes on.
type GameManager struct {
	logger    *slog.Logger
	scoreRepo scoreRepo
	gameRepo  gameRepo

	mu       sync.Mutex
	defaults entity.Settings
	session  entity.Session
	scores   entity.ScoreBoard
}

func NewGameManager(logger *slog.Logger, scoreRepo scoreRepo, gameRepo gameRepo, defaults entity.Settings) *GameManager {
	manager := &GameManager{
		logger:    logger.With("component", "game_manager"),
		scoreRepo: scoreRepo,
		gameRepo:  gameRepo,
		defaults:  defaults.Normalize(),
	}

	manager.session = manager.newSession(manager.defaults)

	return manager
}

// Init - loads saved tallies and resumes an unfinished game if one was saved.
func (that *GameManager) Init(ctx context.Context) {
	log := that.logger.With("method", "Init")

	that.mu.Lock()
	defer that.mu.Unlock()

	scores, err := that.scoreRepo.Load(ctx)
	if err != nil {
		log.Error("failed to load scores, starting from zero", "error", err)
		scores = entity.ScoreBoard{}
	}
	that.scores = scores

	session, err := that.gameRepo.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrNoSavedGame):
		return
	case err != nil:
		log.Error("failed to load saved game, starting a new one", "error", err)
		that.clearGame(ctx)
		return
	case session.IsOver:
		that.clearGame(ctx)
		return
	}

	session.ID = pkg.GenerateGameID()
	that.session = session

	log.Info("resumed saved game", "gameID", session.ID, "size", session.Settings.Size)
}

func (that *GameManager) Session() entity.Session {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.session.Clone()
}

func (that *GameManager) Scores() entity.ScoreBoard {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.scores
}

// MakeTurn - plays cell for the current player and updates the tallies on a win or draw.
func (that *GameManager) MakeTurn(ctx context.Context, cell int) (entity.Session, entity.MoveOutcome) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "MakeTurn", "gameID", that.session.ID, "cell", cell)

	session, outcome := tictactoe.ApplyMove(that.session, cell)
	if outcome.IsRejected() {
		log.Debug("move rejected", "reason", outcome.Reason)
		return session.Clone(), outcome
	}

	that.session = session

	if outcome.IsTerminal() {
		// the finished board is saved first so a failed clear can't resume it
		that.saveGame(ctx)
		that.scores = that.scores.Record(outcome)
		that.saveScores(ctx)
		that.clearGame(ctx)

		log.Info("game finished", "outcome", outcome.Kind, "winner", outcome.Winner)

		return session.Clone(), outcome
	}

	that.saveGame(ctx)

	return session.Clone(), outcome
}

// NewGame - starts over with the current settings.
func (that *GameManager) NewGame(ctx context.Context) entity.Session {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.session = that.newSession(that.session.Settings)
	that.saveGame(ctx)

	return that.session.Clone()
}

// ApplySettings - starts over with new settings, win length is clamped to the board size.
func (that *GameManager) ApplySettings(ctx context.Context, settings entity.Settings) entity.Session {
	that.mu.Lock()
	defer that.mu.Unlock()

	session := tictactoe.UpdateSettings(that.session, settings)
	session.ID = pkg.GenerateGameID()
	that.session = session
	that.saveGame(ctx)

	that.logger.Info("settings applied", "size", session.Settings.Size, "winLength", session.Settings.WinLength)

	return that.session.Clone()
}

// ResetScores - zeroes the tallies and starts a new game with the current settings.
func (that *GameManager) ResetScores(ctx context.Context) entity.ScoreBoard {
	that.mu.Lock()
	defer that.mu.Unlock()

	scores, err := that.scoreRepo.Reset(ctx)
	if err != nil {
		that.logger.Error("failed to persist score reset", "error", err)
	}
	that.scores = scores

	that.session = that.newSession(that.session.Settings)
	that.saveGame(ctx)

	return that.scores
}

func (that *GameManager) newSession(settings entity.Settings) entity.Session {
	session := tictactoe.NewGame(settings)
	session.ID = pkg.GenerateGameID()

	return session
}

func (that *GameManager) saveScores(ctx context.Context) {
	if err := that.scoreRepo.Save(ctx, that.scores); err != nil {
		that.logger.Error("failed to save scores", "error", err)
	}
}

func (that *GameManager) saveGame(ctx context.Context) {
	if err := that.gameRepo.Save(ctx, that.session); err != nil {
		that.logger.Error("failed to save game", "gameID", that.session.ID, "error", err)
	}
}

func (that *GameManager) clearGame(ctx context.Context) {
	if err := that.gameRepo.Clear(ctx); err != nil {
		that.logger.Error("failed to clear saved game", "error", err)
	}
}
