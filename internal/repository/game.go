package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gridtactoe/internal/entity"
	"github.com/rocketscienceinc/gridtactoe/internal/repository/storage"
	"github.com/rocketscienceinc/gridtactoe/internal/tictactoe"
)

const (
	boardKey    = "tictactoe:board"
	settingsKey = "tictactoe:settings"
)

var ErrNoSavedGame = errors.New("no saved game")

// GameRepository - keeps an unfinished game across restarts.
type GameRepository interface {
	Save(ctx context.Context, session entity.Session) error
	Load(ctx context.Context) (entity.Session, error)
	Clear(ctx context.Context) error
}

type dbGame struct {
	storage keyValueStorage
}

func NewGameRepository(storage keyValueStorage) GameRepository {
	return &dbGame{
		storage: storage,
	}
}

func (that *dbGame) Save(ctx context.Context, session entity.Session) error {
	settingsJSON, err := json.Marshal(session.Settings)
	if err != nil {
		return fmt.Errorf("could not marshal settings: %w", err)
	}

	boardJSON, err := json.Marshal(session.Board)
	if err != nil {
		return fmt.Errorf("could not marshal board: %w", err)
	}

	if err = that.storage.Set(ctx, settingsKey, string(settingsJSON)); err != nil {
		return fmt.Errorf("failed to set settings: %w", err)
	}

	if err = that.storage.Set(ctx, boardKey, string(boardJSON)); err != nil {
		return fmt.Errorf("failed to set board: %w", err)
	}

	return nil
}

// Load - returns ErrNoSavedGame when no board is stored.
func (that *dbGame) Load(ctx context.Context) (entity.Session, error) {
	boardResponse, err := that.storage.Get(ctx, boardKey)
	if errors.Is(err, storage.ErrNotFound) {
		return entity.Session{}, ErrNoSavedGame
	}

	if err != nil {
		return entity.Session{}, fmt.Errorf("failed to get board: %w", err)
	}

	var board entity.Board
	if err = json.Unmarshal([]byte(boardResponse), &board); err != nil {
		return entity.Session{}, fmt.Errorf("failed to unmarshal board: %w", err)
	}

	settingsResponse, err := that.storage.Get(ctx, settingsKey)
	if errors.Is(err, storage.ErrNotFound) {
		return entity.Session{}, ErrNoSavedGame
	}

	if err != nil {
		return entity.Session{}, fmt.Errorf("failed to get settings: %w", err)
	}

	var settings entity.Settings
	if err = json.Unmarshal([]byte(settingsResponse), &settings); err != nil {
		return entity.Session{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	session, err := tictactoe.Restore(settings, board)
	if err != nil {
		return entity.Session{}, fmt.Errorf("failed to restore game: %w", err)
	}

	return session, nil
}

func (that *dbGame) Clear(ctx context.Context) error {
	if err := that.storage.Delete(ctx, boardKey); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	if err := that.storage.Delete(ctx, settingsKey); err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}

	return nil
}
