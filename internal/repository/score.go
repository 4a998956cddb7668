package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gridtactoe/internal/entity"
	"github.com/rocketscienceinc/gridtactoe/internal/repository/storage"
)

const scoresKey = "tictactoe:scores"

type keyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type ScoreRepository interface {
	Load(ctx context.Context) (entity.ScoreBoard, error)
	Save(ctx context.Context, scores entity.ScoreBoard) error
	Reset(ctx context.Context) (entity.ScoreBoard, error)
}

type dbScore struct {
	storage keyValueStorage
}

func NewScoreRepository(storage keyValueStorage) ScoreRepository {
	return &dbScore{
		storage: storage,
	}
}

// Load - returns zero tallies when nothing is saved or the saved payload is unreadable.
func (that *dbScore) Load(ctx context.Context) (entity.ScoreBoard, error) {
	response, err := that.storage.Get(ctx, scoresKey)
	if errors.Is(err, storage.ErrNotFound) {
		return entity.ScoreBoard{}, nil
	}

	if err != nil {
		return entity.ScoreBoard{}, fmt.Errorf("failed to get scores: %w", err)
	}

	var scores entity.ScoreBoard
	if err = json.Unmarshal([]byte(response), &scores); err != nil || !scores.IsValid() {
		return entity.ScoreBoard{}, nil
	}

	return scores, nil
}

func (that *dbScore) Save(ctx context.Context, scores entity.ScoreBoard) error {
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("could not marshal scores: %w", err)
	}

	if err = that.storage.Set(ctx, scoresKey, string(scoresJSON)); err != nil {
		return fmt.Errorf("failed to set scores: %w", err)
	}

	return nil
}

// Reset - always returns zero tallies, the error only reports whether they were persisted.
func (that *dbScore) Reset(ctx context.Context) (entity.ScoreBoard, error) {
	scores := entity.ScoreBoard{}

	if err := that.Save(ctx, scores); err != nil {
		return scores, fmt.Errorf("failed to reset scores: %w", err)
	}

	return scores, nil
}
