package apperror

import "errors"

var (
	ErrGameFinished = errors.New("game is already finished")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrCorruptBoard = errors.New("saved board is corrupt")
	ErrInvalidSize  = errors.New("invalid board size")
)
