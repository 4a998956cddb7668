package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/gridtactoe/internal/apperror"
	"github.com/rocketscienceinc/gridtactoe/internal/entity"
)

// axes - horizontal, vertical and both diagonals. The opposite direction of
// each axis is walked by negating it.
var axes = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// NewGame - creates an empty game. Size must be at least 1.
func NewGame(settings entity.Settings) entity.Session {
	settings = settings.Normalize()

	return entity.Session{
		Settings:      settings,
		Board:         entity.NewBoard(settings.Size),
		CurrentPlayer: entity.PlayerX,
		IsOver:        false,
	}
}

// UpdateSettings - starts over with new settings, the old board is discarded.
func UpdateSettings(_ entity.Session, settings entity.Settings) entity.Session {
	return NewGame(settings)
}

// ApplyMove - places the current player's mark on cell and returns the next
// session. A rejected move returns the input session untouched.
func ApplyMove(session entity.Session, cell int) (entity.Session, entity.MoveOutcome) {
	if err := validateMove(session, cell); err != nil {
		return session, entity.Rejected(err)
	}

	next := session.Clone()
	player := next.CurrentPlayer
	next.Board[cell] = player

	if hasWinAt(next.Board, next.Settings, cell) {
		next.IsOver = true
		next.Winner = player
		return next, entity.Win(player)
	}

	// only the move filling the last empty cell can get here with a full board
	if next.Board.IsFull() {
		next.IsOver = true
		return next, entity.Draw()
	}

	next.CurrentPlayer = player.Opponent()

	return next, entity.Continue()
}

// Restore - rebuilds a session from a saved board.
func Restore(settings entity.Settings, board entity.Board) (entity.Session, error) {
	if settings.Size < 1 {
		return entity.Session{}, fmt.Errorf("%w: board size %d", apperror.ErrCorruptBoard, settings.Size)
	}

	settings = settings.Normalize()

	if len(board) != settings.Cells() {
		return entity.Session{}, fmt.Errorf("%w: %d cells for size %d", apperror.ErrCorruptBoard, len(board), settings.Size)
	}

	for idx, cell := range board {
		if cell != entity.EmptyCell && !cell.IsPlayer() {
			return entity.Session{}, fmt.Errorf("%w: unknown mark %q at %d", apperror.ErrCorruptBoard, cell, idx)
		}
	}

	session := entity.Session{
		Settings: settings,
		Board:    board.Clone(),
	}

	switch countX, countO := board.Count(entity.PlayerX), board.Count(entity.PlayerO); countX - countO {
	case 0:
		session.CurrentPlayer = entity.PlayerX
	case 1:
		session.CurrentPlayer = entity.PlayerO
	default:
		return entity.Session{}, fmt.Errorf("%w: %d X against %d O", apperror.ErrCorruptBoard, countX, countO)
	}

	for idx, cell := range session.Board {
		if cell != entity.EmptyCell && hasWinAt(session.Board, settings, idx) {
			session.IsOver = true
			session.Winner = cell
			session.CurrentPlayer = cell
			return session, nil
		}
	}

	if session.Board.IsFull() {
		session.IsOver = true
		session.CurrentPlayer = session.CurrentPlayer.Opponent()
	}

	return session, nil
}

// validateMove - checks if the move is valid.
func validateMove(session entity.Session, cell int) error {
	if session.IsOver {
		return apperror.ErrGameFinished
	}

	if cell < 0 || cell >= len(session.Board) {
		return apperror.ErrInvalidCell
	}

	if session.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// hasWinAt - checks the four axes through cell for a run of WinLength.
func hasWinAt(board entity.Board, settings entity.Settings, cell int) bool {
	row, col := cell/settings.Size, cell%settings.Size
	mark := board[cell]

	for _, axis := range axes {
		total := countRun(board, settings.Size, row, col, axis[0], axis[1], mark) +
			countRun(board, settings.Size, row, col, -axis[0], -axis[1], mark) - 1

		if total >= settings.WinLength {
			return true
		}
	}

	return false
}

// countRun - length of the run of mark starting at (row, col), origin included.
func countRun(board entity.Board, size, row, col, dRow, dCol int, mark entity.Mark) int {
	count := 1

	for {
		row, col = row+dRow, col+dCol
		if row < 0 || row >= size || col < 0 || col >= size {
			return count
		}

		if board[row*size+col] != mark {
			return count
		}

		count++
	}
}
