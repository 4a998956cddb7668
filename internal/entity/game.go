package entity

import (
	"fmt"

	"github.com/rocketscienceinc/gridtactoe/internal/apperror"
)

// MaxBoardSize - the largest board a caller may ask for.
const MaxBoardSize = 100

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// Mark - is the occupant of a single cell.
type Mark string

// Opponent - returns the mark that moves after this one.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Board - cells in row-major order, index = row*size + col.
type Board []Mark

func NewBoard(size int) Board {
	return make(Board, size*size)
}

func (that Board) Clone() Board {
	board := make(Board, len(that))
	copy(board, that)
	return board
}

// IsFull - reports whether no empty cell remains.
func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

func (that Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}
	return count
}

// Settings - board size and the run length needed to win.
type Settings struct {
	Size      int `json:"size"`
	WinLength int `json:"win_length"`
}

// Normalize - clamps WinLength into [1, Size]. Size itself is trusted.
func (that Settings) Normalize() Settings {
	if that.WinLength > that.Size {
		that.WinLength = that.Size
	}

	if that.WinLength < 1 {
		that.WinLength = 1
	}

	return that
}

// Validate - checks that Size is within [1, MaxBoardSize].
func (that Settings) Validate() error {
	if that.Size < 1 || that.Size > MaxBoardSize {
		return fmt.Errorf("%w: size must be between 1 and %d, got %d", apperror.ErrInvalidSize, MaxBoardSize, that.Size)
	}

	return nil
}

func (that Settings) Cells() int {
	return that.Size * that.Size
}

// Session - a single game from reset to win or draw.
type Session struct {
	ID            string   `json:"id,omitempty"`
	Settings      Settings `json:"settings"`
	Board         Board    `json:"board"`
	CurrentPlayer Mark     `json:"player_turn"`
	IsOver        bool     `json:"is_over"`
	Winner        Mark     `json:"winner,omitempty"`
}

// Clone - returns a copy that shares no cells with the receiver.
func (that Session) Clone() Session {
	that.Board = that.Board.Clone()
	return that
}
