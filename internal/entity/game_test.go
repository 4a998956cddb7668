package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/gridtactoe/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMark_Opponent(t *testing.T) {
	t.Run("X is followed by O", func(t *testing.T) {
		assert.Equal(t, PlayerO, PlayerX.Opponent())
	})

	t.Run("O is followed by X", func(t *testing.T) {
		assert.Equal(t, PlayerX, PlayerO.Opponent())
	})

	t.Run("Only X and O are players", func(t *testing.T) {
		assert.True(t, PlayerX.IsPlayer())
		assert.True(t, PlayerO.IsPlayer())
		assert.False(t, EmptyCell.IsPlayer())
		assert.False(t, Mark("Z").IsPlayer())
	})
}

func TestSettings_Normalize(t *testing.T) {
	t.Run("Clamps win length to board size", func(t *testing.T) {
		// Given: settings asking for a longer run than the board allows
		settings := Settings{Size: 3, WinLength: 5}

		// When: normalizing
		normalized := settings.Normalize()

		// Then: the win length equals the board size
		assert.Equal(t, Settings{Size: 3, WinLength: 3}, normalized)
	})

	t.Run("Raises win length below one", func(t *testing.T) {
		normalized := Settings{Size: 4, WinLength: 0}.Normalize()

		assert.Equal(t, 1, normalized.WinLength)
	})

	t.Run("Keeps valid settings", func(t *testing.T) {
		settings := Settings{Size: 5, WinLength: 4}

		assert.Equal(t, settings, settings.Normalize())
	})
}

func TestSettings_Validate(t *testing.T) {
	t.Run("Accepts sizes from 1 to MaxBoardSize", func(t *testing.T) {
		for _, size := range []int{1, 3, MaxBoardSize} {
			assert.NoError(t, Settings{Size: size, WinLength: 3}.Validate(), "size %d", size)
		}
	})

	t.Run("Rejects sizes outside the range", func(t *testing.T) {
		for _, size := range []int{-1, 0, MaxBoardSize + 1, 1 << 20} {
			assert.ErrorIs(t, Settings{Size: size, WinLength: 3}.Validate(), apperror.ErrInvalidSize, "size %d", size)
		}
	})
}

func TestBoard(t *testing.T) {
	t.Run("NewBoard allocates size squared empty cells", func(t *testing.T) {
		board := NewBoard(4)

		require.Len(t, board, 16)
		assert.Equal(t, 16, board.Count(EmptyCell))
		assert.False(t, board.IsFull())
	})

	t.Run("Clone does not share cells", func(t *testing.T) {
		// Given: a board and its clone
		board := NewBoard(3)
		clone := board.Clone()

		// When: the clone is changed
		clone[4] = PlayerX

		// Then: the original stays empty
		assert.Equal(t, EmptyCell, board[4])
	})

	t.Run("IsFull once every cell is marked", func(t *testing.T) {
		board := Board{PlayerX, PlayerO, PlayerX, PlayerO}

		assert.True(t, board.IsFull())
		assert.Equal(t, 2, board.Count(PlayerX))
	})

	t.Run("Marshals empty cells as empty strings", func(t *testing.T) {
		board := Board{PlayerX, EmptyCell, PlayerO, EmptyCell}

		data, err := json.Marshal(board)

		require.NoError(t, err)
		assert.JSONEq(t, `["X","","O",""]`, string(data))
	})
}

func TestMoveOutcome(t *testing.T) {
	t.Run("Win and draw are terminal", func(t *testing.T) {
		assert.True(t, Win(PlayerX).IsTerminal())
		assert.True(t, Draw().IsTerminal())
		assert.False(t, Continue().IsTerminal())
		assert.False(t, Rejected(apperror.ErrCellOccupied).IsTerminal())
	})

	t.Run("Rejected carries its reason", func(t *testing.T) {
		outcome := Rejected(apperror.ErrGameFinished)

		assert.True(t, outcome.IsRejected())
		assert.ErrorIs(t, outcome.Reason, apperror.ErrGameFinished)
	})

	t.Run("Marshals reason as text", func(t *testing.T) {
		data, err := json.Marshal(Rejected(apperror.ErrCellOccupied))

		require.NoError(t, err)
		assert.JSONEq(t, `{"kind":"rejected","reason":"cell is already occupied"}`, string(data))
	})

	t.Run("Marshals winner", func(t *testing.T) {
		data, err := json.Marshal(Win(PlayerO))

		require.NoError(t, err)
		assert.JSONEq(t, `{"kind":"win","winner":"O"}`, string(data))
	})
}

func TestScoreBoard_Record(t *testing.T) {
	t.Run("Win increments the winner only", func(t *testing.T) {
		// Given: existing tallies
		scores := ScoreBoard{X: 1, O: 2, Draw: 3}

		// When: X and then O win
		scores = scores.Record(Win(PlayerX))
		scores = scores.Record(Win(PlayerO))

		// Then: each winner gained exactly one
		assert.Equal(t, ScoreBoard{X: 2, O: 3, Draw: 3}, scores)
	})

	t.Run("Draw increments draws", func(t *testing.T) {
		scores := ScoreBoard{}.Record(Draw())

		assert.Equal(t, ScoreBoard{Draw: 1}, scores)
	})

	t.Run("Non-terminal outcomes leave tallies alone", func(t *testing.T) {
		scores := ScoreBoard{X: 1}

		assert.Equal(t, scores, scores.Record(Continue()))
		assert.Equal(t, scores, scores.Record(Rejected(apperror.ErrCellOccupied)))
	})

	t.Run("Marshals with persisted keys", func(t *testing.T) {
		data, err := json.Marshal(ScoreBoard{X: 1, O: 2, Draw: 3})

		require.NoError(t, err)
		assert.JSONEq(t, `{"X":1,"O":2,"draw":3}`, string(data))
	})
}
