package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rocketscienceinc/gridtactoe/internal/entity"
)

const (
	colorX     = "#E06C75"
	colorO     = "#61AFEF"
	colorEmpty = "#5C6370"
)

// Renderer - draws games as text. Colors depend on the output profile,
// termenv.Ascii gives plain text.
type Renderer struct {
	out *termenv.Output
}

func New(out *termenv.Output) *Renderer {
	return &Renderer{out: out}
}

// Board - one line per row, empty cells show their index so players know what to type.
func (that *Renderer) Board(session entity.Session) string {
	size := session.Settings.Size
	width := len(strconv.Itoa(len(session.Board) - 1))

	var builder strings.Builder
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if col > 0 {
				builder.WriteByte(' ')
			}

			idx := row*size + col
			builder.WriteString(that.cell(session.Board[idx], idx, width))
		}
		builder.WriteByte('\n')
	}

	return builder.String()
}

func (that *Renderer) Status(session entity.Session) string {
	switch {
	case session.IsOver && session.Winner != entity.EmptyCell:
		return fmt.Sprintf("%s wins!", that.mark(session.Winner, string(session.Winner)))
	case session.IsOver:
		return "It's a draw!"
	default:
		return fmt.Sprintf("Current player: %s", that.mark(session.CurrentPlayer, string(session.CurrentPlayer)))
	}
}

func (that *Renderer) Outcome(outcome entity.MoveOutcome) string {
	switch outcome.Kind {
	case entity.OutcomeWin:
		return fmt.Sprintf("%s wins!", that.mark(outcome.Winner, string(outcome.Winner)))
	case entity.OutcomeDraw:
		return "It's a draw!"
	case entity.OutcomeRejected:
		return fmt.Sprintf("Move rejected: %v", outcome.Reason)
	case entity.OutcomeContinue:
	}

	return ""
}

func (that *Renderer) Scores(scores entity.ScoreBoard) string {
	return fmt.Sprintf("Player X: %d  Player O: %d  Draws: %d", scores.X, scores.O, scores.Draw)
}

func (that *Renderer) cell(mark entity.Mark, idx, width int) string {
	if mark == entity.EmptyCell {
		text := fmt.Sprintf("%*d", width, idx)
		return that.out.String(text).Foreground(that.out.Color(colorEmpty)).Faint().String()
	}

	return that.mark(mark, fmt.Sprintf("%*s", width, mark))
}

func (that *Renderer) mark(mark entity.Mark, text string) string {
	color := colorX
	if mark == entity.PlayerO {
		color = colorO
	}

	return that.out.String(text).Foreground(that.out.Color(color)).Bold().String()
}
