package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	app "github.com/rocketscienceinc/gridtactoe/internal"
	"github.com/rocketscienceinc/gridtactoe/internal/apperror"
	"github.com/rocketscienceinc/gridtactoe/internal/config"
	"github.com/rocketscienceinc/gridtactoe/internal/entity"
	"github.com/rocketscienceinc/gridtactoe/internal/render"
	"github.com/spf13/cobra"
)

const playHelp = `Commands:
  <cell>          place a mark on a cell index
  <row> <col>     place a mark by zero-based row and column
  new             start a new game
  size <n> <win>  change board size and win length
  scores          show the scores
  reset-scores    zero the scores
  help            show this help
  quit            leave`

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	Size      int
	WinLength int
}

func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.Load(rootOpts.ConfigPath)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("size") {
				conf.Game.Size = opts.Size
			}

			if cmd.Flags().Changed("win") {
				conf.Game.WinLength = opts.WinLength
			}

			if err = (entity.Settings{Size: conf.Game.Size, WinLength: conf.Game.WinLength}).Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			st, err := app.OpenStorage(ctx, conf)
			if err != nil {
				return err
			}
			defer st.Close()

			logger := NewLogger(conf.LogLevel, cmd.ErrOrStderr())
			manager := app.NewGameManager(ctx, logger, conf, st)
			renderer := render.New(termenv.NewOutput(cmd.OutOrStdout()))

			return Play(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), manager, renderer)
		},
	}

	cmd.Flags().IntVarP(&opts.Size, "size", "s", 3, "board size")
	cmd.Flags().IntVarP(&opts.WinLength, "win", "w", 3, "marks in a row needed to win")

	return cmd
}

type gameManager interface {
	Session() entity.Session
	Scores() entity.ScoreBoard

	MakeTurn(ctx context.Context, cell int) (entity.Session, entity.MoveOutcome)
	NewGame(ctx context.Context) entity.Session
	ApplySettings(ctx context.Context, settings entity.Settings) entity.Session
	ResetScores(ctx context.Context) entity.ScoreBoard
}

// Play - reads commands from in until quit or end of input.
func Play(ctx context.Context, in io.Reader, out io.Writer, manager gameManager, renderer *render.Renderer) error {
	printState(out, renderer, manager.Session(), manager.Scores())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(out, playHelp)
		case "new":
			printState(out, renderer, manager.NewGame(ctx), manager.Scores())
		case "scores":
			fmt.Fprintln(out, renderer.Scores(manager.Scores()))
		case "reset-scores":
			scores := manager.ResetScores(ctx)
			printState(out, renderer, manager.Session(), scores)
		case "size":
			settings, err := parseSettings(fields[1:])
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			printState(out, renderer, manager.ApplySettings(ctx, settings), manager.Scores())
		default:
			cell, err := parseCell(fields, manager.Session().Settings.Size)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			playCell(ctx, out, manager, renderer, cell)
		}
	}
}

func playCell(ctx context.Context, out io.Writer, manager gameManager, renderer *render.Renderer, cell int) {
	session, outcome := manager.MakeTurn(ctx, cell)
	if outcome.IsRejected() {
		fmt.Fprintln(out, renderer.Outcome(outcome))
		return
	}

	fmt.Fprint(out, renderer.Board(session))

	if outcome.IsTerminal() {
		fmt.Fprintln(out, renderer.Outcome(outcome))
		fmt.Fprintln(out, renderer.Scores(manager.Scores()))
		fmt.Fprintln(out, `Type "new" to play again.`)
		return
	}

	fmt.Fprintln(out, renderer.Status(session))
}

func printState(out io.Writer, renderer *render.Renderer, session entity.Session, scores entity.ScoreBoard) {
	fmt.Fprintf(out, "Board %dx%d, %d in a row wins\n", session.Settings.Size, session.Settings.Size, session.Settings.WinLength)
	fmt.Fprint(out, renderer.Board(session))
	fmt.Fprintln(out, renderer.Status(session))
	fmt.Fprintln(out, renderer.Scores(scores))
}

func parseCell(fields []string, size int) (int, error) {
	switch len(fields) {
	case 1:
		cell, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, fmt.Errorf("unknown command %q, type help", fields[0])
		}
		return cell, nil
	case 2:
		row, rowErr := strconv.Atoi(fields[0])
		col, colErr := strconv.Atoi(fields[1])
		if rowErr != nil || colErr != nil {
			return 0, fmt.Errorf("unknown command %q, type help", strings.Join(fields, " "))
		}

		if row < 0 || row >= size || col < 0 || col >= size {
			return 0, fmt.Errorf("%w: row %d col %d", apperror.ErrInvalidCell, row, col)
		}
		return row*size + col, nil
	default:
		return 0, fmt.Errorf("unknown command %q, type help", strings.Join(fields, " "))
	}
}

func parseSettings(args []string) (entity.Settings, error) {
	if len(args) != 2 {
		return entity.Settings{}, fmt.Errorf("usage: size <n> <win>")
	}

	size, err := strconv.Atoi(args[0])
	if err != nil {
		return entity.Settings{}, fmt.Errorf("size must be a number, got %q", args[0])
	}

	winLength, err := strconv.Atoi(args[1])
	if err != nil {
		return entity.Settings{}, fmt.Errorf("win length must be a number, got %q", args[1])
	}

	settings := entity.Settings{Size: size, WinLength: winLength}
	if err = settings.Validate(); err != nil {
		return entity.Settings{}, err
	}

	return settings, nil
}
