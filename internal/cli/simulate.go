package cli

import (
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"fmt"

	"github.com/spf13/cobra"
)

func newSimulateCmd(opts *options) *cobra.Command {
	var (
		games int
		xFlag string
		oFlag string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play the computer against itself and count the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if games < 1 {
				return fmt.Errorf("--games must be at least 1")
			}
			xd, err := bot.ParseDifficulty(xFlag)
			if err != nil {
				return err
			}
			od, err := bot.ParseDifficulty(oFlag)
			if err != nil {
				return err
			}

			tally, err := simulate(opts.selector(), games, xd, od)
			if err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), opts.output).Print(SimulationResult{
				Games: games,
				X:     string(xd),
				O:     string(od),
				Tally: tally,
			})
			return nil
		},
	}

	cmd.Flags().IntVarP(&games, "games", "n", 100, "Number of games")
	cmd.Flags().StringVar(&xFlag, "x-difficulty", string(bot.Easy), "Difficulty playing X")
	cmd.Flags().StringVar(&oFlag, "o-difficulty", string(bot.Hard), "Difficulty playing O")
	return cmd
}

// simulate plays n games with X opening each one.
func simulate(sel *bot.Selector, n int, xd, od bot.Difficulty) (models.Tally, error) {
	var tally models.Tally
	for i := 0; i < n; i++ {
		g := game.NewGame()
		for !g.Outcome.IsTerminal() {
			d := xd
			if g.CurrentTurn == game.PlayerO {
				d = od
			}
			index, err := sel.SelectMove(g.Board, g.CurrentTurn, d)
			if err != nil {
				return tally, err
			}
			if err := g.Move(index); err != nil {
				return tally, err
			}
		}
		tally.Add(g.Outcome.Label())
	}
	return tally, nil
}
