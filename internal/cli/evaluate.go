package cli

import (
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/api/service"
	"ctchen222/minimax-tic-tac-toe/internal/game"

	"github.com/spf13/cobra"
)

func newEvaluateCmd(opts *options) *cobra.Command {
	var boardFlag string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Report whether a board is won, drawn or still in progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := game.ParseBoardString(boardFlag)
			if err != nil {
				return err
			}
			moves, err := service.NewMoveService(opts.selector(), "")
			if err != nil {
				return err
			}
			outcome, err := moves.Evaluate(cmd.Context(), &models.EvaluateRequest{Board: board.Cells()})
			if err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), opts.output).Print(EvaluateResult{Board: board.String(), Outcome: outcome})
			return nil
		},
	}

	cmd.Flags().StringVarP(&boardFlag, "board", "b", "", "Board, e.g. XX_OO____")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}
