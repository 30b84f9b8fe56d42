package cli

import (
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/api/service"
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/game"

	"github.com/spf13/cobra"
)

func newMoveCmd(opts *options) *cobra.Command {
	var (
		boardFlag  string
		playerFlag string
		difficulty string
	)

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Ask the computer for its move",
		Long: `move prints the cell (0-8, row-major) the computer would play for --player.
On hard the minimax score of the move is printed too: +1 O wins, -1 X wins, 0 draw.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := game.ParseBoardString(boardFlag)
			if err != nil {
				return err
			}
			moves, err := service.NewMoveService(opts.selector(), bot.Easy)
			if err != nil {
				return err
			}
			resp, err := moves.SelectMove(cmd.Context(), &models.MoveRequest{
				Board:      board.Cells(),
				Player:     playerFlag,
				Difficulty: difficulty,
			})
			if err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), opts.output).Print(resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&boardFlag, "board", "b", "", "Board, e.g. X___O____")
	cmd.Flags().StringVarP(&playerFlag, "player", "p", "O", "Mark to move: X or O")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", string(bot.Hard), "easy or hard")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}
