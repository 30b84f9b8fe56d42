package cli

import (
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/dependencies/random"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// options are the flags shared by every command.
type options struct {
	output string
	seed   uint64
}

// rng returns a seeded source when --seed is set, so games replay exactly.
func (o *options) rng() random.Random {
	if o.seed != 0 {
		return random.NewSeeded(o.seed)
	}
	return random.New()
}

func (o *options) selector() *bot.Selector {
	return bot.NewSelector(o.rng())
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{output: "text"}

	rootCmd := &cobra.Command{
		Use:   "tictactoe",
		Short: "Play and analyse tic-tac-toe against a minimax computer",
		Long: `tictactoe evaluates boards, asks the computer for moves, plays interactive
games in the terminal and runs computer-against-computer simulations.

Boards are 9 characters in row-major order: X, O, and _ . or - for empty.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "text" && opts.output != "json" {
				return fmt.Errorf("unknown output format %q, want text or json", opts.output)
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", opts.output, "Output format: text, json")
	rootCmd.PersistentFlags().Uint64Var(&opts.seed, "seed", 0, "Seed for the easy computer (0 picks one at random)")

	rootCmd.AddCommand(newEvaluateCmd(opts))
	rootCmd.AddCommand(newMoveCmd(opts))
	rootCmd.AddCommand(newPlayCmd(opts))
	rootCmd.AddCommand(newSimulateCmd(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
