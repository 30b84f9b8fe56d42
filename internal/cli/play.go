package cli

import (
	"bufio"
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newPlayCmd(opts *options) *cobra.Command {
	var (
		mode       string
		difficulty string
		markFlag   string
		delay      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play an interactive game in the terminal",
		Long: `play starts a game on stdin/stdout. Enter a cell number 0-8 to move and q to quit.
In bot mode the computer takes the other mark and the marks swap every round.
In local mode two people share the keyboard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &session{
				in:    bufio.NewReader(cmd.InOrStdin()),
				out:   cmd.OutOrStdout(),
				delay: delay,
			}
			switch game.Mode(strings.ToLower(mode)) {
			case game.ModeLocal:
			case game.ModeBot:
				d, err := bot.ParseDifficulty(difficulty)
				if err != nil {
					return err
				}
				if s.computer, err = opts.selector().Strategy(d); err != nil {
					return err
				}
				human, err := game.ParseMark(markFlag)
				if err != nil {
					return err
				}
				s.computerMark = human.Opponent()
			default:
				return fmt.Errorf("unknown mode %q, want bot or local", mode)
			}
			return s.run()
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(game.ModeBot), "bot or local")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", string(bot.Easy), "Computer level: easy or hard")
	cmd.Flags().StringVar(&markFlag, "mark", string(game.PlayerX), "Your mark in bot mode: X or O")
	cmd.Flags().DurationVar(&delay, "delay", 300*time.Millisecond, "Pause before the computer moves")
	return cmd
}

// session is one terminal sitting, possibly several rounds.
type session struct {
	in           *bufio.Reader
	out          io.Writer
	delay        time.Duration
	computer     bot.Strategy // nil in local mode
	computerMark game.PlayerMark
	tally        models.Tally
}

func (s *session) run() error {
	g := game.NewGame()
	for {
		fmt.Fprint(s.out, "\n"+g.Board.Grid())

		if g.Outcome.IsTerminal() {
			s.tally.Add(g.Outcome.Label())
			fmt.Fprintf(s.out, "%s\n", describeOutcome(g.Outcome))
			fmt.Fprintf(s.out, "X %d  O %d  draws %d\n", s.tally.Cross, s.tally.Circle, s.tally.Draw)
			again, err := s.ask("Play again? [y/N] ")
			if err != nil || !strings.HasPrefix(strings.ToLower(again), "y") {
				return nil
			}
			g.Reset()
			if s.computer != nil {
				s.computerMark = s.computerMark.Opponent()
			}
			continue
		}

		if s.computer != nil && g.CurrentTurn == s.computerMark {
			if s.delay > 0 {
				time.Sleep(s.delay)
			}
			index, err := s.computer.SelectMove(g.Board, g.CurrentTurn)
			if err != nil {
				return err
			}
			if err := g.Move(index); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "Computer (%s) plays %d\n", s.computerMark, index)
			continue
		}

		line, err := s.ask(fmt.Sprintf("%s to move (0-8, q to quit): ", g.CurrentTurn))
		if err != nil {
			return nil
		}
		if line == "q" {
			return nil
		}
		index, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(s.out, "%q is not a cell number\n", line)
			continue
		}
		if err := g.Move(index); err != nil {
			fmt.Fprintln(s.out, err)
		}
	}
}

// ask prints prompt and returns the next trimmed line. io.EOF ends the session.
func (s *session) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
