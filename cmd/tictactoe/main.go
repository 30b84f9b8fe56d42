package main

import "ctchen222/minimax-tic-tac-toe/internal/cli"

func main() {
	cli.Execute()
}
