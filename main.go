// Terminal checkers against the built-in computer player. Handy for trying
// the rule engine without a frontend: moves are "fromRow fromCol toRow toCol".
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/andjpython/Jogo-de-damas/internal/ai"
	"github.com/andjpython/Jogo-de-damas/internal/board"
	"github.com/andjpython/Jogo-de-damas/internal/config"
	"github.com/andjpython/Jogo-de-damas/internal/rules"
	"github.com/andjpython/Jogo-de-damas/internal/session"
)

func main() {
	cfg := config.Load()
	romano := ai.New(cfg, zerolog.Nop())
	s := session.New("terminal", cfg, romano, zerolog.Nop())
	if err := s.Configure("You", cfg.AIName, session.ModeComputer); err != nil {
		fmt.Println("could not start game:", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		snap := s.Snapshot()
		printBoard(snap.Board)
		if snap.Winner != nil {
			fmt.Printf("\n%s wins! (%s %d pieces, %s %d pieces)\n",
				*snap.Winner, snap.Player1Name, snap.P1Pieces, snap.Player2Name, snap.P2Pieces)
			return
		}

		if snap.Turn == board.P2 {
			fmt.Printf("%s is thinking...\n", snap.Player2Name)
			if err := s.RequestAIMove(); err != nil {
				fmt.Println("computer move failed:", err)
				return
			}
			continue
		}

		if snap.MustContinue {
			fmt.Printf("Capture chain: piece at (%d,%d) must jump again.\n", snap.ChainRow, snap.ChainCol)
		}
		fmt.Print("your move> ")
		start := time.Now()
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) != 4 {
			fmt.Println("format: fromRow fromCol toRow toCol (example: 5 2 4 3)")
			continue
		}
		var mv rules.Move
		mv.FromRow, _ = strconv.Atoi(parts[0])
		mv.FromCol, _ = strconv.Atoi(parts[1])
		mv.ToRow, _ = strconv.Atoi(parts[2])
		mv.ToCol, _ = strconv.Atoi(parts[3])
		if err := s.SubmitMove(mv, time.Since(start).Seconds()); err != nil {
			fmt.Println("invalid move:", err)
		}
	}
}

func printBoard(b board.Board) {
	symbols := map[board.Cell]string{
		board.Empty:  ".",
		board.P1Man:  "o",
		board.P1King: "O",
		board.P2Man:  "x",
		board.P2King: "X",
	}
	fmt.Println("\n  0 1 2 3 4 5 6 7")
	for row := 0; row < board.Size; row++ {
		fmt.Printf("%d ", row)
		for col := 0; col < board.Size; col++ {
			fmt.Printf("%s ", symbols[b[row][col]])
		}
		fmt.Println()
	}
}
