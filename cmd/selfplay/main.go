// Selfplay runs engine-vs-engine games and tallies how they end. It is a
// development tool for watching the one-ply engine play itself; greedy
// material play can shuffle pieces forever, so games stop at a ply cap.
package main

import (
	"flag"
	"fmt"
	"math/rand"

	"github.com/benbeisheim/chess-backend/internal/chess"
	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/fatih/color"
)

func main() {
	games := flag.Int("games", 10, "number of games to play")
	seed := flag.Int64("seed", 1, "random seed for the engines")
	maxPlies := flag.Int("maxplies", 400, "abandon a game after this many half-moves")
	verbose := flag.Bool("v", false, "print every game's result")
	flag.Parse()

	eng := engine.New(rand.New(rand.NewSource(*seed)))

	var checkmates, stalemates, abandoned int
	wins := map[chess.Color]int{}

	for i := 0; i < *games; i++ {
		outcome, plies := playGame(eng, *maxPlies)
		switch outcome.Status {
		case chess.Checkmate:
			checkmates++
			wins[outcome.Winner]++
			if *verbose {
				color.Green("game %d: checkmate, %s wins in %d plies", i+1, outcome.Winner, plies)
			}
		case chess.Stalemate:
			stalemates++
			if *verbose {
				color.Yellow("game %d: stalemate after %d plies", i+1, plies)
			}
		default:
			abandoned++
			if *verbose {
				color.Red("game %d: abandoned at %d plies", i+1, plies)
			}
		}
	}

	fmt.Printf("\n%d games: %d checkmates (white %d, black %d), %d stalemates, %d abandoned\n",
		*games, checkmates, wins[chess.White], wins[chess.Black], stalemates, abandoned)
}

// playGame plays one game out from the opening position and returns how
// it ended and after how many half-moves.
func playGame(eng *engine.Engine, maxPlies int) (chess.Outcome, int) {
	board := chess.NewBoard()
	toMove := chess.White

	for plies := 0; plies < maxPlies; plies++ {
		if outcome := board.Classify(toMove); outcome.Status != chess.Ongoing {
			return outcome, plies
		}
		move, ok := eng.ChooseMove(board, toMove)
		if !ok {
			return board.Classify(toMove), plies
		}
		board = board.Apply(move)
		toMove = toMove.Other()
	}
	return chess.Outcome{Status: chess.Ongoing}, maxPlies
}
