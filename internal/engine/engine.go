// Package engine picks moves for the computer player.
package engine

import (
	"math/rand"
	"time"

	"github.com/benbeisheim/chess-backend/internal/chess"
)

// Engine selects moves one ply deep: every legal move is scored by the
// material balance it leaves behind, and the winner is drawn uniformly at
// random from the best-scoring set. It looks no further ahead, so it will
// happily grab a guarded pawn.
type Engine struct {
	rng *rand.Rand
}

// New returns an engine drawing its tie-break choices from rng. A nil rng
// gets a time-seeded source; tests pass a fixed seed for repeatable play.
func New(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rng: rng}
}

// ChooseMove picks a move for color on b. The second return is false when
// color has no legal move; the caller reads that as game over, not as an
// error.
func (e *Engine) ChooseMove(b chess.Board, color chess.Color) (chess.Move, bool) {
	moves := b.LegalMoves(color)
	if len(moves) == 0 {
		return chess.Move{}, false
	}

	// Material counts White positive, so flip the sign for Black.
	sign := 1
	if color == chess.Black {
		sign = -1
	}

	best := []chess.Move{moves[0]}
	bestScore := sign * b.Apply(moves[0]).Material()
	for _, m := range moves[1:] {
		score := sign * b.Apply(m).Material()
		switch {
		case score > bestScore:
			bestScore = score
			best = []chess.Move{m}
		case score == bestScore:
			best = append(best, m)
		}
	}
	return best[e.rng.Intn(len(best))], true
}
