package engine

import (
	"math/rand"
	"testing"

	"github.com/benbeisheim/chess-backend/internal/chess"
	"github.com/benbeisheim/chess-backend/internal/testutil"
)

func seeded(seed int64) *Engine {
	return New(rand.New(rand.NewSource(seed)))
}

func sq(row, col int) chess.Square { return chess.Square{Row: row, Col: col} }

func mv(fromRow, fromCol, toRow, toCol int) chess.Move {
	return chess.Move{From: sq(fromRow, fromCol), To: sq(toRow, toCol)}
}

func TestChooseMoveReturnsLegalMove(t *testing.T) {
	b := chess.NewBoard()
	m, ok := seeded(1).ChooseMove(b, chess.White)

	testutil.AssertTrue(t, ok)
	found := false
	for _, legal := range b.LegalMoves(chess.White) {
		if legal == m {
			found = true
			break
		}
	}
	testutil.AssertTrue(t, found)
}

func TestChooseMoveDeterministicForSeed(t *testing.T) {
	b := chess.NewBoard()
	first, _ := seeded(42).ChooseMove(b, chess.White)
	second, _ := seeded(42).ChooseMove(b, chess.White)

	testutil.AssertEqual(t, first, second)
}

func TestChooseMoveVariesAcrossSeeds(t *testing.T) {
	// All twenty openers score the same, so the tie-break should not pick
	// one move for every seed.
	b := chess.NewBoard()
	seen := map[chess.Move]bool{}
	for seed := int64(0); seed < 20; seed++ {
		m, ok := seeded(seed).ChooseMove(b, chess.White)
		testutil.AssertTrue(t, ok)
		seen[m] = true
	}
	if len(seen) < 2 {
		t.Errorf("tie-break always chose the same opener: %v", seen)
	}
}

func TestChooseMoveTakesTheQueen(t *testing.T) {
	// Capturing the queen is the unique best score, so the seed is
	// irrelevant.
	b := chess.Board{}.
		Place(sq(7, 0), chess.NewPiece(chess.White, chess.King)).
		Place(sq(4, 4), chess.NewPiece(chess.White, chess.Rook)).
		Place(sq(4, 7), chess.NewPiece(chess.Black, chess.Queen)).
		Place(sq(0, 0), chess.NewPiece(chess.Black, chess.King))

	for seed := int64(0); seed < 5; seed++ {
		m, ok := seeded(seed).ChooseMove(b, chess.White)
		testutil.AssertTrue(t, ok)
		testutil.AssertEqual(t, m, mv(4, 4, 4, 7))
	}
}

func TestChooseMovePrefersPromotion(t *testing.T) {
	b := chess.Board{}.
		Place(sq(1, 0), chess.NewPiece(chess.White, chess.Pawn)).
		Place(sq(7, 7), chess.NewPiece(chess.White, chess.King)).
		Place(sq(0, 4), chess.NewPiece(chess.Black, chess.King))

	m, ok := seeded(3).ChooseMove(b, chess.White)

	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, m, mv(1, 0, 0, 0))
}

func TestChooseMoveScoresForBlack(t *testing.T) {
	// Black gains by capturing, which drives material negative.
	b := chess.Board{}.
		Place(sq(0, 0), chess.NewPiece(chess.Black, chess.King)).
		Place(sq(3, 3), chess.NewPiece(chess.Black, chess.Knight)).
		Place(sq(5, 4), chess.NewPiece(chess.White, chess.Rook)).
		Place(sq(7, 7), chess.NewPiece(chess.White, chess.King))

	m, ok := seeded(11).ChooseMove(b, chess.Black)

	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, m, mv(3, 3, 5, 4))
}

func TestChooseMoveWithNoLegalMoves(t *testing.T) {
	// Fool's mate: White to move and checkmated.
	b := chess.NewBoard().
		Apply(mv(6, 5, 5, 5)).
		Apply(mv(1, 4, 3, 4)).
		Apply(mv(6, 6, 4, 6)).
		Apply(mv(0, 3, 4, 7))

	_, ok := seeded(7).ChooseMove(b, chess.White)
	testutil.AssertFalse(t, ok)
}

func TestNewWithNilRand(t *testing.T) {
	m, ok := New(nil).ChooseMove(chess.NewBoard(), chess.White)

	testutil.AssertTrue(t, ok)
	testutil.AssertTrue(t, m.From.InBounds() && m.To.InBounds())
}
