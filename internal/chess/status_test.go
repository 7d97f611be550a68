package chess

import (
	"testing"

	"github.com/benbeisheim/chess-backend/internal/testutil"
)

func TestFoolsMate(t *testing.T) {
	b := NewBoard()
	moves := []Move{
		mv(6, 5, 5, 5), // f2-f3
		mv(1, 4, 3, 4), // e7-e5
		mv(6, 6, 4, 6), // g2-g4
		mv(0, 3, 4, 7), // Qd8-h4
	}
	colors := []Color{White, Black, White, Black}
	for i, m := range moves {
		if !containsMove(b.LegalMoves(colors[i]), m) {
			t.Fatalf("move %d (%v) should be legal for %v", i, m, colors[i])
		}
		b = b.Apply(m)
	}

	testutil.AssertTrue(t, b.InCheck(White))
	testutil.AssertEqual(t, len(b.LegalMoves(White)), 0)
	testutil.AssertEqual(t, b.Classify(White), Outcome{Status: Checkmate, Winner: Black})
}

func TestQueenMate(t *testing.T) {
	// Queen on g7, guarded by the king on g6, mates the king on h8.
	b := Board{}.
		Place(sq(0, 7), NewPiece(Black, King)).
		Place(sq(1, 6), NewPiece(White, Queen)).
		Place(sq(2, 6), NewPiece(White, King))

	testutil.AssertEqual(t, b.Classify(Black), Outcome{Status: Checkmate, Winner: White})
}

func TestStalemate(t *testing.T) {
	// Queen to b6 boxes in the cornered king without giving check.
	b := Board{}.
		Place(sq(0, 0), NewPiece(Black, King)).
		Place(sq(0, 2), NewPiece(White, King)).
		Place(sq(7, 1), NewPiece(White, Queen))
	b = b.Apply(mv(7, 1, 2, 1))

	testutil.AssertFalse(t, b.InCheck(Black))
	testutil.AssertEqual(t, len(b.LegalMoves(Black)), 0)
	testutil.AssertEqual(t, b.Classify(Black), Outcome{Status: Stalemate})
}

func TestClassifyOngoing(t *testing.T) {
	testutil.AssertEqual(t, NewBoard().Classify(White), Outcome{Status: Ongoing})
	testutil.AssertEqual(t, NewBoard().Classify(Black), Outcome{Status: Ongoing})
}

func TestCheckWithEscapeIsOngoing(t *testing.T) {
	b := Board{}.
		Place(sq(7, 4), NewPiece(White, King)).
		Place(sq(0, 4), NewPiece(Black, Rook)).
		Place(sq(0, 0), NewPiece(Black, King))

	testutil.AssertTrue(t, b.InCheck(White))
	testutil.AssertEqual(t, b.Classify(White), Outcome{Status: Ongoing})
}

func TestClassifyBareSide(t *testing.T) {
	// A side with no pieces has no moves and no king to stand in check.
	testutil.AssertEqual(t, Board{}.Classify(White), Outcome{Status: Stalemate})
}

func TestStatusString(t *testing.T) {
	testutil.AssertEqual(t, Ongoing.String(), "ongoing")
	testutil.AssertEqual(t, Checkmate.String(), "checkmate")
	testutil.AssertEqual(t, Stalemate.String(), "stalemate")
}
