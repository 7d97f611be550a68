package chess

// Status classifies a position for the side to move.
type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "ongoing"
}

// Outcome is the verdict on a position. Winner is meaningful only when
// Status is Checkmate.
type Outcome struct {
	Status Status
	Winner Color
}

// Classify decides whether the side to move is out of the game: with at
// least one legal move the game is ongoing, with none it is checkmate when
// that side stands in check and stalemate otherwise. The winner of a
// checkmate is the side that delivered it. The verdict is computed from
// the position alone on every call.
func (b Board) Classify(toMove Color) Outcome {
	if len(b.LegalMoves(toMove)) > 0 {
		return Outcome{Status: Ongoing}
	}
	if b.InCheck(toMove) {
		return Outcome{Status: Checkmate, Winner: toMove.Other()}
	}
	return Outcome{Status: Stalemate}
}
