package chess

// SquareAttacked reports whether any piece of color by could move onto sq.
// It generates by's pseudo-legal moves and scans their destinations;
// nothing is cached between calls.
func (b Board) SquareAttacked(sq Square, by Color) bool {
	for _, m := range b.PseudoLegalMoves(by) {
		if m.To == sq {
			return true
		}
	}
	return false
}

// InCheck reports whether color's king currently stands attacked. A board
// with no king of that color is never in check.
func (b Board) InCheck(color Color) bool {
	king, ok := b.FindKing(color)
	if !ok {
		return false
	}
	return b.SquareAttacked(king, color.Other())
}
