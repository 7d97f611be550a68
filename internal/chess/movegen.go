package chess

// PseudoLegalMoves generates every move color's pieces can make by movement
// rules alone, ignoring whether the mover's king is left attacked. Source
// squares are scanned row by row and each piece emits its moves in a fixed
// direction order, so the result is deterministic for a given position.
func (b Board) PseudoLegalMoves(color Color) []Move {
	moves := []Move{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			if p.IsEmpty() || p.Color != color {
				continue
			}
			moves = append(moves, b.pieceMoves(Square{Row: row, Col: col}, p)...)
		}
	}
	return moves
}

// LegalMoves filters PseudoLegalMoves down to moves that do not leave
// color's own king attacked. Each candidate is tried on a copy of the
// board; the receiver is never disturbed. Generation order is preserved.
func (b Board) LegalMoves(color Color) []Move {
	legal := []Move{}
	for _, m := range b.PseudoLegalMoves(color) {
		if !b.Apply(m).InCheck(color) {
			legal = append(legal, m)
		}
	}
	return legal
}

func (b Board) pieceMoves(from Square, p Piece) []Move {
	switch p.Kind {
	case Pawn:
		return b.pawnMoves(from, p.Color)
	case Knight:
		return b.knightMoves(from, p.Color)
	case Bishop:
		return b.bishopMoves(from, p.Color)
	case Rook:
		return b.rookMoves(from, p.Color)
	case Queen:
		return b.queenMoves(from, p.Color)
	case King:
		return b.kingMoves(from, p.Color)
	}
	return nil
}

func (b Board) pawnMoves(from Square, color Color) []Move {
	moves := []Move{}
	dir := -1
	startRow := 6
	if color == Black {
		dir = 1
		startRow = 1
	}
	// Forward one, then forward two from the starting row, both only onto
	// empty squares.
	one := Square{Row: from.Row + dir, Col: from.Col}
	if one.InBounds() && b.At(one).IsEmpty() {
		moves = append(moves, Move{From: from, To: one})
		two := Square{Row: from.Row + 2*dir, Col: from.Col}
		if from.Row == startRow && b.At(two).IsEmpty() {
			moves = append(moves, Move{From: from, To: two})
		}
	}
	// Diagonal captures, left then right.
	for _, dc := range [2]int{-1, 1} {
		to := Square{Row: from.Row + dir, Col: from.Col + dc}
		if !to.InBounds() {
			continue
		}
		if target := b.At(to); !target.IsEmpty() && target.Color != color {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

func (b Board) knightMoves(from Square, color Color) []Move {
	moves := []Move{}
	jumps := [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	for _, d := range jumps {
		to := Square{Row: from.Row + d[0], Col: from.Col + d[1]}
		if !to.InBounds() {
			continue
		}
		if target := b.At(to); target.IsEmpty() || target.Color != color {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

func (b Board) bishopMoves(from Square, color Color) []Move {
	return b.slideMoves(from, color, [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}})
}

func (b Board) rookMoves(from Square, color Color) []Move {
	return b.slideMoves(from, color, [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}})
}

// Queen moves are the bishop rays followed by the rook rays.
func (b Board) queenMoves(from Square, color Color) []Move {
	return append(b.bishopMoves(from, color), b.rookMoves(from, color)...)
}

func (b Board) kingMoves(from Square, color Color) []Move {
	moves := []Move{}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			to := Square{Row: from.Row + dr, Col: from.Col + dc}
			if !to.InBounds() {
				continue
			}
			if target := b.At(to); target.IsEmpty() || target.Color != color {
				moves = append(moves, Move{From: from, To: to})
			}
		}
	}
	return moves
}

// slideMoves walks each ray until it leaves the board or hits a piece,
// taking the square of an enemy blocker and stopping short of a friendly
// one.
func (b Board) slideMoves(from Square, color Color, dirs [4][2]int) []Move {
	moves := []Move{}
	for _, d := range dirs {
		to := Square{Row: from.Row + d[0], Col: from.Col + d[1]}
		for to.InBounds() {
			target := b.At(to)
			if !target.IsEmpty() {
				if target.Color != color {
					moves = append(moves, Move{From: from, To: to})
				}
				break
			}
			moves = append(moves, Move{From: from, To: to})
			to = Square{Row: to.Row + d[0], Col: to.Col + d[1]}
		}
	}
	return moves
}
