// Package chess implements the board, move generation, and game-over rules
// for a plain game of chess: no castling, no en passant, and pawns always
// promote to queens.
package chess

// Board is an 8x8 mailbox of pieces. It is a value type: no method mutates
// the receiver, and Place and Apply return the changed position as a new
// Board. The zero value is an empty board.
type Board struct {
	grid [8][8]Piece
}

// NewBoard returns the standard starting position with White on rows 6 and
// 7 and Black on rows 0 and 1.
func NewBoard() Board {
	var b Board
	back := [8]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, kind := range back {
		b.grid[0][col] = Piece{Color: Black, Kind: kind}
		b.grid[7][col] = Piece{Color: White, Kind: kind}
	}
	for col := 0; col < 8; col++ {
		b.grid[1][col] = Piece{Color: Black, Kind: Pawn}
		b.grid[6][col] = Piece{Color: White, Kind: Pawn}
	}
	return b
}

// At returns the piece on sq.
func (b Board) At(sq Square) Piece {
	return b.grid[sq.Row][sq.Col]
}

// Place returns a copy of b with p on sq, replacing whatever was there.
// Any arrangement of pieces can be built this way, including positions no
// game could reach.
func (b Board) Place(sq Square, p Piece) Board {
	b.grid[sq.Row][sq.Col] = p
	return b
}

// Apply returns the position after move: the piece on move.From lands on
// move.To, replacing whatever occupied it, and a pawn reaching its far rank
// becomes a queen. The move is not checked for legality.
func (b Board) Apply(move Move) Board {
	p := b.grid[move.From.Row][move.From.Col]
	b.grid[move.From.Row][move.From.Col] = Piece{}
	if p.Kind == Pawn {
		if (p.Color == White && move.To.Row == 0) || (p.Color == Black && move.To.Row == 7) {
			p.Kind = Queen
		}
	}
	b.grid[move.To.Row][move.To.Col] = p
	return b
}

// FindKing returns the square of color's king, scanning rows top to
// bottom. The second return is false when no such king is on the board.
func (b Board) FindKing(color Color) (Square, bool) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			if p.Kind == King && p.Color == color {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return Square{}, false
}

// Material sums piece values over the board, White counted positive and
// Black negative.
func (b Board) Material() int {
	total := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			if p.IsEmpty() {
				continue
			}
			if p.Color == White {
				total += p.Kind.Value()
			} else {
				total -= p.Kind.Value()
			}
		}
	}
	return total
}
