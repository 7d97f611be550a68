package chess

// Square addresses a board cell. Row 0 is Black's back rank, row 7 is
// White's, and columns run left to right from White's side of the board.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether the square lies on the board.
func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

// Move is a from/to square pair. It carries no promotion marker: a pawn
// reaching its far rank always becomes a queen.
type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}
