package chess

// Color identifies a side. The zero value is White.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing side.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceKind identifies what a piece is. The zero value is Empty, so a zero
// Piece marks an unoccupied square.
type PieceKind uint8

const (
	Empty PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{"", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (k PieceKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return ""
}

// Material worth per kind in pawns, indexed by PieceKind. Kings carry no
// material value: they are never captured.
var kindValues = [...]int{0, 1, 3, 3, 5, 9, 0}

// Value returns the material worth of the kind in pawns.
func (k PieceKind) Value() int {
	if int(k) < len(kindValues) {
		return kindValues[k]
	}
	return 0
}

// Piece is a colored piece occupying a square. The zero Piece is an empty
// square.
type Piece struct {
	Color Color
	Kind  PieceKind
}

// NewPiece builds a piece of the given color and kind.
func NewPiece(c Color, k PieceKind) Piece {
	return Piece{Color: c, Kind: k}
}

// IsEmpty reports whether p marks an unoccupied square.
func (p Piece) IsEmpty() bool {
	return p.Kind == Empty
}
