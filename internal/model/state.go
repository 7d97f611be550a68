package model

import "github.com/benbeisheim/chess-backend/internal/chess"

// PieceState is one board cell on the wire; a nil entry is an empty square.
type PieceState struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

// GameResult reports how a finished game ended. Winner is nil for a
// stalemate.
type GameResult struct {
	Status string  `json:"status"`
	Winner *string `json:"winner"`
}

// GamePlayers holds the two seats.
type GamePlayers struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// CapturedPieces lists pieces taken off the board, keyed by the color of
// the piece that was captured.
type CapturedPieces struct {
	White []PieceState `json:"white"`
	Black []PieceState `json:"black"`
}

// GameState is the snapshot pushed to clients after every change. Check
// status is derived from the position at build time, never carried over.
type GameState struct {
	Sound          string          `json:"sound"`
	Board          [][]*PieceState `json:"board"`
	ToMove         string          `json:"toMove"`
	IsCheck        bool            `json:"isCheck"`
	CheckSquare    *chess.Square   `json:"checkSquare"`
	SelectedSquare *chess.Square   `json:"selectedSquare"`
	LegalMoves     []chess.Square  `json:"legalMoves"`
	LastMove       *chess.Move     `json:"lastMove"`
	CapturedPieces CapturedPieces  `json:"capturedPieces"`
	Result         *GameResult     `json:"result"`
	Players        GamePlayers     `json:"players"`
}

func newPieceState(p chess.Piece) *PieceState {
	return &PieceState{Type: p.Kind.String(), Color: p.Color.String()}
}
