package model

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/chess"
	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

// Session errors surfaced to controllers.
var (
	ErrGameOver    = errors.New("game is over")
	ErrNotYourTurn = errors.New("not your turn")
	ErrIllegalMove = errors.New("invalid move, not legal")
	ErrNotInGame   = errors.New("player not in game")
	ErrGameFull    = errors.New("game is full")
)

const (
	botPlayerID = "computer"
	botName     = "Computer"

	// How long the engine waits before answering a human move.
	defaultBotDelay = 200 * time.Millisecond
)

// GameConnections tracks the sockets subscribed to one game.
type GameConnections struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn // playerID -> connection
}

func newGameConnections() *GameConnections {
	return &GameConnections{connections: make(map[string]*websocket.Conn)}
}

// Game is a single session: the current position, whose turn it is, the
// selection, the seated players, and the sockets watching. Rule questions
// all go to the chess package, and every move replaces the board value
// wholesale.
type Game struct {
	ID string

	mu            sync.Mutex
	board         chess.Board
	toMove        chess.Color
	selected      *chess.Square
	selectedMoves []chess.Square
	lastMove      *chess.Move
	captured      CapturedPieces
	result        *GameResult
	players       GamePlayers
	sound         string
	plies         int
	finished      bool

	bot      *engine.Engine
	botColor chess.Color
	botDelay time.Duration

	clock       *Clock
	connections *GameConnections

	// OnFinish, when set, runs once in its own goroutine after the game
	// reaches a result.
	OnFinish func(g *Game)
}

// NewGame opens a session on the starting position with both seats free.
func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		board:       chess.NewBoard(),
		toMove:      chess.White,
		captured:    CapturedPieces{White: []PieceState{}, Black: []PieceState{}},
		clock:       NewClock(),
		connections: newGameConnections(),
	}
}

// NewComputerGame opens a session with bot seated opposite humanColor. A
// bot playing White makes the opening move on its own.
func NewComputerGame(id string, humanColor chess.Color, bot *engine.Engine) *Game {
	g := NewGame(id)
	g.bot = bot
	g.botColor = humanColor.Other()
	g.botDelay = defaultBotDelay
	seat := ClientPlayer{ID: botPlayerID, Name: botName, Color: g.botColor.String()}
	if g.botColor == chess.White {
		g.players.White = seat
	} else {
		g.players.Black = seat
	}
	g.scheduleBotReply()
	return g
}

// AddPlayer seats playerID on the first free side and returns the color.
// Seating a player who already holds a seat returns their color again.
func (g *Game) AddPlayer(player Player) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.playerColor(player.ID); ok {
		return color.String(), nil
	}
	if g.players.White.ID == "" {
		g.players.White = ClientPlayer{ID: player.ID, Name: player.Name, Color: "white"}
		return "white", nil
	}
	if g.players.Black.ID == "" {
		g.players.Black = ClientPlayer{ID: player.ID, Name: player.Name, Color: "black"}
		return "black", nil
	}
	return "", ErrGameFull
}

// MakeMove validates and plays a move for playerID, then hands the turn to
// the engine when one is seated. The new state is broadcast to every
// connection.
func (g *Game) MakeMove(playerID string, move chess.Move) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.result != nil {
		return ErrGameOver
	}
	color, ok := g.playerColor(playerID)
	if !ok {
		return ErrNotInGame
	}
	if color != g.toMove {
		return ErrNotYourTurn
	}
	if err := g.applyMove(move); err != nil {
		return err
	}
	g.scheduleBotReply()
	return nil
}

// Select records a selection for the side to move and works out the legal
// destinations of the piece on that square. Selecting an empty square, an
// opposing piece, or anything once the game is over clears the selection
// instead.
func (g *Game) Select(playerID string, square chess.Square) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.playerColor(playerID)
	if !ok {
		return ErrNotInGame
	}

	g.selected = nil
	g.selectedMoves = nil
	if g.result == nil && square.InBounds() && color == g.toMove {
		if piece := g.board.At(square); !piece.IsEmpty() && piece.Color == color {
			sel := square
			g.selected = &sel
			dests := []chess.Square{}
			for _, m := range g.board.LegalMoves(color) {
				if m.From == square {
					dests = append(dests, m.To)
				}
			}
			g.selectedMoves = dests
		}
	}

	go g.broadcastState()
	return nil
}

// Resign ends the game immediately; the opponent wins.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.result != nil {
		return ErrGameOver
	}
	color, ok := g.playerColor(playerID)
	if !ok {
		return ErrNotInGame
	}

	winner := color.Other().String()
	g.result = &GameResult{Status: "resignation", Winner: &winner}
	g.sound = ""
	g.finish()
	go g.broadcastState()
	return nil
}

// Restart rewinds the session to a fresh game between the same players.
func (g *Game) Restart(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.playerColor(playerID); !ok {
		return ErrNotInGame
	}

	g.board = chess.NewBoard()
	g.toMove = chess.White
	g.selected = nil
	g.selectedMoves = nil
	g.lastMove = nil
	g.captured = CapturedPieces{White: []PieceState{}, Black: []PieceState{}}
	g.result = nil
	g.sound = ""
	g.plies = 0
	g.finished = false
	g.clock = NewClock()

	g.scheduleBotReply()
	go g.broadcastState()
	return nil
}

// GetState assembles the wire snapshot of the session.
func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.buildState()
}

// IsPlayerInGame reports whether playerID holds a seat.
func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.playerColor(playerID)
	return ok
}

// Result returns how the game ended, or nil while it is running.
func (g *Game) Result() *GameResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result
}

// Plies returns the number of half-moves played so far.
func (g *Game) Plies() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.plies
}

// Duration returns how long the game has been running since its first
// move.
func (g *Game) Duration() time.Duration {
	g.mu.Lock()
	clock := g.clock
	g.mu.Unlock()
	return clock.Elapsed()
}

// VsComputer reports whether an engine holds a seat.
func (g *Game) VsComputer() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bot != nil
}

// applyMove checks move against the legal move list and executes it. The
// caller holds the lock.
func (g *Game) applyMove(move chess.Move) error {
	if !move.From.InBounds() || !move.To.InBounds() {
		return errors.New("invalid move, out of bounds")
	}
	legal := false
	for _, m := range g.board.LegalMoves(g.toMove) {
		if m == move {
			legal = true
			break
		}
	}
	if !legal {
		return ErrIllegalMove
	}
	g.executeMove(move)
	return nil
}

// executeMove plays a move already known to be legal: apply it, flip the
// turn, and classify the new position. The caller holds the lock.
func (g *Game) executeMove(move chess.Move) {
	g.clock.Start()

	g.sound = "move"
	if target := g.board.At(move.To); !target.IsEmpty() {
		g.sound = "capture"
		if target.Color == chess.White {
			g.captured.White = append(g.captured.White, *newPieceState(target))
		} else {
			g.captured.Black = append(g.captured.Black, *newPieceState(target))
		}
	}

	g.board = g.board.Apply(move)
	played := move
	g.lastMove = &played
	g.plies++
	g.selected = nil
	g.selectedMoves = nil

	g.toMove = g.toMove.Other()
	if g.board.InCheck(g.toMove) {
		g.sound = "check"
	}

	switch outcome := g.board.Classify(g.toMove); outcome.Status {
	case chess.Checkmate:
		winner := outcome.Winner.String()
		g.result = &GameResult{Status: "checkmate", Winner: &winner}
	case chess.Stalemate:
		g.result = &GameResult{Status: "stalemate"}
	}
	if g.result != nil {
		g.finish()
	}

	go g.broadcastState()
}

// scheduleBotReply arms the engine's answer when it is the engine's turn.
// A zero delay answers synchronously, which tests rely on. The caller
// holds the lock (or owns the game exclusively during construction).
func (g *Game) scheduleBotReply() {
	if g.bot == nil || g.result != nil || g.toMove != g.botColor {
		return
	}
	if g.botDelay <= 0 {
		g.playBotMove()
		return
	}
	time.AfterFunc(g.botDelay, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		g.playBotMove()
	})
}

// playBotMove asks the engine for a move and executes it. The caller holds
// the lock. The turn and result are re-checked because the game can change
// between scheduling and firing.
func (g *Game) playBotMove() {
	if g.result != nil || g.toMove != g.botColor {
		return
	}
	move, ok := g.bot.ChooseMove(g.board, g.botColor)
	if !ok {
		return
	}
	g.executeMove(move)
}

// finish stops the clock and fires OnFinish exactly once. The caller holds
// the lock.
func (g *Game) finish() {
	g.clock.Stop()
	if g.finished {
		return
	}
	g.finished = true
	if g.OnFinish != nil {
		go g.OnFinish(g)
	}
}

// playerColor resolves a player ID to their side. The caller holds the
// lock.
func (g *Game) playerColor(playerID string) (chess.Color, bool) {
	switch {
	case g.players.White.ID != "" && g.players.White.ID == playerID:
		return chess.White, true
	case g.players.Black.ID != "" && g.players.Black.ID == playerID:
		return chess.Black, true
	}
	return chess.White, false
}

// canSpectate reports whether a seat is still open. The caller holds the
// lock.
func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

// buildState snapshots the session for the wire. The caller holds the
// lock.
func (g *Game) buildState() GameState {
	board := make([][]*PieceState, 8)
	for row := 0; row < 8; row++ {
		board[row] = make([]*PieceState, 8)
		for col := 0; col < 8; col++ {
			p := g.board.At(chess.Square{Row: row, Col: col})
			if p.IsEmpty() {
				continue
			}
			board[row][col] = newPieceState(p)
		}
	}

	state := GameState{
		Sound:          g.sound,
		Board:          board,
		ToMove:         g.toMove.String(),
		SelectedSquare: g.selected,
		LegalMoves:     g.selectedMoves,
		LastMove:       g.lastMove,
		CapturedPieces: g.captured,
		Result:         g.result,
		Players:        g.players,
	}
	if g.board.InCheck(g.toMove) {
		state.IsCheck = true
		if king, ok := g.board.FindKing(g.toMove); ok {
			state.CheckSquare = &king
		}
	}
	if state.LegalMoves == nil {
		state.LegalMoves = []chess.Square{}
	}
	return state
}

// RegisterConnection attaches conn to the game for playerID. Seated
// players and, while a seat is open, spectators are allowed one connection
// each; a duplicate is closed politely.
func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	_, seated := g.playerColor(playerID)
	authorized := seated || g.canSpectate()
	g.mu.Unlock()

	if !authorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "connection already exists"),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	// Send the newcomer (and everyone else) the current state.
	go g.broadcastState()
	return nil
}

// UnregisterConnection detaches playerID's socket, if any.
func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	delete(g.connections.connections, playerID)
}

// broadcastState pushes the current snapshot to every connection. Writers
// that fail are dropped from the set.
func (g *Game) broadcastState() {
	state := g.GetState()

	payload, err := json.Marshal(state)
	if err != nil {
		log.Printf("game %s: failed to marshal state: %v", g.ID, err)
		return
	}

	g.connections.mu.RLock()
	active := make(map[string]*websocket.Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range active {
		err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		})
		if err != nil {
			log.Printf("game %s: failed to send state to player %s: %v", g.ID, playerID, err)
			g.connections.mu.Lock()
			delete(g.connections.connections, playerID)
			g.connections.mu.Unlock()
		}
	}
}
