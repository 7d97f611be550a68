// Package service owns the live game sessions and the matchmaking queue.
package service

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/chess"
	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/storage"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

var ErrGameNotFound = errors.New("game not found")

// GameManager holds every running game, pairs queued players, and records
// finished games to the store. The store may be nil, in which case results
// are only logged.
type GameManager struct {
	mu               sync.RWMutex
	games            map[string]*model.Game
	matchingChannels map[string]chan model.MatchFoundEvent

	queue *model.Queue
	store *storage.Store
	stop  chan struct{}
}

// NewGameManager starts a manager whose matchmaking loop wakes every
// matchInterval. Tests pass a short interval; the server uses a second.
func NewGameManager(store *storage.Store, matchInterval time.Duration) *GameManager {
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		matchingChannels: make(map[string]chan model.MatchFoundEvent),
		queue:            model.NewQueue(),
		store:            store,
		stop:             make(chan struct{}),
	}
	go gm.processMatchmaking(matchInterval)
	return gm
}

// Stop ends the matchmaking loop. Running games are unaffected.
func (gm *GameManager) Stop() {
	close(gm.stop)
}

// CreateGame opens a new game and returns its ID. When vsComputer is set
// the engine is seated opposite humanColor ("white" when blank) and the
// human's seat is left open for the creator to join.
func (gm *GameManager) CreateGame(vsComputer bool, humanColor string) (string, error) {
	gameID := uuid.New().String()

	var game *model.Game
	if vsComputer {
		color := chess.White
		if humanColor == "black" {
			color = chess.Black
		}
		game = model.NewComputerGame(gameID, color, engine.New(nil))
	} else {
		game = model.NewGame(gameID)
	}
	game.OnFinish = gm.recordResult

	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.games[gameID] = game
	return gameID, nil
}

// GetGame looks up a running game by ID.
func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// AddPlayerToGame seats the player and returns the color they drew.
func (gm *GameManager) AddPlayerToGame(gameID string, player model.Player) (string, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(withDisplayName(player))
}

// JoinMatchmaking puts the player in the pairing queue.
func (gm *GameManager) JoinMatchmaking(player model.Player) error {
	return gm.queue.AddPlayer(withDisplayName(player))
}

// LeaveMatchmaking drops the player from the queue and releases their
// notification channel. Called when a matchmaking socket goes away.
func (gm *GameManager) LeaveMatchmaking(playerID string) {
	gm.queue.Remove(playerID)
	gm.UnregisterMatchmakingChannel(playerID)
}

// RegisterMatchmakingChannel points the pairing loop at the channel a
// player's socket is waiting on. A player reconnecting replaces and closes
// their old channel.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if old, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(old)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel detaches a player's notification channel
// without closing it; the socket handler owns the channel's lifetime.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.matchingChannels, playerID)
}

// RegisterConnection attaches a game socket.
func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

// UnregisterConnection detaches a game socket. Unknown games are ignored.
func (gm *GameManager) UnregisterConnection(gameID string, playerID string) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID)
}

// Stats returns the aggregate record of finished games.
func (gm *GameManager) Stats() (*storage.Stats, error) {
	if gm.store == nil {
		return storage.NewStats(), nil
	}
	return gm.store.LoadStats()
}

// processMatchmaking pairs waiting players on every tick until Stop.
func (gm *GameManager) processMatchmaking(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.stop:
			return
		case <-ticker.C:
			gm.matchPairs()
		}
	}
}

// matchPairs drains the queue two players at a time, creating a game for
// each pair and notifying both sockets.
func (gm *GameManager) matchPairs() {
	for gm.queue.Size() >= 2 {
		first, second := gm.queue.GetNextPair()

		gameID := uuid.New().String()
		game := model.NewGame(gameID)
		game.OnFinish = gm.recordResult

		firstColor, err := game.AddPlayer(first)
		if err != nil {
			log.Printf("matchmaking: failed to seat %s: %v", first.ID, err)
			continue
		}
		secondColor, err := game.AddPlayer(second)
		if err != nil {
			log.Printf("matchmaking: failed to seat %s: %v", second.ID, err)
			continue
		}

		gm.mu.Lock()
		gm.games[gameID] = game
		gm.mu.Unlock()

		gm.notifyMatch(first.ID, model.MatchFoundEvent{GameID: gameID, Color: firstColor})
		gm.notifyMatch(second.ID, model.MatchFoundEvent{GameID: gameID, Color: secondColor})
	}
}

// notifyMatch hands the event to the player's waiting socket, if one is
// registered and keeping up. The channel is released either way: a match
// is announced at most once.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	gm.mu.Lock()
	ch, ok := gm.matchingChannels[playerID]
	if ok {
		delete(gm.matchingChannels, playerID)
	}
	gm.mu.Unlock()

	if !ok {
		log.Printf("matchmaking: no channel for player %s, dropping match %s", playerID, event.GameID)
		return
	}
	select {
	case ch <- event:
	default:
		log.Printf("matchmaking: player %s not reading, dropping match %s", playerID, event.GameID)
	}
	close(ch)
}

// recordResult persists a finished game. Runs once per game via
// Game.OnFinish.
func (gm *GameManager) recordResult(g *model.Game) {
	res := g.Result()
	if res == nil {
		return
	}

	rec := storage.GameRecord{
		GameID:     g.ID,
		Status:     res.Status,
		Plies:      g.Plies(),
		Duration:   g.Duration(),
		VsComputer: g.VsComputer(),
		FinishedAt: time.Now(),
	}
	if res.Winner != nil {
		rec.Winner = *res.Winner
	}

	if gm.store == nil {
		log.Printf("game %s finished: %s", g.ID, rec.Status)
		return
	}
	if err := gm.store.RecordGame(rec); err != nil {
		log.Printf("game %s: failed to record result: %v", g.ID, err)
	}
}

// withDisplayName fills in a generated name for players whose client sent
// none.
func withDisplayName(p model.Player) model.Player {
	if p.Name == "" {
		p.Name = petname.Generate(2, "-")
	}
	return p
}
