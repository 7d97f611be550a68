package model

import (
	"errors"
	"sync"
	"time"
)

// QueuedPlayer is a matchmaking entry.
type QueuedPlayer struct {
	Player   Player
	JoinedAt time.Time
}

// Queue holds players waiting to be matched, longest wait first.
type Queue struct {
	mu      sync.Mutex
	players []QueuedPlayer
}

func NewQueue() *Queue {
	return &Queue{players: []QueuedPlayer{}}
}

func (q *Queue) AddPlayer(player Player) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.Player.ID == player.ID {
			return errors.New("player already in queue")
		}
	}
	q.players = append(q.players, QueuedPlayer{Player: player, JoinedAt: time.Now()})
	return nil
}

// GetNextPair pops the two players who have been waiting longest. Only
// call it when Size reports at least two.
func (q *Queue) GetNextPair() (Player, Player) {
	q.mu.Lock()
	defer q.mu.Unlock()

	first := q.players[0].Player
	second := q.players[1].Player
	q.players = q.players[2:]
	return first, second
}

// Remove drops a player who left before being matched. Removing an absent
// player is a no-op.
func (q *Queue) Remove(playerID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, p := range q.players {
		if p.Player.ID == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return
		}
	}
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}

// MatchFoundEvent tells a queued player their game is ready and which side
// they drew.
type MatchFoundEvent struct {
	GameID string `json:"gameId"`
	Color  string `json:"color"`
}
