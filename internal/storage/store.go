// Package storage persists finished games and aggregate statistics.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	keyStats      = "stats"
	gameKeyPrefix = "game:"
)

// GameRecord is the durable summary of one finished game.
type GameRecord struct {
	GameID     string        `json:"game_id"`
	Status     string        `json:"status"`
	Winner     string        `json:"winner,omitempty"`
	Plies      int           `json:"plies"`
	Duration   time.Duration `json:"duration"`
	VsComputer bool          `json:"vs_computer"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Stats aggregates every recorded game.
type Stats struct {
	GamesPlayed   int            `json:"games_played"`
	Checkmates    int            `json:"checkmates"`
	Stalemates    int            `json:"stalemates"`
	Resignations  int            `json:"resignations"`
	WinsByColor   map[string]int `json:"wins_by_color"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{WinsByColor: make(map[string]int)}
}

// Store wraps BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens, creating if needed, the database under dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a store that never touches disk. Tests use it.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordGame writes the game's record and folds it into the aggregate
// statistics, both in one transaction.
func (s *Store) RecordGame(rec GameRecord) error {
	return s.db.Update(func(txn *badger.Txn) error {
		recData, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(gameKeyPrefix+rec.GameID), recData); err != nil {
			return err
		}

		stats, err := loadStats(txn)
		if err != nil {
			return err
		}
		stats.GamesPlayed++
		stats.TotalPlayTime += rec.Duration
		switch rec.Status {
		case "checkmate":
			stats.Checkmates++
		case "stalemate":
			stats.Stalemates++
		case "resignation":
			stats.Resignations++
		}
		if rec.Winner != "" {
			stats.WinsByColor[rec.Winner]++
		}

		statsData, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), statsData)
	})
}

// LoadStats returns the aggregate statistics, empty when nothing has been
// recorded yet.
func (s *Store) LoadStats() (*Stats, error) {
	stats := NewStats()
	err := s.db.View(func(txn *badger.Txn) error {
		loaded, err := loadStats(txn)
		if err != nil {
			return err
		}
		stats = loaded
		return nil
	})
	return stats, err
}

// LoadGame fetches one finished game's record by ID.
func (s *Store) LoadGame(gameID string) (*GameRecord, error) {
	rec := &GameRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(gameKeyPrefix + gameID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}
	return rec, nil
}

func loadStats(txn *badger.Txn) (*Stats, error) {
	stats := NewStats()
	item, err := txn.Get([]byte(keyStats))
	if err == badger.ErrKeyNotFound {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	return stats, err
}
