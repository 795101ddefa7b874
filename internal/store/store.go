// Package store archives finished games and keeps aggregate results in BadgerDB.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	gamePrefix = "game/"
	keyStats   = "stats"
)

var ErrRecordNotFound = errors.New("game record not found")

// GameRecord is the archived form of a finished game.
type GameRecord struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"`
	Result     string    `json:"result"`
	Winner     string    `json:"winner,omitempty"`
	Moves      []string  `json:"moves"`
	FinalFEN   string    `json:"finalFen"`
	White      string    `json:"white"`
	Black      string    `json:"black"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Stats aggregates every archived result.
type Stats struct {
	GamesPlayed int `json:"gamesPlayed"`
	WhiteWins   int `json:"whiteWins"`
	BlackWins   int `json:"blackWins"`
	Draws       int `json:"draws"`
}

func (s *Stats) record(rec GameRecord) {
	s.GamesPlayed++
	switch rec.Winner {
	case "white":
		s.WhiteWins++
	case "black":
		s.BlackWins++
	default:
		s.Draws++
	}
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Storage, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Storage, error) {
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame stores rec and folds it into the stats in one transaction.
// Saving an ID that is already archived overwrites it without counting twice.
func (s *Storage) SaveGame(rec GameRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(gamePrefix + rec.ID)
		_, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			stats, err := loadStats(txn)
			if err != nil {
				return err
			}
			stats.record(rec)
			if err := saveStats(txn, stats); err != nil {
				return err
			}
		case err != nil:
			return err
		}
		return txn.Set(key, data)
	})
}

// LoadGame returns the archived game with the given ID.
func (s *Storage) LoadGame(id string) (GameRecord, error) {
	var rec GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(gamePrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrRecordNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	return rec, err
}

// ListGames returns up to limit archived games ordered by ID; limit <= 0 means all.
func (s *Storage) ListGames(limit int) ([]GameRecord, error) {
	records := make([]GameRecord, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(records) >= limit {
				break
			}
			var rec GameRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	return records, err
}

// LoadStats returns the aggregate results, zero if nothing is archived yet.
func (s *Storage) LoadStats() (Stats, error) {
	var stats Stats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn)
		return err
	})
	return stats, err
}

func loadStats(txn *badger.Txn) (Stats, error) {
	var stats Stats
	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil
	}
	if err != nil {
		return stats, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &stats)
	})
	return stats, err
}

func saveStats(txn *badger.Txn, stats Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return txn.Set([]byte(keyStats), data)
}
