package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keySettings = "tensorchess:ui"
	keyLastGame = "tensorchess:last-game"
	keyStats    = "tensorchess:stats"
)

// Heat scale bounds
const (
	MinHeatBaseScale     = 0.5
	MaxHeatBaseScale     = 1.5
	DefaultHeatBaseScale = 1.0
)

// Settings stores the display preferences of the explorer.
type Settings struct {
	Flipped          bool    `json:"flipped"`
	ShowHeat         bool    `json:"showHeat"`
	ShowVectors      bool    `json:"showVectors"`
	ShowAttackLayer  bool    `json:"showAttackLayer"`
	ShowSupportLayer bool    `json:"showSupportLayer"`
	Show2DBoard      bool    `json:"show2dBoard"`
	Show3DBoard      bool    `json:"show3dBoard"`
	HeatBaseScale    float64 `json:"heatBaseScale"`
}

// DefaultSettings returns default settings
func DefaultSettings() *Settings {
	return &Settings{
		ShowHeat:         true,
		ShowAttackLayer:  true,
		ShowSupportLayer: true,
		Show2DBoard:      true,
		Show3DBoard:      true,
		HeatBaseScale:    DefaultHeatBaseScale,
	}
}

// ClampHeatBaseScale limits v to the supported heat scale range.
// Non-positive values reset to the default.
func ClampHeatBaseScale(v float64) float64 {
	switch {
	case v <= 0:
		return DefaultHeatBaseScale
	case v < MinHeatBaseScale:
		return MinHeatBaseScale
	case v > MaxHeatBaseScale:
		return MaxHeatBaseScale
	}
	return v
}

// Normalize clamps out-of-range values in place.
func (s *Settings) Normalize() {
	s.HeatBaseScale = ClampHeatBaseScale(s.HeatBaseScale)
}

// LastGame remembers the scenario and position that were open last.
type LastGame struct {
	Scenario string    `json:"scenario"`
	FEN      string    `json:"fen"`
	SavedAt  time.Time `json:"saved_at"`
}

// Stats counts finished games and moves across sessions.
type Stats struct {
	MovesPlayed int `json:"moves_played"`
	AutoMoves   int `json:"auto_moves"`
	Undos       int `json:"undos"`
	WhiteMates  int `json:"white_mates"` // white delivered mate
	BlackMates  int `json:"black_mates"`
	Stalemates  int `json:"stalemates"`
}

// GamesFinished returns the number of games that reached mate or stalemate.
func (s *Stats) GamesFinished() int {
	return s.WhiteMates + s.BlackMates + s.Stalemates
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the database under dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open storage at %s: %w", dir, err)
	}
	return &Storage{db: db}, nil
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory storage: %w", err)
	}
	return &Storage{db: db}, nil
}

// NewStorage opens the database in the default data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) put(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes key into v. A missing key leaves v untouched.
func (s *Storage) get(key string, v interface{}) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// SaveSettings saves settings after clamping them.
func (s *Storage) SaveSettings(settings *Settings) error {
	settings.Normalize()
	return s.put(keySettings, settings)
}

// LoadSettings loads settings, returns defaults if not found
func (s *Storage) LoadSettings() (*Settings, error) {
	settings := DefaultSettings()
	if err := s.get(keySettings, settings); err != nil {
		return DefaultSettings(), err
	}
	settings.Normalize()
	return settings, nil
}

// SaveLastGame records the open scenario and position.
func (s *Storage) SaveLastGame(scenario, fen string) error {
	return s.put(keyLastGame, &LastGame{Scenario: scenario, FEN: fen, SavedAt: time.Now()})
}

// LoadLastGame returns the last saved game. The second result is false when
// nothing has been saved yet.
func (s *Storage) LoadLastGame() (*LastGame, bool, error) {
	var lg LastGame
	if err := s.get(keyLastGame, &lg); err != nil {
		return nil, false, err
	}
	if lg.Scenario == "" && lg.FEN == "" {
		return nil, false, nil
	}
	return &lg, true, nil
}

// LoadStats loads statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*Stats, error) {
	stats := &Stats{}
	err := s.get(keyStats, stats)
	return stats, err
}

// UpdateStats applies fn to the stored statistics in one transaction.
func (s *Storage) UpdateStats(fn func(*Stats)) error {
	return s.db.Update(func(txn *badger.Txn) error {
		stats := &Stats{}
		item, err := txn.Get([]byte(keyStats))
		switch {
		case err == badger.ErrKeyNotFound:
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, stats)
			}); err != nil {
				return err
			}
		}

		fn(stats)

		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), data)
	})
}
