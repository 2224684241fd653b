package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds portal-wide game tunables.
type GameConfig struct {
	// TurnDurationSeconds is the multiplayer per-turn countdown.
	TurnDurationSeconds int64 `json:"turn_duration_seconds"`
	// MaxPlayers caps seats in a collaborative room (2..4).
	MaxPlayers int `json:"max_players"`
	// DatabasePath locates the solo-mode stats ledger.
	DatabasePath string `json:"database_path"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// TurnDuration returns the configured turn countdown or the default of 30.
func TurnDuration() int64 {
	if cfg == nil || cfg.TurnDurationSeconds <= 0 {
		return 30
	}
	return cfg.TurnDurationSeconds
}

// MaxPlayers returns the configured room capacity or the default of 4.
func MaxPlayers() int {
	if cfg == nil || cfg.MaxPlayers < 2 || cfg.MaxPlayers > 4 {
		return 4
	}
	return cfg.MaxPlayers
}

// DatabasePath returns the stats ledger location or a local default.
func DatabasePath() string {
	if cfg == nil || cfg.DatabasePath == "" {
		return "data/klondike.db"
	}
	return cfg.DatabasePath
}
