// Package config provides YAML-based configuration loading for t2048:
// board setup, storage paths, server addresses, theme and logging.
package config

import (
	"fmt"
	"time"
)

// Board size limits. Larger boards would overflow tile values long before
// they fill up.
const (
	MinBoardSize = 2
	MaxBoardSize = 8
)

// Config is the complete application configuration.
type Config struct {
	Board   BoardConfig   `yaml:"board"`
	Storage StorageConfig `yaml:"storage"`
	SSH     SSHConfig     `yaml:"ssh"`
	HTTP    HTTPConfig    `yaml:"http"`
	Theme   ThemeConfig   `yaml:"theme"`
	Log     LogConfig     `yaml:"log"`
}

// BoardConfig defines the board dimension and spawn odds.
type BoardConfig struct {
	Size       int     `yaml:"size"`
	Spawn4Prob float64 `yaml:"spawn4_probability"` // Probability of spawning 4 instead of 2 (0.0-1.0)
}

// StorageConfig defines where scores and the saved session live.
type StorageConfig struct {
	DBPath    string `yaml:"db_path"`
	StatePath string `yaml:"state_path"`
}

// SSHConfig defines the SSH server settings.
type SSHConfig struct {
	Address            string `yaml:"address"`
	HostKeyPath        string `yaml:"host_key_path"` // Auto-generated under ~/.t2048 if empty
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
}

// IdleTimeout returns the idle timeout as a duration.
func (c SSHConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMinutes) * time.Minute
}

// HTTPConfig defines the HTTP API settings.
type HTTPConfig struct {
	Address string `yaml:"address"`
}

// ThemeConfig maps tile values to hex colors.
type ThemeConfig struct {
	Empty    string            `yaml:"empty"`
	Text     string            `yaml:"text"`
	DarkText string            `yaml:"dark_text"` // Used on the light 2 and 4 tiles
	Tiles    map[uint32]string `yaml:"tiles"`
	Fallback string            `yaml:"fallback"` // Tiles above the highest configured value
}

// TileColor returns the background color for a tile value.
func (t ThemeConfig) TileColor(v uint32) string {
	if v == 0 {
		return t.Empty
	}
	if c, ok := t.Tiles[v]; ok {
		return c
	}
	return t.Fallback
}

// TextColor returns the foreground color for a tile value.
func (t ThemeConfig) TextColor(v uint32) string {
	if v <= 4 && t.DarkText != "" {
		return t.DarkText
	}
	return t.Text
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Size:       4,
			Spawn4Prob: 0.10,
		},
		Storage: StorageConfig{
			DBPath:    "~/.t2048/scores.db",
			StatePath: "~/.t2048/game_state.json",
		},
		SSH: SSHConfig{
			Address:            ":23248",
			IdleTimeoutMinutes: 30,
		},
		HTTP: HTTPConfig{
			Address: ":8048",
		},
		Theme: ThemeConfig{
			Empty:    "#3c3a32",
			Text:     "#f9f6f2",
			DarkText: "#776e65",
			Tiles: map[uint32]string{
				2:    "#eee4da",
				4:    "#ede0c8",
				8:    "#f2b179",
				16:   "#f59563",
				32:   "#f67c5f",
				64:   "#f65e3b",
				128:  "#edcf72",
				256:  "#edcc61",
				512:  "#edc850",
				1024: "#edc53f",
				2048: "#edc22e",
			},
			Fallback: "#3c3a32",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that values are usable.
func (c Config) Validate() error {
	if c.Board.Size < MinBoardSize || c.Board.Size > MaxBoardSize {
		return fmt.Errorf("config: board size %d out of range [%d, %d]", c.Board.Size, MinBoardSize, MaxBoardSize)
	}
	if c.Board.Spawn4Prob < 0 || c.Board.Spawn4Prob > 1 {
		return fmt.Errorf("config: spawn4_probability %.2f out of range [0, 1]", c.Board.Spawn4Prob)
	}
	if c.SSH.IdleTimeoutMinutes < 0 {
		return fmt.Errorf("config: negative ssh idle timeout %d", c.SSH.IdleTimeoutMinutes)
	}
	return nil
}
