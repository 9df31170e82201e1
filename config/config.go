// Package config loads gridwars settings from defaults, an optional
// gridwars.yaml, a .env file and GRIDWARS_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "GRIDWARS"

type Config struct {
	LogLevel   string        `json:"logLevel" mapstructure:"logLevel"`
	SocketPath string        `json:"socketPath" mapstructure:"socketPath"`
	Game       GameConfig    `json:"game" mapstructure:"game"`
	AI         AIConfig      `json:"ai" mapstructure:"ai"`
	Rules      RulesConfig   `json:"rules" mapstructure:"rules"`
	Journal    JournalConfig `json:"journal" mapstructure:"journal"`
}

// GameConfig describes the match a new connection starts with. Without a
// layout file the board is an empty Plain grid of Width x Height.
type GameConfig struct {
	Sides       int    `json:"sides" mapstructure:"sides"`
	Width       int    `json:"width" mapstructure:"width"`
	Height      int    `json:"height" mapstructure:"height"`
	Seed        int64  `json:"seed" mapstructure:"seed"`
	CatalogFile string `json:"catalogFile" mapstructure:"catalogFile"`
	LayoutFile  string `json:"layoutFile" mapstructure:"layoutFile"`
}

type AIConfig struct {
	Sides               []int         `json:"sides" mapstructure:"sides"`
	Aggressiveness      float64       `json:"aggressiveness" mapstructure:"aggressiveness"`
	Explore             float64       `json:"explore" mapstructure:"explore"`
	Difficulty          string        `json:"difficulty" mapstructure:"difficulty"`
	ActionDelay         time.Duration `json:"actionDelay" mapstructure:"actionDelay"`
	TurnEndDelay        time.Duration `json:"turnEndDelay" mapstructure:"turnEndDelay"`
	MaxConsecutiveTurns int           `json:"maxConsecutiveTurns" mapstructure:"maxConsecutiveTurns"`
}

type RulesConfig struct {
	PassThroughAllies bool `json:"passThroughAllies" mapstructure:"passThroughAllies"`
}

type JournalConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Driver  string `json:"driver" mapstructure:"driver"`
	DSN     string `json:"dsn" mapstructure:"dsn"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("socketPath", "/tmp/gridwars.sock")

	viper.SetDefault("game.sides", 2)
	viper.SetDefault("game.width", 10)
	viper.SetDefault("game.height", 10)
	viper.SetDefault("game.seed", 0)
	viper.SetDefault("game.catalogFile", "")
	viper.SetDefault("game.layoutFile", "")

	viper.SetDefault("ai.sides", []int{1})
	viper.SetDefault("ai.aggressiveness", 0.7)
	viper.SetDefault("ai.explore", 0.3)
	viper.SetDefault("ai.difficulty", "normal")
	viper.SetDefault("ai.actionDelay", 250*time.Millisecond)
	viper.SetDefault("ai.turnEndDelay", 500*time.Millisecond)
	viper.SetDefault("ai.maxConsecutiveTurns", 100)

	viper.SetDefault("rules.passThroughAllies", false)

	viper.SetDefault("journal.enabled", false)
	viper.SetDefault("journal.driver", "sqlite")
	viper.SetDefault("journal.dsn", "gridwars.db")
}

// Load reads the configuration from configDir. Both gridwars.yaml and .env
// are optional.
func Load(configDir string) (Config, error) {
	if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	setDefaults()

	viper.SetConfigName("gridwars")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Game.Sides < 1 {
		return Config{}, fmt.Errorf("game.sides must be at least 1, got %d", cfg.Game.Sides)
	}
	for _, s := range cfg.AI.Sides {
		if s < 0 || s >= cfg.Game.Sides {
			return Config{}, fmt.Errorf("ai.sides: side %d outside 0..%d", s, cfg.Game.Sides-1)
		}
	}
	return cfg, nil
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c Config) Level() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
