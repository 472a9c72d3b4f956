package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ezBadminton/goswiss/carrom"
	"github.com/ezBadminton/goswiss/core"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Engine   EngineConfig   `yaml:"engine"`
	Score    ScoreConfig    `yaml:"score"`
	Log      LogConfig      `yaml:"log"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// EngineConfig holds the defaults of new tournaments and the
// limits of the pairing engine.
type EngineConfig struct {
	// Deadline of the combination search of one turn
	PairingTimeout  time.Duration `yaml:"pairing_timeout"`
	PrizeStrategy   string        `yaml:"prize_strategy"`
	Couplings       string        `yaml:"couplings"`
	Finals          int           `yaml:"finals"`
	FinalKind       string        `yaml:"final_kind"`
	Rated           bool          `yaml:"rated"`
	DelayTopPairing int           `yaml:"delay_top_pairing"`
	PhantomScore    int           `yaml:"phantom_score"`
	Seed            int64         `yaml:"seed"`
}

// ScoreConfig holds the rules of a carrom game.
type ScoreConfig struct {
	WinningPoints  int `yaml:"winning_points"`
	MaxBoards      int `yaml:"max_boards"`
	MaxBoardPoints int `yaml:"max_board_points"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text|json
}

// Default returns the configuration used when neither
// the file nor the environment set a value.
func Default() Config {
	score := carrom.DefaultScoreSettings()
	return Config{
		Engine: EngineConfig{
			PairingTimeout: 30 * time.Second,
			PrizeStrategy:  core.FixedPrizes.String(),
			Couplings:      core.SerialPairing.String(),
			FinalKind:      core.SimpleFinal.String(),
			PhantomScore:   score.WinningPoints,
		},
		Score: ScoreConfig{
			WinningPoints:  score.WinningPoints,
			MaxBoards:      score.MaxBoards,
			MaxBoardPoints: score.MaxBoardPoints,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads the configuration from a YAML file.
// When the file does not exist the configuration is taken
// from the environment only.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return loadConfigFromEnv(cfg)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadConfigFromEnv(cfg Config) (*Config, error) {
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides the configuration with the environment variables that are set.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("SWISS_PAIRING_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SWISS_PAIRING_TIMEOUT value: %w", err)
		}
		cfg.Engine.PairingTimeout = d
	}
	if v := os.Getenv("SWISS_PRIZE_STRATEGY"); v != "" {
		cfg.Engine.PrizeStrategy = v
	}
	if v := os.Getenv("SWISS_PHANTOM_SCORE"); v != "" {
		score, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SWISS_PHANTOM_SCORE value: %w", err)
		}
		cfg.Engine.PhantomScore = score
	}
	if v := os.Getenv("SWISS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SWISS_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

// Validate checks that every strategy name is known and
// the score rules are consistent.
func (c *Config) Validate() error {
	if _, err := c.Engine.Settings(); err != nil {
		return err
	}
	if _, err := c.Engine.Prizes(); err != nil {
		return err
	}
	if _, err := c.Score.Settings(); err != nil {
		return fmt.Errorf("invalid score config: %w", err)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	return nil
}

// Settings returns the tournament settings for new tournaments.
func (e EngineConfig) Settings() (core.Settings, error) {
	couplings, err := core.ParsePairingStrategy(e.Couplings)
	if err != nil {
		return core.Settings{}, fmt.Errorf("couplings %q: %w", e.Couplings, err)
	}
	finalKind, err := core.ParseFinalKind(e.FinalKind)
	if err != nil {
		return core.Settings{}, fmt.Errorf("final kind %q: %w", e.FinalKind, err)
	}

	settings := core.Settings{
		Finals:          e.Finals,
		FinalKind:       finalKind,
		Couplings:       couplings,
		Rated:           e.Rated,
		DelayTopPairing: e.DelayTopPairing,
		PhantomScore:    e.PhantomScore,
		Seed:            e.Seed,
	}
	if err := settings.Validate(); err != nil {
		return core.Settings{}, err
	}
	return settings, nil
}

// Prizes returns the default prize strategy of new tournaments.
func (e EngineConfig) Prizes() (core.PrizeStrategy, error) {
	strategy, err := core.ParsePrizeStrategy(e.PrizeStrategy)
	if err != nil {
		return 0, fmt.Errorf("prize strategy %q: %w", e.PrizeStrategy, err)
	}
	return strategy, nil
}

func (s ScoreConfig) Settings() (carrom.ScoreSettings, error) {
	return carrom.NewScoreSettings(s.WinningPoints, s.MaxBoards, s.MaxBoardPoints)
}

func (l LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	return level, nil
}

// NewLogger creates the structured logger described by the config.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := l.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
