package utils

import (
	"encoding/json"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config holds the configuration for the server and the terminal player.
// Values come from DefaultConfig, then an optional JSON file, then GOL_* env vars.
type Config struct {
	Addr          string   `json:"addr" env:"GOL_ADDR"`
	StorePath     string   `json:"store_path" env:"GOL_STORE_PATH"`
	BoardTTL      Duration `json:"board_ttl" env:"GOL_BOARD_TTL"`
	SweepInterval Duration `json:"sweep_interval" env:"GOL_SWEEP_INTERVAL"`

	MinBoardSize      int `json:"min_board_size" env:"GOL_MIN_BOARD_SIZE"`
	MaxBoardSize      int `json:"max_board_size" env:"GOL_MAX_BOARD_SIZE"`
	MaxIterations     int `json:"max_iterations" env:"GOL_MAX_ITERATIONS"`
	FinalIterationMax int `json:"final_iteration_max" env:"GOL_FINAL_ITERATION_MAX"`

	DefaultRows   int     `json:"default_rows" env:"GOL_DEFAULT_ROWS"`
	DefaultCols   int     `json:"default_cols" env:"GOL_DEFAULT_COLS"`
	RandomDensity float64 `json:"random_density" env:"GOL_RANDOM_DENSITY"`

	FrameRate   Duration `json:"frame_rate" env:"GOL_FRAME_RATE"`
	PlayDensity float64  `json:"play_density" env:"GOL_PLAY_DENSITY"`
	Seed        int64    `json:"seed" env:"GOL_SEED"`
}

// Duration reads "1h30m" style strings from JSON and env.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		BoardTTL:          Duration{time.Hour},
		SweepInterval:     Duration{5 * time.Minute},
		MinBoardSize:      3,
		MaxBoardSize:      1000,
		MaxIterations:     1000,
		FinalIterationMax: 10000,
		DefaultRows:       10,
		DefaultCols:       10,
		RandomDensity:     0.5,
		FrameRate:         Duration{150 * time.Millisecond},
		PlayDensity:       0.15,
	}
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// LoadEnv overrides config with any GOL_* environment variables that are set.
func LoadEnv(config Config) (Config, error) {
	if err := env.Parse(&config); err != nil {
		return config, errors.Wrap(err, "[LoadEnv] failed to parse environment")
	}
	return config, nil
}

// Load reads filename when it exists, then applies the environment, and
// checks the result.
func Load(filename string) (Config, error) {
	config := DefaultConfig()
	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			if config, err = LoadConfig(filename); err != nil {
				return config, err
			}
		}
	}

	config, err := LoadEnv(config)
	if err != nil {
		return config, err
	}
	return config, config.Validate()
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	switch {
	case c.MinBoardSize < 1:
		return errors.Errorf("[Config.Validate] min_board_size must be at least 1, got %d", c.MinBoardSize)
	case c.MaxBoardSize < c.MinBoardSize:
		return errors.Errorf("[Config.Validate] max_board_size %d is below min_board_size %d", c.MaxBoardSize, c.MinBoardSize)
	case c.MaxIterations < 1:
		return errors.Errorf("[Config.Validate] max_iterations must be at least 1, got %d", c.MaxIterations)
	case c.FinalIterationMax < 1:
		return errors.Errorf("[Config.Validate] final_iteration_max must be at least 1, got %d", c.FinalIterationMax)
	case c.RandomDensity < 0 || c.RandomDensity > 1:
		return errors.Errorf("[Config.Validate] random_density must be within [0, 1], got %v", c.RandomDensity)
	case c.PlayDensity < 0 || c.PlayDensity > 1:
		return errors.Errorf("[Config.Validate] play_density must be within [0, 1], got %v", c.PlayDensity)
	}
	return nil
}
