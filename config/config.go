package config

import (
	"fmt"
	"strings"

	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/searcher"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const EnvPrefix = "HALMA"

type Config struct {
	Iterations    int     `mapstructure:"iterations"`
	Exploration   float64 `mapstructure:"exploration"`
	Cutoff        int     `mapstructure:"cutoff"`
	Strategy      string  `mapstructure:"strategy"`
	Seed          uint64  `mapstructure:"seed"` // 0 seeds from the clock
	Addr          string  `mapstructure:"addr"`
	LogLevel      string  `mapstructure:"log_level"`
	LogPretty     bool    `mapstructure:"log_pretty"`
	Experiment    string  `mapstructure:"experiment"`
	Games         int     `mapstructure:"games"`
	ParallelGames int     `mapstructure:"parallel_games"`
	MaxTurns      int     `mapstructure:"max_turns"`
	OutputDir     string  `mapstructure:"output_dir"`

	// ExplorationSet reports whether exploration came from a file or the environment.
	ExplorationSet bool `mapstructure:"-"`
}

var defaults = map[string]any{
	"iterations":     searcher.DefaultIterations,
	"exploration":    searcher.DefaultCPUCT,
	"cutoff":         searcher.DefaultCutoff,
	"strategy":       "puct",
	"seed":           0,
	"addr":           ":8080",
	"log_level":      "info",
	"log_pretty":     true,
	"experiment":     "baseline",
	"games":          10,
	"parallel_games": 4,
	"max_turns":      1000,
	"output_dir":     "experiments",
}

// Setup reads the optional config file at cfgPath, then applies HALMA_*
// environment overrides on top of the defaults.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", cfgPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.ExplorationSet = v.IsSet("exploration")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := searcher.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if c.Iterations < 0 {
		return fmt.Errorf("iterations must not be negative, got %d", c.Iterations)
	}
	if c.Cutoff <= 0 {
		return fmt.Errorf("cutoff must be positive, got %d", c.Cutoff)
	}
	if c.Exploration <= 0 {
		return fmt.Errorf("exploration must be positive, got %v", c.Exploration)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// SearchOptions converts the search settings into searcher options.
func (c *Config) SearchOptions() []searcher.Option {
	strategy, _ := searcher.ParseStrategy(c.Strategy)
	options := []searcher.Option{
		searcher.WithIterations(c.Iterations),
		searcher.WithCutoff(c.Cutoff),
		searcher.WithStrategy(strategy),
	}
	// The default exploration is a PUCT constant; UCB1 keeps its own unless one is configured
	if strategy == searcher.PUCT || c.ExplorationSet {
		options = append(options, searcher.WithExploration(c.Exploration))
	}
	if c.Seed != 0 {
		options = append(options, searcher.WithSeed(c.Seed))
	}
	return options
}

func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
