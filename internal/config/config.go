// Package config loads settings with priority env > file > defaults.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"othello_go/internal/game"
	"othello_go/internal/search"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "OTHELLO_"

type Config struct {
	Search SearchConfig    `yaml:"search"`
	Eval   game.EvalParams `yaml:"eval"`
	UI     UIConfig        `yaml:"ui"`
	Log    LogConfig       `yaml:"log"`
}

type SearchConfig struct {
	// TimeBudget is the wall time per engine move, in seconds.
	TimeBudget float64 `yaml:"time_budget"`
	MaxDepth   int     `yaml:"max_depth"`
	// Seed fixes tie-breaking; 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

type UIConfig struct {
	Mode      string `yaml:"mode"`       // "pve" or "pvp"
	HumanSide int    `yaml:"human_side"` // 1 or 2, pve only
	ShowHints bool   `yaml:"show_hints"`
	ShowEval  bool   `yaml:"show_eval"`
	Sound     bool   `yaml:"sound"`
	// SoundDir may hold <name>.wav or <name>.mp3 replacing built-in sounds.
	SoundDir  string `yaml:"sound_dir"`
	PowerSave bool   `yaml:"power_save"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Search: SearchConfig{
			TimeBudget: 2.0,
			MaxDepth:   search.DefaultMaxDepth,
		},
		Eval: game.DefaultEvalParams(),
		UI: UIConfig{
			Mode:      "pve",
			HumanSide: 1,
			ShowHints: true,
			Sound:     true,
			PowerSave: true,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load merges defaults, the YAML file at path (skipped when path is empty or
// the file does not exist) and OTHELLO_* environment variables, then validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	loadEnv(&cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config, getenv func(string) string) {
	env := func(name string) string { return getenv(EnvPrefix + name) }

	if v := env("TIME_BUDGET"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Search.TimeBudget = f
		}
	}
	if v := env("MAX_DEPTH"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxDepth = i
		}
	}
	if v := env("SEED"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Search.Seed = i
		}
	}
	if v := env("MODE"); v != "" {
		cfg.UI.Mode = strings.ToLower(v)
	}
	if v := env("HUMAN_SIDE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.UI.HumanSide = i
		}
	}
	if v := env("SHOW_EVAL"); v != "" {
		cfg.UI.ShowEval = v == "true" || v == "1"
	}
	if v := env("SOUND"); v != "" {
		cfg.UI.Sound = v == "true" || v == "1"
	}
	if v := env("SOUND_DIR"); v != "" {
		cfg.UI.SoundDir = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Search.TimeBudget < 0 {
		return fmt.Errorf("time_budget must be >= 0")
	}
	if c.Search.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be >= 1")
	}
	if err := c.Eval.Validate(); err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	if c.UI.Mode != "pve" && c.UI.Mode != "pvp" {
		return fmt.Errorf("mode must be pve or pvp, got %q", c.UI.Mode)
	}
	if c.UI.HumanSide != 1 && c.UI.HumanSide != 2 {
		return fmt.Errorf("human_side must be 1 or 2, got %d", c.UI.HumanSide)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Budget is the per-move search time.
func (s SearchConfig) Budget() time.Duration {
	return search.BudgetFromSeconds(s.TimeBudget)
}

// NewRand returns the tie-breaking source for one engine.
func (s SearchConfig) NewRand() *rand.Rand {
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// HumanPlayer maps HumanSide to a cell state.
func (u UIConfig) HumanPlayer() game.CellState {
	if u.HumanSide == 2 {
		return game.PlayerB
	}
	return game.PlayerA
}

// EngineOptions builds search options from the configuration.
func (c Config) EngineOptions(logger *slog.Logger) search.Options {
	return search.Options{
		Evaluator: game.NewEvaluator(c.Eval),
		Rand:      c.Search.NewRand(),
		Logger:    logger,
		MaxDepth:  c.Search.MaxDepth,
	}
}

func (l LogConfig) level() (slog.Level, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(l.Level)); err != nil {
		return lv, fmt.Errorf("log level: %w", err)
	}
	return lv, nil
}

// NewLogger builds a logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	lv, err := l.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lv}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
