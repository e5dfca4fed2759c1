// Package config loads wordvec settings from defaults, a TOML file, a .env
// file and WORDVEC_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/viant/wordvec/index/cover"
	"github.com/viant/wordvec/logging"
	"github.com/viant/wordvec/vocab"
)

const (
	// DefaultFile is read when no config path is given and it exists.
	DefaultFile = "wordvec.toml"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "WORDVEC_"
)

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration time.Duration

// UnmarshalText parses values such as "15s".
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds every wordvec setting.
type Config struct {
	Model   Model   `toml:"model"`
	Analogy Analogy `toml:"analogy"`
	Game    Game    `toml:"game"`
	Server  Server  `toml:"server"`
	Log     Log     `toml:"log"`
}

// Model locates the vocabulary database.
type Model struct {
	Path        string  `toml:"path"`
	Index       string  `toml:"index"`
	CoverBase   float32 `toml:"cover_base"`
	CoverMetric string  `toml:"cover_metric"`
}

// Analogy tunes analogy queries.
type Analogy struct {
	Results int `toml:"results"`
	Margin  int `toml:"margin"`
}

// Game configures the daily word game.
type Game struct {
	WordList string `toml:"wordlist"`
	Timezone string `toml:"timezone"`
}

// Server configures the HTTP API.
type Server struct {
	Addr            string   `toml:"addr"`
	Debug           bool     `toml:"debug"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// Log configures logging.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Model:   Model{Path: "wordvec.db", Index: string(vocab.KindAuto)},
		Analogy: Analogy{Results: 10, Margin: 10},
		Game:    Game{Timezone: "Local"},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load reads path (or DefaultFile when path is empty and present), then
// .env from the working directory, then the environment.
func Load(path string) (*Config, error) {
	return LoadFiles(path, ".env")
}

// LoadFiles is Load with an explicit .env location; a missing env file is
// ignored. Variables already set in the environment win over the env file.
func LoadFiles(path, envFile string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("config: %w", err)
	}
	dotenv := map[string]string{}
	if envFile != "" {
		if dotenv, err = godotenv.Read(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config: load %s: %w", envFile, err)
			}
			dotenv = map[string]string{}
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"MODEL_PATH":         &c.Model.Path,
		"MODEL_INDEX":        &c.Model.Index,
		"MODEL_COVER_METRIC": &c.Model.CoverMetric,
		"GAME_WORDLIST":      &c.Game.WordList,
		"GAME_TIMEZONE":      &c.Game.Timezone,
		"SERVER_ADDR":        &c.Server.Addr,
		"LOG_LEVEL":          &c.Log.Level,
		"LOG_FORMAT":         &c.Log.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	ints := map[string]*int{
		"ANALOGY_RESULTS": &c.Analogy.Results,
		"ANALOGY_MARGIN":  &c.Analogy.Margin,
	}
	for key, dst := range ints {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("config: %s%s: %w", EnvPrefix, key, err)
			}
			*dst = n
		}
	}
	durations := map[string]*Duration{
		"SERVER_READ_TIMEOUT":     &c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT":    &c.Server.WriteTimeout,
		"SERVER_SHUTDOWN_TIMEOUT": &c.Server.ShutdownTimeout,
	}
	for key, dst := range durations {
		if v, ok := lookup(EnvPrefix + key); ok {
			if err := dst.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
				return fmt.Errorf("config: %s%s: %w", EnvPrefix, key, err)
			}
		}
	}
	if v, ok := lookup(EnvPrefix + "SERVER_DEBUG"); ok {
		debug, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %sSERVER_DEBUG: %w", EnvPrefix, err)
		}
		c.Server.Debug = debug
	}
	if v, ok := lookup(EnvPrefix + "MODEL_COVER_BASE"); ok {
		base, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
		if err != nil {
			return fmt.Errorf("config: %sMODEL_COVER_BASE: %w", EnvPrefix, err)
		}
		c.Model.CoverBase = float32(base)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := vocab.ParseKind(c.Model.Index); err != nil {
		return fmt.Errorf("config: model.index: %w", err)
	}
	if _, err := cover.ParseMetric(c.Model.CoverMetric); err != nil {
		return fmt.Errorf("config: model.cover_metric: %w", err)
	}
	if c.Analogy.Results < 1 {
		return fmt.Errorf("config: analogy.results must be at least 1, got %d", c.Analogy.Results)
	}
	if c.Analogy.Margin < 0 {
		return fmt.Errorf("config: analogy.margin must not be negative, got %d", c.Analogy.Margin)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// IndexKind returns the validated model index kind.
func (c *Config) IndexKind() vocab.Kind {
	kind, err := vocab.ParseKind(c.Model.Index)
	if err != nil {
		return vocab.KindAuto
	}
	return kind
}

// CoverMetric returns the validated cover tree distance.
func (c *Config) CoverMetric() cover.Metric {
	metric, err := cover.ParseMetric(c.Model.CoverMetric)
	if err != nil {
		return cover.MetricEuclidean
	}
	return metric
}

// Location resolves game.timezone; empty or "Local" is the process zone.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Game.Timezone)
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("config: game.timezone: %w", err)
	}
	return loc, nil
}
