// Package config loads process configuration from .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"draftcoach/internal/cache"
	"draftcoach/internal/ddragon"
	"draftcoach/internal/gemini"
	"draftcoach/internal/resolve"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPaths are the .env locations tried in order; the first one found wins
var EnvPaths = []string{".env", "../.env", "../../.env"}

// appDir is the per-user directory holding the cache
const appDir = "DraftCoach"

// Config is the full process configuration
type Config struct {
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-pro"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`
	DefaultPatch  string `env:"DRAFTCOACH_DEFAULT_PATCH" envDefault:"26.4"`

	Host string `env:"BACKEND_HOST" envDefault:"127.0.0.1"`
	Port int    `env:"BACKEND_PORT" envDefault:"3210"`

	CacheBackend string        `env:"CACHE_BACKEND" envDefault:"file"`
	CachePath    string        `env:"CACHE_PATH"`
	TursoURL     string        `env:"TURSO_DATABASE_URL"`
	TursoToken   string        `env:"TURSO_AUTH_TOKEN"`
	DatabaseURL  string        `env:"DATABASE_URL"`
	CacheFresh   time.Duration `env:"CACHE_FRESHNESS" envDefault:"24h"`
	Attempts     int           `env:"GENERATION_ATTEMPTS" envDefault:"3"`
	BaseDelay    time.Duration `env:"GENERATION_BASE_DELAY" envDefault:"1s"`

	MinQueryLen    int     `env:"RESOLVE_MIN_QUERY_LEN" envDefault:"2"`
	Threshold      float64 `env:"RESOLVE_THRESHOLD" envDefault:"0.4"`
	ContainPenalty float64 `env:"RESOLVE_CONTAIN_PENALTY" envDefault:"0.8"`
	MinKeyLen      int     `env:"RESOLVE_MIN_KEY_LEN" envDefault:"4"`

	IDTriggerLen  int `env:"ITEMID_TRIGGER_LEN" envDefault:"6"`
	IDBaseLen     int `env:"ITEMID_BASE_LEN" envDefault:"4"`
	IDFallbackLen int `env:"ITEMID_FALLBACK_LEN" envDefault:"5"`
	IDCeiling     int `env:"ITEMID_CEILING" envDefault:"7000"`

	DDragonBaseURL    string        `env:"DDRAGON_BASE_URL" envDefault:"https://ddragon.leagueoflegends.com"`
	DDragonVersionTTL time.Duration `env:"DDRAGON_VERSION_TTL" envDefault:"1h"`
	DDragonLocale     string        `env:"DDRAGON_LOCALE" envDefault:"en_US"`

	LeagueDir string `env:"LEAGUE_DIR"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadDotEnv loads the first .env file found in paths and returns its path,
// or "" when none exists
func LoadDotEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = EnvPaths
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads .env files and then parses the process environment
func Load() (Config, string, error) {
	loaded := LoadDotEnv()
	cfg, err := Parse(nil)
	return cfg, loaded, err
}

// Parse builds a Config from environ, or from the process environment when
// environ is nil, and validates it
func Parse(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.CachePath == "" {
		cfg.CachePath = DefaultCachePath(cfg.CacheBackend)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultCachePath places the cache under the user config directory
func DefaultCachePath(backend string) string {
	name := "build-cache.json"
	if backend == cache.BackendSQLite {
		name = "build-cache.db"
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, appDir, name)
}

// Validate checks values that would otherwise fail deep inside a component
func (c Config) Validate() error {
	var errs []error

	switch c.CacheBackend {
	case cache.BackendFile, cache.BackendSQLite, cache.BackendMemory:
	case cache.BackendTurso:
		if c.TursoURL == "" {
			errs = append(errs, errors.New("TURSO_DATABASE_URL is required for the turso cache backend"))
		}
	case cache.BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres cache backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("BACKEND_PORT out of range: %d", c.Port))
	}
	if c.CacheFresh <= 0 {
		errs = append(errs, errors.New("CACHE_FRESHNESS must be positive"))
	}
	if c.Attempts < 1 {
		errs = append(errs, errors.New("GENERATION_ATTEMPTS must be at least 1"))
	}
	if c.BaseDelay < 0 {
		errs = append(errs, errors.New("GENERATION_BASE_DELAY must not be negative"))
	}
	if c.Threshold <= 0 || c.Threshold >= 1 {
		errs = append(errs, fmt.Errorf("RESOLVE_THRESHOLD must be between 0 and 1: %v", c.Threshold))
	}
	if c.ContainPenalty <= 0 || c.ContainPenalty > 1 {
		errs = append(errs, fmt.Errorf("RESOLVE_CONTAIN_PENALTY must be in (0, 1]: %v", c.ContainPenalty))
	}
	if c.IDBaseLen <= 0 || c.IDFallbackLen < c.IDBaseLen || c.IDTriggerLen <= c.IDFallbackLen {
		errs = append(errs, errors.New("ITEMID lengths must satisfy 0 < BASE <= FALLBACK < TRIGGER"))
	}

	return errors.Join(errs...)
}

// RequireGemini reports a missing API key for commands that generate
func (c Config) RequireGemini() error {
	if c.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY not set")
	}
	return nil
}

// Addr is the HTTP listen address
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ResolvePolicy returns the name resolver thresholds
func (c Config) ResolvePolicy() resolve.Policy {
	return resolve.Policy{
		MinQueryLen:    c.MinQueryLen,
		Threshold:      c.Threshold,
		ContainPenalty: c.ContainPenalty,
		MinKeyLen:      c.MinKeyLen,
	}
}

// IDPolicy returns the item identifier canonicalization rule
func (c Config) IDPolicy() resolve.IDPolicy {
	return resolve.IDPolicy{
		TriggerLen:  c.IDTriggerLen,
		BaseLen:     c.IDBaseLen,
		FallbackLen: c.IDFallbackLen,
		Ceiling:     c.IDCeiling,
	}
}

// CacheOptions returns the store selection
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:     c.CacheBackend,
		Path:        c.CachePath,
		TursoURL:    c.TursoURL,
		TursoToken:  c.TursoToken,
		DatabaseURL: c.DatabaseURL,
	}
}

// Gemini returns the generation client settings
func (c Config) Gemini() gemini.Config {
	return gemini.Config{
		APIKey:       c.GeminiAPIKey,
		Model:        c.GeminiModel,
		BaseURL:      c.GeminiBaseURL,
		DefaultPatch: c.DefaultPatch,
	}
}

// DDragonOptions returns the Data Dragon client options
func (c Config) DDragonOptions() []ddragon.Option {
	return []ddragon.Option{
		ddragon.WithBaseURL(c.DDragonBaseURL),
		ddragon.WithLocale(c.DDragonLocale),
		ddragon.WithVersionTTL(c.DDragonVersionTTL),
	}
}
