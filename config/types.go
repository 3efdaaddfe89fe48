package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TMDB       TMDBConfig       `mapstructure:"tmdb"`
	GenreCache GenreCacheConfig `mapstructure:"genre_cache"`
	Search     SearchConfig     `mapstructure:"search"`
	Filter     FilterConfig     `mapstructure:"filter"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// TMDBConfig holds the catalog API connection details
type TMDBConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// GenreCacheConfig selects where genre names are kept between runs
type GenreCacheConfig struct {
	Driver string        `mapstructure:"driver"` // memory or sqlite
	Path   string        `mapstructure:"path"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// SearchConfig tunes the search pipeline
type SearchConfig struct {
	Debounce   time.Duration `mapstructure:"debounce"`
	StaleGuard bool          `mapstructure:"stale_guard"`
}

// FilterConfig contains named filter expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Color      bool   `mapstructure:"color"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)
