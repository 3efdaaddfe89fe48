package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/marquee/tmdb"
)

const appDir = ".marquee"

// Load reads .env, the config file and MARQUEE_* environment variables, in
// increasing order of precedence. A missing config file is fine as long as
// the API key arrives some other way.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("tmdb.api_key", "MARQUEE_TMDB_API_KEY", "TMDB_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, appDir))
		}
		v.AddConfigPath("/etc/marquee/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.GenreCache.Driver == DriverSQLite && cfg.GenreCache.Path == "" {
		cfg.GenreCache.Path = defaultCachePath()
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("tmdb.base_url", tmdb.DefaultBaseURL)
	v.SetDefault("tmdb.timeout", tmdb.DefaultTimeout)
	v.SetDefault("tmdb.user_agent", "marquee")

	v.SetDefault("genre_cache.driver", DriverMemory)
	v.SetDefault("genre_cache.path", "")
	v.SetDefault("genre_cache.ttl", "24h")

	v.SetDefault("search.debounce", "500ms")
	v.SetDefault("search.stale_guard", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(appDir, "genres.db")
	}
	return filepath.Join(home, appDir, "genres.db")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.TMDB.BaseURL == "" {
		return fmt.Errorf("tmdb.base_url is required")
	}

	if cfg.TMDB.APIKey == "" || cfg.TMDB.APIKey == "your-api-key-here" {
		return fmt.Errorf("tmdb.api_key must be set to a valid API key (or TMDB_API_KEY)")
	}

	if cfg.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive")
	}

	switch cfg.GenreCache.Driver {
	case DriverMemory:
	case DriverSQLite:
		if cfg.GenreCache.Path == "" {
			return fmt.Errorf("genre_cache.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("invalid genre_cache.driver: %s", cfg.GenreCache.Driver)
	}

	if cfg.GenreCache.TTL <= 0 {
		return fmt.Errorf("genre_cache.ttl must be positive")
	}

	if cfg.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce must not be negative")
	}

	for name, expression := range cfg.Filter {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter %q has an empty expression", name)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
