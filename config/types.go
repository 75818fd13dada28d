package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	IMDb    IMDbConfig    `mapstructure:"imdb"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// IMDbConfig holds client-level IMDb settings
type IMDbConfig struct {
	// Locale is sent as Accept-Language on every request.
	Locale string `mapstructure:"locale"`
	// ExcludeEpisodes makes the client reject TV episode titles.
	ExcludeEpisodes bool `mapstructure:"exclude_episodes"`
}

// AuthConfig holds the authorization headers sent with data requests
type AuthConfig struct {
	// Headers are sent verbatim on every data request.
	Headers map[string]string `mapstructure:"headers"`
	// CacheTTL enables per-path caching of computed headers when positive.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// FilterConfig maps preset names to filter expressions
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
