package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Token          string        `env:"TOKEN"`
	CacheChannelID string        `env:"CACHE_CHANNEL_ID"`
	GuildID        string        `env:"GUILD_ID"`
	GuildStoreDSN  string        `env:"GUILD_STORE_DSN" envDefault:"sqlite://guild_data.db"`
	Timezone       string        `env:"TIMEZONE" envDefault:"UTC"`
	CloseRiseDelay time.Duration `env:"CLOSE_RISE_DELAY" envDefault:"30m"`
	CacheTTL       time.Duration `env:"CACHE_ARTIFACT_TTL" envDefault:"60s"`
	GamesFile      string        `env:"GAMES_FILE" envDefault:"games.toml"`
	Locale         string        `env:"LOCALE" envDefault:"en"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Load reads envFile when present, then the environment, and validates
// the result. A missing env file is not an error: variables may come from
// the container or CI.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: TOKEN is required")
	}

	if strings.TrimSpace(c.CacheChannelID) == "" {
		return fmt.Errorf("config: CACHE_CHANNEL_ID is required")
	}
	if !isSnowflake(c.CacheChannelID) {
		return fmt.Errorf("config: CACHE_CHANNEL_ID must be a Discord channel ID (digits only)")
	}
	if c.GuildID != "" && !isSnowflake(c.GuildID) {
		return fmt.Errorf("config: GUILD_ID must be a Discord guild ID (digits only)")
	}

	parsed, err := url.Parse(c.GuildStoreDSN)
	if err != nil {
		return fmt.Errorf("config: invalid GUILD_STORE_DSN (%q): %w", c.GuildStoreDSN, err)
	}
	switch parsed.Scheme {
	case "sqlite":
	case "postgres", "postgresql":
		if parsed.Host == "" {
			return fmt.Errorf("config: invalid GUILD_STORE_DSN (%q): missing host", c.GuildStoreDSN)
		}
	default:
		return fmt.Errorf("config: invalid GUILD_STORE_DSN (%q): scheme must be sqlite or postgres", c.GuildStoreDSN)
	}

	if c.CloseRiseDelay <= 0 {
		return fmt.Errorf("config: CLOSE_RISE_DELAY must be positive")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("config: CACHE_ARTIFACT_TTL must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func isSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
