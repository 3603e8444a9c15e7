package config

import "time"

// Config defines the configuration structure.
type Config struct {
	General struct {
		LogLevel int `mapstructure:"log_level"`
	}

	HTTP struct {
		Bind string `mapstructure:"bind"`
	} `mapstructure:"http"`

	Cache struct {
		Connection        string        `mapstructure:"connection"`
		ExpirationInHours int           `mapstructure:"expiration_in_hours"`
		Key               string        `mapstructure:"key"`
		MaxIdle           int           `mapstructure:"max_idle"`
		MaxActive         int           `mapstructure:"max_active"`
		IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	}

	Source struct {
		URL     string        `mapstructure:"url"`
		Charset string        `mapstructure:"charset"`
		Timeout time.Duration `mapstructure:"timeout"`
	}

	Schedule struct {
		Refresh string `mapstructure:"refresh"`
	}

	MySQL struct {
		DSN                string `mapstructure:"dsn"`
		Automigrate        bool   `mapstructure:"automigrate"`
		MaxOpenConnections int    `mapstructure:"max_open_connections"`
		MaxIdleConnections int    `mapstructure:"max_idle_connections"`
	} `mapstructure:"mysql"`
}

// CacheExpiration returns the TTL applied to cache writes.
func (c Config) CacheExpiration() time.Duration {
	return time.Duration(c.Cache.ExpirationInHours) * time.Hour
}

// C holds the global configuration.
var C Config
