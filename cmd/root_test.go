package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

func TestLoadConfigDefaults(t *testing.T) {
	c, err := loadConfig(newViper(), "")
	if err != nil {
		t.Fatal(err)
	}

	if c.Cache.Connection != "redis://localhost:6379" {
		t.Errorf("cache.connection = %q", c.Cache.Connection)
	}
	if c.Cache.ExpirationInHours != 24 || c.CacheExpiration() != 24*time.Hour {
		t.Errorf("expiration = %d (%s), want 24h", c.Cache.ExpirationInHours, c.CacheExpiration())
	}
	if c.Cache.Key != "OilPrices" {
		t.Errorf("cache.key = %q", c.Cache.Key)
	}
	if c.Cache.IdleTimeout != 5*time.Minute {
		t.Errorf("cache.idle_timeout = %s", c.Cache.IdleTimeout)
	}
	if c.Source.URL != "https://eapp.kpc.com.kw/oilprices/oilprices.aspx" {
		t.Errorf("source.url = %q", c.Source.URL)
	}
	if c.Source.Timeout != 30*time.Second {
		t.Errorf("source.timeout = %s", c.Source.Timeout)
	}
	if c.HTTP.Bind != "0.0.0.0:8080" {
		t.Errorf("http.bind = %q", c.HTTP.Bind)
	}
	if c.General.LogLevel != int(log.InfoLevel) {
		t.Errorf("general.log_level = %d", c.General.LogLevel)
	}
	if c.MySQL.DSN != "" || c.MySQL.MaxIdleConnections != 2 {
		t.Errorf("mysql = %+v", c.MySQL)
	}
}

func TestLoadConfigEnvAliases(t *testing.T) {
	t.Setenv("CacheConnection", "cache.local:6380,ssl=True")
	t.Setenv("CacheExpirationInHours", "3")

	c, err := loadConfig(newViper(), "")
	if err != nil {
		t.Fatal(err)
	}

	if c.Cache.Connection != "cache.local:6380,ssl=True" {
		t.Errorf("cache.connection = %q", c.Cache.Connection)
	}
	if c.CacheExpiration() != 3*time.Hour {
		t.Errorf("expiration = %s, want 3h", c.CacheExpiration())
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(`
[cache]
connection="redis://cache:6379/2"
expiration_in_hours=6
key="KpcPrices"
idle_timeout="2m"

[source]
timeout="10s"
charset="windows-1256"

[schedule]
refresh="0 0 */6 * * *"
`), 0600)
	if err != nil {
		t.Fatal(err)
	}

	c, err := loadConfig(newViper(), path)
	if err != nil {
		t.Fatal(err)
	}

	if c.Cache.Connection != "redis://cache:6379/2" || c.Cache.Key != "KpcPrices" {
		t.Errorf("cache = %+v", c.Cache)
	}
	if c.CacheExpiration() != 6*time.Hour {
		t.Errorf("expiration = %s, want 6h", c.CacheExpiration())
	}
	if c.Cache.IdleTimeout != 2*time.Minute {
		t.Errorf("cache.idle_timeout = %s, want 2m", c.Cache.IdleTimeout)
	}
	if c.Source.Timeout != 10*time.Second {
		t.Errorf("source.timeout = %s, want 10s", c.Source.Timeout)
	}
	if c.Source.Charset != "windows-1256" {
		t.Errorf("source.charset = %q", c.Source.Charset)
	}
	if c.Schedule.Refresh != "0 0 */6 * * *" {
		t.Errorf("schedule.refresh = %q", c.Schedule.Refresh)
	}
	if c.Cache.MaxIdle != 10 {
		t.Errorf("cache.max_idle = %d, default not kept", c.Cache.MaxIdle)
	}

	t.Run("env wins over file", func(t *testing.T) {
		t.Setenv("CacheExpirationInHours", "12")

		c, err := loadConfig(newViper(), path)
		if err != nil {
			t.Fatal(err)
		}
		if c.CacheExpiration() != 12*time.Hour {
			t.Errorf("expiration = %s, want 12h", c.CacheExpiration())
		}
	})
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := loadConfig(newViper(), filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	t.Setenv("CacheExpirationInHours", "0")
	if _, err := loadConfig(newViper(), ""); err == nil {
		t.Error("expected validation error for zero expiration")
	}
}
