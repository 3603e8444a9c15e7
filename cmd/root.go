package cmd

import (
	"bytes"
	"os"
	"time"

	"kpcoilprice/config"
	"kpcoilprice/price"
	"kpcoilprice/storage"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var version string

var rootCmd = &cobra.Command{
	Use:   "kpc-oilprice",
	Short: "KPC oil price server",
	Long: `KPC oil price server publishes the Kuwait Petroleum Corporation
	> crude (KEC), butane and propane prices as JSON`,
	Run: run,
}

// Execute executes the root command.
func Execute(v string) {
	version = v
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	cobra.OnInitialize(initCfg)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to configuration file (optional)")

	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(flushCmd)
	rootCmd.AddCommand(versionCmd)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("general.log_level", int(log.InfoLevel))
	v.SetDefault("http.bind", "0.0.0.0:8080")

	v.SetDefault("cache.connection", "redis://localhost:6379")
	v.SetDefault("cache.expiration_in_hours", 24)
	v.SetDefault("cache.key", storage.PricesKey)
	v.SetDefault("cache.max_idle", 10)
	v.SetDefault("cache.idle_timeout", 5*time.Minute)

	v.SetDefault("source.url", price.DefaultURL)
	v.SetDefault("source.charset", "utf-8")
	v.SetDefault("source.timeout", 30*time.Second)

	v.SetDefault("mysql.automigrate", false)
	v.SetDefault("mysql.max_idle_connections", 2)

	// app setting names used by existing deployments
	v.BindEnv("cache.connection", "CacheConnection")
	v.BindEnv("cache.expiration_in_hours", "CacheExpirationInHours")

	return v
}

// loadConfig reads the TOML file at path, or ./config.toml when path is
// empty, over the defaults. Env aliases win over both.
func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	var c config.Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, errors.Wrap(err, "error loading config file")
		}
		v.SetConfigType("toml")
		if err := v.ReadConfig(bytes.NewBuffer(b)); err != nil {
			return c, errors.Wrap(err, "error loading config file")
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			switch err.(type) {
			case viper.ConfigFileNotFoundError:
				log.Warning("No config file found, use default.")
			default:
				return c, errors.Wrap(err, "read config file error")
			}
		}
	}

	viperHooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	)

	if err := v.Unmarshal(&c, viper.DecodeHook(viperHooks)); err != nil {
		return c, errors.Wrap(err, "unmarshal config error")
	}

	return c, validate(c)
}

func initCfg() {
	c, err := loadConfig(newViper(), cfgFile)
	if err != nil {
		log.WithError(err).WithField("config", cfgFile).Fatal("invalid configuration")
	}
	config.C = c

	log.SetLevel(log.Level(config.C.General.LogLevel))
}

// newFetcher wires the fetcher to the storage set up by storage.Setup.
func newFetcher(c config.Config) *price.Fetcher {
	var rec price.Recorder = price.NopRecorder{}
	if d := storage.DB(); d != nil {
		rec = storage.NewHistoryRecorder(d)
	}

	return price.NewFetcher(
		storage.NewPriceCache(storage.RedisPool(), c.Cache.Key),
		price.NewSource(c.Source.URL, c.Source.Charset, c.Source.Timeout),
		rec,
		c.CacheExpiration(),
	)
}
