package storage

import (
	"fmt"
	"time"

	"kpcoilprice/config"

	"github.com/gomodule/redigo/redis"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var redisPool *redis.Pool

var db *gorm.DB

// Setup configures the Redis pool and, when a DSN is set, the history database.
func Setup(c config.Config) error {

	log.Info("storage: setting up storage module")

	log.Info("storage: setting up Redis connection pool")

	ep, err := parseCacheConnection(c.Cache.Connection)
	if err != nil {
		return errors.Wrap(err, "storage: cache connection error")
	}

	redisPool = &redis.Pool{
		MaxIdle:     c.Cache.MaxIdle,
		MaxActive:   c.Cache.MaxActive,
		IdleTimeout: c.Cache.IdleTimeout,
		Wait:        true,
		Dial: func() (redis.Conn, error) {
			c, err := ep.dial(time.Minute)
			if err != nil {
				return nil, fmt.Errorf("redis connection error: %s", err)
			}
			return c, err
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}

			_, err := c.Do("PING")
			if err != nil {
				return fmt.Errorf("ping redis error: %s", err)
			}
			return nil
		},
	}

	if c.MySQL.DSN == "" {
		log.Info("storage: mysql dsn not configured, price history disabled")
		return nil
	}

	log.Info("storage: connecting to database")
	d, err := gorm.Open("mysql", c.MySQL.DSN)
	if err != nil {
		return errors.Wrap(err, "storage: mysql connection error")
	}
	d.DB().SetMaxOpenConns(c.MySQL.MaxOpenConnections)
	d.DB().SetMaxIdleConns(c.MySQL.MaxIdleConnections)
	for {
		if err := d.DB().Ping(); err != nil {
			log.WithError(err).Warning("storage: ping mysql error, will retry in 2s")
			time.Sleep(2 * time.Second)
		} else {
			break
		}
	}

	if c.MySQL.Automigrate {
		log.Info("storage: applying database migrations")
		if err := d.AutoMigrate(&PriceHistory{}).Error; err != nil {
			d.Close()
			return errors.Wrap(err, "storage: migrate price history error")
		}
	}

	db = d

	return nil
}

// Stop releases the Redis pool and the database handle.
func Stop() error {
	var result error

	if redisPool != nil {
		if err := redisPool.Close(); err != nil {
			log.WithError(err).Errorf("redis pool close error")
			result = err
		}
	}

	if db != nil {
		if err := db.Close(); err != nil {
			log.WithError(err).Errorf("database close error")
			result = err
		}
	}

	return result
}

// Transaction runs f inside a database transaction on d.
func Transaction(d *gorm.DB, f func(tx *gorm.DB) error) error {
	tx := d.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.Error; err != nil {
		return err
	}

	err := f(tx)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// DB returns the history database, nil when history is disabled.
func DB() *gorm.DB {
	return db
}

func RedisPool() *redis.Pool {
	return redisPool
}
