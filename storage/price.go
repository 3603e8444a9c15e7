package storage

import (
	"context"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/pkg/errors"
)

const (
	PricesKey = "OilPrices"
)

// The cache functions check ctx before borrowing a pool connection, which can
// block when max_active is reached. A command already sent is bounded by the
// pool's dial read/write timeouts, not by ctx.
func conn(ctx context.Context, p *redis.Pool) (redis.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "redis connection aborted")
	}
	return p.Get(), nil
}

// GetPriceCache returns the raw cached value at key. A missing or empty value
// yields ErrDoesNotExists.
func GetPriceCache(ctx context.Context, p *redis.Pool, key string) ([]byte, error) {
	c, err := conn(ctx, p)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	val, err := redis.Bytes(c.Do("GET", key))
	if err != nil {
		if err == redis.ErrNil {
			return nil, ErrDoesNotExists
		}
		return nil, errors.Wrap(err, "redis get error")
	}

	if len(val) == 0 {
		return nil, ErrDoesNotExists
	}

	return val, nil
}

// CreatePriceCache replaces the value at key, expiring it after ttl.
func CreatePriceCache(ctx context.Context, p *redis.Pool, key string, val []byte, ttl time.Duration) error {
	if ttl < time.Second {
		return errors.Errorf("invalid cache ttl %s", ttl)
	}

	c, err := conn(ctx, p)
	if err != nil {
		return err
	}
	defer c.Close()

	_, err = c.Do("SET", key, val, "EX", int64(ttl/time.Second))
	if err != nil {
		return errors.Wrap(err, "set price cache error")
	}

	return nil
}

func FlushPriceCache(ctx context.Context, p *redis.Pool, key string) error {
	c, err := conn(ctx, p)
	if err != nil {
		return err
	}
	defer c.Close()

	_, err = c.Do("DEL", key)
	if err != nil {
		return errors.Wrap(err, "redis delete error")
	}

	return nil
}

// PriceCache binds the cache functions to one pool and key.
type PriceCache struct {
	pool *redis.Pool
	key  string
}

func NewPriceCache(p *redis.Pool, key string) *PriceCache {
	if key == "" {
		key = PricesKey
	}
	return &PriceCache{pool: p, key: key}
}

func (c *PriceCache) Key() string {
	return c.key
}

func (c *PriceCache) Get(ctx context.Context) ([]byte, error) {
	return GetPriceCache(ctx, c.pool, c.key)
}

func (c *PriceCache) Set(ctx context.Context, val []byte, ttl time.Duration) error {
	return CreatePriceCache(ctx, c.pool, c.key, val, ttl)
}

func (c *PriceCache) Flush(ctx context.Context) error {
	return FlushPriceCache(ctx, c.pool, c.key)
}
