package storage

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/pkg/errors"
)

// cacheEndpoint is a parsed CacheConnection value. It is either a redis:// URL
// or the comma separated "host:port,password=...,ssl=True" form.
type cacheEndpoint struct {
	URL      string
	Address  string
	Password string
	Database int
	TLS      bool
}

func parseCacheConnection(s string) (cacheEndpoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return cacheEndpoint{}, errors.New("empty connection string")
	}

	if strings.HasPrefix(s, "redis://") || strings.HasPrefix(s, "rediss://") {
		return cacheEndpoint{URL: s}, nil
	}

	var ep cacheEndpoint
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 1 {
			if ep.Address != "" {
				return cacheEndpoint{}, errors.Errorf("multiple endpoints not supported: %s", part)
			}
			ep.Address = part
			continue
		}

		key, val := strings.ToLower(strings.TrimSpace(kv[0])), strings.TrimSpace(kv[1])
		switch key {
		case "password":
			ep.Password = val
		case "ssl":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return cacheEndpoint{}, errors.Wrapf(err, "invalid ssl value %q", val)
			}
			ep.TLS = b
		case "defaultdatabase":
			n, err := strconv.Atoi(val)
			if err != nil {
				return cacheEndpoint{}, errors.Wrapf(err, "invalid defaultDatabase value %q", val)
			}
			ep.Database = n
		}
	}

	if ep.Address == "" {
		return cacheEndpoint{}, errors.New("connection string has no endpoint")
	}

	if _, _, err := net.SplitHostPort(ep.Address); err != nil {
		port := "6379"
		if ep.TLS {
			port = "6380"
		}
		ep.Address = net.JoinHostPort(ep.Address, port)
	}

	return ep, nil
}

func (ep cacheEndpoint) dial(timeout time.Duration) (redis.Conn, error) {
	opts := []redis.DialOption{
		redis.DialReadTimeout(timeout),
		redis.DialWriteTimeout(timeout),
	}

	if ep.URL != "" {
		return redis.DialURL(ep.URL, opts...)
	}

	opts = append(opts,
		redis.DialPassword(ep.Password),
		redis.DialDatabase(ep.Database),
		redis.DialUseTLS(ep.TLS),
	)
	return redis.Dial("tcp", ep.Address, opts...)
}
