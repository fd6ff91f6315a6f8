package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	pkgcache "github.com/Offshore-Miner/Crypto-Dash/pkg/cache"
)

// RedisCache fronts the shared layered cache (in-process memory over Redis)
// with the byte-oriented API the use cases consume.
type RedisCache struct {
	svc pkgcache.Service
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisCache(cfg RedisConfig) *RedisCache {
	host, port := splitAddr(cfg.Addr)
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Password),
		pkgcache.WithRedisDB(cfg.DB),
		pkgcache.WithRedisPrefix("cryptodash"),
	)
	if err != nil {
		// Redis unreachable at startup: serve from the memory layer only.
		return &RedisCache{svc: pkgcache.NewMemoryCache()}
	}
	return &RedisCache{svc: pkgcache.NewLayeredCache(rc)}
}

func splitAddr(addr string) (string, int) {
	host, portStr, found := strings.Cut(addr, ":")
	if !found {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 6379
	}
	return host, port
}

func (r *RedisCache) GetBytes(key string) ([]byte, bool, error) {
	var b []byte
	err := r.svc.Get(context.Background(), key, &b)
	if err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (r *RedisCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	return r.svc.Set(context.Background(), key, value, ttl)
}
