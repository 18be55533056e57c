package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"liyu1981.xyz/device-health-service/pkg/scoring"
)

const (
	DefaultTTL = 5 * time.Minute
	keyPrefix  = "device-health:settings:"
)

var ErrMiss = errors.New("settings not cached")

// SettingsCache holds resolved per-centro settings in front of the database.
type SettingsCache interface {
	Get(ctx context.Context, centroID string) (scoring.Settings, error)
	Set(ctx context.Context, centroID string, settings scoring.Settings) error
	Invalidate(ctx context.Context, centroID string) error
	Close() error
}

type Options struct {
	Addr        string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
	TTL         time.Duration
}

type RedisSettingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSettingsCache(opts Options) (*RedisSettingsCache, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		PoolSize:    opts.PoolSize,
		DialTimeout: opts.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisSettingsCacheWithClient(client, opts.TTL), nil
}

func NewRedisSettingsCacheWithClient(client *redis.Client, ttl time.Duration) *RedisSettingsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisSettingsCache{client: client, ttl: ttl}
}

func Key(centroID string) string {
	return keyPrefix + centroID
}

func (c *RedisSettingsCache) Get(ctx context.Context, centroID string) (scoring.Settings, error) {
	raw, err := c.client.Get(ctx, Key(centroID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return scoring.Settings{}, ErrMiss
	}
	if err != nil {
		return scoring.Settings{}, fmt.Errorf("read cached settings: %w", err)
	}

	var s scoring.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return scoring.Settings{}, fmt.Errorf("decode cached settings: %w", err)
	}
	return s, nil
}

func (c *RedisSettingsCache) Set(ctx context.Context, centroID string, settings scoring.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(centroID), raw, c.ttl).Err()
}

func (c *RedisSettingsCache) Invalidate(ctx context.Context, centroID string) error {
	return c.client.Del(ctx, Key(centroID)).Err()
}

func (c *RedisSettingsCache) Close() error {
	return c.client.Close()
}
