package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/gilby125/hotel-availability/config"
	"github.com/gilby125/hotel-availability/hotels"
	"github.com/gilby125/hotel-availability/pkg/cache"
	"github.com/gilby125/hotel-availability/pkg/logger"
	"github.com/gilby125/hotel-availability/supplier"
	"github.com/redis/go-redis/v9"
)

// Services is an Engine together with the session storage backing it.
type Services struct {
	Engine   *Engine
	Sessions *cache.SessionStore

	// Exactly one of Memory and Redis is set, per the session backend.
	Memory *cache.MemoryCache
	Redis  *redis.Client
}

// Build wires the validator, session store, supplier services and converter
// described by cfg. The Redis backend is pinged before returning.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Services, error) {
	rules, pc, err := cfg.LoadRules()
	if err != nil {
		return nil, err
	}
	validator, err := hotels.NewRequestValidator(rules)
	if err != nil {
		return nil, fmt.Errorf("invalid validation rules: %w", err)
	}
	converter, err := pc.Converter()
	if err != nil {
		return nil, err
	}

	s := &Services{}
	var backing cache.Cache
	switch cfg.SessionConfig.Backend {
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr(),
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if _, err := client.Ping(pingCtx).Result(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		s.Redis = client
		backing = cache.NewRedisCache(client, cfg.RedisConfig.Prefix)
	default:
		s.Memory = cache.NewMemoryCache()
		backing = s.Memory
	}

	s.Sessions = cache.NewSessionStore(backing, cfg.SessionConfig.TTL)
	s.Engine = New(
		validator,
		supplier.NewLoginService(s.Sessions),
		supplier.NewSearchService(s.Sessions, nil),
		converter,
		log,
	)
	return s, nil
}

// Close releases the Redis connection, if any.
func (s *Services) Close() error {
	if s.Redis != nil {
		return s.Redis.Close()
	}
	return nil
}
