package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cognigen/cognigen-backend/internal/platform/aigen"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
	redisclient "github.com/cognigen/cognigen-backend/internal/platform/redis"
)

const pathCachePrefix = "cg:"

type Clients struct {
	AI        aigen.Client
	Redis     *goredis.Client
	PathCache *redisclient.PathCache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	ai, err := aigen.NewClient(log, cfg.AI.toClient())
	if err != nil {
		return Clients{}, fmt.Errorf("init ai client: %w", err)
	}

	// Redis is optional; without REDIS_ADDR paths are read straight from the database.
	rdb, err := redisclient.NewClient(log, redisclient.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	var cache *redisclient.PathCache
	if rdb != nil {
		cache = redisclient.NewPathCache(rdb, pathCachePrefix)
	}

	return Clients{AI: ai, Redis: rdb, PathCache: cache}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
