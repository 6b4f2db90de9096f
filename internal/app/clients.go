package app

import (
	"github.com/filinglens/filinglens-backend/internal/clients/openai"
	rediscache "github.com/filinglens/filinglens-backend/internal/clients/redis"
	"github.com/filinglens/filinglens-backend/internal/pkg/logger"
)

type Clients struct {
	LLM openai.Client
	// BriefCache is nil when REDIS_ADDR is not configured.
	BriefCache rediscache.BriefCache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	llm, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, err
	}

	var cache rediscache.BriefCache
	if cfg.RedisAddr != "" {
		cache, err = rediscache.NewBriefCache(log)
		if err != nil {
			// The cache is an optimization; a missing redis never blocks
			// pipeline startup.
			log.Warn("Brief cache unavailable, continuing without it", "error", err)
			cache = nil
		}
	}

	return Clients{LLM: llm, BriefCache: cache}, nil
}
