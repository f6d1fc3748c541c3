package app

import (
	"time"

	"gorm.io/gorm"

	"github.com/cognigen/cognigen-backend/internal/data/repos"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
)

type Repos struct {
	LearningPath repos.LearningPathRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients) Repos {
	log.Info("Wiring repos...")
	paths := repos.NewLearningPathRepo(db, log)
	if clients.PathCache != nil {
		ttl := time.Duration(cfg.Redis.PathCacheTTLSeconds) * time.Second
		paths = repos.NewCachedLearningPathRepo(paths, clients.PathCache, ttl, log)
	}
	return Repos{LearningPath: paths}
}
