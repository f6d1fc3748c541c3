package repos

import (
	"time"

	"gorm.io/gorm"

	"github.com/cognigen/cognigen-backend/internal/data/repos/learning"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
)

type LearningPathRepo = learning.LearningPathRepo
type PathCache = learning.PathCache

func NewLearningPathRepo(db *gorm.DB, log *logger.Logger) LearningPathRepo {
	return learning.NewLearningPathRepo(db, log)
}

func NewCachedLearningPathRepo(inner LearningPathRepo, cache PathCache, ttl time.Duration, log *logger.Logger) LearningPathRepo {
	return learning.NewCachedLearningPathRepo(inner, cache, ttl, log)
}
