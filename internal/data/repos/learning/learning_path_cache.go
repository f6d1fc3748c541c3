package learning

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	types "github.com/cognigen/cognigen-backend/internal/domain/learning"
	"github.com/cognigen/cognigen-backend/internal/platform/dbctx"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
)

// PathCache is the byte-level store behind the read-through path cache.
type PathCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type cachedLearningPathRepo struct {
	LearningPathRepo
	cache PathCache
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedLearningPathRepo wraps inner with a read-through cache for owner
// lookups. Reads inside a transaction and GetForUpdate bypass the cache. Cache
// failures are logged and fall back to the database.
func NewCachedLearningPathRepo(inner LearningPathRepo, cache PathCache, ttl time.Duration, baseLog *logger.Logger) LearningPathRepo {
	if cache == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &cachedLearningPathRepo{
		LearningPathRepo: inner,
		cache:            cache,
		ttl:              ttl,
		log:              baseLog.With("repo", "CachedLearningPathRepo"),
	}
}

func PathCacheKey(id, userID uuid.UUID) string {
	return fmt.Sprintf("learning_path:%s:%s", userID, id)
}

func (r *cachedLearningPathRepo) GetByIDAndUser(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.LearningPath, error) {
	if dbc.Tx != nil {
		return r.LearningPathRepo.GetByIDAndUser(dbc, id, userID)
	}
	ctx := dbc.Context()
	key := PathCacheKey(id, userID)

	raw, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.log.Warn("path cache get failed", "key", key, "error", err)
	} else if ok {
		var p types.LearningPath
		if err := json.Unmarshal(raw, &p); err == nil && p.UserID == userID {
			normalizeDocument(&p)
			return &p, nil
		}
		r.log.Warn("path cache entry unreadable", "key", key)
	}

	p, err := r.LearningPathRepo.GetByIDAndUser(dbc, id, userID)
	if err != nil || p == nil {
		return p, err
	}
	if raw, err := json.Marshal(p); err == nil {
		if err := r.cache.Set(ctx, key, raw, r.ttl); err != nil {
			r.log.Warn("path cache set failed", "key", key, "error", err)
		}
	}
	return p, nil
}

func (r *cachedLearningPathRepo) Save(dbc dbctx.Context, row *types.LearningPath) error {
	err := r.LearningPathRepo.Save(dbc, row)
	if row != nil {
		r.evict(dbc.Context(), row.ID, row.UserID)
	}
	return err
}

func (r *cachedLearningPathRepo) DeleteByIDAndUser(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (bool, error) {
	ok, err := r.LearningPathRepo.DeleteByIDAndUser(dbc, id, userID)
	r.evict(dbc.Context(), id, userID)
	return ok, err
}

func (r *cachedLearningPathRepo) evict(ctx context.Context, id, userID uuid.UUID) {
	key := PathCacheKey(id, userID)
	if err := r.cache.Delete(ctx, key); err != nil {
		r.log.Warn("path cache delete failed", "key", key, "error", err)
	}
}
