package learning

import (
	"time"

	"github.com/google/uuid"

	"github.com/cognigen/cognigen-backend/internal/data/repos"
	"github.com/cognigen/cognigen-backend/internal/observability"
	"github.com/cognigen/cognigen-backend/internal/platform/aigen"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	Log *logger.Logger

	Paths repos.LearningPathRepo
	AI    aigen.Client

	Metrics *observability.Metrics

	Now   func() time.Time
	NewID func() string
}

// Usecases owns every learning path operation. Each one resolves the path
// through the owner-scoped repository, mutates the aggregate in memory and
// saves the whole document.
type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	deps.Log = deps.Log.With("service", "LearningPathUsecases")
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	return Usecases{deps: deps}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	if log != nil {
		u.deps.Log = log
	}
	return u
}
