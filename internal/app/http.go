package app

import (
	"gorm.io/gorm"

	"github.com/cognigen/cognigen-backend/internal/http"
	httpH "github.com/cognigen/cognigen-backend/internal/http/handlers"
	httpMW "github.com/cognigen/cognigen-backend/internal/http/middleware"
	"github.com/cognigen/cognigen-backend/internal/observability"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	LearningPath *httpH.LearningPathHandler
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(db),
		LearningPath: httpH.NewLearningPathHandler(log, services.Learning),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:                 log,
		ServiceName:         observability.OtelConfigFromEnv().ServiceName,
		CORSOrigins:         cfg.CORSOrigins,
		Metrics:             metrics,
		AuthMiddleware:      middleware.Auth,
		LearningPathHandler: handlers.LearningPath,
		HealthHandler:       handlers.Health,
	})
}
