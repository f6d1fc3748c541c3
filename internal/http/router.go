package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/cognigen/cognigen-backend/internal/http/handlers"
	httpMW "github.com/cognigen/cognigen-backend/internal/http/middleware"
	"github.com/cognigen/cognigen-backend/internal/observability"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
)

const DefaultServiceName = "cognigen-backend"

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	LearningPathHandler *httpH.LearningPathHandler
	HealthHandler       *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if h := cfg.LearningPathHandler; h != nil {
			paths := protected.Group("/learning-paths")

			// Paths
			paths.POST("/generate", h.GenerateLearningPath)
			paths.GET("", h.ListLearningPaths)
			paths.GET("/:id", h.GetLearningPath)
			paths.PATCH("/:id", h.UpdateLearningPath)
			paths.DELETE("/:id", h.DeleteLearningPath)

			// Topics
			paths.POST("/:id/topics", h.AddTopic)
			paths.PATCH("/:id/topics/:topicId", h.UpdateTopic)
			paths.DELETE("/:id/topics/:topicId", h.DeleteTopic)
			paths.PATCH("/:id/reorder-topics", h.ReorderTopics)
			paths.POST("/:id/topics/:topicId/generate-content", h.GenerateTopicContent)

			// Submodules
			paths.POST("/:id/topics/:topicId/submodules", h.AddSubmodule)
			paths.PATCH("/:id/topics/:topicId/submodules/:subId", h.UpdateSubmodule)
			paths.DELETE("/:id/topics/:topicId/submodules/:subId", h.DeleteSubmodule)
			paths.PATCH("/:id/topics/:topicId/reorder-submodules", h.ReorderSubmodules)
			paths.PATCH("/:id/topics/:topicId/submodules/:subId/complete", h.MarkSubmoduleComplete)
			paths.POST("/:id/topics/:topicId/submodules/:subId/generate-quiz", h.GenerateMiniQuiz)

			// Cells
			paths.POST("/:id/topics/:topicId/submodules/:subId/cells", h.AddCell)
			paths.PATCH("/:id/topics/:topicId/submodules/:subId/cells/:cellIndex", h.UpdateCell)
			paths.DELETE("/:id/topics/:topicId/submodules/:subId/cells/:cellIndex", h.DeleteCell)
			paths.PATCH("/:id/topics/:topicId/submodules/:subId/reorder-cells", h.ReorderCells)
		}
	}

	return r
}
