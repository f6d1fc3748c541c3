package app

import (
	"fmt"

	learningmod "github.com/cognigen/cognigen-backend/internal/modules/learning"
	"github.com/cognigen/cognigen-backend/internal/observability"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
	"github.com/cognigen/cognigen-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Learning learningmod.Usecases
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, cfg.JWTSecretKey)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	learning := learningmod.New(learningmod.UsecasesDeps{
		Log:     log,
		Paths:   reposet.LearningPath,
		AI:      clients.AI,
		Metrics: metrics,
	})

	return Services{Auth: auth, Learning: learning}, nil
}
