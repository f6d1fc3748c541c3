package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cognigen/cognigen-backend/internal/data/db"
	"github.com/cognigen/cognigen-backend/internal/http"
	"github.com/cognigen/cognigen-backend/internal/observability"
	"github.com/cognigen/cognigen-backend/internal/platform/envutil"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *http.Server
	Metrics  *observability.Metrics

	database     *db.PostgresService
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfigFromEnv())
	metrics := observability.Init(log)

	database, err := db.NewPostgresService(cfg.Database.toDB(), log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(database.DB()); err != nil {
		_ = database.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := database.DB()

	clientset, err := wireClients(log, cfg)
	if err != nil {
		_ = database.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log, cfg, clientset)

	serviceset, err := wireServices(log, cfg, reposet, clientset, metrics)
	if err != nil {
		clientset.Close()
		_ = database.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(theDB, log, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, handlerset, middleware, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Clients:      clientset,
		Repos:        reposet,
		Services:     serviceset,
		Server:       server,
		Metrics:      metrics,
		database:     database,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(ctx, a.Cfg.Addr())
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
		a.otelShutdown = nil
	}
	a.Clients.Close()
	if a.database != nil {
		_ = a.database.Close()
		a.database = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
