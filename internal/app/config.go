package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognigen/cognigen-backend/internal/data/db"
	"github.com/cognigen/cognigen-backend/internal/http/middleware"
	"github.com/cognigen/cognigen-backend/internal/platform/aigen"
	"github.com/cognigen/cognigen-backend/internal/platform/envutil"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	Port         string   `yaml:"port"`
	JWTSecretKey string   `yaml:"jwt_secret_key"`
	CORSOrigins  []string `yaml:"cors_allow_origins"`

	Database DatabaseConfig `yaml:"database"`
	AI       AIConfig       `yaml:"ai_service"`
	Redis    RedisConfig    `yaml:"redis"`
}

type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"sslmode"`
	SQLitePath string `yaml:"sqlite_path"`
}

type AIConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

type RedisConfig struct {
	Addr                string `yaml:"addr"`
	Password            string `yaml:"password"`
	DB                  int    `yaml:"db"`
	PathCacheTTLSeconds int    `yaml:"path_cache_ttl_seconds"`
}

func defaultConfig() Config {
	return Config{
		Port:         "8080",
		JWTSecretKey: defaultJWTSecret,
		CORSOrigins:  append([]string(nil), middleware.DefaultAllowOrigins...),
		Database: DatabaseConfig{
			Driver:  db.DriverPostgres,
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "cognigen",
			SSLMode: "disable",
		},
		AI: AIConfig{
			URL:            aigen.DefaultBaseURL,
			TimeoutSeconds: int(aigen.DefaultTimeout / time.Second),
			MaxRetries:     aigen.DefaultMaxRetries,
		},
		Redis: RedisConfig{PathCacheTTLSeconds: 300},
	}
}

// LoadConfig starts from defaults, overlays APP_CONFIG_FILE when set and lets
// environment variables override both.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()

	if path := envutil.String("APP_CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if log != nil {
			log.Info("config file loaded", "path", path)
		}
	}

	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.JWTSecretKey)
	cfg.CORSOrigins = envutil.CSV("CORS_ALLOW_ORIGINS", cfg.CORSOrigins)

	cfg.Database.Driver = envutil.String("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Host = envutil.String("POSTGRES_HOST", cfg.Database.Host)
	cfg.Database.Port = envutil.String("POSTGRES_PORT", cfg.Database.Port)
	cfg.Database.User = envutil.String("POSTGRES_USER", cfg.Database.User)
	cfg.Database.Password = envutil.String("POSTGRES_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = envutil.String("POSTGRES_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.SQLitePath = envutil.String("SQLITE_PATH", cfg.Database.SQLitePath)

	cfg.AI.URL = envutil.String("AI_SERVICE_URL", cfg.AI.URL)
	cfg.AI.TimeoutSeconds = envutil.Int("AI_SERVICE_TIMEOUT_SECONDS", cfg.AI.TimeoutSeconds)
	cfg.AI.MaxRetries = envutil.Int("AI_SERVICE_MAX_RETRIES", cfg.AI.MaxRetries)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.PathCacheTTLSeconds = envutil.Int("PATH_CACHE_TTL_SECONDS", cfg.Redis.PathCacheTTLSeconds)

	if strings.TrimSpace(cfg.JWTSecretKey) == "" {
		return Config{}, fmt.Errorf("JWT_SECRET_KEY must not be empty")
	}
	if cfg.JWTSecretKey == defaultJWTSecret && log != nil {
		log.Warn("JWT_SECRET_KEY not set; using the development default")
	}
	return cfg, nil
}

func (c Config) Addr() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

func (c DatabaseConfig) toDB() db.Config {
	return db.Config{
		Driver:           c.Driver,
		PostgresHost:     c.Host,
		PostgresPort:     c.Port,
		PostgresUser:     c.User,
		PostgresPassword: c.Password,
		PostgresName:     c.Name,
		PostgresSSLMode:  c.SSLMode,
		SQLitePath:       c.SQLitePath,
	}
}

func (c AIConfig) toClient() aigen.Config {
	return aigen.Config{
		BaseURL:    c.URL,
		Timeout:    time.Duration(c.TimeoutSeconds) * time.Second,
		MaxRetries: c.MaxRetries,
	}
}
