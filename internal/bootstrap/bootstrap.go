package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/cgpa/internal/app/controllers"
	appMigrations "github.com/yigit/cgpa/internal/app/migrations"
	appRepos "github.com/yigit/cgpa/internal/app/repositories"
	appRoutes "github.com/yigit/cgpa/internal/app/routes"
	appServices "github.com/yigit/cgpa/internal/app/services"
	"github.com/yigit/cgpa/internal/config"
	"github.com/yigit/cgpa/internal/db"
	"github.com/yigit/cgpa/internal/grading"
	appMiddleware "github.com/yigit/cgpa/internal/middleware"
	"github.com/yigit/cgpa/internal/pkg/filestorage"
	"github.com/yigit/cgpa/internal/pkg/logger"
	"github.com/yigit/cgpa/internal/seed"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Engine               *grading.Engine
	ProfileService       appServices.ProfileService
	CalculatorController *appControllers.CalculatorController
	ProfileController    *appControllers.ProfileController
	Repos                *appRepos.Repositories
	DB                   Pinger
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// NewGradingEngine builds the grading engine selected by the configuration
func NewGradingEngine(cfg *config.Config) *grading.Engine {
	if cfg.Grading.ExtendBrackets {
		return grading.NewEngine(grading.WithRules(grading.ExtendedRules()))
	}
	return grading.NewEngine()
}

// Storage is the profile store selected by the configuration. DB is nil for
// the file driver.
type Storage struct {
	Store appServices.ProfileStore
	Repos *appRepos.Repositories
	DB    *db.PostgresDB
}

// Close releases the database pool, if any
func (s *Storage) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}

// SetupStorage opens the configured profile store.
func SetupStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	if cfg.Storage.Driver == config.StorageDriverFile {
		local, err := filestorage.NewLocalStorage(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		lgr.Info().Str("path", cfg.Storage.Path).Msg("Using file profile storage")
		return &Storage{Store: local}, nil
	}

	database, err := SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}
	repos := appRepos.NewRepositories(database.Pool)
	return &Storage{Store: repos.ProfileRepository, Repos: repos, DB: database}, nil
}

// BuildDependencies initializes application services and controllers on top
// of the opened storage.
func BuildDependencies(cfg *config.Config, storage *Storage, lgr zerolog.Logger) *Dependencies {
	var pinger Pinger
	if storage.DB != nil {
		pinger = storage.DB
	}
	deps := NewDependencies(cfg, storage.Store, pinger, lgr)
	deps.Repos = storage.Repos
	return deps
}

// SeedData creates the optional demo data. Failures are logged and do not
// stop startup.
func SeedData(ctx context.Context, cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) {
	if !cfg.Seed.DemoProfile {
		return
	}
	if err := seed.CreateDemoProfile(ctx, deps.ProfileService, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
	}
}

// NewDependencies wires services and controllers on top of a profile store
func NewDependencies(cfg *config.Config, store appServices.ProfileStore, pinger Pinger, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{
		Engine: NewGradingEngine(cfg),
		DB:     pinger,
		Logger: lgr,
	}

	lgr.Info().
		Bool("extendBrackets", cfg.Grading.ExtendBrackets).
		Ints("creditHours", deps.Engine.Rules().CreditHours()).
		Msg("Grading rules loaded")

	deps.ProfileService = appServices.NewProfileService(store, deps.Engine, lgr)
	deps.CalculatorController = appControllers.NewCalculatorController(deps.ProfileService)
	deps.ProfileController = appControllers.NewProfileController(deps.ProfileService)
	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("ginMode", gin.Mode()).Msg("Gin mode set")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(),
	)

	appRoutes.SetupRouter(router, deps.CalculatorController, deps.ProfileController)

	router.GET("/health", healthHandler(deps.DB))

	return router
}

func healthHandler(pinger Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			defer cancel()
			if err := pinger.Ping(ctx); err != nil {
				logger.Warn().Err(err).Msg("Health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
