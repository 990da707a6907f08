package app

import (
	"context"
	"fmt"

	"github.com/upb/rest-api-modernized/config"
	"github.com/upb/rest-api-modernized/internal/observability"
	"github.com/upb/rest-api-modernized/middleware"
	"github.com/upb/rest-api-modernized/oidc"
	"github.com/upb/rest-api-modernized/repositories"
	"github.com/upb/rest-api-modernized/repositories/postgres"
	"github.com/upb/rest-api-modernized/services/projects"
	"github.com/upb/rest-api-modernized/services/tasks"
	"github.com/upb/rest-api-modernized/services/vulnerabilities"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	DB      *postgres.DB
	Logger  *zap.Logger
	Metrics *observability.Metrics

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Repositories *repositories.Repositories
	TxManager    repositories.TransactionManager

	// Auth
	OIDC           *oidc.Provider
	AuthMiddleware *middleware.AuthMiddleware

	// Services
	Projects        *projects.Service
	Tasks           *tasks.Service
	Vulnerabilities *vulnerabilities.Service
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// Initialize PostgreSQL
	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.wire(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// NewDependenciesFromDB wires dependencies around an already opened pool.
// The schema is assumed to exist.
func NewDependenciesFromDB(cfg *config.Config, db *postgres.DB, logger *zap.Logger) *Dependencies {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		RepoFactory: postgres.NewRepositoryFactoryFromDB(db, logger),
	}
	deps.wire(cfg)
	return deps
}

func (d *Dependencies) wire(cfg *config.Config) {
	d.initMetrics(cfg)
	d.initRepositories()
	d.initAuth(cfg)
	d.initServices()
}

// initDatabase opens the PostgreSQL pool and applies the schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg.Database, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	if err := factory.GetDB().InitSchema(ctx); err != nil {
		_ = factory.Close()
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()
	return nil
}

func (d *Dependencies) initMetrics(cfg *config.Config) {
	if !cfg.Observability.MetricsEnabled {
		return
	}
	d.Metrics = observability.NewMetrics(cfg.App.Name)
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	d.Repositories = d.RepoFactory.NewRepositories()
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

// initAuth builds the OIDC pipeline. Missing issuer or audience is not fatal:
// protected routes then answer with a configuration error.
func (d *Dependencies) initAuth(cfg *config.Config) {
	if cfg.OIDC.IssuerURL == "" || cfg.OIDC.Audience == "" {
		d.Logger.Warn("oidc issuer or audience not configured, protected routes will fail")
	}

	oidcConfig := oidc.Config{
		Issuer:      cfg.OIDC.IssuerURL,
		Audience:    cfg.OIDC.Audience,
		ClientID:    cfg.OIDC.ClientID,
		CacheTTL:    cfg.OIDC.CacheTTL(),
		HTTPTimeout: cfg.OIDC.HTTPTimeout,
		Leeway:      cfg.OIDC.ClockSkew,
	}
	if d.Metrics != nil {
		oidcConfig.Recorder = d.Metrics
	}

	d.OIDC = oidc.NewProvider(oidcConfig, d.Logger)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.OIDC.Verifier, d.Metrics, d.Logger)

	d.Logger.Info("oidc verifier initialized",
		zap.String("issuer", cfg.OIDC.IssuerURL),
		zap.String("audience", cfg.OIDC.Audience))
}

func (d *Dependencies) initServices() {
	repos := d.Repositories
	d.Projects = projects.NewService(repos.Projects, d.TxManager, d.Logger)
	d.Tasks = tasks.NewService(repos.Tasks, repos.Projects, d.TxManager, d.Logger)
	d.Vulnerabilities = vulnerabilities.NewService(repos.Vulnerabilities, repos.Projects, d.TxManager, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.OIDC != nil {
		for document, stats := range d.OIDC.CacheStats() {
			d.Logger.Info("oidc cache stats",
				zap.String("document", document),
				zap.Bool("cached", stats.Cached),
				zap.Uint64("hits", stats.Hits),
				zap.Uint64("misses", stats.Misses))
		}
		d.OIDC.ClearCaches()
	}

	// Close database connection
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
